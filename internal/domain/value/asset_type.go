package value

import (
	"fmt"
	"strings"
)

type AssetType string

const (
	AssetRealEstate AssetType = "real_estate"
	AssetVehicle    AssetType = "vehicle"
	AssetBusiness   AssetType = "business"

	// AssetAny is only valid as a buyer preference.
	AssetAny AssetType = "any"
)

func (a AssetType) String() string {
	return string(a)
}

func ParseAssetType(raw string) (AssetType, error) {
	switch a := AssetType(strings.ToLower(strings.TrimSpace(raw))); a {
	case AssetRealEstate, AssetVehicle, AssetBusiness, AssetAny:
		return a, nil
	case "realestate", "property", "house":
		return AssetRealEstate, nil
	default:
		return "", fmt.Errorf("unknown asset type %q", raw)
	}
}
