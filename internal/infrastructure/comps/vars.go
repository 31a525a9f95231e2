package comps

import (
	jsoniter "github.com/json-iterator/go"

	"dealflow/pkg/contextx"
)

var (
	logger = contextx.LoggerFromContextOrDefault         //nolint:gochecknoglobals
	json   = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals
)
