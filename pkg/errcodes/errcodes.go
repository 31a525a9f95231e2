package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError     failure.ErrorCode = "InternalServerError"
	TimeoutExceeded         failure.ErrorCode = "TimeoutExceeded"
	ValidationError         failure.ErrorCode = "ValidationError"
	NotFound                failure.ErrorCode = "NotFound"
	Unauthorized            failure.ErrorCode = "Unauthorized"
	Forbidden               failure.ErrorCode = "Forbidden"
	CollaboratorUnavailable failure.ErrorCode = "CollaboratorUnavailable"

	// Deals
	DealNotFound      failure.ErrorCode = "DealNotFound"
	InvalidAssetType  failure.ErrorCode = "InvalidAssetType"
	InvalidPrice      failure.ErrorCode = "InvalidPrice"
	InvalidStatus     failure.ErrorCode = "InvalidStatus"
	InvalidTransition failure.ErrorCode = "InvalidTransition"
	InvalidMotivation failure.ErrorCode = "InvalidMotivation"

	// Buyers
	BuyerNotFound    failure.ErrorCode = "BuyerNotFound"
	InvalidBuyerTier failure.ErrorCode = "InvalidBuyerTier"

	// Follow-ups
	FollowUpNotFound failure.ErrorCode = "FollowUpNotFound"

	// Scoring weights
	WeightsNotFound failure.ErrorCode = "WeightsNotFound"
)
