package utils

import "errors"

var (
	ErrInvalidTrip       = errors.New("invalid trip request")
	ErrInvalidInput      = errors.New("invalid input")
	ErrProviderFailure   = errors.New("ai provider failure")
	ErrMalformedResponse = errors.New("malformed ai response")
	ErrItineraryNotFound = errors.New("itinerary not found")
	ErrDatabaseError     = errors.New("database error")
)
