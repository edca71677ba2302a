package services

import "errors"

// Analytics service errors
var (
	ErrUnknownAnalysis = errors.New("unknown analysis type")
	ErrNoRecords       = errors.New("no records loaded")

	// General errors
	ErrInvalidInput       = errors.New("invalid input")
	ErrServiceUnavailable = errors.New("service temporarily unavailable")
)
