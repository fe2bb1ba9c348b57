package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrTokenExpired     = fmt.Errorf("access token expired")
	ErrNoSession        = fmt.Errorf("no saved session")

	// Remote store errors
	ErrRemoteRequest  = fmt.Errorf("remote request failed")
	ErrRecordNotFound = fmt.Errorf("record not found")
	ErrUploadFailed   = fmt.Errorf("upload failed")

	// Upload pipeline errors
	ErrInvalidAudioFile = fmt.Errorf("not a valid audio file")
	ErrItemNotFound     = fmt.Errorf("queue item not found")

	// Wiring errors
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
