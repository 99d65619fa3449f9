package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Local persistence errors. Callers treat a failed read as "value absent"
	// and never surface ErrStorage to the user.
	ErrStorage = fmt.Errorf("local storage unavailable")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")

	// API and transport errors
	ErrTransport          = fmt.Errorf("request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrEntityNotFound     = fmt.Errorf("entity not found")

	// Input validation errors
	ErrValidation      = fmt.Errorf("validation failed")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
