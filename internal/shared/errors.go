package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Cache and normalization errors
	ErrInvalidEntity  = fmt.Errorf("invalid entity")
	ErrEntityNotFound = fmt.Errorf("entity not found")
	ErrKindMismatch   = fmt.Errorf("entity kind mismatch")

	// List aggregation errors
	ErrParentNotFound = fmt.Errorf("parent entity not found")
	ErrUnknownList    = fmt.Errorf("unknown list tag")

	// Transport errors
	ErrTransport          = fmt.Errorf("transport request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
)
