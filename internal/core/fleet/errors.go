// Package fleet contains pure functions for parsing and linking fleet
// files: the YAML description of ships, services and container instances
// that plays operate on. No I/O happens here.
package fleet

import (
	"errors"
	"fmt"
)

// =============================================================================
// Error Types
// =============================================================================

var (
	// Input validation errors
	ErrEmptyInput = errors.New("fleet file is empty")

	// YAML parsing errors
	ErrInvalidYAML = errors.New("invalid YAML syntax")

	// Structure errors
	ErrNoShips    = errors.New("fleet must define at least one ship")
	ErrNoServices = errors.New("fleet must define at least one service")

	// Linking errors
	ErrUnknownShip        = errors.New("unknown ship")
	ErrUnknownService     = errors.New("unknown required service")
	ErrSelfDependency     = errors.New("service cannot require itself")
	ErrDependencyCycle    = errors.New("dependency cycle detected")
	ErrDuplicateContainer = errors.New("duplicate container name")
	ErrNoImage            = errors.New("container has no image")
	ErrInvalidPort        = errors.New("invalid port specification")
)

// FleetError wraps errors with context about where loading failed.
type FleetError struct {
	Field   string // e.g., "services.web.instances.web-1"
	Message string
	Err     error
}

func (e *FleetError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *FleetError) Unwrap() error {
	return e.Err
}

// NewFleetError creates a new FleetError.
func NewFleetError(field, message string, err error) *FleetError {
	return &FleetError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}
