package docker

import (
	"errors"
	"fmt"
)

// =============================================================================
// Error Types
// =============================================================================

var (
	// Container errors
	ErrContainerNotFound       = errors.New("container not found")
	ErrContainerAlreadyExists  = errors.New("container already exists")
	ErrContainerNotRunning     = errors.New("container is not running")
	ErrContainerAlreadyRunning = errors.New("container is already running")

	// Image errors
	ErrImageNotFound   = errors.New("image not found")
	ErrImagePullFailed = errors.New("image pull failed")

	// Connection errors
	ErrPortAlreadyAllocated = errors.New("port is already allocated")
	ErrConnectionFailed     = errors.New("docker connection failed")
	ErrSSHIdentityRequired  = errors.New("ssh endpoint requires an identity file")
)

// Error wraps daemon errors with the ship and entity they concern.
type Error struct {
	Op      string // Operation that failed
	Ship    string // Ship the daemon runs on
	Entity  string // Entity type (container, image)
	ID      string // Entity ID or name if applicable
	Message string
	Err     error
}

func (e *Error) Error() string {
	s := e.Op
	if e.Entity != "" {
		s += " " + e.Entity
	}
	if e.ID != "" {
		s += " " + e.ID
	}
	if e.Ship != "" {
		s += " on " + e.Ship
	}
	return fmt.Sprintf("%s: %s", s, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new Error.
func NewError(op, ship, entity, id, message string, err error) *Error {
	return &Error{
		Op:      op,
		Ship:    ship,
		Entity:  entity,
		ID:      id,
		Message: message,
		Err:     err,
	}
}
