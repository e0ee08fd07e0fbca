// Package docker provides per-ship Docker clients for container
// lifecycle operations, over direct daemon endpoints or SSH tunnels.
package docker

import (
	"context"
	"time"
)

// =============================================================================
// Client Interface
// =============================================================================

// Client is the container-lifecycle surface plays act through. One
// client per ship; obtain them from a Pool.
type Client interface {
	// Ping checks that the ship's daemon is reachable.
	Ping(ctx context.Context) error

	// InspectContainer returns the state of a container by name or ID.
	// Returns ErrContainerNotFound if it does not exist.
	InspectContainer(ctx context.Context, nameOrID string) (*ContainerInfo, error)

	// CreateContainer creates a container and returns its ID.
	CreateContainer(ctx context.Context, spec ContainerSpec) (string, error)

	// StartContainer starts a created or stopped container.
	StartContainer(ctx context.Context, nameOrID string) error

	// StopContainer stops a running container, waiting up to timeout
	// for a graceful shutdown. A nil timeout uses the daemon default.
	StopContainer(ctx context.Context, nameOrID string, timeout *time.Duration) error

	// RemoveContainer removes a stopped container.
	RemoveContainer(ctx context.Context, nameOrID string) error

	// ImageExists checks whether an image is present on the ship.
	ImageExists(ctx context.Context, image string) (bool, error)

	// PullImage pulls an image onto the ship, blocking until complete.
	PullImage(ctx context.Context, image string) error

	// Close releases the client's connections.
	Close() error
}

// =============================================================================
// Container Types
// =============================================================================

// ContainerSpec defines the specification for creating a container.
type ContainerSpec struct {
	Name    string
	Image   string
	Command []string
	Env     map[string]string
	Labels  map[string]string
	Ports   []PortBinding
}

// PortBinding defines a port mapping.
type PortBinding struct {
	ContainerPort int
	HostPort      int    // 0 for auto-assign
	Protocol      string // "tcp" or "udp"
}

// ContainerInfo contains the state of a container as reported by the
// ship's daemon.
type ContainerInfo struct {
	ID        string
	Name      string
	Image     string
	State     string // "running", "exited", "created", ...
	Running   bool
	Health    string // "healthy", "unhealthy", "starting", ""
	ExitCode  int
	StartedAt *time.Time
}

// =============================================================================
// Container Labels
// =============================================================================

// Label keys stamped on every container flotilla creates.
const (
	LabelManaged = "io.flotilla.managed"
	LabelFleet   = "io.flotilla.fleet"
	LabelService = "io.flotilla.service"
)
