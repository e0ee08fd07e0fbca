package domain

import "time"

// =============================================================================
// Container
// =============================================================================

// Port is a named port exposed by a container.
type Port struct {
	// ContainerPort is the port inside the container.
	ContainerPort int

	// HostPort is the port published on the ship. 0 means not published.
	HostPort int

	// Protocol is "tcp" or "udp". Empty means "tcp".
	Protocol string
}

// Container is a single deployable unit: one instance of a service,
// running on a ship. Its name is unique within the fleet.
type Container struct {
	Name    string
	Service *Service
	Ship    *Ship

	// Image is the container image reference.
	Image string

	// Env are the environment variables passed to the container.
	Env map[string]string

	// Ports are the container's named ports. Port names are used for
	// readiness probes and status display.
	Ports map[string]Port

	// Command overrides the image's default command, if set.
	Command []string

	// StopTimeout is how long to wait for a graceful stop before the
	// daemon kills the container. Zero means the daemon default.
	StopTimeout time.Duration
}
