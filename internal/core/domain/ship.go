package domain

import "strings"

// =============================================================================
// Ship
// =============================================================================

// Ship is a Docker host that containers are placed on.
type Ship struct {
	// Name is the ship's identifier within the fleet.
	Name string

	// Address is the host address used for port probes (IP or hostname).
	Address string

	// Endpoint is the Docker daemon endpoint:
	// "unix:///var/run/docker.sock", "tcp://host:2375" or
	// "ssh://user@host[:port]".
	Endpoint string

	// SSHUser is the login user for ssh:// endpoints. Optional; the
	// user embedded in the endpoint URL takes precedence.
	SSHUser string

	// SSHIdentity is the path to the private key for ssh:// endpoints.
	SSHIdentity string
}

// IsSSH reports whether the ship's Docker daemon is reached over an
// SSH tunnel rather than a direct socket.
func (s *Ship) IsSSH() bool {
	return strings.HasPrefix(s.Endpoint, "ssh://")
}
