package docker

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"os"
	"time"

	"github.com/docker/docker/client"
	"golang.org/x/crypto/ssh"

	"github.com/artpar/flotilla/internal/core/domain"
)

// =============================================================================
// SSH-Tunneled Client
// =============================================================================

// remoteDockerSocket is the daemon socket dialed on the far side of the
// tunnel.
const remoteDockerSocket = "/var/run/docker.sock"

// SSHConfig configures SSH-tunneled Docker clients.
type SSHConfig struct {
	User           string        // Fallback login user. Default: root
	IdentityFile   string        // Fallback private key path
	ConnectTimeout time.Duration // Default: 10 seconds
}

// DefaultSSHConfig returns the default configuration.
func DefaultSSHConfig() SSHConfig {
	return SSHConfig{
		User:           "root",
		ConnectTimeout: 10 * time.Second,
	}
}

// NewSSHClient creates a Docker client for a ship with an ssh://
// endpoint. Every daemon request is carried over a single SSH connection
// to the ship, dialed through to its local Docker socket.
func NewSSHClient(ship *domain.Ship, cfg SSHConfig) (*APIClient, error) {
	endpoint, err := url.Parse(ship.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse ssh endpoint %q: %w", ship.Endpoint, err)
	}

	user := endpoint.User.Username()
	if user == "" {
		user = ship.SSHUser
	}
	if user == "" {
		user = cfg.User
	}

	identity := ship.SSHIdentity
	if identity == "" {
		identity = cfg.IdentityFile
	}
	if identity == "" {
		return nil, NewError("NewSSHClient", ship.Name, "", "", "no ssh identity configured", ErrSSHIdentityRequired)
	}

	key, err := os.ReadFile(identity)
	if err != nil {
		return nil, fmt.Errorf("read ssh identity %s: %w", identity, err)
	}
	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("parse ssh identity %s: %w", identity, err)
	}

	port := endpoint.Port()
	if port == "" {
		port = "22"
	}
	addr := net.JoinHostPort(endpoint.Hostname(), port)

	sshc, err := ssh.Dial("tcp", addr, &ssh.ClientConfig{
		User:            user,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), // TODO: verify against known_hosts
		Timeout:         cfg.ConnectTimeout,
	})
	if err != nil {
		return nil, NewError("NewSSHClient", ship.Name, "", "", fmt.Sprintf("ssh dial %s: %v", addr, err), ErrConnectionFailed)
	}

	// The host here is a placeholder; the dialer below carries every
	// request through the tunnel to the remote socket.
	cli, err := client.NewClientWithOpts(
		client.WithHost("http://docker.example.com"),
		client.WithDialContext(func(ctx context.Context, _, _ string) (net.Conn, error) {
			return sshc.Dial("unix", remoteDockerSocket)
		}),
		client.WithAPIVersionNegotiation(),
	)
	if err != nil {
		sshc.Close()
		return nil, NewError("NewSSHClient", ship.Name, "", "", "failed to create client", ErrConnectionFailed)
	}

	return &APIClient{cli: cli, ship: ship.Name, closeTunnel: sshc.Close}, nil
}
