package docker

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
)

// =============================================================================
// API Client Implementation
// =============================================================================

// APIClient implements the Client interface against a ship's Docker
// daemon using the Docker SDK.
type APIClient struct {
	cli  *client.Client
	ship string

	// closeTunnel tears down the SSH tunnel for ssh:// endpoints. Nil
	// for direct endpoints.
	closeTunnel func() error
}

// NewAPIClient creates a client for a direct daemon endpoint
// (unix:// or tcp://). An empty endpoint falls back to the environment
// (DOCKER_HOST et al).
func NewAPIClient(ship, endpoint string) (*APIClient, error) {
	opts := []client.Opt{client.WithAPIVersionNegotiation()}
	if endpoint != "" {
		opts = append(opts, client.WithHost(endpoint))
	} else {
		opts = append(opts, client.FromEnv)
	}

	cli, err := client.NewClientWithOpts(opts...)
	if err != nil {
		return nil, NewError("NewAPIClient", ship, "", "", "failed to create client", ErrConnectionFailed)
	}
	return &APIClient{cli: cli, ship: ship}, nil
}

// Ping checks if the daemon is reachable.
func (d *APIClient) Ping(ctx context.Context) error {
	if _, err := d.cli.Ping(ctx); err != nil {
		return NewError("Ping", d.ship, "", "", fmt.Sprintf("failed to ping docker: %v", err), ErrConnectionFailed)
	}
	return nil
}

// Close closes the daemon connection and, if present, the SSH tunnel.
func (d *APIClient) Close() error {
	err := d.cli.Close()
	if d.closeTunnel != nil {
		if terr := d.closeTunnel(); err == nil {
			err = terr
		}
	}
	return err
}

// =============================================================================
// Container Operations
// =============================================================================

// CreateContainer creates a new container from the given spec.
func (d *APIClient) CreateContainer(ctx context.Context, spec ContainerSpec) (string, error) {
	config := &container.Config{
		Image:  spec.Image,
		Cmd:    spec.Command,
		Labels: spec.Labels,
	}
	for k, v := range spec.Env {
		config.Env = append(config.Env, fmt.Sprintf("%s=%s", k, v))
	}

	hostConfig := &container.HostConfig{}
	if len(spec.Ports) > 0 {
		portBindings := nat.PortMap{}
		exposedPorts := nat.PortSet{}

		for _, p := range spec.Ports {
			proto := p.Protocol
			if proto == "" {
				proto = "tcp"
			}
			containerPort := nat.Port(fmt.Sprintf("%d/%s", p.ContainerPort, proto))
			exposedPorts[containerPort] = struct{}{}

			hostPort := ""
			if p.HostPort != 0 {
				hostPort = fmt.Sprintf("%d", p.HostPort)
			}
			portBindings[containerPort] = []nat.PortBinding{{HostPort: hostPort}}
		}

		config.ExposedPorts = exposedPorts
		hostConfig.PortBindings = portBindings
	}

	resp, err := d.cli.ContainerCreate(ctx, config, hostConfig, nil, nil, spec.Name)
	if err != nil {
		if strings.Contains(err.Error(), "Conflict") {
			return "", NewError("CreateContainer", d.ship, "container", spec.Name, "container already exists", ErrContainerAlreadyExists)
		}
		if strings.Contains(err.Error(), "port is already allocated") {
			return "", NewError("CreateContainer", d.ship, "container", spec.Name, err.Error(), ErrPortAlreadyAllocated)
		}
		return "", NewError("CreateContainer", d.ship, "container", spec.Name, err.Error(), err)
	}
	return resp.ID, nil
}

// StartContainer starts a created or stopped container.
func (d *APIClient) StartContainer(ctx context.Context, nameOrID string) error {
	err := d.cli.ContainerStart(ctx, nameOrID, container.StartOptions{})
	if err != nil {
		if client.IsErrNotFound(err) {
			return NewError("StartContainer", d.ship, "container", nameOrID, "container not found", ErrContainerNotFound)
		}
		if strings.Contains(err.Error(), "is already running") {
			return NewError("StartContainer", d.ship, "container", nameOrID, "container is already running", ErrContainerAlreadyRunning)
		}
		return NewError("StartContainer", d.ship, "container", nameOrID, err.Error(), err)
	}
	return nil
}

// StopContainer stops a running container.
func (d *APIClient) StopContainer(ctx context.Context, nameOrID string, timeout *time.Duration) error {
	stopOptions := container.StopOptions{}
	if timeout != nil {
		seconds := int(timeout.Seconds())
		stopOptions.Timeout = &seconds
	}

	err := d.cli.ContainerStop(ctx, nameOrID, stopOptions)
	if err != nil {
		if client.IsErrNotFound(err) {
			return NewError("StopContainer", d.ship, "container", nameOrID, "container not found", ErrContainerNotFound)
		}
		if strings.Contains(err.Error(), "is not running") {
			return NewError("StopContainer", d.ship, "container", nameOrID, "container is not running", ErrContainerNotRunning)
		}
		return NewError("StopContainer", d.ship, "container", nameOrID, err.Error(), err)
	}
	return nil
}

// RemoveContainer removes a container.
func (d *APIClient) RemoveContainer(ctx context.Context, nameOrID string) error {
	err := d.cli.ContainerRemove(ctx, nameOrID, container.RemoveOptions{})
	if err != nil {
		if client.IsErrNotFound(err) {
			return NewError("RemoveContainer", d.ship, "container", nameOrID, "container not found", ErrContainerNotFound)
		}
		return NewError("RemoveContainer", d.ship, "container", nameOrID, err.Error(), err)
	}
	return nil
}

// InspectContainer returns the state of a container.
func (d *APIClient) InspectContainer(ctx context.Context, nameOrID string) (*ContainerInfo, error) {
	resp, err := d.cli.ContainerInspect(ctx, nameOrID)
	if err != nil {
		if client.IsErrNotFound(err) {
			return nil, NewError("InspectContainer", d.ship, "container", nameOrID, "container not found", ErrContainerNotFound)
		}
		return nil, NewError("InspectContainer", d.ship, "container", nameOrID, err.Error(), err)
	}

	var startedAt *time.Time
	if resp.State.StartedAt != "" && resp.State.StartedAt != "0001-01-01T00:00:00Z" {
		t, _ := time.Parse(time.RFC3339Nano, resp.State.StartedAt)
		startedAt = &t
	}

	health := ""
	if resp.State.Health != nil {
		health = resp.State.Health.Status
	}

	return &ContainerInfo{
		ID:        resp.ID,
		Name:      strings.TrimPrefix(resp.Name, "/"),
		Image:     resp.Config.Image,
		State:     resp.State.Status,
		Running:   resp.State.Running,
		Health:    health,
		ExitCode:  resp.State.ExitCode,
		StartedAt: startedAt,
	}, nil
}

// =============================================================================
// Image Operations
// =============================================================================

// PullImage pulls an image onto the ship, blocking until complete.
func (d *APIClient) PullImage(ctx context.Context, imageName string) error {
	reader, err := d.cli.ImagePull(ctx, imageName, image.PullOptions{})
	if err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "not found") ||
			strings.Contains(errStr, "manifest unknown") ||
			strings.Contains(errStr, "repository does not exist") ||
			strings.Contains(errStr, "pull access denied") {
			return NewError("PullImage", d.ship, "image", imageName, "image not found", ErrImageNotFound)
		}
		return NewError("PullImage", d.ship, "image", imageName, err.Error(), ErrImagePullFailed)
	}
	defer reader.Close()

	// Drain the reader to complete the pull
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return NewError("PullImage", d.ship, "image", imageName, err.Error(), ErrImagePullFailed)
	}
	return nil
}

// ImageExists checks if an image exists on the ship.
func (d *APIClient) ImageExists(ctx context.Context, imageName string) (bool, error) {
	_, _, err := d.cli.ImageInspectWithRaw(ctx, imageName)
	if err != nil {
		if client.IsErrNotFound(err) {
			return false, nil
		}
		return false, NewError("ImageExists", d.ship, "image", imageName, err.Error(), err)
	}
	return true, nil
}
