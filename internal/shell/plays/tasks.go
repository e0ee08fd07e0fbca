package plays

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sort"
	"strconv"
	"time"

	"github.com/artpar/flotilla/internal/core/domain"
	"github.com/artpar/flotilla/internal/core/orchestration"
	"github.com/artpar/flotilla/internal/shell/docker"
	"github.com/artpar/flotilla/internal/shell/term"
)

// =============================================================================
// Start Task
// =============================================================================

// startTask brings one container up: pull the image if missing, create
// the container if absent, start it, then wait until its TCP ports
// accept connections.
type startTask struct {
	container *domain.Container
	out       orchestration.Reporter
	opts      Options
}

func (t *startTask) Container() *domain.Container { return t.container }
func (t *startTask) Output() orchestration.Reporter { return t.out }

func (t *startTask) Run(ctx context.Context) error {
	c := t.container

	cli, err := t.opts.Clients.For(ctx, c.Ship)
	if err != nil {
		t.out.Commit(term.Red("host down"))
		return err
	}

	t.out.Pending("checking container...")
	info, err := cli.InspectContainer(ctx, c.Name)
	if err != nil && !errors.Is(err, docker.ErrContainerNotFound) {
		return err
	}

	if info != nil && info.Running {
		t.out.Commit(term.Green(shortID(info.ID)) + " " + term.Green("up"))
		return nil
	}

	if info == nil {
		exists, err := cli.ImageExists(ctx, c.Image)
		if err != nil {
			return err
		}
		if !exists {
			t.out.Pending("pulling image...")
			if err := cli.PullImage(ctx, c.Image); err != nil {
				return err
			}
		}

		t.out.Pending("creating container...")
		if _, err := cli.CreateContainer(ctx, createSpec(c, t.opts.FleetName)); err != nil {
			return err
		}
	}

	t.out.Pending("starting container...")
	if err := cli.StartContainer(ctx, c.Name); err != nil {
		return err
	}

	if err := t.waitReady(ctx); err != nil {
		return err
	}

	info, err = cli.InspectContainer(ctx, c.Name)
	if err != nil {
		return err
	}
	if !info.Running {
		return fmt.Errorf("container exited with code %d", info.ExitCode)
	}
	t.out.Commit(term.Green(shortID(info.ID)) + " " + term.Green("up"))
	return nil
}

// waitReady probes each declared TCP port until it accepts a connection
// or the readiness deadline expires.
func (t *startTask) waitReady(ctx context.Context) error {
	c := t.container
	deadline := time.Now().Add(t.opts.ReadyTimeout)

	for _, name := range sortedPortNames(c.Ports) {
		port := c.Ports[name]
		if port.Protocol == "udp" {
			continue
		}
		t.out.Pending(fmt.Sprintf("waiting for %s:%d...", name, port.HostPort))
		for !probePort(ctx, c.Ship.Address, port.HostPort, t.opts.ProbeTimeout) {
			if time.Now().After(deadline) {
				return fmt.Errorf("port %s (%d) not ready after %s", name, port.HostPort, t.opts.ReadyTimeout)
			}
			select {
			case <-time.After(500 * time.Millisecond):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return nil
}

// =============================================================================
// Stop Task
// =============================================================================

// stopTask stops one container, tolerating containers that are already
// gone or stopped.
type stopTask struct {
	container *domain.Container
	out       orchestration.Reporter
	opts      Options
}

func (t *stopTask) Container() *domain.Container { return t.container }
func (t *stopTask) Output() orchestration.Reporter { return t.out }

func (t *stopTask) Run(ctx context.Context) error {
	c := t.container

	cli, err := t.opts.Clients.For(ctx, c.Ship)
	if err != nil {
		t.out.Commit(term.Red("host down"))
		return err
	}

	t.out.Pending("checking container...")
	info, err := cli.InspectContainer(ctx, c.Name)
	if err != nil {
		if errors.Is(err, docker.ErrContainerNotFound) {
			t.out.Commit("already down")
			return nil
		}
		return err
	}
	if !info.Running {
		t.out.Commit("already down")
		return nil
	}

	timeout := c.StopTimeout
	if timeout == 0 {
		timeout = t.opts.StopTimeout
	}
	t.out.Pending("stopping container...")
	if err := cli.StopContainer(ctx, c.Name, &timeout); err != nil {
		return err
	}
	t.out.Commit("stopped")
	return nil
}

// =============================================================================
// Status Task
// =============================================================================

// statusTask is the fast presence check used by the concurrent status
// play.
type statusTask struct {
	container *domain.Container
	out       orchestration.Reporter
	opts      Options
}

func (t *statusTask) Container() *domain.Container { return t.container }
func (t *statusTask) Output() orchestration.Reporter { return t.out }

func (t *statusTask) Run(ctx context.Context) error {
	c := t.container

	cli, err := t.opts.Clients.For(ctx, c.Ship)
	if err != nil {
		t.out.Commit(term.Red("host down"))
		return err
	}

	t.out.Pending("checking container...")
	info, err := cli.InspectContainer(ctx, c.Name)
	if err != nil {
		if errors.Is(err, docker.ErrContainerNotFound) {
			t.out.Commit(term.Red("down"))
			return nil
		}
		return err
	}
	if !info.Running {
		t.out.Commit(term.Red("down"))
		return nil
	}
	t.out.Commit(term.Green(shortID(info.ID)) + " " + term.Green("up"))
	return nil
}

// =============================================================================
// Clean Task
// =============================================================================

// cleanTask removes one stopped container. Containers that are already
// gone are fine; running ones are not.
type cleanTask struct {
	container *domain.Container
	out       orchestration.Reporter
	opts      Options
}

func (t *cleanTask) Container() *domain.Container { return t.container }
func (t *cleanTask) Output() orchestration.Reporter { return t.out }

func (t *cleanTask) Run(ctx context.Context) error {
	c := t.container

	cli, err := t.opts.Clients.For(ctx, c.Ship)
	if err != nil {
		t.out.Commit(term.Red("host down"))
		return err
	}

	t.out.Pending("checking container...")
	info, err := cli.InspectContainer(ctx, c.Name)
	if err != nil {
		if errors.Is(err, docker.ErrContainerNotFound) {
			t.out.Commit("already gone")
			return nil
		}
		return err
	}
	if info.Running {
		return errors.New("container is running; stop it first")
	}

	t.out.Pending("removing container...")
	if err := cli.RemoveContainer(ctx, c.Name); err != nil {
		return err
	}
	t.out.Commit("removed")
	return nil
}

// =============================================================================
// Helpers
// =============================================================================

func createSpec(c *domain.Container, fleetName string) docker.ContainerSpec {
	labels := map[string]string{
		docker.LabelManaged: "true",
		docker.LabelService: c.Service.Name,
	}
	if fleetName != "" {
		labels[docker.LabelFleet] = fleetName
	}

	var ports []docker.PortBinding
	for _, name := range sortedPortNames(c.Ports) {
		p := c.Ports[name]
		ports = append(ports, docker.PortBinding{
			ContainerPort: p.ContainerPort,
			HostPort:      p.HostPort,
			Protocol:      p.Protocol,
		})
	}

	return docker.ContainerSpec{
		Name:    c.Name,
		Image:   c.Image,
		Command: c.Command,
		Env:     c.Env,
		Labels:  labels,
		Ports:   ports,
	}
}

func sortedPortNames(ports map[string]domain.Port) []string {
	names := make([]string, 0, len(ports))
	for name := range ports {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// probePort dials a ship port once, reporting whether it accepted the
// connection.
func probePort(ctx context.Context, address string, port int, timeout time.Duration) bool {
	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(address, strconv.Itoa(port)))
	if err != nil {
		return false
	}
	conn.Close()
	return true
}
