package plays

import (
	"context"
	"errors"
	"fmt"

	"github.com/artpar/flotilla/internal/core/domain"
	"github.com/artpar/flotilla/internal/core/fleet"
	"github.com/artpar/flotilla/internal/core/orchestration"
	"github.com/artpar/flotilla/internal/shell/docker"
	"github.com/artpar/flotilla/internal/shell/term"
)

// =============================================================================
// Full Status Play
// =============================================================================

// FullStatus is the sequential diagnostic walk: one container at a
// time, synchronously, with a probe line per named port. It bypasses
// the play engine entirely; a failure on one container is rendered on
// its row and never stops the walk.
type FullStatus struct {
	containers []*domain.Container
	opts       Options
}

// NewFullStatus creates a full-status play over the selection.
func NewFullStatus(containers []*domain.Container, opts Options) *FullStatus {
	return &FullStatus{
		containers: fleet.OrderContainers(containers, orchestration.Forward),
		opts:       opts.withDefaults(),
	}
}

// Run walks the selection. It always returns nil: per-container errors
// are diagnostic output here, not failures.
func (s *FullStatus) Run(ctx context.Context) error {
	fmt.Fprintln(s.opts.Out, header())
	for i, c := range s.containers {
		line := term.NewLine(s.opts.Out, rowPrefix(i+1, c))
		running := s.checkContainer(ctx, line, c)
		line.Close()

		if !running {
			continue
		}
		for _, name := range sortedPortNames(c.Ports) {
			port := c.Ports[name]
			sub := term.NewLine(s.opts.Out, "     >>")
			sub.Pending(fmt.Sprintf("%9d:%s", port.HostPort, name))
			ok := port.Protocol != "udp" && probePort(ctx, c.Ship.Address, port.HostPort, s.opts.ProbeTimeout)
			sub.Commit(term.Color(ok, fmt.Sprintf("%9d", port.HostPort)) + ":" + name)
			sub.Close()
		}
	}
	return nil
}

// checkContainer renders the container's state on its line and reports
// whether it is running (and therefore worth probing).
func (s *FullStatus) checkContainer(ctx context.Context, line *term.Line, c *domain.Container) bool {
	cli, err := s.opts.Clients.For(ctx, c.Ship)
	if err != nil {
		line.Commit(term.Red(fmt.Sprintf("%-15s %-10s", "host down", "down")))
		return false
	}

	line.Pending("checking container...")
	info, err := cli.InspectContainer(ctx, c.Name)
	if err != nil {
		if errors.Is(err, docker.ErrContainerNotFound) {
			line.Commit(term.Red(fmt.Sprintf("%-15s", "down")))
			return false
		}
		line.Commit(term.Red(fmt.Sprintf("%-15s %-10s", "host down", "down")))
		return false
	}
	if !info.Running {
		line.Commit(term.Red(fmt.Sprintf("%-15s", "down")))
		return false
	}

	line.Commit(term.Green(fmt.Sprintf("%-15s", shortID(info.ID))) + " " + term.Green(term.Up(true)))
	return true
}
