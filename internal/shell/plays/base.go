// Package plays composes the orchestration engine with the docker shell
// and the terminal board into the user-facing play variants: start,
// stop, restart, status and full-status.
package plays

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/artpar/flotilla/internal/core/domain"
	"github.com/artpar/flotilla/internal/shell/docker"
)

// =============================================================================
// Shared Play Options
// =============================================================================

// ClientSource yields the Docker client for a ship.
type ClientSource interface {
	For(ctx context.Context, ship *domain.Ship) (docker.Client, error)
}

// Options carries the collaborators and tunables shared by all plays.
type Options struct {
	// Clients resolves ships to Docker clients. Required.
	Clients ClientSource

	// FleetName is stamped onto created containers as a label.
	FleetName string

	// Logger for play events. Optional.
	Logger *slog.Logger

	// Out receives the status board. Default: os.Stdout.
	Out io.Writer

	// ErrOut receives the diagnostic line of a failed play.
	// Default: os.Stderr.
	ErrOut io.Writer

	// ReadyTimeout bounds how long a start task waits for a container's
	// ports to accept connections. Default: 30 seconds.
	ReadyTimeout time.Duration

	// ProbeTimeout bounds a single port probe dial. Default: 2 seconds.
	ProbeTimeout time.Duration

	// StopTimeout is the graceful-stop grace period for containers that
	// declare none. Default: 10 seconds.
	StopTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Out == nil {
		o.Out = os.Stdout
	}
	if o.ErrOut == nil {
		o.ErrOut = os.Stderr
	}
	if o.ReadyTimeout == 0 {
		o.ReadyTimeout = 30 * time.Second
	}
	if o.ProbeTimeout == 0 {
		o.ProbeTimeout = 2 * time.Second
	}
	if o.StopTimeout == 0 {
		o.StopTimeout = 10 * time.Second
	}
	return o
}

// playLogger tags the logger with the play kind and a fresh run id so
// concurrent worker logs can be correlated.
func playLogger(logger *slog.Logger, kind string) *slog.Logger {
	return logger.With("play", kind, "run_id", uuid.NewString())
}

// =============================================================================
// Row Formatting
// =============================================================================

func header() string {
	return fmt.Sprintf("%3s  %-20s %-15s %-20s %s", "#", "CONTAINER", "SERVICE", "SHIP", "STATUS")
}

func rowPrefix(order int, c *domain.Container) string {
	return fmt.Sprintf("%3d. \x1b[;1m%-20.20s\x1b[;0m %-15.15s %-20.20s",
		order, c.Name, c.Service.Name, c.Ship.Address)
}

func shortID(id string) string {
	if len(id) > 7 {
		return id[:7]
	}
	return id
}
