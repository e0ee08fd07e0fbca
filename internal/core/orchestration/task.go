package orchestration

import (
	"context"

	"github.com/artpar/flotilla/internal/core/domain"
)

// =============================================================================
// Collaborator Contracts
// =============================================================================

// Reporter is the two-phase output handle for one container's row.
// Pending announces a transient pre-execution status; Commit records
// terminal status text and may be called more than once to append
// additional fragments (per-port sub-results, for example).
type Reporter interface {
	Pending(msg string)
	Commit(msg string)
}

// Task is a single unit of work bound to one container.
type Task interface {
	// Container returns the container this task acts on.
	Container() *domain.Container

	// Run performs the container action, blocking until it completes.
	// A non-nil error aborts the rest of the play.
	Run(ctx context.Context) error

	// Output returns the task's reporter.
	Output() Reporter
}

// Display is the rendering surface for a play: a header plus one row per
// container. It is a collaborator only; the engine attaches no scheduling
// semantics to it.
type Display interface {
	// Start emits the header and initializes row rendering.
	Start()

	// Stop tears down rendering after all workers have joined.
	Stop()

	// Error renders the single diagnostic line for a failed play.
	Error(err error)
}
