package plays

import (
	"context"

	"github.com/artpar/flotilla/internal/core/domain"
)

// =============================================================================
// Restart Play
// =============================================================================

// Restart is a thin composition shell: it tears the selection down,
// dependents first, then brings it back up, dependencies first. It does
// no per-container scheduling of its own.
type Restart struct {
	containers []*domain.Container
	opts       Options
}

// NewRestart creates a restart play over the selection.
func NewRestart(containers []*domain.Container, opts Options) *Restart {
	return &Restart{containers: containers, opts: opts.withDefaults()}
}

// Run stops the selection and, if the stop play succeeded, starts it
// again. The first failure of either phase is returned.
func (r *Restart) Run(ctx context.Context) error {
	if err := NewStop(r.containers, r.opts).Run(ctx); err != nil {
		return err
	}
	return NewStart(r.containers, r.opts).Run(ctx)
}
