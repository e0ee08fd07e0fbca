package plays

import (
	"context"

	"github.com/artpar/flotilla/internal/core/domain"
	"github.com/artpar/flotilla/internal/core/fleet"
	"github.com/artpar/flotilla/internal/core/orchestration"
	"github.com/artpar/flotilla/internal/shell/term"
)

// =============================================================================
// Start Play
// =============================================================================

// Start brings the selected containers up, dependencies first. Each
// container's task waits until every container it depends on is running
// and ready before starting its own.
type Start struct {
	containers []*domain.Container
	opts       Options
}

// NewStart creates a start play over the selection.
func NewStart(containers []*domain.Container, opts Options) *Start {
	return &Start{
		containers: fleet.OrderContainers(containers, orchestration.Forward),
		opts:       opts.withDefaults(),
	}
}

// Run executes the play and returns the first captured failure, if any.
func (s *Start) Run(ctx context.Context) error {
	board := term.NewBoard(s.opts.Out, s.opts.ErrOut, header(), len(s.containers))
	play := orchestration.NewPlay(s.containers, orchestration.Config{
		Direction:           orchestration.Forward,
		RespectDependencies: true,
		Display:             board,
		Logger:              playLogger(s.opts.Logger, "start"),
	})

	play.Start()
	for i, c := range s.containers {
		out := board.Row(i, rowPrefix(i+1, c))
		play.Register(ctx, &startTask{container: c, out: out, opts: s.opts})
	}
	return play.End(ctx)
}
