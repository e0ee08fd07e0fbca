package plays

import (
	"context"

	"github.com/artpar/flotilla/internal/core/domain"
	"github.com/artpar/flotilla/internal/core/fleet"
	"github.com/artpar/flotilla/internal/core/orchestration"
	"github.com/artpar/flotilla/internal/shell/term"
)

// =============================================================================
// Stop Play
// =============================================================================

// Stop tears the selected containers down, dependents first: a
// container's task waits until every container whose service needs its
// service has stopped.
type Stop struct {
	containers []*domain.Container
	opts       Options
}

// NewStop creates a stop play over the selection.
func NewStop(containers []*domain.Container, opts Options) *Stop {
	return &Stop{
		containers: fleet.OrderContainers(containers, orchestration.Backward),
		opts:       opts.withDefaults(),
	}
}

// Run executes the play and returns the first captured failure, if any.
func (s *Stop) Run(ctx context.Context) error {
	board := term.NewBoard(s.opts.Out, s.opts.ErrOut, header(), len(s.containers))
	play := orchestration.NewPlay(s.containers, orchestration.Config{
		Direction:           orchestration.Backward,
		RespectDependencies: true,
		Display:             board,
		Logger:              playLogger(s.opts.Logger, "stop"),
	})

	play.Start()
	// Numbering runs backwards so rows mirror the start play's order.
	for i, c := range s.containers {
		out := board.Row(i, rowPrefix(len(s.containers)-i, c))
		play.Register(ctx, &stopTask{container: c, out: out, opts: s.opts})
	}
	return play.End(ctx)
}
