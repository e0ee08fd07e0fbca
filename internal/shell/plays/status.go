package plays

import (
	"context"

	"github.com/artpar/flotilla/internal/core/domain"
	"github.com/artpar/flotilla/internal/core/fleet"
	"github.com/artpar/flotilla/internal/core/orchestration"
	"github.com/artpar/flotilla/internal/shell/term"
)

// =============================================================================
// Status Play
// =============================================================================

// Status is the fast status play: dependency tracking is disabled so
// every container is checked fully concurrently. It only looks at the
// presence and running state of each container.
type Status struct {
	containers []*domain.Container
	opts       Options
}

// NewStatus creates a status play over the selection.
func NewStatus(containers []*domain.Container, opts Options) *Status {
	return &Status{
		containers: fleet.OrderContainers(containers, orchestration.Forward),
		opts:       opts.withDefaults(),
	}
}

// Run executes the play and returns the first captured failure, if any.
func (s *Status) Run(ctx context.Context) error {
	board := term.NewBoard(s.opts.Out, s.opts.ErrOut, header(), len(s.containers))
	play := orchestration.NewPlay(s.containers, orchestration.Config{
		RespectDependencies: false,
		Display:             board,
		Logger:              playLogger(s.opts.Logger, "status"),
	})

	play.Start()
	for i, c := range s.containers {
		out := board.Row(i, rowPrefix(i+1, c))
		play.Register(ctx, &statusTask{container: c, out: out, opts: s.opts})
	}
	return play.End(ctx)
}
