package plays

import (
	"context"

	"github.com/artpar/flotilla/internal/core/domain"
	"github.com/artpar/flotilla/internal/core/fleet"
	"github.com/artpar/flotilla/internal/core/orchestration"
	"github.com/artpar/flotilla/internal/shell/term"
)

// =============================================================================
// Clean Play
// =============================================================================

// Clean removes the stopped containers of the selection so the next
// start creates them fresh. Removal has no ordering concern, so
// dependency tracking is disabled and every container is handled
// concurrently. A still-running container is a failure; stop it first.
type Clean struct {
	containers []*domain.Container
	opts       Options
}

// NewClean creates a clean play over the selection.
func NewClean(containers []*domain.Container, opts Options) *Clean {
	return &Clean{
		containers: fleet.OrderContainers(containers, orchestration.Forward),
		opts:       opts.withDefaults(),
	}
}

// Run executes the play and returns the first captured failure, if any.
func (s *Clean) Run(ctx context.Context) error {
	board := term.NewBoard(s.opts.Out, s.opts.ErrOut, header(), len(s.containers))
	play := orchestration.NewPlay(s.containers, orchestration.Config{
		RespectDependencies: false,
		Display:             board,
		Logger:              playLogger(s.opts.Logger, "clean"),
	})

	play.Start()
	for i, c := range s.containers {
		out := board.Row(i, rowPrefix(i+1, c))
		play.Register(ctx, &cleanTask{container: c, out: out, opts: s.opts})
	}
	return play.End(ctx)
}
