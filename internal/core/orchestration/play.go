package orchestration

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/artpar/flotilla/internal/core/domain"
)

// =============================================================================
// Play Engine
// =============================================================================

// wakeInterval bounds every wait on the monitor. Completion and failure
// broadcast directly; the periodic wake covers state that changes between
// broadcasts, such as an interrupt recorded during End.
const wakeInterval = 1 * time.Second

// Config configures a play.
type Config struct {
	// Direction selects the dependency relation to follow.
	Direction Direction

	// RespectDependencies gates dependency tracking. When false every
	// container's dependency set is empty and all tasks run fully
	// concurrently.
	RespectDependencies bool

	// Display receives header/teardown and the final diagnostic line.
	// Optional.
	Display Display

	// Logger for engine-level events. Optional.
	Logger *slog.Logger
}

// Play schedules one action per container, releasing each action only
// once every container it depends on has completed, and aborting all
// not-yet-started actions on the first failure.
//
// Register must be called from the single controlling goroutine; workers
// themselves never register. done and err are only touched under the
// monitor.
type Play struct {
	containers []*domain.Container
	deps       map[string]Set
	display    Display
	logger     *slog.Logger

	mu   sync.Mutex
	cond *sync.Cond
	done Set
	err  error

	workers  sync.WaitGroup
	stopWake chan struct{}
	wakeOnce sync.Once
}

// NewPlay computes the dependency sets for the given containers and
// prepares the shared play state.
func NewPlay(containers []*domain.Container, cfg Config) *Play {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	deps := NoDependencies(containers)
	if cfg.RespectDependencies {
		deps = Resolve(containers, cfg.Direction)
	}

	p := &Play{
		containers: containers,
		deps:       deps,
		display:    cfg.Display,
		logger:     logger,
		done:       Set{},
		stopWake:   make(chan struct{}),
	}
	p.cond = sync.NewCond(&p.mu)

	go p.wakeLoop()
	return p
}

// Containers returns the play's containers in registration/display order.
func (p *Play) Containers() []*domain.Container {
	return p.containers
}

// Dependencies returns the computed dependency set for a container.
func (p *Play) Dependencies(name string) Set {
	return p.deps[name]
}

// Start emits the play header and initializes row rendering.
func (p *Play) Start() {
	if p.display != nil {
		p.display.Start()
	}
	p.logger.Debug("play started", "containers", len(p.containers))
}

// Register spawns one worker for the task. The worker waits until the
// task's container is satisfied (or the play has failed), then runs the
// action. ctx only gates the waiting phase; an action already running is
// never cancelled.
func (p *Play) Register(ctx context.Context, task Task) {
	p.workers.Add(1)
	go func() {
		defer p.workers.Done()
		p.act(ctx, task)
	}()
}

// act is the worker body: wait, abort-or-run, record, wake the group.
func (p *Play) act(ctx context.Context, task Task) {
	name := task.Container().Name
	out := task.Output()
	out.Pending("waiting...")

	p.mu.Lock()
	for !p.satisfied(name) && p.err == nil {
		p.cond.Wait()
	}
	aborted := p.err != nil
	p.mu.Unlock()

	// Whatever happens below, wake every waiter so the whole group
	// re-evaluates its satisfied/error predicate.
	defer func() {
		p.mu.Lock()
		p.cond.Broadcast()
		p.mu.Unlock()
	}()

	if aborted {
		out.Commit("aborted!")
		p.logger.Debug("task aborted", "container", name)
		return
	}

	// The action runs outside the monitor. An interrupt must not tear
	// down in-flight work, so the action gets a detached context.
	err := task.Run(context.WithoutCancel(ctx))
	if err != nil {
		p.fail(&TaskError{Container: name, Err: err})
		p.logger.Warn("task failed", "container", name, "error", err)
		return
	}

	p.mu.Lock()
	p.done[name] = struct{}{}
	p.mu.Unlock()
	p.logger.Debug("task done", "container", name)
}

// End waits for every registered worker to finish. If ctx is cancelled
// first, the interrupt is recorded as the play's failure (unless one was
// already captured) so that still-waiting tasks abort; End then keeps
// waiting for in-flight actions to drain. The captured failure, if any,
// is rendered as a single diagnostic line and returned.
func (p *Play) End(ctx context.Context) error {
	drained := make(chan struct{})
	go func() {
		p.workers.Wait()
		close(drained)
	}()

	select {
	case <-drained:
	case <-ctx.Done():
		p.fail(ErrManualAbort)
		p.cond.Broadcast()
		<-drained
	}

	p.wakeOnce.Do(func() { close(p.stopWake) })
	if p.display != nil {
		p.display.Stop()
	}

	p.mu.Lock()
	err := p.err
	p.mu.Unlock()

	if err != nil {
		if p.display != nil {
			p.display.Error(err)
		}
		return err
	}
	p.logger.Debug("play finished", "containers", len(p.containers))
	return nil
}

// fail records err as the play's failure. The first failure wins; later
// failures keep their local status rendering but are otherwise dropped.
func (p *Play) fail(err error) {
	p.mu.Lock()
	if p.err == nil {
		p.err = err
	}
	p.mu.Unlock()
}

// satisfied reports whether every dependency of the named container is
// done. Callers must hold the monitor.
func (p *Play) satisfied(name string) bool {
	for dep := range p.deps[name] {
		if !p.done.Has(dep) {
			return false
		}
	}
	return true
}

// wakeLoop periodically wakes every waiter so no wait on the monitor is
// ever unbounded.
func (p *Play) wakeLoop() {
	t := time.NewTicker(wakeInterval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			p.cond.Broadcast()
		case <-p.stopWake:
			return
		}
	}
}
