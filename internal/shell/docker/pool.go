package docker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/artpar/flotilla/internal/core/domain"
)

// =============================================================================
// Ship Pool
// =============================================================================

// Pool manages one Docker client per ship, created lazily and cached
// for the life of the process.
type Pool struct {
	mu      sync.RWMutex
	clients map[string]Client
	cfg     PoolConfig
	logger  *slog.Logger
}

// PoolConfig configures the ship pool.
type PoolConfig struct {
	SSH SSHConfig

	// PingTimeout bounds the reachability check made when a client is
	// first created. Default: 10 seconds.
	PingTimeout time.Duration
}

// DefaultPoolConfig returns the default configuration.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		SSH:         DefaultSSHConfig(),
		PingTimeout: 10 * time.Second,
	}
}

// NewPool creates a new ship pool.
func NewPool(cfg PoolConfig, logger *slog.Logger) *Pool {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.PingTimeout == 0 {
		cfg.PingTimeout = 10 * time.Second
	}
	return &Pool{
		clients: make(map[string]Client),
		cfg:     cfg,
		logger:  logger,
	}
}

// For returns the Docker client for a ship, creating and caching it on
// first use. Creation pings the daemon so unreachable ships fail fast.
func (p *Pool) For(ctx context.Context, ship *domain.Ship) (Client, error) {
	p.mu.RLock()
	c, exists := p.clients[ship.Name]
	p.mu.RUnlock()
	if exists {
		return c, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// Double-check after acquiring write lock
	if c, exists := p.clients[ship.Name]; exists {
		return c, nil
	}

	var (
		c2  *APIClient
		err error
	)
	if ship.IsSSH() {
		c2, err = NewSSHClient(ship, p.cfg.SSH)
	} else {
		c2, err = NewAPIClient(ship.Name, ship.Endpoint)
	}
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, p.cfg.PingTimeout)
	defer cancel()
	if err := c2.Ping(pingCtx); err != nil {
		c2.Close()
		return nil, err
	}

	p.logger.Debug("connected to ship", "ship", ship.Name, "endpoint", ship.Endpoint)
	p.clients[ship.Name] = c2
	return c2, nil
}

// Close closes every cached client.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	for name, c := range p.clients {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
		delete(p.clients, name)
	}
	return errors.Join(errs...)
}
