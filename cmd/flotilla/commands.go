package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/artpar/flotilla/internal/core/domain"
	"github.com/artpar/flotilla/internal/core/fleet"
	"github.com/artpar/flotilla/internal/shell/docker"
	"github.com/artpar/flotilla/internal/shell/plays"
)

// errPlayFailed marks a play that completed with a captured failure.
// The diagnostic line is already printed by then; main only maps this
// to the exit code.
var errPlayFailed = errors.New("play failed")

// =============================================================================
// Root Command
// =============================================================================

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flotilla",
		Short: "flotilla: multi-ship container orchestration",
		Long: "Flotilla starts, stops and inspects groups of containers across " +
			"Docker hosts, respecting inter-service dependencies with maximum " +
			"safe concurrency.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringP("file", "f", "fleet.yaml", "fleet file to operate on")
	cmd.PersistentFlags().String("config", "", "application config file")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newFullStatusCmd())
	cmd.AddCommand(newStartCmd())
	cmd.AddCommand(newStopCmd())
	cmd.AddCommand(newRestartCmd())
	cmd.AddCommand(newCleanCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and exit",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("flotilla %s (built %s)\n", Version, BuildTime)
		},
	}
}

// =============================================================================
// Play Commands
// =============================================================================

// runner is any play.
type runner interface {
	Run(ctx context.Context) error
}

func newStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start [service|container ...]",
		Short: "Start containers, dependencies first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd, args, func(cs []*domain.Container, opts plays.Options) runner {
				return plays.NewStart(cs, opts)
			})
		},
	}
}

func newStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop [service|container ...]",
		Short: "Stop containers, dependents first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd, args, func(cs []*domain.Container, opts plays.Options) runner {
				return plays.NewStop(cs, opts)
			})
		},
	}
}

func newRestartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restart [service|container ...]",
		Short: "Stop and start containers again",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd, args, func(cs []*domain.Container, opts plays.Options) runner {
				return plays.NewRestart(cs, opts)
			})
		},
	}
}

func newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean [service|container ...]",
		Short: "Remove stopped containers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd, args, func(cs []*domain.Container, opts plays.Options) runner {
				return plays.NewClean(cs, opts)
			})
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status [service|container ...]",
		Short: "Fast concurrent container status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd, args, func(cs []*domain.Container, opts plays.Options) runner {
				return plays.NewStatus(cs, opts)
			})
		},
	}
}

func newFullStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "full-status [service|container ...]",
		Short: "Sequential per-container diagnostics, including port probes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd, args, func(cs []*domain.Container, opts plays.Options) runner {
				return plays.NewFullStatus(cs, opts)
			})
		},
	}
}

// =============================================================================
// Command Plumbing
// =============================================================================

// app bundles everything a play command needs.
type app struct {
	cfg    *Config
	logger *slog.Logger
	fleet  *domain.Fleet
	pool   *docker.Pool
}

// setup loads the config, the logger and the fleet file, and prepares
// the ship pool.
func setup(cmd *cobra.Command) (*app, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	logger := SetupLogger(cfg)
	slog.SetDefault(logger)

	fleetPath, _ := cmd.Flags().GetString("file")
	data, err := os.ReadFile(fleetPath)
	if err != nil {
		return nil, fmt.Errorf("read fleet file: %w", err)
	}
	fl, err := fleet.Load(data)
	if err != nil {
		return nil, fmt.Errorf("load fleet file %s: %w", fleetPath, err)
	}

	poolCfg := docker.DefaultPoolConfig()
	poolCfg.PingTimeout = cfg.Docker.ConnectTimeout
	poolCfg.SSH.ConnectTimeout = cfg.Docker.ConnectTimeout
	poolCfg.SSH.IdentityFile = cfg.Docker.SSHIdentity

	return &app{
		cfg:    cfg,
		logger: logger,
		fleet:  fl,
		pool:   docker.NewPool(poolCfg, logger),
	}, nil
}

func (a *app) playOptions() plays.Options {
	return plays.Options{
		Clients:      a.pool,
		FleetName:    a.fleet.Name,
		Logger:       a.logger,
		ReadyTimeout: a.cfg.Start.ReadyTimeout,
		ProbeTimeout: a.cfg.Start.ProbeTimeout,
		StopTimeout:  a.cfg.Stop.Timeout,
	}
}

// runPlay resolves the selection, builds the play and runs it.
func runPlay(cmd *cobra.Command, args []string, build func([]*domain.Container, plays.Options) runner) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.pool.Close()

	containers, err := a.fleet.Select(args)
	if err != nil {
		return err
	}
	if len(containers) == 0 {
		return errors.New("no containers selected")
	}

	if err := build(containers, a.playOptions()).Run(cmd.Context()); err != nil {
		return errPlayFailed
	}
	return nil
}
