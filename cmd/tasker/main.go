package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/aristath/tasker/internal/config"
	"github.com/aristath/tasker/internal/events"
	"github.com/aristath/tasker/internal/logging"
	"github.com/aristath/tasker/internal/persistence"
	"github.com/aristath/tasker/internal/scheduler"
	"github.com/aristath/tasker/internal/tui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// options holds the global flags shared by every command.
type options struct {
	configPath string
	storePath  string
	backend    string
}

// session is an open registry together with what it depends on.
type session struct {
	cfg      *config.TaskerConfig
	logger   *log.Logger
	store    persistence.Store
	bus      *events.EventBus
	registry *scheduler.Registry
	closeLog func() error
}

func (s *session) Close() {
	s.bus.Close()
	if err := s.store.Close(); err != nil {
		s.logger.Error("closing store", "err", err)
	}
	s.closeLog()
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "tasker",
		Short:        "tasker - dependency-aware task list",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), opts)
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file (default ~/.tasker/config.json and .tasker/config.json)")
	root.PersistentFlags().StringVar(&opts.storePath, "store", "", "Task store path, overriding the config")
	root.PersistentFlags().StringVar(&opts.backend, "backend", "", "Task store backend: json or sqlite")

	root.AddCommand(
		newAddCmd(opts),
		newListCmd(opts),
		newCompleteCmd(opts),
		newNextCmd(opts),
		newPlanCmd(opts),
		newConfigCmd(opts),
	)
	return root
}

// loadConfig reads the config files and applies flag overrides.
func loadConfig(opts *options) (*config.TaskerConfig, error) {
	var (
		cfg *config.TaskerConfig
		err error
	)
	if opts.configPath != "" {
		if _, statErr := os.Stat(opts.configPath); statErr != nil {
			return nil, fmt.Errorf("config file: %w", statErr)
		}
		cfg, err = config.Load("", opts.configPath)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return nil, err
	}

	applyOverrides(cfg, opts)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyOverrides copies the store flags onto cfg.
func applyOverrides(cfg *config.TaskerConfig, opts *options) {
	if opts.storePath != "" {
		cfg.Store.Path = opts.storePath
	}
	if opts.backend != "" {
		cfg.Store.Backend = opts.backend
	}
}

// openSession loads config, opens the store and loads the registry.
// Diagnostics go to logOut unless the config names a log file.
func openSession(ctx context.Context, opts *options, logOut io.Writer) (*session, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	logger, closeLog, err := logging.New(cfg.Log, logOut)
	if err != nil {
		return nil, err
	}

	store, err := persistence.Open(ctx, cfg.Store)
	if err != nil {
		closeLog()
		return nil, err
	}

	bus := events.NewEventBus()
	registry, err := scheduler.NewRegistry(ctx, store,
		scheduler.WithPublisher(bus),
		scheduler.WithLogger(logger),
	)
	if err != nil {
		bus.Close()
		store.Close()
		closeLog()
		return nil, err
	}

	logger.Debug("session opened", "backend", cfg.Store.Backend, "store", cfg.Store.Path, "tasks", registry.Len())
	return &session{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		bus:      bus,
		registry: registry,
		closeLog: closeLog,
	}, nil
}

// runTUI runs the interactive front-end until the user quits or a signal
// arrives.
func runTUI(ctx context.Context, opts *options) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The alt screen owns the terminal, so logs only go to a configured file
	s, err := openSession(ctx, opts, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	order, err := scheduler.ParseOrderBy(s.cfg.List.DefaultOrder)
	if err != nil {
		return err
	}

	p := tea.NewProgram(tui.New(ctx, s.registry, s.bus, order), tea.WithAltScreen())

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		defer cancel()
		_, err := p.Run()
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		if ctx.Err() != nil {
			// Restore default handling so a second signal force-exits
			stop()
			s.logger.Info("shutdown signal received")
			p.Quit()
		}
		return nil
	})

	return g.Wait()
}
