package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jask/surveyboard/internal/api"
	"github.com/jask/surveyboard/internal/config"
	"github.com/jask/surveyboard/internal/database"
	"github.com/jask/surveyboard/internal/loading"
	"github.com/jask/surveyboard/internal/logging"
	"github.com/jask/surveyboard/internal/notify"
	"github.com/jask/surveyboard/internal/server"
	"github.com/jask/surveyboard/internal/service"
	"github.com/jask/surveyboard/internal/tui"
)

type globalFlags struct {
	apiURL  string
	verbose bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	root := &cobra.Command{
		Use:           "surveyboard",
		Short:         "Browse and manage surveys from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), flags)
		},
	}
	root.PersistentFlags().StringVar(&flags.apiURL, "api-url", "", "survey API base URL (overrides config)")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "debug logging")
	root.AddCommand(newServeCmd(flags), newConfigCmd())
	return root
}

func loadConfig(flags *globalFlags) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if flags.apiURL != "" {
		cfg.API.BaseURL = flags.apiURL
	}
	return cfg, nil
}

func runTUI(ctx context.Context, flags *globalFlags) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	// The terminal belongs to the UI, so logs go to a file.
	log, err := logging.New(cfg.Log, true, flags.verbose)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	if ctx == nil {
		ctx = context.Background()
	}
	client := api.NewClient(cfg.API.BaseURL,
		api.WithLogger(log.Named("api")),
		api.WithTimeout(cfg.API.Timeout),
		api.WithLocation(cfg.UI.Location()),
	)
	lc := loading.New(loading.DefaultStyle)
	toasts := notify.NewToasts(cfg.UI.ToastTTL, 5)
	orch := service.NewOrchestrator(ctx, client, lc, toasts, log.Named("service"))
	defer orch.Close()

	app := tui.New(tui.Deps{
		Config:       cfg,
		Orchestrator: orch,
		Loading:      lc,
		Toasts:       toasts,
		Log:          log.Named("tui"),
	})
	log.Info("starting", zap.String("api", client.BaseURL()))
	if _, err := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

func newServeCmd(flags *globalFlags) *cobra.Command {
	var addr, dbPath string
	var seed bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the survey API backed by SQLite",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("db") {
				cfg.Server.DatabasePath = dbPath
			}
			if cmd.Flags().Changed("seed") {
				cfg.Server.Seed = seed
			}
			log, err := logging.New(cfg.Log, false, flags.verbose)
			if err != nil {
				return fmt.Errorf("logger: %w", err)
			}
			defer func() { _ = log.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg.Server, log)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path")
	cmd.Flags().BoolVar(&seed, "seed", true, "seed sample surveys into an empty database")
	return cmd
}

func serve(ctx context.Context, cfg config.ServerConfig, log *zap.Logger) error {
	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if cfg.Seed {
		if err := database.SeedDefaults(ctx, db, database.Now()); err != nil {
			return fmt.Errorf("seed defaults: %w", err)
		}
	}
	log.Info("serving", zap.String("addr", cfg.Addr), zap.String("db", cfg.DatabasePath))
	return server.New(db, server.WithLogger(log.Named("http"))).Run(ctx, cfg.Addr)
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Manage the config file"}
	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the effective config to " + config.Path(),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := config.Save(cfg); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "wrote", config.Path())
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), config.Path())
		},
	})
	return cmd
}
