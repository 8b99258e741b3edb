package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/soaringjerry/Persona/internal/bank"
	"github.com/soaringjerry/Persona/internal/config"
	"github.com/soaringjerry/Persona/internal/db"
	"github.com/soaringjerry/Persona/internal/logging"
	"github.com/soaringjerry/Persona/internal/services"
	"github.com/soaringjerry/Persona/internal/store"
)

var (
	configPath string
	verbose    bool
)

// rootCmd runs the server when no subcommand is given.
var rootCmd = &cobra.Command{
	Use:           "persona",
	Short:         "Personality quiz scoring and result service",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default persona.yaml or $PERSONA_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(serveCmd, migrateCmd, resultsCmd, exportCmd, hashPasswordCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// runtime is the wiring shared by every command that touches stored results.
type runtime struct {
	cfg     *config.Config
	log     *zap.Logger
	bank    *bank.Bank
	backend store.Backend
	gateway *store.Gateway
	results *services.ResultService
}

func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	log, err := logging.New(level, cfg.Logging.Format)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func openRuntime(ctx context.Context) (*runtime, error) {
	cfg, log, err := loadConfig()
	if err != nil {
		return nil, err
	}
	b, err := bank.Load(cfg.Bank.Dir)
	if err != nil {
		return nil, fmt.Errorf("load question bank: %w", err)
	}
	backend, err := db.Open(ctx, db.Options{
		Driver:        cfg.Storage.Driver,
		Path:          cfg.Storage.Path,
		DSN:           cfg.Storage.DSN,
		MigrationsDir: cfg.Storage.MigrationsDir,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Storage.Driver, err)
	}
	gw := store.NewGateway(backend, log.Named("store"))
	return &runtime{
		cfg:     cfg,
		log:     log,
		bank:    b,
		backend: backend,
		gateway: gw,
		results: services.NewResultService(services.NewScoringEngine(b), gw, log.Named("results")),
	}, nil
}

func (r *runtime) Close() {
	if err := r.gateway.Close(); err != nil {
		r.log.Warn("close store", zap.Error(err))
	}
	_ = r.log.Sync()
}
