package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/crimson-sun/cardio/internal/config"
	"github.com/crimson-sun/cardio/internal/engine"
	"github.com/crimson-sun/cardio/internal/handler"
	"github.com/crimson-sun/cardio/internal/logging"
	"github.com/crimson-sun/cardio/internal/server"
)

// loadConfig applies the --config flag, then loads and validates.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	if p, _ := cmd.Flags().GetString("config"); p != "" {
		os.Setenv("CARDIO_CONFIG", p)
	}
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Server.Addr = addr
	}

	logger := logging.Init(cfg.Logging.JSON, logging.ParseLevel(cfg.Logging.Level))

	artifacts, err := engine.LoadArtifacts(engine.Paths{
		Model:      cfg.Engine.ModelPath,
		Scaler:     cfg.Engine.ScalerPath,
		RuntimeLib: cfg.Engine.RuntimePath,
	})
	if err != nil {
		logger.Error("failed to load model artifacts", "error", err)
		return fmt.Errorf("load artifacts: %w", err)
	}
	defer artifacts.Close()

	audit, err := buildAudit(cfg.Audit, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := audit.Close(); err != nil {
			logger.Warn("audit close failed", "error", err)
		}
	}()

	h := handler.New(engine.New(artifacts),
		handler.WithAudit(audit),
		handler.WithLogger(logger),
	)

	gin.SetMode(cfg.Server.Mode)
	srv := server.New(h, server.Status{
		Backend: artifacts.Classifier.Backend(),
		Scaler:  artifacts.HasScaler(),
	}, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("cardio starting",
		slog.String("addr", cfg.Server.Addr),
		slog.String("model", cfg.Engine.ModelPath),
		slog.Bool("scaler", artifacts.HasScaler()),
		slog.Int("audit_sinks", len(cfg.Audit.Sinks)),
	)
	return srv.Run(ctx, cfg.Server.Addr, cfg.Server.ShutdownTimeout)
}
