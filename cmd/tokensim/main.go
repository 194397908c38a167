// ====================================
// File: cmd/tokensim/main.go
// ====================================
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/tokensim/internal/config"
	"github.com/rovshanmuradov/tokensim/internal/logger"
	"github.com/rovshanmuradov/tokensim/internal/session"
)

var cmdMain = &cobra.Command{
	Use:           "tokensim",
	Short:         "Offline Solana token launch and AMM pool simulator",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var flagMain struct {
	Config string
	Debug  bool
}

func init() {
	cmdMain.PersistentFlags().StringVarP(&flagMain.Config, "config", "c", "tokensim.yaml", "Scenario configuration file (yaml, json or toml)")
	cmdMain.PersistentFlags().BoolVar(&flagMain.Debug, "debug", false, "Enable debug logging")

	cmdMain.AddCommand(cmdPreview, cmdMetadata, cmdValidate, cmdBatch, cmdTUI)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cmdMain.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if kind := session.Kind(err); kind != session.KindUnknown {
			fmt.Fprintf(os.Stderr, "Kind: %s\n", kind)
		}
		os.Exit(1)
	}
}

// loadConfig reads the file given by --config
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagMain.Config)
	if err != nil {
		return nil, err
	}
	if flagMain.Debug {
		cfg.App.DebugLogging = true
	}
	return cfg, nil
}

// newLogger пишет в консоль, а при заданном log_file ещё и в JSON-файл с ротацией
func newLogger(app config.AppConfig) (*logger.Logger, func(), error) {
	if app.LogFile == "" {
		pretty, err := logger.CreatePrettyLogger(app.DebugLogging)
		if err != nil {
			return nil, nil, err
		}
		log := logger.Wrap(pretty)
		return log, func() { _ = log.Sync() }, nil
	}

	lc := logger.DefaultConfig()
	lc.LogFile = app.LogFile
	lc.Development = app.DebugLogging
	log, err := logger.New(lc)
	if err != nil {
		return nil, nil, err
	}
	return log, func() { _ = log.Sync() }, nil
}

// sessionOptions переносит параметры пула и комиссий из конфигурации
func sessionOptions(cfg *config.Config) session.Options {
	opts := session.DefaultOptions()
	opts.Pool = cfg.Scenario.Pool.Params()
	opts.Fee = cfg.Scenario.Fee.Options()
	opts.Cluster = cfg.Network.Name
	return opts
}

func newSession(cmd *cobra.Command, cfg *config.Config, log *zap.Logger) (*session.Session, error) {
	s, err := session.New(sessionOptions(cfg), log)
	if err != nil {
		return nil, err
	}
	log.Debug("Session started",
		zap.String("session_id", s.ID().String()),
		zap.String("command", cmd.Name()),
		zap.String("endpoint", cfg.Network.Endpoint()))
	return s, nil
}
