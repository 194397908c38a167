package main

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rovshanmuradov/tokensim/internal/config"
	"github.com/rovshanmuradov/tokensim/internal/preview"
	"github.com/rovshanmuradov/tokensim/internal/session"
)

var cmdBatch = &cobra.Command{
	Use:   "batch <config>...",
	Short: "Run several scenario files in independent sessions and summarize them",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runBatch,
}

var flagBatch struct {
	Output string
}

func init() {
	cmdBatch.Flags().StringVarP(&flagBatch.Output, "output", "o", "text", "Output format: text, json or yaml")
}

// batchEntry - итог одного файла сценария
type batchEntry struct {
	File   string                  `json:"file" yaml:"file"`
	Result *session.ScenarioResult `json:"result,omitempty" yaml:"result,omitempty"`
	Error  string                  `json:"error,omitempty" yaml:"error,omitempty"`
	Kind   session.ErrorKind       `json:"kind,omitempty" yaml:"kind,omitempty"`
}

func runBatch(cmd *cobra.Command, files []string) error {
	app := config.Default().App
	app.DebugLogging = flagMain.Debug
	log, sync, err := newLogger(app)
	if err != nil {
		return err
	}
	defer sync()
	defer log.TrackPerformance("batch")()

	registry := session.NewRegistry(session.DefaultOptions(), log.WithComponent("batch"))
	entries := make([]batchEntry, len(files))

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(runtime.NumCPU())
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			entries[i] = batchEntry{File: file}

			cfg, err := config.Load(file)
			if err != nil {
				entries[i].fail(err)
				return nil
			}
			s, err := registry.CreateWithOptions(sessionOptions(cfg))
			if err != nil {
				entries[i].fail(err)
				return nil
			}
			defer registry.Remove(s.ID())

			res, err := s.RunScenario(ctx, cfg.Scenario)
			if err != nil {
				entries[i].fail(err)
				return nil
			}
			entries[i].Result = &res
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	_, reads, writes := registry.GetStats()
	log.Debug("Batch finished",
		zap.Int("files", len(files)),
		zap.Uint64("registry_reads", reads),
		zap.Uint64("registry_writes", writes))

	if flagBatch.Output != "text" {
		return preview.EncodeData(cmd.OutOrStdout(), entries, flagBatch.Output)
	}
	return printBatch(cmd.OutOrStdout(), entries)
}

func (e *batchEntry) fail(err error) {
	e.Error = err.Error()
	e.Kind = session.Kind(err)
}

func printBatch(w io.Writer, entries []batchEntry) error {
	failed := 0
	for _, e := range entries {
		if e.Result == nil {
			failed++
			if _, err := fmt.Fprintf(w, "%-28s FAILED (%s): %s\n", e.File, e.Kind, e.Error); err != nil {
				return err
			}
			continue
		}
		after := e.Result.After
		line := fmt.Sprintf("%-28s %-10s fee %s", e.File, after.Token.Symbol, after.Fee.NativeString())
		if after.Pool != nil {
			line += fmt.Sprintf("  price %s  Δprice %s%%", after.Pool.Price.StringFixed(9), e.Result.Delta.PriceChange.String())
		}
		if after.Decentralized {
			line += "  decentralized"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d scenario(s) failed", failed, len(entries))
	}
	return nil
}
