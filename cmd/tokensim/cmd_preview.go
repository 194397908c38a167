package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rovshanmuradov/tokensim/internal/preview"
	"github.com/rovshanmuradov/tokensim/internal/session"
)

var cmdPreview = &cobra.Command{
	Use:   "preview",
	Short: "Run the scenario and print the resulting preview",
	Args:  cobra.NoArgs,
	RunE:  runPreview,
}

var flagPreview struct {
	Output  string
	Compare bool
}

func init() {
	cmdPreview.Flags().StringVarP(&flagPreview.Output, "output", "o", "", "Output format: text, json or yaml (default from app.output)")
	cmdPreview.Flags().BoolVar(&flagPreview.Compare, "compare", false, "Also print the state before the scenario steps and the difference")
}

func runPreview(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, sync, err := newLogger(cfg.App)
	if err != nil {
		return err
	}
	defer sync()
	defer log.TrackPerformance("preview")()

	s, err := newSession(cmd, cfg, log.Logger)
	if err != nil {
		return err
	}
	res, err := s.RunScenario(cmd.Context(), cfg.Scenario)
	if err != nil {
		return err
	}

	format := flagPreview.Output
	if format == "" {
		format = cfg.App.Output
	}
	return writeResult(cmd.OutOrStdout(), res, format, flagPreview.Compare)
}

func writeResult(w io.Writer, res session.ScenarioResult, format string, compare bool) error {
	if format != "" && format != preview.FormatText {
		if compare {
			return preview.EncodeData(w, res, format)
		}
		return preview.Encode(w, res.After, format)
	}

	if compare {
		if _, err := fmt.Fprintln(w, "Before"); err != nil {
			return err
		}
		if err := preview.Render(w, res.Before); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "After %d step(s)\n", res.Steps); err != nil {
			return err
		}
	}
	if err := preview.Render(w, res.After); err != nil {
		return err
	}
	if compare {
		_, err := fmt.Fprintln(w, preview.ViewDelta(res.Delta))
		return err
	}
	return nil
}
