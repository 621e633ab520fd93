package commands

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/finsynth/internal/config"
	"github.com/cleared-dev/finsynth/internal/model"
	"github.com/cleared-dev/finsynth/internal/render"
	"github.com/cleared-dev/finsynth/internal/runlog"
	"github.com/cleared-dev/finsynth/internal/synth"
	"github.com/cleared-dev/finsynth/internal/trialbalance"
)

func newSynthesizeCommand(opts *options) *cobra.Command {
	var flags runFlags
	var output string

	cmd := &cobra.Command{
		Use:     "synthesize <file>",
		Aliases: []string{"synth"},
		Short:   "Generate financial statements from a trial balance file",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if err := flags.apply(cfg); err != nil {
				return err
			}
			if flags.analysis {
				cfg.Output.Analysis = true
			}

			if output == "" {
				return runSynthesize(opts, cfg, args[0], cmd.OutOrStdout())
			}
			// Nothing is written unless the whole run succeeds.
			var buf bytes.Buffer
			if err := runSynthesize(opts, cfg, args[0], &buf); err != nil {
				return err
			}
			if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}
			return nil
		},
	}

	flags.registerPeriod(cmd)
	flags.registerStatements(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout")

	return cmd
}

func runSynthesize(opts *options, cfg *config.Config, path string, w io.Writer) error {
	format, err := render.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}
	p, err := params(cfg)
	if err != nil {
		return err
	}
	start, end, err := cfg.Period.Dates()
	if err != nil {
		return err
	}
	c, err := opts.classifier(cfg)
	if err != nil {
		return err
	}

	entity := entityFor(cfg, path)
	s, err := synthesizeFile(opts, c, path, entity, start, end, p)
	if err != nil {
		opts.record(cfg, runlog.Failed(time.Now().UTC(), entity, path, p.Method, err))
		return err
	}
	opts.record(cfg, runlog.Succeeded(time.Now().UTC(), path, s))

	var report *synth.AnalysisReport
	if cfg.Output.Analysis {
		report = synth.Analyze(s)
	}
	return render.New(cfg.Entity.Currency).Render(w, format, s, report)
}

func synthesizeFile(opts *options, c trialbalance.Classifier, path, entity string, start, end time.Time, p synth.Params) (*model.CompleteFinancialStatements, error) {
	tb, err := opts.readTrialBalance(c, path, entity, start, end)
	if err != nil {
		return nil, err
	}
	return synth.New(opts.logger).Synthesize(tb, p)
}
