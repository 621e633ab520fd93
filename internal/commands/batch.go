package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/finsynth/internal/config"
	"github.com/cleared-dev/finsynth/internal/ledgerfile"
	"github.com/cleared-dev/finsynth/internal/model"
	"github.com/cleared-dev/finsynth/internal/render"
	"github.com/cleared-dev/finsynth/internal/runlog"
	"github.com/cleared-dev/finsynth/internal/synth"
)

func newBatchCommand(opts *options) *cobra.Command {
	var flags runFlags
	var outDir string
	var concurrency int
	var markProcessed bool

	cmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: "Generate statements for every trial balance file in a directory",
		Long: "Generate statements for every trial balance file in a directory.\n" +
			"Each file is its own entity, named after the file. The first failure stops the batch.",
		Args: cobra.ExactArgs(1),
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
			if cmd.Flags().Changed("concurrency") {
				cfg.Batch.Concurrency = concurrency
			}
			if markProcessed {
				cfg.Batch.MarkProcessed = true
			}

			dir := args[0]
			if outDir == "" {
				outDir = filepath.Join(dir, "statements")
			}
			return runBatch(cmd.Context(), opts, cfg, dir, outDir, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&flags.start, "start", "", "period start, YYYY-MM-DD")
	cmd.Flags().StringVar(&flags.end, "end", "", "period end, YYYY-MM-DD")
	flags.registerStatements(cmd)
	cmd.Flags().StringVar(&outDir, "out-dir", "", "directory for generated statements (default <dir>/statements)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "files synthesized at once (0 = unlimited)")
	cmd.Flags().BoolVar(&markProcessed, "mark-processed", false, "move each input to <dir>/processed when done")

	return cmd
}

func runBatch(ctx context.Context, opts *options, cfg *config.Config, dir, outDir string, out io.Writer) error {
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

	files, err := ledgerfile.Scan(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintf(out, "No trial balance files in %s\n", dir)
		return nil
	}

	if err := checkOutputNames(files, format); err != nil {
		return err
	}

	jobs := make([]synth.Job, 0, len(files))
	for _, f := range files {
		entity := baseName(f.Name)
		tb, err := opts.readTrialBalance(c, f.Path, entity, start, end)
		if err != nil {
			opts.record(cfg, runlog.Failed(time.Now().UTC(), entity, f.Path, p.Method, err))
			return fmt.Errorf("%s: %w", f.Name, err)
		}
		jobs = append(jobs, synth.Job{Name: f.Name, TrialBalance: tb, Params: p})
	}

	results, err := synth.New(opts.logger).SynthesizeBatch(ctx, jobs, cfg.Batch.Concurrency)
	if err != nil {
		opts.record(cfg, runlog.Failed(time.Now().UTC(), "", dir, p.Method, err))
		return err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	r := render.New(cfg.Entity.Currency)
	now := time.Now().UTC()
	entries := make([]runlog.Entry, 0, len(results))
	for i, res := range results {
		var report *synth.AnalysisReport
		if cfg.Output.Analysis {
			report = synth.Analyze(res.Statements)
		}

		dst := filepath.Join(outDir, baseName(res.Name)+format.Extension())
		if err := writeStatements(r, dst, format, res.Statements, report); err != nil {
			return err
		}
		entries = append(entries, runlog.Succeeded(now, files[i].Path, res.Statements))

		if cfg.Batch.MarkProcessed {
			if err := ledgerfile.MarkProcessed(dir, res.Name); err != nil {
				return err
			}
		}
		fmt.Fprintf(out, "%s -> %s\n", res.Name, dst)
	}
	opts.record(cfg, entries...)

	fmt.Fprintf(out, "Synthesized %d file(s)\n", len(results))
	return nil
}

func writeStatements(r *render.Renderer, path string, format render.Format, s *model.CompleteFinancialStatements, report *synth.AnalysisReport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}
	if err := r.Render(f, format, s, report); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

// checkOutputNames fails when two inputs would write the same output file,
// e.g. "north.csv" and "north.tsv". Names are compared case-insensitively
// for case-insensitive filesystems.
func checkOutputNames(files []ledgerfile.FileInfo, format render.Format) error {
	seen := make(map[string]string, len(files))
	for _, f := range files {
		dst := baseName(f.Name) + format.Extension()
		key := strings.ToLower(dst)
		if prev, ok := seen[key]; ok {
			return fmt.Errorf("%s and %s would both write %s", prev, f.Name, dst)
		}
		seen[key] = f.Name
	}
	return nil
}

func baseName(name string) string {
	return strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
}
