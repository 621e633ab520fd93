package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/finsynth/internal/accounts"
	"github.com/cleared-dev/finsynth/internal/config"
	"github.com/cleared-dev/finsynth/internal/ledgerfile"
	"github.com/cleared-dev/finsynth/internal/model"
	"github.com/cleared-dev/finsynth/internal/runlog"
	"github.com/cleared-dev/finsynth/internal/synth"
	"github.com/cleared-dev/finsynth/internal/trialbalance"
)

// loadConfig reads the project config, falling back to defaults when it is
// missing, and overlays FINSYNTH_* variables.
func (o *options) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadOrDefault(o.configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// path resolves p against the directory of the config file.
func (o *options) path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(filepath.Dir(o.configPath), p)
}

// chart returns the project chart of accounts, or the standard chart when
// no chart file exists.
func (o *options) chart(cfg *config.Config) (*accounts.Service, error) {
	path := o.path(cfg.Chart.Path)
	if path == "" {
		return accounts.NewService(accounts.StandardChart()), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		o.logger.Debug("no chart of accounts, using the standard chart", "path", path)
		return accounts.NewService(accounts.StandardChart()), nil
	}
	return accounts.Load(path)
}

// classifier returns a classifier that prefers the project chart.
func (o *options) classifier(cfg *config.Config) (*accounts.Classifier, error) {
	svc, err := o.chart(cfg)
	if err != nil {
		return nil, err
	}
	return svc.Classifier(), nil
}

// runFlags are the per-run overrides of config values.
type runFlags struct {
	entity                    string
	start                     string
	end                       string
	beginningCash             string
	beginningRetainedEarnings string
	dividends                 string
	method                    string
	equity                    string
	format                    string
	analysis                  bool
}

func (f *runFlags) registerPeriod(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.entity, "entity", "", "entity name (default: config, then file name)")
	cmd.Flags().StringVar(&f.start, "start", "", "period start, YYYY-MM-DD")
	cmd.Flags().StringVar(&f.end, "end", "", "period end, YYYY-MM-DD")
}

func (f *runFlags) registerStatements(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.beginningCash, "beginning-cash", "", "cash balance at period start")
	cmd.Flags().StringVar(&f.beginningRetainedEarnings, "beginning-retained-earnings", "", "retained earnings at period start")
	cmd.Flags().StringVar(&f.dividends, "dividends", "", "dividends declared in the period")
	cmd.Flags().StringVar(&f.method, "method", "", "cash flow method: indirect or direct")
	cmd.Flags().StringVar(&f.equity, "equity", "", "equity statement: total or retained-earnings")
	cmd.Flags().StringVar(&f.format, "format", "", "output format: text, markdown, terminal, html or json")
	cmd.Flags().BoolVar(&f.analysis, "analysis", false, "append the statement analysis")
}

// apply overlays the set flags onto cfg.
func (f *runFlags) apply(cfg *config.Config) error {
	return cfg.Apply(config.Env{
		Entity:                    f.entity,
		PeriodStart:               f.start,
		PeriodEnd:                 f.end,
		BeginningCash:             f.beginningCash,
		BeginningRetainedEarnings: f.beginningRetainedEarnings,
		Dividends:                 f.dividends,
		Method:                    f.method,
		Equity:                    f.equity,
		Format:                    f.format,
	})
}

// params builds the synthesis parameters from cfg.
func params(cfg *config.Config) (synth.Params, error) {
	method, err := model.ParseCashFlowMethod(cfg.Statements.CashFlowMethod)
	if err != nil {
		return synth.Params{}, err
	}
	variant, err := synth.ParseEquityVariant(cfg.Statements.Equity)
	if err != nil {
		return synth.Params{}, err
	}
	if cfg.Statements.Dividends.IsNegative() {
		return synth.Params{}, fmt.Errorf("dividends must not be negative: %s", cfg.Statements.Dividends)
	}
	return synth.Params{
		BeginningCash:             cfg.Opening.Cash,
		BeginningRetainedEarnings: cfg.Opening.RetainedEarnings,
		Dividends:                 cfg.Statements.Dividends,
		Method:                    method,
		Equity:                    variant,
	}, nil
}

// entityFor names the entity of a source file when none is configured.
func entityFor(cfg *config.Config, path string) string {
	if cfg.Entity.Name != "" {
		return cfg.Entity.Name
	}
	return baseName(path)
}

// readTrialBalance parses and validates the trial balance at path.
func (o *options) readTrialBalance(c trialbalance.Classifier, path, entity string, start, end time.Time) (*model.TrialBalance, error) {
	rows, err := ledgerfile.DefaultRegistry().ReadFile(path)
	if err != nil {
		return nil, err
	}
	return trialbalance.NewProcessor(c).WithLogger(o.logger).Process(rows, entity, start, end)
}

// record appends entries to the run log when it is enabled. Failures are
// logged, never returned.
func (o *options) record(cfg *config.Config, entries ...runlog.Entry) {
	if !cfg.RunLog.Enabled || len(entries) == 0 {
		return
	}
	if err := runlog.Append(o.path(cfg.RunLog.Dir), entries); err != nil {
		o.logger.Warn("failed to write run log", "error", err)
	}
}
