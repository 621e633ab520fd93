package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/finsynth/internal/accounts"
	"github.com/cleared-dev/finsynth/internal/model"
)

// FileName is the project configuration file written by init.
const FileName = "finsynth.yaml"

// EnvPrefix prefixes every environment override, e.g. FINSYNTH_ENTITY.
const EnvPrefix = "FINSYNTH"

// Config represents the top-level finsynth.yaml configuration.
type Config struct {
	Entity     EntityConfig     `yaml:"entity"`
	Period     PeriodConfig     `yaml:"period"`
	Opening    OpeningConfig    `yaml:"opening"`
	Statements StatementsConfig `yaml:"statements"`
	Output     OutputConfig     `yaml:"output"`
	Chart      ChartConfig      `yaml:"chart"`
	RunLog     RunLogConfig     `yaml:"run_log"`
	Batch      BatchConfig      `yaml:"batch"`
}

// EntityConfig identifies the reporting entity.
type EntityConfig struct {
	Name     string `yaml:"name"`
	Currency string `yaml:"currency"` // ISO 4217 code used for display
}

// PeriodConfig bounds the reporting period.
type PeriodConfig struct {
	Start string `yaml:"start,omitempty"` // "YYYY-MM-DD"
	End   string `yaml:"end,omitempty"`
}

// OpeningConfig holds balances carried in from the previous period.
type OpeningConfig struct {
	Cash             decimal.Decimal `yaml:"cash"`
	RetainedEarnings decimal.Decimal `yaml:"retained_earnings"`
}

// StatementsConfig selects statement variants.
type StatementsConfig struct {
	CashFlowMethod string          `yaml:"cash_flow_method"`
	Equity         string          `yaml:"equity"`
	Dividends      decimal.Decimal `yaml:"dividends"`
}

// OutputConfig controls rendering.
type OutputConfig struct {
	Format   string `yaml:"format"`
	Analysis bool   `yaml:"analysis"`
}

// ChartConfig points at the chart of accounts that overrides the standard one.
type ChartConfig struct {
	Path string `yaml:"path"`
}

// RunLogConfig controls the CSV log of synthesis runs.
type RunLogConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

// BatchConfig controls directory batch runs.
type BatchConfig struct {
	Concurrency   int  `yaml:"concurrency"`
	MarkProcessed bool `yaml:"mark_processed"`
}

// Load reads a finsynth.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields Default("").
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(""), nil
	}
	return cfg, err
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default(entity string) *Config {
	return &Config{
		Entity: EntityConfig{
			Name:     entity,
			Currency: "USD",
		},
		Statements: StatementsConfig{
			CashFlowMethod: string(model.MethodIndirect),
			Equity:         "total",
		},
		Output: OutputConfig{
			Format: "text",
		},
		Chart: ChartConfig{
			Path: accounts.ChartPath,
		},
		RunLog: RunLogConfig{
			Enabled: true,
			Dir:     "logs",
		},
		Batch: BatchConfig{
			Concurrency: 4,
		},
	}
}

// Env is the set of FINSYNTH_* overrides. Unset or empty variables leave
// the file value alone.
type Env struct {
	Entity                    string
	Currency                  string
	PeriodStart               string `split_words:"true"`
	PeriodEnd                 string `split_words:"true"`
	BeginningCash             string `split_words:"true"`
	BeginningRetainedEarnings string `split_words:"true"`
	Dividends                 string
	Method                    string
	Equity                    string
	Format                    string
	Chart                     string
	RunLogDir                 string `split_words:"true"`
	Concurrency               int
}

// ApplyEnv overlays FINSYNTH_* environment variables onto c.
func (c *Config) ApplyEnv() error {
	var env Env
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return fmt.Errorf("reading environment: %w", err)
	}
	return c.Apply(env)
}

// Apply overlays the non-empty fields of env onto c.
func (c *Config) Apply(env Env) error {
	setString(&c.Entity.Name, env.Entity)
	setString(&c.Entity.Currency, env.Currency)
	setString(&c.Period.Start, env.PeriodStart)
	setString(&c.Period.End, env.PeriodEnd)
	setString(&c.Statements.CashFlowMethod, env.Method)
	setString(&c.Statements.Equity, env.Equity)
	setString(&c.Output.Format, env.Format)
	setString(&c.Chart.Path, env.Chart)
	setString(&c.RunLog.Dir, env.RunLogDir)
	if env.Concurrency > 0 {
		c.Batch.Concurrency = env.Concurrency
	}

	for _, o := range []struct {
		name string
		raw  string
		dst  *decimal.Decimal
	}{
		{"beginning cash", env.BeginningCash, &c.Opening.Cash},
		{"beginning retained earnings", env.BeginningRetainedEarnings, &c.Opening.RetainedEarnings},
		{"dividends", env.Dividends, &c.Statements.Dividends},
	} {
		if o.raw == "" {
			continue
		}
		d, err := decimal.NewFromString(o.raw)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", o.name, o.raw, err)
		}
		*o.dst = d
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// Dates parses the configured period. Both bounds are required.
func (p PeriodConfig) Dates() (start, end time.Time, err error) {
	if p.Start == "" || p.End == "" {
		return time.Time{}, time.Time{}, errors.New("period start and end are required")
	}
	if start, err = time.Parse(time.DateOnly, p.Start); err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parsing period start: %w", err)
	}
	if end, err = time.Parse(time.DateOnly, p.End); err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parsing period end: %w", err)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %s is before %s", model.ErrInvalidPeriod, p.End, p.Start)
	}
	return start, end, nil
}
