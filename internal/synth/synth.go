// Package synth sequences the statement generators into a complete set of
// financial statements.
//
// Generation runs as a three-stage graph: the balance sheet and income
// statement first, then the equity and cash flow statements (both need net
// income), then the ratios. Generators within a stage run concurrently. The
// first failure aborts the run and no partial result is returned.
package synth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/cleared-dev/finsynth/internal/balancesheet"
	"github.com/cleared-dev/finsynth/internal/cashflow"
	"github.com/cleared-dev/finsynth/internal/equity"
	"github.com/cleared-dev/finsynth/internal/income"
	"github.com/cleared-dev/finsynth/internal/model"
	"github.com/cleared-dev/finsynth/internal/ratios"
)

// EquityVariant selects which equity statement is produced.
type EquityVariant string

const (
	// EquityTotal rolls total equity forward (equity.Generate).
	EquityTotal EquityVariant = "total"
	// EquityRetainedEarnings rolls retained earnings forward from
	// Params.BeginningRetainedEarnings (equity.GenerateRetainedEarnings).
	EquityRetainedEarnings EquityVariant = "retained-earnings"
)

// ParseEquityVariant parses a variant name; empty selects EquityTotal.
func ParseEquityVariant(s string) (EquityVariant, error) {
	switch EquityVariant(s) {
	case "", EquityTotal:
		return EquityTotal, nil
	case EquityRetainedEarnings:
		return EquityRetainedEarnings, nil
	}
	return "", fmt.Errorf("unknown equity statement %q (want %s or %s)", s, EquityTotal, EquityRetainedEarnings)
}

// Params holds the scalar inputs of a synthesis run.
type Params struct {
	BeginningCash             decimal.Decimal
	BeginningRetainedEarnings decimal.Decimal
	Dividends                 decimal.Decimal
	Method                    model.CashFlowMethod
	Equity                    EquityVariant
	// Opening equity balances by account code; see equity.Params.
	Opening map[string]decimal.Decimal
}

// Engine runs synthesis. It holds no per-run state and is safe for
// concurrent use.
type Engine struct {
	logger   *slog.Logger
	cashflow *cashflow.Generator
}

// New creates an Engine. A nil logger uses slog.Default().
func New(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger, cashflow: cashflow.NewGenerator(logger)}
}

// Synthesize builds every statement from tb.
func (e *Engine) Synthesize(tb *model.TrialBalance, p Params) (*model.CompleteFinancialStatements, error) {
	e.logger.Debug("synthesizing statements", "entity", tb.Entity, "accounts", len(tb.Accounts))

	var (
		bs *model.BalanceSheet
		is *model.IncomeStatement
	)
	var stage1 errgroup.Group
	stage1.Go(func() (err error) {
		bs, err = balancesheet.Generate(tb, nil)
		return err
	})
	stage1.Go(func() (err error) {
		is, err = income.Generate(tb, nil, nil)
		return err
	})
	if err := stage1.Wait(); err != nil {
		return nil, fmt.Errorf("synthesize %s: %w", tb.Entity, err)
	}

	var (
		soe *model.StatementOfEquity
		cf  *model.CashFlowStatement
	)
	var stage2 errgroup.Group
	stage2.Go(func() (err error) {
		soe, err = e.equity(tb, is.NetIncome, p)
		return err
	})
	stage2.Go(func() (err error) {
		cf, err = e.cashflow.Generate(tb, is.NetIncome, p.BeginningCash, p.Method, cashflow.Params{})
		return err
	})
	if err := stage2.Wait(); err != nil {
		return nil, fmt.Errorf("synthesize %s: %w", tb.Entity, err)
	}

	fr, err := ratios.Calculate(bs, is)
	if err != nil {
		return nil, fmt.Errorf("synthesize %s: %w", tb.Entity, err)
	}

	e.logger.Info("generated financial statements",
		"entity", tb.Entity,
		"net_income", is.NetIncome.StringFixed(2),
		"total_assets", bs.TotalAssets().StringFixed(2),
		"method", string(cf.Method))

	return &model.CompleteFinancialStatements{
		Entity:            tb.Entity,
		PeriodStart:       tb.PeriodStart,
		PeriodEnd:         tb.PeriodEnd,
		TrialBalance:      tb,
		BalanceSheet:      bs,
		IncomeStatement:   is,
		StatementOfEquity: soe,
		CashFlowStatement: cf,
		FinancialRatios:   fr,
	}, nil
}

func (e *Engine) equity(tb *model.TrialBalance, netIncome decimal.Decimal, p Params) (*model.StatementOfEquity, error) {
	ep := equity.Params{Dividends: p.Dividends, Opening: p.Opening}
	switch p.Equity {
	case EquityTotal, "":
		return equity.Generate(tb, netIncome, ep)
	case EquityRetainedEarnings:
		return equity.GenerateRetainedEarnings(tb, netIncome, p.BeginningRetainedEarnings, ep)
	}
	return nil, fmt.Errorf("unknown equity statement %q", p.Equity)
}

// Job is one trial balance in a batch.
type Job struct {
	Name         string
	TrialBalance *model.TrialBalance
	Params       Params
}

// Result pairs a Job name with its statements.
type Result struct {
	Name       string
	Statements *model.CompleteFinancialStatements
}

// SynthesizeBatch runs jobs concurrently, at most limit at a time (no limit
// when limit <= 0). Results keep the order of jobs. The first failure
// cancels jobs that have not started and is returned alone.
func (e *Engine) SynthesizeBatch(ctx context.Context, jobs []Job, limit int) ([]Result, error) {
	results := make([]Result, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s, err := e.Synthesize(job.TrialBalance, job.Params)
			if err != nil {
				return fmt.Errorf("%s: %w", job.Name, err)
			}
			results[i] = Result{Name: job.Name, Statements: s}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
