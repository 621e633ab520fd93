package synth

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/finsynth/internal/balancesheet"
	"github.com/cleared-dev/finsynth/internal/cashflow"
	"github.com/cleared-dev/finsynth/internal/equity"
	"github.com/cleared-dev/finsynth/internal/income"
	"github.com/cleared-dev/finsynth/internal/model"
	"github.com/cleared-dev/finsynth/internal/ratios"
)

// Summary is the headline block of an AnalysisReport.
type Summary struct {
	Entity       string          `json:"entity_name"`
	Period       string          `json:"period"`
	NetIncome    decimal.Decimal `json:"net_income"`
	TotalAssets  decimal.Decimal `json:"total_assets"`
	TotalEquity  decimal.Decimal `json:"total_equity"`
	CashPosition decimal.Decimal `json:"cash_position"`
}

// AnalysisReport collects the analysis of every statement.
type AnalysisReport struct {
	BalanceSheet    balancesheet.Analysis `json:"balance_sheet_analysis"`
	IncomeStatement income.Analysis       `json:"income_statement_analysis"`
	Equity          equity.Analysis       `json:"equity_analysis"`
	CashFlow        cashflow.Analysis     `json:"cash_flow_analysis"`
	Ratios          ratios.Analysis       `json:"ratios_analysis"`
	Summary         Summary               `json:"summary"`
}

// Analyze recomputes every per-statement analysis of s.
func Analyze(s *model.CompleteFinancialStatements) *AnalysisReport {
	return &AnalysisReport{
		BalanceSheet:    balancesheet.Analyze(s.BalanceSheet),
		IncomeStatement: income.Analyze(s.IncomeStatement),
		Equity:          equity.Analyze(s.StatementOfEquity),
		CashFlow:        cashflow.Analyze(s.CashFlowStatement),
		Ratios:          ratios.Analyze(s.FinancialRatios),
		Summary: Summary{
			Entity:       s.Entity,
			Period:       s.PeriodStart.Format(time.DateOnly) + " to " + s.PeriodEnd.Format(time.DateOnly),
			NetIncome:    s.IncomeStatement.NetIncome,
			TotalAssets:  s.BalanceSheet.TotalAssets(),
			TotalEquity:  s.BalanceSheet.TotalEquity(),
			CashPosition: s.CashFlowStatement.EndingCashBalance,
		},
	}
}
