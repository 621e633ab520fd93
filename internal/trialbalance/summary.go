package trialbalance

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/finsynth/internal/model"
)

// Summary is the headline view of a trial balance.
type Summary struct {
	Entity       string          `json:"entity_name"`
	PeriodStart  time.Time       `json:"period_start"`
	PeriodEnd    time.Time       `json:"period_end"`
	Accounts     int             `json:"account_count"`
	TotalDebits  decimal.Decimal `json:"total_debits"`
	TotalCredits decimal.Decimal `json:"total_credits"`
	Difference   decimal.Decimal `json:"difference"`
	IsBalanced   bool            `json:"is_balanced"`
}

// Summarise builds the Summary of tb.
func Summarise(tb *model.TrialBalance) Summary {
	return Summary{
		Entity:       tb.Entity,
		PeriodStart:  tb.PeriodStart,
		PeriodEnd:    tb.PeriodEnd,
		Accounts:     len(tb.Accounts),
		TotalDebits:  tb.TotalDebits(),
		TotalCredits: tb.TotalCredits(),
		Difference:   tb.Difference(),
		IsBalanced:   tb.IsBalanced(),
	}
}
