// Package testfixture provides the sample ledger shared by package tests.
package testfixture

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/finsynth/internal/accounts"
	"github.com/cleared-dev/finsynth/internal/model"
)

var (
	PeriodStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	PeriodEnd   = time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
)

const Entity = "Acme Manufacturing"

// Records is the sample trial balance as a CSV table, header first.
// Totals: 347,000 debit and credit; net income 15,000.
var Records = [][]string{
	{"Account Number", "Account Description", "Debit", "Credit"},
	{"1000", "Cash", "25000.00", ""},
	{"1100", "Accounts Receivable", "20000.00", ""},
	{"1200", "Inventory", "20000.00", ""},
	{"1520", "Equipment", "92000.00", ""},
	{"1550", "Accumulated Depreciation - Equipment", "", "10000.00"},
	{"2000", "Accounts Payable", "", "12000.00"},
	{"2500", "Long-term Notes Payable", "", "30000.00"},
	{"3000", "Common Stock", "", "50000.00"},
	{"3100", "Retained Earnings", "", "45000.00"},
	{"3200", "Treasury Stock", "5000.00", ""},
	{"4000", "Sales Revenue", "", "200000.00"},
	{"5000", "Cost of Goods Sold", "120000.00", ""},
	{"6100", "Salaries Expense", "40000.00", ""},
	{"6110", "Rent Expense", "12000.00", ""},
	{"6200", "Depreciation Expense", "5000.00", ""},
	{"6300", "Interest Expense", "2000.00", ""},
	{"6400", "Income Tax Expense", "6000.00", ""},
}

// Account builds a classified account. Pass "" for an absent side.
func Account(code, name, debit, credit string) model.TrialBalanceAccount {
	c := accounts.Classify(code, name)
	return model.TrialBalanceAccount{
		Code:    code,
		Name:    name,
		Type:    c.Type,
		Subtype: c.Subtype,
		Debit:   side(debit),
		Credit:  side(credit),
	}
}

func side(s string) decimal.NullDecimal {
	if s == "" {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

// TrialBalance returns the sample trial balance, already classified.
func TrialBalance() *model.TrialBalance {
	return Build(Records[1:]...)
}

// Build classifies rows of {code, name, debit, credit} into a trial balance
// over the sample period.
func Build(rows ...[]string) *model.TrialBalance {
	accts := make([]model.TrialBalanceAccount, 0, len(rows))
	for _, r := range rows {
		accts = append(accts, Account(r[0], r[1], r[2], r[3]))
	}
	return &model.TrialBalance{
		Entity:      Entity,
		PeriodStart: PeriodStart,
		PeriodEnd:   PeriodEnd,
		Accounts:    accts,
	}
}

// Dec parses a decimal literal.
func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
