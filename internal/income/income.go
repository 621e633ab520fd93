// Package income builds the multi-step income statement.
package income

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/finsynth/internal/amount"
	"github.com/cleared-dev/finsynth/internal/model"
)

const statement = "income statement"

var operatingExpenseOrder = []model.AccountSubtype{
	model.SubtypeSellingExpense,
	model.SubtypeAdministrativeExpense,
	model.SubtypeDepreciationExpense,
	model.SubtypeOperatingExpense,
}

// Generate builds the income statement for the period. Nil bounds default
// to the trial balance's period.
//
// Revenue whose accounts net to a debit balance is rejected with a
// *model.StatementError. Subtotals are re-derived after construction and a
// mismatch is returned as a *model.InvariantError.
func Generate(tb *model.TrialBalance, start, end *time.Time) (*model.IncomeStatement, error) {
	from, to := tb.PeriodStart, tb.PeriodEnd
	if start != nil {
		from = *start
	}
	if end != nil {
		to = *end
	}

	revenueAccts := tb.BySubtype(model.SubtypeOperatingRevenue)
	net := decimal.Zero
	for _, a := range revenueAccts {
		net = net.Add(a.NormalBalance())
	}
	if net.IsNegative() {
		return nil, &model.StatementError{
			Statement: statement,
			Reason:    fmt.Sprintf("revenue is negative (%s)", net.StringFixed(2)),
		}
	}

	is := &model.IncomeStatement{
		Entity:            tb.Entity,
		PeriodStart:       from,
		PeriodEnd:         to,
		Revenue:           section("Revenue", revenueAccts, false),
		CostOfGoodsSold:   section("Cost of Goods Sold", tb.BySubtype(model.SubtypeCostOfGoodsSold), true),
		OperatingExpenses: section("Operating Expenses", tb.BySubtype(operatingExpenseOrder...), true),
		OtherIncome:       section("Other Income", tb.BySubtype(model.SubtypeNonOperatingRevenue, model.SubtypeGain), false),
		OtherExpenses:     section("Other Expenses", tb.BySubtype(model.SubtypeInterestExpense, model.SubtypeLoss), true),
		TaxExpense:        section("Tax Expense", tb.BySubtype(model.SubtypeTaxExpense), true),
	}
	slices.SortStableFunc(is.OperatingExpenses.Items, func(a, b model.Item) int {
		ra := slices.Index(operatingExpenseOrder, a.Subtype)
		rb := slices.Index(operatingExpenseOrder, b.Subtype)
		if c := cmp.Compare(ra, rb); c != 0 {
			return c
		}
		return cmp.Compare(a.Code, b.Code)
	})

	is.GrossProfit = is.Revenue.Total.Sub(is.CostOfGoodsSold.Total)
	is.OperatingIncome = is.GrossProfit.Sub(is.OperatingExpenses.Total)
	is.IncomeBeforeTax = is.OperatingIncome.Add(is.OtherIncome.Total).Sub(is.OtherExpenses.Total)
	is.NetIncome = is.IncomeBeforeTax.Sub(is.TaxExpense.Total)

	if err := Verify(is); err != nil {
		return nil, err
	}
	return is, nil
}

// section builds a section of |net balance| lines sorted by account code.
func section(name string, accts []model.TrialBalanceAccount, deduction bool) model.Section {
	items := make([]model.Item, 0, len(accts))
	for _, a := range accts {
		items = append(items, model.Item{
			Code:        a.Code,
			Name:        a.Name,
			Amount:      amount.Round2(a.NetBalance().Abs()),
			Subtype:     a.Subtype,
			IsDeduction: deduction,
		})
	}
	slices.SortStableFunc(items, func(a, b model.Item) int { return cmp.Compare(a.Code, b.Code) })
	return model.NewSection(name, items)
}

// Verify re-derives every section total and subtotal of is from its inputs.
func Verify(is *model.IncomeStatement) error {
	for _, s := range []model.Section{
		is.Revenue, is.CostOfGoodsSold, is.OperatingExpenses,
		is.OtherIncome, is.OtherExpenses, is.TaxExpense,
	} {
		if err := check(s.Name+" total", model.SumItems(s.Items), s.Total); err != nil {
			return err
		}
	}
	checks := []struct {
		name     string
		expected decimal.Decimal
		actual   decimal.Decimal
	}{
		{"gross profit", is.Revenue.Total.Sub(is.CostOfGoodsSold.Total), is.GrossProfit},
		{"operating income", is.GrossProfit.Sub(is.OperatingExpenses.Total), is.OperatingIncome},
		{"income before tax", is.OperatingIncome.Add(is.OtherIncome.Total).Sub(is.OtherExpenses.Total), is.IncomeBeforeTax},
		{"net income", is.IncomeBeforeTax.Sub(is.TaxExpense.Total), is.NetIncome},
	}
	for _, c := range checks {
		if err := check(c.name, c.expected, c.actual); err != nil {
			return err
		}
	}
	return nil
}

func check(name string, expected, actual decimal.Decimal) error {
	if amount.Within(expected, actual) {
		return nil
	}
	return &model.InvariantError{Statement: statement, Check: name, Expected: expected, Actual: actual}
}

// Analysis holds margin and expense ratios as percentages of revenue.
type Analysis struct {
	Revenue               decimal.Decimal `json:"revenue"`
	CostOfGoodsSold       decimal.Decimal `json:"cost_of_goods_sold"`
	GrossProfit           decimal.Decimal `json:"gross_profit"`
	OperatingExpenses     decimal.Decimal `json:"operating_expenses"`
	OperatingIncome       decimal.Decimal `json:"operating_income"`
	NetIncome             decimal.Decimal `json:"net_income"`
	GrossProfitMargin     decimal.Decimal `json:"gross_profit_margin"`
	OperatingMargin       decimal.Decimal `json:"operating_margin"`
	NetProfitMargin       decimal.Decimal `json:"net_profit_margin"`
	COGSRatio             decimal.Decimal `json:"cogs_ratio"`
	OperatingExpenseRatio decimal.Decimal `json:"operating_expense_ratio"`
	TotalExpenses         decimal.Decimal `json:"total_expenses"`
}

// Analyze computes margins and expense ratios. Percentages are zero when
// revenue is not positive.
func Analyze(is *model.IncomeStatement) Analysis {
	revenue := is.Revenue.Total
	pct := func(n decimal.Decimal) decimal.Decimal {
		if !revenue.IsPositive() {
			return decimal.Zero
		}
		return amount.Percent(n, revenue)
	}
	return Analysis{
		Revenue:               revenue,
		CostOfGoodsSold:       is.CostOfGoodsSold.Total,
		GrossProfit:           is.GrossProfit,
		OperatingExpenses:     is.OperatingExpenses.Total,
		OperatingIncome:       is.OperatingIncome,
		NetIncome:             is.NetIncome,
		GrossProfitMargin:     pct(is.GrossProfit),
		OperatingMargin:       pct(is.OperatingIncome),
		NetProfitMargin:       pct(is.NetIncome),
		COGSRatio:             pct(is.CostOfGoodsSold.Total),
		OperatingExpenseRatio: pct(is.OperatingExpenses.Total),
		TotalExpenses: amount.Sum(is.CostOfGoodsSold.Total, is.OperatingExpenses.Total,
			is.OtherExpenses.Total, is.TaxExpense.Total),
	}
}
