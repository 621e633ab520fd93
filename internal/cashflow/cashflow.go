// Package cashflow builds the statement of cash flows by the direct or
// indirect method.
package cashflow

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/finsynth/internal/accounts"
	"github.com/cleared-dev/finsynth/internal/amount"
	"github.com/cleared-dev/finsynth/internal/model"
)

const statement = "cash flow statement"

// Params holds optional period overrides.
type Params struct {
	PeriodStart *time.Time
	PeriodEnd   *time.Time
}

// Generator builds cash flow statements. Reconciliation drift against the
// ledger's cash accounts is logged, not returned.
type Generator struct {
	logger *slog.Logger
}

// NewGenerator creates a Generator. A nil logger uses slog.Default().
func NewGenerator(logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{logger: logger}
}

// Generate builds the statement. Ending cash is beginningCash plus the net
// change across the three activities.
func (g *Generator) Generate(tb *model.TrialBalance, netIncome, beginningCash decimal.Decimal, method model.CashFlowMethod, p Params) (*model.CashFlowStatement, error) {
	from, to := tb.PeriodStart, tb.PeriodEnd
	if p.PeriodStart != nil {
		from = *p.PeriodStart
	}
	if p.PeriodEnd != nil {
		to = *p.PeriodEnd
	}

	var operating []model.CashFlowItem
	switch method {
	case model.MethodIndirect, "":
		method = model.MethodIndirect
		operating = indirect(tb, netIncome)
	case model.MethodDirect:
		operating = direct(tb)
	default:
		return nil, &model.StatementError{Statement: statement, Reason: fmt.Sprintf("unknown method %q", method)}
	}

	cf := &model.CashFlowStatement{
		Entity:               tb.Entity,
		PeriodStart:          from,
		PeriodEnd:            to,
		Method:               method,
		OperatingActivities:  operating,
		InvestingActivities:  investing(tb),
		FinancingActivities:  financing(tb),
		BeginningCashBalance: amount.Round2(beginningCash),
	}
	cf.NetCashOperating = model.NetCash(cf.OperatingActivities)
	cf.NetCashInvesting = model.NetCash(cf.InvestingActivities)
	cf.NetCashFinancing = model.NetCash(cf.FinancingActivities)
	cf.NetChangeInCash = amount.Sum(cf.NetCashOperating, cf.NetCashInvesting, cf.NetCashFinancing)
	cf.EndingCashBalance = cf.BeginningCashBalance.Add(cf.NetChangeInCash)

	if err := Verify(cf); err != nil {
		return nil, err
	}

	ledger := LedgerCash(tb)
	if !amount.Within(cf.EndingCashBalance, ledger) {
		g.logger.Warn("cash flow does not reconcile to ledger cash",
			"entity", tb.Entity,
			"method", string(method),
			"expected", cf.EndingCashBalance.StringFixed(2),
			"ledger_cash", ledger.StringFixed(2),
			"difference", cf.EndingCashBalance.Sub(ledger).StringFixed(2))
	}
	return cf, nil
}

// LedgerCash sums the positive balances of the trial balance's cash accounts.
func LedgerCash(tb *model.TrialBalance) decimal.Decimal {
	total := decimal.Zero
	for _, a := range tb.Accounts {
		if accounts.IsCash(a) && a.NetBalance().IsPositive() {
			total = total.Add(a.NetBalance())
		}
	}
	return total
}

func flow(desc string, amt decimal.Decimal, activity model.CashFlowActivity, inflow bool) model.CashFlowItem {
	return model.CashFlowItem{
		Description: desc,
		Amount:      amount.Round2(amt),
		Activity:    activity,
		IsInflow:    inflow,
	}
}

// movement turns a signed balance into a line: positive balances take the
// first description and direction, negative ones the second and the
// opposite direction. Zero balances produce no line.
func movement(bal decimal.Decimal, activity model.CashFlowActivity, up, down string, upIsInflow bool) (model.CashFlowItem, bool) {
	switch {
	case bal.IsPositive():
		return flow(up, bal, activity, upIsInflow), true
	case bal.IsNegative():
		return flow(down, bal.Abs(), activity, !upIsInflow), true
	}
	return model.CashFlowItem{}, false
}

func totalAbs(accts []model.TrialBalanceAccount) decimal.Decimal {
	total := decimal.Zero
	for _, a := range accts {
		total = total.Add(a.NetBalance().Abs())
	}
	return total
}

func indirect(tb *model.TrialBalance, netIncome decimal.Decimal) []model.CashFlowItem {
	const op = model.ActivityOperating

	var items []model.CashFlowItem
	if netIncome.IsNegative() {
		items = append(items, flow("Net loss", netIncome.Abs(), op, false))
	} else {
		items = append(items, flow("Net income", netIncome, op, true))
	}
	if dep := totalAbs(tb.BySubtype(model.SubtypeDepreciationExpense)); dep.IsPositive() {
		items = append(items, flow("Depreciation and amortization", dep, op, true))
	}

	for _, a := range tb.BySubtype(model.SubtypeCurrentAsset) {
		if accounts.IsCash(a) {
			continue
		}
		if it, ok := movement(a.NormalBalance(), op, "Increase in "+a.Name, "Decrease in "+a.Name, false); ok {
			items = append(items, it)
		}
	}
	for _, a := range tb.BySubtype(model.SubtypeCurrentLiability) {
		if it, ok := movement(a.NormalBalance(), op, "Increase in "+a.Name, "Decrease in "+a.Name, true); ok {
			items = append(items, it)
		}
	}
	return items
}

func direct(tb *model.TrialBalance) []model.CashFlowItem {
	const op = model.ActivityOperating

	lines := []struct {
		desc     string
		subtypes []model.AccountSubtype
		inflow   bool
	}{
		{"Cash received from customers", []model.AccountSubtype{model.SubtypeOperatingRevenue}, true},
		{"Cash paid to suppliers", []model.AccountSubtype{model.SubtypeCostOfGoodsSold}, false},
		{"Cash paid for operating expenses", []model.AccountSubtype{
			model.SubtypeSellingExpense, model.SubtypeAdministrativeExpense, model.SubtypeOperatingExpense,
		}, false},
		{"Interest paid", []model.AccountSubtype{model.SubtypeInterestExpense}, false},
		{"Income taxes paid", []model.AccountSubtype{model.SubtypeTaxExpense}, false},
	}

	var items []model.CashFlowItem
	for _, l := range lines {
		if total := totalAbs(tb.BySubtype(l.subtypes...)); total.IsPositive() {
			items = append(items, flow(l.desc, total, op, l.inflow))
		}
	}
	return items
}

func investing(tb *model.TrialBalance) []model.CashFlowItem {
	var items []model.CashFlowItem
	for _, sub := range []model.AccountSubtype{
		model.SubtypePropertyPlantEquipment,
		model.SubtypeInvestment,
		model.SubtypeIntangibleAsset,
	} {
		for _, a := range tb.BySubtype(sub) {
			// Accumulated depreciation is non-cash; it reaches operating
			// activities through the depreciation add-back.
			if accounts.IsContra(a) {
				continue
			}
			if it, ok := movement(a.NormalBalance(), model.ActivityInvesting,
				"Purchase of "+a.Name, "Sale of "+a.Name, false); ok {
				items = append(items, it)
			}
		}
	}
	return items
}

func financing(tb *model.TrialBalance) []model.CashFlowItem {
	const fin = model.ActivityFinancing

	var items []model.CashFlowItem
	for _, a := range tb.BySubtype(model.SubtypeNonCurrentLiability) {
		if it, ok := movement(a.NormalBalance(), fin, "Proceeds from "+a.Name, "Repayment of "+a.Name, true); ok {
			items = append(items, it)
		}
	}
	for _, a := range tb.BySubtype(model.SubtypePaidInCapital) {
		if it, ok := movement(a.NormalBalance(), fin, "Proceeds from "+a.Name, "Repurchase of "+a.Name, true); ok {
			items = append(items, it)
		}
	}
	for _, a := range tb.BySubtype(model.SubtypeTreasuryStock) {
		if it, ok := movement(a.NormalBalance(), fin, "Purchase of treasury stock", "Sale of treasury stock", false); ok {
			items = append(items, it)
		}
	}
	return items
}

// Verify re-derives the activity totals, the net change and ending cash.
func Verify(cf *model.CashFlowStatement) error {
	checks := []struct {
		name     string
		expected decimal.Decimal
		actual   decimal.Decimal
	}{
		{"net cash from operating activities", model.NetCash(cf.OperatingActivities), cf.NetCashOperating},
		{"net cash from investing activities", model.NetCash(cf.InvestingActivities), cf.NetCashInvesting},
		{"net cash from financing activities", model.NetCash(cf.FinancingActivities), cf.NetCashFinancing},
		{"net change in cash", amount.Sum(cf.NetCashOperating, cf.NetCashInvesting, cf.NetCashFinancing), cf.NetChangeInCash},
		{"ending cash", cf.BeginningCashBalance.Add(cf.NetChangeInCash), cf.EndingCashBalance},
	}
	for _, c := range checks {
		if !amount.Within(c.expected, c.actual) {
			return &model.InvariantError{Statement: statement, Check: c.name, Expected: c.expected, Actual: c.actual}
		}
	}
	return nil
}

// Pattern is the lifecycle reading of the signs of the three activities.
type Pattern string

const (
	PatternGrowth     Pattern = "Growth (O+, I-, F+)"
	PatternMature     Pattern = "Mature (O+, I-, F-)"
	PatternDeclining  Pattern = "Declining (O+, I+, F-)"
	PatternStartup    Pattern = "Startup (O-, I-, F+)"
	PatternTurnaround Pattern = "Turnaround (O-, I+, F+)"
	PatternDistress   Pattern = "Distress (O-, I+, F-)"
	PatternMixed      Pattern = "Mixed Pattern"
)

// Classify reads the pattern from the activity totals; zero counts as
// non-positive.
func Classify(operating, investing, financing decimal.Decimal) Pattern {
	o, i, f := operating.IsPositive(), investing.IsPositive(), financing.IsPositive()
	switch {
	case o && !i && f:
		return PatternGrowth
	case o && !i && !f:
		return PatternMature
	case o && i && !f:
		return PatternDeclining
	case !o && !i && f:
		return PatternStartup
	case !o && i && f:
		return PatternTurnaround
	case !o && i && !f:
		return PatternDistress
	}
	return PatternMixed
}

// Analysis summarises a cash flow statement.
type Analysis struct {
	NetOperating      decimal.Decimal `json:"net_operating_cash_flow"`
	NetInvesting      decimal.Decimal `json:"net_investing_cash_flow"`
	NetFinancing      decimal.Decimal `json:"net_financing_cash_flow"`
	NetChange         decimal.Decimal `json:"net_change_in_cash"`
	BeginningCash     decimal.Decimal `json:"beginning_cash_balance"`
	EndingCash        decimal.Decimal `json:"ending_cash_balance"`
	Pattern           Pattern         `json:"cash_flow_pattern"`
	PositiveOperating bool            `json:"is_positive_operating"`
	PositiveInvesting bool            `json:"is_positive_investing"`
	PositiveFinancing bool            `json:"is_positive_financing"`
}

// Analyze summarises cf.
func Analyze(cf *model.CashFlowStatement) Analysis {
	return Analysis{
		NetOperating:      cf.NetCashOperating,
		NetInvesting:      cf.NetCashInvesting,
		NetFinancing:      cf.NetCashFinancing,
		NetChange:         cf.NetChangeInCash,
		BeginningCash:     cf.BeginningCashBalance,
		EndingCash:        cf.EndingCashBalance,
		Pattern:           Classify(cf.NetCashOperating, cf.NetCashInvesting, cf.NetCashFinancing),
		PositiveOperating: cf.NetCashOperating.IsPositive(),
		PositiveInvesting: cf.NetCashInvesting.IsPositive(),
		PositiveFinancing: cf.NetCashFinancing.IsPositive(),
	}
}
