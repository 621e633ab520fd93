package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Item is one presented line of a statement section. Amount is the line's
// signed contribution to the section total; only contra lines such as
// treasury stock are negative.
type Item struct {
	Code        string          `json:"account_code"`
	Name        string          `json:"account_name"`
	Amount      decimal.Decimal `json:"amount"`
	Subtype     AccountSubtype  `json:"account_subtype"`
	IsDeduction bool            `json:"is_deduction,omitempty"`
}

// Section is a named, ordered group of items with their total.
type Section struct {
	Name  string          `json:"name"`
	Total decimal.Decimal `json:"total_amount"`
	Items []Item          `json:"items"`
}

// NewSection builds a Section whose total is the sum of its items.
func NewSection(name string, items []Item) Section {
	return Section{Name: name, Total: SumItems(items), Items: items}
}

// SumItems adds up item amounts.
func SumItems(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Amount)
	}
	return total
}

// SumWhere adds up the amounts of items matching keep.
func (s Section) SumWhere(keep func(Item) bool) decimal.Decimal {
	total := decimal.Zero
	for _, it := range s.Items {
		if keep(it) {
			total = total.Add(it.Amount)
		}
	}
	return total
}

// BalanceSheet reports assets, liabilities and equity at a point in time.
type BalanceSheet struct {
	Entity      string    `json:"entity_name"`
	AsOf        time.Time `json:"as_of_date"`
	Assets      Section   `json:"assets"`
	Liabilities Section   `json:"liabilities"`
	Equity      Section   `json:"equity"`
}

func (b *BalanceSheet) TotalAssets() decimal.Decimal      { return b.Assets.Total }
func (b *BalanceSheet) TotalLiabilities() decimal.Decimal { return b.Liabilities.Total }
func (b *BalanceSheet) TotalEquity() decimal.Decimal      { return b.Equity.Total }

// TotalLiabilitiesAndEquity is the right-hand side of the accounting equation.
func (b *BalanceSheet) TotalLiabilitiesAndEquity() decimal.Decimal {
	return b.Liabilities.Total.Add(b.Equity.Total)
}

// IsBalanced reports whether assets equal liabilities plus equity within 0.01.
func (b *BalanceSheet) IsBalanced() bool {
	return b.TotalAssets().Sub(b.TotalLiabilitiesAndEquity()).Abs().LessThanOrEqual(decimal.New(1, -2))
}

// CurrentAssets sums asset items in a current subtype.
func (b *BalanceSheet) CurrentAssets() decimal.Decimal {
	return b.Assets.SumWhere(func(it Item) bool { return it.Subtype.IsCurrent() })
}

// CurrentLiabilities sums liability items in a current subtype.
func (b *BalanceSheet) CurrentLiabilities() decimal.Decimal {
	return b.Liabilities.SumWhere(func(it Item) bool { return it.Subtype.IsCurrent() })
}

// IncomeStatement is the multi-step income statement for a period. Every
// scalar is derived from the sections and re-checked after construction.
type IncomeStatement struct {
	Entity            string          `json:"entity_name"`
	PeriodStart       time.Time       `json:"period_start"`
	PeriodEnd         time.Time       `json:"period_end"`
	Revenue           Section         `json:"revenue"`
	CostOfGoodsSold   Section         `json:"cost_of_goods_sold"`
	GrossProfit       decimal.Decimal `json:"gross_profit"`
	OperatingExpenses Section         `json:"operating_expenses"`
	OperatingIncome   decimal.Decimal `json:"operating_income"`
	OtherIncome       Section         `json:"other_income"`
	OtherExpenses     Section         `json:"other_expenses"`
	IncomeBeforeTax   decimal.Decimal `json:"income_before_tax"`
	TaxExpense        Section         `json:"tax_expense"`
	NetIncome         decimal.Decimal `json:"net_income"`
}

// EquityChange is one line of the equity roll-forward.
type EquityChange struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	IsAddition  bool            `json:"is_addition"`
}

// Signed returns the change's effect on equity.
func (c EquityChange) Signed() decimal.Decimal {
	if c.IsAddition {
		return c.Amount
	}
	return c.Amount.Neg()
}

// StatementOfEquity rolls beginning equity forward to ending equity.
type StatementOfEquity struct {
	Entity          string          `json:"entity_name"`
	PeriodStart     time.Time       `json:"period_start"`
	PeriodEnd       time.Time       `json:"period_end"`
	BeginningLabel  string          `json:"beginning_label"`
	BeginningEquity decimal.Decimal `json:"beginning_equity"`
	Changes         []EquityChange  `json:"changes"`
	EndingEquity    decimal.Decimal `json:"ending_equity"`
}

// NetChange is the signed sum of all changes.
func (s *StatementOfEquity) NetChange() decimal.Decimal {
	total := decimal.Zero
	for _, c := range s.Changes {
		total = total.Add(c.Signed())
	}
	return total
}

// CashFlowActivity is the section a cash flow line belongs to.
type CashFlowActivity string

const (
	ActivityOperating CashFlowActivity = "operating"
	ActivityInvesting CashFlowActivity = "investing"
	ActivityFinancing CashFlowActivity = "financing"
)

// CashFlowMethod selects how the operating section is presented.
type CashFlowMethod string

const (
	MethodIndirect CashFlowMethod = "indirect"
	MethodDirect   CashFlowMethod = "direct"
)

// ParseCashFlowMethod parses "direct" or "indirect" (case-insensitive).
// An empty string selects the indirect method.
func ParseCashFlowMethod(s string) (CashFlowMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(MethodIndirect):
		return MethodIndirect, nil
	case string(MethodDirect):
		return MethodDirect, nil
	}
	return "", fmt.Errorf("unknown cash flow method %q (want direct or indirect)", s)
}

// CashFlowItem is one line of the cash flow statement. Amount is never
// negative; IsInflow gives the direction.
type CashFlowItem struct {
	Description string           `json:"description"`
	Amount      decimal.Decimal  `json:"amount"`
	Activity    CashFlowActivity `json:"activity"`
	IsInflow    bool             `json:"is_inflow"`
}

// Signed returns the line's effect on cash.
func (i CashFlowItem) Signed() decimal.Decimal {
	if i.IsInflow {
		return i.Amount
	}
	return i.Amount.Neg()
}

// NetCash sums the signed effect of a list of lines.
func NetCash(items []CashFlowItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Signed())
	}
	return total
}

// CashFlowStatement reports cash movements by activity for a period.
type CashFlowStatement struct {
	Entity               string          `json:"entity_name"`
	PeriodStart          time.Time       `json:"period_start"`
	PeriodEnd            time.Time       `json:"period_end"`
	Method               CashFlowMethod  `json:"method"`
	OperatingActivities  []CashFlowItem  `json:"operating_activities"`
	InvestingActivities  []CashFlowItem  `json:"investing_activities"`
	FinancingActivities  []CashFlowItem  `json:"financing_activities"`
	NetCashOperating     decimal.Decimal `json:"net_cash_operating"`
	NetCashInvesting     decimal.Decimal `json:"net_cash_investing"`
	NetCashFinancing     decimal.Decimal `json:"net_cash_financing"`
	NetChangeInCash      decimal.Decimal `json:"net_change_in_cash"`
	BeginningCashBalance decimal.Decimal `json:"beginning_cash_balance"`
	EndingCashBalance    decimal.Decimal `json:"ending_cash_balance"`
}

// LiquidityRatios measure short-term solvency.
type LiquidityRatios struct {
	CurrentRatio decimal.Decimal `json:"current_ratio"`
	QuickRatio   decimal.Decimal `json:"quick_ratio"`
	CashRatio    decimal.Decimal `json:"cash_ratio"`
}

// ProfitabilityRatios are percentages (x100).
type ProfitabilityRatios struct {
	GrossProfitMargin     decimal.Decimal `json:"gross_profit_margin"`
	OperatingProfitMargin decimal.Decimal `json:"operating_profit_margin"`
	NetProfitMargin       decimal.Decimal `json:"net_profit_margin"`
	ReturnOnAssets        decimal.Decimal `json:"return_on_assets"`
	ReturnOnEquity        decimal.Decimal `json:"return_on_equity"`
}

// LeverageRatios measure reliance on debt.
type LeverageRatios struct {
	DebtToEquity     decimal.Decimal `json:"debt_to_equity"`
	DebtToAssets     decimal.Decimal `json:"debt_to_assets"`
	EquityMultiplier decimal.Decimal `json:"equity_multiplier"`
}

// EfficiencyRatios measure asset utilisation. Inventory and receivables
// turnover are unset when the entity carries no inventory or receivables.
type EfficiencyRatios struct {
	AssetTurnover       decimal.Decimal     `json:"asset_turnover"`
	InventoryTurnover   decimal.NullDecimal `json:"inventory_turnover"`
	ReceivablesTurnover decimal.NullDecimal `json:"receivables_turnover"`
}

// FinancialRatios groups every ratio, each rounded to 4 decimal places.
type FinancialRatios struct {
	Entity        string              `json:"entity_name"`
	AsOf          time.Time           `json:"as_of_date"`
	Liquidity     LiquidityRatios     `json:"liquidity"`
	Profitability ProfitabilityRatios `json:"profitability"`
	Leverage      LeverageRatios      `json:"leverage"`
	Efficiency    EfficiencyRatios    `json:"efficiency"`
}

// CompleteFinancialStatements is the engine's single output aggregate.
type CompleteFinancialStatements struct {
	Entity            string             `json:"entity_name"`
	PeriodStart       time.Time          `json:"period_start"`
	PeriodEnd         time.Time          `json:"period_end"`
	TrialBalance      *TrialBalance      `json:"trial_balance"`
	BalanceSheet      *BalanceSheet      `json:"balance_sheet"`
	IncomeStatement   *IncomeStatement   `json:"income_statement"`
	StatementOfEquity *StatementOfEquity `json:"statement_of_equity"`
	CashFlowStatement *CashFlowStatement `json:"cash_flow_statement"`
	FinancialRatios   *FinancialRatios   `json:"financial_ratios"`
}
