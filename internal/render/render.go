// Package render presents synthesized statements as text, markdown,
// terminal markdown, HTML or JSON.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/finsynth/internal/model"
	"github.com/cleared-dev/finsynth/internal/synth"
)

// Format names an output format.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatTerminal Format = "terminal"
	FormatHTML     Format = "html"
	FormatJSON     Format = "json"
)

// Formats lists every supported format.
var Formats = []Format{FormatText, FormatMarkdown, FormatTerminal, FormatHTML, FormatJSON}

// ParseFormat parses a format name (case-insensitive). Empty selects text;
// "md" is accepted for markdown.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	case "md":
		return FormatMarkdown, nil
	case FormatText, FormatMarkdown, FormatTerminal, FormatHTML, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q (want one of %v)", s, Formats)
}

// Extension is the file extension for output written in f.
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return ".md"
	case FormatHTML:
		return ".html"
	case FormatJSON:
		return ".json"
	}
	return ".txt"
}

// Renderer formats statements in one display currency.
type Renderer struct {
	currency string
}

// New creates a Renderer that displays amounts in currency (an ISO 4217
// code). Empty means USD.
func New(currency string) *Renderer {
	if currency == "" {
		currency = money.USD
	}
	return &Renderer{currency: strings.ToUpper(currency)}
}

// Render writes s to w in format f. A nil report omits the analysis.
func (r *Renderer) Render(w io.Writer, f Format, s *model.CompleteFinancialStatements, report *synth.AnalysisReport) error {
	var (
		out string
		err error
	)
	switch f {
	case FormatText, "":
		out = r.Text(s, report)
	case FormatMarkdown:
		out = r.Markdown(s, report)
	case FormatTerminal:
		out, err = r.Terminal(s, report)
	case FormatHTML:
		out, err = r.HTML(s, report)
	case FormatJSON:
		return JSON(w, s, report)
	default:
		return fmt.Errorf("unknown output format %q", f)
	}
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

// Money formats d in the renderer's currency. Negative amounts are shown in
// parentheses.
func (r *Renderer) Money(d decimal.Decimal) string {
	cur := *money.New(0, r.currency).Currency()
	minor := d.Abs().Shift(int32(cur.Fraction)).Round(0).IntPart()
	s := cur.Formatter().Format(minor)
	if d.IsNegative() && minor != 0 {
		return "(" + s + ")"
	}
	return s
}

// Ratio formats a ratio to four places.
func Ratio(d decimal.Decimal) string {
	return d.StringFixed(4)
}

// Percent formats a percentage to two places.
func Percent(d decimal.Decimal) string {
	return d.StringFixed(2) + "%"
}

func nullRatio(d decimal.NullDecimal) string {
	if !d.Valid {
		return "n/a"
	}
	return Ratio(d.Decimal)
}

func period(s *model.CompleteFinancialStatements) string {
	return s.PeriodStart.Format("2006-01-02") + " to " + s.PeriodEnd.Format("2006-01-02")
}

// line is one presented row of a statement: a label and an optional amount.
type line struct {
	label  string
	amount string
	total  bool
}

func (r *Renderer) sectionLines(s model.Section, totalLabel string) []line {
	lines := []line{{label: s.Name}}
	for _, it := range s.Items {
		amt := it.Amount
		if it.IsDeduction {
			amt = amt.Neg()
		}
		lines = append(lines, line{label: "  " + it.Name, amount: r.Money(amt)})
	}
	if totalLabel == "" {
		totalLabel = "Total " + s.Name
	}
	return append(lines, line{label: totalLabel, amount: r.Money(s.Total), total: true})
}

func (r *Renderer) balanceSheetLines(bs *model.BalanceSheet) []line {
	var lines []line
	lines = append(lines, r.sectionLines(bs.Assets, "")...)
	lines = append(lines, r.sectionLines(bs.Liabilities, "")...)
	lines = append(lines, r.sectionLines(bs.Equity, "")...)
	return append(lines, line{label: "Total Liabilities and Equity", amount: r.Money(bs.TotalLiabilitiesAndEquity()), total: true})
}

func (r *Renderer) incomeLines(is *model.IncomeStatement) []line {
	var lines []line
	lines = append(lines, r.sectionLines(is.Revenue, "")...)
	lines = append(lines, r.sectionLines(is.CostOfGoodsSold, "")...)
	lines = append(lines, line{label: "Gross Profit", amount: r.Money(is.GrossProfit), total: true})
	lines = append(lines, r.sectionLines(is.OperatingExpenses, "")...)
	lines = append(lines, line{label: "Operating Income", amount: r.Money(is.OperatingIncome), total: true})
	if len(is.OtherIncome.Items) > 0 {
		lines = append(lines, r.sectionLines(is.OtherIncome, "")...)
	}
	if len(is.OtherExpenses.Items) > 0 {
		lines = append(lines, r.sectionLines(is.OtherExpenses, "")...)
	}
	lines = append(lines, line{label: "Income Before Tax", amount: r.Money(is.IncomeBeforeTax), total: true})
	if len(is.TaxExpense.Items) > 0 {
		lines = append(lines, r.sectionLines(is.TaxExpense, "")...)
	}
	return append(lines, line{label: "Net Income", amount: r.Money(is.NetIncome), total: true})
}

func (r *Renderer) equityLines(soe *model.StatementOfEquity) []line {
	lines := []line{{label: soe.BeginningLabel, amount: r.Money(soe.BeginningEquity)}}
	for _, c := range soe.Changes {
		lines = append(lines, line{label: "  " + c.Description, amount: r.Money(c.Signed())})
	}
	return append(lines, line{label: "Ending Balance", amount: r.Money(soe.EndingEquity), total: true})
}

func (r *Renderer) cashFlowLines(cf *model.CashFlowStatement) []line {
	var lines []line
	activity := func(name string, items []model.CashFlowItem, net decimal.Decimal) {
		lines = append(lines, line{label: name})
		for _, it := range items {
			lines = append(lines, line{label: "  " + it.Description, amount: r.Money(it.Signed())})
		}
		lines = append(lines, line{label: "Net cash from " + strings.ToLower(name), amount: r.Money(net), total: true})
	}
	activity("Operating Activities", cf.OperatingActivities, cf.NetCashOperating)
	activity("Investing Activities", cf.InvestingActivities, cf.NetCashInvesting)
	activity("Financing Activities", cf.FinancingActivities, cf.NetCashFinancing)
	return append(lines,
		line{label: "Net Change in Cash", amount: r.Money(cf.NetChangeInCash), total: true},
		line{label: "Beginning Cash", amount: r.Money(cf.BeginningCashBalance)},
		line{label: "Ending Cash", amount: r.Money(cf.EndingCashBalance), total: true},
	)
}

func ratioLines(fr *model.FinancialRatios) []line {
	return []line{
		{label: "Current Ratio", amount: Ratio(fr.Liquidity.CurrentRatio)},
		{label: "Quick Ratio", amount: Ratio(fr.Liquidity.QuickRatio)},
		{label: "Cash Ratio", amount: Ratio(fr.Liquidity.CashRatio)},
		{label: "Gross Profit Margin", amount: Percent(fr.Profitability.GrossProfitMargin)},
		{label: "Operating Profit Margin", amount: Percent(fr.Profitability.OperatingProfitMargin)},
		{label: "Net Profit Margin", amount: Percent(fr.Profitability.NetProfitMargin)},
		{label: "Return on Assets", amount: Percent(fr.Profitability.ReturnOnAssets)},
		{label: "Return on Equity", amount: Percent(fr.Profitability.ReturnOnEquity)},
		{label: "Debt to Equity", amount: Ratio(fr.Leverage.DebtToEquity)},
		{label: "Debt to Assets", amount: Ratio(fr.Leverage.DebtToAssets)},
		{label: "Equity Multiplier", amount: Ratio(fr.Leverage.EquityMultiplier)},
		{label: "Asset Turnover", amount: Ratio(fr.Efficiency.AssetTurnover)},
		{label: "Inventory Turnover", amount: nullRatio(fr.Efficiency.InventoryTurnover)},
		{label: "Receivables Turnover", amount: nullRatio(fr.Efficiency.ReceivablesTurnover)},
	}
}

// statement is one titled block of lines.
type statement struct {
	title string
	lines []line
}

func (r *Renderer) statements(s *model.CompleteFinancialStatements) []statement {
	return []statement{
		{"Balance Sheet", r.balanceSheetLines(s.BalanceSheet)},
		{"Income Statement", r.incomeLines(s.IncomeStatement)},
		{"Statement of Equity", r.equityLines(s.StatementOfEquity)},
		{"Cash Flow Statement (" + string(s.CashFlowStatement.Method) + ")", r.cashFlowLines(s.CashFlowStatement)},
		{"Financial Ratios", ratioLines(s.FinancialRatios)},
	}
}

// findings flattens the interpretations of an analysis report.
func findings(a *synth.AnalysisReport) []string {
	var out []string
	out = append(out, a.Ratios.Liquidity.Interpretations...)
	out = append(out, a.Ratios.Profitability.Interpretations...)
	out = append(out, a.Ratios.Leverage.Interpretations...)
	out = append(out, a.Ratios.Efficiency.Interpretations...)
	return out
}

func (r *Renderer) analysisLines(a *synth.AnalysisReport) []line {
	return []line{
		{label: "Overall Health", amount: string(a.Ratios.Overall.Health)},
		{label: "Health Score", amount: a.Ratios.Overall.Score.StringFixed(1)},
		{label: "Cash Flow Pattern", amount: string(a.CashFlow.Pattern)},
		{label: "Working Capital", amount: r.Money(a.BalanceSheet.WorkingCapital)},
		{label: "Equity Growth", amount: Percent(a.Equity.GrowthRate)},
	}
}
