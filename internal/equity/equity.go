// Package equity builds the statement of changes in equity and the simpler
// retained earnings statement.
//
// Generate rolls total equity forward. Without opening balances it treats
// the trial balance's own equity accounts as the beginning position, so the
// only changes are net income and dividends. Supply Params.Opening to report
// true period movements in capital, treasury stock and other comprehensive
// income. GenerateRetainedEarnings takes an explicit beginning balance and
// reports retained earnings only.
package equity

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/finsynth/internal/accounts"
	"github.com/cleared-dev/finsynth/internal/amount"
	"github.com/cleared-dev/finsynth/internal/model"
)

const statement = "statement of equity"

// Beginning labels.
const (
	LabelEquity           = "Beginning Equity"
	LabelRetainedEarnings = "Beginning Retained Earnings"
)

// Change descriptions that are not account names.
const (
	NetIncome = "Net Income"
	NetLoss   = "Net Loss"
	Dividends = "Dividends Declared"
)

// Subtypes whose period movement is reported, in presentation order.
var movementOrder = []model.AccountSubtype{
	model.SubtypePaidInCapital,
	model.SubtypeTreasuryStock,
	model.SubtypeOtherComprehensive,
}

// Params holds the optional inputs of both generators.
type Params struct {
	PeriodStart *time.Time
	PeriodEnd   *time.Time
	Dividends   decimal.Decimal
	// Opening maps account code to its beginning balance in the account's
	// normal direction. Nil means the trial balance is the beginning
	// position; otherwise a code missing from Opening opened at zero, and
	// an equity code missing from the trial balance closed to zero.
	Opening map[string]decimal.Decimal
}

func (p Params) period(tb *model.TrialBalance) (time.Time, time.Time) {
	from, to := tb.PeriodStart, tb.PeriodEnd
	if p.PeriodStart != nil {
		from = *p.PeriodStart
	}
	if p.PeriodEnd != nil {
		to = *p.PeriodEnd
	}
	return from, to
}

func (p Params) validate() error {
	if p.Dividends.IsNegative() {
		return &model.StatementError{
			Statement: statement,
			Reason:    fmt.Sprintf("dividends must not be negative, got %s", p.Dividends.StringFixed(2)),
		}
	}
	return nil
}

// contribution is an equity account's effect on total equity. Treasury
// stock always reduces equity.
func contribution(sub model.AccountSubtype, normal decimal.Decimal) decimal.Decimal {
	if sub == model.SubtypeTreasuryStock {
		return normal.Abs().Neg()
	}
	return normal
}

// Generate rolls equity forward from the beginning position through net
// income, dividends and per-account movements.
func Generate(tb *model.TrialBalance, netIncome decimal.Decimal, p Params) (*model.StatementOfEquity, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	from, to := p.period(tb)

	accts := tb.ByType(model.AccountTypeEquity)
	closed := closedAccounts(tb, p.Opening)
	accts = append(accts, closed...)
	slices.SortStableFunc(accts, func(a, b model.TrialBalanceAccount) int {
		return cmp.Compare(a.Code, b.Code)
	})

	beginning := decimal.Zero
	var movements []model.EquityChange
	for _, sub := range movementOrder {
		for _, a := range accts {
			if a.Subtype != sub {
				continue
			}
			current := contribution(a.Subtype, a.NormalBalance())
			opening := current
			if p.Opening != nil {
				opening = contribution(a.Subtype, p.Opening[a.Code])
			}
			if delta := amount.Round2(current.Sub(opening)); !delta.IsZero() {
				movements = append(movements, change(a.Name, delta))
			}
		}
	}
	// Closed accounts outside the reported subtypes still move to zero.
	for _, a := range closed {
		if slices.Contains(movementOrder, a.Subtype) {
			continue
		}
		if delta := amount.Round2(contribution(a.Subtype, p.Opening[a.Code]).Neg()); !delta.IsZero() {
			movements = append(movements, change(a.Name, delta))
		}
	}
	for _, a := range accts {
		opening := a.NormalBalance()
		if p.Opening != nil {
			opening = p.Opening[a.Code]
		}
		beginning = beginning.Add(contribution(a.Subtype, opening))
	}

	var changes []model.EquityChange
	if ni := amount.Round2(netIncome); !ni.IsZero() {
		changes = append(changes, incomeChange(ni))
	}
	if d := amount.Round2(p.Dividends); d.IsPositive() {
		changes = append(changes, model.EquityChange{Description: Dividends, Amount: d})
	}
	changes = append(changes, movements...)

	return build(tb.Entity, from, to, LabelEquity, amount.Round2(beginning), changes)
}

// closedAccounts returns a zero-balance equity account for every opening
// code that no longer appears on tb. The processor drops accounts that
// closed to zero, so without these their opening balance and the move to
// zero would vanish from the roll-forward.
func closedAccounts(tb *model.TrialBalance, opening map[string]decimal.Decimal) []model.TrialBalanceAccount {
	if opening == nil {
		return nil
	}
	present := make(map[string]bool, len(tb.Accounts))
	for _, a := range tb.Accounts {
		present[a.Code] = true
	}
	var out []model.TrialBalanceAccount
	for code, bal := range opening {
		if present[code] || bal.IsZero() {
			continue
		}
		name := code
		c := accounts.Classify(code, code)
		if std, ok := accounts.Lookup(code); ok {
			name = std.Name
			c = model.Classification{Type: std.Type, Subtype: std.Subtype}
		}
		if c.Type != model.AccountTypeEquity {
			continue
		}
		out = append(out, model.TrialBalanceAccount{Code: code, Name: name, Type: c.Type, Subtype: c.Subtype})
	}
	return out
}

// GenerateRetainedEarnings rolls retained earnings forward from an explicit
// beginning balance: beginning + net income - dividends.
func GenerateRetainedEarnings(tb *model.TrialBalance, netIncome, beginning decimal.Decimal, p Params) (*model.StatementOfEquity, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	from, to := p.period(tb)

	changes := []model.EquityChange{
		incomeChange(amount.Round2(netIncome)),
		{Description: Dividends, Amount: amount.Round2(p.Dividends)},
	}
	return build(tb.Entity, from, to, LabelRetainedEarnings, amount.Round2(beginning), changes)
}

func build(entity string, from, to time.Time, label string, beginning decimal.Decimal, changes []model.EquityChange) (*model.StatementOfEquity, error) {
	s := &model.StatementOfEquity{
		Entity:          entity,
		PeriodStart:     from,
		PeriodEnd:       to,
		BeginningLabel:  label,
		BeginningEquity: beginning,
		Changes:         changes,
	}
	s.EndingEquity = beginning.Add(s.NetChange())
	if err := Verify(s); err != nil {
		return nil, err
	}
	return s, nil
}

func change(desc string, delta decimal.Decimal) model.EquityChange {
	return model.EquityChange{Description: desc, Amount: delta.Abs(), IsAddition: delta.IsPositive()}
}

func incomeChange(ni decimal.Decimal) model.EquityChange {
	if ni.IsNegative() {
		return model.EquityChange{Description: NetLoss, Amount: ni.Abs()}
	}
	return model.EquityChange{Description: NetIncome, Amount: ni, IsAddition: true}
}

// Verify checks that ending equity is the beginning balance plus the signed
// changes and that no change amount is negative.
func Verify(s *model.StatementOfEquity) error {
	for _, c := range s.Changes {
		if c.Amount.IsNegative() {
			return &model.StatementError{
				Statement: statement,
				Reason:    fmt.Sprintf("change %q has negative amount %s", c.Description, c.Amount.StringFixed(2)),
			}
		}
	}
	expected := s.BeginningEquity.Add(s.NetChange())
	if !amount.Within(expected, s.EndingEquity) {
		return &model.InvariantError{
			Statement: statement,
			Check:     "ending equity",
			Expected:  expected,
			Actual:    s.EndingEquity,
		}
	}
	return nil
}

// KeyChange is one reported change in an Analysis.
type KeyChange struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
}

// Analysis summarises the roll-forward.
type Analysis struct {
	BeginningEquity decimal.Decimal `json:"beginning_equity"`
	EndingEquity    decimal.Decimal `json:"ending_equity"`
	NetChange       decimal.Decimal `json:"net_change"`
	GrowthRate      decimal.Decimal `json:"growth_rate"`
	TotalAdditions  decimal.Decimal `json:"total_additions"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	KeyChanges      []KeyChange     `json:"key_changes"`
}

// Analyze totals additions and deductions. GrowthRate is the net change as
// a percentage of a positive beginning balance, zero otherwise.
func Analyze(s *model.StatementOfEquity) Analysis {
	a := Analysis{
		BeginningEquity: s.BeginningEquity,
		EndingEquity:    s.EndingEquity,
		NetChange:       s.EndingEquity.Sub(s.BeginningEquity),
		TotalAdditions:  decimal.Zero,
		TotalDeductions: decimal.Zero,
		KeyChanges:      make([]KeyChange, 0, len(s.Changes)),
	}
	if s.BeginningEquity.IsPositive() {
		a.GrowthRate = amount.Percent(a.NetChange, s.BeginningEquity)
	}
	for _, c := range s.Changes {
		kind := "deduction"
		if c.IsAddition {
			kind = "addition"
			a.TotalAdditions = a.TotalAdditions.Add(c.Amount)
		} else {
			a.TotalDeductions = a.TotalDeductions.Add(c.Amount)
		}
		a.KeyChanges = append(a.KeyChanges, KeyChange{Description: c.Description, Amount: c.Amount, Type: kind})
	}
	return a
}
