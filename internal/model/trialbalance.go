package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TrialBalanceAccount is one classified ledger balance. Debit and Credit are
// optional and never negative; an unset side counts as zero.
type TrialBalanceAccount struct {
	Code    string              `json:"account_code"`
	Name    string              `json:"account_name"`
	Type    AccountType         `json:"account_type"`
	Subtype AccountSubtype      `json:"account_subtype"`
	Debit   decimal.NullDecimal `json:"debit_balance"`
	Credit  decimal.NullDecimal `json:"credit_balance"`
}

// DebitAmount returns the debit side, zero when unset.
func (a TrialBalanceAccount) DebitAmount() decimal.Decimal {
	if !a.Debit.Valid {
		return decimal.Zero
	}
	return a.Debit.Decimal
}

// CreditAmount returns the credit side, zero when unset.
func (a TrialBalanceAccount) CreditAmount() decimal.Decimal {
	if !a.Credit.Valid {
		return decimal.Zero
	}
	return a.Credit.Decimal
}

// NetBalance is debit minus credit.
func (a TrialBalanceAccount) NetBalance() decimal.Decimal {
	return a.DebitAmount().Sub(a.CreditAmount())
}

// NormalBalance is the balance read in the account's normal direction:
// debit-normal for assets, expenses, losses and treasury stock, credit-normal
// for everything else.
func (a TrialBalanceAccount) NormalBalance() decimal.Decimal {
	if a.Subtype == SubtypeTreasuryStock || !a.Type.CreditNormal() {
		return a.NetBalance()
	}
	return a.NetBalance().Neg()
}

// Ambiguous reports whether both sides are populated.
func (a TrialBalanceAccount) Ambiguous() bool {
	return a.Debit.Valid && a.Credit.Valid
}

// Classification returns the account's (type, subtype) pair.
func (a TrialBalanceAccount) Classification() Classification {
	return Classification{Type: a.Type, Subtype: a.Subtype}
}

// TrialBalance is the period-end list of ledger balances for one entity.
// It is built once per processing run and not mutated afterwards.
type TrialBalance struct {
	Entity      string                `json:"entity_name"`
	PeriodStart time.Time             `json:"period_start"`
	PeriodEnd   time.Time             `json:"period_end"`
	Accounts    []TrialBalanceAccount `json:"accounts"`
}

// NewTrialBalance checks the period bounds and builds a TrialBalance.
func NewTrialBalance(entity string, start, end time.Time, accounts []TrialBalanceAccount) (*TrialBalance, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("%w: %s is before %s", ErrInvalidPeriod,
			end.Format(time.DateOnly), start.Format(time.DateOnly))
	}
	return &TrialBalance{
		Entity:      entity,
		PeriodStart: start,
		PeriodEnd:   end,
		Accounts:    accounts,
	}, nil
}

// TotalDebits sums the debit side of every account.
func (tb *TrialBalance) TotalDebits() decimal.Decimal {
	total := decimal.Zero
	for _, a := range tb.Accounts {
		total = total.Add(a.DebitAmount())
	}
	return total
}

// TotalCredits sums the credit side of every account.
func (tb *TrialBalance) TotalCredits() decimal.Decimal {
	total := decimal.Zero
	for _, a := range tb.Accounts {
		total = total.Add(a.CreditAmount())
	}
	return total
}

// Difference is |total debits - total credits|.
func (tb *TrialBalance) Difference() decimal.Decimal {
	return tb.TotalDebits().Sub(tb.TotalCredits()).Abs()
}

// IsBalanced reports whether debits and credits agree to within one cent
// (strictly less than 0.01).
func (tb *TrialBalance) IsBalanced() bool {
	return tb.Difference().LessThan(decimal.New(1, -2))
}

// ByType returns the accounts of the given type, in input order.
func (tb *TrialBalance) ByType(t AccountType) []TrialBalanceAccount {
	var out []TrialBalanceAccount
	for _, a := range tb.Accounts {
		if a.Type == t {
			out = append(out, a)
		}
	}
	return out
}

// BySubtype returns the accounts of the given subtypes, in input order.
func (tb *TrialBalance) BySubtype(subtypes ...AccountSubtype) []TrialBalanceAccount {
	var out []TrialBalanceAccount
	for _, a := range tb.Accounts {
		for _, s := range subtypes {
			if a.Subtype == s {
				out = append(out, a)
				break
			}
		}
	}
	return out
}

// NetIncome is revenue plus gains less expenses and losses, as carried on
// the trial balance before closing entries.
func (tb *TrialBalance) NetIncome() decimal.Decimal {
	total := decimal.Zero
	for _, a := range tb.Accounts {
		switch a.Type {
		case AccountTypeRevenue, AccountTypeGain:
			total = total.Add(a.NormalBalance())
		case AccountTypeExpense, AccountTypeLoss:
			total = total.Sub(a.NormalBalance())
		case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity:
		}
	}
	return total
}
