package trialbalance

import (
	"fmt"
	"slices"
	"strings"

	"github.com/cleared-dev/finsynth/internal/accounts"
	"github.com/cleared-dev/finsynth/internal/model"
)

// Validate runs every structural check on a trial balance and returns all
// findings. An empty result means the trial balance is usable.
func Validate(tb *model.TrialBalance) []Issue {
	var issues []Issue

	// Debits equal credits.
	if !tb.IsBalanced() {
		diff := tb.Difference()
		issues = append(issues, Issue{
			Kind:    KindUnbalanced,
			Message: fmt.Sprintf("trial balance is not balanced, difference %s", diff.StringFixed(2)),
			Details: map[string]any{
				"total_debits":  tb.TotalDebits().StringFixed(2),
				"total_credits": tb.TotalCredits().StringFixed(2),
				"difference":    diff.StringFixed(2),
			},
		})
	}

	// Unique account codes.
	counts := make(map[string]int, len(tb.Accounts))
	for _, a := range tb.Accounts {
		counts[a.Code]++
	}
	var dups []string
	for code, n := range counts {
		if n > 1 {
			dups = append(dups, code)
		}
	}
	if len(dups) > 0 {
		slices.Sort(dups)
		issues = append(issues, Issue{
			Kind:    KindDuplicateCodes,
			Message: "duplicate account codes: " + strings.Join(dups, ", "),
			Details: map[string]any{"duplicates": dups},
		})
	}

	// Critical accounts present.
	var missing []string
	for _, c := range accounts.CriticalAccounts {
		if counts[c.Code] == 0 {
			missing = append(missing, c.Name)
		}
	}
	if len(missing) > 0 {
		issues = append(issues, Issue{
			Kind:    KindMissingCritical,
			Message: "missing critical accounts: " + strings.Join(missing, ", "),
			Details: map[string]any{"missing_accounts": missing},
		})
	}

	// One side per account.
	for _, a := range tb.Accounts {
		if a.Ambiguous() {
			issues = append(issues, Issue{
				Kind:    KindAmbiguous,
				Message: fmt.Sprintf("account %s has both debit and credit balances", a.Code),
				Details: map[string]any{
					"account_code":   a.Code,
					"account_name":   a.Name,
					"debit_balance":  a.DebitAmount().StringFixed(2),
					"credit_balance": a.CreditAmount().StringFixed(2),
				},
			})
		}
	}

	// Debit-normal accounts may not carry a credit balance, contra assets aside.
	for _, a := range tb.Accounts {
		if !a.NetBalance().IsNegative() || a.Type.CreditNormal() || a.Type == model.AccountTypeEquity {
			continue
		}
		if accounts.IsContra(a) {
			continue
		}
		issues = append(issues, Issue{
			Kind:    KindNegative,
			Message: fmt.Sprintf("account %s has a negative balance", a.Code),
			Details: map[string]any{
				"account_code": a.Code,
				"account_name": a.Name,
				"balance":      a.NetBalance().StringFixed(2),
			},
		})
	}

	return issues
}
