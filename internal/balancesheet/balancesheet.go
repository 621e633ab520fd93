// Package balancesheet builds the statement of financial position from a
// classified trial balance.
package balancesheet

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/finsynth/internal/amount"
	"github.com/cleared-dev/finsynth/internal/model"
)

const statement = "balance sheet"

// NetIncomeLine names the equity line that closes period earnings into the
// balance sheet.
const NetIncomeLine = "Current Period Net Income"

// Presentation order of subtypes within each side.
var (
	assetOrder = []model.AccountSubtype{
		model.SubtypeCurrentAsset,
		model.SubtypeInvestment,
		model.SubtypePropertyPlantEquipment,
		model.SubtypeIntangibleAsset,
		model.SubtypeNonCurrentAsset,
	}
	liabilityOrder = []model.AccountSubtype{
		model.SubtypeCurrentLiability,
		model.SubtypeNonCurrentLiability,
	}
	equityOrder = []model.AccountSubtype{
		model.SubtypePaidInCapital,
		model.SubtypeRetainedEarnings,
		model.SubtypeTreasuryStock,
		model.SubtypeOtherComprehensive,
	}
)

// Generate builds the balance sheet as of asOf, or the trial balance's
// period end when asOf is nil. Revenue, expense, gain and loss balances are
// closed into a single net income line under equity.
//
// It returns a *model.StatementError when total assets are not positive or
// when assets differ from liabilities plus equity by more than one cent.
func Generate(tb *model.TrialBalance, asOf *time.Time) (*model.BalanceSheet, error) {
	date := tb.PeriodEnd
	if asOf != nil {
		date = *asOf
	}

	var assets, liabilities, equity []model.Item
	for _, a := range tb.Accounts {
		switch a.Type {
		case model.AccountTypeAsset:
			assets = append(assets, item(a, a.NetBalance()))
		case model.AccountTypeLiability:
			liabilities = append(liabilities, item(a, a.NetBalance().Neg()))
		case model.AccountTypeEquity:
			bal := a.NetBalance().Neg()
			if a.Subtype == model.SubtypeTreasuryStock {
				bal = a.NetBalance().Abs().Neg()
			}
			equity = append(equity, item(a, bal))
		case model.AccountTypeRevenue, model.AccountTypeExpense, model.AccountTypeGain, model.AccountTypeLoss:
		}
	}
	if ni := amount.Round2(tb.NetIncome()); !ni.IsZero() {
		equity = append(equity, model.Item{
			Name:    NetIncomeLine,
			Amount:  ni,
			Subtype: model.SubtypeRetainedEarnings,
		})
	}

	sortForPresentation(assets, assetOrder)
	sortForPresentation(liabilities, liabilityOrder)
	sortForPresentation(equity, equityOrder)

	bs := &model.BalanceSheet{
		Entity:      tb.Entity,
		AsOf:        date,
		Assets:      model.NewSection("Assets", assets),
		Liabilities: model.NewSection("Liabilities", liabilities),
		Equity:      model.NewSection("Equity", equity),
	}

	if !bs.TotalAssets().IsPositive() {
		return nil, &model.StatementError{
			Statement: statement,
			Reason:    fmt.Sprintf("total assets must be positive, got %s", bs.TotalAssets().StringFixed(2)),
		}
	}
	if !bs.IsBalanced() {
		return nil, &model.StatementError{
			Statement: statement,
			Reason: fmt.Sprintf("assets %s do not equal liabilities and equity %s",
				bs.TotalAssets().StringFixed(2), bs.TotalLiabilitiesAndEquity().StringFixed(2)),
		}
	}
	return bs, nil
}

func item(a model.TrialBalanceAccount, amt decimal.Decimal) model.Item {
	return model.Item{
		Code:    a.Code,
		Name:    a.Name,
		Amount:  amount.Round2(amt),
		Subtype: a.Subtype,
	}
}

// sortForPresentation groups items by subtype in the given order, then by
// account code. Lines without a code follow the ledger lines of their group.
func sortForPresentation(items []model.Item, order []model.AccountSubtype) {
	rank := func(s model.AccountSubtype) int {
		if i := slices.Index(order, s); i >= 0 {
			return i
		}
		return len(order)
	}
	slices.SortStableFunc(items, func(a, b model.Item) int {
		if c := cmp.Compare(rank(a.Subtype), rank(b.Subtype)); c != 0 {
			return c
		}
		switch {
		case a.Code == "" && b.Code != "":
			return 1
		case a.Code != "" && b.Code == "":
			return -1
		}
		return cmp.Compare(a.Code, b.Code)
	})
}

// Analysis holds headline balance sheet metrics. Ratios are zero when their
// denominator is not positive.
type Analysis struct {
	TotalAssets        decimal.Decimal `json:"total_assets"`
	TotalLiabilities   decimal.Decimal `json:"total_liabilities"`
	TotalEquity        decimal.Decimal `json:"total_equity"`
	DebtToEquity       decimal.Decimal `json:"debt_to_equity_ratio"`
	EquityRatio        decimal.Decimal `json:"equity_ratio"`
	DebtRatio          decimal.Decimal `json:"debt_ratio"`
	CurrentRatio       decimal.Decimal `json:"current_ratio"`
	WorkingCapital     decimal.Decimal `json:"working_capital"`
	CurrentAssets      decimal.Decimal `json:"current_assets"`
	CurrentLiabilities decimal.Decimal `json:"current_liabilities"`
}

// Analyze computes the headline metrics of bs.
func Analyze(bs *model.BalanceSheet) Analysis {
	assets, liabilities, equity := bs.TotalAssets(), bs.TotalLiabilities(), bs.TotalEquity()
	ca, cl := bs.CurrentAssets(), bs.CurrentLiabilities()
	return Analysis{
		TotalAssets:        assets,
		TotalLiabilities:   liabilities,
		TotalEquity:        equity,
		DebtToEquity:       ratio(liabilities, equity),
		EquityRatio:        ratio(equity, assets),
		DebtRatio:          ratio(liabilities, assets),
		CurrentRatio:       ratio(ca, cl),
		WorkingCapital:     ca.Sub(cl),
		CurrentAssets:      ca,
		CurrentLiabilities: cl,
	}
}

func ratio(n, d decimal.Decimal) decimal.Decimal {
	if !d.IsPositive() {
		return decimal.Zero
	}
	return amount.SafeDiv(n, d)
}
