// Package ratios calculates liquidity, profitability, leverage and
// efficiency ratios from a balance sheet and income statement.
package ratios

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/finsynth/internal/accounts"
	"github.com/cleared-dev/finsynth/internal/amount"
	"github.com/cleared-dev/finsynth/internal/model"
)

// Calculate computes every ratio. Division by zero yields zero; inventory
// and receivables turnover are left unset when the balance is not positive.
func Calculate(bs *model.BalanceSheet, is *model.IncomeStatement) (*model.FinancialRatios, error) {
	if bs == nil || is == nil {
		return nil, errors.New("ratios: balance sheet and income statement are required")
	}

	q := quickAssets(bs)
	cl := bs.CurrentLiabilities()
	assets, liabilities, equity := bs.TotalAssets(), bs.TotalLiabilities(), bs.TotalEquity()
	revenue := is.Revenue.Total

	r := &model.FinancialRatios{
		Entity: bs.Entity,
		AsOf:   bs.AsOf,
		Liquidity: model.LiquidityRatios{
			CurrentRatio: amount.SafeDiv(bs.CurrentAssets(), cl),
			QuickRatio:   amount.SafeDiv(amount.Sum(q.cash, q.marketable, q.receivables), cl),
			CashRatio:    amount.SafeDiv(q.cash, cl),
		},
		Profitability: model.ProfitabilityRatios{
			GrossProfitMargin:     amount.Percent(is.GrossProfit, revenue),
			OperatingProfitMargin: amount.Percent(is.OperatingIncome, revenue),
			NetProfitMargin:       amount.Percent(is.NetIncome, revenue),
			ReturnOnAssets:        amount.Percent(is.NetIncome, assets),
			ReturnOnEquity:        amount.Percent(is.NetIncome, equity),
		},
		Leverage: model.LeverageRatios{
			DebtToEquity:     amount.SafeDiv(liabilities, equity),
			DebtToAssets:     amount.SafeDiv(liabilities, assets),
			EquityMultiplier: amount.SafeDiv(assets, equity),
		},
		Efficiency: model.EfficiencyRatios{
			AssetTurnover: amount.SafeDiv(revenue, assets),
		},
	}
	if q.inventory.IsPositive() {
		r.Efficiency.InventoryTurnover = decimal.NewNullDecimal(amount.SafeDiv(is.CostOfGoodsSold.Total, q.inventory))
	}
	if q.receivables.IsPositive() {
		r.Efficiency.ReceivablesTurnover = decimal.NewNullDecimal(amount.SafeDiv(revenue, q.receivables))
	}
	return r, nil
}

type current struct {
	cash        decimal.Decimal
	marketable  decimal.Decimal
	receivables decimal.Decimal
	inventory   decimal.Decimal
}

// quickAssets splits current asset lines by name. Each line lands in at
// most one bucket, checked in field order.
func quickAssets(bs *model.BalanceSheet) current {
	var c current
	for _, it := range bs.Assets.Items {
		if !it.Subtype.IsCurrent() {
			continue
		}
		switch {
		case accounts.IsCashItem(it):
			c.cash = c.cash.Add(it.Amount)
		case accounts.MatchesAny(it.Name, "marketable", "investment", "securities"):
			c.marketable = c.marketable.Add(it.Amount)
		case accounts.MatchesAny(it.Name, "receivable", "ar"):
			c.receivables = c.receivables.Add(it.Amount)
		case accounts.MatchesAny(it.Name, "inventory", "stock"):
			c.inventory = c.inventory.Add(it.Amount)
		}
	}
	return c
}
