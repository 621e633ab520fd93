package income

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/finsynth/internal/model"
	"github.com/cleared-dev/finsynth/internal/testfixture"
)

var dec = testfixture.Dec

func TestGenerate_Sample(t *testing.T) {
	is, err := Generate(testfixture.TrialBalance(), nil, nil)
	require.NoError(t, err)

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"revenue", is.Revenue.Total.String(), "200000"},
		{"cogs", is.CostOfGoodsSold.Total.String(), "120000"},
		{"gross profit", is.GrossProfit.String(), "80000"},
		{"operating expenses", is.OperatingExpenses.Total.String(), "57000"},
		{"operating income", is.OperatingIncome.String(), "23000"},
		{"other income", is.OtherIncome.Total.String(), "0"},
		{"other expenses", is.OtherExpenses.Total.String(), "2000"},
		{"income before tax", is.IncomeBeforeTax.String(), "21000"},
		{"tax", is.TaxExpense.Total.String(), "6000"},
		{"net income", is.NetIncome.String(), "15000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.got, tt.name)
	}
	assert.Equal(t, testfixture.PeriodStart, is.PeriodStart)
	assert.Equal(t, testfixture.PeriodEnd, is.PeriodEnd)
}

func TestGenerate_DeductionFlags(t *testing.T) {
	is, err := Generate(testfixture.TrialBalance(), nil, nil)
	require.NoError(t, err)

	for _, it := range is.Revenue.Items {
		assert.False(t, it.IsDeduction)
	}
	for _, s := range []model.Section{is.CostOfGoodsSold, is.OperatingExpenses, is.OtherExpenses, is.TaxExpense} {
		for _, it := range s.Items {
			assert.True(t, it.IsDeduction, "%s %s", s.Name, it.Code)
		}
	}
}

func TestGenerate_OperatingExpenseOrder(t *testing.T) {
	tb := testfixture.Build(
		[]string{"4000", "Sales Revenue", "", "1000.00"},
		[]string{"6900", "Miscellaneous Expense", "10.00", ""},
		[]string{"6200", "Depreciation Expense", "20.00", ""},
		[]string{"6110", "Rent Expense", "30.00", ""},
		[]string{"6000", "Advertising Expense", "40.00", ""},
		[]string{"6100", "Salaries Expense", "50.00", ""},
	)
	is, err := Generate(tb, nil, nil)
	require.NoError(t, err)

	var got []string
	for _, it := range is.OperatingExpenses.Items {
		got = append(got, it.Code)
	}
	assert.Equal(t, []string{"6000", "6100", "6110", "6200", "6900"}, got)
}

func TestGenerate_GainsAndLosses(t *testing.T) {
	tb := testfixture.Build(
		[]string{"4000", "Sales Revenue", "", "1000.00"},
		[]string{"4100", "Interest Revenue", "", "50.00"},
		[]string{"7100", "Gain on Sale of Equipment", "", "25.00"},
		[]string{"7200", "Loss on Disposal", "15.00", ""},
	)
	is, err := Generate(tb, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "75", is.OtherIncome.Total.String())
	assert.Equal(t, "15", is.OtherExpenses.Total.String())
	assert.Equal(t, "1060", is.NetIncome.String())
	assert.True(t, is.NetIncome.Equal(tb.NetIncome()))
}

func TestGenerate_NegativeRevenue(t *testing.T) {
	tb := testfixture.Build(
		[]string{"4000", "Sales Revenue", "100.00", ""},
	)
	_, err := Generate(tb, nil, nil)
	var se *model.StatementError
	require.True(t, errors.As(err, &se))
	assert.Contains(t, se.Reason, "revenue is negative")
}

func TestGenerate_PeriodOverride(t *testing.T) {
	start := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	is, err := Generate(testfixture.TrialBalance(), &start, nil)
	require.NoError(t, err)
	assert.Equal(t, start, is.PeriodStart)
	assert.Equal(t, testfixture.PeriodEnd, is.PeriodEnd)
}

func TestVerify_DetectsTamperedSubtotal(t *testing.T) {
	is, err := Generate(testfixture.TrialBalance(), nil, nil)
	require.NoError(t, err)

	is.OperatingIncome = is.OperatingIncome.Add(dec("0.02"))
	err = Verify(is)
	var ie *model.InvariantError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, "operating income", ie.Check)
}

func TestVerify_DetectsSectionTotal(t *testing.T) {
	is, err := Generate(testfixture.TrialBalance(), nil, nil)
	require.NoError(t, err)

	is.TaxExpense.Total = dec("1")
	var ie *model.InvariantError
	require.True(t, errors.As(Verify(is), &ie))
	assert.Equal(t, "Tax Expense total", ie.Check)
}

func TestVerify_ToleratesOneCent(t *testing.T) {
	is, err := Generate(testfixture.TrialBalance(), nil, nil)
	require.NoError(t, err)

	is.NetIncome = is.NetIncome.Add(dec("0.01"))
	assert.NoError(t, Verify(is))
}

func TestAnalyze(t *testing.T) {
	is, err := Generate(testfixture.TrialBalance(), nil, nil)
	require.NoError(t, err)

	a := Analyze(is)
	assert.Equal(t, "40", a.GrossProfitMargin.String())
	assert.Equal(t, "11.5", a.OperatingMargin.String())
	assert.Equal(t, "7.5", a.NetProfitMargin.String())
	assert.Equal(t, "60", a.COGSRatio.String())
	assert.Equal(t, "28.5", a.OperatingExpenseRatio.String())
	assert.Equal(t, "185000", a.TotalExpenses.String())
}

func TestAnalyze_NoRevenue(t *testing.T) {
	a := Analyze(&model.IncomeStatement{})
	assert.True(t, a.GrossProfitMargin.IsZero())
	assert.True(t, a.TotalExpenses.IsZero())
}
