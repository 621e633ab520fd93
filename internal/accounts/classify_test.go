package accounts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/finsynth/internal/model"
)

func TestClassify_StandardCodeWins(t *testing.T) {
	for _, name := range []string{"Cash", "Totally Not Cash", "Bonds Payable", ""} {
		got := Classify("1000", name)
		assert.Equal(t, model.AccountTypeAsset, got.Type, "name %q", name)
		assert.Equal(t, model.SubtypeCurrentAsset, got.Subtype, "name %q", name)
	}
}

func TestClassify_DefaultFallback(t *testing.T) {
	got := Classify("9999", "Miscellaneous")
	assert.Equal(t, model.AccountTypeExpense, got.Type)
	assert.Equal(t, model.SubtypeOperatingExpense, got.Subtype)
}

func TestClassify_Ranges(t *testing.T) {
	tests := []struct {
		code, name string
		want       model.AccountSubtype
	}{
		{"1050", "Petty Float", model.SubtypeCurrentAsset},
		{"1499", "Deposits", model.SubtypeCurrentAsset},
		{"1570", "Machinery", model.SubtypePropertyPlantEquipment},
		{"1650", "Software Licenses", model.SubtypeIntangibleAsset},
		{"1800", "Security Deposits", model.SubtypeNonCurrentAsset},
		{"2050", "Credit Card", model.SubtypeCurrentLiability},
		{"2600", "Bank Loan", model.SubtypeNonCurrentLiability},
		{"3050", "Owner Contributions", model.SubtypePaidInCapital},
		{"3250", "Treasury Shares", model.SubtypeTreasuryStock},
		{"3150", "Retained Profits", model.SubtypeRetainedEarnings},
		{"4500", "Consulting Income", model.SubtypeOperatingRevenue},
		{"5500", "Freight In", model.SubtypeCostOfGoodsSold},
		{"6210", "Depreciation - Vehicles", model.SubtypeDepreciationExpense},
		{"6310", "Loan Interest", model.SubtypeInterestExpense},
		{"6410", "State Tax", model.SubtypeTaxExpense},
		{"6050", "Sales Travel", model.SubtypeSellingExpense},
		{"6150", "General Admin", model.SubtypeAdministrativeExpense},
		{"6500", "Repairs", model.SubtypeOperatingExpense},
	}
	for _, tt := range tests {
		got := Classify(tt.code, tt.name)
		assert.Equal(t, tt.want, got.Subtype, "Classify(%s, %s)", tt.code, tt.name)
		assert.True(t, got.Consistent())
	}
}

func TestClassify_Keywords(t *testing.T) {
	tests := []struct {
		name string
		want model.AccountSubtype
	}{
		{"Petty Cash", model.SubtypeCurrentAsset},
		{"Main Bank Account", model.SubtypeCurrentAsset},
		{"Trade Receivables", model.SubtypeCurrentAsset},
		{"AR - Wholesale", model.SubtypeCurrentAsset},
		{"Inventory on Hand", model.SubtypeCurrentAsset},
		{"Trade Payables", model.SubtypeCurrentLiability},
		{"AP Clearing", model.SubtypeCurrentLiability},
		{"Common Stock", model.SubtypePaidInCapital},
		{"Preferred Stock", model.SubtypePaidInCapital},
		{"Treasury Stock", model.SubtypeTreasuryStock},
		{"Retained Earnings", model.SubtypeRetainedEarnings},
		{"Sales", model.SubtypeOperatingRevenue},
		{"Cost of Goods Sold", model.SubtypeCostOfGoodsSold},
		{"Depreciation", model.SubtypeDepreciationExpense},
		{"Accumulated Depreciation", model.SubtypePropertyPlantEquipment},
		{"Interest Expense", model.SubtypeInterestExpense},
		{"Interest Income", model.SubtypeNonOperatingRevenue},
		{"Gain on Disposal", model.SubtypeGain},
		{"Loss on Disposal", model.SubtypeLoss},
		{"Gain on Sale of Equipment", model.SubtypeGain},
		{"Income Tax", model.SubtypeTaxExpense},
		{"Mortgage", model.SubtypeNonCurrentLiability},
		{"Goodwill", model.SubtypeIntangibleAsset},
		{"Salaries", model.SubtypeAdministrativeExpense},
		{"Other Current Liabilities", model.SubtypeCurrentLiability},
		{"Other Current Assets", model.SubtypeCurrentAsset},
		{"Other Non-current Assets", model.SubtypeNonCurrentAsset},
		{"Noncurrent Liabilities", model.SubtypeNonCurrentLiability},
		{"Property Taxes", model.SubtypeTaxExpense},
		{"Office Rent", model.SubtypeAdministrativeExpense},
		{"Administrative Costs", model.SubtypeAdministrativeExpense},
		{"Raw Material Inventories", model.SubtypeCurrentAsset},
		{"Realized Gains", model.SubtypeGain},
		{"Credit Losses", model.SubtypeLoss},
	}
	for _, tt := range tests {
		got := Classify("X-"+tt.name, tt.name)
		assert.Equal(t, tt.want, got.Subtype, "Classify(%q)", tt.name)
		assert.True(t, got.Consistent())
	}
}

func TestClassify_ShortKeywordsMatchWholeWords(t *testing.T) {
	// "ar" inside "Quarterly" and "ap" inside "Apparel" must not match.
	assert.Equal(t, model.SubtypeOperatingExpense, Classify("", "Quarterly Fees").Subtype)
	assert.Equal(t, model.SubtypeOperatingExpense, Classify("", "Apparel").Subtype)
}

func TestClassify_KeywordsMatchWholeWords(t *testing.T) {
	// "rent" sits inside "current" and "parent"; neither is rent expense.
	assert.Equal(t, model.SubtypeOperatingExpense, Classify("", "Current Portion").Subtype)
	assert.Equal(t, model.SubtypeOperatingExpense, Classify("", "Parent Company Fees").Subtype)
	// "tax" inside "syntax" is not a tax.
	assert.Equal(t, model.SubtypeOperatingExpense, Classify("", "Syntax Tools").Subtype)
}

func TestClassify_Total(t *testing.T) {
	inputs := [][2]string{{"", ""}, {"abc", "!!!"}, {"-5", "x"}, {"99999999999999999999", "y"}}
	for _, in := range inputs {
		got := Classify(in[0], in[1])
		assert.True(t, got.Consistent(), "Classify(%q, %q)", in[0], in[1])
	}
}

func TestLookup(t *testing.T) {
	a, ok := Lookup("6400")
	require.True(t, ok)
	assert.Equal(t, "Income Tax Expense", a.Name)
	assert.Equal(t, model.SubtypeTaxExpense, a.Subtype)

	_, ok = Lookup("6401")
	assert.False(t, ok)
}

func TestStandardChart_ConsistentAndSorted(t *testing.T) {
	chart := StandardChart()
	for i, a := range chart {
		assert.True(t, model.Classification{Type: a.Type, Subtype: a.Subtype}.Consistent(), a.Code)
		if i > 0 {
			assert.Less(t, chart[i-1].Code, a.Code)
		}
	}
	chart[0].Name = "mutated"
	a, _ := Lookup("1000")
	assert.Equal(t, "Cash", a.Name)
}

func TestCriticalAccounts(t *testing.T) {
	codes := []string{}
	for _, a := range CriticalAccounts {
		codes = append(codes, a.Code)
	}
	assert.Equal(t, []string{"3000", "3100", "1000"}, codes)
}

func TestIsCash(t *testing.T) {
	cash := func(code, name string, sub model.AccountSubtype) model.TrialBalanceAccount {
		return model.TrialBalanceAccount{Code: code, Name: name, Subtype: sub}
	}
	assert.True(t, IsCash(cash("1010", "Operating", model.SubtypeCurrentAsset)))
	assert.True(t, IsCash(cash("1090", "Bank - Savings", model.SubtypeCurrentAsset)))
	assert.False(t, IsCash(cash("1100", "Accounts Receivable", model.SubtypeCurrentAsset)))
	assert.False(t, IsCash(cash("1700", "Cash Surrender Value", model.SubtypeInvestment)))
}

func TestIsContra(t *testing.T) {
	acct := func(name string, typ model.AccountType) model.TrialBalanceAccount {
		return model.TrialBalanceAccount{Name: name, Type: typ}
	}
	assert.True(t, IsContra(acct("Accumulated Depreciation - Equipment", model.AccountTypeAsset)))
	assert.True(t, IsContra(acct("Allowance for Doubtful Accounts", model.AccountTypeAsset)))
	assert.False(t, IsContra(acct("Equipment", model.AccountTypeAsset)))
	assert.False(t, IsContra(acct("Accumulated Other Comprehensive Income", model.AccountTypeEquity)))
}

func TestIsCashItem(t *testing.T) {
	assert.True(t, IsCashItem(model.Item{Code: "1000", Name: "Operating", Subtype: model.SubtypeCurrentAsset}))
	assert.False(t, IsCashItem(model.Item{Code: "1200", Name: "Inventory", Subtype: model.SubtypeCurrentAsset}))
}

func TestMatchesAny(t *testing.T) {
	assert.True(t, MatchesAny("Trade AR", "receivable", "ar"))
	assert.False(t, MatchesAny("Salaries", "ar"))
	assert.False(t, MatchesAny("Salaries"))
	assert.True(t, MatchesAny("Bank Accounts", "bank"))
	assert.True(t, MatchesAny("Short-term Investments", "investment"))
	assert.False(t, MatchesAny("Concurrent Licences", "current asset"))
}
