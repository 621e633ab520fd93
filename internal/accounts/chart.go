package accounts

import "github.com/cleared-dev/finsynth/internal/model"

func std(code, name string, sub model.AccountSubtype) model.Account {
	c := model.Classify(sub)
	return model.Account{Code: code, Name: name, Type: c.Type, Subtype: c.Subtype}
}

// standardChart is the conventional chart of accounts, in code order.
var standardChart = []model.Account{
	std("1000", "Cash", model.SubtypeCurrentAsset),
	std("1010", "Cash - Operating", model.SubtypeCurrentAsset),
	std("1020", "Cash - Payroll", model.SubtypeCurrentAsset),
	std("1100", "Accounts Receivable", model.SubtypeCurrentAsset),
	std("1110", "Allowance for Doubtful Accounts", model.SubtypeCurrentAsset),
	std("1200", "Inventory", model.SubtypeCurrentAsset),
	std("1210", "Raw Materials Inventory", model.SubtypeCurrentAsset),
	std("1220", "Work in Process Inventory", model.SubtypeCurrentAsset),
	std("1230", "Finished Goods Inventory", model.SubtypeCurrentAsset),
	std("1300", "Prepaid Expenses", model.SubtypeCurrentAsset),
	std("1310", "Prepaid Insurance", model.SubtypeCurrentAsset),
	std("1320", "Prepaid Rent", model.SubtypeCurrentAsset),

	std("1500", "Land", model.SubtypePropertyPlantEquipment),
	std("1510", "Buildings", model.SubtypePropertyPlantEquipment),
	std("1520", "Equipment", model.SubtypePropertyPlantEquipment),
	std("1530", "Vehicles", model.SubtypePropertyPlantEquipment),
	std("1540", "Accumulated Depreciation - Buildings", model.SubtypePropertyPlantEquipment),
	std("1550", "Accumulated Depreciation - Equipment", model.SubtypePropertyPlantEquipment),
	std("1560", "Accumulated Depreciation - Vehicles", model.SubtypePropertyPlantEquipment),
	std("1600", "Patents", model.SubtypeIntangibleAsset),
	std("1610", "Copyrights", model.SubtypeIntangibleAsset),
	std("1620", "Trademarks", model.SubtypeIntangibleAsset),
	std("1630", "Goodwill", model.SubtypeIntangibleAsset),
	std("1700", "Long-term Investments", model.SubtypeInvestment),

	std("2000", "Accounts Payable", model.SubtypeCurrentLiability),
	std("2100", "Accrued Expenses", model.SubtypeCurrentLiability),
	std("2110", "Accrued Salaries", model.SubtypeCurrentLiability),
	std("2120", "Accrued Interest", model.SubtypeCurrentLiability),
	std("2200", "Short-term Notes Payable", model.SubtypeCurrentLiability),
	std("2300", "Current Portion of Long-term Debt", model.SubtypeCurrentLiability),
	std("2400", "Income Tax Payable", model.SubtypeCurrentLiability),
	std("2500", "Long-term Notes Payable", model.SubtypeNonCurrentLiability),
	std("2510", "Mortgage Payable", model.SubtypeNonCurrentLiability),
	std("2520", "Bonds Payable", model.SubtypeNonCurrentLiability),
	std("2530", "Deferred Tax Liability", model.SubtypeNonCurrentLiability),

	std("3000", "Common Stock", model.SubtypePaidInCapital),
	std("3010", "Preferred Stock", model.SubtypePaidInCapital),
	std("3020", "Additional Paid-in Capital", model.SubtypePaidInCapital),
	std("3100", "Retained Earnings", model.SubtypeRetainedEarnings),
	std("3200", "Treasury Stock", model.SubtypeTreasuryStock),
	std("3300", "Accumulated Other Comprehensive Income", model.SubtypeOtherComprehensive),

	std("4000", "Sales Revenue", model.SubtypeOperatingRevenue),
	std("4010", "Service Revenue", model.SubtypeOperatingRevenue),
	std("4020", "Rental Revenue", model.SubtypeOperatingRevenue),
	std("4100", "Interest Revenue", model.SubtypeNonOperatingRevenue),
	std("4110", "Dividend Revenue", model.SubtypeNonOperatingRevenue),
	std("4120", "Gain on Sale of Assets", model.SubtypeNonOperatingRevenue),

	std("5000", "Cost of Goods Sold", model.SubtypeCostOfGoodsSold),
	std("5010", "Raw Materials Used", model.SubtypeCostOfGoodsSold),
	std("5020", "Direct Labor", model.SubtypeCostOfGoodsSold),
	std("5030", "Manufacturing Overhead", model.SubtypeCostOfGoodsSold),

	std("6000", "Advertising Expense", model.SubtypeSellingExpense),
	std("6010", "Sales Commissions", model.SubtypeSellingExpense),
	std("6020", "Delivery Expense", model.SubtypeSellingExpense),
	std("6100", "Salaries Expense", model.SubtypeAdministrativeExpense),
	std("6110", "Rent Expense", model.SubtypeAdministrativeExpense),
	std("6120", "Utilities Expense", model.SubtypeAdministrativeExpense),
	std("6130", "Insurance Expense", model.SubtypeAdministrativeExpense),
	std("6140", "Office Supplies Expense", model.SubtypeAdministrativeExpense),
	std("6200", "Depreciation Expense", model.SubtypeDepreciationExpense),
	std("6300", "Interest Expense", model.SubtypeInterestExpense),
	std("6400", "Income Tax Expense", model.SubtypeTaxExpense),
}

var standardByCode = func() map[string]model.Account {
	m := make(map[string]model.Account, len(standardChart))
	for _, a := range standardChart {
		m[a.Code] = a
	}
	return m
}()

// StandardChart returns a copy of the built-in chart of accounts.
func StandardChart() []model.Account {
	out := make([]model.Account, len(standardChart))
	copy(out, standardChart)
	return out
}

// Lookup returns the standard account for a code.
func Lookup(code string) (model.Account, bool) {
	a, ok := standardByCode[code]
	return a, ok
}

// CriticalAccounts must appear on every trial balance.
var CriticalAccounts = []model.Account{
	standardByCode["3000"],
	standardByCode["3100"],
	standardByCode["1000"],
}

var cashCodes = map[string]bool{"1000": true, "1010": true, "1020": true}

// IsCash reports whether an account holds cash: a current asset with a
// standard cash code, or whose name mentions cash or bank.
func IsCash(a model.TrialBalanceAccount) bool {
	return isCash(a.Code, a.Name, a.Subtype)
}

// IsCashItem is IsCash for a statement line.
func IsCashItem(it model.Item) bool {
	return isCash(it.Code, it.Name, it.Subtype)
}

func isCash(code, name string, sub model.AccountSubtype) bool {
	if sub != model.SubtypeCurrentAsset {
		return false
	}
	return cashCodes[code] || MatchesAny(name, "cash", "bank")
}

// IsContra reports whether an asset account carries a credit balance by
// design, such as accumulated depreciation or a doubtful-accounts allowance.
func IsContra(a model.TrialBalanceAccount) bool {
	if a.Type != model.AccountTypeAsset {
		return false
	}
	return MatchesAny(a.Name, "accumulated", "allowance")
}
