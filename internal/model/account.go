package model

import "fmt"

// AccountType classifies accounts in the chart of accounts.
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeRevenue   AccountType = "revenue"
	AccountTypeExpense   AccountType = "expense"
	AccountTypeGain      AccountType = "gain"
	AccountTypeLoss      AccountType = "loss"
)

// AccountTypes lists every account type in statement order.
var AccountTypes = []AccountType{
	AccountTypeAsset,
	AccountTypeLiability,
	AccountTypeEquity,
	AccountTypeRevenue,
	AccountTypeExpense,
	AccountTypeGain,
	AccountTypeLoss,
}

// Valid reports whether t is one of the known account types.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity,
		AccountTypeRevenue, AccountTypeExpense, AccountTypeGain, AccountTypeLoss:
		return true
	}
	return false
}

// CreditNormal reports whether accounts of this type carry a credit balance
// in the normal course.
func (t AccountType) CreditNormal() bool {
	switch t {
	case AccountTypeLiability, AccountTypeEquity, AccountTypeRevenue, AccountTypeGain:
		return true
	case AccountTypeAsset, AccountTypeExpense, AccountTypeLoss:
		return false
	}
	return false
}

// AccountSubtype is the finer category nested under an AccountType.
type AccountSubtype string

const (
	SubtypeCurrentAsset           AccountSubtype = "current_asset"
	SubtypeInvestment             AccountSubtype = "investment"
	SubtypePropertyPlantEquipment AccountSubtype = "property_plant_equipment"
	SubtypeIntangibleAsset        AccountSubtype = "intangible_asset"
	SubtypeNonCurrentAsset        AccountSubtype = "non_current_asset"
	SubtypeCurrentLiability       AccountSubtype = "current_liability"
	SubtypeNonCurrentLiability    AccountSubtype = "non_current_liability"
	SubtypePaidInCapital          AccountSubtype = "paid_in_capital"
	SubtypeRetainedEarnings       AccountSubtype = "retained_earnings"
	SubtypeTreasuryStock          AccountSubtype = "treasury_stock"
	SubtypeOtherComprehensive     AccountSubtype = "accumulated_other_comprehensive_income"
	SubtypeOperatingRevenue       AccountSubtype = "operating_revenue"
	SubtypeNonOperatingRevenue    AccountSubtype = "non_operating_revenue"
	SubtypeCostOfGoodsSold        AccountSubtype = "cost_of_goods_sold"
	SubtypeSellingExpense         AccountSubtype = "selling_expense"
	SubtypeAdministrativeExpense  AccountSubtype = "administrative_expense"
	SubtypeDepreciationExpense    AccountSubtype = "depreciation_expense"
	SubtypeOperatingExpense       AccountSubtype = "operating_expense"
	SubtypeInterestExpense        AccountSubtype = "interest_expense"
	SubtypeTaxExpense             AccountSubtype = "tax_expense"
	SubtypeGain                   AccountSubtype = "gain"
	SubtypeLoss                   AccountSubtype = "loss"
)

// Type returns the single AccountType the subtype belongs to. The second
// result is false for an unknown subtype.
func (s AccountSubtype) Type() (AccountType, bool) {
	switch s {
	case SubtypeCurrentAsset, SubtypeInvestment, SubtypePropertyPlantEquipment,
		SubtypeIntangibleAsset, SubtypeNonCurrentAsset:
		return AccountTypeAsset, true
	case SubtypeCurrentLiability, SubtypeNonCurrentLiability:
		return AccountTypeLiability, true
	case SubtypePaidInCapital, SubtypeRetainedEarnings, SubtypeTreasuryStock, SubtypeOtherComprehensive:
		return AccountTypeEquity, true
	case SubtypeOperatingRevenue, SubtypeNonOperatingRevenue:
		return AccountTypeRevenue, true
	case SubtypeCostOfGoodsSold, SubtypeSellingExpense, SubtypeAdministrativeExpense,
		SubtypeDepreciationExpense, SubtypeOperatingExpense, SubtypeInterestExpense, SubtypeTaxExpense:
		return AccountTypeExpense, true
	case SubtypeGain:
		return AccountTypeGain, true
	case SubtypeLoss:
		return AccountTypeLoss, true
	}
	return "", false
}

// IsCurrent reports whether the subtype is presented in the current section
// of the balance sheet. Investments are treated as current (marketable).
func (s AccountSubtype) IsCurrent() bool {
	switch s {
	case SubtypeCurrentAsset, SubtypeInvestment, SubtypeCurrentLiability:
		return true
	}
	return false
}

// Classification is a consistent (type, subtype) pair.
type Classification struct {
	Type    AccountType    `json:"type" yaml:"type"`
	Subtype AccountSubtype `json:"subtype" yaml:"subtype"`
}

// Classify builds a Classification from a subtype, deriving its type.
// It panics on an unknown subtype, which is a programming error.
func Classify(s AccountSubtype) Classification {
	t, ok := s.Type()
	if !ok {
		panic("unknown account subtype: " + string(s))
	}
	return Classification{Type: t, Subtype: s}
}

// Consistent reports whether the subtype belongs to the type.
func (c Classification) Consistent() bool {
	t, ok := c.Subtype.Type()
	return ok && t == c.Type
}

// Account is one row of a chart of accounts.
type Account struct {
	Code    string
	Name    string
	Type    AccountType
	Subtype AccountSubtype
}

// ParseSubtype converts a stored subtype name back into an AccountSubtype.
func ParseSubtype(s string) (AccountSubtype, error) {
	sub := AccountSubtype(s)
	if _, ok := sub.Type(); !ok {
		return "", fmt.Errorf("unknown account subtype %q", s)
	}
	return sub, nil
}
