package accounts

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/cleared-dev/finsynth/internal/model"
)

// Classifier maps an account code and name to a (type, subtype) pair.
// Resolution order: chart overrides, the standard chart, code ranges,
// name keywords, then Expense/OperatingExpense.
type Classifier struct {
	overrides map[string]model.Account
}

// NewClassifier builds a Classifier. Overrides take precedence over the
// standard chart; entries with an inconsistent type/subtype are ignored.
func NewClassifier(overrides []model.Account) *Classifier {
	c := &Classifier{overrides: make(map[string]model.Account, len(overrides))}
	for _, a := range overrides {
		if !(model.Classification{Type: a.Type, Subtype: a.Subtype}).Consistent() {
			continue
		}
		c.overrides[a.Code] = a
	}
	return c
}

var defaultClassifier = NewClassifier(nil)

// Classify classifies with the standard chart only.
func Classify(code, name string) model.Classification {
	return defaultClassifier.Classify(code, name)
}

// Classify never fails; every input yields a consistent classification.
func (c *Classifier) Classify(code, name string) model.Classification {
	code = strings.TrimSpace(code)
	if a, ok := c.overrides[code]; ok {
		return model.Classification{Type: a.Type, Subtype: a.Subtype}
	}
	if a, ok := standardByCode[code]; ok {
		return model.Classification{Type: a.Type, Subtype: a.Subtype}
	}
	lower := strings.ToLower(name)
	if n, err := strconv.Atoi(code); err == nil {
		if sub, ok := byRange(n, lower); ok {
			return model.Classify(sub)
		}
	}
	return model.Classify(byKeyword(lower))
}

func byRange(n int, name string) (model.AccountSubtype, bool) {
	switch {
	case n >= 1000 && n < 1500:
		return model.SubtypeCurrentAsset, true
	case n >= 1500 && n < 1600:
		return model.SubtypePropertyPlantEquipment, true
	case n >= 1600 && n < 1700:
		return model.SubtypeIntangibleAsset, true
	case n >= 1700 && n < 2000:
		return model.SubtypeNonCurrentAsset, true
	case n >= 2000 && n < 2500:
		return model.SubtypeCurrentLiability, true
	case n >= 2500 && n < 3000:
		return model.SubtypeNonCurrentLiability, true
	case n >= 3000 && n < 4000:
		switch {
		case strings.Contains(name, "treasury"):
			return model.SubtypeTreasuryStock, true
		case strings.Contains(name, "retained"):
			return model.SubtypeRetainedEarnings, true
		}
		return model.SubtypePaidInCapital, true
	case n >= 4000 && n < 5000:
		return model.SubtypeOperatingRevenue, true
	case n >= 5000 && n < 6000:
		return model.SubtypeCostOfGoodsSold, true
	case n >= 6000 && n < 7000:
		switch {
		case strings.Contains(name, "depreciation"):
			return model.SubtypeDepreciationExpense, true
		case strings.Contains(name, "interest"):
			return model.SubtypeInterestExpense, true
		case strings.Contains(name, "tax"):
			return model.SubtypeTaxExpense, true
		case strings.Contains(name, "selling"), strings.Contains(name, "sales"):
			return model.SubtypeSellingExpense, true
		case strings.Contains(name, "admin"):
			return model.SubtypeAdministrativeExpense, true
		}
		return model.SubtypeOperatingExpense, true
	}
	return "", false
}

type keywordRule struct {
	keywords []string
	subtype  model.AccountSubtype
}

// Checked in order; more specific phrases come before the generic words
// they contain ("treasury stock" before "stock", "interest expense" before
// "interest").
var keywordRules = []keywordRule{
	{[]string{"accumulated depreciation"}, model.SubtypePropertyPlantEquipment},
	{[]string{"accumulated amortization"}, model.SubtypeIntangibleAsset},
	{[]string{"non-current asset", "noncurrent asset"}, model.SubtypeNonCurrentAsset},
	{[]string{"non-current liability", "noncurrent liability"}, model.SubtypeNonCurrentLiability},
	{[]string{"current asset"}, model.SubtypeCurrentAsset},
	{[]string{"current liability"}, model.SubtypeCurrentLiability},
	{[]string{"treasury stock", "treasury"}, model.SubtypeTreasuryStock},
	{[]string{"common stock", "preferred stock", "paid-in capital", "paid in capital", "share capital"}, model.SubtypePaidInCapital},
	{[]string{"retained earnings", "retained"}, model.SubtypeRetainedEarnings},
	{[]string{"other comprehensive"}, model.SubtypeOtherComprehensive},
	{[]string{"gain"}, model.SubtypeGain},
	{[]string{"loss"}, model.SubtypeLoss},
	{[]string{"cost of goods", "cost of sales", "cogs"}, model.SubtypeCostOfGoodsSold},
	{[]string{"cash", "bank", "petty"}, model.SubtypeCurrentAsset},
	{[]string{"receivable", "ar"}, model.SubtypeCurrentAsset},
	{[]string{"inventory", "stock"}, model.SubtypeCurrentAsset},
	{[]string{"prepaid", "advance"}, model.SubtypeCurrentAsset},
	{[]string{"marketable", "investment"}, model.SubtypeInvestment},
	{[]string{"land", "building", "equipment", "vehicle", "machinery", "furniture"}, model.SubtypePropertyPlantEquipment},
	{[]string{"patent", "copyright", "trademark", "goodwill"}, model.SubtypeIntangibleAsset},
	{[]string{"long-term", "long term", "mortgage", "bonds payable", "loan", "deferred"}, model.SubtypeNonCurrentLiability},
	{[]string{"payable", "ap", "accrued"}, model.SubtypeCurrentLiability},
	{[]string{"capital"}, model.SubtypePaidInCapital},
	{[]string{"interest expense"}, model.SubtypeInterestExpense},
	{[]string{"selling", "advertising", "commission", "marketing", "delivery"}, model.SubtypeSellingExpense},
	{[]string{"sales", "revenue", "service"}, model.SubtypeOperatingRevenue},
	{[]string{"interest", "dividend"}, model.SubtypeNonOperatingRevenue},
	{[]string{"depreciation", "amortization"}, model.SubtypeDepreciationExpense},
	{[]string{"tax"}, model.SubtypeTaxExpense},
	{[]string{"salaries", "wages", "rent", "utilities", "insurance", "office", "admin", "administrative"}, model.SubtypeAdministrativeExpense},
}

func byKeyword(name string) model.AccountSubtype {
	for _, r := range keywordRules {
		for _, kw := range r.keywords {
			if hasKeyword(name, kw) {
				return r.subtype
			}
		}
	}
	return model.SubtypeOperatingExpense
}

// MatchesAny reports whether name contains any of the keywords, with the
// same matching rules the classifier uses.
func MatchesAny(name string, keywords ...string) bool {
	for _, kw := range keywords {
		if hasKeyword(name, kw) {
			return true
		}
	}
	return false
}

// hasKeyword matches kw against whole words of name, case-insensitively,
// so "rent" does not hit "current" and "ar" does not hit "salaries". A
// multi-word keyword must match consecutive words. The last word may also
// match its plural ("receivables", "taxes", "liabilities").
func hasKeyword(name, kw string) bool {
	words, want := splitWords(name), splitWords(kw)
	if len(want) == 0 {
		return false
	}
	for i := 0; i+len(want) <= len(words); i++ {
		if matchWords(words[i:i+len(want)], want) {
			return true
		}
	}
	return false
}

func splitWords(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func matchWords(got, want []string) bool {
	last := len(want) - 1
	for i, w := range want {
		if got[i] != w && (i != last || !isPlural(got[i], w)) {
			return false
		}
	}
	return true
}

func isPlural(word, singular string) bool {
	if word == singular+"s" || word == singular+"es" {
		return true
	}
	stem, ok := strings.CutSuffix(singular, "y")
	return ok && word == stem+"ies"
}
