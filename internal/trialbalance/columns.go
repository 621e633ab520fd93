package trialbalance

import (
	"slices"
	"strings"
)

// Canonical column names.
const (
	ColCode   = "account_code"
	ColName   = "account_name"
	ColDebit  = "debit_balance"
	ColCredit = "credit_balance"
)

// Row is one raw input row: header -> raw cell value.
type Row map[string]string

// synonyms lists accepted headers per canonical column, in priority order.
var synonyms = []struct {
	column  string
	headers []string
}{
	{ColCode, []string{"account_code", "account code", "account no", "account no.", "account number", "code"}},
	{ColName, []string{"account_name", "account name", "description", "account description", "name"}},
	{ColDebit, []string{"debit_balance", "debit balance", "debit", "debits", "debit amount", "dr"}},
	{ColCredit, []string{"credit_balance", "credit balance", "credit", "credits", "credit amount", "cr"}},
}

var requiredColumns = []string{ColCode, ColName}

// Columns maps each canonical column to the raw header that carries it.
type Columns map[string]string

// ResolveColumns matches raw headers against the synonym table,
// case-insensitively and ignoring surrounding space. It returns the
// required columns that could not be resolved.
func ResolveColumns(headers []string) (Columns, []string) {
	byNorm := make(map[string]string, len(headers))
	for _, h := range headers {
		n := normalizeHeader(h)
		if _, dup := byNorm[n]; !dup {
			byNorm[n] = h
		}
	}

	cols := make(Columns, len(synonyms))
	for _, s := range synonyms {
		for _, cand := range s.headers {
			if raw, ok := byNorm[cand]; ok {
				cols[s.column] = raw
				break
			}
		}
	}

	var missing []string
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			missing = append(missing, c)
		}
	}
	return cols, missing
}

// Get returns the row's value for a canonical column, or "".
func (c Columns) Get(r Row, column string) string {
	h, ok := c[column]
	if !ok {
		return ""
	}
	return strings.TrimSpace(r[h])
}

func normalizeHeader(h string) string {
	return strings.Join(strings.Fields(strings.ToLower(h)), " ")
}

// headersOf collects the distinct headers used across rows, sorted.
func headersOf(rows []Row) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range rows {
		for h := range r {
			if !seen[h] {
				seen[h] = true
				out = append(out, h)
			}
		}
	}
	slices.Sort(out)
	return out
}
