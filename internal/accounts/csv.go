package accounts

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/cleared-dev/finsynth/internal/model"
)

const (
	numFields  = 4
	colCode    = 0
	colName    = 1
	colType    = 2
	colSubtype = 3
)

// ReadAccounts reads a chart-of-accounts CSV.
func ReadAccounts(r io.Reader) ([]model.Account, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading accounts CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var accounts []model.Account
	for i, rec := range records[1:] {
		acct, err := UnmarshalAccount(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		accounts = append(accounts, acct)
	}
	return accounts, nil
}

// WriteAccounts writes a chart-of-accounts CSV.
func WriteAccounts(w io.Writer, accounts []model.Account) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"account_code", "account_name", "account_type", "account_subtype"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, acct := range accounts {
		if err := cw.Write(MarshalAccount(acct)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalAccount converts an Account to a CSV row.
func MarshalAccount(acct model.Account) []string {
	row := make([]string, numFields)
	row[colCode] = acct.Code
	row[colName] = acct.Name
	row[colType] = string(acct.Type)
	row[colSubtype] = string(acct.Subtype)
	return row
}

// UnmarshalAccount converts a CSV row to an Account. The subtype is
// authoritative; the type column may be blank but must agree when present.
func UnmarshalAccount(record []string) (model.Account, error) {
	if len(record) != numFields {
		return model.Account{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	code := strings.TrimSpace(record[colCode])
	if code == "" {
		return model.Account{}, fmt.Errorf("empty account_code")
	}

	sub, err := model.ParseSubtype(strings.TrimSpace(record[colSubtype]))
	if err != nil {
		return model.Account{}, fmt.Errorf("account %s: %w", code, err)
	}
	c := model.Classify(sub)

	if t := model.AccountType(strings.TrimSpace(record[colType])); t != "" && t != c.Type {
		return model.Account{}, fmt.Errorf("account %s: subtype %s belongs to %s, not %s", code, sub, c.Type, t)
	}

	return model.Account{
		Code:    code,
		Name:    strings.TrimSpace(record[colName]),
		Type:    c.Type,
		Subtype: c.Subtype,
	}, nil
}
