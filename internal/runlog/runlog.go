// Package runlog keeps an append-only CSV record of synthesis runs.
package runlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/finsynth/internal/model"
)

// Status is the outcome of a run.
type Status string

const (
	StatusOK     Status = "ok"
	StatusFailed Status = "failed"
)

// Entry is one row in the run log. NetIncome and TotalAssets are unset for
// failed runs.
type Entry struct {
	Timestamp   time.Time
	Entity      string
	Source      string
	Method      model.CashFlowMethod
	Status      Status
	NetIncome   decimal.NullDecimal
	TotalAssets decimal.NullDecimal
	Error       string
}

// Header is the CSV header for runs.csv.
const Header = "timestamp,entity,source,method,status,net_income,total_assets,error"

// FileName is the log file inside the run log directory.
const FileName = "runs.csv"

const (
	numFields      = 8
	colTimestamp   = 0
	colEntity      = 1
	colSource      = 2
	colMethod      = 3
	colStatus      = 4
	colNetIncome   = 5
	colTotalAssets = 6
	colError       = 7
)

// Succeeded builds the entry for a completed run.
func Succeeded(ts time.Time, source string, s *model.CompleteFinancialStatements) Entry {
	return Entry{
		Timestamp:   ts,
		Entity:      s.Entity,
		Source:      source,
		Method:      s.CashFlowStatement.Method,
		Status:      StatusOK,
		NetIncome:   decimal.NewNullDecimal(s.IncomeStatement.NetIncome),
		TotalAssets: decimal.NewNullDecimal(s.BalanceSheet.TotalAssets()),
	}
}

// Failed builds the entry for a run that returned err.
func Failed(ts time.Time, entity, source string, method model.CashFlowMethod, err error) Entry {
	// Keep each entry on one line; validation errors list issues on their own lines.
	msg := strings.Join(strings.Fields(err.Error()), " ")
	return Entry{
		Timestamp: ts,
		Entity:    entity,
		Source:    source,
		Method:    method,
		Status:    StatusFailed,
		Error:     msg,
	}
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colEntity] = e.Entity
	row[colSource] = e.Source
	row[colMethod] = string(e.Method)
	row[colStatus] = string(e.Status)
	row[colNetIncome] = nullString(e.NetIncome)
	row[colTotalAssets] = nullString(e.TotalAssets)
	row[colError] = e.Error
	return row
}

func nullString(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.StringFixed(2)
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}
	ni, err := parseNull(record[colNetIncome])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing net income: %w", err)
	}
	ta, err := parseNull(record[colTotalAssets])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing total assets: %w", err)
	}

	return Entry{
		Timestamp:   ts,
		Entity:      record[colEntity],
		Source:      record[colSource],
		Method:      model.CashFlowMethod(record[colMethod]),
		Status:      Status(record[colStatus]),
		NetIncome:   ni,
		TotalAssets: ta,
		Error:       record[colError],
	}, nil
}

func parseNull(s string) (decimal.NullDecimal, error) {
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

// Append writes entries to <dir>/runs.csv, creating the file and header if needed.
func Append(dir string, entries []Entry) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating run log dir: %w", err)
	}

	path := filepath.Join(dir, FileName)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Read returns all entries from <dir>/runs.csv.
// Returns an empty slice if the file does not exist.
func Read(dir string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(dir, FileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading run log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
