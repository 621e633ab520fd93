package trialbalance

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/finsynth/internal/amount"
	"github.com/cleared-dev/finsynth/internal/model"
)

// Classifier assigns a (type, subtype) pair to an account.
type Classifier interface {
	Classify(code, name string) model.Classification
}

// Processor turns raw tabular rows into a validated TrialBalance.
type Processor struct {
	classifier Classifier
	logger     *slog.Logger
}

// NewProcessor creates a Processor that classifies with c.
func NewProcessor(c Classifier) *Processor {
	return &Processor{classifier: c, logger: slog.Default()}
}

// WithLogger sets the logger used for debug output.
func (p *Processor) WithLogger(l *slog.Logger) *Processor {
	if l != nil {
		p.logger = l
	}
	return p
}

// Process normalizes, classifies and validates rows. It returns a
// *ValidationError when columns are missing or when any structural check
// fails; in the latter case every failing check is reported at once.
func (p *Processor) Process(rows []Row, entity string, start, end time.Time) (*model.TrialBalance, error) {
	headers := headersOf(rows)
	cols, missing := ResolveColumns(headers)
	if len(missing) > 0 {
		return nil, &ValidationError{
			Kind:    KindMissingColumns,
			Message: "missing required columns: " + strings.Join(missing, ", "),
			Details: map[string]any{
				"missing_columns":   missing,
				"available_columns": headers,
			},
		}
	}

	var accts []model.TrialBalanceAccount
	for i, r := range rows {
		code := normalizeCode(cols.Get(r, ColCode))
		name := cols.Get(r, ColName)
		if code == "" || name == "" {
			continue
		}

		dr := p.coerce(i, ColDebit, cols.Get(r, ColDebit))
		cr := p.coerce(i, ColCredit, cols.Get(r, ColCredit))
		// A negative amount in an otherwise empty row is a balance on the
		// other side. With both sides filled the row is left for Validate
		// to flag as ambiguous.
		if dr.IsNegative() && cr.IsZero() {
			dr, cr = decimal.Zero, dr.Abs()
		} else if cr.IsNegative() && dr.IsZero() {
			dr, cr = cr.Abs(), decimal.Zero
		}
		dr, cr = amount.Round2(dr), amount.Round2(cr)
		if dr.IsZero() && cr.IsZero() {
			continue
		}

		c := p.classifier.Classify(code, name)
		accts = append(accts, model.TrialBalanceAccount{
			Code:    code,
			Name:    name,
			Type:    c.Type,
			Subtype: c.Subtype,
			Debit:   optional(dr),
			Credit:  optional(cr),
		})
	}

	tb, err := model.NewTrialBalance(entity, start, end, accts)
	if err != nil {
		return nil, err
	}

	if issues := Validate(tb); len(issues) > 0 {
		return nil, &ValidationError{
			Kind:    KindValidationFailed,
			Message: "trial balance validation failed",
			Details: map[string]any{"errors": issues},
			Issues:  issues,
		}
	}

	p.logger.Debug("processed trial balance",
		"entity", entity, "accounts", len(accts), "rows", len(rows))
	return tb, nil
}

func (p *Processor) coerce(row int, column, raw string) decimal.Decimal {
	d, ok := ParseAmount(raw)
	if !ok {
		p.logger.Debug("non-numeric amount treated as zero", "row", row+1, "column", column, "value", raw)
	}
	return d
}

func optional(d decimal.Decimal) decimal.NullDecimal {
	if !d.IsZero() {
		return decimal.NewNullDecimal(d)
	}
	return decimal.NullDecimal{}
}

// ParseAmount reads a spreadsheet amount. Currency symbols and surrounding
// space are ignored, and "(12.50)" is negative. Both "1,234.56" and
// "1.234,56" read as 1234.56: when both separators appear the last one is
// the decimal point, and a lone comma followed by one or two digits is a
// decimal comma. Blank input is zero; anything else unparseable, including
// ambiguous grouping, is zero with ok=false.
func ParseAmount(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || s == "-" {
		return decimal.Zero, true
	}
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = s[1 : len(s)-1]
	}
	s = strings.NewReplacer("$", "", "€", "", "£", "", " ", "", "\u00a0", "").Replace(s)
	s, ok := normalizeSeparators(s)
	if !ok {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	if neg {
		d = d.Neg()
	}
	return d, true
}

// normalizeSeparators rewrites s so '.' is the only separator left and it
// marks the decimal point.
func normalizeSeparators(s string) (string, bool) {
	comma, dot := strings.LastIndexByte(s, ','), strings.LastIndexByte(s, '.')
	switch {
	case comma >= 0 && dot >= 0:
		group, point := ",", "."
		if comma > dot {
			group, point = ".", ","
		}
		i := max(comma, dot)
		whole := s[:i]
		if strings.Contains(whole, point) || !grouped(whole, group) {
			return "", false
		}
		return strings.ReplaceAll(whole, group, "") + "." + s[i+1:], true
	case comma >= 0:
		if frac := s[comma+1:]; strings.Count(s, ",") == 1 && len(frac) <= 2 && digits(frac) {
			return s[:comma] + "." + frac, true
		}
		if !grouped(s, ",") {
			return "", false
		}
		return strings.ReplaceAll(s, ",", ""), true
	case strings.Count(s, ".") > 1:
		if !grouped(s, ".") {
			return "", false
		}
		return strings.ReplaceAll(s, ".", ""), true
	}
	return s, true
}

// grouped reports whether s splits on sep into digit groups whose last
// group has exactly three digits ("1,234,567", "12,34,567").
func grouped(s, sep string) bool {
	parts := strings.Split(strings.TrimLeft(s, "+-"), sep)
	for i, p := range parts {
		if !digits(p) || len(p) > 3 || (i == len(parts)-1 && len(p) != 3) {
			return false
		}
	}
	return len(parts) > 1
}

func digits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// normalizeCode trims a code and drops a zero fraction that spreadsheet
// exports add to numeric cells ("1000.0" -> "1000").
func normalizeCode(code string) string {
	code = strings.TrimSpace(code)
	if i := strings.IndexByte(code, '.'); i > 0 {
		if _, err := strconv.Atoi(code[:i]); err == nil && strings.Trim(code[i+1:], "0") == "" {
			return code[:i]
		}
	}
	return code
}
