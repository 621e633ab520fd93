package trialbalance

import (
	"fmt"
	"strings"
)

// Kind names a class of trial balance failure.
type Kind string

const (
	// Ingestion failures abort before any account is built.
	KindFileRead       Kind = "FILE_READ_ERROR"
	KindMissingColumns Kind = "MISSING_COLUMNS"

	// Structural findings, collected as a batch.
	KindUnbalanced      Kind = "UNBALANCED_TRIAL_BALANCE"
	KindDuplicateCodes  Kind = "DUPLICATE_ACCOUNT_CODES"
	KindMissingCritical Kind = "MISSING_CRITICAL_ACCOUNTS"
	KindAmbiguous       Kind = "AMBIGUOUS_BALANCE"
	KindNegative        Kind = "NEGATIVE_BALANCE"

	// KindValidationFailed wraps a non-empty batch of structural issues.
	KindValidationFailed Kind = "VALIDATION_ERROR"
)

// Issue is one structural finding.
type Issue struct {
	Kind    Kind           `json:"type"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func (i Issue) Error() string {
	return fmt.Sprintf("%s: %s", i.Kind, i.Message)
}

// ValidationError is the single error raised by the processor. Ingestion
// errors carry no Issues; a failed validation carries every Issue found.
type ValidationError struct {
	Kind    Kind
	Message string
	Details map[string]any
	Issues  []Issue
	Err     error
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	for _, is := range e.Issues {
		b.WriteString("\n  - ")
		b.WriteString(is.Error())
	}
	return b.String()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Has reports whether the error is of kind k or carries an issue of kind k.
func (e *ValidationError) Has(k Kind) bool {
	if e.Kind == k {
		return true
	}
	for _, is := range e.Issues {
		if is.Kind == k {
			return true
		}
	}
	return false
}

// ValidationSummary is the caller-facing digest of a validation run.
type ValidationSummary struct {
	HasErrors  bool    `json:"has_errors"`
	ErrorCount int     `json:"error_count"`
	Issues     []Issue `json:"errors"`
}

// Summary digests the issues carried by the error.
func (e *ValidationError) Summary() ValidationSummary {
	return Summarize(e.Issues)
}

// Summarize digests a list of issues.
func Summarize(issues []Issue) ValidationSummary {
	return ValidationSummary{
		HasErrors:  len(issues) > 0,
		ErrorCount: len(issues),
		Issues:     issues,
	}
}
