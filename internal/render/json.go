package render

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"

	"github.com/invopop/jsonschema"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/finsynth/internal/model"
	"github.com/cleared-dev/finsynth/internal/synth"
)

// Document is the JSON output of a synthesis run.
type Document struct {
	Statements *model.CompleteFinancialStatements `json:"statements"`
	Analysis   *synth.AnalysisReport              `json:"analysis,omitempty"`
}

// JSON writes s, and report when non-nil, as indented JSON.
func JSON(w io.Writer, s *model.CompleteFinancialStatements, report *synth.AnalysisReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Document{Statements: s, Analysis: report}); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}

const decimalPattern = `^-?[0-9]+(\.[0-9]+)?$`

var (
	decimalType     = reflect.TypeOf(decimal.Decimal{})
	nullDecimalType = reflect.TypeOf(decimal.NullDecimal{})
)

// Schema returns the JSON Schema of Document. Amounts are encoded as
// decimal strings.
func Schema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		DoNotReference: true,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			switch t {
			case decimalType:
				return &jsonschema.Schema{Type: "string", Pattern: decimalPattern}
			case nullDecimalType:
				return &jsonschema.Schema{OneOf: []*jsonschema.Schema{
					{Type: "string", Pattern: decimalPattern},
					{Type: "null"},
				}}
			}
			return nil
		},
	}
	return reflector.Reflect(&Document{})
}

// WriteSchema writes the indented JSON Schema of Document to w.
func WriteSchema(w io.Writer) error {
	data, err := json.MarshalIndent(Schema(), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding schema: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}
