package render

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/finsynth/internal/model"
	"github.com/cleared-dev/finsynth/internal/synth"
	"github.com/cleared-dev/finsynth/internal/testfixture"
)

var dec = testfixture.Dec

func sample(t *testing.T) *model.CompleteFinancialStatements {
	t.Helper()
	e := synth.New(slog.New(slog.NewTextHandler(io.Discard, nil)))
	s, err := e.Synthesize(testfixture.TrialBalance(), synth.Params{BeginningCash: dec("50000")})
	require.NoError(t, err)
	return s
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"", FormatText},
		{"text", FormatText},
		{"MD", FormatMarkdown},
		{"markdown", FormatMarkdown},
		{"terminal", FormatTerminal},
		{"html", FormatHTML},
		{" json ", FormatJSON},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseFormat("pdf")
	assert.ErrorContains(t, err, "unknown output format")
}

func TestFormatExtension(t *testing.T) {
	assert.Equal(t, ".txt", FormatText.Extension())
	assert.Equal(t, ".txt", FormatTerminal.Extension())
	assert.Equal(t, ".md", FormatMarkdown.Extension())
	assert.Equal(t, ".html", FormatHTML.Extension())
	assert.Equal(t, ".json", FormatJSON.Extension())
}

func TestMoney(t *testing.T) {
	r := New("")
	assert.Equal(t, "$15,000.00", r.Money(dec("15000")))
	assert.Equal(t, "$0.50", r.Money(dec("0.5")))
	assert.Equal(t, "($25,000.00)", r.Money(dec("-25000")))
	assert.Equal(t, "$0.00", r.Money(dec("-0.001")))
}

func TestRatioAndPercent(t *testing.T) {
	assert.Equal(t, "5.4167", Ratio(dec("5.4167")))
	assert.Equal(t, "0.4000", Ratio(dec("0.4")))
	assert.Equal(t, "40.00%", Percent(dec("40")))
	assert.Equal(t, "n/a", nullRatio(model.EfficiencyRatios{}.InventoryTurnover))
}

func TestText(t *testing.T) {
	out := New("USD").Text(sample(t), nil)

	assert.Contains(t, out, testfixture.Entity)
	assert.Contains(t, out, "2024-01-01 to 2024-12-31")
	for _, title := range []string{"Balance Sheet", "Income Statement", "Statement of Equity", "Cash Flow Statement (indirect)", "Financial Ratios"} {
		assert.Contains(t, out, title)
	}
	assert.Contains(t, out, "$147,000.00")
	assert.Contains(t, out, "$15,000.00")
	assert.Contains(t, out, "($92,000.00)")
	assert.Contains(t, out, "5.4167")
	assert.NotContains(t, out, "Analysis")
}

func TestText_WithAnalysis(t *testing.T) {
	s := sample(t)
	out := New("USD").Text(s, synth.Analyze(s))

	assert.Contains(t, out, "Analysis")
	assert.Contains(t, out, "Overall Health")
	assert.Contains(t, out, "Good")
	assert.Contains(t, out, "- Strong gross margin - company has pricing power")
}

func TestMarkdown(t *testing.T) {
	s := sample(t)
	out := New("USD").Markdown(s, synth.Analyze(s))

	assert.Contains(t, out, "# "+testfixture.Entity+" Financial Statements")
	assert.Contains(t, out, "## Balance Sheet")
	assert.Contains(t, out, "## Analysis")
	assert.Contains(t, out, "$25,000.00")
	assert.Contains(t, out, "|")
}

func TestHTML(t *testing.T) {
	out, err := New("USD").HTML(sample(t), nil)
	require.NoError(t, err)

	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "$147,000.00")
}

func TestTerminal(t *testing.T) {
	old := TerminalStyle
	TerminalStyle = "notty"
	t.Cleanup(func() { TerminalStyle = old })

	out, err := New("USD").Terminal(sample(t), nil)
	require.NoError(t, err)
	assert.Contains(t, out, "Balance Sheet")
}

func TestRender_Dispatch(t *testing.T) {
	s := sample(t)
	r := New("USD")

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, FormatText, s, nil))
	assert.Equal(t, r.Text(s, nil), buf.String())

	buf.Reset()
	require.NoError(t, r.Render(&buf, FormatMarkdown, s, nil))
	assert.Equal(t, r.Markdown(s, nil), buf.String())

	assert.Error(t, r.Render(&buf, Format("pdf"), s, nil))
}

func TestJSON(t *testing.T) {
	s := sample(t)

	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, s, synth.Analyze(s)))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	st := doc["statements"].(map[string]any)
	assert.Equal(t, testfixture.Entity, st["entity_name"])
	is := st["income_statement"].(map[string]any)
	assert.Equal(t, "15000", is["net_income"])
	assert.Contains(t, doc, "analysis")

	buf.Reset()
	require.NoError(t, JSON(&buf, s, nil))
	assert.NotContains(t, buf.String(), `"analysis"`)
}

func TestSchema(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSchema(&buf))

	var schema map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &schema))
	props := schema["properties"].(map[string]any)
	assert.Contains(t, props, "statements")
	assert.Contains(t, props, "analysis")
	assert.Contains(t, buf.String(), decimalPattern[1:8])
	assert.NotContains(t, buf.String(), `"$ref"`)
}
