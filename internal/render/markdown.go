package render

import (
	"bytes"
	"fmt"

	"github.com/charmbracelet/glamour"
	md "github.com/nao1215/markdown"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/cleared-dev/finsynth/internal/model"
	"github.com/cleared-dev/finsynth/internal/synth"
)

// Markdown renders s as a markdown document with one table per statement.
func (r *Renderer) Markdown(s *model.CompleteFinancialStatements, report *synth.AnalysisReport) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("%s Financial Statements", s.Entity))
	doc.PlainText(fmt.Sprintf("Period: %s", period(s)))

	for _, st := range r.statements(s) {
		doc.H2(st.title)
		doc.Table(linesTable(st.lines))
	}

	if report != nil {
		doc.H2("Analysis")
		doc.Table(linesTable(r.analysisLines(report)))
		doc.PlainText(report.Ratios.Overall.Recommendation)
		if f := findings(report); len(f) > 0 {
			doc.OrderedList(f...)
		}
	}

	return doc.String()
}

func linesTable(lines []line) md.TableSet {
	rows := make([][]string, 0, len(lines))
	for _, l := range lines {
		if l.total {
			rows = append(rows, []string{md.Bold(l.label), md.Bold(l.amount)})
			continue
		}
		rows = append(rows, []string{l.label, l.amount})
	}
	return md.TableSet{
		Header:    []string{"Line", "Amount"},
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Rows:      rows,
	}
}

// TerminalStyle is the glamour style used by Terminal.
var TerminalStyle = "dark"

// Terminal renders the markdown document for display in a terminal.
func (r *Renderer) Terminal(s *model.CompleteFinancialStatements, report *synth.AnalysisReport) (string, error) {
	out, err := glamour.Render(r.Markdown(s, report), TerminalStyle)
	if err != nil {
		return "", fmt.Errorf("rendering terminal output: %w", err)
	}
	return out, nil
}

// HTML renders the markdown document as an HTML fragment.
func (r *Renderer) HTML(s *model.CompleteFinancialStatements, report *synth.AnalysisReport) (string, error) {
	var buf bytes.Buffer
	conv := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := conv.Convert([]byte(r.Markdown(s, report)), &buf); err != nil {
		return "", fmt.Errorf("rendering html: %w", err)
	}
	return buf.String(), nil
}
