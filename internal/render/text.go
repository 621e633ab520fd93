package render

import (
	"fmt"
	"strings"

	"github.com/cleared-dev/finsynth/internal/model"
	"github.com/cleared-dev/finsynth/internal/synth"
)

const textWidth = 64

// Text renders s as fixed-width plain text.
func (r *Renderer) Text(s *model.CompleteFinancialStatements, report *synth.AnalysisReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n", s.Entity, period(s))

	blocks := r.statements(s)
	if report != nil {
		blocks = append(blocks, statement{"Analysis", r.analysisLines(report)})
	}
	for _, st := range blocks {
		b.WriteString("\n")
		b.WriteString(st.title)
		b.WriteString("\n")
		b.WriteString(strings.Repeat("=", len(st.title)))
		b.WriteString("\n")
		for _, l := range st.lines {
			writeTextLine(&b, l)
		}
	}
	if report != nil {
		b.WriteString("\n")
		for _, f := range findings(report) {
			b.WriteString("- ")
			b.WriteString(f)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func writeTextLine(b *strings.Builder, l line) {
	if l.total {
		b.WriteString(strings.Repeat(" ", textWidth-len(l.amount)))
		b.WriteString(strings.Repeat("-", len(l.amount)))
		b.WriteString("\n")
	}
	if l.amount == "" {
		b.WriteString(l.label)
		b.WriteString("\n")
		return
	}
	pad := textWidth - len(l.label) - len(l.amount)
	if pad < 1 {
		pad = 1
	}
	b.WriteString(l.label)
	b.WriteString(strings.Repeat(" ", pad))
	b.WriteString(l.amount)
	b.WriteString("\n")
}
