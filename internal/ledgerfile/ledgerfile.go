// Package ledgerfile reads trial balance exports into raw rows for the
// processor and finds them on disk for batch runs.
package ledgerfile

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cleared-dev/finsynth/internal/trialbalance"
)

// Parser converts a delimited export into raw rows.
type Parser interface {
	Parse(r io.Reader) ([]trialbalance.Row, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// Formats lists registered format names, sorted.
func (r *Registry) Formats() []string {
	out := make([]string, 0, len(r.parsers))
	for k := range r.parsers {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// DefaultRegistry returns a registry with all built-in parsers. ".csv"
// files go through "auto" since many locales export them with semicolons.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&DelimitedParser{Name: "tsv", Comma: '\t'})
	r.Register(&DelimitedParser{Name: "ssv", Comma: ';'})
	r.Register(&DelimitedParser{Name: "auto"})
	return r
}

// DelimitedParser reads a header row followed by data rows. A zero Comma
// sniffs the delimiter from the header line.
type DelimitedParser struct {
	Name  string
	Comma rune
}

// Format returns the parser name.
func (p *DelimitedParser) Format() string { return p.Name }

// Parse decodes r to UTF-8 and returns one Row per data line.
func (p *DelimitedParser) Parse(r io.Reader) ([]trialbalance.Row, error) {
	u, err := NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detecting encoding: %w", err)
	}
	data, err := io.ReadAll(u)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}

	comma := p.Comma
	if comma == 0 {
		comma = Sniff(data)
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = comma != '\t'

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", p.Name, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := records[0]
	var rows []trialbalance.Row
	for i, rec := range records[1:] {
		if blank(rec) {
			continue
		}
		if len(rec) > len(header) {
			return nil, fmt.Errorf("row %d: %d fields, header has %d", i+2, len(rec), len(header))
		}
		row := make(trialbalance.Row, len(header))
		for j, h := range header {
			if j < len(rec) {
				row[h] = rec[j]
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// Sniff picks the delimiter that occurs most often on the first line,
// preferring comma on a tie.
func Sniff(data []byte) rune {
	line, _, _ := bufio.NewReader(bytes.NewReader(data)).ReadLine()
	best, bestN := ',', strings.Count(string(line), ",")
	for _, c := range []rune{';', '\t', '|'} {
		if n := strings.Count(string(line), string(c)); n > bestN {
			best, bestN = c, n
		}
	}
	return best
}

// FormatFor returns the parser format implied by a file extension.
func FormatFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsv", ".tab":
		return "tsv"
	case ".ssv", ".scsv":
		return "ssv"
	default:
		return "auto"
	}
}

// ReadFile opens path and parses it with the registry. Any failure is
// reported as a FILE_READ_ERROR validation error.
func (r *Registry) ReadFile(path string) ([]trialbalance.Row, error) {
	p := r.Get(FormatFor(path))
	if p == nil {
		return nil, fileReadError(path, fmt.Errorf("no parser for %s", filepath.Ext(path)))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fileReadError(path, err)
	}
	defer f.Close()

	rows, err := p.Parse(f)
	if err != nil {
		return nil, fileReadError(path, err)
	}
	return rows, nil
}

func fileReadError(path string, err error) error {
	return &trialbalance.ValidationError{
		Kind:    trialbalance.KindFileRead,
		Message: "failed to read trial balance file " + filepath.Base(path),
		Details: map[string]any{"path": path},
		Err:     err,
	}
}

// FileInfo describes a trial balance file found by Scan.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

var extensions = []string{".csv", ".tsv", ".tab", ".ssv", ".scsv", ".txt"}

// processedDir is where MarkProcessed moves finished files.
const processedDir = "processed"

// Scan returns trial balance files directly inside dir, sorted by name.
// A missing dir yields no files.
func Scan(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !slices.Contains(extensions, strings.ToLower(filepath.Ext(e.Name()))) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// MarkProcessed moves dir/fileName into dir/processed/.
func MarkProcessed(dir, fileName string) error {
	dstDir := filepath.Join(dir, processedDir)
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	src := filepath.Join(dir, fileName)
	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}
