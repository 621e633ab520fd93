package ledgerfile

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/finsynth/internal/accounts"
	"github.com/cleared-dev/finsynth/internal/trialbalance"
)

func TestReadFile_Sample(t *testing.T) {
	rows, err := DefaultRegistry().ReadFile("../../testdata/trial_balance.csv")
	require.NoError(t, err)
	require.Len(t, rows, 17)

	assert.Equal(t, "1000", rows[0]["Account Number"])
	assert.Equal(t, "Cash", rows[0]["Account Description"])
	assert.Equal(t, "25000.00", rows[0]["Debit"])
	assert.Equal(t, "", rows[0]["Credit"])
}

func TestReadFile_Windows1252Semicolon(t *testing.T) {
	rows, err := DefaultRegistry().ReadFile("../../testdata/trial_balance_cp1252.csv")
	require.NoError(t, err)
	require.Len(t, rows, 17)

	var found bool
	for _, r := range rows {
		if r["Account Number"] == "5000" {
			assert.Equal(t, "Coût des marchandises vendues", r["Account Description"])
			found = true
		}
	}
	assert.True(t, found)
}

func TestReadFile_DefectiveReportsEveryIssue(t *testing.T) {
	rows, err := DefaultRegistry().ReadFile("../../testdata/defective.csv")
	require.NoError(t, err)
	require.Len(t, rows, 4)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err = trialbalance.NewProcessor(accounts.NewClassifier(nil)).Process(rows, "Defective", start, start)
	require.Error(t, err)

	var ve *trialbalance.ValidationError
	require.True(t, errors.As(err, &ve))
	for _, k := range []trialbalance.Kind{
		trialbalance.KindUnbalanced,
		trialbalance.KindDuplicateCodes,
		trialbalance.KindMissingCritical,
		trialbalance.KindAmbiguous,
		trialbalance.KindNegative,
	} {
		assert.True(t, ve.Has(k), "expected %s", k)
	}
}

func TestReadFile_Missing(t *testing.T) {
	_, err := DefaultRegistry().ReadFile(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)

	var ve *trialbalance.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, trialbalance.KindFileRead, ve.Kind)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParse_UTF8BOM(t *testing.T) {
	in := "\xEF\xBB\xBFcode,name,debit\n1000,Cash,5\n"
	rows, err := (&DelimitedParser{Name: "auto"}).Parse(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "1000", rows[0]["code"], "BOM must not leak into the first header")
}

func TestParse_ShortRowsPadded(t *testing.T) {
	in := "code\tname\tdebit\tcredit\n1000\tCash\t5\n\n"
	rows, err := (&DelimitedParser{Name: "tsv", Comma: '\t'}).Parse(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "", rows[0]["credit"])
}

func TestParse_TooManyFields(t *testing.T) {
	in := "code,name\n1000,Cash,5\n"
	_, err := (&DelimitedParser{Name: "csv", Comma: ','}).Parse(strings.NewReader(in))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}

func TestParse_Empty(t *testing.T) {
	rows, err := (&DelimitedParser{Name: "csv", Comma: ','}).Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Nil(t, rows)
}

func TestSniff(t *testing.T) {
	assert.Equal(t, ',', Sniff([]byte("a,b,c\n1;2;3")))
	assert.Equal(t, ';', Sniff([]byte("a;b;c\n")))
	assert.Equal(t, '\t', Sniff([]byte("a\tb\tc")))
	assert.Equal(t, '|', Sniff([]byte("a|b|c")))
	assert.Equal(t, ',', Sniff([]byte("single")))
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.Equal(t, []string{"auto", "ssv", "tsv"}, r.Formats())
	assert.NotNil(t, r.Get("SSV"))
	assert.Nil(t, r.Get("xlsx"))
	assert.Panics(t, func() { r.Register(&DelimitedParser{Name: "tsv"}) })

	// Every format FormatFor can return is registered.
	for _, name := range []string{"a.csv", "a.tsv", "a.tab", "a.ssv", "a.scsv", "a.txt", "a.dat"} {
		assert.NotNil(t, r.Get(FormatFor(name)), name)
	}
}

func TestFormatFor(t *testing.T) {
	assert.Equal(t, "tsv", FormatFor("x.TSV"))
	assert.Equal(t, "ssv", FormatFor("x.ssv"))
	assert.Equal(t, "ssv", FormatFor("x.SCSV"))
	assert.Equal(t, "auto", FormatFor("x.csv"))
	assert.Equal(t, "auto", FormatFor("x.txt"))
}

func TestReadFile_SemicolonExtension(t *testing.T) {
	// The header ties on commas and semicolons, which sniffs as comma; the
	// extension decides.
	path := filepath.Join(t.TempDir(), "tb.ssv")
	in := "code;name,desc,x,y;debit;credit\n1000;Cash, main;100,50;\n"
	require.NoError(t, os.WriteFile(path, []byte(in), 0o644))

	rows, err := DefaultRegistry().ReadFile(path)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, ',', Sniff([]byte(in)))
	assert.Equal(t, "Cash, main", rows[0]["name,desc,x,y"])
	assert.Equal(t, "100,50", rows[0]["debit"])
}

func TestScanAndMarkProcessed(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.csv", "a.tsv", "notes.md", "c.TXT", "d.ssv"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.csv"), 0o755))

	files, err := Scan(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"a.tsv", "b.csv", "c.TXT", "d.ssv"}, names)
	assert.Equal(t, int64(1), files[0].Size)

	require.NoError(t, MarkProcessed(dir, "b.csv"))
	_, err = os.Stat(filepath.Join(dir, "processed", "b.csv"))
	require.NoError(t, err)

	files, err = Scan(dir)
	require.NoError(t, err)
	assert.Len(t, files, 3)
}

func TestScan_MissingDir(t *testing.T) {
	files, err := Scan(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	assert.Nil(t, files)
}

func TestParse_TSVEmptyFieldsKept(t *testing.T) {
	in := "code\tname\tdebit\tcredit\n2000\tAccounts Payable\t\t12000\n"
	rows, err := (&DelimitedParser{Name: "tsv", Comma: '\t'}).Parse(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "", rows[0]["debit"])
	assert.Equal(t, "12000", rows[0]["credit"])
}
