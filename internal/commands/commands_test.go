package commands_test

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/finsynth/internal/accounts"
	"github.com/cleared-dev/finsynth/internal/commands"
	"github.com/cleared-dev/finsynth/internal/config"
	"github.com/cleared-dev/finsynth/internal/model"
	"github.com/cleared-dev/finsynth/internal/runlog"
	"github.com/cleared-dev/finsynth/internal/testfixture"
)

func runFinsynth(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := commands.NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// project returns a temp dir and the config path inside it. The config file
// itself is not written, so defaults apply.
func project(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	return dir, filepath.Join(dir, config.FileName)
}

func writeRecords(t *testing.T, path string, records [][]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	w := csv.NewWriter(f)
	require.NoError(t, w.WriteAll(records))
}

func writeSample(t *testing.T, path string) {
	t.Helper()
	writeRecords(t, path, testfixture.Records)
}

var period = []string{"--start", "2024-01-01", "--end", "2024-12-31"}

func TestInit_CreatesStructure(t *testing.T) {
	dir := t.TempDir()
	out, err := runFinsynth(t, "init", dir, "--name", "Test Biz")
	require.NoError(t, err)
	assert.Contains(t, out, "Initialized finsynth project")
	assert.Contains(t, out, "(62 accounts in chart)")

	for _, d := range []string{"import", filepath.Join("import", "processed"), "statements", "logs"} {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir(), "%s should be a directory", d)
	}

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, "Test Biz", cfg.Entity.Name)
	assert.Equal(t, "USD", cfg.Entity.Currency)

	svc, err := accounts.Load(filepath.Join(dir, accounts.ChartPath))
	require.NoError(t, err)
	assert.Len(t, svc.All(), len(accounts.StandardChart()))
}

func TestInit_RequiresName(t *testing.T) {
	_, err := runFinsynth(t, "init", t.TempDir())
	require.Error(t, err, "init without --name should fail")
}

func TestInit_RefusesExistingProject(t *testing.T) {
	dir := t.TempDir()
	_, err := runFinsynth(t, "init", dir, "--name", "Test Biz")
	require.NoError(t, err)

	_, err = runFinsynth(t, "init", dir, "--name", "Other")
	assert.ErrorContains(t, err, "already exists")
}

func TestClassify(t *testing.T) {
	_, cfgPath := project(t)
	out, err := runFinsynth(t, "classify", "--config", cfgPath, "1000", "Cash")
	require.NoError(t, err)
	assert.Equal(t, "1000\tasset\tcurrent_asset\tCash\n", out)
}

func TestClassify_NameFromChart(t *testing.T) {
	_, cfgPath := project(t)
	out, err := runFinsynth(t, "classify", "--config", cfgPath, "3200")
	require.NoError(t, err)
	assert.Equal(t, "3200\tequity\ttreasury_stock\tTreasury Stock\n", out)

	out, err = runFinsynth(t, "classify", "--config", cfgPath, "OCL", "Other", "Current", "Liabilities")
	require.NoError(t, err)
	assert.Equal(t, "OCL\tliability\tcurrent_liability\tOther Current Liabilities\n", out)
}

func TestClassify_UsesProjectChart(t *testing.T) {
	dir, cfgPath := project(t)
	svc := accounts.NewService([]model.Account{
		{Code: "7777", Name: "Consulting Income", Type: model.AccountTypeRevenue, Subtype: model.SubtypeOperatingRevenue},
	})
	require.NoError(t, svc.Save(dir))

	out, err := runFinsynth(t, "classify", "--config", cfgPath, "7777", "Consulting", "Income")
	require.NoError(t, err)
	assert.Equal(t, "7777\trevenue\toperating_revenue\tConsulting Income\n", out)
}

func TestValidate(t *testing.T) {
	dir, cfgPath := project(t)
	path := filepath.Join(dir, "acme.csv")
	writeSample(t, path)

	out, err := runFinsynth(t, "validate", "--config", cfgPath, path)
	require.NoError(t, err)
	assert.Contains(t, out, "balanced, 17 accounts")
	assert.Contains(t, out, "debits 347000.00")
	assert.NotContains(t, out, "not in the chart")
}

func TestValidate_ListsCodesMissingFromChart(t *testing.T) {
	dir, cfgPath := project(t)
	var chart []model.Account
	for _, a := range accounts.StandardChart() {
		if a.Code != "6300" && a.Code != "6110" {
			chart = append(chart, a)
		}
	}
	require.NoError(t, accounts.NewService(chart).Save(dir))

	path := filepath.Join(dir, "acme.csv")
	writeSample(t, path)

	out, err := runFinsynth(t, "validate", "--config", cfgPath, path)
	require.NoError(t, err)
	assert.Contains(t, out, "balanced, 17 accounts")
	assert.Contains(t, out, "2 account(s) not in the chart of accounts: 6110, 6300")
}

func TestValidate_ReportsEveryIssue(t *testing.T) {
	dir, cfgPath := project(t)
	path := filepath.Join(dir, "broken.csv")
	writeRecords(t, path, [][]string{
		{"Account Code", "Account Name", "Debit", "Credit"},
		{"1000", "Cash", "100.00", ""},
		{"4000", "Sales Revenue", "", "50.00"},
	})

	out, err := runFinsynth(t, "validate", "--config", cfgPath, path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "problem(s) found")
	assert.Contains(t, out, "UNBALANCED_TRIAL_BALANCE")
	assert.Contains(t, out, "MISSING_CRITICAL_ACCOUNTS")
}

func TestValidate_MissingFile(t *testing.T) {
	dir, cfgPath := project(t)
	_, err := runFinsynth(t, "validate", "--config", cfgPath, filepath.Join(dir, "nope.csv"))
	assert.ErrorContains(t, err, "failed to read trial balance file")
}

func TestSynthesize_Text(t *testing.T) {
	dir, cfgPath := project(t)
	path := filepath.Join(dir, "acme.csv")
	writeSample(t, path)

	args := append([]string{"synthesize", "--config", cfgPath, path, "--beginning-cash", "50000", "--analysis"}, period...)
	out, err := runFinsynth(t, args...)
	require.NoError(t, err)

	assert.Contains(t, out, "acme")
	assert.Contains(t, out, "$147,000.00")
	assert.Contains(t, out, "Overall Health")

	entries, err := runlog.Read(filepath.Join(dir, "logs"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, runlog.StatusOK, entries[0].Status)
	assert.Equal(t, "acme", entries[0].Entity)
	assert.Equal(t, "15000", entries[0].NetIncome.Decimal.String())
}

func TestSynthesize_JSONToFile(t *testing.T) {
	dir, cfgPath := project(t)
	path := filepath.Join(dir, "acme.csv")
	writeSample(t, path)
	outPath := filepath.Join(dir, "acme.json")

	args := append([]string{"synthesize", "--config", cfgPath, path,
		"--entity", "Acme Manufacturing", "--format", "json", "--method", "direct", "-o", outPath}, period...)
	out, err := runFinsynth(t, args...)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	var doc struct {
		Statements struct {
			Entity   string `json:"entity_name"`
			CashFlow struct {
				Method    string `json:"method"`
				Operating string `json:"net_cash_operating"`
			} `json:"cash_flow_statement"`
		} `json:"statements"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "Acme Manufacturing", doc.Statements.Entity)
	assert.Equal(t, "direct", doc.Statements.CashFlow.Method)
	assert.Equal(t, "20000", doc.Statements.CashFlow.Operating)
}

func TestSynthesize_ReadsConfig(t *testing.T) {
	dir, cfgPath := project(t)
	cfg := config.Default("Configured Co")
	cfg.Period = config.PeriodConfig{Start: "2024-01-01", End: "2024-12-31"}
	cfg.Output.Format = "markdown"
	cfg.RunLog.Enabled = false
	require.NoError(t, config.Save(cfgPath, cfg))

	path := filepath.Join(dir, "acme.csv")
	writeSample(t, path)

	out, err := runFinsynth(t, "synthesize", "--config", cfgPath, path)
	require.NoError(t, err)
	assert.Contains(t, out, "# Configured Co Financial Statements")

	_, err = os.Stat(filepath.Join(dir, "logs"))
	assert.True(t, os.IsNotExist(err))
}

func TestSynthesize_RequiresPeriod(t *testing.T) {
	dir, cfgPath := project(t)
	path := filepath.Join(dir, "acme.csv")
	writeSample(t, path)

	_, err := runFinsynth(t, "synthesize", "--config", cfgPath, path)
	assert.ErrorContains(t, err, "period start and end are required")
}

func TestSynthesize_BadFlags(t *testing.T) {
	dir, cfgPath := project(t)
	path := filepath.Join(dir, "acme.csv")
	writeSample(t, path)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"method", []string{"--method", "sideways"}, "unknown cash flow method"},
		{"equity", []string{"--equity", "partners"}, "unknown equity statement"},
		{"format", []string{"--format", "pdf"}, "unknown output format"},
		{"amount", []string{"--dividends", "lots"}, "invalid dividends"},
		{"negative dividends", []string{"--dividends", "-5"}, "must not be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"synthesize", "--config", cfgPath, path}, period...)
			_, err := runFinsynth(t, append(args, tt.args...)...)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestSynthesize_RecordsFailure(t *testing.T) {
	dir, cfgPath := project(t)
	path := filepath.Join(dir, "broken.csv")
	writeRecords(t, path, [][]string{
		{"Account Code", "Account Name", "Debit", "Credit"},
		{"1000", "Cash", "100.00", ""},
	})

	args := append([]string{"synthesize", "--config", cfgPath, path}, period...)
	_, err := runFinsynth(t, args...)
	require.Error(t, err)

	entries, err := runlog.Read(filepath.Join(dir, "logs"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, runlog.StatusFailed, entries[0].Status)
	assert.Contains(t, entries[0].Error, "trial balance validation failed")
}

func TestSynthesize_FailureLeavesNoOutputFile(t *testing.T) {
	dir, cfgPath := project(t)
	path := filepath.Join(dir, "broken.csv")
	writeRecords(t, path, [][]string{
		{"Account Code", "Account Name", "Debit", "Credit"},
		{"1000", "Cash", "100.00", ""},
	})
	outPath := filepath.Join(dir, "broken.md")

	args := append([]string{"synthesize", "--config", cfgPath, path, "-o", outPath}, period...)
	_, err := runFinsynth(t, args...)
	require.Error(t, err)

	_, err = os.Stat(outPath)
	assert.True(t, os.IsNotExist(err))
}

func TestBatch(t *testing.T) {
	dir, cfgPath := project(t)
	in := filepath.Join(dir, "import")
	require.NoError(t, os.MkdirAll(in, 0o755))
	writeSample(t, filepath.Join(in, "north.csv"))
	writeSample(t, filepath.Join(in, "south.csv"))

	args := append([]string{"batch", "--config", cfgPath, in,
		"--format", "json", "--concurrency", "2", "--mark-processed", "--beginning-cash", "50000"}, period...)
	out, err := runFinsynth(t, args...)
	require.NoError(t, err)
	assert.Contains(t, out, "Synthesized 2 file(s)")

	for _, name := range []string{"north", "south"} {
		data, err := os.ReadFile(filepath.Join(in, "statements", name+".json"))
		require.NoError(t, err)
		assert.Contains(t, string(data), `"entity_name": "`+name+`"`)

		_, err = os.Stat(filepath.Join(in, "processed", name+".csv"))
		assert.NoError(t, err)
	}

	entries, err := runlog.Read(filepath.Join(dir, "logs"))
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestBatch_OutputNameCollision(t *testing.T) {
	dir, cfgPath := project(t)
	in := filepath.Join(dir, "import")
	require.NoError(t, os.MkdirAll(in, 0o755))
	writeSample(t, filepath.Join(in, "north.csv"))
	writeSample(t, filepath.Join(in, "north.tsv"))

	args := append([]string{"batch", "--config", cfgPath, in, "--format", "json"}, period...)
	_, err := runFinsynth(t, args...)
	assert.ErrorContains(t, err, "north.csv and north.tsv would both write north.json")

	_, err = os.Stat(filepath.Join(in, "statements"))
	assert.True(t, os.IsNotExist(err))
}

func TestBatch_EmptyDir(t *testing.T) {
	dir, cfgPath := project(t)
	args := append([]string{"batch", "--config", cfgPath, dir}, period...)
	out, err := runFinsynth(t, args...)
	require.NoError(t, err)
	assert.Contains(t, out, "No trial balance files")
}

func TestSchema(t *testing.T) {
	out, err := runFinsynth(t, "schema")
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &schema))
	assert.Contains(t, schema, "properties")
}

func TestVersion(t *testing.T) {
	out, err := runFinsynth(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "dev")
}
