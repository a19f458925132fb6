package table_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/utilisation-board/table"
	"github.com/warp/utilisation-board/workforce"
)

func TestDefaultColumns(t *testing.T) {
	cols := table.DefaultColumns()
	keys := make([]string, len(cols))
	for i, c := range cols {
		keys[i] = c.AccessorKey
	}
	assert.Equal(t, []string{"person", "past12Months", "y2d", "may", "june", "july", "netEarningsPrevMonth"}, keys)
	assert.Equal(t, "Net Earnings Prev Month", cols[6].Header)
}

func TestParseColumns_OverridesLabelsOnly(t *testing.T) {
	cols, err := table.ParseColumns([]byte(`
headers:
  person: Mitarbeiter
  y2d: Seit Jahresbeginn
  july: ""
`))
	require.NoError(t, err)

	assert.Equal(t, "person", cols[0].AccessorKey)
	assert.Equal(t, "Mitarbeiter", cols[0].Header)
	assert.Equal(t, "Seit Jahresbeginn", cols[2].Header)
	assert.Equal(t, "July", cols[5].Header, "empty label keeps the default")
	assert.Equal(t, "Past 12 Months", cols[1].Header)
}

func TestParseColumns_UnknownKey(t *testing.T) {
	_, err := table.ParseColumns([]byte("headers:\n  salary: Salary\n"))
	assert.ErrorIs(t, err, table.ErrUnknownColumn)
}

func TestParseColumns_BadYAML(t *testing.T) {
	_, err := table.ParseColumns([]byte("headers: [unclosed"))
	assert.Error(t, err)
}

func TestLoadColumns(t *testing.T) {
	cols, err := table.LoadColumns("")
	require.NoError(t, err)
	assert.Equal(t, table.DefaultColumns(), cols)

	path := filepath.Join(t.TempDir(), "columns.yaml")
	require.NoError(t, os.WriteFile(path, []byte("headers:\n  may: Mai\n"), 0o600))
	cols, err = table.LoadColumns(path)
	require.NoError(t, err)
	assert.Equal(t, "Mai", cols[3].Header)

	_, err = table.LoadColumns(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestBuild(t *testing.T) {
	now := time.Date(2026, time.October, 16, 10, 0, 0, 0, time.FixedZone("CEST", 2*60*60))
	report := workforce.Report{
		PreviousMonth: "2026-09",
		Skipped:       []workforce.Skip{{Index: 1, Reason: workforce.SkipInactive}},
	}

	tbl := table.Build("default", table.DefaultColumns(), report, now)

	assert.Equal(t, "default", tbl.Dataset)
	assert.NotNil(t, tbl.Rows)
	assert.Empty(t, tbl.Rows)
	assert.Equal(t, 1, tbl.Dropped)
	assert.Equal(t, "2026-09", tbl.PreviousMonth)
	assert.Equal(t, time.UTC, tbl.GeneratedAt.Location())
}
