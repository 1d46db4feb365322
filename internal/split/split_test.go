package split

import (
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/combotally-cli/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByColumn(t *testing.T) {
	in := table.Table{
		{"P1", "NYY", "1"},
		{"P2", "BOS", "2"},
		{"P3", "NYY"},
		{"P4"},
	}
	parts, err := ByColumn(in, 1)
	require.NoError(t, err)
	require.Len(t, parts, 2)
	assert.Equal(t, "BOS", parts[0].Value)
	assert.Equal(t, table.Table{{"P1", "NYY", "1"}, {"P3", "NYY"}}, parts[1].Rows)

	_, err = ByColumn(in, 3)
	assert.ErrorIs(t, err, ErrColumnOutOfRange)

	parts, err = ByColumn(nil, 0)
	require.NoError(t, err)
	assert.Empty(t, parts)
}

func TestWriteSanitizesAndDeduplicates(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "outputs")
	parts := []Part{
		{Value: "a/b", Rows: table.Table{{"1", "a/b"}}},
		{Value: `a\b`, Rows: table.Table{{"2", `a\b`}}},
		{Value: "c", Rows: table.Table{{"3", "c"}}},
	}
	got, err := Write(parts, []string{"id", "team"}, dir, "B", ".csv")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "split_B_a_b.csv"),
		filepath.Join(dir, "split_B_a_b_2.csv"),
		filepath.Join(dir, "split_B_c.csv"),
	}, got)

	d, err := table.ReadFile(got[1], table.ReadOptions{HeaderRow: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "team"}, d.Header)
	assert.Equal(t, table.Table{{"2", `a\b`}}, d.Rows)
}

func TestOutputDir(t *testing.T) {
	assert.Equal(t, filepath.Join("data", "outputs"), OutputDir(filepath.Join("data", "daily.xlsx")))
}
