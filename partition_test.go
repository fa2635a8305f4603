package poslog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartitionsResolveCreatesFolder(t *testing.T) {
	root := t.TempDir()
	ps := NewPartitions(root)

	p, err := ps.Resolve(MustParse("2026-08-28"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "2026-08-28"), p.Dir())

	for _, name := range []string{"sales.csv", "purchases.csv"} {
		_, err := os.Stat(filepath.Join(p.Dir(), name))
		assert.NoError(t, err, "missing %s", name)
	}
}

func TestPartitionsResolveReturnsSameHandle(t *testing.T) {
	ps := NewPartitions(t.TempDir())
	a, err := ps.Resolve(MustParse("2026-08-28"))
	require.NoError(t, err)
	b, err := ps.Resolve(MustParse("2026-08-28"))
	require.NoError(t, err)
	// One handle per day means one lock per file.
	assert.Same(t, a, b)
}

func TestPartitionsKeepDaysApart(t *testing.T) {
	ps := NewPartitions(t.TempDir())
	yesterday, err := ps.Resolve(MustParse("2026-08-27"))
	require.NoError(t, err)
	today, err := ps.Resolve(MustParse("2026-08-28"))
	require.NoError(t, err)

	_, err = yesterday.Sales().Append(Sale{Date: MustParse("2026-08-27"), Item: "Momo"})
	require.NoError(t, err)

	sales, err := today.Sales().List()
	require.NoError(t, err)
	assert.Empty(t, sales, "a past date must resolve to its own partition")
}

func TestPartitionsDays(t *testing.T) {
	root := t.TempDir()
	ps := NewPartitions(root)
	for _, day := range []string{"2026-08-28", "2026-08-01", "2026-08-15"} {
		_, err := ps.Resolve(MustParse(day))
		require.NoError(t, err)
	}
	// Non-date folders and loose files are ignored.
	require.NoError(t, os.MkdirAll(filepath.Join(root, "not-a-date"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "branches.csv"), nil, 0644))

	days, err := ps.Days()
	require.NoError(t, err)
	require.Len(t, days, 3)
	assert.Equal(t, MustParse("2026-08-01"), days[0])
	assert.Equal(t, MustParse("2026-08-15"), days[1])
	assert.Equal(t, MustParse("2026-08-28"), days[2])
}

func TestPartitionsArchive(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "data")
	ps := NewPartitions(root)
	p, err := ps.Resolve(MustParse("2026-08-28"))
	require.NoError(t, err)
	_, err = p.Sales().Append(Sale{Date: MustParse("2026-08-28"), Item: "Momo"})
	require.NoError(t, err)

	dest := filepath.Join(base, "data_backup", "before_full_invent_20260828_120000")
	require.NoError(t, ps.Archive(dest))

	// Everything moved, nothing deleted, and a fresh empty root is ready
	// for writes right away.
	_, err = os.Stat(filepath.Join(dest, "2026-08-28", "sales.csv"))
	assert.NoError(t, err)
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)

	// Resolving after the archive starts fresh.
	p, err = ps.Resolve(MustParse("2026-08-28"))
	require.NoError(t, err)
	sales, err := p.Sales().List()
	require.NoError(t, err)
	assert.Empty(t, sales)
}
