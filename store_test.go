package poslog

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTable(t *testing.T) *Table[Product] {
	t.Helper()
	tbl := NewTable(filepath.Join(t.TempDir(), "products.csv"), productCodec)
	require.NoError(t, tbl.Init())
	return tbl
}

func TestTableInitWritesHeader(t *testing.T) {
	tbl := newTestTable(t)
	b, err := os.ReadFile(tbl.Path())
	require.NoError(t, err)
	assert.Equal(t, "id,name,category,item_category,code,unit,unit_cost,price,quantity,threshold\n", string(b))

	// Init on an existing file must not touch it.
	_, err = tbl.Append(Product{Name: "Momo"})
	require.NoError(t, err)
	require.NoError(t, tbl.Init())
	records, err := tbl.List()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestTableAppendAssignsIDs(t *testing.T) {
	tbl := newTestTable(t)
	a, err := tbl.Append(Product{Name: "Momo"})
	require.NoError(t, err)
	b, err := tbl.Append(Product{Name: "Thukpa"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, int64(2), b.ID)

	got, err := tbl.Get(2)
	require.NoError(t, err)
	assert.Equal(t, "Thukpa", got.Name)
}

func TestTableAppendAllContiguous(t *testing.T) {
	tbl := newTestTable(t)
	_, err := tbl.Append(Product{Name: "seed"})
	require.NoError(t, err)

	stored, err := tbl.AppendAll([]Product{{Name: "a"}, {Name: "b"}, {Name: "c"}})
	require.NoError(t, err)
	require.Len(t, stored, 3)
	for i, rec := range stored {
		assert.Equal(t, int64(2+i), rec.ID)
	}
}

func TestTableGetNotFound(t *testing.T) {
	tbl := newTestTable(t)
	_, err := tbl.Get(42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTableUpdate(t *testing.T) {
	tbl := newTestTable(t)
	p, err := tbl.Append(Product{Name: "Momo", Quantity: Q(10)})
	require.NoError(t, err)

	got, err := tbl.Update(p.ID, func(p *Product) error {
		p.Quantity = p.Quantity.Sub(Q(7))
		return nil
	})
	require.NoError(t, err)
	assert.True(t, got.Quantity.Equal(Q(3)))

	// A mutate error must leave the file untouched.
	_, err = tbl.Update(p.ID, func(p *Product) error {
		p.Quantity = Q(999)
		return assert.AnError
	})
	require.Error(t, err)
	got, err = tbl.Get(p.ID)
	require.NoError(t, err)
	assert.True(t, got.Quantity.Equal(Q(3)))
}

func TestTableDelete(t *testing.T) {
	tbl := newTestTable(t)
	p, err := tbl.Append(Product{Name: "Momo"})
	require.NoError(t, err)
	require.NoError(t, tbl.Delete(p.ID))
	assert.ErrorIs(t, tbl.Delete(p.ID), ErrNotFound)
}

func TestTableRejectsForeignHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.csv")
	require.NoError(t, os.WriteFile(path, []byte("foo,bar\n1,2\n"), 0644))
	tbl := NewTable(path, productCodec)

	_, err := tbl.List()
	var corrupt *StoreCorruptError
	require.ErrorAs(t, err, &corrupt)
	assert.Equal(t, path, corrupt.Path)
}

func TestTableRejectsMalformedRow(t *testing.T) {
	tbl := newTestTable(t)
	f, err := os.OpenFile(tbl.Path(), os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	_, err = f.WriteString("not-a-number,Momo,c,i,1CM,KG,0,0,0,0\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = tbl.List()
	var corrupt *StoreCorruptError
	assert.ErrorAs(t, err, &corrupt)
}

func TestTableConcurrentAppendsDistinctIDs(t *testing.T) {
	tbl := newTestTable(t)
	const n = 20
	var wg sync.WaitGroup
	ids := make(chan int64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := tbl.Append(Product{Name: "Momo"})
			if err != nil {
				t.Error(err)
				return
			}
			ids <- p.ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool)
	for id := range ids {
		assert.False(t, seen[id], "id %d issued twice", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
}
