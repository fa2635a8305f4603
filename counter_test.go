package poslog

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "conf", "order_seq.txt")
}

func TestCounterStartsAtOne(t *testing.T) {
	c := NewOrderCounter(counterPath(t), nil)
	id, err := c.Next()
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
}

func TestCounterMonotonic(t *testing.T) {
	c := NewOrderCounter(counterPath(t), nil)
	var last int64
	for i := 0; i < 5; i++ {
		id, err := c.Next()
		require.NoError(t, err)
		assert.Equal(t, last+1, id)
		last = id
	}
}

func TestCounterSurvivesRestart(t *testing.T) {
	path := counterPath(t)
	c := NewOrderCounter(path, nil)
	for i := 0; i < 3; i++ {
		_, err := c.Next()
		require.NoError(t, err)
	}

	// A fresh instance over the same file resumes, never reissues.
	again := NewOrderCounter(path, nil)
	id, err := again.Next()
	require.NoError(t, err)
	assert.Equal(t, int64(4), id)
}

func TestCounterSeed(t *testing.T) {
	c := NewOrderCounter(counterPath(t), func() (int64, error) { return 17, nil })
	id, err := c.Peek()
	require.NoError(t, err)
	assert.Equal(t, int64(18), id)

	// The seed only applies when the file is missing.
	id, err = c.Next()
	require.NoError(t, err)
	assert.Equal(t, int64(18), id)
}

func TestCounterPeekDoesNotConsume(t *testing.T) {
	c := NewOrderCounter(counterPath(t), nil)
	for i := 0; i < 3; i++ {
		id, err := c.Peek()
		require.NoError(t, err)
		assert.Equal(t, int64(1), id)
	}
	id, err := c.Next()
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
}

func TestCounterRefusesCorruptFile(t *testing.T) {
	path := counterPath(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))

	for _, content := range []string{"garbage", "-3"} {
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		c := NewOrderCounter(path, nil)
		_, err := c.Next()
		var corrupt *StoreCorruptError
		require.ErrorAs(t, err, &corrupt, "content %q", content)
		assert.Equal(t, path, corrupt.Path)
	}
}

func TestCounterTrimsWhitespace(t *testing.T) {
	path := counterPath(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(" 7\n"), 0644))

	c := NewOrderCounter(path, nil)
	id, err := c.Next()
	require.NoError(t, err)
	assert.Equal(t, int64(8), id)
}

func TestCounterReset(t *testing.T) {
	c := NewOrderCounter(counterPath(t), nil)
	_, err := c.Next()
	require.NoError(t, err)

	archived := false
	require.NoError(t, c.Reset(func() error { archived = true; return nil }))
	assert.True(t, archived)

	id, err := c.Next()
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
}

func TestCounterResetAbortsOnArchiveFailure(t *testing.T) {
	c := NewOrderCounter(counterPath(t), nil)
	_, err := c.Next()
	require.NoError(t, err)

	require.Error(t, c.Reset(func() error { return assert.AnError }))

	// Sequence untouched after the failed archive.
	id, err := c.Next()
	require.NoError(t, err)
	assert.Equal(t, int64(2), id)
}

func TestCounterConcurrentNextDistinct(t *testing.T) {
	c := NewOrderCounter(counterPath(t), nil)
	const n = 25
	var wg sync.WaitGroup
	ids := make(chan int64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := c.Next()
			if err != nil {
				t.Error(err)
				return
			}
			ids <- id
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool)
	var max int64
	for id := range ids {
		assert.False(t, seen[id], "order id %d issued twice", id)
		seen[id] = true
		if id > max {
			max = id
		}
	}
	require.Len(t, seen, n)
	// No value skipped on success.
	assert.Equal(t, int64(n), max)
}
