package poslog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// OrderCounter owns the single persisted last-order-id value. No other
// component reads or writes the counter file.
//
// Next is atomic under concurrent invocation: two concurrent calls never
// return the same value, and no value is skipped on success. The new value
// is durably persisted before Next returns, so a restart resumes from the
// last recorded value. Gaps after a crash mid-write are acceptable; a value
// is never silently reused.
type OrderCounter struct {
	path string
	seed func() (int64, error) // initial value when the file does not exist yet
	mu   sync.Mutex
}

// NewOrderCounter creates a counter persisted at path. When the file does
// not exist yet, seed provides the initial value (e.g. the max order id
// found in existing sales, so adopting an existing data directory never
// reissues an id). A nil seed starts at 0.
func NewOrderCounter(path string, seed func() (int64, error)) *OrderCounter {
	return &OrderCounter{path: path, seed: seed}
}

// read returns the last issued order id. Callers hold c.mu.
func (c *OrderCounter) read() (int64, error) {
	b, err := os.ReadFile(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		var initial int64
		if c.seed != nil {
			if initial, err = c.seed(); err != nil {
				return 0, fmt.Errorf("could not seed order counter: %w", err)
			}
		}
		if err := c.persist(initial); err != nil {
			return 0, err
		}
		return initial, nil
	}
	if err != nil {
		return 0, fmt.Errorf("could not read order counter %q: %w", c.path, err)
	}
	last, err := strconv.ParseInt(strings.TrimSpace(string(b)), 10, 64)
	if err != nil || last < 0 {
		// Refuse to allocate rather than guess: a guessed value risks
		// duplicate order ids.
		if err == nil {
			err = fmt.Errorf("negative counter value %d", last)
		}
		return 0, &StoreCorruptError{Path: c.path, Err: err}
	}
	return last, nil
}

// persist durably records the last issued order id. Callers hold c.mu.
func (c *OrderCounter) persist(last int64) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("could not create counter directory: %w", err)
	}
	tmp := c.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("could not create %q: %w", tmp, err)
	}
	if _, err := fmt.Fprintf(f, "%d\n", last); err != nil {
		f.Close()
		return fmt.Errorf("could not write counter: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("could not sync counter: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("could not close counter: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("could not swap counter in place: %w", err)
	}
	return nil
}

// Next allocates and durably records the next order id.
func (c *OrderCounter) Next() (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	last, err := c.read()
	if err != nil {
		return 0, err
	}
	next := last + 1
	if err := c.persist(next); err != nil {
		return 0, err
	}
	return next, nil
}

// Peek returns the id the next call to Next would allocate, without
// consuming it. Used for UI display only.
func (c *OrderCounter) Peek() (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	last, err := c.read()
	if err != nil {
		return 0, err
	}
	return last + 1, nil
}

// Reset archives prior data through the given callback, then restarts the
// sequence at 0. This is the only operation allowed to lower the counter.
func (c *OrderCounter) Reset(archive func() error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if archive != nil {
		if err := archive(); err != nil {
			return fmt.Errorf("could not archive before counter reset: %w", err)
		}
	}
	return c.persist(0)
}
