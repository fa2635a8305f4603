package poslog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Codec describes how a record type maps to and from one delimited row.
// The engine preserves the row shape the codec defines; it only interprets
// the synthetic id it assigns on append.
type Codec[T any] struct {
	Header    []string
	Marshal   func(T) []string
	Unmarshal func([]string) (T, error)
	ID        func(T) int64
	WithID    func(T, int64) T
}

// Table is a typed record set backed by one CSV file with a header row.
//
// Every mutation holds the table's own mutex, so concurrent appends never
// compute the same next id and never interleave partial lines. Writes go
// through a temp-file rename swap, so a concurrent reader observes either
// the previous file or the new one, never a half-written row. The contract
// is an ordered append log keyed by synthetic id; the physical CSV format
// could be swapped for an embedded store without changing callers.
type Table[T any] struct {
	path  string
	codec Codec[T]
	mu    sync.Mutex
}

// NewTable creates a table over the file at path. The file is created with
// its header on first use.
func NewTable[T any](path string, codec Codec[T]) *Table[T] {
	return &Table[T]{path: path, codec: codec}
}

// Path returns the on-disk location of the table.
func (t *Table[T]) Path() string { return t.path }

// Init creates the backing file with its header row if it does not exist.
// Calling Init on an existing file is a no-op.
func (t *Table[T]) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, err := os.Stat(t.path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("could not stat %q: %w", t.path, err)
	}
	return t.write(nil)
}

// load reads and decodes all committed rows. Callers hold t.mu.
func (t *Table[T]) load() ([]T, error) {
	f, err := os.Open(t.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open table %q: %w", t.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(t.codec.Header)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, &StoreCorruptError{Path: t.path, Err: err}
	}
	if len(rows) == 0 {
		return nil, &StoreCorruptError{Path: t.path, Err: errors.New("missing header row")}
	}
	if !slices.Equal(rows[0], t.codec.Header) {
		return nil, &StoreCorruptError{Path: t.path, Err: fmt.Errorf("unexpected header %v", rows[0])}
	}

	records := make([]T, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec, err := t.codec.Unmarshal(row)
		if err != nil {
			return nil, &StoreCorruptError{Path: t.path, Err: err}
		}
		records = append(records, rec)
	}
	return records, nil
}

// write encodes all records and swaps them in place of the current file.
// Callers hold t.mu.
func (t *Table[T]) write(records []T) error {
	tmp := t.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("could not create %q: %w", tmp, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(t.codec.Header); err != nil {
		f.Close()
		return fmt.Errorf("could not write header of %q: %w", t.path, err)
	}
	for _, rec := range records {
		if err := w.Write(t.codec.Marshal(rec)); err != nil {
			f.Close()
			return fmt.Errorf("could not write row of %q: %w", t.path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("could not flush %q: %w", t.path, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("could not sync %q: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("could not close %q: %w", tmp, err)
	}
	// The swap is what makes the write atomic for readers.
	if err := os.Rename(tmp, t.path); err != nil {
		return fmt.Errorf("could not swap %q in place: %w", t.path, err)
	}
	return nil
}

// List returns all committed records in file order.
func (t *Table[T]) List() ([]T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.load()
}

// Get returns the record with the given id, or ErrNotFound.
func (t *Table[T]) Get(id int64) (T, error) {
	var zero T
	records, err := t.List()
	if err != nil {
		return zero, err
	}
	for _, rec := range records {
		if t.codec.ID(rec) == id {
			return rec, nil
		}
	}
	return zero, fmt.Errorf("record %d in %q: %w", id, filepath.Base(t.path), ErrNotFound)
}

// Append assigns the next id (max existing id + 1, local to this table) and
// persists the record. It returns the stored record with its id set.
func (t *Table[T]) Append(rec T) (T, error) {
	stored, err := t.AppendAll([]T{rec})
	if err != nil {
		var zero T
		return zero, err
	}
	return stored[0], nil
}

// AppendAll assigns consecutive ids to all records and persists them as one
// atomic write. A multi-line order therefore owns a contiguous id block and
// is committed whole or not at all.
func (t *Table[T]) AppendAll(recs []T) ([]T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	records, err := t.load()
	if err != nil {
		return nil, err
	}
	next := int64(1)
	for _, rec := range records {
		if id := t.codec.ID(rec); id >= next {
			next = id + 1
		}
	}
	stored := make([]T, 0, len(recs))
	for _, rec := range recs {
		rec = t.codec.WithID(rec, next)
		next++
		stored = append(stored, rec)
	}
	if err := t.write(append(records, stored...)); err != nil {
		return nil, err
	}
	return stored, nil
}

// Update applies mutate to the record with the given id and persists the
// result. The read-mutate-write sequence runs under the table lock, so
// concurrent updates never act on a stale copy.
func (t *Table[T]) Update(id int64, mutate func(*T) error) (T, error) {
	var zero T
	t.mu.Lock()
	defer t.mu.Unlock()

	records, err := t.load()
	if err != nil {
		return zero, err
	}
	for i := range records {
		if t.codec.ID(records[i]) != id {
			continue
		}
		if err := mutate(&records[i]); err != nil {
			return zero, err
		}
		if err := t.write(records); err != nil {
			return zero, err
		}
		return records[i], nil
	}
	return zero, fmt.Errorf("record %d in %q: %w", id, filepath.Base(t.path), ErrNotFound)
}

// Delete removes the record with the given id, or returns ErrNotFound.
func (t *Table[T]) Delete(id int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	records, err := t.load()
	if err != nil {
		return err
	}
	kept := records[:0]
	for _, rec := range records {
		if t.codec.ID(rec) != id {
			kept = append(kept, rec)
		}
	}
	if len(kept) == len(records) {
		return fmt.Errorf("record %d in %q: %w", id, filepath.Base(t.path), ErrNotFound)
	}
	return t.write(kept)
}
