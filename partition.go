package poslog

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"
)

// Partition is the folder and file set holding all records created on one
// calendar date.
type Partition struct {
	Date      Date
	dir       string
	sales     *Table[Sale]
	purchases *Table[Purchase]
}

// Sales returns the day's sale store. Only append, list and get apply.
func (p *Partition) Sales() *Table[Sale] { return p.sales }

// Purchases returns the day's purchase store. Only append, list and get apply.
func (p *Partition) Purchases() *Table[Purchase] { return p.purchases }

// Dir returns the on-disk folder of the partition.
func (p *Partition) Dir() string { return p.dir }

// Partitions resolves calendar dates to their daily partition. The same
// date always resolves to the same Partition value, so each per-day file
// keeps a single lock no matter how many callers resolve it.
type Partitions struct {
	root string
	mu   sync.Mutex
	days map[string]*Partition
}

// NewPartitions creates a resolver rooted at the given data directory.
func NewPartitions(root string) *Partitions {
	return &Partitions{root: root, days: make(map[string]*Partition)}
}

// Root returns the data directory holding all partitions.
func (ps *Partitions) Root() string { return ps.root }

// Resolve returns the partition for a calendar date, creating its folder
// and seeding empty, correctly-headered stores on first use. Resolving the
// same date twice returns the same handle with no further side effects.
// A date in the past resolves to its own historical partition, never today's.
func (ps *Partitions) Resolve(on Date) (*Partition, error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	key := on.String()
	if p, ok := ps.days[key]; ok {
		return p, nil
	}

	dir := filepath.Join(ps.root, key)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("could not create partition %q: %w", dir, err)
	}
	p := &Partition{
		Date:      on,
		dir:       dir,
		sales:     NewTable(filepath.Join(dir, "sales.csv"), saleCodec),
		purchases: NewTable(filepath.Join(dir, "purchases.csv"), purchaseCodec),
	}
	if err := p.sales.Init(); err != nil {
		return nil, err
	}
	if err := p.purchases.Init(); err != nil {
		return nil, err
	}
	ps.days[key] = p
	return p, nil
}

// Days returns the dates of all existing partitions, oldest first. Folders
// whose name is not a date are ignored.
func (ps *Partitions) Days() ([]Date, error) {
	entries, err := os.ReadDir(ps.root)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not list partitions in %q: %w", ps.root, err)
	}
	var days []Date
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		on, err := ParseDate(e.Name())
		if err != nil {
			continue
		}
		days = append(days, on)
	}
	slices.SortFunc(days, func(a, b Date) int {
		switch {
		case a.Before(b):
			return -1
		case a.After(b):
			return 1
		default:
			return 0
		}
	})
	return days, nil
}

// Archive moves the whole data root aside into dest and starts fresh.
// Used by the full-inventory restart together with the counter reset.
func (ps *Partitions) Archive(dest string) error {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if _, err := os.Stat(ps.root); os.IsNotExist(err) {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("could not create archive directory: %w", err)
	}
	if err := os.Rename(ps.root, dest); err != nil {
		return fmt.Errorf("could not archive data root: %w", err)
	}
	// A fresh empty root takes the archived one's place right away, so
	// evergreen-store writes keep working without waiting for a resolve.
	if err := os.MkdirAll(ps.root, 0755); err != nil {
		return fmt.Errorf("could not recreate data root: %w", err)
	}
	ps.days = make(map[string]*Partition)
	return nil
}

// ArchiveName derives a timestamped archive folder name next to the root.
func (ps *Partitions) ArchiveName(now time.Time) string {
	return filepath.Join(filepath.Dir(ps.root),
		"data_backup", "before_full_invent_"+now.Format("20060102_150405"))
}
