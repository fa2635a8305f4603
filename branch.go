package poslog

import (
	"fmt"
	"strconv"
)

// Branch is a selling location. Reference data, rarely mutated.
type Branch struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

var branchCodec = Codec[Branch]{
	Header: []string{"id", "name", "is_active"},
	Marshal: func(b Branch) []string {
		active := "0"
		if b.IsActive {
			active = "1"
		}
		return []string{strconv.FormatInt(b.ID, 10), b.Name, active}
	},
	Unmarshal: func(row []string) (Branch, error) {
		var b Branch
		var err error
		if b.ID, err = strconv.ParseInt(row[0], 10, 64); err != nil {
			return b, fmt.Errorf("invalid branch id %q: %w", row[0], err)
		}
		b.Name = row[1]
		b.IsActive = row[2] == "1"
		return b, nil
	},
	ID:     func(b Branch) int64 { return b.ID },
	WithID: func(b Branch, id int64) Branch { b.ID = id; return b },
}
