package poslog

import (
	"fmt"
	"strconv"
)

// Purchase is one restock of a raw material. Append-only: the daily store
// exposes no update or delete for purchases.
type Purchase struct {
	ID          int64    `json:"id"`
	Date        Date     `json:"date"`
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory"`
	Item        string   `json:"item"`
	Unit        string   `json:"unit"`
	Qty         Quantity `json:"qty"`
	UnitCost    Money    `json:"unit_cost"`
	TotalCost   Money    `json:"total_cost"` // Qty x UnitCost
	Notes       string   `json:"notes"`
}

var purchaseCodec = Codec[Purchase]{
	Header: []string{"id", "date", "category", "subcategory", "item",
		"unit", "qty", "unit_cost", "total_cost", "notes"},
	Marshal: func(p Purchase) []string {
		return []string{
			strconv.FormatInt(p.ID, 10), p.Date.String(), p.Category, p.Subcategory,
			p.Item, p.Unit, p.Qty.StringFixed(3), p.UnitCost.String(),
			p.TotalCost.String(), p.Notes,
		}
	},
	Unmarshal: func(row []string) (Purchase, error) {
		var p Purchase
		var err error
		if p.ID, err = strconv.ParseInt(row[0], 10, 64); err != nil {
			return p, fmt.Errorf("invalid purchase id %q: %w", row[0], err)
		}
		if p.Date, err = ParseDate(row[1]); err != nil {
			return p, err
		}
		p.Category, p.Subcategory, p.Item, p.Unit = row[2], row[3], row[4], row[5]
		if p.Qty, err = ParseQuantity(row[6]); err != nil {
			return p, fmt.Errorf("invalid qty %q: %w", row[6], err)
		}
		if p.UnitCost, err = ParseMoney(row[7]); err != nil {
			return p, fmt.Errorf("invalid unit cost %q: %w", row[7], err)
		}
		if p.TotalCost, err = ParseMoney(row[8]); err != nil {
			return p, fmt.Errorf("invalid total cost %q: %w", row[8], err)
		}
		p.Notes = row[9]
		return p, nil
	},
	ID:     func(p Purchase) int64 { return p.ID },
	WithID: func(p Purchase, id int64) Purchase { p.ID = id; return p },
}

// PurchaseRequest is a restock submission from the purchase recording
// collaborator.
type PurchaseRequest struct {
	Date        Date     `json:"date"` // zero means today
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory"`
	Item        string   `json:"item"`
	Unit        string   `json:"unit"`
	Qty         Quantity `json:"qty"`
	UnitCost    Money    `json:"unit_cost"`
	Notes       string   `json:"notes"`
}

func (r *PurchaseRequest) validate() error {
	if err := CheckCategory(r.Category); err != nil {
		return err
	}
	if err := CheckSubcategory(r.Subcategory); err != nil {
		return err
	}
	if err := CheckUnit(r.Unit); err != nil {
		return err
	}
	if !r.Qty.IsPositive() {
		return fmt.Errorf("purchase qty must be positive, got %s", r.Qty)
	}
	if r.Date.IsZero() {
		r.Date = Today()
	}
	return nil
}
