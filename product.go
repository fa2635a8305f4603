package poslog

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode"
)

// Categories are the top-level sales channels.
var Categories = []string{"Home Delivery", "Frozen Products", "SFH"}

// Units are the stock keeping units.
var Units = []string{"KG", "GM", "Pieces", "Batch", "Plates", "Portion"}

// Subcategories classify raw materials.
var Subcategories = []string{
	"Infrastructure", "Meat and Fish", "Veggies", "Grocery", "Dairy", "Bakery",
	"Kitchen Tool", "Fuel", "Serving Dish", "Operating Supplies", "Packaging",
}

// CheckCategory validates a sales category.
func CheckCategory(s string) error {
	if !slices.Contains(Categories, s) {
		return fmt.Errorf("category must be one of %v, got %q", Categories, s)
	}
	return nil
}

// CheckUnit validates a stock keeping unit.
func CheckUnit(s string) error {
	if !slices.Contains(Units, s) {
		return fmt.Errorf("unit must be one of %v, got %q", Units, s)
	}
	return nil
}

// CheckSubcategory validates a raw material subcategory.
func CheckSubcategory(s string) error {
	if !slices.Contains(Subcategories, s) {
		return fmt.Errorf("subcategory must be one of %v, got %q", Subcategories, s)
	}
	return nil
}

// ConvertQty converts a quantity between units. Only KG and GM are
// convertible; any other pair is a mismatch.
func ConvertQty(qty Quantity, from, to string) (Quantity, error) {
	switch {
	case from == to:
		return qty, nil
	case from == "KG" && to == "GM":
		return qty.Mul(Q(1000)), nil
	case from == "GM" && to == "KG":
		return qty.Div(Q(1000)), nil
	default:
		return Quantity{}, fmt.Errorf("unit mismatch: cannot convert %s -> %s", from, to)
	}
}

// Product is a ready product: something sold as-is over the counter.
// Quantity never goes negative; a write that would drive it negative is
// rejected by the stock ledger.
type Product struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	ItemCategory string   `json:"item_category"`
	Code         string   `json:"code"` // 3 chars: 1 digit + 2 letters, e.g. 1CM
	Unit         string   `json:"unit"`
	UnitCost     Money    `json:"unit_cost"`
	Price        Money    `json:"price"`
	Quantity     Quantity `json:"quantity"`
	Threshold    Quantity `json:"threshold"`
}

var productCodec = Codec[Product]{
	Header: []string{"id", "name", "category", "item_category", "code",
		"unit", "unit_cost", "price", "quantity", "threshold"},
	Marshal: func(p Product) []string {
		return []string{
			strconv.FormatInt(p.ID, 10), p.Name, p.Category, p.ItemCategory, p.Code,
			p.Unit, p.UnitCost.String(), p.Price.String(),
			p.Quantity.StringFixed(3), p.Threshold.StringFixed(3),
		}
	},
	Unmarshal: func(row []string) (Product, error) {
		var p Product
		var err error
		if p.ID, err = strconv.ParseInt(row[0], 10, 64); err != nil {
			return p, fmt.Errorf("invalid product id %q: %w", row[0], err)
		}
		p.Name, p.Category, p.ItemCategory, p.Code, p.Unit = row[1], row[2], row[3], row[4], row[5]
		if p.UnitCost, err = ParseMoney(row[6]); err != nil {
			return p, fmt.Errorf("invalid unit cost %q: %w", row[6], err)
		}
		if p.Price, err = ParseMoney(row[7]); err != nil {
			return p, fmt.Errorf("invalid price %q: %w", row[7], err)
		}
		if p.Quantity, err = ParseQuantity(row[8]); err != nil {
			return p, fmt.Errorf("invalid quantity %q: %w", row[8], err)
		}
		if p.Threshold, err = ParseQuantity(row[9]); err != nil {
			return p, fmt.Errorf("invalid threshold %q: %w", row[9], err)
		}
		return p, nil
	},
	ID:     func(p Product) int64 { return p.ID },
	WithID: func(p Product, id int64) Product { p.ID = id; return p },
}

// RawItem is a raw material consumed in production and restocked by
// purchases.
type RawItem struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory"`
	Unit        string   `json:"unit"`
	UnitCost    Money    `json:"unit_cost"`
	Stock       Quantity `json:"stock"`
	Threshold   Quantity `json:"threshold"`
}

var rawItemCodec = Codec[RawItem]{
	Header: []string{"id", "name", "category", "subcategory", "unit",
		"unit_cost", "stock", "threshold"},
	Marshal: func(r RawItem) []string {
		return []string{
			strconv.FormatInt(r.ID, 10), r.Name, r.Category, r.Subcategory, r.Unit,
			r.UnitCost.String(), r.Stock.StringFixed(3), r.Threshold.StringFixed(3),
		}
	},
	Unmarshal: func(row []string) (RawItem, error) {
		var r RawItem
		var err error
		if r.ID, err = strconv.ParseInt(row[0], 10, 64); err != nil {
			return r, fmt.Errorf("invalid raw item id %q: %w", row[0], err)
		}
		r.Name, r.Category, r.Subcategory, r.Unit = row[1], row[2], row[3], row[4]
		if r.UnitCost, err = ParseMoney(row[5]); err != nil {
			return r, fmt.Errorf("invalid unit cost %q: %w", row[5], err)
		}
		if r.Stock, err = ParseQuantity(row[6]); err != nil {
			return r, fmt.Errorf("invalid stock %q: %w", row[6], err)
		}
		if r.Threshold, err = ParseQuantity(row[7]); err != nil {
			return r, fmt.Errorf("invalid threshold %q: %w", row[7], err)
		}
		return r, nil
	},
	ID:     func(r RawItem) int64 { return r.ID },
	WithID: func(r RawItem, id int64) RawItem { r.ID = id; return r },
}

// CheckCode validates a user-supplied product code: exactly 3 chars,
// 1 digit followed by 2 letters (e.g. 1CM, 5CB).
func CheckCode(code string) error {
	if len(code) != 3 || !unicode.IsDigit(rune(code[0])) ||
		!unicode.IsLetter(rune(code[1])) || !unicode.IsLetter(rune(code[2])) {
		return fmt.Errorf("code must be exactly 3 chars: 1 digit + 2 letters (e.g. 1CM, 5CB), got %q", code)
	}
	return nil
}

// GenerateCode derives a unique 3-character code <digit><letter><letter> for
// a product: second char from the item category (name as fallback), third
// from the product name, first a digit 1-9 chosen to avoid collisions with
// existing codes.
func GenerateCode(name, itemCategory string, existing []Product) string {
	base := strings.TrimSpace(itemCategory)
	if base == "" {
		base = strings.TrimSpace(name)
	}
	l2 := firstLetter(base)
	l3 := firstLetter(strings.TrimSpace(name))
	suffix := l2 + l3

	taken := make(map[string]bool, len(existing))
	for _, p := range existing {
		taken[strings.ToUpper(p.Code)] = true
	}

	for d := 1; d <= 9; d++ {
		code := fmt.Sprintf("%d%s", d, suffix)
		if !taken[code] {
			return code
		}
	}
	// All nine digits used for that pair; walk the alphabet on the last letter.
	for idx := 0; ; idx++ {
		extra := string(rune('A' + idx%26))
		for d := 1; d <= 9; d++ {
			code := fmt.Sprintf("%d%s%s", d, l2, extra)
			if !taken[code] {
				return code
			}
		}
	}
}

// firstLetter returns the first letter of s, uppercased. Digits and
// punctuation are skipped so a name like "42nd Street" still yields a
// valid code char; "X" when s has no letter at all.
func firstLetter(s string) string {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return strings.ToUpper(string(r))
		}
	}
	return "X"
}
