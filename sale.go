package poslog

import (
	"fmt"
	"slices"
	"strconv"
)

// PaymentStatus is the settlement state of a sale line.
type PaymentStatus string

const (
	PaymentLive PaymentStatus = "Live" // order open, e.g. table still seated
	PaymentDue  PaymentStatus = "Due"
	PaymentPaid PaymentStatus = "Paid"
)

// PaymentStatuses lists the accepted settlement states.
var PaymentStatuses = []PaymentStatus{PaymentLive, PaymentDue, PaymentPaid}

// CheckPaymentStatus validates a settlement state.
func CheckPaymentStatus(s PaymentStatus) error {
	if !slices.Contains(PaymentStatuses, s) {
		return fmt.Errorf("payment status must be one of %v, got %q", PaymentStatuses, s)
	}
	return nil
}

// PaymentModes lists the accepted payment channels. A mode is only recorded
// once a sale is Paid.
var PaymentModes = []string{"CurrentUPI", "Cash", "Card", "PersonalUPI", "PersonalCash"}

// CheckPaymentMode validates a payment channel. Empty is allowed: a sale
// that is not yet Paid carries no mode.
func CheckPaymentMode(s string) error {
	if s == "" || slices.Contains(PaymentModes, s) {
		return nil
	}
	return fmt.Errorf("payment mode must be one of %v or empty, got %q", PaymentModes, s)
}

// Sale is one line item of a checkout. All lines of one checkout share an
// OrderID; the line ID is local to the day's sales store. Append-only,
// except for the constrained payment patch.
type Sale struct {
	ID            int64         `json:"id"`
	Date          Date          `json:"date"`
	Category      string        `json:"category"`
	Branch        string        `json:"branch"`
	OrderID       int64         `json:"order_id"`
	Item          string        `json:"item"`
	Unit          string        `json:"unit"`
	Qty           Quantity      `json:"qty"`
	UnitPrice     Money         `json:"unit_price"`
	Discount      Money         `json:"discount"`
	TotalPrice    Money         `json:"total_price"` // Qty x UnitPrice - Discount, floored at 0
	CustomerName  string        `json:"customer_name"`
	CustomerPhone string        `json:"customer_phone"`
	TableNo       string        `json:"table_no"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	PaymentMode   string        `json:"payment_mode"`
	PaymentNote   string        `json:"payment_note"`
	Notes         string        `json:"notes"`
}

var saleCodec = Codec[Sale]{
	Header: []string{"id", "date", "category", "branch", "order_id", "item",
		"unit", "qty", "unit_price", "discount", "total_price", "customer_name",
		"customer_phone", "table_no", "payment_status", "payment_mode",
		"payment_note", "notes"},
	Marshal: func(s Sale) []string {
		return []string{
			strconv.FormatInt(s.ID, 10), s.Date.String(), s.Category, s.Branch,
			strconv.FormatInt(s.OrderID, 10), s.Item, s.Unit,
			s.Qty.StringFixed(3), s.UnitPrice.String(), s.Discount.String(),
			s.TotalPrice.String(), s.CustomerName, s.CustomerPhone, s.TableNo,
			string(s.PaymentStatus), s.PaymentMode, s.PaymentNote, s.Notes,
		}
	},
	Unmarshal: func(row []string) (Sale, error) {
		var s Sale
		var err error
		if s.ID, err = strconv.ParseInt(row[0], 10, 64); err != nil {
			return s, fmt.Errorf("invalid sale id %q: %w", row[0], err)
		}
		if s.Date, err = ParseDate(row[1]); err != nil {
			return s, err
		}
		s.Category, s.Branch = row[2], row[3]
		if s.OrderID, err = strconv.ParseInt(row[4], 10, 64); err != nil {
			return s, fmt.Errorf("invalid order id %q: %w", row[4], err)
		}
		s.Item, s.Unit = row[5], row[6]
		if s.Qty, err = ParseQuantity(row[7]); err != nil {
			return s, fmt.Errorf("invalid qty %q: %w", row[7], err)
		}
		if s.UnitPrice, err = ParseMoney(row[8]); err != nil {
			return s, fmt.Errorf("invalid unit price %q: %w", row[8], err)
		}
		if s.Discount, err = ParseMoney(row[9]); err != nil {
			return s, fmt.Errorf("invalid discount %q: %w", row[9], err)
		}
		if s.TotalPrice, err = ParseMoney(row[10]); err != nil {
			return s, fmt.Errorf("invalid total price %q: %w", row[10], err)
		}
		s.CustomerName, s.CustomerPhone, s.TableNo = row[11], row[12], row[13]
		s.PaymentStatus = PaymentStatus(row[14])
		s.PaymentMode, s.PaymentNote, s.Notes = row[15], row[16], row[17]
		return s, nil
	},
	ID:     func(s Sale) int64 { return s.ID },
	WithID: func(s Sale, id int64) Sale { s.ID = id; return s },
}
