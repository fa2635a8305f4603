package renderer

import (
	"strings"
	"testing"

	"github.com/tbm/poslog"
)

func testReceipt() *poslog.Receipt {
	return &poslog.Receipt{
		OrderID: 17,
		Lines: []poslog.Sale{
			{
				ID: 1, Date: poslog.MustParse("2026-08-28"), Category: "Home Delivery",
				Branch: "Main", OrderID: 17, Item: "Momo", Unit: "Plates",
				Qty: poslog.Q(2), UnitPrice: poslog.M(150), TotalPrice: poslog.M(300),
				PaymentStatus: poslog.PaymentLive, TableNo: "T4",
			},
			{
				ID: 2, Date: poslog.MustParse("2026-08-28"), Category: "Home Delivery",
				Branch: "Main", OrderID: 17, Item: "Thukpa", Unit: "Plates",
				Qty: poslog.Q(1), UnitPrice: poslog.M(220), Discount: poslog.M(20),
				TotalPrice: poslog.M(200), PaymentStatus: poslog.PaymentLive, TableNo: "T4",
			},
		},
	}
}

func TestBill(t *testing.T) {
	got := Bill(testReceipt())

	for _, want := range []string{
		"Order: #17",
		"2026-08-28",
		"Momo",
		"Thukpa",
		"Table: T4",
		"500.00", // order total
		"Live",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("bill missing %q:\n%s", want, got)
		}
	}
	// The discount line only appears on discounted lines.
	if strings.Count(got, "Discount:") != 1 {
		t.Errorf("want exactly one discount line:\n%s", got)
	}
}

func TestBillEmpty(t *testing.T) {
	if got := Bill(nil); got != "" {
		t.Errorf("nil receipt should render empty, got %q", got)
	}
	if got := Bill(&poslog.Receipt{OrderID: 3}); got != "" {
		t.Errorf("lineless receipt should render empty, got %q", got)
	}
}
