// Package renderer formats receipts and reports for terminals and printers.
package renderer

import (
	"fmt"
	"strings"

	"github.com/tbm/poslog"
)

const billRule = "----------------------------------------"

// Bill renders the printable text bill for one committed order. All lines
// share the order id; header fields are taken from the first line.
func Bill(r *poslog.Receipt) string {
	if r == nil || len(r.Lines) == 0 {
		return ""
	}
	head := r.Lines[0]

	var b strings.Builder
	b.WriteString("TBM - Bill\n")
	fmt.Fprintf(&b, "Date: %s    Order: #%d\n", head.Date, r.OrderID)
	if head.Category != "" {
		fmt.Fprintf(&b, "Category: %s\n", head.Category)
	}
	if head.Branch != "" {
		fmt.Fprintf(&b, "Branch: %s\n", head.Branch)
	}
	if head.TableNo != "" {
		fmt.Fprintf(&b, "Table: %s\n", head.TableNo)
	}
	b.WriteString(billRule + "\n")

	var total poslog.Money
	for _, line := range r.Lines {
		fmt.Fprintf(&b, "%s (%s)\n", line.Item, line.Unit)
		fmt.Fprintf(&b, "  Qty: %s  Unit Price: %s\n", line.Qty, line.UnitPrice.Display())
		if !line.Discount.IsZero() {
			fmt.Fprintf(&b, "  Discount: %s\n", line.Discount.Display())
		}
		fmt.Fprintf(&b, "  Total: %s\n", line.TotalPrice.Display())
		total = total.Add(line.TotalPrice)
	}
	b.WriteString(billRule + "\n")
	fmt.Fprintf(&b, "Order Total: %s\n", total.Display())

	if head.CustomerName != "" || head.CustomerPhone != "" {
		fmt.Fprintf(&b, "Customer: %s  %s\n", head.CustomerName, head.CustomerPhone)
	}
	fmt.Fprintf(&b, "Payment: %s %s\n", head.PaymentStatus, head.PaymentMode)
	if head.PaymentNote != "" {
		fmt.Fprintf(&b, "Note: %s\n", head.PaymentNote)
	}
	if head.Notes != "" {
		fmt.Fprintf(&b, "Remarks: %s\n", head.Notes)
	}
	return b.String()
}
