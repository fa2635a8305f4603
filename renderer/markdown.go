package renderer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tbm/poslog"
)

// Products renders the ready product catalog as a markdown table.
func Products(products []poslog.Product) string {
	var b strings.Builder
	b.WriteString("# Ready Products\n\n")
	if len(products) == 0 {
		b.WriteString("No products.\n")
		return b.String()
	}
	b.WriteString("| ID | Code | Name | Category | Unit | Price | Stock | Threshold |\n")
	b.WriteString("|---:|------|------|----------|------|------:|------:|----------:|\n")
	for _, p := range products {
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s | %s | %s |\n",
			p.ID, p.Code, p.Name, p.Category, p.Unit,
			p.Price.Display(), p.Quantity, p.Threshold)
	}
	return b.String()
}

// RawItems renders the raw material inventory as a markdown table.
func RawItems(items []poslog.RawItem) string {
	var b strings.Builder
	b.WriteString("# Raw Inventory\n\n")
	if len(items) == 0 {
		b.WriteString("No raw materials.\n")
		return b.String()
	}
	b.WriteString("| ID | Name | Subcategory | Unit | Unit Cost | Stock | Threshold |\n")
	b.WriteString("|---:|------|-------------|------|----------:|------:|----------:|\n")
	for _, r := range items {
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s | %s |\n",
			r.ID, r.Name, r.Subcategory, r.Unit,
			r.UnitCost.Display(), r.Stock, r.Threshold)
	}
	return b.String()
}

// LowStock renders the low-stock advisory lists.
func LowStock(ready []poslog.Product, raw []poslog.RawItem) string {
	var b strings.Builder
	b.WriteString("# Low Stock\n\n")
	if len(ready) == 0 && len(raw) == 0 {
		b.WriteString("Nothing at or below threshold.\n")
		return b.String()
	}
	if len(ready) > 0 {
		b.WriteString("## Ready Products\n\n")
		b.WriteString("| Name | Stock | Threshold |\n|------|------:|----------:|\n")
		for _, p := range ready {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", p.Name, p.Quantity, p.Threshold)
		}
		b.WriteString("\n")
	}
	if len(raw) > 0 {
		b.WriteString("## Raw Materials\n\n")
		b.WriteString("| Name | Stock | Threshold |\n|------|------:|----------:|\n")
		for _, r := range raw {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", r.Name, r.Stock, r.Threshold)
		}
	}
	return b.String()
}

// Spend renders a spend report as markdown.
func Spend(r *poslog.SpendReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Spend %s to %s\n\n", r.Range.From, r.Range.To)
	fmt.Fprintf(&b, "Total spend: **%s** over %d purchases.\n\n", r.TotalSpend.Display(), len(r.Rows))
	writeBreakdown(&b, "By Category", r.ByCategory)
	writeBreakdown(&b, "By Item", r.ByItem)
	return b.String()
}

// Sales renders a sales report as markdown.
func Sales(r *poslog.SalesReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Sales %s to %s\n\n", r.Range.From, r.Range.To)
	fmt.Fprintf(&b, "Total sales: **%s** over %d lines.\n\n", r.TotalSales.Display(), len(r.Rows))
	writeBreakdown(&b, "By Category", r.ByCategory)
	writeBreakdown(&b, "By Item", r.ByItem)
	writeBreakdown(&b, "By Branch", r.ByBranch)
	return b.String()
}

func writeBreakdown(b *strings.Builder, title string, totals map[string]poslog.Money) {
	if len(totals) == 0 {
		return
	}
	keys := make([]string, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintf(b, "## %s\n\n", title)
	b.WriteString("| | Amount |\n|---|---:|\n")
	for _, k := range keys {
		name := k
		if name == "" {
			name = "(none)"
		}
		fmt.Fprintf(b, "| %s | %s |\n", name, totals[k].Display())
	}
	b.WriteString("\n")
}
