package poslog

import (
	"strings"
)

// SpendFilter narrows a spend report. Zero values match everything.
type SpendFilter struct {
	Category string
	Item     string
}

// SpendReport aggregates purchase costs over a date range.
type SpendReport struct {
	Range      Range            `json:"period"`
	TotalSpend Money            `json:"total_spend"`
	ByCategory map[string]Money `json:"by_category"`
	ByItem     map[string]Money `json:"by_item"`
	Rows       []Purchase       `json:"rows"`
}

// Spend scans every partition in the range and totals purchase costs,
// grouped by category and item.
func (e *Engine) Spend(rng Range, filter SpendFilter) (*SpendReport, error) {
	report := &SpendReport{
		Range:      rng,
		ByCategory: make(map[string]Money),
		ByItem:     make(map[string]Money),
	}
	days, err := e.parts.Days()
	if err != nil {
		return nil, err
	}
	for _, day := range days {
		if !rng.Contains(day) {
			continue
		}
		p, err := e.parts.Resolve(day)
		if err != nil {
			return nil, err
		}
		purchases, err := p.Purchases().List()
		if err != nil {
			return nil, err
		}
		for _, row := range purchases {
			if filter.Category != "" && row.Category != filter.Category {
				continue
			}
			if filter.Item != "" && !strings.EqualFold(strings.TrimSpace(row.Item), strings.TrimSpace(filter.Item)) {
				continue
			}
			report.TotalSpend = report.TotalSpend.Add(row.TotalCost)
			report.ByCategory[row.Category] = report.ByCategory[row.Category].Add(row.TotalCost)
			item := strings.TrimSpace(row.Item)
			report.ByItem[item] = report.ByItem[item].Add(row.TotalCost)
			report.Rows = append(report.Rows, row)
		}
	}
	return report, nil
}

// SalesFilter narrows a sales report. Zero values match everything.
type SalesFilter struct {
	Category      string
	Item          string
	Branch        string
	PaymentStatus PaymentStatus
}

// SalesReport aggregates sale totals over a date range.
type SalesReport struct {
	Range      Range            `json:"period"`
	TotalSales Money            `json:"total_sales"`
	ByCategory map[string]Money `json:"by_category"`
	ByItem     map[string]Money `json:"by_item"`
	ByBranch   map[string]Money `json:"by_branch"`
	Rows       []Sale           `json:"rows"`
}

// Sales scans every partition in the range and totals sale amounts, grouped
// by category, item and branch.
func (e *Engine) Sales(rng Range, filter SalesFilter) (*SalesReport, error) {
	report := &SalesReport{
		Range:      rng,
		ByCategory: make(map[string]Money),
		ByItem:     make(map[string]Money),
		ByBranch:   make(map[string]Money),
	}
	days, err := e.parts.Days()
	if err != nil {
		return nil, err
	}
	for _, day := range days {
		if !rng.Contains(day) {
			continue
		}
		p, err := e.parts.Resolve(day)
		if err != nil {
			return nil, err
		}
		sales, err := p.Sales().List()
		if err != nil {
			return nil, err
		}
		for _, row := range sales {
			if filter.Category != "" && row.Category != filter.Category {
				continue
			}
			if filter.Item != "" && !strings.EqualFold(strings.TrimSpace(row.Item), strings.TrimSpace(filter.Item)) {
				continue
			}
			if filter.Branch != "" && row.Branch != filter.Branch {
				continue
			}
			if filter.PaymentStatus != "" && row.PaymentStatus != filter.PaymentStatus {
				continue
			}
			report.TotalSales = report.TotalSales.Add(row.TotalPrice)
			report.ByCategory[row.Category] = report.ByCategory[row.Category].Add(row.TotalPrice)
			item := strings.TrimSpace(row.Item)
			report.ByItem[item] = report.ByItem[item].Add(row.TotalPrice)
			report.ByBranch[row.Branch] = report.ByBranch[row.Branch].Add(row.TotalPrice)
			report.Rows = append(report.Rows, row)
		}
	}
	return report, nil
}
