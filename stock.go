package poslog

import (
	"github.com/sirupsen/logrus"
)

// Adjustment is the outcome of a successful stock adjustment.
type Adjustment struct {
	ProductID   int64    `json:"product_id"`
	NewQuantity Quantity `json:"new_quantity"`
	// LowStock is an advisory, not an error: the post-adjustment quantity
	// fell at or below the configured threshold. Used for reorder reminders.
	LowStock bool `json:"low_stock"`
}

// StockLedger applies quantity deltas to ready-product and raw-material
// stock levels. It only mutates quantities through the entity store's
// update path, never by direct file access, so partition and locking logic
// stays centralized.
type StockLedger struct {
	ready *Table[Product]
	raw   *Table[RawItem]
	log   *logrus.Logger
}

// NewStockLedger creates a stock ledger over the two evergreen stores.
func NewStockLedger(ready *Table[Product], raw *Table[RawItem], log *logrus.Logger) *StockLedger {
	return &StockLedger{ready: ready, raw: raw, log: log}
}

// AdjustReady applies a delta to a ready product's quantity: negative for a
// sale consumption, positive for a restock or rollback re-credit. The
// read-check-write sequence runs under the store's lock, so two concurrent
// sales of the same item can never both pass the non-negative check against
// a stale quantity.
func (s *StockLedger) AdjustReady(productID int64, delta Quantity) (Adjustment, error) {
	var adj Adjustment
	_, err := s.ready.Update(productID, func(p *Product) error {
		next := p.Quantity.Add(delta)
		if next.IsNegative() {
			return &InsufficientStockError{
				ProductID: productID,
				Available: p.Quantity,
				Requested: delta.Neg(),
			}
		}
		p.Quantity = next
		adj = Adjustment{
			ProductID:   productID,
			NewQuantity: next,
			LowStock:    isLow(next, p.Threshold),
		}
		return nil
	})
	if err != nil {
		return Adjustment{}, err
	}
	s.warnLow(adj, "ready product")
	return adj, nil
}

// AdjustRaw applies a delta to a raw material's stock level.
func (s *StockLedger) AdjustRaw(itemID int64, delta Quantity) (Adjustment, error) {
	var adj Adjustment
	_, err := s.raw.Update(itemID, func(r *RawItem) error {
		next := r.Stock.Add(delta)
		if next.IsNegative() {
			return &InsufficientStockError{
				ProductID: itemID,
				Available: r.Stock,
				Requested: delta.Neg(),
			}
		}
		r.Stock = next
		adj = Adjustment{
			ProductID:   itemID,
			NewQuantity: next,
			LowStock:    isLow(next, r.Threshold),
		}
		return nil
	})
	if err != nil {
		return Adjustment{}, err
	}
	s.warnLow(adj, "raw material")
	return adj, nil
}

// LowStockReady returns the ready products at or below their threshold.
func (s *StockLedger) LowStockReady() ([]Product, error) {
	products, err := s.ready.List()
	if err != nil {
		return nil, err
	}
	var low []Product
	for _, p := range products {
		if isLow(p.Quantity, p.Threshold) {
			low = append(low, p)
		}
	}
	return low, nil
}

// LowStockRaw returns the raw materials at or below their threshold.
func (s *StockLedger) LowStockRaw() ([]RawItem, error) {
	items, err := s.raw.List()
	if err != nil {
		return nil, err
	}
	var low []RawItem
	for _, r := range items {
		if isLow(r.Stock, r.Threshold) {
			low = append(low, r)
		}
	}
	return low, nil
}

// isLow reports the advisory condition: a positive threshold and a quantity
// at or below it.
func isLow(qty, threshold Quantity) bool {
	return threshold.IsPositive() && !qty.GreaterThan(threshold)
}

func (s *StockLedger) warnLow(adj Adjustment, kind string) {
	if !adj.LowStock || s.log == nil {
		return
	}
	s.log.WithFields(logrus.Fields{
		"kind":      kind,
		"productID": adj.ProductID,
		"quantity":  adj.NewQuantity.String(),
	}).Warn("stock at or below threshold")
}
