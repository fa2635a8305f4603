package poslog

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// CheckoutState tracks one checkout through the commit protocol.
type CheckoutState int

const (
	Validating CheckoutState = iota
	AdjustingStock
	AllocatingID
	Persisting
	// Terminal states.
	Committed      // success
	RolledBack     // clean failure, no side effects survive
	PartialFailure // stock moved, order id consumed, persistence incomplete
)

func (s CheckoutState) String() string {
	switch s {
	case Validating:
		return "validating"
	case AdjustingStock:
		return "adjusting-stock"
	case AllocatingID:
		return "allocating-id"
	case Persisting:
		return "persisting"
	case Committed:
		return "committed"
	case RolledBack:
		return "rolled-back"
	case PartialFailure:
		return "partial-failure"
	default:
		return "unknown"
	}
}

// CheckoutItem is one line of a checkout request.
type CheckoutItem struct {
	ItemID    int64    `json:"item_id"`
	Qty       Quantity `json:"qty"`
	UnitPrice *Money   `json:"unit_price"` // nil means the product's list price
	Discount  Money    `json:"discount"`
}

// CheckoutRequest is a whole checkout submitted by the POS collaborator.
type CheckoutRequest struct {
	Date          Date           `json:"date"` // zero means today
	Category      string         `json:"category"`
	Branch        string         `json:"branch"`
	CustomerName  string         `json:"customer_name"`
	CustomerPhone string         `json:"customer_phone"`
	TableNo       string         `json:"table_no"`
	PaymentStatus PaymentStatus  `json:"payment_status"`
	PaymentMode   string         `json:"payment_mode"`
	PaymentNote   string         `json:"payment_note"`
	Notes         string         `json:"notes"`
	Items         []CheckoutItem `json:"items"`
}

// Receipt is the outcome of a committed checkout: one order id shared by
// all persisted line rows. The bill-rendering collaborator formats it.
type Receipt struct {
	OrderID int64  `json:"order_id"`
	Lines   []Sale `json:"lines"`
}

// appliedAdjust remembers a successful stock decrement so it can be
// re-credited if a later line fails.
type appliedAdjust struct {
	productID int64
	qty       Quantity
}

// Checkout runs the multi-line sale protocol: validate every line, decrement
// stock for all lines or none, allocate exactly one order id, then persist
// all line rows to the day's partition.
//
// A stock failure on any line re-credits every decrement already applied in
// this batch and fails the whole sale with the line's
// InsufficientStockError: nothing is persisted and no order id is consumed.
// A persistence failure after stock moved and an id was consumed surfaces a
// PartialCommitError naming the order id and lines; the engine never
// fabricates a second attempt with the same id.
func (e *Engine) Checkout(req CheckoutRequest) (*Receipt, error) {
	state := Validating

	if len(req.Items) == 0 {
		return nil, fmt.Errorf("checkout needs at least one line item")
	}
	if err := CheckCategory(req.Category); err != nil {
		return nil, err
	}
	if req.PaymentStatus == "" {
		req.PaymentStatus = PaymentLive
	}
	if err := CheckPaymentStatus(req.PaymentStatus); err != nil {
		return nil, err
	}
	if err := CheckPaymentMode(req.PaymentMode); err != nil {
		return nil, err
	}
	if req.Date.IsZero() {
		req.Date = Today()
	}

	// Resolve every referenced product before touching any stock.
	products := make([]Product, len(req.Items))
	for i, item := range req.Items {
		if !item.Qty.IsPositive() {
			return nil, fmt.Errorf("line %d: qty must be positive, got %s", i+1, item.Qty)
		}
		p, err := e.Ready.Get(item.ItemID)
		if err != nil {
			return nil, err
		}
		products[i] = p
	}
	// Resolving the partition up front keeps folder-creation failures in the
	// no-side-effect window.
	part, err := e.parts.Resolve(req.Date)
	if err != nil {
		return nil, err
	}

	state = AdjustingStock
	applied := make([]appliedAdjust, 0, len(req.Items))
	rollback := func() {
		for i := len(applied) - 1; i >= 0; i-- {
			if _, err := e.Stock.AdjustReady(applied[i].productID, applied[i].qty); err != nil {
				// A re-credit only adds stock and cannot fail the non-negative
				// check; reaching here means an I/O failure worth an operator's
				// attention.
				e.log.WithFields(logrus.Fields{
					"productID": applied[i].productID,
					"qty":       applied[i].qty.String(),
				}).WithError(err).Error("could not re-credit stock during rollback")
			}
		}
	}
	for i, item := range req.Items {
		if _, err := e.Stock.AdjustReady(item.ItemID, item.Qty.Neg()); err != nil {
			rollback()
			state = RolledBack
			e.log.WithFields(logrus.Fields{
				"state": state.String(),
				"line":  i + 1,
			}).WithError(err).Info("checkout rejected")
			return nil, err
		}
		applied = append(applied, appliedAdjust{productID: item.ItemID, qty: item.Qty})
	}

	state = AllocatingID
	orderID, err := e.counter.Next()
	if err != nil {
		// No id was consumed, so the stock move can still be undone cleanly.
		rollback()
		state = RolledBack
		return nil, fmt.Errorf("could not allocate order id: %w", err)
	}

	state = Persisting
	lines := make([]Sale, 0, len(req.Items))
	for i, item := range req.Items {
		p := products[i]
		price := p.Price
		if item.UnitPrice != nil {
			price = *item.UnitPrice
		}
		discount := item.Discount
		if discount.IsNegative() {
			discount = Money{}
		}
		total := price.Mul(item.Qty).Sub(discount)
		if total.IsNegative() {
			total = Money{}
		}
		lines = append(lines, Sale{
			Date:          req.Date,
			Category:      req.Category,
			Branch:        req.Branch,
			OrderID:       orderID,
			Item:          p.Name,
			Unit:          p.Unit,
			Qty:           item.Qty,
			UnitPrice:     price,
			Discount:      discount,
			TotalPrice:    total,
			CustomerName:  req.CustomerName,
			CustomerPhone: req.CustomerPhone,
			TableNo:       req.TableNo,
			PaymentStatus: req.PaymentStatus,
			PaymentMode:   req.PaymentMode,
			PaymentNote:   req.PaymentNote,
			Notes:         req.Notes,
		})
	}

	stored, err := part.Sales().AppendAll(lines)
	if err != nil {
		// Stock has moved and the order id is consumed: undoing a partial
		// append safely is itself a hazard, so the engine surfaces the state
		// for manual reconciliation instead of guessing.
		state = PartialFailure
		pce := &PartialCommitError{OrderID: orderID, Lines: lines, Err: err}
		e.log.WithFields(logrus.Fields{
			"state":   state.String(),
			"orderID": orderID,
			"lines":   len(lines),
			"date":    req.Date.String(),
		}).WithError(err).Error("partial commit: stock decremented but sale rows not persisted")
		return nil, pce
	}

	state = Committed
	e.log.WithFields(logrus.Fields{
		"state":   state.String(),
		"orderID": orderID,
		"lines":   len(stored),
	}).Info("checkout committed")
	return &Receipt{OrderID: orderID, Lines: stored}, nil
}

// IsInsufficientStock reports whether err is a stock rejection, and returns
// the typed error for its details.
func IsInsufficientStock(err error) (*InsufficientStockError, bool) {
	var ise *InsufficientStockError
	if errors.As(err, &ise) {
		return ise, true
	}
	return nil, false
}
