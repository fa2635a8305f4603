package poslog

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Engine ties the durable counter, the daily partitions, the evergreen
// stores and the stock ledger together. It is the single entry point the
// CLI and the HTTP collaborator call into; all of its state is injected at
// construction, there is no process-wide singleton.
type Engine struct {
	Ready    *Table[Product]
	Raw      *Table[RawItem]
	Branches *Table[Branch]
	Stock    *StockLedger

	counter *OrderCounter
	parts   *Partitions
	log     *logrus.Logger
}

// Open initializes the engine over the given application root. The layout is
//
//	<root>/conf/order_seq.txt   the order counter
//	<root>/data/<YYYY-MM-DD>/   one partition per day (sales, purchases)
//	<root>/data/*.csv           evergreen stores (products, raw, branches)
//
// Today's partition is resolved eagerly so the folder exists from startup.
func Open(root string, log *logrus.Logger) (*Engine, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	dataDir := filepath.Join(root, "data")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("could not create data directory: %w", err)
	}

	parts := NewPartitions(dataDir)
	e := &Engine{
		Ready:    NewTable(filepath.Join(dataDir, "ready_products.csv"), productCodec),
		Raw:      NewTable(filepath.Join(dataDir, "raw_inventory.csv"), rawItemCodec),
		Branches: NewTable(filepath.Join(dataDir, "branches.csv"), branchCodec),
		parts:    parts,
		log:      log,
	}
	for _, init := range []func() error{e.Ready.Init, e.Raw.Init, e.Branches.Init} {
		if err := init(); err != nil {
			return nil, err
		}
	}
	if _, err := parts.Resolve(Today()); err != nil {
		return nil, err
	}

	e.Stock = NewStockLedger(e.Ready, e.Raw, log)
	e.counter = NewOrderCounter(filepath.Join(root, "conf", "order_seq.txt"), e.maxOrderIDToday)
	return e, nil
}

// Partitions exposes the daily partition resolver, e.g. for reports.
func (e *Engine) Partitions() *Partitions { return e.parts }

// maxOrderIDToday seeds the counter from existing data: the max order id in
// today's sales, so adopting an existing data directory never reissues an id.
func (e *Engine) maxOrderIDToday() (int64, error) {
	p, err := e.parts.Resolve(Today())
	if err != nil {
		return 0, err
	}
	sales, err := p.Sales().List()
	if err != nil {
		return 0, err
	}
	var max int64
	for _, s := range sales {
		if s.OrderID > max {
			max = s.OrderID
		}
	}
	return max, nil
}

// NextOrderIDPreview returns the id the next checkout will receive without
// consuming it.
func (e *Engine) NextOrderIDPreview() (int64, error) { return e.counter.Peek() }

// AddProduct validates and stores a new ready product. An empty code is
// generated; a supplied code is validated and checked for uniqueness.
func (e *Engine) AddProduct(p Product) (Product, error) {
	if err := CheckCategory(p.Category); err != nil {
		return Product{}, err
	}
	if err := CheckUnit(p.Unit); err != nil {
		return Product{}, err
	}
	if p.Quantity.IsNegative() {
		return Product{}, fmt.Errorf("initial quantity cannot be negative")
	}
	p.Name = strings.TrimSpace(p.Name)
	p.Code = strings.ToUpper(strings.TrimSpace(p.Code))

	existing, err := e.Ready.List()
	if err != nil {
		return Product{}, err
	}
	if p.Code != "" {
		if err := CheckCode(p.Code); err != nil {
			return Product{}, err
		}
		for _, r := range existing {
			if strings.EqualFold(r.Code, p.Code) {
				return Product{}, fmt.Errorf("code %q already exists", p.Code)
			}
		}
	} else {
		p.Code = GenerateCode(p.Name, p.ItemCategory, existing)
	}
	return e.Ready.Append(p)
}

// ProductPatch carries the optional fields of a ready product update.
type ProductPatch struct {
	Name         *string   `json:"name"`
	Category     *string   `json:"category"`
	ItemCategory *string   `json:"item_category"`
	Code         *string   `json:"code"`
	Unit         *string   `json:"unit"`
	UnitCost     *Money    `json:"unit_cost"`
	Price        *Money    `json:"price"`
	Quantity     *Quantity `json:"quantity"`
	Threshold    *Quantity `json:"threshold"`
}

// UpdateProduct applies a patch to a ready product.
func (e *Engine) UpdateProduct(id int64, patch ProductPatch) (Product, error) {
	if patch.Category != nil {
		if err := CheckCategory(*patch.Category); err != nil {
			return Product{}, err
		}
	}
	if patch.Unit != nil {
		if err := CheckUnit(*patch.Unit); err != nil {
			return Product{}, err
		}
	}
	if patch.Code != nil && *patch.Code != "" {
		code := strings.ToUpper(strings.TrimSpace(*patch.Code))
		if err := CheckCode(code); err != nil {
			return Product{}, err
		}
		existing, err := e.Ready.List()
		if err != nil {
			return Product{}, err
		}
		for _, r := range existing {
			if r.ID != id && strings.EqualFold(r.Code, code) {
				return Product{}, fmt.Errorf("code %q already exists", code)
			}
		}
		patch.Code = &code
	}
	return e.Ready.Update(id, func(p *Product) error {
		setIf(&p.Name, patch.Name)
		setIf(&p.Category, patch.Category)
		setIf(&p.ItemCategory, patch.ItemCategory)
		setIf(&p.Code, patch.Code)
		setIf(&p.Unit, patch.Unit)
		setIf(&p.UnitCost, patch.UnitCost)
		setIf(&p.Price, patch.Price)
		setIf(&p.Quantity, patch.Quantity)
		setIf(&p.Threshold, patch.Threshold)
		if p.Quantity.IsNegative() {
			return fmt.Errorf("quantity cannot be negative")
		}
		return nil
	})
}

// RawItemPatch carries the optional fields of a raw material update.
type RawItemPatch struct {
	Name        *string   `json:"name"`
	Category    *string   `json:"category"`
	Subcategory *string   `json:"subcategory"`
	Unit        *string   `json:"unit"`
	UnitCost    *Money    `json:"unit_cost"`
	Stock       *Quantity `json:"stock"`
	Threshold   *Quantity `json:"threshold"`
}

// AddRawItem validates and stores a new raw material.
func (e *Engine) AddRawItem(r RawItem) (RawItem, error) {
	if err := CheckCategory(r.Category); err != nil {
		return RawItem{}, err
	}
	if err := CheckSubcategory(r.Subcategory); err != nil {
		return RawItem{}, err
	}
	if err := CheckUnit(r.Unit); err != nil {
		return RawItem{}, err
	}
	if r.Stock.IsNegative() {
		return RawItem{}, fmt.Errorf("initial stock cannot be negative")
	}
	r.Name = strings.TrimSpace(r.Name)
	return e.Raw.Append(r)
}

// UpdateRawItem applies a patch to a raw material.
func (e *Engine) UpdateRawItem(id int64, patch RawItemPatch) (RawItem, error) {
	if patch.Category != nil {
		if err := CheckCategory(*patch.Category); err != nil {
			return RawItem{}, err
		}
	}
	if patch.Subcategory != nil {
		if err := CheckSubcategory(*patch.Subcategory); err != nil {
			return RawItem{}, err
		}
	}
	if patch.Unit != nil {
		if err := CheckUnit(*patch.Unit); err != nil {
			return RawItem{}, err
		}
	}
	return e.Raw.Update(id, func(r *RawItem) error {
		setIf(&r.Name, patch.Name)
		setIf(&r.Category, patch.Category)
		setIf(&r.Subcategory, patch.Subcategory)
		setIf(&r.Unit, patch.Unit)
		setIf(&r.UnitCost, patch.UnitCost)
		setIf(&r.Stock, patch.Stock)
		setIf(&r.Threshold, patch.Threshold)
		if r.Stock.IsNegative() {
			return fmt.Errorf("stock cannot be negative")
		}
		return nil
	})
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// DeleteProduct removes a ready product from the catalog. Sale lines
// reference products by name, so history is unaffected.
func (e *Engine) DeleteProduct(id int64) error { return e.Ready.Delete(id) }

// DeleteRawItem removes a raw material from the inventory.
func (e *Engine) DeleteRawItem(id int64) error { return e.Raw.Delete(id) }

// AddBranch stores a branch, deduplicating by case-insensitive name. Adding
// an existing name returns the existing branch.
func (e *Engine) AddBranch(name string, active bool) (Branch, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Branch{}, fmt.Errorf("branch name is required")
	}
	branches, err := e.Branches.List()
	if err != nil {
		return Branch{}, err
	}
	for _, b := range branches {
		if strings.EqualFold(b.Name, name) {
			return b, nil
		}
	}
	return e.Branches.Append(Branch{Name: name, IsActive: active})
}

// TableSummary is the number of open sale lines on one table.
type TableSummary struct {
	TableNo    string `json:"table_no"`
	OpenOrders int    `json:"open_orders"`
}

// BranchTables summarizes open orders per table for a branch on a day.
func (e *Engine) BranchTables(on Date, branch string, status PaymentStatus) ([]TableSummary, error) {
	p, err := e.parts.Resolve(on)
	if err != nil {
		return nil, err
	}
	sales, err := p.Sales().List()
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, s := range sales {
		if s.Branch == branch && s.PaymentStatus == status {
			table := s.TableNo
			if table == "" {
				table = "—"
			}
			counts[table]++
		}
	}
	summaries := make([]TableSummary, 0, len(counts))
	for table, n := range counts {
		summaries = append(summaries, TableSummary{TableNo: table, OpenOrders: n})
	}
	slices.SortFunc(summaries, func(a, b TableSummary) int {
		return strings.Compare(a.TableNo, b.TableNo)
	})
	return summaries, nil
}

// PurchaseReceipt is returned by RecordPurchase.
type PurchaseReceipt struct {
	Purchase Purchase `json:"purchase"`
	NewStock Quantity `json:"new_stock"`
	Unit     string   `json:"unit"` // the item's unit, which may differ from the purchase unit
	LowStock bool     `json:"low_stock"`
}

// RecordPurchase restocks a raw material and appends the purchase row to the
// day's partition. An unknown item is created at zero stock first, matched
// by name, category and subcategory. The purchased quantity is converted to
// the item's unit; a non-convertible pair rejects the purchase.
func (e *Engine) RecordPurchase(req PurchaseRequest) (*PurchaseReceipt, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	items, err := e.Raw.List()
	if err != nil {
		return nil, err
	}
	var target *RawItem
	for i := range items {
		if strings.EqualFold(strings.TrimSpace(items[i].Name), strings.TrimSpace(req.Item)) &&
			items[i].Category == req.Category && items[i].Subcategory == req.Subcategory {
			target = &items[i]
			break
		}
	}
	if target == nil {
		created, err := e.Raw.Append(RawItem{
			Name:        strings.TrimSpace(req.Item),
			Category:    req.Category,
			Subcategory: req.Subcategory,
			Unit:        req.Unit,
			UnitCost:    req.UnitCost,
		})
		if err != nil {
			return nil, err
		}
		target = &created
	}

	addQty, err := ConvertQty(req.Qty, req.Unit, target.Unit)
	if err != nil {
		return nil, err
	}
	adj, err := e.Stock.AdjustRaw(target.ID, addQty)
	if err != nil {
		return nil, err
	}
	// The latest purchase price becomes the item's unit cost.
	if _, err := e.Raw.Update(target.ID, func(r *RawItem) error {
		r.UnitCost = req.UnitCost
		return nil
	}); err != nil {
		return nil, err
	}

	p, err := e.parts.Resolve(req.Date)
	if err != nil {
		return nil, err
	}
	row, err := p.Purchases().Append(Purchase{
		Date:        req.Date,
		Category:    req.Category,
		Subcategory: req.Subcategory,
		Item:        strings.TrimSpace(req.Item),
		Unit:        req.Unit,
		Qty:         req.Qty,
		UnitCost:    req.UnitCost,
		TotalCost:   req.UnitCost.Mul(req.Qty),
		Notes:       req.Notes,
	})
	if err != nil {
		return nil, err
	}
	return &PurchaseReceipt{
		Purchase: row,
		NewStock: adj.NewQuantity,
		Unit:     target.Unit,
		LowStock: adj.LowStock,
	}, nil
}

// SalesOn lists the sale lines persisted on a day.
func (e *Engine) SalesOn(on Date) ([]Sale, error) {
	p, err := e.parts.Resolve(on)
	if err != nil {
		return nil, err
	}
	return p.Sales().List()
}

// PurchasesOn lists the purchases persisted on a day.
func (e *Engine) PurchasesOn(on Date) ([]Purchase, error) {
	p, err := e.parts.Resolve(on)
	if err != nil {
		return nil, err
	}
	return p.Purchases().List()
}

// Order returns all lines of one order on a day, or ErrNotFound.
func (e *Engine) Order(on Date, orderID int64) ([]Sale, error) {
	sales, err := e.SalesOn(on)
	if err != nil {
		return nil, err
	}
	var lines []Sale
	for _, s := range sales {
		if s.OrderID == orderID {
			lines = append(lines, s)
		}
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("order %d on %s: %w", orderID, on, ErrNotFound)
	}
	return lines, nil
}

// UpdatePayment patches the settlement fields of one sale line. This is the
// only mutation allowed on the otherwise append-only sales store. The mode
// is blanked unless the resulting status is Paid.
func (e *Engine) UpdatePayment(on Date, saleID int64, status *PaymentStatus, mode *string) (Sale, error) {
	if status != nil {
		if err := CheckPaymentStatus(*status); err != nil {
			return Sale{}, err
		}
	}
	if mode != nil {
		if err := CheckPaymentMode(*mode); err != nil {
			return Sale{}, err
		}
	}
	p, err := e.parts.Resolve(on)
	if err != nil {
		return Sale{}, err
	}
	return p.Sales().Update(saleID, func(s *Sale) error {
		if status != nil {
			s.PaymentStatus = *status
		}
		if mode != nil {
			s.PaymentMode = *mode
		}
		if s.PaymentStatus != PaymentPaid {
			s.PaymentMode = ""
		}
		return nil
	})
}

// FullReset archives the whole data root and restarts the order sequence at
// 0. The administrative escape hatch behind the full_invent config flag.
func (e *Engine) FullReset() (archived string, err error) {
	dest := e.parts.ArchiveName(time.Now())
	err = e.counter.Reset(func() error { return e.parts.Archive(dest) })
	if err != nil {
		return "", err
	}
	// Seed the fresh root the same way Open does, so the engine is usable
	// immediately after the reset.
	for _, init := range []func() error{e.Ready.Init, e.Raw.Init, e.Branches.Init} {
		if err := init(); err != nil {
			return "", err
		}
	}
	if _, err := e.parts.Resolve(Today()); err != nil {
		return "", err
	}
	e.log.WithField("archive", dest).Info("full inventory reset, data archived")
	return dest, nil
}

// Config is the engine's file-based configuration.
type Config struct {
	// FullInvent enables the one-time archive-and-restart flow.
	FullInvent bool
}

// ReadConfig parses a conf file of k=v lines; # starts a comment. A missing
// file yields the zero config.
func ReadConfig(path string) (Config, error) {
	var cfg Config
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("could not open config %q: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		if strings.TrimSpace(k) == "full_invent" && strings.TrimSpace(v) == "1" {
			cfg.FullInvent = true
		}
	}
	return cfg, scanner.Err()
}

// DisarmFullInvent rewrites the conf file with full_invent=0, so the
// archive-and-restart flow runs at most once per opt-in. Other lines are
// kept as they are.
func DisarmFullInvent(path string) error {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("could not open config %q: %w", path, err)
	}
	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		k, _, ok := strings.Cut(line, "=")
		if ok && strings.TrimSpace(k) == "full_invent" {
			line = "full_invent=0"
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		f.Close()
		return err
	}
	f.Close()
	return os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644)
}
