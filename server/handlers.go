package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/tbm/poslog"
	"github.com/tbm/poslog/renderer"
)

func (s *Server) respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.WithError(err).Error("could not encode response")
	}
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.respond(w, http.StatusBadRequest, errBody{Error: "invalid json: " + err.Error()})
		return false
	}
	return true
}

type errBody struct {
	Error   string `json:"error"`
	OrderID int64  `json:"order_id,omitempty"`
}

// fail maps engine errors to status codes. A partial commit is the one case
// where the body must carry the consumed order id: the client needs it for
// manual reconciliation.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var (
		stock   *poslog.InsufficientStockError
		partial *poslog.PartialCommitError
		corrupt *poslog.StoreCorruptError
	)
	switch {
	case errors.Is(err, poslog.ErrNotFound):
		s.respond(w, http.StatusNotFound, errBody{Error: err.Error()})
	case errors.As(err, &stock):
		s.respond(w, http.StatusConflict, errBody{Error: stock.Error()})
	case errors.As(err, &partial):
		entry(s.log, r).WithError(err).Error("partial commit surfaced to client")
		s.respond(w, http.StatusInternalServerError, errBody{Error: partial.Error(), OrderID: partial.OrderID})
	case errors.As(err, &corrupt):
		entry(s.log, r).WithError(err).Error("corrupt store")
		s.respond(w, http.StatusInternalServerError, errBody{Error: corrupt.Error()})
	default:
		s.respond(w, http.StatusBadRequest, errBody{Error: err.Error()})
	}
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}

// queryDate reads the date query parameter, defaulting to today.
func queryDate(r *http.Request) (poslog.Date, error) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return poslog.Today(), nil
	}
	return poslog.ParseDate(raw)
}

// queryRange reads either from/to or a named period, defaulting to last30.
func queryRange(r *http.Request) (poslog.Range, error) {
	q := r.URL.Query()
	if from, to := q.Get("from"), q.Get("to"); from != "" || to != "" {
		f, err := poslog.ParseDate(from)
		if err != nil {
			return poslog.Range{}, err
		}
		t := poslog.Today()
		if to != "" {
			if t, err = poslog.ParseDate(to); err != nil {
				return poslog.Range{}, err
			}
		}
		return poslog.NewRange(f, t), nil
	}
	period, err := poslog.ParsePeriod(q.Get("period"))
	if err != nil {
		return poslog.Range{}, err
	}
	return period.Range(poslog.Today()), nil
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.engine.Ready.List()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, products)
}

func (s *Server) addProduct(w http.ResponseWriter, r *http.Request) {
	var p poslog.Product
	if !s.decode(w, r, &p) {
		return
	}
	stored, err := s.engine.AddProduct(p)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusCreated, stored)
}

func (s *Server) updateProduct(w http.ResponseWriter, r *http.Request) {
	var patch poslog.ProductPatch
	if !s.decode(w, r, &patch) {
		return
	}
	stored, err := s.engine.UpdateProduct(pathID(r), patch)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, stored)
}

func (s *Server) adjustProduct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Delta poslog.Quantity `json:"delta"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	adj, err := s.engine.Stock.AdjustReady(pathID(r), req.Delta)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, adj)
}

func (s *Server) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.DeleteProduct(pathID(r)); err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusNoContent, nil)
}

func (s *Server) listRawItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.engine.Raw.List()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, items)
}

func (s *Server) addRawItem(w http.ResponseWriter, r *http.Request) {
	var item poslog.RawItem
	if !s.decode(w, r, &item) {
		return
	}
	stored, err := s.engine.AddRawItem(item)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusCreated, stored)
}

func (s *Server) updateRawItem(w http.ResponseWriter, r *http.Request) {
	var patch poslog.RawItemPatch
	if !s.decode(w, r, &patch) {
		return
	}
	stored, err := s.engine.UpdateRawItem(pathID(r), patch)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, stored)
}

func (s *Server) deleteRawItem(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.DeleteRawItem(pathID(r)); err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusNoContent, nil)
}

func (s *Server) listBranches(w http.ResponseWriter, r *http.Request) {
	branches, err := s.engine.Branches.List()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, branches)
}

func (s *Server) addBranch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		IsActive bool   `json:"is_active"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	branch, err := s.engine.AddBranch(req.Name, req.IsActive)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusCreated, branch)
}

func (s *Server) branchTables(w http.ResponseWriter, r *http.Request) {
	on, err := queryDate(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	status := poslog.PaymentStatus(r.URL.Query().Get("status"))
	if status == "" {
		status = poslog.PaymentLive
	}
	tables, err := s.engine.BranchTables(on, mux.Vars(r)["name"], status)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, tables)
}

func (s *Server) listPurchases(w http.ResponseWriter, r *http.Request) {
	on, err := queryDate(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	purchases, err := s.engine.PurchasesOn(on)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, purchases)
}

func (s *Server) recordPurchase(w http.ResponseWriter, r *http.Request) {
	var req poslog.PurchaseRequest
	if !s.decode(w, r, &req) {
		return
	}
	receipt, err := s.engine.RecordPurchase(req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusCreated, receipt)
}

func (s *Server) listSales(w http.ResponseWriter, r *http.Request) {
	on, err := queryDate(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sales, err := s.engine.SalesOn(on)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, sales)
}

func (s *Server) checkout(w http.ResponseWriter, r *http.Request) {
	var req poslog.CheckoutRequest
	if !s.decode(w, r, &req) {
		return
	}
	receipt, err := s.engine.Checkout(req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusCreated, receipt)
}

func (s *Server) updatePayment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date   poslog.Date           `json:"date"`
		Status *poslog.PaymentStatus `json:"payment_status"`
		Mode   *string               `json:"payment_mode"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	if req.Date.IsZero() {
		req.Date = poslog.Today()
	}
	sale, err := s.engine.UpdatePayment(req.Date, pathID(r), req.Status, req.Mode)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, sale)
}

func (s *Server) nextOrderID(w http.ResponseWriter, r *http.Request) {
	id, err := s.engine.NextOrderIDPreview()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, map[string]int64{"next_order_id": id})
}

func (s *Server) orderBill(w http.ResponseWriter, r *http.Request) {
	on, err := queryDate(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	lines, err := s.engine.Order(on, pathID(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(renderer.Bill(&poslog.Receipt{OrderID: lines[0].OrderID, Lines: lines})))
}

func (s *Server) lowStock(w http.ResponseWriter, r *http.Request) {
	ready, err := s.engine.Stock.LowStockReady()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	raw, err := s.engine.Stock.LowStockRaw()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, map[string]any{"ready": ready, "raw": raw})
}

func (s *Server) spendReport(w http.ResponseWriter, r *http.Request) {
	rng, err := queryRange(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	q := r.URL.Query()
	report, err := s.engine.Spend(rng, poslog.SpendFilter{
		Category: q.Get("category"),
		Item:     q.Get("item"),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, report)
}

func (s *Server) salesReport(w http.ResponseWriter, r *http.Request) {
	rng, err := queryRange(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	q := r.URL.Query()
	report, err := s.engine.Sales(rng, poslog.SalesFilter{
		Category:      q.Get("category"),
		Item:          q.Get("item"),
		Branch:        q.Get("branch"),
		PaymentStatus: poslog.PaymentStatus(q.Get("status")),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, report)
}

// fullReset archives the data root and restarts the order sequence. It only
// runs when the conf file opts in with full_invent=1, so a stray request
// cannot wipe the ledger.
func (s *Server) fullReset(w http.ResponseWriter, r *http.Request) {
	if s.confPath == "" {
		s.respond(w, http.StatusForbidden, errBody{Error: "full reset is disabled"})
		return
	}
	cfg, err := poslog.ReadConfig(s.confPath)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !cfg.FullInvent {
		s.respond(w, http.StatusForbidden, errBody{Error: "full reset requires full_invent=1 in " + s.confPath})
		return
	}
	archived, err := s.engine.FullReset()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := poslog.DisarmFullInvent(s.confPath); err != nil {
		entry(s.log, r).WithError(err).Error("could not disarm full_invent flag")
	}
	entry(s.log, r).WithField("archive", archived).Warn("full inventory reset")
	s.respond(w, http.StatusOK, map[string]string{"archived": archived})
}
