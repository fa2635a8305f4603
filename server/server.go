package server

import (
	"net/http"
	"path/filepath"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/tbm/poslog"
)

// Server is the HTTP front over one ledger engine.
type Server struct {
	engine   *poslog.Engine
	log      *logrus.Logger
	confPath string
	router   *mux.Router
}

// New builds the server and its routes. confPath points at the k=v conf file
// guarding the full-reset endpoint; empty disables the endpoint entirely.
func New(engine *poslog.Engine, log *logrus.Logger, confPath string) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &Server{engine: engine, log: log, confPath: confPath}
	s.routes()
	return s
}

// Open loads the engine from cfg and builds a server over it.
func Open(cfg Config, log *logrus.Logger) (*Server, error) {
	engine, err := poslog.Open(cfg.Root, log)
	if err != nil {
		return nil, errors.Wrap(err, "opening engine")
	}
	return New(engine, log, filepath.Join(cfg.Root, "conf", "settings.conf")), nil
}

func (s *Server) routes() {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/products", s.listProducts).Methods(http.MethodGet)
	api.HandleFunc("/products", s.addProduct).Methods(http.MethodPost)
	api.HandleFunc("/products/{id:[0-9]+}", s.updateProduct).Methods(http.MethodPatch)
	api.HandleFunc("/products/{id:[0-9]+}", s.deleteProduct).Methods(http.MethodDelete)
	api.HandleFunc("/products/{id:[0-9]+}/adjust", s.adjustProduct).Methods(http.MethodPost)

	api.HandleFunc("/raw", s.listRawItems).Methods(http.MethodGet)
	api.HandleFunc("/raw", s.addRawItem).Methods(http.MethodPost)
	api.HandleFunc("/raw/{id:[0-9]+}", s.updateRawItem).Methods(http.MethodPatch)
	api.HandleFunc("/raw/{id:[0-9]+}", s.deleteRawItem).Methods(http.MethodDelete)

	api.HandleFunc("/branches", s.listBranches).Methods(http.MethodGet)
	api.HandleFunc("/branches", s.addBranch).Methods(http.MethodPost)
	api.HandleFunc("/branches/{name}/tables", s.branchTables).Methods(http.MethodGet)

	api.HandleFunc("/purchases", s.listPurchases).Methods(http.MethodGet)
	api.HandleFunc("/purchases", s.recordPurchase).Methods(http.MethodPost)

	api.HandleFunc("/sales", s.listSales).Methods(http.MethodGet)
	api.HandleFunc("/sales/checkout", s.checkout).Methods(http.MethodPost)
	api.HandleFunc("/sales/{id:[0-9]+}/payment", s.updatePayment).Methods(http.MethodPatch)
	api.HandleFunc("/orders/next", s.nextOrderID).Methods(http.MethodGet)
	api.HandleFunc("/orders/{id:[0-9]+}/bill", s.orderBill).Methods(http.MethodGet)

	api.HandleFunc("/alerts/low", s.lowStock).Methods(http.MethodGet)

	api.HandleFunc("/reports/spend", s.spendReport).Methods(http.MethodGet)
	api.HandleFunc("/reports/sales", s.salesReport).Methods(http.MethodGet)

	api.HandleFunc("/admin/full-reset", s.fullReset).Methods(http.MethodPost)

	s.router = r
}

// Handler returns the router wrapped with the request-id and logging
// middleware.
func (s *Server) Handler() http.Handler {
	return withRequestID(withLogging(s.log, s.router))
}

// ListenAndServe blocks serving on addr.
func (s *Server) ListenAndServe(addr string) error {
	s.log.WithField("addr", addr).Info("ledger server listening")
	return errors.Wrap(http.ListenAndServe(addr, s.Handler()), "serving http")
}
