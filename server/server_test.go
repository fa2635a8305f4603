package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbm/poslog"
)

type testServer struct {
	*httptest.Server
	root string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	root := t.TempDir()
	engine, err := poslog.Open(root, log)
	require.NoError(t, err)

	srv := New(engine, log, filepath.Join(root, "conf", "settings.conf"))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return &testServer{Server: ts, root: root}
}

// do sends a JSON request and decodes the JSON response into out (when out
// is non-nil).
func (ts *testServer) do(t *testing.T, method, path string, body, out any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, ts.URL+path, &buf)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func (ts *testServer) addProduct(t *testing.T, name string, price, qty int) poslog.Product {
	t.Helper()
	var p poslog.Product
	resp := ts.do(t, http.MethodPost, "/api/products", map[string]any{
		"name":     name,
		"category": "Home Delivery",
		"unit":     "Plates",
		"price":    price,
		"quantity": qty,
	}, &p)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return p
}

func TestProductLifecycle(t *testing.T) {
	ts := newTestServer(t)
	p := ts.addProduct(t, "Momo", 150, 10)
	assert.NotZero(t, p.ID)
	assert.NotEmpty(t, p.Code)

	var products []poslog.Product
	resp := ts.do(t, http.MethodGet, "/api/products", nil, &products)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, products, 1)

	var patched poslog.Product
	resp = ts.do(t, http.MethodPatch, fmt.Sprintf("/api/products/%d", p.ID),
		map[string]any{"price": 180}, &patched)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, patched.Price.Equal(poslog.M(180)))

	var adj poslog.Adjustment
	resp = ts.do(t, http.MethodPost, fmt.Sprintf("/api/products/%d/adjust", p.ID),
		map[string]any{"delta": -4}, &adj)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, adj.NewQuantity.Equal(poslog.Q(6)))
}

func TestDeleteEndpoints(t *testing.T) {
	ts := newTestServer(t)
	p := ts.addProduct(t, "Momo", 150, 10)

	resp := ts.do(t, http.MethodDelete, fmt.Sprintf("/api/products/%d", p.ID), nil, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	var products []poslog.Product
	ts.do(t, http.MethodGet, "/api/products", nil, &products)
	assert.Empty(t, products)

	// A second delete finds nothing.
	resp = ts.do(t, http.MethodDelete, fmt.Sprintf("/api/products/%d", p.ID), nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var item poslog.RawItem
	resp = ts.do(t, http.MethodPost, "/api/raw", map[string]any{
		"name": "Onion", "category": "Home Delivery", "subcategory": "Veggies",
		"unit": "KG", "stock": 5,
	}, &item)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = ts.do(t, http.MethodDelete, fmt.Sprintf("/api/raw/%d", item.ID), nil, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	var items []poslog.RawItem
	ts.do(t, http.MethodGet, "/api/raw", nil, &items)
	assert.Empty(t, items)
}

func TestProductValidationStatus(t *testing.T) {
	ts := newTestServer(t)
	resp := ts.do(t, http.MethodPost, "/api/products", map[string]any{
		"name": "Momo", "category": "Nope", "unit": "Plates",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = ts.do(t, http.MethodPatch, "/api/products/999", map[string]any{"price": 1}, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCheckoutEndpoint(t *testing.T) {
	ts := newTestServer(t)
	p := ts.addProduct(t, "Momo", 150, 10)

	var receipt poslog.Receipt
	resp := ts.do(t, http.MethodPost, "/api/sales/checkout", map[string]any{
		"category": "Home Delivery",
		"items":    []map[string]any{{"item_id": p.ID, "qty": 2}},
	}, &receipt)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, int64(1), receipt.OrderID)
	require.Len(t, receipt.Lines, 1)
	assert.True(t, receipt.Lines[0].TotalPrice.Equal(poslog.M(300)))

	// The bill is reprintable as plain text.
	billResp, err := http.Get(ts.URL + fmt.Sprintf("/api/orders/%d/bill", receipt.OrderID))
	require.NoError(t, err)
	defer billResp.Body.Close()
	assert.Equal(t, http.StatusOK, billResp.StatusCode)
	bill, err := io.ReadAll(billResp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(bill), "Order: #1")
}

func TestCheckoutInsufficientStockConflict(t *testing.T) {
	ts := newTestServer(t)
	p := ts.addProduct(t, "Momo", 150, 3)

	var body errBody
	resp := ts.do(t, http.MethodPost, "/api/sales/checkout", map[string]any{
		"category": "Home Delivery",
		"items":    []map[string]any{{"item_id": p.ID, "qty": 5}},
	}, &body)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, body.Error, "insufficient stock")

	// Nothing persisted.
	var sales []poslog.Sale
	ts.do(t, http.MethodGet, "/api/sales", nil, &sales)
	assert.Empty(t, sales)
}

func TestNextOrderIDPreview(t *testing.T) {
	ts := newTestServer(t)
	var out map[string]int64
	for i := 0; i < 2; i++ {
		resp := ts.do(t, http.MethodGet, "/api/orders/next", nil, &out)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, int64(1), out["next_order_id"], "preview must not consume")
	}
}

func TestPaymentUpdateEndpoint(t *testing.T) {
	ts := newTestServer(t)
	p := ts.addProduct(t, "Momo", 150, 10)
	var receipt poslog.Receipt
	ts.do(t, http.MethodPost, "/api/sales/checkout", map[string]any{
		"category": "Home Delivery",
		"items":    []map[string]any{{"item_id": p.ID, "qty": 1}},
	}, &receipt)

	var sale poslog.Sale
	resp := ts.do(t, http.MethodPatch, fmt.Sprintf("/api/sales/%d/payment", receipt.Lines[0].ID),
		map[string]any{"payment_status": "Paid", "payment_mode": "Cash"}, &sale)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, poslog.PaymentPaid, sale.PaymentStatus)
	assert.Equal(t, "Cash", sale.PaymentMode)
}

func TestLowStockAlerts(t *testing.T) {
	ts := newTestServer(t)
	var p poslog.Product
	resp := ts.do(t, http.MethodPost, "/api/products", map[string]any{
		"name": "Momo", "category": "Home Delivery", "unit": "Plates",
		"price": 150, "quantity": 1, "threshold": 2,
	}, &p)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out struct {
		Ready []poslog.Product `json:"ready"`
		Raw   []poslog.RawItem `json:"raw"`
	}
	resp = ts.do(t, http.MethodGet, "/api/alerts/low", nil, &out)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, out.Ready, 1)
	assert.Empty(t, out.Raw)
}

func TestReportsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	p := ts.addProduct(t, "Momo", 150, 10)
	ts.do(t, http.MethodPost, "/api/sales/checkout", map[string]any{
		"category": "Home Delivery",
		"items":    []map[string]any{{"item_id": p.ID, "qty": 2}},
	}, nil)

	var report poslog.SalesReport
	resp := ts.do(t, http.MethodGet, "/api/reports/sales?period=today", nil, &report)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, report.TotalSales.Equal(poslog.M(300)))

	resp = ts.do(t, http.MethodGet, "/api/reports/sales?period=fortnight", nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestFullResetGuarded(t *testing.T) {
	ts := newTestServer(t)

	// Without the conf opt-in the endpoint refuses.
	resp := ts.do(t, http.MethodPost, "/api/admin/full-reset", nil, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	conf := filepath.Join(ts.root, "conf", "settings.conf")
	require.NoError(t, os.MkdirAll(filepath.Dir(conf), 0755))
	require.NoError(t, os.WriteFile(conf, []byte("full_invent=1\n"), 0644))
	var out map[string]string
	resp = ts.do(t, http.MethodPost, "/api/admin/full-reset", nil, &out)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, out["archived"])

	// The opt-in is consumed: a second reset needs a fresh full_invent=1.
	resp = ts.do(t, http.MethodPost, "/api/admin/full-reset", nil, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRequestIDHeader(t *testing.T) {
	ts := newTestServer(t)
	resp := ts.do(t, http.MethodGet, "/api/products", nil, nil)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/products", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "abc-123")
	echo, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer echo.Body.Close()
	assert.Equal(t, "abc-123", echo.Header.Get("X-Request-ID"))
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":8032", cfg.Addr)
	assert.Equal(t, ".", cfg.Root)
	assert.Equal(t, "info", cfg.LogLevel)
}
