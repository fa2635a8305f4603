package poslog

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
)

// testLogger returns a quiet logger for tests.
func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// newTestEngine opens an engine over a fresh temp root.
func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := Open(t.TempDir(), testLogger())
	if err != nil {
		t.Fatalf("could not open engine: %v", err)
	}
	return e
}

// mustAddProduct seeds one sellable product and returns it.
func mustAddProduct(t *testing.T, e *Engine, name string, price Money, qty, threshold Quantity) Product {
	t.Helper()
	p, err := e.AddProduct(Product{
		Name:      name,
		Category:  "Home Delivery",
		Unit:      "Pieces",
		Price:     price,
		Quantity:  qty,
		Threshold: threshold,
	})
	if err != nil {
		t.Fatalf("could not add product %s: %v", name, err)
	}
	return p
}
