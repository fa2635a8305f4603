package poslog

import "testing"

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		in      string
		want    Quantity
		wantErr bool
	}{
		{in: "2", want: Q(2)},
		{in: "2.500", want: Q(2.5)},
		{in: "-1", want: Q(-1)},
		{in: "", want: Quantity{}},
		{in: "two", wantErr: true},
	}
	for _, tc := range tests {
		got, err := ParseQuantity(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseQuantity(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if !tc.wantErr && !got.Equal(tc.want) {
			t.Errorf("ParseQuantity(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestQuantityArithmetic(t *testing.T) {
	if got := Q(10).Sub(Q(7)); !got.Equal(Q(3)) {
		t.Errorf("10 - 7 = %s, want 3", got)
	}
	if got := Q(2.5).Mul(Q(1000)); !got.Equal(Q(2500)) {
		t.Errorf("2.5 * 1000 = %s, want 2500", got)
	}
	if got := Q(1).Div(Q(1000)); !got.Equal(Q(0.001)) {
		t.Errorf("1 / 1000 = %s, want 0.001", got)
	}
	if !Q(3).Sub(Q(5)).IsNegative() {
		t.Error("3 - 5 should be negative")
	}
	// Exact decimals: no float drift on the classic 0.1+0.2 case.
	if got := Q(0.1).Add(Q(0.2)); !got.Equal(Q(0.3)) {
		t.Errorf("0.1 + 0.2 = %s, want 0.3", got)
	}
}

func TestQuantityStringFixed(t *testing.T) {
	if got := Q(2.5).StringFixed(3); got != "2.500" {
		t.Errorf("StringFixed(3) = %q, want 2.500", got)
	}
}

func TestMoneyArithmetic(t *testing.T) {
	if got := M(150).Mul(Q(2)).Sub(M(50)); !got.Equal(M(250)) {
		t.Errorf("150*2 - 50 = %s, want 250", got)
	}
	if got := M(120).String(); got != "120.00" {
		t.Errorf("String() = %q, want 120.00", got)
	}
}
