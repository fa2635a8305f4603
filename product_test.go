package poslog

import (
	"testing"
)

func TestCheckCode(t *testing.T) {
	tests := []struct {
		code    string
		wantErr bool
	}{
		{code: "1CM"},
		{code: "9ZZ"},
		{code: "ACM", wantErr: true}, // must start with a digit
		{code: "11M", wantErr: true}, // second char must be a letter
		{code: "1C", wantErr: true},
		{code: "1CMX", wantErr: true},
		{code: "", wantErr: true},
	}
	for _, tc := range tests {
		err := CheckCode(tc.code)
		if (err != nil) != tc.wantErr {
			t.Errorf("CheckCode(%q) error = %v, wantErr %v", tc.code, err, tc.wantErr)
		}
	}
}

func TestGenerateCode(t *testing.T) {
	if got := GenerateCode("Momo", "Chicken", nil); got != "1CM" {
		t.Errorf("GenerateCode = %q, want 1CM", got)
	}
	// Item category falls back to the name.
	if got := GenerateCode("Momo", "", nil); got != "1MM" {
		t.Errorf("GenerateCode = %q, want 1MM", got)
	}
	// The digit advances past taken codes.
	existing := []Product{{Code: "1CM"}, {Code: "2CM"}}
	if got := GenerateCode("Momo", "Chicken", existing); got != "3CM" {
		t.Errorf("GenerateCode = %q, want 3CM", got)
	}
}

func TestGenerateCodeExhaustedSuffix(t *testing.T) {
	// All nine digits taken for the natural suffix: the last letter walks
	// the alphabet instead.
	var existing []Product
	for d := '1'; d <= '9'; d++ {
		existing = append(existing, Product{Code: string(d) + "CM"})
	}
	got := GenerateCode("Momo", "Chicken", existing)
	if err := CheckCode(got); err != nil {
		t.Fatalf("generated code %q is invalid: %v", got, err)
	}
	for _, p := range existing {
		if p.Code == got {
			t.Fatalf("generated code %q collides", got)
		}
	}
}

func TestGenerateCodeIsAlwaysValid(t *testing.T) {
	for _, name := range []string{"momo", "  pizza", "42nd Street Roll", ""} {
		code := GenerateCode(name, "", nil)
		if err := CheckCode(code); err != nil {
			t.Errorf("GenerateCode(%q) = %q: %v", name, code, err)
		}
	}
}

func TestConvertQty(t *testing.T) {
	tests := []struct {
		qty      Quantity
		from, to string
		want     Quantity
		wantErr  bool
	}{
		{qty: Q(2), from: "KG", to: "KG", want: Q(2)},
		{qty: Q(2), from: "KG", to: "GM", want: Q(2000)},
		{qty: Q(500), from: "GM", to: "KG", want: Q(0.5)},
		{qty: Q(2), from: "KG", to: "Pieces", wantErr: true},
		{qty: Q(2), from: "Plates", to: "Portion", wantErr: true},
	}
	for _, tc := range tests {
		got, err := ConvertQty(tc.qty, tc.from, tc.to)
		if (err != nil) != tc.wantErr {
			t.Errorf("ConvertQty(%s, %s, %s) error = %v, wantErr %v", tc.qty, tc.from, tc.to, err, tc.wantErr)
			continue
		}
		if !tc.wantErr && !got.Equal(tc.want) {
			t.Errorf("ConvertQty(%s, %s, %s) = %s, want %s", tc.qty, tc.from, tc.to, got, tc.want)
		}
	}
}
