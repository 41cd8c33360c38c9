package ingest

import "testing"

func TestCoerceNumberLeniency(t *testing.T) {
	voc := DefaultVocabulary()

	tests := []struct {
		name string
		in   any
		want float64
	}{
		{"currency prefix with separators", "RM 1,234.50", 1234.5},
		{"plain decimal string", "1234.5", 1234.5},
		{"empty string", "", 0},
		{"nil", nil, 0},
		{"em dash placeholder", "—", 0},
		{"lone minus", "-", 0},
		{"negative", "-12.5", -12.5},
		{"dollar sign", "$99.90", 99.9},
		{"numeric cell", 250.0, 250},
		{"integer cell", 7, 7},
		{"garbage text", "n/a", 0},
		{"internal whitespace", " 1 234 ", 1234},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := voc.CoerceNumber(tt.in, "cost"); got != tt.want {
				t.Errorf("CoerceNumber(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestCoerceIntFloors(t *testing.T) {
	voc := DefaultVocabulary()

	if got := voc.CoerceInt("12.9", "orders_sku"); got != 12 {
		t.Errorf("CoerceInt(12.9) = %d, want 12", got)
	}
	if got := voc.CoerceInt("", "orders_sku"); got != 0 {
		t.Errorf("CoerceInt(blank) = %d, want 0", got)
	}
}

func TestDetectCurrency(t *testing.T) {
	voc := DefaultVocabulary()

	tests := []struct {
		in   any
		want string
	}{
		{"RM 1,234.50", "MYR"},
		{"$12", "USD"},
		{"S$12", "SGD"},
		{"€5", "EUR"},
		{"1234.5", "MYR"}, // default when no symbol present
		{nil, "MYR"},
	}

	for _, tt := range tests {
		if got := voc.DetectCurrency(tt.in); got != tt.want {
			t.Errorf("DetectCurrency(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCoerceNumberAlternateVocabulary(t *testing.T) {
	voc := Vocabulary{
		CurrencySymbols: []CurrencySymbol{{Symbol: "KR", Code: "KRW"}},
		DefaultCurrency: "KRW",
	}

	if got := voc.CoerceNumber("KR 9,000", "cost"); got != 9000 {
		t.Errorf("CoerceNumber with alternate vocabulary = %v, want 9000", got)
	}
	if got := voc.DetectCurrency("KR 9,000"); got != "KRW" {
		t.Errorf("DetectCurrency = %q, want KRW", got)
	}
}
