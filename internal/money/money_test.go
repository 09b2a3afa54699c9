package money

import (
	"math"
	"testing"
)

func TestMinorUnits(t *testing.T) {
	t.Parallel()

	tests := []struct {
		currency string
		want     int32
	}{
		{"KRW", 0},
		{"jpy", 0},
		{"CAD", 2},
		{"", 2},
		{"KWD", 3},
	}
	for _, tt := range tests {
		if got := MinorUnits(tt.currency); got != tt.want {
			t.Fatalf("MinorUnits(%q) = %d, want %d", tt.currency, got, tt.want)
		}
	}
}

func TestRound(t *testing.T) {
	t.Parallel()

	if got := Round(1.7566287878787878, "CAD"); got != 1.76 {
		t.Fatalf("Round CAD = %v, want 1.76", got)
	}
	if got := Round(1234.5, "KRW"); got != 1235 {
		t.Fatalf("Round KRW = %v, want 1235", got)
	}
	if got := RoundUnitPrice(55.65 / 16000); got != 0.003478 {
		t.Fatalf("RoundUnitPrice = %v, want 0.003478", got)
	}
}

func TestRoundNonFinite(t *testing.T) {
	t.Parallel()

	if got := Round(math.Inf(1), "CAD"); got != math.MaxFloat64 {
		t.Fatalf("Round(+Inf) = %v, want MaxFloat64", got)
	}
	if got := Round(math.Inf(-1), "KRW"); got != -math.MaxFloat64 {
		t.Fatalf("Round(-Inf) = %v, want -MaxFloat64", got)
	}
	if got := RoundUnitPrice(math.NaN()); got != 0 {
		t.Fatalf("RoundUnitPrice(NaN) = %v, want 0", got)
	}
	if got := Format(math.NaN(), "CAD"); got != "0.00 CAD" {
		t.Fatalf("Format(NaN) = %q", got)
	}
}

func TestFormat(t *testing.T) {
	t.Parallel()

	if got := Format(1.7566, "cad"); got != "1.76 CAD" {
		t.Fatalf("Format = %q", got)
	}
	if got := Format(12000, "KRW"); got != "12000 KRW" {
		t.Fatalf("Format = %q", got)
	}
	if got := Format(3.5, ""); got != "3.50" {
		t.Fatalf("Format = %q", got)
	}
}
