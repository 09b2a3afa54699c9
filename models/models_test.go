package models

import "testing"

func TestEffectiveYieldRate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		value float64
		want  float64
	}{
		{"unset", 0, DefaultYieldRate},
		{"negative", -5, DefaultYieldRate},
		{"explicit", 99, 99},
	}

	for _, tt := range cases {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := MasterIngredient{YieldRate: tt.value}.EffectiveYieldRate()
			if got != tt.want {
				t.Fatalf("EffectiveYieldRate(%v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestDisplayNameFallsBackToLocal(t *testing.T) {
	t.Parallel()

	if got := (MasterIngredient{NameLocal: "카놀라유"}).DisplayName(); got != "카놀라유" {
		t.Fatalf("DisplayName() = %q", got)
	}
	if got := (MasterIngredient{NameEN: "Canola oil", NameLocal: "카놀라유"}).DisplayName(); got != "Canola oil" {
		t.Fatalf("DisplayName() = %q", got)
	}
}

func TestDeriveActualUsage(t *testing.T) {
	t.Parallel()

	usage := InventoryUsage{OpeningStock: 1000, StockIn: 2000, Wastage: 100, ClosingStock: 800}
	if got := usage.DeriveActualUsage(); got != 2100 {
		t.Fatalf("DeriveActualUsage() = %v, want 2100", got)
	}
	if err := usage.BeforeSave(nil); err != nil {
		t.Fatalf("BeforeSave returned error: %v", err)
	}
	if usage.ActualUsage != 2100 {
		t.Fatalf("ActualUsage = %v, want 2100", usage.ActualUsage)
	}
}
