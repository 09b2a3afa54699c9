package costing

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
)

func nearlyEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func ptrFloat(v float64) *float64 { return &v }
func ptrUint(v uint) *uint        { return &v }
func ptrString(v string) *string  { return &v }

func canolaTable() PriceTable {
	catalog := map[uint]Ingredient{
		1: {ID: 1, PackageQuantity: 16000, Unit: "ml", YieldRate: 99},
	}
	items := []PriceItem{{IngredientID: 1, PackagePrice: 55.65}}
	return BuildPriceTable("CAD", items, catalog)
}

func TestComputeCanolaScenario(t *testing.T) {
	t.Parallel()

	recipe := Recipe{
		ID:    1,
		Lines: []Line{{ID: 10, Name: "카놀라유", IngredientID: ptrUint(1), Quantity: 500, Unit: "ml"}},
	}
	result := Compute(recipe, canolaTable())

	if len(result.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(result.Lines))
	}
	line := result.Lines[0]
	if !nearlyEqual(line.UnitPrice, 55.65/16000) {
		t.Fatalf("unit price = %v", line.UnitPrice)
	}
	if line.YieldRate != 99 {
		t.Fatalf("yield rate = %v, want 99", line.YieldRate)
	}
	want := 55.65 / 16000 * 500 * (100.0 / 99)
	if !nearlyEqual(line.LineCost, want) {
		t.Fatalf("line cost = %v, want %v", line.LineCost, want)
	}
	if math.Round(line.LineCost*10000)/10000 != 1.7566 {
		t.Fatalf("line cost rounds to %v, want 1.7566", math.Round(line.LineCost*10000)/10000)
	}
	if !nearlyEqual(result.TotalCost, want) {
		t.Fatalf("total = %v, want %v", result.TotalCost, want)
	}
	if result.CostPerUnit != nil {
		t.Fatalf("expected nil cost per unit, got %v", *result.CostPerUnit)
	}
	if result.Currency != "CAD" {
		t.Fatalf("currency = %q", result.Currency)
	}
}

func TestComputeUnlinkedLinesStayVisible(t *testing.T) {
	t.Parallel()

	recipe := Recipe{Lines: []Line{
		{ID: 1, Name: "mystery spice", Quantity: 5, Unit: "g"},
		{ID: 2, Name: "ghost", IngredientID: ptrUint(404), Quantity: 3, Unit: "g"},
		{ID: 3, Name: "canola", IngredientID: ptrUint(1), Quantity: 100, Unit: "ml"},
	}}
	result := Compute(recipe, canolaTable())

	if len(result.Lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(result.Lines))
	}
	for _, line := range result.Lines[:2] {
		if line.LineCost != 0 || line.UnitPrice != 0 {
			t.Fatalf("expected zero cost for %q, got %+v", line.Name, line)
		}
		if line.YieldRate != DefaultYieldRate {
			t.Fatalf("expected default yield for %q, got %v", line.Name, line.YieldRate)
		}
		if line.Note != NoteUnlinked {
			t.Fatalf("expected unlinked note for %q, got %q", line.Name, line.Note)
		}
	}
	if result.Lines[1].IngredientID == nil || *result.Lines[1].IngredientID != 404 {
		t.Fatalf("expected dangling link to be preserved")
	}
	if result.Lines[2].Note != "" {
		t.Fatalf("expected no note on priced line")
	}
	if !nearlyEqual(result.TotalCost, result.Lines[2].LineCost) {
		t.Fatalf("total %v should equal the priced line %v", result.TotalCost, result.Lines[2].LineCost)
	}
}

func TestComputeCostPerUnit(t *testing.T) {
	t.Parallel()

	lines := []Line{{ID: 1, IngredientID: ptrUint(1), Quantity: 500}}
	tests := []struct {
		name  string
		yield *float64
		want  *float64
	}{
		{name: "nil yield", yield: nil, want: nil},
		{name: "zero yield", yield: ptrFloat(0), want: nil},
		{name: "negative yield", yield: ptrFloat(-2), want: nil},
		{name: "four portions", yield: ptrFloat(4), want: ptrFloat(4)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := Compute(Recipe{YieldQuantity: tt.yield, Lines: lines}, canolaTable())
			if tt.want == nil {
				if result.CostPerUnit != nil {
					t.Fatalf("expected nil cost per unit, got %v", *result.CostPerUnit)
				}
				return
			}
			if result.CostPerUnit == nil {
				t.Fatalf("expected cost per unit")
			}
			if *result.CostPerUnit != result.TotalCost / *tt.yield {
				t.Fatalf("cost per unit = %v, want %v", *result.CostPerUnit, result.TotalCost / *tt.yield)
			}
		})
	}
}

func TestBuildPriceTableResolution(t *testing.T) {
	t.Parallel()

	catalog := map[uint]Ingredient{
		1: {ID: 1, PackageQuantity: 1000, Unit: "g", YieldRate: 90},
		2: {ID: 2, PackageQuantity: 0, Unit: "ea", YieldRate: 0},
		3: {ID: 3, PackageQuantity: 500, Unit: "g", YieldRate: 80},
	}
	items := []PriceItem{
		{IngredientID: 1, PackagePrice: 10},
		{IngredientID: 2, PackagePrice: 3},
		{IngredientID: 3, PackagePrice: 8, PackageQuantity: ptrFloat(2000), Unit: ptrString("ml"), YieldRate: ptrFloat(50)},
		{IngredientID: 4, PackagePrice: 7, PackageQuantity: ptrFloat(2000), YieldRate: ptrFloat(90)},
	}
	table := BuildPriceTable("KRW", items, catalog)

	if table.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", table.Len())
	}

	tests := []struct {
		id       uint
		quantity float64
		yield    float64
		unit     string
	}{
		{id: 1, quantity: 1000, yield: 90, unit: "g"},
		{id: 2, quantity: 1, yield: 100, unit: "ea"},
		{id: 3, quantity: 2000, yield: 50, unit: "ml"},
	}
	for _, tt := range tests {
		entry, ok := table.Lookup(tt.id)
		if !ok {
			t.Fatalf("missing entry %d", tt.id)
		}
		if entry.PackageQuantity != tt.quantity || entry.YieldRate != tt.yield || entry.Unit != tt.unit {
			t.Fatalf("entry %d = %+v, want quantity %v yield %v unit %q", tt.id, entry, tt.quantity, tt.yield, tt.unit)
		}
		if entry.Currency != "KRW" {
			t.Fatalf("entry %d currency = %q", tt.id, entry.Currency)
		}
	}
	for _, id := range []uint{4, 99} {
		if _, ok := table.Lookup(id); ok {
			t.Fatalf("unexpected entry for ingredient %d outside the catalog", id)
		}
	}
}

func TestComputeTreatsItemsOutsideCatalogAsUnlinked(t *testing.T) {
	t.Parallel()

	items := []PriceItem{{IngredientID: 1, PackagePrice: 55.65}}
	table := BuildPriceTable("CAD", items, map[uint]Ingredient{})
	result := Compute(Recipe{Lines: []Line{{ID: 10, IngredientID: ptrUint(1), Quantity: 500, Unit: "ml"}}}, table)

	line := result.Lines[0]
	if line.LineCost != 0 || line.UnitPrice != 0 || line.Note != NoteUnlinked {
		t.Fatalf("expected zero-cost unlinked line, got %+v", line)
	}
}

func TestComputeIsIdempotent(t *testing.T) {
	t.Parallel()

	recipe := Recipe{
		YieldQuantity: ptrFloat(3),
		Lines: []Line{
			{ID: 1, IngredientID: ptrUint(1), Quantity: 333.3},
			{ID: 2, IngredientID: ptrUint(1), Quantity: 12.7},
			{ID: 3, Quantity: 1},
		},
	}
	table := canolaTable()
	first := Compute(recipe, table)
	second := Compute(recipe, table)

	if first.TotalCost != second.TotalCost {
		t.Fatalf("totals differ: %v vs %v", first.TotalCost, second.TotalCost)
	}
	if *first.CostPerUnit != *second.CostPerUnit {
		t.Fatalf("per-unit costs differ")
	}
}

func TestDegenerateNumericInputs(t *testing.T) {
	t.Parallel()

	if got := UnitPrice(12, 0); got != 12 {
		t.Fatalf("UnitPrice with zero package = %v, want 12", got)
	}
	if got := UnitPrice(12, -4); got != 12 {
		t.Fatalf("UnitPrice with negative package = %v, want 12", got)
	}
	if got := LineCost(2, 5, 0); got != 10 {
		t.Fatalf("LineCost with zero yield = %v, want 10", got)
	}
	if got := LineCost(2, 5, 50); got != 20 {
		t.Fatalf("LineCost with 50%% yield = %v, want 20", got)
	}
}

func TestComputeEmptyRecipe(t *testing.T) {
	t.Parallel()

	result := Compute(Recipe{YieldQuantity: ptrFloat(2)}, PriceTable{})
	if result.TotalCost != 0 || len(result.Lines) != 0 {
		t.Fatalf("unexpected result %+v", result)
	}
	if result.CostPerUnit == nil || *result.CostPerUnit != 0 {
		t.Fatalf("expected zero cost per unit")
	}
}

func TestResultJSONUsesSnakeCase(t *testing.T) {
	t.Parallel()

	result := Compute(Recipe{YieldQuantity: ptrFloat(2), Lines: []Line{{ID: 1, IngredientID: ptrUint(1), Quantity: 500}}}, canolaTable())
	encoded, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal result: %v", err)
	}
	for _, key := range []string{`"total_cost"`, `"cost_per_unit"`, `"line_id"`, `"ingredient_id"`, `"unit_price"`, `"yield_rate"`, `"line_cost"`} {
		if !strings.Contains(string(encoded), key) {
			t.Fatalf("expected %s in %s", key, encoded)
		}
	}
}
