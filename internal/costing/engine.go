// Package costing rolls recipe ingredient lines up into per-recipe costs
// against a price template.
//
// Compute is a pure function over in-memory inputs. Service loads those inputs
// through repositories, rounds the result and persists it as a cost version.
package costing

const (
	// DefaultYieldRate is used whenever a yield rate is missing or not positive.
	DefaultYieldRate = 100.0
	// DefaultPackageQuantity is used whenever a package quantity is missing or not positive.
	DefaultPackageQuantity = 1.0

	// NoteUnlinked annotates cost lines that could not be priced.
	NoteUnlinked = "not linked to master ingredient"
)

// Ingredient carries the catalog fields the price table falls back to.
type Ingredient struct {
	ID              uint
	PackageQuantity float64
	Unit            string
	YieldRate       float64
}

// PriceItem is one price template entry. Nil overrides fall back to the
// ingredient's catalog values.
type PriceItem struct {
	IngredientID    uint
	PackagePrice    float64
	PackageQuantity *float64
	Unit            *string
	YieldRate       *float64
}

// PriceEntry is a resolved price template entry.
type PriceEntry struct {
	Price           float64
	Currency        string
	YieldRate       float64
	Unit            string
	PackageQuantity float64
}

// UnitPrice is the entry's price per single unit.
func (e PriceEntry) UnitPrice() float64 {
	return UnitPrice(e.Price, e.PackageQuantity)
}

// PriceTable maps master ingredient ids to resolved price entries.
type PriceTable struct {
	Currency string
	entries  map[uint]PriceEntry
}

// Lookup returns the entry for an ingredient id.
func (t PriceTable) Lookup(id uint) (PriceEntry, bool) {
	entry, ok := t.entries[id]
	return entry, ok
}

// Len reports the number of priced ingredients.
func (t PriceTable) Len() int {
	return len(t.entries)
}

// Line is a recipe ingredient line. IngredientID is nil for unlinked lines.
type Line struct {
	ID           uint
	Name         string
	IngredientID *uint
	Quantity     float64
	Unit         string
}

// Recipe is the engine's view of a recipe. YieldQuantity is the number of
// units the recipe produces; nil or non-positive means undefined.
type Recipe struct {
	ID            uint
	YieldQuantity *float64
	Lines         []Line
}

// CostLine is the computed cost of one recipe line.
type CostLine struct {
	LineID       uint    `json:"line_id"`
	IngredientID *uint   `json:"ingredient_id,omitempty"`
	Name         string  `json:"name"`
	UnitPrice    float64 `json:"unit_price"`
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit"`
	YieldRate    float64 `json:"yield_rate"`
	LineCost     float64 `json:"line_cost"`
	Note         string  `json:"note,omitempty"`
}

// Result is the outcome of Compute. CostPerUnit is nil when the recipe has no
// positive yield quantity.
type Result struct {
	Currency    string     `json:"currency"`
	TotalCost   float64    `json:"total_cost"`
	CostPerUnit *float64   `json:"cost_per_unit"`
	Lines       []CostLine `json:"lines"`
}

// BuildPriceTable resolves the effective package quantity and yield rate of
// every item. Overrides win when positive, then the catalog value when
// positive, then the defaults. Items whose ingredient is missing from the
// catalog (deleted, or another tenant's) are left out, so lines using them
// cost zero and carry NoteUnlinked.
func BuildPriceTable(currency string, items []PriceItem, catalog map[uint]Ingredient) PriceTable {
	table := PriceTable{Currency: currency, entries: make(map[uint]PriceEntry, len(items))}
	for _, item := range items {
		master, ok := catalog[item.IngredientID]
		if !ok {
			continue
		}

		quantity := DefaultPackageQuantity
		switch {
		case item.PackageQuantity != nil && *item.PackageQuantity > 0:
			quantity = *item.PackageQuantity
		case master.PackageQuantity > 0:
			quantity = master.PackageQuantity
		}

		yield := DefaultYieldRate
		switch {
		case item.YieldRate != nil && *item.YieldRate > 0:
			yield = *item.YieldRate
		case master.YieldRate > 0:
			yield = master.YieldRate
		}

		unit := master.Unit
		if item.Unit != nil && *item.Unit != "" {
			unit = *item.Unit
		}

		table.entries[item.IngredientID] = PriceEntry{
			Price:           item.PackagePrice,
			Currency:        currency,
			YieldRate:       yield,
			Unit:            unit,
			PackageQuantity: quantity,
		}
	}
	return table
}

// Compute prices every line of recipe against table. Lines are never dropped:
// unlinked lines and lines whose ingredient has no price cost zero and carry
// NoteUnlinked. Values are not rounded.
func Compute(recipe Recipe, table PriceTable) Result {
	result := Result{
		Currency: table.Currency,
		Lines:    make([]CostLine, 0, len(recipe.Lines)),
	}

	for _, line := range recipe.Lines {
		cost := CostLine{
			LineID:    line.ID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			Unit:      line.Unit,
			YieldRate: DefaultYieldRate,
		}
		if line.IngredientID != nil {
			id := *line.IngredientID
			cost.IngredientID = &id
		}

		entry, ok := PriceEntry{}, false
		if line.IngredientID != nil {
			entry, ok = table.Lookup(*line.IngredientID)
		}
		if ok {
			cost.UnitPrice = entry.UnitPrice()
			cost.YieldRate = normalizedYield(entry.YieldRate)
		} else {
			cost.Note = NoteUnlinked
		}

		cost.LineCost = LineCost(cost.UnitPrice, cost.Quantity, cost.YieldRate)
		result.TotalCost += cost.LineCost
		result.Lines = append(result.Lines, cost)
	}

	if recipe.YieldQuantity != nil && *recipe.YieldQuantity > 0 {
		perUnit := result.TotalCost / *recipe.YieldQuantity
		result.CostPerUnit = &perUnit
	}

	return result
}

// UnitPrice is packagePrice / packageQuantity with non-positive quantities
// treated as DefaultPackageQuantity.
func UnitPrice(packagePrice, packageQuantity float64) float64 {
	if packageQuantity <= 0 {
		packageQuantity = DefaultPackageQuantity
	}
	return packagePrice / packageQuantity
}

// LineCost is unitPrice × quantity × (100 / yieldRate) with non-positive
// yield rates treated as DefaultYieldRate.
func LineCost(unitPrice, quantity, yieldRate float64) float64 {
	return unitPrice * quantity * (100 / normalizedYield(yieldRate))
}

func normalizedYield(rate float64) float64 {
	if rate <= 0 {
		return DefaultYieldRate
	}
	return rate
}
