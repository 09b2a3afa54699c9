// Package variance compares theoretical ingredient consumption implied by
// period sales against the usage recorded in stock counts.
package variance

// Sale is one period sales total mapped to a recipe.
type Sale struct {
	RecipeID     uint
	SoldQuantity float64
}

// Line is one recipe ingredient line. Quantity is per unit of recipe yield.
type Line struct {
	IngredientID *uint
	Quantity     float64
}

// Usage is the recorded usage of one ingredient in a period.
type Usage struct {
	ID               uint    `json:"id"`
	IngredientID     uint    `json:"ingredient_id"`
	ActualUsage      float64 `json:"actual_usage"`
	TheoreticalUsage float64 `json:"theoretical_usage"`
	Variance         float64 `json:"variance"`
}

// Theoretical accumulates soldQuantity × line quantity per ingredient id.
// Sales with a non-positive quantity, sales of unknown recipes and unlinked
// lines contribute nothing.
func Theoretical(sales []Sale, recipes map[uint][]Line) map[uint]float64 {
	totals := make(map[uint]float64)
	for _, sale := range sales {
		if sale.SoldQuantity <= 0 {
			continue
		}
		for _, line := range recipes[sale.RecipeID] {
			if line.IngredientID == nil {
				continue
			}
			totals[*line.IngredientID] += sale.SoldQuantity * line.Quantity
		}
	}
	return totals
}

// Compute returns a copy of usage with TheoreticalUsage and Variance
// (actual - theoretical) set. Every record is recomputed from scratch.
func Compute(sales []Sale, recipes map[uint][]Line, usage []Usage) []Usage {
	totals := Theoretical(sales, recipes)
	out := make([]Usage, len(usage))
	for i, record := range usage {
		record.TheoreticalUsage = totals[record.IngredientID]
		record.Variance = record.ActualUsage - record.TheoreticalUsage
		out[i] = record
	}
	return out
}
