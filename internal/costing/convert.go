package costing

import (
	"time"

	"franchiseops/internal/matching"
	"franchiseops/internal/money"
	"franchiseops/models"
)

// RecipeFromModel maps a persisted recipe to the engine input.
func RecipeFromModel(recipe models.Recipe) Recipe {
	lines := make([]Line, 0, len(recipe.Ingredients))
	for _, ingredient := range recipe.Ingredients {
		lines = append(lines, Line{
			ID:           ingredient.ID,
			Name:         ingredient.Name,
			IngredientID: ingredient.MasterIngredientID,
			Quantity:     ingredient.Quantity,
			Unit:         ingredient.Unit,
		})
	}
	return Recipe{ID: recipe.ID, YieldQuantity: recipe.YieldQuantity, Lines: lines}
}

// PriceItemsFromModel maps persisted template items to engine price items.
func PriceItemsFromModel(items []models.PriceTemplateItem) []PriceItem {
	out := make([]PriceItem, 0, len(items))
	for _, item := range items {
		out = append(out, PriceItem{
			IngredientID:    item.MasterIngredientID,
			PackagePrice:    item.PackagePrice,
			PackageQuantity: item.PackageQuantity,
			Unit:            item.Unit,
			YieldRate:       item.YieldRate,
		})
	}
	return out
}

// CatalogFromModel indexes master ingredients by id.
func CatalogFromModel(ingredients []models.MasterIngredient) map[uint]Ingredient {
	catalog := make(map[uint]Ingredient, len(ingredients))
	for _, ingredient := range ingredients {
		catalog[ingredient.ID] = Ingredient{
			ID:              ingredient.ID,
			PackageQuantity: ingredient.PackageQuantity,
			Unit:            ingredient.Unit,
			YieldRate:       ingredient.YieldRate,
		}
	}
	return catalog
}

// Candidates maps master ingredients to matcher candidates, keeping order.
func Candidates(ingredients []models.MasterIngredient) []matching.Candidate {
	candidates := make([]matching.Candidate, 0, len(ingredients))
	for _, ingredient := range ingredients {
		candidates = append(candidates, matching.Candidate{
			ID:        ingredient.ID,
			Category:  ingredient.Category,
			NameEN:    ingredient.NameEN,
			NameLocal: ingredient.NameLocal,
		})
	}
	return candidates
}

// VersionFromResult rounds result into a cost version ready to persist.
// Unit prices keep money.UnitPricePlaces; amounts use the currency minor unit.
func VersionFromResult(tenantID, recipeID, templateID uint, runID string, at time.Time, result Result) models.CostVersion {
	currency := result.Currency
	version := models.CostVersion{
		TenantID:        tenantID,
		RecipeID:        recipeID,
		PriceTemplateID: templateID,
		RunID:           runID,
		Currency:        currency,
		TotalCost:       money.Round(result.TotalCost, currency),
		CalculatedAt:    at,
		Lines:           make([]models.CostLine, 0, len(result.Lines)),
	}
	if result.CostPerUnit != nil {
		perUnit := money.Round(*result.CostPerUnit, currency)
		version.CostPerUnit = &perUnit
	}
	for i, line := range result.Lines {
		version.Lines = append(version.Lines, models.CostLine{
			Position:           i,
			RecipeIngredientID: line.LineID,
			MasterIngredientID: line.IngredientID,
			Name:               line.Name,
			UnitPrice:          money.RoundUnitPrice(line.UnitPrice),
			Quantity:           line.Quantity,
			Unit:               line.Unit,
			YieldRate:          line.YieldRate,
			LineCost:           money.Round(line.LineCost, currency),
			Note:               line.Note,
		})
	}
	return version
}
