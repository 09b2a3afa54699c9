package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"franchiseops/internal/costing"
	"franchiseops/models"
)

func orderedIngredients(db *gorm.DB) *gorm.DB {
	return db.Order("position asc, id asc")
}

// Recipe loads a recipe with its ingredient lines in position order.
func (s *Store) Recipe(ctx context.Context, tenantID, recipeID uint) (models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Ingredients", orderedIngredients).
		Where("id = ? AND tenant_id = ?", recipeID, tenantID).
		First(&recipe).Error
	if err != nil {
		return models.Recipe{}, notFound(err, costing.ErrRecipeNotFound)
	}
	return recipe, nil
}

// ReplaceRecipeIngredients swaps the recipe's full ingredient list. Positions
// follow slice order.
func (s *Store) ReplaceRecipeIngredients(ctx context.Context, tenantID, recipeID uint, lines []models.RecipeIngredient) ([]models.RecipeIngredient, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.Select("id").Where("id = ? AND tenant_id = ?", recipeID, tenantID).First(&recipe).Error; err != nil {
			return notFound(err, costing.ErrRecipeNotFound)
		}
		if err := tx.Unscoped().Where("recipe_id = ?", recipeID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return nil
		}
		if err := ensureTenantIngredients(tx, tenantID, lines); err != nil {
			return err
		}
		for i := range lines {
			lines[i].ID = 0
			lines[i].RecipeID = recipeID
			lines[i].Position = i
			lines[i].MasterIngredient = nil
		}
		return tx.Create(&lines).Error
	})
	if err != nil {
		return nil, fmt.Errorf("replace ingredients of recipe %d: %w", recipeID, err)
	}
	return lines, nil
}

func ensureTenantIngredients(tx *gorm.DB, tenantID uint, lines []models.RecipeIngredient) error {
	seen := make(map[uint]struct{})
	var ids []uint
	for _, line := range lines {
		if line.MasterIngredientID == nil {
			continue
		}
		if _, ok := seen[*line.MasterIngredientID]; !ok {
			seen[*line.MasterIngredientID] = struct{}{}
			ids = append(ids, *line.MasterIngredientID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	var count int64
	if err := tx.Model(&models.MasterIngredient{}).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(ids)) {
		return ErrIngredientNotFound
	}
	return nil
}

// LinkIngredients points recipe lines at master ingredients. links maps line
// id to master ingredient id; every ingredient must belong to the tenant.
func (s *Store) LinkIngredients(ctx context.Context, tenantID, recipeID uint, links map[uint]uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for lineID, ingredientID := range links {
			var count int64
			if err := tx.Model(&models.MasterIngredient{}).
				Where("id = ? AND tenant_id = ?", ingredientID, tenantID).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return fmt.Errorf("ingredient %d: %w", ingredientID, ErrIngredientNotFound)
			}
			if err := tx.Model(&models.RecipeIngredient{}).
				Where("id = ? AND recipe_id = ?", lineID, recipeID).
				Update("master_ingredient_id", ingredientID).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// RecipeLines loads the ingredient lines of the given tenant recipes keyed by
// recipe id.
func (s *Store) RecipeLines(ctx context.Context, tenantID uint, recipeIDs []uint) (map[uint][]models.RecipeIngredient, error) {
	out := make(map[uint][]models.RecipeIngredient, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return out, nil
	}

	var lines []models.RecipeIngredient
	err := s.db.WithContext(ctx).
		Joins("JOIN recipes ON recipes.id = recipe_ingredients.recipe_id AND recipes.deleted_at IS NULL").
		Where("recipes.tenant_id = ? AND recipe_ingredients.recipe_id IN ?", tenantID, recipeIDs).
		Order("recipe_ingredients.recipe_id asc, recipe_ingredients.position asc, recipe_ingredients.id asc").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	for _, line := range lines {
		out[line.RecipeID] = append(out[line.RecipeID], line)
	}
	return out, nil
}

// Recipes lists the tenant's recipes with their lines, ordered by name.
func (s *Store) Recipes(ctx context.Context, tenantID uint) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Ingredients", orderedIngredients).
		Where("tenant_id = ?", tenantID).
		Order("name asc, id asc").
		Find(&recipes).Error
	return recipes, err
}
