package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"franchiseops/internal/costing"
	"franchiseops/models"
)

// PriceTemplate loads a template with its items and their master ingredients.
func (s *Store) PriceTemplate(ctx context.Context, tenantID, templateID uint) (models.PriceTemplate, error) {
	var template models.PriceTemplate
	err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Preload("Items.MasterIngredient").
		Where("id = ? AND tenant_id = ?", templateID, tenantID).
		First(&template).Error
	if err != nil {
		return models.PriceTemplate{}, notFound(err, costing.ErrTemplateNotFound)
	}
	return template, nil
}

// ReplaceCostVersion stores version as the only version of its (recipe,
// template) pair. The existing row is updated in place, its lines are hard
// deleted and the new lines inserted, all in one transaction.
func (s *Store) ReplaceCostVersion(ctx context.Context, version *models.CostVersion) error {
	lines := version.Lines
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.CostVersion
		err := tx.Unscoped().
			Where("recipe_id = ? AND price_template_id = ?", version.RecipeID, version.PriceTemplateID).
			First(&existing).Error
		switch {
		case err == nil:
			version.ID = existing.ID
			version.CreatedAt = existing.CreatedAt
			version.DeletedAt = gorm.DeletedAt{}
			if err := tx.Unscoped().Where("cost_version_id = ?", existing.ID).Delete(&models.CostLine{}).Error; err != nil {
				return err
			}
			if err := tx.Unscoped().Omit("Lines").Save(version).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			version.ID = 0
			if err := tx.Omit("Lines").Create(version).Error; err != nil {
				return err
			}
		default:
			return err
		}

		if len(lines) == 0 {
			return nil
		}
		for i := range lines {
			lines[i].ID = 0
			lines[i].CostVersionID = version.ID
		}
		return tx.Create(&lines).Error
	})
	if err != nil {
		return fmt.Errorf("replace cost version for recipe %d template %d: %w", version.RecipeID, version.PriceTemplateID, err)
	}
	version.Lines = lines
	return nil
}

// CostVersion loads the stored version for the pair with its lines.
func (s *Store) CostVersion(ctx context.Context, tenantID, recipeID, templateID uint) (models.CostVersion, error) {
	var version models.CostVersion
	err := s.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("position asc, id asc") }).
		Where("tenant_id = ? AND recipe_id = ? AND price_template_id = ?", tenantID, recipeID, templateID).
		First(&version).Error
	if err != nil {
		return models.CostVersion{}, notFound(err, costing.ErrVersionNotFound)
	}
	return version, nil
}

// PriceTemplates lists the tenant's templates without items.
func (s *Store) PriceTemplates(ctx context.Context, tenantID uint) ([]models.PriceTemplate, error) {
	var templates []models.PriceTemplate
	err := s.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("name asc, id asc").
		Find(&templates).Error
	return templates, err
}
