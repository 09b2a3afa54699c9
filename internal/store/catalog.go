package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"franchiseops/models"
)

// MasterIngredients lists the tenant's catalog in id order. Matcher tie-breaks
// depend on this order staying stable.
func (s *Store) MasterIngredients(ctx context.Context, tenantID uint) ([]models.MasterIngredient, error) {
	var ingredients []models.MasterIngredient
	err := s.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("id asc").
		Find(&ingredients).Error
	return ingredients, err
}

func (s *Store) MasterIngredient(ctx context.Context, tenantID, id uint) (models.MasterIngredient, error) {
	var ingredient models.MasterIngredient
	err := s.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&ingredient).Error
	if err != nil {
		return models.MasterIngredient{}, notFound(err, ErrIngredientNotFound)
	}
	return ingredient, nil
}

func (s *Store) CreateMasterIngredient(ctx context.Context, ingredient *models.MasterIngredient) error {
	return s.db.WithContext(ctx).Create(ingredient).Error
}

// SaveMasterIngredient updates an existing ingredient owned by its tenant.
func (s *Store) SaveMasterIngredient(ctx context.Context, ingredient *models.MasterIngredient) error {
	result := s.db.WithContext(ctx).
		Model(&models.MasterIngredient{}).
		Where("id = ? AND tenant_id = ?", ingredient.ID, ingredient.TenantID).
		Updates(map[string]any{
			"category":         ingredient.Category,
			"name_en":          ingredient.NameEN,
			"name_local":       ingredient.NameLocal,
			"package_quantity": ingredient.PackageQuantity,
			"unit":             ingredient.Unit,
			"yield_rate":       ingredient.YieldRate,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrIngredientNotFound
	}
	return nil
}

func (s *Store) DeleteMasterIngredient(ctx context.Context, tenantID, id uint) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Delete(&models.MasterIngredient{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrIngredientNotFound
	}
	return nil
}

// UpsertMasterIngredient matches an existing ingredient of the same tenant by
// English name, then by local name (case-insensitive), and updates it in
// place. Otherwise the ingredient is created. It reports whether a row was
// created.
func (s *Store) UpsertMasterIngredient(ctx context.Context, ingredient *models.MasterIngredient) (bool, error) {
	created := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := findIngredientByName(tx, ingredient.TenantID, ingredient.NameEN, ingredient.NameLocal)
		if err != nil {
			return err
		}
		if existing == nil {
			created = true
			return tx.Create(ingredient).Error
		}

		ingredient.ID = existing.ID
		ingredient.CreatedAt = existing.CreatedAt
		updates := map[string]any{
			"package_quantity": ingredient.PackageQuantity,
			"unit":             ingredient.Unit,
			"yield_rate":       ingredient.YieldRate,
		}
		// Blank import cells keep the stored names and category.
		if ingredient.Category != "" {
			updates["category"] = ingredient.Category
		}
		if ingredient.NameEN != "" {
			updates["name_en"] = ingredient.NameEN
		}
		if ingredient.NameLocal != "" {
			updates["name_local"] = ingredient.NameLocal
		}
		return tx.Model(existing).Updates(updates).Error
	})
	if err != nil {
		return false, fmt.Errorf("upsert master ingredient %q: %w", ingredient.DisplayName(), err)
	}
	return created, nil
}

func findIngredientByName(tx *gorm.DB, tenantID uint, nameEN, nameLocal string) (*models.MasterIngredient, error) {
	lookups := []struct {
		column string
		value  string
	}{
		{"name_en", nameEN},
		{"name_local", nameLocal},
	}
	for _, lookup := range lookups {
		value := strings.ToLower(strings.TrimSpace(lookup.value))
		if value == "" {
			continue
		}
		var existing models.MasterIngredient
		err := tx.Where("tenant_id = ? AND lower("+lookup.column+") = ?", tenantID, value).
			Order("id asc").
			First(&existing).Error
		if err == nil {
			return &existing, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	return nil, nil
}
