package store

import (
	"context"

	"gorm.io/gorm"

	"franchiseops/internal/variance"
	"franchiseops/models"
)

func (s *Store) InventoryPeriod(ctx context.Context, tenantID, periodID uint) (models.InventoryPeriod, error) {
	var period models.InventoryPeriod
	err := s.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", periodID, tenantID).
		First(&period).Error
	if err != nil {
		return models.InventoryPeriod{}, notFound(err, variance.ErrPeriodNotFound)
	}
	return period, nil
}

// PeriodSales returns the period's sales with their menu mappings.
func (s *Store) PeriodSales(ctx context.Context, periodID uint) ([]models.SalesRecord, error) {
	var sales []models.SalesRecord
	err := s.db.WithContext(ctx).
		Preload("MenuMapping").
		Where("inventory_period_id = ?", periodID).
		Order("id asc").
		Find(&sales).Error
	return sales, err
}

func (s *Store) PeriodUsage(ctx context.Context, periodID uint) ([]models.InventoryUsage, error) {
	var usage []models.InventoryUsage
	err := s.db.WithContext(ctx).
		Where("inventory_period_id = ?", periodID).
		Order("master_ingredient_id asc").
		Find(&usage).Error
	return usage, err
}

// UpdateUsageVariance writes the derived usage columns without touching the
// stock counts.
func (s *Store) UpdateUsageVariance(ctx context.Context, usage []models.InventoryUsage) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, record := range usage {
			if err := tx.Model(&models.InventoryUsage{}).
				Where("id = ?", record.ID).
				UpdateColumns(map[string]any{
					"actual_usage":      record.ActualUsage,
					"theoretical_usage": record.TheoreticalUsage,
					"variance":          record.Variance,
				}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
