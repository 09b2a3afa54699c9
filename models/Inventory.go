package models

import (
	"time"

	"gorm.io/gorm"
)

// MenuMapping links a POS menu code to the recipe it consumes.
type MenuMapping struct {
	gorm.Model
	TenantID    uint    `gorm:"not null;uniqueIndex:idx_menu_code" json:"tenant_id"`
	POSMenuCode string  `gorm:"column:pos_menu_code;not null;uniqueIndex:idx_menu_code" json:"pos_menu_code"`
	Name        string  `json:"name"`
	RecipeID    *uint   `json:"recipe_id,omitempty"`
	Recipe      *Recipe `gorm:"foreignKey:RecipeID" json:"recipe,omitempty"`
}

type InventoryPeriod struct {
	gorm.Model
	TenantID uint      `gorm:"index;not null" json:"tenant_id"`
	Name     string    `gorm:"not null" json:"name"`
	StartsOn time.Time `json:"starts_on"`
	EndsOn   time.Time `json:"ends_on"`
}

// SalesRecord is one POS sales total for a menu item within a period.
type SalesRecord struct {
	gorm.Model
	InventoryPeriodID uint         `gorm:"not null;index" json:"inventory_period_id"`
	MenuMappingID     uint         `gorm:"not null" json:"menu_mapping_id"`
	SoldQuantity      float64      `gorm:"not null" json:"sold_quantity"`
	MenuMapping       *MenuMapping `gorm:"foreignKey:MenuMappingID" json:"menu_mapping,omitempty"`
}

// InventoryUsage holds the stock count of one ingredient for a period.
type InventoryUsage struct {
	gorm.Model
	InventoryPeriodID  uint    `gorm:"not null;uniqueIndex:idx_usage_period_ingredient" json:"inventory_period_id"`
	MasterIngredientID uint    `gorm:"not null;uniqueIndex:idx_usage_period_ingredient" json:"master_ingredient_id"`
	OpeningStock       float64 `json:"opening_stock"`
	StockIn            float64 `json:"stock_in"`
	Wastage            float64 `json:"wastage"`
	ClosingStock       float64 `json:"closing_stock"`
	ActualUsage        float64 `json:"actual_usage"`
	TheoreticalUsage   float64 `json:"theoretical_usage"`
	Variance           float64 `json:"variance"`
}

// DeriveActualUsage computes opening + stock in - wastage - closing.
func (u InventoryUsage) DeriveActualUsage() float64 {
	return u.OpeningStock + u.StockIn - u.Wastage - u.ClosingStock
}

// BeforeSave keeps ActualUsage consistent with the stock counts.
func (u *InventoryUsage) BeforeSave(tx *gorm.DB) error {
	u.ActualUsage = u.DeriveActualUsage()
	return nil
}
