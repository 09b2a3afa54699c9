package models

import (
	"time"

	"gorm.io/gorm"
)

// CostVersion is the latest calculation for one (recipe, price template) pair.
type CostVersion struct {
	gorm.Model
	TenantID        uint       `gorm:"index;not null" json:"tenant_id"`
	RecipeID        uint       `gorm:"not null;uniqueIndex:idx_cost_version_pair" json:"recipe_id"`
	PriceTemplateID uint       `gorm:"not null;uniqueIndex:idx_cost_version_pair" json:"price_template_id"`
	RunID           string     `gorm:"type:varchar(36);not null" json:"run_id"`
	Currency        string     `gorm:"type:varchar(3);not null" json:"currency"`
	TotalCost       float64    `gorm:"not null" json:"total_cost"`
	CostPerUnit     *float64   `json:"cost_per_unit"`
	CalculatedAt    time.Time  `gorm:"not null" json:"calculated_at"`
	Lines           []CostLine `gorm:"foreignKey:CostVersionID" json:"lines"`
}

type CostLine struct {
	gorm.Model
	CostVersionID      uint    `gorm:"not null;index" json:"cost_version_id"`
	Position           int     `gorm:"not null;default:0" json:"position"`
	RecipeIngredientID uint    `gorm:"not null" json:"recipe_ingredient_id"`
	MasterIngredientID *uint   `json:"master_ingredient_id,omitempty"`
	Name               string  `json:"name"`
	UnitPrice          float64 `gorm:"not null" json:"unit_price"`
	Quantity           float64 `gorm:"not null" json:"quantity"`
	Unit               string  `json:"unit"`
	YieldRate          float64 `gorm:"not null" json:"yield_rate"`
	LineCost           float64 `gorm:"not null" json:"line_cost"`
	Note               string  `json:"note,omitempty"`
}
