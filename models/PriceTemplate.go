package models

import (
	"gorm.io/gorm"
)

// PriceTemplate is a named purchase price list, e.g. one per supplier contract or region.
type PriceTemplate struct {
	gorm.Model
	TenantID uint                `gorm:"index;not null" json:"tenant_id"`
	Name     string              `gorm:"not null" json:"name"`
	Currency string              `gorm:"type:varchar(3);not null;default:KRW" json:"currency"`
	Items    []PriceTemplateItem `gorm:"foreignKey:PriceTemplateID" json:"items"`
}

type PriceTemplateItem struct {
	gorm.Model
	PriceTemplateID    uint    `gorm:"not null;uniqueIndex:idx_template_ingredient" json:"price_template_id"`
	MasterIngredientID uint    `gorm:"not null;uniqueIndex:idx_template_ingredient" json:"master_ingredient_id"`
	PackagePrice       float64 `gorm:"not null" json:"package_price"`

	// Overrides fall back to the master ingredient when nil or not positive.
	PackageQuantity *float64 `json:"package_quantity,omitempty"`
	Unit            *string  `json:"unit,omitempty"`
	YieldRate       *float64 `json:"yield_rate,omitempty"`

	MasterIngredient *MasterIngredient `gorm:"foreignKey:MasterIngredientID" json:"master_ingredient,omitempty"`
}
