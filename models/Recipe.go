package models

import (
	"gorm.io/gorm"
)

type Recipe struct {
	gorm.Model
	TenantID      uint               `gorm:"index;not null" json:"tenant_id"`
	Name          string             `gorm:"not null" json:"name"`
	Notes         string             `gorm:"type:text" json:"notes"`
	YieldQuantity *float64           `json:"yield_quantity"`
	YieldUnit     string             `json:"yield_unit"`
	Ingredients   []RecipeIngredient `gorm:"foreignKey:RecipeID" json:"ingredients"`
}
