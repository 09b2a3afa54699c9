package models

import (
	"gorm.io/gorm"
)

type RecipeIngredient struct {
	gorm.Model
	RecipeID uint    `gorm:"not null;index" json:"recipe_id"` // Parent Recipe
	Position int     `gorm:"not null;default:0" json:"position"`
	Name     string  `gorm:"not null" json:"name"` // as written in the manual
	Quantity float64 `gorm:"not null" json:"quantity"`
	Unit     string  `gorm:"not null" json:"unit"`

	// Nil until the line is linked to the catalog; unlinked lines cost nothing.
	MasterIngredientID *uint             `json:"master_ingredient_id,omitempty"`
	MasterIngredient   *MasterIngredient `gorm:"foreignKey:MasterIngredientID" json:"master_ingredient,omitempty"`
}
