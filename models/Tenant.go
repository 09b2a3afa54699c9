package models

import "gorm.io/gorm"

// Tenant is a franchise brand. Every catalog, recipe and inventory record is
// owned by exactly one tenant.
type Tenant struct {
	gorm.Model
	Name     string `gorm:"uniqueIndex;not null" json:"name"`
	Currency string `gorm:"type:varchar(3);not null;default:KRW" json:"currency"`
}
