package models

import (
	"gorm.io/gorm"
)

// DefaultYieldRate is applied whenever a yield rate is unset or not positive.
const DefaultYieldRate = 100.0

type MasterIngredient struct {
	gorm.Model
	TenantID        uint    `gorm:"index;not null" json:"tenant_id"`
	Category        string  `gorm:"index" json:"category"`
	NameEN          string  `gorm:"column:name_en" json:"name_en"`
	NameLocal       string  `gorm:"column:name_local" json:"name_local"`
	PackageQuantity float64 `gorm:"not null;default:0" json:"package_quantity"`
	Unit            string  `gorm:"not null;default:g" json:"unit"`
	YieldRate       float64 `gorm:"not null;default:100" json:"yield_rate"`
}

// EffectiveYieldRate returns the yield rate with the default applied.
func (m MasterIngredient) EffectiveYieldRate() float64 {
	if m.YieldRate <= 0 {
		return DefaultYieldRate
	}
	return m.YieldRate
}

// DisplayName prefers the English name and falls back to the local one.
func (m MasterIngredient) DisplayName() string {
	if m.NameEN != "" {
		return m.NameEN
	}
	return m.NameLocal
}
