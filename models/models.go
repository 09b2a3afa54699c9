package models

// All lists every persisted model in migration order.
func All() []any {
	return []any{
		&Tenant{},
		&User{},
		&MasterIngredient{},
		&PriceTemplate{},
		&PriceTemplateItem{},
		&Recipe{},
		&RecipeIngredient{},
		&CostVersion{},
		&CostLine{},
		&MenuMapping{},
		&InventoryPeriod{},
		&SalesRecord{},
		&InventoryUsage{},
	}
}
