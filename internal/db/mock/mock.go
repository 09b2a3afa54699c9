package mock

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	applog "franchiseops/internal/log"
	"franchiseops/models"
)

// DemoEmail and DemoPassword sign in to the seeded tenant.
const (
	DemoEmail    = "manager@franchiseops.app"
	DemoPassword = "franchise"
)

// New returns an in-memory sqlite database seeded with one franchise brand:
// a small catalog, a price template, a recipe with linked and unlinked lines,
// and an inventory period with sales and stock counts.
func New(ctx context.Context) (*gorm.DB, error) {
	applog.Debug(ctx, "initialising mock database")

	db, err := gorm.Open(sqlite.Open("file:franchiseops-mock?mode=memory&cache=shared"), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		PrepareStmt:                              true,
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(models.All()...); err != nil {
		return nil, err
	}

	if err := seed(ctx, db); err != nil {
		return nil, err
	}

	applog.Debug(ctx, "mock database ready")
	return db, nil
}

func seed(ctx context.Context, db *gorm.DB) error {
	applog.Debug(ctx, "seeding mock database")
	tx := db.WithContext(ctx)

	tenant := models.Tenant{Name: "Seoul Fried Chicken", Currency: "KRW"}
	if err := tx.Create(&tenant).Error; err != nil {
		return err
	}

	password, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user := &models.User{
		Name:         "Min-ji Park",
		Email:        DemoEmail,
		PasswordHash: string(password),
		TenantID:     tenant.ID,
	}
	if err := tx.Create(user).Error; err != nil {
		return err
	}

	chicken := models.MasterIngredient{TenantID: tenant.ID, Category: "Meat", NameEN: "Chicken", NameLocal: "닭", PackageQuantity: 1000, Unit: "g", YieldRate: 85}
	flour := models.MasterIngredient{TenantID: tenant.ID, Category: "Dry", NameEN: "Frying flour", NameLocal: "튀김가루", PackageQuantity: 20000, Unit: "g", YieldRate: 100}
	canola := models.MasterIngredient{TenantID: tenant.ID, Category: "Oil", NameEN: "Canola oil", NameLocal: "카놀라유", PackageQuantity: 18000, Unit: "ml", YieldRate: 100}
	sugar := models.MasterIngredient{TenantID: tenant.ID, Category: "Dry", NameEN: "Sugar", NameLocal: "설탕", PackageQuantity: 1000, Unit: "g", YieldRate: 100}
	garlic := models.MasterIngredient{TenantID: tenant.ID, Category: "Produce", NameEN: "Minced garlic", NameLocal: "다진 마늘", PackageQuantity: 1000, Unit: "g", YieldRate: 95}
	catalog := []*models.MasterIngredient{&chicken, &flour, &canola, &sugar, &garlic}
	for _, ingredient := range catalog {
		if err := tx.Create(ingredient).Error; err != nil {
			return err
		}
	}

	oilQuantity := 16000.0
	template := models.PriceTemplate{
		TenantID: tenant.ID,
		Name:     "HQ standard prices",
		Currency: "KRW",
		Items: []models.PriceTemplateItem{
			{MasterIngredientID: chicken.ID, PackagePrice: 6500},
			{MasterIngredientID: flour.ID, PackagePrice: 32000},
			// Supplier ships a smaller can than the catalog default.
			{MasterIngredientID: canola.ID, PackagePrice: 55650, PackageQuantity: &oilQuantity},
			{MasterIngredientID: sugar.ID, PackagePrice: 2500},
			{MasterIngredientID: garlic.ID, PackagePrice: 9800},
		},
	}
	if err := tx.Create(&template).Error; err != nil {
		return err
	}

	portions := 10.0
	recipe := models.Recipe{
		TenantID:      tenant.ID,
		Name:          "Original fried chicken",
		Notes:         "Batch for ten portions.",
		YieldQuantity: &portions,
		YieldUnit:     "portion",
		Ingredients: []models.RecipeIngredient{
			{Position: 0, Name: "닭", Quantity: 1000, Unit: "g", MasterIngredientID: &chicken.ID},
			{Position: 1, Name: "튀김가루", Quantity: 200, Unit: "g", MasterIngredientID: &flour.ID},
			{Position: 2, Name: "카놀라유", Quantity: 500, Unit: "ml", MasterIngredientID: &canola.ID},
			{Position: 3, Name: "설탕", Quantity: 30, Unit: "g"},
			{Position: 4, Name: "House seasoning", Quantity: 15, Unit: "g"},
		},
	}
	if err := tx.Create(&recipe).Error; err != nil {
		return err
	}

	mapping := models.MenuMapping{TenantID: tenant.ID, POSMenuCode: "FC-01", Name: "Original chicken", RecipeID: &recipe.ID}
	if err := tx.Create(&mapping).Error; err != nil {
		return err
	}

	period := models.InventoryPeriod{
		TenantID: tenant.ID,
		Name:     "March 2024",
		StartsOn: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		EndsOn:   time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
	}
	if err := tx.Create(&period).Error; err != nil {
		return err
	}
	sale := models.SalesRecord{InventoryPeriodID: period.ID, MenuMappingID: mapping.ID, SoldQuantity: 12}
	if err := tx.Create(&sale).Error; err != nil {
		return err
	}
	usage := []models.InventoryUsage{
		{InventoryPeriodID: period.ID, MasterIngredientID: chicken.ID, OpeningStock: 5000, StockIn: 10000, Wastage: 300, ClosingStock: 2400},
		{InventoryPeriodID: period.ID, MasterIngredientID: canola.ID, OpeningStock: 18000, StockIn: 0, Wastage: 0, ClosingStock: 11600},
	}
	if err := tx.Create(&usage).Error; err != nil {
		return err
	}

	applog.Debug(ctx, "mock database seeded",
		"tenant", tenant.ID,
		"ingredients", len(catalog),
		"recipe", recipe.ID,
		"period", period.ID,
	)
	return nil
}
