package mock

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"franchiseops/internal/costing"
	"franchiseops/internal/store"
	"franchiseops/internal/variance"
	"franchiseops/models"
)

func TestNewSeedsExpectedRecords(t *testing.T) {
	ctx := context.Background()
	db, err := New(ctx)
	if err != nil {
		t.Fatalf("mock database initialization failed: %v", err)
	}

	var user models.User
	if err := db.WithContext(ctx).Where("email = ?", DemoEmail).First(&user).Error; err != nil {
		t.Fatalf("query user: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(DemoPassword)); err != nil {
		t.Fatalf("unexpected password hash: %v", err)
	}

	repo := store.New(db)
	ingredients, err := repo.MasterIngredients(ctx, user.TenantID)
	if err != nil || len(ingredients) != 5 {
		t.Fatalf("expected 5 seeded ingredients, got %d err=%v", len(ingredients), err)
	}
	recipes, err := repo.Recipes(ctx, user.TenantID)
	if err != nil || len(recipes) != 1 {
		t.Fatalf("expected one seeded recipe, got %d err=%v", len(recipes), err)
	}
	templates, err := repo.PriceTemplates(ctx, user.TenantID)
	if err != nil || len(templates) != 1 {
		t.Fatalf("expected one seeded template, got %d err=%v", len(templates), err)
	}

	// The seed is a working scenario end to end.
	costs := costing.NewService(repo, nil, nil)
	report, err := costs.AutoLink(ctx, user.TenantID, recipes[0].ID)
	if err != nil {
		t.Fatalf("AutoLink returned error: %v", err)
	}
	if len(report.Linked) != 1 || len(report.Suggestions) != 1 {
		t.Fatalf("expected sugar linked and seasoning suggested, got %+v", report)
	}
	version, err := costs.Recalculate(ctx, user.TenantID, recipes[0].ID, templates[0].ID)
	if err != nil {
		t.Fatalf("Recalculate returned error: %v", err)
	}
	if version.Currency != "KRW" || version.TotalCost <= 0 || len(version.Lines) != 5 {
		t.Fatalf("unexpected version %+v", version)
	}

	var period models.InventoryPeriod
	if err := db.WithContext(ctx).First(&period).Error; err != nil {
		t.Fatalf("query period: %v", err)
	}
	result, err := variance.NewService(repo, nil).Recompute(ctx, user.TenantID, period.ID)
	if err != nil {
		t.Fatalf("Recompute returned error: %v", err)
	}
	if len(result.Usage) != 2 {
		t.Fatalf("expected usage rows for chicken and oil, got %d", len(result.Usage))
	}
	for _, usage := range result.Usage {
		if usage.MasterIngredientID == ingredients[0].ID && (usage.TheoreticalUsage != 12000 || usage.Variance != 300) {
			t.Fatalf("unexpected chicken usage %+v", usage)
		}
	}
}
