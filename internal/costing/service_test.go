package costing

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"

	"franchiseops/internal/matching"
	"franchiseops/internal/metrics"
	"franchiseops/models"
)

type fakeRepo struct {
	recipes   map[uint]models.Recipe
	templates map[uint]models.PriceTemplate
	catalog   []models.MasterIngredient
	versions  map[[2]uint]models.CostVersion
	links     map[uint]uint
	replaced  int
	storeErr  error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		recipes:   map[uint]models.Recipe{},
		templates: map[uint]models.PriceTemplate{},
		versions:  map[[2]uint]models.CostVersion{},
		links:     map[uint]uint{},
	}
}

func (f *fakeRepo) Recipe(_ context.Context, tenantID, recipeID uint) (models.Recipe, error) {
	recipe, ok := f.recipes[recipeID]
	if !ok || recipe.TenantID != tenantID {
		return models.Recipe{}, fmt.Errorf("recipe %d: %w", recipeID, ErrRecipeNotFound)
	}
	return recipe, nil
}

func (f *fakeRepo) LinkIngredients(_ context.Context, _ uint, recipeID uint, links map[uint]uint) error {
	recipe := f.recipes[recipeID]
	for i := range recipe.Ingredients {
		if id, ok := links[recipe.Ingredients[i].ID]; ok {
			linked := id
			recipe.Ingredients[i].MasterIngredientID = &linked
			f.links[recipe.Ingredients[i].ID] = id
		}
	}
	f.recipes[recipeID] = recipe
	return nil
}

func (f *fakeRepo) PriceTemplate(_ context.Context, tenantID, templateID uint) (models.PriceTemplate, error) {
	template, ok := f.templates[templateID]
	if !ok || template.TenantID != tenantID {
		return models.PriceTemplate{}, ErrTemplateNotFound
	}
	return template, nil
}

func (f *fakeRepo) MasterIngredients(_ context.Context, _ uint) ([]models.MasterIngredient, error) {
	return f.catalog, nil
}

func (f *fakeRepo) ReplaceCostVersion(_ context.Context, version *models.CostVersion) error {
	if f.storeErr != nil {
		return f.storeErr
	}
	f.replaced++
	f.versions[[2]uint{version.RecipeID, version.PriceTemplateID}] = *version
	return nil
}

func (f *fakeRepo) CostVersion(_ context.Context, _ uint, recipeID, templateID uint) (models.CostVersion, error) {
	version, ok := f.versions[[2]uint{recipeID, templateID}]
	if !ok {
		return models.CostVersion{}, ErrVersionNotFound
	}
	return version, nil
}

func ingredientModel(id uint, nameEN, nameLocal string, pkg float64, unit string, yield float64) models.MasterIngredient {
	return models.MasterIngredient{
		Model:           gorm.Model{ID: id},
		TenantID:        1,
		NameEN:          nameEN,
		NameLocal:       nameLocal,
		PackageQuantity: pkg,
		Unit:            unit,
		YieldRate:       yield,
	}
}

func seededRepo() *fakeRepo {
	repo := newFakeRepo()
	repo.catalog = []models.MasterIngredient{
		ingredientModel(1, "Canola oil", "카놀라유", 16000, "ml", 99),
		ingredientModel(2, "Sugar", "설탕", 1000, "g", 0),
	}
	repo.templates[5] = models.PriceTemplate{
		Model:    gorm.Model{ID: 5},
		TenantID: 1,
		Currency: "CAD",
		Items: []models.PriceTemplateItem{
			{MasterIngredientID: 1, PackagePrice: 55.65},
			{MasterIngredientID: 2, PackagePrice: 2.5},
		},
	}
	canola := uint(1)
	yield := 2.0
	repo.recipes[7] = models.Recipe{
		Model:         gorm.Model{ID: 7},
		TenantID:      1,
		Name:          "Fried chicken batter",
		YieldQuantity: &yield,
		Ingredients: []models.RecipeIngredient{
			{Model: gorm.Model{ID: 70}, Name: "카놀라유", Quantity: 500, Unit: "ml", MasterIngredientID: &canola},
			{Model: gorm.Model{ID: 71}, Name: "Sugar (fine)", Quantity: 40, Unit: "g"},
			{Model: gorm.Model{ID: 72}, Name: "secret powder", Quantity: 3, Unit: "g"},
		},
	}
	return repo
}

func newTestService(repo *fakeRepo) *Service {
	svc := NewService(repo, nil, metrics.New())
	svc.now = func() time.Time { return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC) }
	runs := 0
	svc.newRunID = func() string {
		runs++
		return fmt.Sprintf("run-%d", runs)
	}
	return svc
}

func TestServiceRecalculateRoundsAndPersists(t *testing.T) {
	t.Parallel()

	repo := seededRepo()
	svc := newTestService(repo)

	version, err := svc.Recalculate(context.Background(), 1, 7, 5)
	if err != nil {
		t.Fatalf("Recalculate returned error: %v", err)
	}
	if version.RunID != "run-1" || version.Currency != "CAD" {
		t.Fatalf("unexpected version header %+v", version)
	}
	if len(version.Lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(version.Lines))
	}
	if version.Lines[0].LineCost != 1.76 {
		t.Fatalf("canola line cost = %v, want 1.76", version.Lines[0].LineCost)
	}
	if version.Lines[0].UnitPrice != 0.003478 {
		t.Fatalf("canola unit price = %v, want 0.003478", version.Lines[0].UnitPrice)
	}
	for _, line := range version.Lines[1:] {
		if line.Note != NoteUnlinked || line.LineCost != 0 {
			t.Fatalf("expected unlinked zero line, got %+v", line)
		}
	}
	if version.TotalCost != 1.76 {
		t.Fatalf("total = %v, want 1.76", version.TotalCost)
	}
	if version.CostPerUnit == nil || *version.CostPerUnit != 0.88 {
		t.Fatalf("cost per unit = %v, want 0.88", version.CostPerUnit)
	}
	if repo.replaced != 1 {
		t.Fatalf("expected one replace, got %d", repo.replaced)
	}
}

func TestServiceRecalculateIsIdempotent(t *testing.T) {
	t.Parallel()

	repo := seededRepo()
	svc := newTestService(repo)

	first, err := svc.Recalculate(context.Background(), 1, 7, 5)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := svc.Recalculate(context.Background(), 1, 7, 5)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if first.TotalCost != second.TotalCost {
		t.Fatalf("totals differ: %v vs %v", first.TotalCost, second.TotalCost)
	}
	if second.RunID == first.RunID {
		t.Fatalf("expected a new run id per calculation")
	}

	stored, err := svc.Version(context.Background(), 1, 7, 5)
	if err != nil {
		t.Fatalf("Version returned error: %v", err)
	}
	if stored.RunID != second.RunID {
		t.Fatalf("stored run %q, want %q", stored.RunID, second.RunID)
	}
}

func TestServiceRecalculateErrors(t *testing.T) {
	t.Parallel()

	repo := seededRepo()
	svc := newTestService(repo)

	if _, err := svc.Recalculate(context.Background(), 1, 99, 5); !errors.Is(err, ErrRecipeNotFound) {
		t.Fatalf("expected ErrRecipeNotFound, got %v", err)
	}
	if _, err := svc.Recalculate(context.Background(), 2, 7, 5); !errors.Is(err, ErrRecipeNotFound) {
		t.Fatalf("expected other tenant to miss the recipe, got %v", err)
	}
	if _, err := svc.Recalculate(context.Background(), 1, 7, 99); !errors.Is(err, ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}
	if _, err := svc.Version(context.Background(), 1, 7, 5); !errors.Is(err, ErrVersionNotFound) {
		t.Fatalf("expected ErrVersionNotFound, got %v", err)
	}

	boom := errors.New("disk full")
	repo.storeErr = boom
	if _, err := svc.Recalculate(context.Background(), 1, 7, 5); !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestServiceAutoLink(t *testing.T) {
	t.Parallel()

	repo := seededRepo()
	svc := newTestService(repo)

	report, err := svc.AutoLink(context.Background(), 1, 7)
	if err != nil {
		t.Fatalf("AutoLink returned error: %v", err)
	}
	if len(report.Linked) != 1 || report.Linked[0].LineID != 71 {
		t.Fatalf("expected sugar line to be linked, got %+v", report.Linked)
	}
	if report.Linked[0].Match.Confidence != matching.High {
		t.Fatalf("expected high confidence, got %s", report.Linked[0].Match.Confidence)
	}
	if repo.links[71] != 2 {
		t.Fatalf("expected line 71 linked to ingredient 2, got %v", repo.links)
	}
	if len(report.Suggestions) != 1 || report.Suggestions[0].LineID != 72 {
		t.Fatalf("expected secret powder as suggestion, got %+v", report.Suggestions)
	}
	if _, ok := repo.links[70]; ok {
		t.Fatalf("already linked line must not be relinked")
	}

	version, err := svc.Recalculate(context.Background(), 1, 7, 5)
	if err != nil {
		t.Fatalf("Recalculate after link: %v", err)
	}
	// 2.5 / 1000 × 40 × (100 / 100) = 0.10
	if version.Lines[1].LineCost != 0.1 || version.Lines[1].Note != "" {
		t.Fatalf("expected sugar to be priced after linking, got %+v", version.Lines[1])
	}
	if version.TotalCost != 1.86 {
		t.Fatalf("total = %v, want 1.86", version.TotalCost)
	}
}

func TestServiceAutoLinkNothingPending(t *testing.T) {
	t.Parallel()

	repo := seededRepo()
	recipe := repo.recipes[7]
	recipe.Ingredients = recipe.Ingredients[:1]
	repo.recipes[7] = recipe

	report, err := newTestService(repo).AutoLink(context.Background(), 1, 7)
	if err != nil {
		t.Fatalf("AutoLink returned error: %v", err)
	}
	if len(report.Linked) != 0 || len(report.Suggestions) != 0 {
		t.Fatalf("expected empty report, got %+v", report)
	}
}

func TestServiceMatch(t *testing.T) {
	t.Parallel()

	svc := newTestService(seededRepo())
	results, err := svc.Match(context.Background(), 1, []string{"카놀라유 (국산)", ""})
	if err != nil {
		t.Fatalf("Match returned error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Match == nil || results[0].Match.ID != 1 {
		t.Fatalf("expected canola match, got %+v", results[0])
	}
	if results[1].Confidence != matching.None {
		t.Fatalf("expected none for empty name, got %s", results[1].Confidence)
	}
}
