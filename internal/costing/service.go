package costing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	applog "franchiseops/internal/log"
	"franchiseops/internal/matching"
	"franchiseops/internal/metrics"
	"franchiseops/models"
)

var (
	ErrRecipeNotFound   = errors.New("recipe not found")
	ErrTemplateNotFound = errors.New("price template not found")
	ErrVersionNotFound  = errors.New("cost version not found")
)

// RecipeRepository loads recipes with their ingredient lines ordered by position.
type RecipeRepository interface {
	Recipe(ctx context.Context, tenantID, recipeID uint) (models.Recipe, error)
	// LinkIngredients sets MasterIngredientID for the given line ids.
	LinkIngredients(ctx context.Context, tenantID, recipeID uint, links map[uint]uint) error
}

// PriceTemplateRepository loads a price template with its items.
type PriceTemplateRepository interface {
	PriceTemplate(ctx context.Context, tenantID, templateID uint) (models.PriceTemplate, error)
}

// IngredientRepository lists a tenant's master ingredient catalog.
type IngredientRepository interface {
	MasterIngredients(ctx context.Context, tenantID uint) ([]models.MasterIngredient, error)
}

// CostWriter persists cost versions. ReplaceCostVersion must swap the version
// and all of its lines atomically.
type CostWriter interface {
	ReplaceCostVersion(ctx context.Context, version *models.CostVersion) error
	CostVersion(ctx context.Context, tenantID, recipeID, templateID uint) (models.CostVersion, error)
}

// Repository is everything the Service needs from storage.
type Repository interface {
	RecipeRepository
	PriceTemplateRepository
	IngredientRepository
	CostWriter
}

// Service orchestrates the matcher and the rollup engine over storage.
type Service struct {
	repo     Repository
	matcher  *matching.Matcher
	metrics  *metrics.Recorder
	now      func() time.Time
	newRunID func() string
}

// NewService wires a Service. A nil matcher uses matching.DefaultConfig and a
// nil recorder disables metrics.
func NewService(repo Repository, matcher *matching.Matcher, recorder *metrics.Recorder) *Service {
	if matcher == nil {
		matcher = matching.New(matching.DefaultConfig())
	}
	return &Service{
		repo:     repo,
		matcher:  matcher,
		metrics:  recorder,
		now:      time.Now,
		newRunID: func() string { return uuid.NewString() },
	}
}

// Recalculate prices recipeID against templateID and replaces the stored cost
// version for the pair.
func (s *Service) Recalculate(ctx context.Context, tenantID, recipeID, templateID uint) (models.CostVersion, error) {
	started := time.Now()
	version, err := s.recalculate(ctx, tenantID, recipeID, templateID)
	s.metrics.Observe(ctx, "recalculate", err == nil, time.Since(started))
	return version, err
}

func (s *Service) recalculate(ctx context.Context, tenantID, recipeID, templateID uint) (models.CostVersion, error) {
	recipe, err := s.repo.Recipe(ctx, tenantID, recipeID)
	if err != nil {
		return models.CostVersion{}, fmt.Errorf("load recipe %d: %w", recipeID, err)
	}
	template, err := s.repo.PriceTemplate(ctx, tenantID, templateID)
	if err != nil {
		return models.CostVersion{}, fmt.Errorf("load price template %d: %w", templateID, err)
	}
	catalog, err := s.repo.MasterIngredients(ctx, tenantID)
	if err != nil {
		return models.CostVersion{}, fmt.Errorf("load catalog: %w", err)
	}

	table := BuildPriceTable(template.Currency, PriceItemsFromModel(template.Items), CatalogFromModel(catalog))
	result := Compute(RecipeFromModel(recipe), table)

	unlinked := 0
	for _, line := range result.Lines {
		if line.Note == NoteUnlinked {
			unlinked++
		}
	}
	s.metrics.ObserveCostLines(len(result.Lines)-unlinked, unlinked)

	version := VersionFromResult(tenantID, recipeID, templateID, s.newRunID(), s.now().UTC(), result)
	if err := s.repo.ReplaceCostVersion(ctx, &version); err != nil {
		return models.CostVersion{}, fmt.Errorf("store cost version: %w", err)
	}

	applog.Info(ctx, "recalculated recipe cost",
		"recipe", recipeID,
		"template", templateID,
		"run", version.RunID,
		"total", version.TotalCost,
		"currency", version.Currency,
		"lines", len(version.Lines),
		"unlinked", unlinked,
	)
	return version, nil
}

// Version returns the stored cost version for the pair.
func (s *Service) Version(ctx context.Context, tenantID, recipeID, templateID uint) (models.CostVersion, error) {
	version, err := s.repo.CostVersion(ctx, tenantID, recipeID, templateID)
	if err != nil {
		return models.CostVersion{}, fmt.Errorf("load cost version for recipe %d template %d: %w", recipeID, templateID, err)
	}
	return version, nil
}

// Match scores free-text names against the tenant's catalog.
func (s *Service) Match(ctx context.Context, tenantID uint, names []string) ([]matching.Result, error) {
	catalog, err := s.repo.MasterIngredients(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	results := s.matcher.Match(names, Candidates(catalog))
	for _, result := range results {
		s.metrics.ObserveMatch(string(result.Confidence))
	}
	return results, nil
}

// LinkDecision is the matcher outcome for one recipe line.
type LinkDecision struct {
	LineID uint            `json:"line_id"`
	Name   string          `json:"name"`
	Match  matching.Result `json:"match"`
}

// AutoLinkReport lists lines that were linked and lines left for review.
type AutoLinkReport struct {
	RecipeID    uint           `json:"recipe_id"`
	Linked      []LinkDecision `json:"linked"`
	Suggestions []LinkDecision `json:"suggestions"`
}

// AutoLink matches every unlinked line of the recipe and persists links whose
// best match is high confidence. Lower tiers are only suggested.
func (s *Service) AutoLink(ctx context.Context, tenantID, recipeID uint) (AutoLinkReport, error) {
	started := time.Now()
	report, err := s.autoLink(ctx, tenantID, recipeID)
	s.metrics.Observe(ctx, "auto_link", err == nil, time.Since(started))
	return report, err
}

func (s *Service) autoLink(ctx context.Context, tenantID, recipeID uint) (AutoLinkReport, error) {
	report := AutoLinkReport{RecipeID: recipeID, Linked: []LinkDecision{}, Suggestions: []LinkDecision{}}

	recipe, err := s.repo.Recipe(ctx, tenantID, recipeID)
	if err != nil {
		return report, fmt.Errorf("load recipe %d: %w", recipeID, err)
	}

	var pending []models.RecipeIngredient
	for _, line := range recipe.Ingredients {
		if line.MasterIngredientID == nil {
			pending = append(pending, line)
		}
	}
	if len(pending) == 0 {
		return report, nil
	}

	names := make([]string, len(pending))
	for i, line := range pending {
		names[i] = line.Name
	}
	results, err := s.Match(ctx, tenantID, names)
	if err != nil {
		return report, err
	}

	links := make(map[uint]uint)
	for i, result := range results {
		decision := LinkDecision{LineID: pending[i].ID, Name: pending[i].Name, Match: result}
		if result.Confidence == matching.High && result.Match != nil {
			links[pending[i].ID] = result.Match.ID
			report.Linked = append(report.Linked, decision)
			continue
		}
		report.Suggestions = append(report.Suggestions, decision)
	}

	if len(links) > 0 {
		if err := s.repo.LinkIngredients(ctx, tenantID, recipeID, links); err != nil {
			return report, fmt.Errorf("link ingredients: %w", err)
		}
	}

	applog.Info(ctx, "auto-linked recipe ingredients",
		"recipe", recipeID,
		"linked", len(report.Linked),
		"suggested", len(report.Suggestions),
	)
	return report, nil
}
