package variance

import (
	"context"
	"errors"
	"fmt"
	"time"

	applog "franchiseops/internal/log"
	"franchiseops/internal/metrics"
	"franchiseops/models"
)

var ErrPeriodNotFound = errors.New("inventory period not found")

// PeriodRepository loads and updates the records of one inventory period.
type PeriodRepository interface {
	InventoryPeriod(ctx context.Context, tenantID, periodID uint) (models.InventoryPeriod, error)
	// PeriodSales returns the period's sales with MenuMapping preloaded.
	PeriodSales(ctx context.Context, periodID uint) ([]models.SalesRecord, error)
	RecipeLines(ctx context.Context, tenantID uint, recipeIDs []uint) (map[uint][]models.RecipeIngredient, error)
	PeriodUsage(ctx context.Context, periodID uint) ([]models.InventoryUsage, error)
	// UpdateUsageVariance writes TheoreticalUsage and Variance of every record
	// in one transaction.
	UpdateUsageVariance(ctx context.Context, usage []models.InventoryUsage) error
}

// Report is the outcome of a recompute.
type Report struct {
	PeriodID uint                    `json:"period_id"`
	Usage    []models.InventoryUsage `json:"usage"`
}

// Service recomputes variance for stored periods.
type Service struct {
	repo    PeriodRepository
	metrics *metrics.Recorder
}

func NewService(repo PeriodRepository, recorder *metrics.Recorder) *Service {
	return &Service{repo: repo, metrics: recorder}
}

// Recompute recalculates theoretical usage and variance for every usage
// record of the period and stores the result.
func (s *Service) Recompute(ctx context.Context, tenantID, periodID uint) (Report, error) {
	started := time.Now()
	report, err := s.recompute(ctx, tenantID, periodID)
	s.metrics.Observe(ctx, "variance", err == nil, time.Since(started))
	return report, err
}

func (s *Service) recompute(ctx context.Context, tenantID, periodID uint) (Report, error) {
	if _, err := s.repo.InventoryPeriod(ctx, tenantID, periodID); err != nil {
		return Report{}, fmt.Errorf("load period %d: %w", periodID, err)
	}

	records, err := s.repo.PeriodSales(ctx, periodID)
	if err != nil {
		return Report{}, fmt.Errorf("load sales: %w", err)
	}
	sales := make([]Sale, 0, len(records))
	seen := make(map[uint]struct{})
	var recipeIDs []uint
	unmapped := 0
	for _, record := range records {
		if record.MenuMapping == nil || record.MenuMapping.RecipeID == nil {
			unmapped++
			continue
		}
		recipeID := *record.MenuMapping.RecipeID
		sales = append(sales, Sale{RecipeID: recipeID, SoldQuantity: record.SoldQuantity})
		if _, ok := seen[recipeID]; !ok {
			seen[recipeID] = struct{}{}
			recipeIDs = append(recipeIDs, recipeID)
		}
	}

	lines, err := s.repo.RecipeLines(ctx, tenantID, recipeIDs)
	if err != nil {
		return Report{}, fmt.Errorf("load recipe lines: %w", err)
	}
	recipes := make(map[uint][]Line, len(lines))
	for recipeID, ingredients := range lines {
		converted := make([]Line, 0, len(ingredients))
		for _, ingredient := range ingredients {
			converted = append(converted, Line{IngredientID: ingredient.MasterIngredientID, Quantity: ingredient.Quantity})
		}
		recipes[recipeID] = converted
	}

	stored, err := s.repo.PeriodUsage(ctx, periodID)
	if err != nil {
		return Report{}, fmt.Errorf("load usage: %w", err)
	}
	usage := make([]Usage, len(stored))
	for i, record := range stored {
		usage[i] = Usage{ID: record.ID, IngredientID: record.MasterIngredientID, ActualUsage: record.DeriveActualUsage()}
	}

	computed := Compute(sales, recipes, usage)
	for i := range stored {
		stored[i].ActualUsage = computed[i].ActualUsage
		stored[i].TheoreticalUsage = computed[i].TheoreticalUsage
		stored[i].Variance = computed[i].Variance
	}
	if err := s.repo.UpdateUsageVariance(ctx, stored); err != nil {
		return Report{}, fmt.Errorf("store variance: %w", err)
	}

	if unmapped > 0 {
		applog.Warn(ctx, "sales without recipe mapping skipped", "period", periodID, "count", unmapped)
	}
	applog.Info(ctx, "recomputed inventory variance",
		"period", periodID,
		"sales", len(sales),
		"usage", len(stored),
	)
	return Report{PeriodID: periodID, Usage: stored}, nil
}
