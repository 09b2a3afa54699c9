package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	applog "franchiseops/internal/log"
	"franchiseops/models"
)

type masterIngredientRequest struct {
	Category        string  `json:"category"`
	NameEN          string  `json:"name_en"`
	NameLocal       string  `json:"name_local"`
	PackageQuantity float64 `json:"package_quantity"`
	Unit            string  `json:"unit"`
	YieldRate       float64 `json:"yield_rate"`
}

type masterIngredientResponse struct {
	ID              uint      `json:"id"`
	Category        string    `json:"category"`
	NameEN          string    `json:"name_en"`
	NameLocal       string    `json:"name_local"`
	PackageQuantity float64   `json:"package_quantity"`
	Unit            string    `json:"unit"`
	YieldRate       float64   `json:"yield_rate"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// MasterIngredientCollection lists and creates catalog entries.
func MasterIngredientCollection(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := apiTenant(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		listMasterIngredients(w, r, tenantID)
	case http.MethodPost:
		createMasterIngredient(w, r, tenantID)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// MasterIngredientResource shows, updates and deletes one catalog entry.
func MasterIngredientResource(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := apiTenant(w, r)
	if !ok {
		return
	}
	ingredientID, ok := idParam(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		ingredient, err := repository.MasterIngredient(r.Context(), tenantID, ingredientID)
		if err != nil {
			writeServiceError(w, r, err, "unable to load master ingredient")
			return
		}
		writeJSON(w, http.StatusOK, projectMasterIngredient(ingredient))
	case http.MethodPut:
		updateMasterIngredient(w, r, tenantID, ingredientID)
	case http.MethodDelete:
		if err := repository.DeleteMasterIngredient(r.Context(), tenantID, ingredientID); err != nil {
			writeServiceError(w, r, err, "unable to delete master ingredient")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func listMasterIngredients(w http.ResponseWriter, r *http.Request, tenantID uint) {
	ctx := r.Context()
	ingredients, err := repository.MasterIngredients(ctx, tenantID)
	if err != nil {
		writeServiceError(w, r, err, "unable to load master ingredients")
		return
	}

	category := strings.TrimSpace(r.URL.Query().Get("category"))
	responses := make([]masterIngredientResponse, 0, len(ingredients))
	for _, ingredient := range ingredients {
		if category != "" && !strings.EqualFold(ingredient.Category, category) {
			continue
		}
		responses = append(responses, projectMasterIngredient(ingredient))
	}
	writeJSON(w, http.StatusOK, responses)
}

func createMasterIngredient(w http.ResponseWriter, r *http.Request, tenantID uint) {
	ctx := r.Context()
	var payload masterIngredientRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(ctx, "invalid master ingredient payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if err := validateMasterIngredientPayload(payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	ingredient := payload.apply(models.MasterIngredient{TenantID: tenantID})
	if err := repository.CreateMasterIngredient(ctx, &ingredient); err != nil {
		applog.Error(ctx, "failed to create master ingredient", "error", err)
		writeJSONError(w, http.StatusBadRequest, "unable to create master ingredient")
		return
	}
	writeJSON(w, http.StatusCreated, projectMasterIngredient(ingredient))
}

func updateMasterIngredient(w http.ResponseWriter, r *http.Request, tenantID, ingredientID uint) {
	ctx := r.Context()
	existing, err := repository.MasterIngredient(ctx, tenantID, ingredientID)
	if err != nil {
		writeServiceError(w, r, err, "unable to load master ingredient")
		return
	}

	var payload masterIngredientRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(ctx, "invalid master ingredient update payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if err := validateMasterIngredientPayload(payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated := payload.apply(existing)
	if err := repository.SaveMasterIngredient(ctx, &updated); err != nil {
		writeServiceError(w, r, err, "unable to update master ingredient")
		return
	}
	writeJSON(w, http.StatusOK, projectMasterIngredient(updated))
}

func (p masterIngredientRequest) apply(ingredient models.MasterIngredient) models.MasterIngredient {
	ingredient.Category = strings.TrimSpace(p.Category)
	ingredient.NameEN = strings.TrimSpace(p.NameEN)
	ingredient.NameLocal = strings.TrimSpace(p.NameLocal)
	ingredient.PackageQuantity = p.PackageQuantity
	ingredient.Unit = normalizedUnit(p.Unit)
	ingredient.YieldRate = p.YieldRate
	if ingredient.YieldRate <= 0 {
		ingredient.YieldRate = models.DefaultYieldRate
	}
	return ingredient
}

func validateMasterIngredientPayload(payload masterIngredientRequest) error {
	if strings.TrimSpace(payload.NameEN) == "" && strings.TrimSpace(payload.NameLocal) == "" {
		return errors.New("name_en or name_local is required")
	}
	if payload.PackageQuantity < 0 {
		return errors.New("package_quantity must not be negative")
	}
	if payload.PackageQuantity > maxQuantity {
		return fmt.Errorf("package_quantity must be at most %g", maxQuantity)
	}
	if payload.YieldRate > 100 {
		return errors.New("yield_rate must be at most 100")
	}
	return nil
}

func projectMasterIngredient(ingredient models.MasterIngredient) masterIngredientResponse {
	return masterIngredientResponse{
		ID:              ingredient.ID,
		Category:        ingredient.Category,
		NameEN:          ingredient.NameEN,
		NameLocal:       ingredient.NameLocal,
		PackageQuantity: ingredient.PackageQuantity,
		Unit:            ingredient.Unit,
		YieldRate:       ingredient.EffectiveYieldRate(),
		CreatedAt:       ingredient.CreatedAt,
		UpdatedAt:       ingredient.UpdatedAt,
	}
}

func normalizedUnit(unit string) string {
	trimmed := strings.TrimSpace(unit)
	if trimmed == "" {
		return "g"
	}
	return trimmed
}
