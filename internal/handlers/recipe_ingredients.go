package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	applog "franchiseops/internal/log"
	"franchiseops/models"
)

type recipeIngredientRequest struct {
	Name               string  `json:"name"`
	Quantity           float64 `json:"quantity"`
	Unit               string  `json:"unit"`
	MasterIngredientID *uint   `json:"master_ingredient_id"`
}

type recipeIngredientResponse struct {
	ID                 uint    `json:"id"`
	Position           int     `json:"position"`
	Name               string  `json:"name"`
	Quantity           float64 `json:"quantity"`
	Unit               string  `json:"unit"`
	MasterIngredientID *uint   `json:"master_ingredient_id,omitempty"`
	Linked             bool    `json:"linked"`
}

type recipeIngredientsResponse struct {
	RecipeID      uint                       `json:"recipe_id"`
	Name          string                     `json:"name"`
	YieldQuantity *float64                   `json:"yield_quantity"`
	YieldUnit     string                     `json:"yield_unit"`
	Ingredients   []recipeIngredientResponse `json:"ingredients"`
}

// RecipeIngredientResource lists or fully replaces a recipe's ingredient lines.
func RecipeIngredientResource(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := apiTenant(w, r)
	if !ok {
		return
	}
	recipeID, ok := idParam(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		recipe, err := repository.Recipe(r.Context(), tenantID, recipeID)
		if err != nil {
			writeServiceError(w, r, err, "unable to load recipe")
			return
		}
		writeJSON(w, http.StatusOK, projectRecipeIngredients(recipe))
	case http.MethodPut:
		replaceRecipeIngredients(w, r, tenantID, recipeID)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func replaceRecipeIngredients(w http.ResponseWriter, r *http.Request, tenantID, recipeID uint) {
	ctx := r.Context()
	var payload []recipeIngredientRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(ctx, "invalid recipe ingredient payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	lines := make([]models.RecipeIngredient, 0, len(payload))
	for i, entry := range payload {
		if err := validateRecipeIngredientPayload(entry); err != nil {
			writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("line %d: %v", i+1, err))
			return
		}
		lines = append(lines, models.RecipeIngredient{
			Name:               strings.TrimSpace(entry.Name),
			Quantity:           entry.Quantity,
			Unit:               normalizedUnit(entry.Unit),
			MasterIngredientID: entry.MasterIngredientID,
		})
	}

	if _, err := repository.ReplaceRecipeIngredients(ctx, tenantID, recipeID, lines); err != nil {
		writeServiceError(w, r, err, "unable to replace recipe ingredients")
		return
	}
	recipe, err := repository.Recipe(ctx, tenantID, recipeID)
	if err != nil {
		writeServiceError(w, r, err, "unable to load recipe")
		return
	}
	applog.Info(ctx, "replaced recipe ingredients", "recipe", recipeID, "lines", len(recipe.Ingredients))
	writeJSON(w, http.StatusOK, projectRecipeIngredients(recipe))
}

func validateRecipeIngredientPayload(payload recipeIngredientRequest) error {
	if strings.TrimSpace(payload.Name) == "" {
		return errors.New("name is required")
	}
	if payload.Quantity < 0 {
		return errors.New("quantity must not be negative")
	}
	if payload.Quantity > maxQuantity {
		return fmt.Errorf("quantity must be at most %g", maxQuantity)
	}
	if payload.MasterIngredientID != nil && *payload.MasterIngredientID == 0 {
		return errors.New("master_ingredient_id must be omitted or positive")
	}
	return nil
}

func projectRecipeIngredients(recipe models.Recipe) recipeIngredientsResponse {
	response := recipeIngredientsResponse{
		RecipeID:      recipe.ID,
		Name:          recipe.Name,
		YieldQuantity: recipe.YieldQuantity,
		YieldUnit:     recipe.YieldUnit,
		Ingredients:   make([]recipeIngredientResponse, 0, len(recipe.Ingredients)),
	}
	for _, line := range recipe.Ingredients {
		response.Ingredients = append(response.Ingredients, recipeIngredientResponse{
			ID:                 line.ID,
			Position:           line.Position,
			Name:               line.Name,
			Quantity:           line.Quantity,
			Unit:               line.Unit,
			MasterIngredientID: line.MasterIngredientID,
			Linked:             line.MasterIngredientID != nil,
		})
	}
	return response
}
