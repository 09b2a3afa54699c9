package handlers

import (
	"errors"
	"net/http"

	"franchiseops/internal/costing"
	"franchiseops/internal/views/pages"
	"franchiseops/models"
)

// CostVersionResource recalculates (POST) or shows (GET) the cost version of
// a recipe against a price template.
func CostVersionResource(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := apiTenant(w, r)
	if !ok {
		return
	}
	recipeID, okRecipe := idParam(r, "id")
	templateID, okTemplate := idParam(r, "templateID")
	if !okRecipe || !okTemplate {
		http.NotFound(w, r)
		return
	}

	ctx := r.Context()
	switch r.Method {
	case http.MethodPost:
		version, err := costService.Recalculate(ctx, tenantID, recipeID, templateID)
		if err != nil {
			writeServiceError(w, r, err, "unable to calculate recipe cost")
			return
		}
		writeJSON(w, http.StatusOK, version)
	case http.MethodGet:
		version, err := costService.Version(ctx, tenantID, recipeID, templateID)
		if err != nil {
			writeServiceError(w, r, err, "unable to load cost version")
			return
		}
		writeJSON(w, http.StatusOK, version)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// RecipeAutoLink links high-confidence matches and returns the rest as suggestions.
func RecipeAutoLink(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	tenantID, ok := apiTenant(w, r)
	if !ok {
		return
	}
	recipeID, ok := idParam(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}

	report, err := costService.AutoLink(r.Context(), tenantID, recipeID)
	if err != nil {
		writeServiceError(w, r, err, "unable to link recipe ingredients")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// CostReport renders the stored cost version as HTML, calculating it on first
// view. A recalc=1 query parameter forces a recalculation.
func CostReport(w http.ResponseWriter, r *http.Request) {
	if repository == nil {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}
	tenantID, ok := currentTenantID(r)
	if !ok {
		redirectToLogin(w, r)
		return
	}
	recipeID, okRecipe := idParam(r, "id")
	templateID, okTemplate := idParam(r, "templateID")
	if !okRecipe || !okTemplate {
		http.NotFound(w, r)
		return
	}

	ctx := r.Context()
	recipe, err := repository.Recipe(ctx, tenantID, recipeID)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}
	template, err := repository.PriceTemplate(ctx, tenantID, templateID)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	var version models.CostVersion
	if r.URL.Query().Get("recalc") == "1" {
		version, err = costService.Recalculate(ctx, tenantID, recipeID, templateID)
	} else {
		version, err = costService.Version(ctx, tenantID, recipeID, templateID)
		if errors.Is(err, costing.ErrVersionNotFound) {
			version, err = costService.Recalculate(ctx, tenantID, recipeID, templateID)
		}
	}
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	data := pages.NewCostReportData(recipe, template, version)
	if isHTMX(r) {
		renderComponent(w, r, pages.CostReportPartial(data))
		return
	}
	renderComponent(w, r, pages.CostReport(data))
}
