package handlers

import (
	"net/http"

	"franchiseops/internal/views/pages"
)

// Home lists the signed-in tenant's recipes with links to their cost reports.
func Home(w http.ResponseWriter, r *http.Request) {
	if repository == nil {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}
	tenantID, ok := currentTenantID(r)
	if !ok {
		redirectToLogin(w, r)
		return
	}

	ctx := r.Context()
	recipes, err := repository.Recipes(ctx, tenantID)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}
	templates, err := repository.PriceTemplates(ctx, tenantID)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	userName := sessionManager.GetString(ctx, sessionUserNameKey)
	renderComponent(w, r, pages.RecipeIndex(pages.NewRecipeIndexData(userName, recipes, templates)))
}
