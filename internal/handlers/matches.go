package handlers

import (
	"encoding/json"
	"net/http"

	applog "franchiseops/internal/log"
)

const maxMatchNames = 500

type ingredientMatchRequest struct {
	Names []string `json:"names"`
}

// IngredientMatches scores free-text names against the tenant's catalog.
func IngredientMatches(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	tenantID, ok := apiTenant(w, r)
	if !ok {
		return
	}

	var payload ingredientMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(r.Context(), "invalid ingredient match payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if len(payload.Names) > maxMatchNames {
		writeJSONError(w, http.StatusBadRequest, "too many names")
		return
	}

	results, err := costService.Match(r.Context(), tenantID, payload.Names)
	if err != nil {
		writeServiceError(w, r, err, "unable to match ingredient names")
		return
	}
	writeJSON(w, http.StatusOK, results)
}
