package handlers

import "net/http"

// InventoryVariance recomputes theoretical usage and variance for a period.
func InventoryVariance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	tenantID, ok := apiTenant(w, r)
	if !ok {
		return
	}
	periodID, ok := idParam(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}

	report, err := varianceService.Recompute(r.Context(), tenantID, periodID)
	if err != nil {
		writeServiceError(w, r, err, "unable to compute inventory variance")
		return
	}
	writeJSON(w, http.StatusOK, report)
}
