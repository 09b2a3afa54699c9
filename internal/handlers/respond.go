package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"franchiseops/internal/costing"
	applog "franchiseops/internal/log"
	"franchiseops/internal/store"
	"franchiseops/internal/variance"
)

// maxQuantity bounds user-supplied quantities so cost products stay finite.
const maxQuantity = 1e9

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		applog.Error(context.Background(), "failed to encode json response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func serviceErrorStatus(err error) int {
	switch {
	case errors.Is(err, costing.ErrRecipeNotFound),
		errors.Is(err, costing.ErrTemplateNotFound),
		errors.Is(err, costing.ErrVersionNotFound),
		errors.Is(err, variance.ErrPeriodNotFound),
		errors.Is(err, store.ErrIngredientNotFound):
		return http.StatusNotFound
	case errors.Is(err, gorm.ErrInvalidDB):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError maps store and engine errors onto JSON error responses.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, message string) {
	switch status := serviceErrorStatus(err); status {
	case http.StatusNotFound:
		writeJSONError(w, status, err.Error())
	case http.StatusServiceUnavailable:
		writeJSONError(w, status, "service unavailable")
	default:
		applog.Error(r.Context(), message, "error", err)
		writeJSONError(w, status, message)
	}
}

func renderServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := serviceErrorStatus(err)
	if status == http.StatusInternalServerError {
		applog.Error(r.Context(), "failed to render page", "error", err)
	}
	http.Error(w, http.StatusText(status), status)
}

func renderComponent(w http.ResponseWriter, r *http.Request, component templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := component.Render(r.Context(), w); err != nil {
		applog.Error(r.Context(), "failed to render component", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// idParam reads a positive numeric chi route parameter.
func idParam(r *http.Request, name string) (uint, bool) {
	value, err := strconv.ParseUint(chi.URLParam(r, name), 10, 64)
	if err != nil || value == 0 {
		applog.Debug(r.Context(), "invalid route identifier", "param", name, "value", chi.URLParam(r, name))
		return 0, false
	}
	return uint(value), true
}

// apiTenant resolves the caller's tenant for API handlers, answering 503 or
// 401 when it cannot.
func apiTenant(w http.ResponseWriter, r *http.Request) (uint, bool) {
	if repository == nil {
		applog.Debug(r.Context(), "api request without database")
		writeJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return 0, false
	}
	tenantID, ok := currentTenantID(r)
	if !ok {
		applog.Debug(r.Context(), "api request without tenant")
		writeJSONError(w, http.StatusUnauthorized, "unauthorized")
		return 0, false
	}
	return tenantID, true
}
