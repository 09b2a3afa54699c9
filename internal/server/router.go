package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"franchiseops/internal/handlers"
	applog "franchiseops/internal/log"
	"franchiseops/internal/metrics"
)

func newRouter(recorder *metrics.Recorder, metricsPath string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recoverer)
	applog.Debug(context.Background(), "registering http routes")

	r.Get("/healthz", handlers.Health)
	if metricsPath != "" {
		r.Handle(metricsPath, recorder.Handler())
		applog.Debug(context.Background(), "route registered", "path", metricsPath)
	}
	r.HandleFunc("/login", handlers.Login)
	r.HandleFunc("/logout", handlers.Logout)
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/app", http.StatusFound)
	})

	r.Group(func(r chi.Router) {
		r.Use(handlers.RequireAuthentication)
		r.Get("/app", handlers.Home)
		r.Get("/app/recipes/{id}/costs/{templateID}", handlers.CostReport)
	})
	applog.Debug(context.Background(), "route registered", "path", "/app", "protected", true)

	r.Route("/app/api", func(r chi.Router) {
		r.Use(handlers.RequireAPIAuthentication)
		r.HandleFunc("/master-ingredients", handlers.MasterIngredientCollection)
		r.HandleFunc("/master-ingredients/{id}", handlers.MasterIngredientResource)
		r.HandleFunc("/recipes/{id}/ingredients", handlers.RecipeIngredientResource)
		r.HandleFunc("/recipes/{id}/auto-link", handlers.RecipeAutoLink)
		r.HandleFunc("/recipes/{id}/costs/{templateID}", handlers.CostVersionResource)
		r.HandleFunc("/ingredient-matches", handlers.IngredientMatches)
		r.HandleFunc("/inventory-periods/{id}/variance", handlers.InventoryVariance)
		r.HandleFunc("/manual-imports", handlers.ManualImport)
	})
	applog.Debug(context.Background(), "route registered", "path", "/app/api", "protected", true)
	return r
}
