/*
server.go - HTTP router setup

PURPOSE:
  Wires handlers into a chi router with standard middleware. CORS is open for
  local dashboard development.

SEE ALSO:
  - handlers.go: the endpoint implementations
  - cmd/server/main.go: process lifecycle
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter builds the HTTP router for the given handler.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/orgs/{orgID}", func(r chi.Router) {
			r.Get("/teams", h.ListTeams)
			r.Post("/teams", h.CreateTeam)
			r.Get("/overview", h.GetOverview)
			r.Get("/holidays", h.ListHolidays)
			r.Post("/holidays", h.CreateHoliday)
			r.Delete("/holidays/{date}", h.DeleteHoliday)
		})

		r.Route("/teams/{id}", func(r chi.Router) {
			r.Get("/summary", h.GetDailySummary)
			r.Get("/report", h.GetPeriodReport)
		})

		r.Post("/members", h.CreateMember)
		r.Get("/members/{id}/sudden-change", h.GetSuddenChange)
		r.Post("/checkins", h.SubmitCheckIn)

		r.Route("/exemptions", func(r chi.Router) {
			r.Post("/", h.CreateExemption)
			r.Post("/{id}/approve", h.ApproveExemption)
			r.Post("/{id}/reject", h.RejectExemption)
			r.Post("/{id}/end-early", h.EndExemptionEarly)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}
