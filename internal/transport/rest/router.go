package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/endemicwatch/endemic-monitoring/internal/alert"
	"github.com/endemicwatch/endemic-monitoring/internal/auth"
	"github.com/endemicwatch/endemic-monitoring/internal/cases"
	"github.com/endemicwatch/endemic-monitoring/internal/content"
	"github.com/endemicwatch/endemic-monitoring/internal/disease"
	"github.com/endemicwatch/endemic-monitoring/internal/stats"
	"github.com/endemicwatch/endemic-monitoring/internal/transport/middleware"
	"github.com/endemicwatch/endemic-monitoring/internal/transport/swagger"
	"github.com/endemicwatch/endemic-monitoring/internal/user"
)

type Handlers struct {
	Auth    *auth.Handler
	User    *user.Handler
	Case    *cases.Handler
	Alert   *alert.Handler
	Disease *disease.Handler
	Content *content.Handler
	Stats   *stats.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	// Apply global middleware
	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	// Mount API under /api/v1 to match OpenAPI basePath
	router.Route("/api/v1", func(r chi.Router) {
		// Health check route
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Auth routes
		if h.Auth != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/register", h.Auth.Register)
				sr.Post("/login", h.Auth.Login)
				// Logout tolerates absent or stale tokens, so it stays
				// outside the authenticated group.
				sr.Post("/logout", h.Auth.Logout)
			})
		}

		// Public routes, no token required
		r.Route("/public", func(pr chi.Router) {
			if h.Case != nil {
				pr.Group(func(vr chi.Router) {
					vr.Use(middleware.RequireAccess(auth.ResourceVerification, auth.ActionRead))
					vr.Get("/verify/{code}", h.Case.Verify)
				})
			}
			if h.Alert != nil {
				pr.Group(func(ar chi.Router) {
					ar.Use(middleware.RequireAccess(auth.ResourcePublicAlerts, auth.ActionRead))
					ar.Get("/alerts", h.Alert.ListPublic)
				})
			}
			if h.Disease != nil {
				pr.Get("/diseases", h.Disease.ListPublic)
			}
			if h.Content != nil {
				pr.Get("/content", h.Content.ListPublic)
				pr.Get("/content/{slug}", h.Content.GetBySlug)
			}
		})

		if h.Auth == nil {
			return
		}

		// Protected routes that require authentication
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Get("/auth/me", h.Auth.Me)

			// Case routes
			if h.Case != nil {
				pr.Route("/cases", func(cr chi.Router) {
					cr.With(middleware.RequireAccess(auth.ResourceCase, auth.ActionList)).Get("/", h.Case.List)
					cr.With(middleware.RequireAccess(auth.ResourceCase, auth.ActionCreate)).Post("/", h.Case.Create)
					cr.With(middleware.RequireAccess(auth.ResourceCase, auth.ActionRead)).Get("/{id}", h.Case.Get)
					cr.With(middleware.RequireAccess(auth.ResourceCase, auth.ActionUpdate)).Patch("/{id}", h.Case.Update)
					cr.With(middleware.RequireAccess(auth.ResourceCase, auth.ActionUpdate)).Put("/{id}", h.Case.Update)
					cr.With(middleware.RequireAccess(auth.ResourceCase, auth.ActionDelete)).Delete("/{id}", h.Case.Delete)
					cr.With(middleware.RequireAccess(auth.ResourceCaseHistory, auth.ActionRead)).Get("/{id}/history", h.Case.History)
				})
			}

			// Alert routes
			if h.Alert != nil {
				pr.Route("/alerts", func(ar chi.Router) {
					ar.With(middleware.RequireAccess(auth.ResourceAlert, auth.ActionList)).Get("/", h.Alert.List)
					ar.With(middleware.RequireAccess(auth.ResourceAlert, auth.ActionCreate)).Post("/", h.Alert.Create)
					ar.With(middleware.RequireAccess(auth.ResourceAlert, auth.ActionRead)).Get("/{id}", h.Alert.Get)
					ar.With(middleware.RequireAccess(auth.ResourceAlert, auth.ActionUpdate)).Patch("/{id}", h.Alert.Update)
					ar.With(middleware.RequireAccess(auth.ResourceAlert, auth.ActionUpdate)).Put("/{id}", h.Alert.Update)
					ar.With(middleware.RequireAccess(auth.ResourceAlert, auth.ActionDelete)).Delete("/{id}", h.Alert.Delete)
				})
			}

			// Disease catalog routes
			if h.Disease != nil {
				pr.Route("/diseases", func(dr chi.Router) {
					dr.With(middleware.RequireAccess(auth.ResourceDisease, auth.ActionList)).Get("/", h.Disease.List)
					dr.With(middleware.RequireAccess(auth.ResourceDisease, auth.ActionCreate)).Post("/", h.Disease.Create)
					dr.With(middleware.RequireAccess(auth.ResourceDisease, auth.ActionRead)).Get("/{id}", h.Disease.Get)
					dr.With(middleware.RequireAccess(auth.ResourceDisease, auth.ActionUpdate)).Patch("/{id}", h.Disease.Update)
					dr.With(middleware.RequireAccess(auth.ResourceDisease, auth.ActionUpdate)).Put("/{id}", h.Disease.Update)
					dr.With(middleware.RequireAccess(auth.ResourceDisease, auth.ActionDelete)).Delete("/{id}", h.Disease.Delete)
				})
			}

			// Content management routes (public reads live under /public)
			if h.Content != nil {
				pr.Route("/content", func(cr chi.Router) {
					cr.With(middleware.RequireAccess(auth.ResourceContent, auth.ActionList)).Get("/", h.Content.List)
					cr.With(middleware.RequireAccess(auth.ResourceContent, auth.ActionCreate)).Post("/", h.Content.Create)
					cr.With(middleware.RequireAccess(auth.ResourceContent, auth.ActionUpdate)).Patch("/{id}", h.Content.Update)
					cr.With(middleware.RequireAccess(auth.ResourceContent, auth.ActionUpdate)).Put("/{id}", h.Content.Update)
					cr.With(middleware.RequireAccess(auth.ResourceContent, auth.ActionDelete)).Delete("/{id}", h.Content.Delete)
				})
			}

			// User administration routes
			if h.User != nil {
				pr.Route("/users", func(ur chi.Router) {
					ur.With(middleware.RequireAccess(auth.ResourceUser, auth.ActionList)).Get("/", h.User.List)
					ur.With(middleware.RequireAccess(auth.ResourceUser, auth.ActionUpdate)).Patch("/{id}/role", h.User.UpdateRole)
					ur.With(middleware.RequireAccess(auth.ResourceUser, auth.ActionUpdate)).Put("/{id}/role", h.User.UpdateRole)
					ur.With(middleware.RequireAccess(auth.ResourceUser, auth.ActionDelete)).Delete("/{id}", h.User.Delete)
				})
			}

			// Statistics routes
			if h.Stats != nil {
				pr.Route("/stats", func(sr chi.Router) {
					sr.Use(middleware.RequireAccess(auth.ResourceStats, auth.ActionRead))
					sr.Get("/dashboard", h.Stats.Dashboard)
					sr.Get("/status", h.Stats.ByStatus)
					sr.Get("/diseases", h.Stats.ByDisease)
					sr.Get("/provinces", h.Stats.ByProvince)
					sr.Get("/timeline", h.Stats.Timeline)
				})
			}
		})
	})
}
