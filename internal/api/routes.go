// Package api wires every handler group onto the chi router.
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ignite/outreach/internal/assembler"
	"github.com/ignite/outreach/internal/auth"
	"github.com/ignite/outreach/internal/compose"
	"github.com/ignite/outreach/internal/format"
	"github.com/ignite/outreach/internal/gmailapi"
	"github.com/ignite/outreach/internal/mailing"
	"github.com/ignite/outreach/internal/scraper"
	"github.com/ignite/outreach/internal/storage"
)

// Handlers collects every route group the router mounts.
type Handlers struct {
	Auth      *auth.Handlers
	Format    *format.Handlers
	Assembler *assembler.Handlers
	Mailing   *mailing.Handlers
	Threads   *gmailapi.Handlers
	Compose   *compose.Handlers
	Scraper   *scraper.Handlers
	Uploads   *storage.Handlers
}

// SetupRoutes builds the router: open health and auth endpoints, and
// everything under /api behind session authentication.
func SetupRoutes(h *Handlers, manager *auth.Manager, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	// CORS with credentials so the browser sends the session cookie.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", HealthCheck)

	r.Post("/auth/register", h.Auth.HandleRegister)
	r.Post("/auth/login", h.Auth.HandleLogin)
	r.Post("/auth/logout", h.Auth.HandleLogout)
	r.Get("/auth/user", h.Auth.HandleUserInfo)

	r.Route("/api", func(r chi.Router) {
		r.Use(manager.RequireAuth)

		r.Get("/profile", h.Auth.HandleGetProfile)
		r.Put("/profile", h.Auth.HandleUpdateProfile)

		r.Get("/company-formats", h.Format.HandleGet)
		r.Post("/company-formats", h.Format.HandleCreate)
		r.Put("/company-formats", h.Format.HandleUpdate)
		r.Delete("/company-formats", h.Format.HandleDelete)
		r.Post("/candidates", h.Format.HandleCandidates)

		r.Route("/assembler", func(r chi.Router) {
			r.Get("/", h.Assembler.HandleSnapshot)
			r.Post("/company", h.Assembler.HandleConfirmCompany)
			r.Post("/people", h.Assembler.HandleAddPerson)
			r.Post("/generate", h.Assembler.HandleGenerate)
			r.Post("/select", h.Assembler.HandleToggle)
			r.Post("/commit", h.Assembler.HandleCommit)
			r.Post("/cancel", h.Assembler.HandleCancel)
		})

		r.Post("/emails/send", h.Mailing.HandleSend)
		r.Get("/emails", h.Mailing.HandleListSent)
		r.Delete("/emails/{id}", h.Mailing.HandleDeleteSent)

		r.Route("/templates", func(r chi.Router) {
			r.Get("/", h.Mailing.HandleListTemplates)
			r.Post("/", h.Mailing.HandleCreateTemplate)
			r.Put("/{id}", h.Mailing.HandleUpdateTemplate)
			r.Delete("/{id}", h.Mailing.HandleDeleteTemplate)
			r.Post("/{id}/preview", h.Mailing.HandlePreviewTemplate)
		})

		r.Get("/threads/{id}", h.Threads.HandleGetThread)
		r.Post("/compose/draft", h.Compose.HandleDraft)
		r.Get("/scrape", h.Scraper.HandleScrape)

		r.Route("/uploads", func(r chi.Router) {
			r.Post("/", h.Uploads.HandleUpload)
			r.Get("/*", h.Uploads.HandleDownload)
			r.Delete("/*", h.Uploads.HandleDelete)
		})
	})

	return r
}
