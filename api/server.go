/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the editor frontend

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/invoice", func(r chi.Router) {
			r.Get("/", h.GetInvoice)

			r.Put("/from", h.UpdateFrom)
			r.Put("/to", h.UpdateTo)
			r.Put("/details", h.UpdateDetails)
			r.Put("/payment", h.UpdatePayment)
			r.Put("/terms", h.UpdateTerms)

			r.Route("/items", func(r chi.Router) {
				r.Post("/", h.AddItem)
				r.Patch("/{id}", h.UpdateItem)
				r.Delete("/{id}", h.RemoveItem)
			})

			r.Route("/step", func(r chi.Router) {
				r.Post("/next", h.NextStep)
				r.Post("/prev", h.PrevStep)
			})

			r.Put("/language", h.SetLanguage)
			r.Put("/template", h.SetTemplate)

			r.Post("/reset", h.Reset)
			r.Get("/export", h.Export)
			r.Post("/import", h.Import)
		})

		r.Get("/templates", h.ListTemplates)
	})

	// Minimal index so a bare visit explains the service.
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Invoice Engine</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Invoice Engine API</h1>
<ul>
<li><a href="/api/invoice">/api/invoice</a> - Current editor state</li>
<li><a href="/api/invoice/export">/api/invoice/export</a> - Download the document</li>
<li><a href="/api/templates">/api/templates</a> - List templates</li>
</ul>
</body>
</html>`))
	})

	return r
}
