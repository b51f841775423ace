package handler

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handlers groups the handlers mounted by NewRouter.
// Export is nil when no export queue is configured.
type Handlers struct {
	Health       *HealthHandler
	List         *ListHandler
	Form         *FormHandler
	Feedback     *FeedbackHandler
	Export       *ExportHandler
	Notification *NotificationHandler
	Reference    *ReferenceHandler
}

// NewRouter builds the console's HTTP routes
func NewRouter(h Handlers, logger *slog.Logger) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(RecoveryMiddleware(logger))
	r.Use(LoggingMiddleware(logger))
	r.Use(CORSMiddleware)

	r.Get("/health", h.Health.Health)

	r.Route("/customers", func(r chi.Router) {
		r.Route("/view", func(r chi.Router) {
			r.Get("/", h.List.View)
			r.Post("/search", h.List.Search)
			r.Post("/sort", h.List.Sort)
			r.Post("/filters", h.List.SetFilter)
			r.Delete("/filters", h.List.ClearFilters)
			r.Post("/page", h.List.Page)
			r.Post("/mode", h.List.Mode)
			r.Post("/refresh", h.List.Refresh)
		})
		r.Delete("/{id}", h.List.DeleteCustomer)
		r.Get("/{id}/feedback", h.Feedback.List)
		r.Post("/{id}/feedback", h.Feedback.Add)
	})

	r.Route("/feedback/{feedbackID}", func(r chi.Router) {
		r.Put("/", h.Feedback.Update)
		r.Patch("/", h.Feedback.Patch)
		r.Delete("/", h.Feedback.Delete)
	})

	r.Route("/forms", func(r chi.Router) {
		r.Post("/", h.Form.Open)
		r.Route("/{formID}", func(r chi.Router) {
			r.Get("/", h.Form.Get)
			r.Delete("/", h.Form.Discard)
			r.Patch("/fields", h.Form.UpdateFields)
			r.Post("/blur", h.Form.Blur)
			r.Put("/photo", h.Form.SetPhoto)
			r.Delete("/photo", h.Form.RemovePhoto)
			r.Post("/submit", h.Form.Submit)
		})
	})

	if h.Export != nil {
		r.Post("/exports", h.Export.Create)
	}

	r.Get("/notifications", h.Notification.Current)
	r.Delete("/notifications", h.Notification.Dismiss)

	r.Route("/reference", func(r chi.Router) {
		r.Get("/locations", h.Reference.Locations)
		r.Get("/country-codes", h.Reference.CountryCodes)
		r.Get("/terms", h.Reference.Terms)
	})

	return r
}
