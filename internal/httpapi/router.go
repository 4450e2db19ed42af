// Package httpapi serves the spreadsheet operations as a JSON HTTP API
package httpapi

import (
	"net/http"
	"time"

	"sheets_bridge/internal/operations"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

// NewRouter returns a handler with every route applied
func NewRouter(s *operations.Sheets) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	return applyRoutes(r, &Handler{sheets: s})
}

func applyRoutes(r chi.Router, h *Handler) chi.Router {
	r.Route("/sheets/{sheet}", func(r chi.Router) {
		r.Get("/", h.readSheet)

		r.Get("/cells/{ref}", h.readCell)
		r.Put("/cells/{ref}", h.writeCell)

		r.Post("/rows", h.addRow)
		r.Get("/rows/{row}", h.readRow)
		r.Put("/rows/{row}", h.writeRow)

		r.Post("/columns", h.addColumn)
		r.Get("/columns/{column}", h.readColumn)
		r.Put("/columns/{column}", h.writeColumn)

		r.Get("/ranges/{ref}", h.readRange)
		r.Put("/ranges/{ref}", h.writeRange)
	})

	r.Route("/grids/{gridID}", func(r chi.Router) {
		r.Delete("/rows/{row}", h.removeRow)
		r.Delete("/columns/{column}", h.removeColumn)
	})

	r.Route("/refs", func(r chi.Router) {
		r.Get("/cell", h.cellReference)
		r.Get("/range", h.rangeReference)
	})

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("request_id", middleware.GetReqID(r.Context())).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("Handled request")
	})
}
