// Package router define las rutas HTTP del servicio.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dropDatabas3/boxkick/internal/http/handlers"
	"github.com/dropDatabas3/boxkick/internal/http/helpers"
	mw "github.com/dropDatabas3/boxkick/internal/http/middlewares"
	"github.com/dropDatabas3/boxkick/internal/metrics"
)

// New arma el router completo: middlewares base, health, metrics y los
// entry points de la acción bajo /v1/actions.
func New(ah *handlers.ActionsHandler) http.Handler {
	_ = metrics.Register(nil)

	r := chi.NewRouter()
	r.Use(mw.WithRequestID(), mw.WithLogging())

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		helpers.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1/actions", func(r chi.Router) {
		ah.Register(r)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		helpers.WriteError(w, helpers.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		helpers.WriteError(w, helpers.ErrMethodNotAllowed)
	})

	return r
}
