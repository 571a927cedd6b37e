// Package handlers expone la acción detrás de HTTP para poder invocarla
// sin framework de jobs: un POST por entry point.
package handlers

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/boxkick/internal/action"
	"github.com/dropDatabas3/boxkick/internal/http/helpers"
)

// ActionsHandler adapta los entry points de la acción a HTTP.
type ActionsHandler struct {
	Action *action.Handler

	// Snapshot arma el Context de cada invocación. Default: snapshot
	// del environment del proceso (secrets inyectados como env vars).
	Snapshot func() action.Context
}

// NewActionsHandler crea el handler HTTP sobre un action.Handler.
func NewActionsHandler(h *action.Handler) *ActionsHandler {
	return &ActionsHandler{
		Action:   h,
		Snapshot: func() action.Context { return action.ContextFromEnviron(os.Environ()) },
	}
}

// Register registra las rutas de la acción.
func (h *ActionsHandler) Register(r chi.Router) {
	r.Post("/terminate-sessions", h.terminate)
	r.Post("/terminate-sessions/halt", h.halt)
}

func (h *ActionsHandler) terminate(w http.ResponseWriter, r *http.Request) {
	var in action.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		helpers.WriteError(w, helpers.ErrInvalidJSON.WithDetail(err.Error()))
		return
	}

	res, err := h.Action.Invoke(r.Context(), in, h.Snapshot())
	if err != nil {
		httpErr := helpers.FromAction(err)
		if httpErr.Status == http.StatusServiceUnavailable {
			// Retryable: el caller puede repetir el request tal cual
			w.Header().Set("Retry-After", "30")
		}
		helpers.WriteError(w, httpErr)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, res)
}

func (h *ActionsHandler) halt(w http.ResponseWriter, r *http.Request) {
	var in action.HaltInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		helpers.WriteError(w, helpers.ErrInvalidJSON.WithDetail(err.Error()))
		return
	}
	res := h.Action.Halt(r.Context(), in, h.Snapshot())
	helpers.WriteJSON(w, http.StatusOK, res)
}
