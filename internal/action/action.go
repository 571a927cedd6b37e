// Package action orquesta la terminación de sesiones Box: validar →
// resolver base URL → resolver Authorization → llamar a Box → armar el
// resultado. Pipeline lineal, sin estado compartido entre invocaciones.
package action

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dropDatabas3/boxkick/internal/acterr"
	"github.com/dropDatabas3/boxkick/internal/auth"
	"github.com/dropDatabas3/boxkick/internal/boxapi"
	"github.com/dropDatabas3/boxkick/internal/metrics"
	"github.com/dropDatabas3/boxkick/internal/observability/logger"
)

const defaultSuccessMessage = "Sessions terminated successfully"

// Handler ejecuta la acción. Es seguro compartirlo entre invocaciones
// concurrentes: solo guarda el http.Client y el resolver, ambos
// thread-safe y de solo lectura.
type Handler struct {
	http     *http.Client
	resolver *auth.Resolver
	log      *zap.Logger

	// now es inyectable para tests de timestamps.
	now func() time.Time
}

// NewHandler crea un Handler. hc nil usa un client con timeout de 10s
// (el timeout global del job lo pone el framework invocador; esto es
// solo el default del transporte).
func NewHandler(hc *http.Client) *Handler {
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	return &Handler{
		http:     hc,
		resolver: auth.NewResolver(hc),
		log:      logger.Named("action"),
		now:      time.Now,
	}
}

// Invoke corre el pipeline completo. Produce exactamente uno de
// {Result, error clasificado}: los errores Retryable/Fatal se propagan
// sin tocar y cualquier otro se envuelve como Fatal.
func (h *Handler) Invoke(ctx context.Context, in Input, ec Context) (res *Result, err error) {
	invID := uuid.NewString()
	log := h.log.With(
		logger.ID(invID),
		logger.UserID(in.UserID),
	)
	defer func() {
		metrics.RecordInvocation(outcome(err))
	}()

	if err = in.Validate(); err != nil {
		log.Warn("input validation failed", logger.Err(err))
		return nil, err
	}

	baseURL, err := ResolveBaseURL(in.Address, ec.Environment, DefaultBaseURL)
	if err != nil {
		// Unreachable con fallback no vacío; se mantiene por simetría
		return nil, acterr.Wrap(err)
	}
	log.Debug("base URL resolved", logger.String("base_url", baseURL))

	// El header nunca se loguea
	authz, err := h.resolver.Resolve(ctx, ec.Secrets)
	if err != nil {
		log.Warn("auth resolution failed", logger.Err(err))
		return nil, acterr.Wrap(err)
	}
	log.Debug("authorization resolved")

	client := boxapi.New(baseURL, authz, h.http)
	tr, err := client.TerminateSessions(ctx, in.UserID, in.UserLogin)
	if err != nil {
		err = acterr.Wrap(err)
		log.Warn("terminate sessions failed", logger.Err(err))
		return nil, err
	}

	msg := tr.Message
	if msg == "" {
		msg = defaultSuccessMessage
	}
	res = &Result{
		UserID:             in.UserID,
		UserLogin:          in.UserLogin,
		SessionsTerminated: true,
		TerminatedAt:       h.now().UTC().Format(time.RFC3339),
		Message:            msg,
	}
	log.Info("sessions terminated", logger.String("message", msg))
	return res, nil
}

// Error es el entry point de passthrough: re-lanza el error ya
// clasificado sin modificarlo. Las decisiones de retry/backoff son del
// framework invocador, no nuestras.
func (h *Handler) Error(ctx context.Context, actErr error, ec Context) error {
	h.log.Warn("error passthrough", logger.Err(actErr))
	return actErr
}

// Halt registra la detención de un job. No hay trabajo real de cleanup
// (no quedan recursos abiertos) y no aborta llamadas en vuelo: es
// puramente informativo. Siempre tiene éxito.
func (h *Handler) Halt(ctx context.Context, in HaltInput, ec Context) *HaltResult {
	userID := in.UserID
	if userID == "" {
		userID = "unknown"
	}
	userLogin := in.UserLogin
	if userLogin == "" {
		userLogin = "unknown"
	}
	h.log.Info("action halted",
		logger.UserID(userID),
		logger.String("reason", in.Reason),
	)
	return &HaltResult{
		UserID:           userID,
		UserLogin:        userLogin,
		Reason:           in.Reason,
		HaltedAt:         h.now().UTC().Format(time.RFC3339),
		CleanupCompleted: true,
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case acterr.IsRetryable(err):
		return "retryable"
	default:
		return "fatal"
	}
}
