// Package boxapi es el cliente mínimo de la API de Box que necesita la
// acción: un único POST a /2.0/users/terminate_sessions.
//
// El cliente solo clasifica las respuestas (Retryable vs Fatal), nunca
// reintenta: la política de reintentos vive en el framework invocador.
package boxapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dropDatabas3/boxkick/internal/acterr"
	"github.com/dropDatabas3/boxkick/internal/metrics"
)

const terminateSessionsPath = "/2.0/users/terminate_sessions"

// Client habla con la API de Box usando un Authorization ya resuelto.
type Client struct {
	BaseURL       string
	Authorization string
	HTTP          *http.Client
}

// New crea un Client. baseURL se normaliza sin slash final; hc nil usa
// el http.Client default.
func New(baseURL, authorization string, hc *http.Client) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{
		BaseURL:       strings.TrimRight(baseURL, "/"),
		Authorization: authorization,
		HTTP:          hc,
	}
}

type terminateRequest struct {
	UserIDs    []string `json:"user_ids"`
	UserLogins []string `json:"user_logins"`
}

// TerminateResponse es el body 2xx de Box. Solo nos interesa message
// (si viene) para el resultado de la acción.
type TerminateResponse struct {
	Message string `json:"message"`
}

// TerminateSessions invalida todas las sesiones activas del usuario.
// Cualquier respuesta no-2xx se devuelve como error clasificado según la
// tabla de abajo; el response de un 2xx se decodifica y se retorna.
func (c *Client) TerminateSessions(ctx context.Context, userID, userLogin string) (*TerminateResponse, error) {
	payload, err := json.Marshal(terminateRequest{
		UserIDs:    []string{userID},
		UserLogins: []string{userLogin},
	})
	if err != nil {
		return nil, acterr.Fatalf("Unexpected error: %s", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+terminateSessionsPath, bytes.NewReader(payload))
	if err != nil {
		return nil, acterr.Fatalf("Unexpected error: %s", err)
	}
	req.Header.Set("Authorization", c.Authorization)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		// Error de transporte: sin clasificar, el orquestador lo envuelve
		return nil, err
	}
	defer resp.Body.Close()
	metrics.RecordBoxRequest(resp.StatusCode, time.Since(start))

	if resp.StatusCode/100 != 2 {
		return nil, classify(resp, userID)
	}

	var tr TerminateResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil && err != io.EOF {
		// 2xx con body ilegible: la terminación ya ocurrió, no es fatal
		tr = TerminateResponse{}
	}
	return &tr, nil
}

// classify mapea un status no-2xx al error clasificado. El orden de los
// casos es contractual: 429 antes que el catch-all ≥500, y los 4xx
// conocidos antes que el genérico.
func classify(resp *http.Response, userID string) error {
	status := resp.StatusCode
	switch {
	case status == http.StatusTooManyRequests:
		return acterr.Retryable("Box API rate limit exceeded")
	case status == http.StatusUnauthorized:
		return acterr.Fatal("Invalid or expired authentication token")
	case status == http.StatusForbidden:
		return acterr.Fatal("Insufficient permissions to terminate sessions")
	case status == http.StatusNotFound:
		return acterr.Fatalf("User not found: %s", userID)
	case status >= 500:
		return acterr.Retryablef("Box API server error: %d", status)
	default:
		body, _ := io.ReadAll(resp.Body)
		return acterr.Fatalf("Failed to terminate sessions: %d %s - %s",
			status, http.StatusText(status), strings.TrimSpace(string(body)))
	}
}
