package action

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/boxkick/internal/acterr"
)

func boxBackend(t *testing.T, status int, body string) (*httptest.Server, *http.Request) {
	t.Helper()
	var captured http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = *r
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &captured
}

func TestInvoke_Success(t *testing.T) {
	srv, captured := boxBackend(t, http.StatusOK, `{"message":"ok"}`)

	h := NewHandler(srv.Client())
	h.now = func() time.Time { return time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC) }

	res, err := h.Invoke(context.Background(),
		Input{UserID: "12345", UserLogin: "user@box.com", Address: srv.URL},
		Context{Secrets: map[string]string{"BEARER_AUTH_TOKEN": "abc"}},
	)
	require.NoError(t, err)
	require.True(t, res.SessionsTerminated)
	require.Equal(t, "12345", res.UserID)
	require.Equal(t, "user@box.com", res.UserLogin)
	require.Equal(t, "ok", res.Message)
	require.Equal(t, "2026-08-23T12:00:00Z", res.TerminatedAt)

	require.Equal(t, "/2.0/users/terminate_sessions", captured.URL.Path)
	require.Equal(t, "Bearer abc", captured.Header.Get("Authorization"))
}

func TestInvoke_DefaultSuccessMessage(t *testing.T) {
	srv, _ := boxBackend(t, http.StatusOK, `{}`)

	h := NewHandler(srv.Client())
	res, err := h.Invoke(context.Background(),
		Input{UserID: "1", UserLogin: "a@b.c", Address: srv.URL},
		Context{Secrets: map[string]string{"BEARER_AUTH_TOKEN": "abc"}},
	)
	require.NoError(t, err)
	require.Equal(t, defaultSuccessMessage, res.Message)

	// Timestamp válido RFC 3339
	_, perr := time.Parse(time.RFC3339, res.TerminatedAt)
	require.NoError(t, perr)
}

func TestInvoke_ValidationOrder(t *testing.T) {
	h := NewHandler(nil)
	ec := Context{Secrets: map[string]string{"BEARER_AUTH_TOKEN": "abc"}}

	cases := []struct {
		name string
		in   Input
		msg  string
	}{
		{"missing userId", Input{UserLogin: "a@b.c"}, "Invalid or missing userId parameter"},
		{"blank userId", Input{UserID: "   ", UserLogin: "a@b.c"}, "Invalid or missing userId parameter"},
		{"missing userLogin", Input{UserID: "1"}, "Invalid or missing userLogin parameter"},
		{"blank userLogin", Input{UserID: "1", UserLogin: " "}, "Invalid or missing userLogin parameter"},
		{"bad email", Input{UserID: "1", UserLogin: "not-an-email"}, "Invalid email format for userLogin"},
		// userId se chequea primero aunque ambos falten
		{"both missing", Input{}, "Invalid or missing userId parameter"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := h.Invoke(context.Background(), tc.in, ec)
			require.Error(t, err)
			ae, ok := acterr.As(err)
			require.True(t, ok)
			require.Equal(t, acterr.KindFatal, ae.Kind)
			require.Equal(t, tc.msg, ae.Message)
		})
	}
}

func TestInvoke_EnvAddressFallback(t *testing.T) {
	srv, _ := boxBackend(t, http.StatusOK, `{}`)

	h := NewHandler(srv.Client())
	res, err := h.Invoke(context.Background(),
		Input{UserID: "1", UserLogin: "a@b.c"},
		Context{
			Environment: map[string]string{EnvAddress: srv.URL},
			Secrets:     map[string]string{"BEARER_AUTH_TOKEN": "abc"},
		},
	)
	require.NoError(t, err)
	require.True(t, res.SessionsTerminated)
}

func TestInvoke_ClassifiedErrorsPropagateUnchanged(t *testing.T) {
	srv, _ := boxBackend(t, http.StatusTooManyRequests, "")

	h := NewHandler(srv.Client())
	_, err := h.Invoke(context.Background(),
		Input{UserID: "1", UserLogin: "a@b.c", Address: srv.URL},
		Context{Secrets: map[string]string{"BEARER_AUTH_TOKEN": "abc"}},
	)
	require.Error(t, err)
	require.True(t, acterr.IsRetryable(err))
	ae, _ := acterr.As(err)
	require.Equal(t, "Box API rate limit exceeded", ae.Message)
}

func TestInvoke_UnclassifiedWrappedAsFatal(t *testing.T) {
	// Backend caído: error de transporte sin clasificar
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	h := NewHandler(nil)
	_, err := h.Invoke(context.Background(),
		Input{UserID: "1", UserLogin: "a@b.c", Address: url},
		Context{Secrets: map[string]string{"BEARER_AUTH_TOKEN": "abc"}},
	)
	require.Error(t, err)
	ae, ok := acterr.As(err)
	require.True(t, ok)
	require.Equal(t, acterr.KindFatal, ae.Kind)
	require.Contains(t, ae.Message, "Unexpected error: ")
}

func TestInvoke_NoAuthSecrets(t *testing.T) {
	h := NewHandler(nil)
	_, err := h.Invoke(context.Background(),
		Input{UserID: "1", UserLogin: "a@b.c", Address: "https://example.invalid"},
		Context{},
	)
	require.Error(t, err)
	ae, ok := acterr.As(err)
	require.True(t, ok)
	require.Equal(t, acterr.KindFatal, ae.Kind)
	require.Contains(t, ae.Message, "BEARER_AUTH_TOKEN")
}

func TestInvoke_ClientCredentialsFlow(t *testing.T) {
	// Dos llamadas en secuencia: token endpoint y después Box
	token := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "cc-tok"})
	}))
	defer token.Close()

	var gotAuth string
	box := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(map[string]any{"message": "done"})
	}))
	defer box.Close()

	h := NewHandler(nil)
	res, err := h.Invoke(context.Background(),
		Input{UserID: "1", UserLogin: "a@b.c", Address: box.URL},
		Context{Secrets: map[string]string{
			"OAUTH2_CLIENT_CREDENTIALS_CLIENT_ID":     "cid",
			"OAUTH2_CLIENT_CREDENTIALS_CLIENT_SECRET": "csec",
			"OAUTH2_CLIENT_CREDENTIALS_TOKEN_URL":     token.URL,
		}},
	)
	require.NoError(t, err)
	require.Equal(t, "done", res.Message)
	require.Equal(t, "Bearer cc-tok", gotAuth)
}

func TestError_Passthrough(t *testing.T) {
	h := NewHandler(nil)
	orig := acterr.Retryable("Box API rate limit exceeded")
	got := h.Error(context.Background(), orig, Context{})
	require.Equal(t, error(orig), got)

	fatal := acterr.Fatal("User not found: 1")
	require.Equal(t, error(fatal), h.Error(context.Background(), fatal, Context{}))
}

func TestHalt_Defaults(t *testing.T) {
	h := NewHandler(nil)
	res := h.Halt(context.Background(), HaltInput{Reason: "timeout"}, Context{})
	require.Equal(t, "unknown", res.UserID)
	require.Equal(t, "unknown", res.UserLogin)
	require.Equal(t, "timeout", res.Reason)
	require.True(t, res.CleanupCompleted)

	_, err := time.Parse(time.RFC3339, res.HaltedAt)
	require.NoError(t, err)
}

func TestHalt_SuppliedValues(t *testing.T) {
	h := NewHandler(nil)
	res := h.Halt(context.Background(), HaltInput{UserID: "9", UserLogin: "u@d.tld", Reason: "shutdown"}, Context{})
	require.Equal(t, "9", res.UserID)
	require.Equal(t, "u@d.tld", res.UserLogin)
	require.Equal(t, "shutdown", res.Reason)
	require.True(t, res.CleanupCompleted)
}
