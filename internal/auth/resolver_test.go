package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/boxkick/internal/acterr"
)

func TestResolve_BearerToken(t *testing.T) {
	r := NewResolver(nil)

	got, err := r.Resolve(context.Background(), map[string]string{SecretBearerToken: "abc"})
	require.NoError(t, err)
	require.Equal(t, "Bearer abc", got)

	// Ya prefijado: no se duplica
	got, err = r.Resolve(context.Background(), map[string]string{SecretBearerToken: "Bearer abc"})
	require.NoError(t, err)
	require.Equal(t, "Bearer abc", got)
}

func TestResolve_Basic(t *testing.T) {
	r := NewResolver(nil)
	got, err := r.Resolve(context.Background(), map[string]string{
		SecretBasicUsername: "admin",
		SecretBasicPassword: "s3cret",
	})
	require.NoError(t, err)

	want := "Basic " + base64.StdEncoding.EncodeToString([]byte("admin:s3cret"))
	require.Equal(t, want, got)
}

func TestResolve_BasicRequiresBothParts(t *testing.T) {
	r := NewResolver(nil)
	_, err := r.Resolve(context.Background(), map[string]string{SecretBasicUsername: "admin"})
	require.Error(t, err)
	ae, ok := acterr.As(err)
	require.True(t, ok)
	require.Equal(t, acterr.KindFatal, ae.Kind)
}

func TestResolve_PriorityBearerOverBasic(t *testing.T) {
	r := NewResolver(nil)
	got, err := r.Resolve(context.Background(), map[string]string{
		SecretBearerToken:   "tok",
		SecretBasicUsername: "admin",
		SecretBasicPassword: "pw",
	})
	require.NoError(t, err)
	require.Equal(t, "Bearer tok", got)
}

func TestResolve_PreissuedOAuth2AccessToken(t *testing.T) {
	r := NewResolver(nil)
	got, err := r.Resolve(context.Background(), map[string]string{SecretOAuth2AccessToken: "xyz"})
	require.NoError(t, err)
	require.Equal(t, "Bearer xyz", got)
}

func TestResolve_NoSecrets(t *testing.T) {
	r := NewResolver(nil)
	_, err := r.Resolve(context.Background(), map[string]string{})
	require.Error(t, err)

	ae, ok := acterr.As(err)
	require.True(t, ok)
	require.Equal(t, acterr.KindFatal, ae.Kind)
	// El mensaje tiene que listar todos los métodos soportados
	for _, name := range []string{
		SecretBearerToken,
		SecretBasicUsername,
		SecretBasicPassword,
		SecretOAuth2AccessToken,
		SecretOAuth2ClientSecret,
	} {
		require.Contains(t, ae.Message, name)
	}
}

func TestClientCredentials_BasicHeaderStyle(t *testing.T) {
	var gotAuth, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, r.ParseForm())
		gotBody = r.PostForm.Encode()
		_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "cc-token", "token_type": "bearer"})
	}))
	defer srv.Close()

	r := NewResolver(srv.Client())
	got, err := r.Resolve(context.Background(), map[string]string{
		SecretOAuth2ClientID:     "cid",
		SecretOAuth2ClientSecret: "csec",
		SecretOAuth2TokenURL:     srv.URL,
		SecretOAuth2Scope:        "manage_users",
	})
	require.NoError(t, err)
	require.Equal(t, "Bearer cc-token", got)

	// Credenciales en header Basic, no en el form
	wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("cid:csec"))
	require.Equal(t, wantAuth, gotAuth)
	require.Contains(t, gotBody, "grant_type=client_credentials")
	require.Contains(t, gotBody, "scope=manage_users")
	require.NotContains(t, gotBody, "client_secret")
}

func TestClientCredentials_ParamsStyle(t *testing.T) {
	var gotAuth, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, r.ParseForm())
		gotBody = r.PostForm.Encode()
		_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "cc-token"})
	}))
	defer srv.Close()

	r := NewResolver(srv.Client())
	_, err := r.Resolve(context.Background(), map[string]string{
		SecretOAuth2ClientID:     "cid",
		SecretOAuth2ClientSecret: "csec",
		SecretOAuth2TokenURL:     srv.URL,
		SecretOAuth2Audience:     "https://api.box.com",
		SecretOAuth2AuthStyle:    "params",
	})
	require.NoError(t, err)

	require.Empty(t, gotAuth)
	require.Contains(t, gotBody, "client_id=cid")
	require.Contains(t, gotBody, "client_secret=csec")
	require.Contains(t, gotBody, "audience="+url.QueryEscape("https://api.box.com"))
}

func TestClientCredentials_MissingIDOrURL(t *testing.T) {
	r := NewResolver(nil)
	for _, secrets := range []map[string]string{
		{SecretOAuth2ClientSecret: "csec"},
		{SecretOAuth2ClientSecret: "csec", SecretOAuth2ClientID: "cid"},
		{SecretOAuth2ClientSecret: "csec", SecretOAuth2TokenURL: "http://x"},
	} {
		_, err := r.Resolve(context.Background(), secrets)
		require.Error(t, err)
		ae, ok := acterr.As(err)
		require.True(t, ok)
		require.Equal(t, acterr.KindFatal, ae.Kind)
		require.Contains(t, ae.Message, "requires TOKEN_URL and CLIENT_ID")
	}
}

func TestClientCredentials_TokenEndpointError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_client"}`))
	}))
	defer srv.Close()

	r := NewResolver(srv.Client())
	_, err := r.Resolve(context.Background(), map[string]string{
		SecretOAuth2ClientID:     "cid",
		SecretOAuth2ClientSecret: "bad",
		SecretOAuth2TokenURL:     srv.URL,
	})
	require.Error(t, err)
	ae, ok := acterr.As(err)
	require.True(t, ok)
	require.Equal(t, acterr.KindFatal, ae.Kind)
	require.Contains(t, ae.Message, "400")
	require.Contains(t, ae.Message, "invalid_client")
}

func TestClientCredentials_NoAccessToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"token_type": "bearer"})
	}))
	defer srv.Close()

	r := NewResolver(srv.Client())
	_, err := r.Resolve(context.Background(), map[string]string{
		SecretOAuth2ClientID:     "cid",
		SecretOAuth2ClientSecret: "csec",
		SecretOAuth2TokenURL:     srv.URL,
	})
	require.Error(t, err)
	ae, ok := acterr.As(err)
	require.True(t, ok)
	require.Equal(t, "No access_token in OAuth2 response", ae.Message)
}
