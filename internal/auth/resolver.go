// Package auth resuelve el header Authorization de la acción a partir de
// los secrets inyectados por el invocador.
//
// Se prueban cuatro esquemas en orden fijo de prioridad (gana el primero
// que tenga sus secrets presentes):
//
//  1. Bearer token pre-emitido (BEARER_AUTH_TOKEN)
//  2. Basic auth (BASIC_USERNAME + BASIC_PASSWORD)
//  3. Access token OAuth2 pre-emitido (OAUTH2_AUTHORIZATION_CODE_ACCESS_TOKEN)
//  4. OAuth2 client credentials (intercambio contra TOKEN_URL)
//
// El valor resuelto se calcula en cada invocación, nunca se cachea y
// nunca se loguea.
package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/dropDatabas3/boxkick/internal/acterr"
)

// Secret names recognized by the resolver. These are the keys the
// invoking framework injects into the action's secret map.
const (
	SecretBearerToken = "BEARER_AUTH_TOKEN"

	SecretBasicUsername = "BASIC_USERNAME"
	SecretBasicPassword = "BASIC_PASSWORD"

	SecretOAuth2AccessToken = "OAUTH2_AUTHORIZATION_CODE_ACCESS_TOKEN"

	SecretOAuth2ClientID     = "OAUTH2_CLIENT_CREDENTIALS_CLIENT_ID"
	SecretOAuth2ClientSecret = "OAUTH2_CLIENT_CREDENTIALS_CLIENT_SECRET"
	SecretOAuth2TokenURL     = "OAUTH2_CLIENT_CREDENTIALS_TOKEN_URL"
	SecretOAuth2Scope        = "OAUTH2_CLIENT_CREDENTIALS_SCOPE"
	SecretOAuth2Audience     = "OAUTH2_CLIENT_CREDENTIALS_AUDIENCE"
	SecretOAuth2AuthStyle    = "OAUTH2_CLIENT_CREDENTIALS_AUTH_STYLE"
)

// Resolver calcula el header Authorization. El esquema 4 hace exactamente
// una llamada HTTP saliente; los otros tres son puros.
type Resolver struct {
	HTTP *http.Client
}

// NewResolver crea un Resolver con el http.Client dado (nil usa el default).
func NewResolver(hc *http.Client) *Resolver {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Resolver{HTTP: hc}
}

// strategy es un par predicado → resolución. La tabla ordenada reemplaza
// la cascada de condicionales: el primer applies() que devuelva true
// decide el esquema, aunque su resolve() luego falle.
type strategy struct {
	name    string
	applies func(secrets map[string]string) bool
	resolve func(ctx context.Context, r *Resolver, secrets map[string]string) (string, error)
}

var strategies = []strategy{
	{
		name:    "bearer",
		applies: func(s map[string]string) bool { return secret(s, SecretBearerToken) != "" },
		resolve: func(_ context.Context, _ *Resolver, s map[string]string) (string, error) {
			return bearerize(secret(s, SecretBearerToken)), nil
		},
	},
	{
		name: "basic",
		applies: func(s map[string]string) bool {
			return secret(s, SecretBasicUsername) != "" && secret(s, SecretBasicPassword) != ""
		},
		resolve: func(_ context.Context, _ *Resolver, s map[string]string) (string, error) {
			creds := secret(s, SecretBasicUsername) + ":" + secret(s, SecretBasicPassword)
			return "Basic " + base64.StdEncoding.EncodeToString([]byte(creds)), nil
		},
	},
	{
		name:    "oauth2_access_token",
		applies: func(s map[string]string) bool { return secret(s, SecretOAuth2AccessToken) != "" },
		resolve: func(_ context.Context, _ *Resolver, s map[string]string) (string, error) {
			return bearerize(secret(s, SecretOAuth2AccessToken)), nil
		},
	},
	{
		name:    "oauth2_client_credentials",
		applies: func(s map[string]string) bool { return secret(s, SecretOAuth2ClientSecret) != "" },
		resolve: func(ctx context.Context, r *Resolver, s map[string]string) (string, error) {
			return r.clientCredentials(ctx, s)
		},
	},
}

// Resolve devuelve exactamente un valor de Authorization, o un error
// clasificado. Si ningún esquema tiene sus secrets presentes falla Fatal
// listando los nombres soportados.
func (r *Resolver) Resolve(ctx context.Context, secrets map[string]string) (string, error) {
	for _, st := range strategies {
		if st.applies(secrets) {
			return st.resolve(ctx, r, secrets)
		}
	}
	return "", acterr.Fatalf(
		"No authentication method configured. Supported secrets: %s, %s/%s, %s, %s",
		SecretBearerToken,
		SecretBasicUsername, SecretBasicPassword,
		SecretOAuth2AccessToken,
		SecretOAuth2ClientSecret,
	)
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Scope       string `json:"scope"`
}

// clientCredentials hace el intercambio grant_type=client_credentials
// contra TOKEN_URL. Las credenciales van en header Basic por default, o
// como campos del form cuando AUTH_STYLE lo pide ("params", "form" o "body").
func (r *Resolver) clientCredentials(ctx context.Context, secrets map[string]string) (string, error) {
	clientID := secret(secrets, SecretOAuth2ClientID)
	clientSecret := secret(secrets, SecretOAuth2ClientSecret)
	tokenURL := secret(secrets, SecretOAuth2TokenURL)

	if clientID == "" || tokenURL == "" {
		return "", acterr.Fatal("OAuth2 client credentials flow requires TOKEN_URL and CLIENT_ID")
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	if scope := secret(secrets, SecretOAuth2Scope); scope != "" {
		form.Set("scope", scope)
	}
	if aud := secret(secrets, SecretOAuth2Audience); aud != "" {
		form.Set("audience", aud)
	}

	inParams := credsInParams(secret(secrets, SecretOAuth2AuthStyle))
	if inParams {
		form.Set("client_id", clientID)
		form.Set("client_secret", clientSecret)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", acterr.Fatalf("OAuth2 token request could not be built: %s", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if !inParams {
		req.SetBasicAuth(clientID, clientSecret)
	}

	resp, err := r.HTTP.Do(req)
	if err != nil {
		return "", acterr.Fatalf("OAuth2 token request failed: %s", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		body, _ := io.ReadAll(resp.Body)
		return "", acterr.Fatalf("OAuth2 token endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", acterr.Fatalf("OAuth2 token response is not valid JSON: %s", err)
	}
	if tr.AccessToken == "" {
		return "", acterr.Fatal("No access_token in OAuth2 response")
	}
	return bearerize(tr.AccessToken), nil
}

// credsInParams decide el estilo de autenticación del token endpoint.
// Default: Basic header. "params" / "form" / "body" → campos del form.
func credsInParams(style string) bool {
	switch strings.ToLower(strings.TrimSpace(style)) {
	case "params", "form", "body":
		return true
	}
	return false
}

// bearerize antepone "Bearer " salvo que el token ya venga con prefijo.
func bearerize(token string) string {
	if strings.HasPrefix(token, "Bearer ") {
		return token
	}
	return "Bearer " + token
}

func secret(m map[string]string, key string) string {
	return strings.TrimSpace(m[key])
}
