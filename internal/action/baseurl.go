package action

import (
	"strings"

	"github.com/dropDatabas3/boxkick/internal/acterr"
)

// EnvAddress es la variable de environment con el origin de la API.
const EnvAddress = "ADDRESS"

// DefaultBaseURL es el origin bien conocido de la API de Box, usado
// cuando la configuración no trae ninguno (address es opcional en el
// contrato de esta acción).
const DefaultBaseURL = "https://api.box.com"

// ResolveBaseURL elige el origin: address explícito > env ADDRESS >
// fallback. Con fallback vacío la falta de origin es un error Fatal
// (para callers cuyo contrato exige address). Puro, sin I/O; recorta un
// único slash final.
func ResolveBaseURL(address string, env map[string]string, fallback string) (string, error) {
	if u := strings.TrimSpace(address); u != "" {
		return strings.TrimSuffix(u, "/"), nil
	}
	if u := strings.TrimSpace(env[EnvAddress]); u != "" {
		return strings.TrimSuffix(u, "/"), nil
	}
	if fallback != "" {
		return strings.TrimSuffix(fallback, "/"), nil
	}
	return "", acterr.Fatal("No URL specified. Provide the address parameter or the ADDRESS environment variable")
}
