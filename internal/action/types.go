package action

import (
	"strings"

	"github.com/dropDatabas3/boxkick/internal/acterr"
	"github.com/dropDatabas3/boxkick/internal/validation"
)

// Input son los parámetros de una invocación. Inmutable después de
// Validate: nadie más lo toca.
type Input struct {
	UserID    string `json:"userId"`
	UserLogin string `json:"userLogin"`
	// Address es el origin de la API de Box. Opcional: si falta se usa
	// ADDRESS del environment y, en última instancia, el default.
	Address string `json:"address,omitempty"`
}

// Context es el snapshot read-only de environment y secrets que inyecta
// el framework invocador. La acción nunca lo muta.
type Context struct {
	Environment map[string]string `json:"environment"`
	Secrets     map[string]string `json:"secrets"`
}

// Result es el resultado de una invocación exitosa.
type Result struct {
	UserID             string `json:"userId"`
	UserLogin          string `json:"userLogin"`
	SessionsTerminated bool   `json:"sessionsTerminated"`
	TerminatedAt       string `json:"terminatedAt"` // RFC 3339
	Message            string `json:"message"`
}

// HaltInput son los parámetros del entry point de halt. UserID/UserLogin
// son best-effort: pueden faltar.
type HaltInput struct {
	UserID    string `json:"userId,omitempty"`
	UserLogin string `json:"userLogin,omitempty"`
	Reason    string `json:"reason"`
}

// HaltResult es el registro que devuelve Halt. No hay cleanup real que
// hacer (la acción no mantiene recursos abiertos ni estado parcial).
type HaltResult struct {
	UserID           string `json:"userId"`
	UserLogin        string `json:"userLogin"`
	Reason           string `json:"reason"`
	HaltedAt         string `json:"haltedAt"` // RFC 3339
	CleanupCompleted bool   `json:"cleanupCompleted"`
}

// Validate chequea presencia y forma de los parámetros. El orden es
// contractual: userId → userLogin presente → userLogin con forma de email.
func (in Input) Validate() error {
	if strings.TrimSpace(in.UserID) == "" {
		return acterr.Fatal("Invalid or missing userId parameter")
	}
	if strings.TrimSpace(in.UserLogin) == "" {
		return acterr.Fatal("Invalid or missing userLogin parameter")
	}
	if !validation.ValidEmail(strings.TrimSpace(in.UserLogin)) {
		return acterr.Fatal("Invalid email format for userLogin")
	}
	return nil
}
