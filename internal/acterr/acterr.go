// Package acterr define la taxonomía de errores de la acción.
//
// Solo existen dos clases: Retryable (transitorio, el mismo request puede
// funcionar más tarde) y Fatal (reintentar sin cambiar input/credenciales
// no sirve). La clasificación es metadata para la política de reintentos
// del framework invocador; aquí nunca se reintenta nada.
package acterr

import (
	"errors"
	"fmt"
)

// Kind discrimina la clase del error.
type Kind string

const (
	KindRetryable Kind = "retryable"
	KindFatal     Kind = "fatal"
)

// Error is the classified action error. The message is what the caller
// sees verbatim, so it must never contain tokens or secrets.
type Error struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

// Fatal crea un error fatal con el mensaje dado.
func Fatal(msg string) *Error {
	return &Error{Kind: KindFatal, Message: msg}
}

// Fatalf crea un error fatal con formato printf.
func Fatalf(format string, args ...any) *Error {
	return &Error{Kind: KindFatal, Message: fmt.Sprintf(format, args...)}
}

// Retryable crea un error reintentable con el mensaje dado.
func Retryable(msg string) *Error {
	return &Error{Kind: KindRetryable, Message: msg}
}

// Retryablef crea un error reintentable con formato printf.
func Retryablef(format string, args ...any) *Error {
	return &Error{Kind: KindRetryable, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns err unchanged when it is already classified, and wraps
// anything else as Fatal. nil passes through.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return err
	}
	return Fatalf("Unexpected error: %s", err.Error())
}

// As extrae el *Error clasificado de err, si lo hay.
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// IsRetryable reporta si err está clasificado como reintentable.
// Un error sin clasificar nunca es reintentable.
func IsRetryable(err error) bool {
	ae, ok := As(err)
	return ok && ae.Kind == KindRetryable
}
