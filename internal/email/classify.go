package email

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// Category clasifica una falla de dispatch en una categoría user-facing.
type Category string

const (
	CategoryMissingCredentials Category = "MissingCredentials"
	CategoryConnectionTimeout  Category = "ConnectionTimeout"
	CategoryAuthFailed         Category = "AuthenticationFailed"
	CategoryAddressUnavailable Category = "AddressUnavailable"
	CategoryUnknown            Category = "Unknown"
)

// Error es una falla de dispatch clasificada. Message es el texto para el
// usuario; Err conserva el error original solo para diagnóstico.
type Error struct {
	Category Category
	Message  string
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Category, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Category, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Original devuelve el texto del error subyacente, o "" si no hay.
func (e *Error) Original() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

// ErrMissingCredentials construye la falla de precondición: faltan
// host/usuario/password. No se intenta ninguna conexión en este caso.
func ErrMissingCredentials() *Error {
	return &Error{
		Category: CategoryMissingCredentials,
		Message:  "Faltan credenciales SMTP: host, usuario y password son obligatorios.",
	}
}

// Classify convierte un error de transporte en un *Error con categoría y
// mensaje user-facing. El transporte resuelto permite enriquecer el texto
// con causas específicas del proveedor (ej. IPv6/firewall para Gmail).
// Adaptado del clasificador por substring de códigos SMTP habituales.
func Classify(err error, t Transport) *Error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) {
		return de
	}

	s := strings.ToLower(err.Error())

	// timeouts: net.Error, context deadline o texto típico
	var ne net.Error
	timedOut := errors.Is(err, context.DeadlineExceeded) ||
		(errors.As(err, &ne) && ne.Timeout()) ||
		strings.Contains(s, "timeout") || strings.Contains(s, "i/o timeout")
	if timedOut {
		msg := "No se pudo establecer la sesión SMTP dentro del tiempo límite. Revisá red y firewall de salida."
		if t.IsGmail() {
			msg = "Timeout conectando a Gmail. Causas típicas: el hosting no rutea IPv6 hacia Google o el firewall bloquea el puerto 587; probá forzar IPv4."
		}
		return &Error{Category: CategoryConnectionTimeout, Message: msg, Err: err}
	}

	// DNS: el host no resuelve
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) || strings.Contains(s, "no such host") {
		return &Error{
			Category: CategoryAddressUnavailable,
			Message:  fmt.Sprintf("No se pudo resolver el servidor de correo %q. Verificá el hostname SMTP.", t.Host),
			Err:      err,
		}
	}

	// auth: credenciales rechazadas (535 / 5.7.8 y variantes)
	if strings.Contains(s, "535") || strings.Contains(s, "5.7.8") ||
		strings.Contains(s, "username and password not accepted") ||
		strings.Contains(s, "authentication failed") ||
		strings.Contains(s, "invalid credentials") {
		return &Error{
			Category: CategoryAuthFailed,
			Message:  "El servidor rechazó las credenciales. Si la cuenta tiene verificación en dos pasos, generá una contraseña de aplicación.",
			Err:      err,
		}
	}

	return &Error{
		Category: CategoryUnknown,
		Message:  "El envío falló por un error no clasificado.",
		Err:      err,
	}
}
