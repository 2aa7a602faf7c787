// Package store define el registro de estado singleton y el contrato de persistencia.
package store

import (
	"context"
	"errors"
)

// StateID es el identificador fijo del documento de estado.
// Existe a lo sumo un registro y siempre se direcciona por esta clave.
const StateID = "main"

// ErrUnavailable indica que el backend de almacenamiento no está accesible.
// Un documento ausente NO es un error: Read devuelve DefaultState().
var ErrUnavailable = errors.New("store: backend unavailable")

// StateRecord es el agregado completo que sincroniza el frontend.
// Packs y Bookings son secuencias opacas cuyo esquema es del caller;
// el orden se preserva tal cual llegó. HomeContent es un mapa libre que
// puede incluir payments.mollieApiKey y adminEmail.
type StateRecord struct {
	Packs       []any          `json:"packs" bson:"packs"`
	Bookings    []any          `json:"bookings" bson:"bookings"`
	HomeContent map[string]any `json:"homeContent" bson:"homeContent"`
}

// DefaultState devuelve la forma vacía documentada: {packs:[], bookings:[], homeContent:{}}.
func DefaultState() StateRecord {
	return StateRecord{
		Packs:       []any{},
		Bookings:    []any{},
		HomeContent: map[string]any{},
	}
}

// Normalize reemplaza campos nil por su forma vacía para que la
// serialización JSON nunca emita null en los tres campos top-level.
func (s StateRecord) Normalize() StateRecord {
	if s.Packs == nil {
		s.Packs = []any{}
	}
	if s.Bookings == nil {
		s.Bookings = []any{}
	}
	if s.HomeContent == nil {
		s.HomeContent = map[string]any{}
	}
	return s
}

// MollieAPIKey extrae homeContent.payments.mollieApiKey si está presente.
func (s StateRecord) MollieAPIKey() string {
	payments, ok := s.HomeContent["payments"].(map[string]any)
	if !ok {
		return ""
	}
	key, _ := payments["mollieApiKey"].(string)
	return key
}

// AdminEmail extrae homeContent.adminEmail si está presente.
func (s StateRecord) AdminEmail() string {
	v, _ := s.HomeContent["adminEmail"].(string)
	return v
}

// Repository es el contrato de acceso al documento de estado.
//
// Política de escritura: reemplazo completo del documento (last-writer-wins).
// No hay compare-and-swap; escrituras concurrentes pueden pisarse entre sí.
// Limitación aceptada, no un defecto a corregir.
type Repository interface {
	// Read devuelve el registro o DefaultState() si no existe.
	Read(ctx context.Context) (StateRecord, error)

	// Replace upserta el documento completo.
	Replace(ctx context.Context, rec StateRecord) error

	// Ping verifica conectividad con el backend.
	Ping(ctx context.Context) error

	// Close libera la conexión subyacente. Idempotente.
	Close(ctx context.Context) error
}
