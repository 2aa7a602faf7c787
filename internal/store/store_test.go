package store

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultState_Shape(t *testing.T) {
	s := DefaultState()
	require.NotNil(t, s.Packs)
	require.NotNil(t, s.Bookings)
	require.NotNil(t, s.HomeContent)
	require.Empty(t, s.Packs)
	require.Empty(t, s.Bookings)
	require.Empty(t, s.HomeContent)
}

func TestNormalize_FillsNilFields(t *testing.T) {
	s := StateRecord{}.Normalize()
	require.NotNil(t, s.Packs)
	require.NotNil(t, s.Bookings)
	require.NotNil(t, s.HomeContent)

	// Campos presentes quedan intactos
	orig := StateRecord{Packs: []any{"a"}}.Normalize()
	require.Equal(t, []any{"a"}, orig.Packs)
}

func TestMollieAPIKey(t *testing.T) {
	require.Empty(t, StateRecord{}.MollieAPIKey())
	require.Empty(t, StateRecord{HomeContent: map[string]any{"payments": "not-a-map"}}.MollieAPIKey())

	rec := StateRecord{HomeContent: map[string]any{
		"payments": map[string]any{"mollieApiKey": "test_abc123"},
	}}
	require.Equal(t, "test_abc123", rec.MollieAPIKey())
}

func TestAdminEmail(t *testing.T) {
	require.Empty(t, StateRecord{}.AdminEmail())
	rec := StateRecord{HomeContent: map[string]any{"adminEmail": "admin@estudio.com"}}
	require.Equal(t, "admin@estudio.com", rec.AdminEmail())
}
