package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Gabichuelo/estudio-dj-api/internal/store"
)

func TestRead_EmptyStoreReturnsDefault(t *testing.T) {
	s := New()
	rec, err := s.Read(context.Background())
	require.NoError(t, err)
	require.Equal(t, store.DefaultState(), rec)
}

func TestReplaceRead_RoundTrip(t *testing.T) {
	s := New()
	in := store.StateRecord{
		Packs:    []any{map[string]any{"name": "Pack Básico", "price": 99.0}},
		Bookings: []any{map[string]any{"cliente": "Lucía"}, map[string]any{"cliente": "Marcos"}},
		HomeContent: map[string]any{
			"adminEmail": "admin@estudio.com",
			"payments":   map[string]any{"mollieApiKey": "test_k"},
		},
	}
	require.NoError(t, s.Replace(context.Background(), in))

	out, err := s.Read(context.Background())
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestReplace_IsFullReplace(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.Replace(ctx, store.StateRecord{
		Packs:       []any{"p1"},
		HomeContent: map[string]any{"k": "v"},
	}))
	// El segundo write reemplaza el documento entero: packs desaparece.
	require.NoError(t, s.Replace(ctx, store.StateRecord{Bookings: []any{"b1"}}))

	out, err := s.Read(ctx)
	require.NoError(t, err)
	require.Empty(t, out.Packs)
	require.Equal(t, []any{"b1"}, out.Bookings)
	require.Empty(t, out.HomeContent)
}

func TestRead_ReturnsIsolatedCopy(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.Replace(ctx, store.StateRecord{Packs: []any{"p1"}}))

	first, err := s.Read(ctx)
	require.NoError(t, err)
	first.Packs[0] = "mutado"
	first.HomeContent["extra"] = true

	second, err := s.Read(ctx)
	require.NoError(t, err)
	require.Equal(t, []any{"p1"}, second.Packs)
	require.Empty(t, second.HomeContent)
}

func TestOrderPreserved(t *testing.T) {
	s := New()
	ctx := context.Background()
	in := store.StateRecord{Bookings: []any{"c", "a", "b"}}
	require.NoError(t, s.Replace(ctx, in))
	out, err := s.Read(ctx)
	require.NoError(t, err)
	require.Equal(t, []any{"c", "a", "b"}, out.Bookings)
}
