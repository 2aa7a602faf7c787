// Package memory implementa el Repository en memoria.
// Se usa en tests y como modo degradado cuando no hay URI de base de datos.
package memory

import (
	"context"
	"sync"

	"github.com/Gabichuelo/estudio-dj-api/internal/store"
)

type Store struct {
	mu  sync.RWMutex
	rec *store.StateRecord
}

func New() *Store {
	return &Store{}
}

func (s *Store) Read(ctx context.Context) (store.StateRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.rec == nil {
		return store.DefaultState(), nil
	}
	return copyRecord(*s.rec), nil
}

func (s *Store) Replace(ctx context.Context, rec store.StateRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := copyRecord(rec.Normalize())
	s.rec = &c
	return nil
}

func (s *Store) Ping(ctx context.Context) error { return nil }

func (s *Store) Close(ctx context.Context) error { return nil }

// copyRecord copia los slices top-level para que el caller no pueda
// mutar el estado guardado por referencia. Los elementos siguen siendo
// opacos y compartidos; suficiente para el uso real (blobs decodificados de JSON).
func copyRecord(rec store.StateRecord) store.StateRecord {
	out := store.StateRecord{
		Packs:       make([]any, len(rec.Packs)),
		Bookings:    make([]any, len(rec.Bookings)),
		HomeContent: make(map[string]any, len(rec.HomeContent)),
	}
	copy(out.Packs, rec.Packs)
	copy(out.Bookings, rec.Bookings)
	for k, v := range rec.HomeContent {
		out.HomeContent[k] = v
	}
	return out
}
