package controllers

import (
	"net/http"

	"github.com/Gabichuelo/estudio-dj-api/internal/http/helpers"
	"github.com/Gabichuelo/estudio-dj-api/internal/metrics"
	"github.com/Gabichuelo/estudio-dj-api/internal/observability/logger"
	"github.com/Gabichuelo/estudio-dj-api/internal/store"
)

// maxSyncBody acota el body de /api/sync. El homeContent puede traer media
// embebida en base64, por eso el límite es generoso.
const maxSyncBody = 50 << 20 // 50 MiB

// GetSync maneja GET /api/sync: devuelve el estado completo o la forma vacía.
func (c *Controllers) GetSync(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rec, err := c.Store.Read(ctx)
	if err != nil {
		logger.From(ctx).Error("state read failed", logger.Layer("controller"), logger.Err(err))
		helpers.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	metrics.StateReads.Inc()
	helpers.WriteJSON(w, http.StatusOK, rec.Normalize())
}

// PostSync maneja POST /api/sync: reemplazo completo del documento.
//
// Política de escritura: el body provisto pasa a ser el nuevo estado entero
// (campos ausentes quedan en su forma vacía). Last-writer-wins, sin CAS.
func (c *Controllers) PostSync(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, maxSyncBody)

	var rec store.StateRecord
	if !helpers.DecodeJSON(w, r, &rec) {
		return
	}

	if err := c.Store.Replace(ctx, rec); err != nil {
		logger.From(ctx).Error("state replace failed", logger.Layer("controller"), logger.Err(err))
		helpers.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	metrics.StateWrites.Inc()
	helpers.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}
