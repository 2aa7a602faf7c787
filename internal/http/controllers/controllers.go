// Package controllers implementa los handlers HTTP del API.
package controllers

import (
	"github.com/Gabichuelo/estudio-dj-api/internal/email"
	"github.com/Gabichuelo/estudio-dj-api/internal/payments"
	"github.com/Gabichuelo/estudio-dj-api/internal/store"
)

// Controllers agrupa los handlers con sus dependencias inyectadas.
// No hay estado mutable a nivel de paquete: el store y los clients llegan
// por construcción (ver main.go).
type Controllers struct {
	Store      store.Repository
	Dispatcher *email.Dispatcher
	Notifier   *email.Notifier
	Payments   *payments.Client

	// AdminEmail es el fallback cuando el estado no trae homeContent.adminEmail.
	AdminEmail string
}

func New(repo store.Repository, d *email.Dispatcher, n *email.Notifier, p *payments.Client, adminEmail string) *Controllers {
	return &Controllers{
		Store:      repo,
		Dispatcher: d,
		Notifier:   n,
		Payments:   p,
		AdminEmail: adminEmail,
	}
}
