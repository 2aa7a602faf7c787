// Package metrics define los contadores Prometheus del servicio. Paquete
// standalone para evitar ciclos de import entre HTTP y los servicios.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	StateReads = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "state_reads_total",
		Help: "Lecturas del documento de estado",
	})

	StateWrites = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "state_writes_total",
		Help: "Reemplazos del documento de estado",
	})

	EmailsSent = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "emails_sent_total",
		Help: "Emails SMTP entregados",
	})

	EmailsFailed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "emails_failed_total",
		Help: "Fallas de dispatch por categoría clasificada",
	}, []string{"category"})

	PaymentsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "payments_created_total",
		Help: "Checkouts de pago creados",
	})
)

// Register registra las métricas en el registry dado (default si es nil).
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{StateReads, StateWrites, EmailsSent, EmailsFailed, PaymentsCreated} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}
