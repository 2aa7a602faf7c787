// Package email contiene el selector de transporte SMTP, el dispatcher y el
// clasificador de fallas. Una llamada = un intento de entrega, sin retries;
// la idempotencia es responsabilidad del caller.
package email

import (
	"context"
	"crypto/rand"
	"crypto/tls"
	"encoding/hex"
	"fmt"
	"net"
	"strings"
	"time"

	mail "github.com/go-mail/mail"

	"github.com/Gabichuelo/estudio-dj-api/internal/observability/logger"
	"github.com/Gabichuelo/estudio-dj-api/internal/util"
)

// Credentials es el bundle SMTP que viaja en cada request. No se persiste.
type Credentials struct {
	Host     string
	User     string
	Password string
}

// Complete reporta si los tres campos obligatorios están presentes.
func (c Credentials) Complete() bool {
	return strings.TrimSpace(c.Host) != "" &&
		strings.TrimSpace(c.User) != "" &&
		strings.TrimSpace(c.Password) != ""
}

// Message es el contenido a entregar. Vive solo durante el dispatch.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Receipt es el resultado de una entrega exitosa. Transport siempre viene
// seteado (también en fallas) para que el caller pueda loguear la
// configuración resuelta.
type Receipt struct {
	MessageID string
	To        string
	Transport Transport
}

// dialFunc abre y autentica una sesión SMTP. Inyectable en tests.
type dialFunc func(ctx context.Context, t Transport, c Credentials, timeout time.Duration) (mail.SendCloser, error)

// Dispatcher entrega exactamente un mensaje por llamada:
// Idle -> Connecting -> Verifying -> Sending -> {Delivered, Failed}.
type Dispatcher struct {
	// DialTimeout acota conexión + greeting + auth. Default 10s.
	DialTimeout time.Duration
	// SendTimeout acota la operación completa, incluida la fase de datos.
	// Default 20s.
	SendTimeout time.Duration

	dial dialFunc
}

// NewDispatcher crea un Dispatcher con los timeouts default.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		DialTimeout: 10 * time.Second,
		SendTimeout: 20 * time.Second,
		dial:        smtpDial,
	}
}

// Send entrega msg usando creds. Precondición: credenciales completas; si
// falta alguna se falla con MissingCredentials sin tocar la red. Cualquier
// otra falla sale clasificada como *Error.
func (d *Dispatcher) Send(ctx context.Context, msg Message, creds Credentials) (Receipt, error) {
	if !creds.Complete() {
		return Receipt{}, ErrMissingCredentials()
	}

	t := ResolveTransport(creds.Host)
	log := logger.From(ctx).With(
		logger.Component("email.Dispatcher"),
		logger.SMTPHost(t.Host),
		logger.Port(t.Port),
		logger.SecurityMode(string(t.Security)),
	)
	log.Info("transporte SMTP resuelto",
		logger.String("provider", t.Provider),
		logger.String("user", util.MaskEmail(creds.User)),
		logger.Bool("force_ipv4", t.ForceIPv4),
	)

	messageID := newMessageID(creds.User)
	m := mail.NewMessage()
	m.SetHeader("From", creds.User)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetHeader("Message-Id", messageID)
	m.SetBody("text/html", msg.HTML)

	sendTimeout := d.SendTimeout
	if sendTimeout <= 0 {
		sendTimeout = 20 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- d.deliver(ctx, t, creds, m) }()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		err = ctx.Err()
	}
	if err != nil {
		de := Classify(err, t)
		log.Error("dispatch fallido",
			logger.Category(string(de.Category)),
			logger.Err(err),
		)
		return Receipt{Transport: t}, de
	}

	log.Info("email entregado", logger.Recipient(util.MaskEmail(msg.To)))
	return Receipt{MessageID: messageID, To: msg.To, Transport: t}, nil
}

// deliver corre Connecting/Verifying (dial + auth) y después Sending.
// La sesión se cierra en todos los caminos de salida.
func (d *Dispatcher) deliver(ctx context.Context, t Transport, creds Credentials, m *mail.Message) error {
	timeout := d.DialTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	sc, err := d.dial(ctx, t, creds, timeout)
	if err != nil {
		return err
	}
	defer sc.Close()

	return mail.Send(sc, m)
}

// smtpDial abre la sesión real con go-mail según el transporte resuelto.
func smtpDial(ctx context.Context, t Transport, c Credentials, timeout time.Duration) (mail.SendCloser, error) {
	host := t.Host
	tlsCfg := &tls.Config{ServerName: t.Host}

	if t.ForceIPv4 {
		// Pre-resolvemos el registro A y marcamos al IP literal, manteniendo
		// ServerName en el hostname para que la validación de certificado
		// siga siendo estricta. Egress cloud sin ruta IPv6 hacia Gmail es la
		// causa más común de timeouts acá.
		ips, err := net.DefaultResolver.LookupIP(ctx, "ip4", t.Host)
		if err != nil {
			return nil, err
		}
		if len(ips) > 0 {
			host = ips[0].String()
		}
	}

	d := mail.NewDialer(host, t.Port, c.User, c.Password)
	d.Timeout = timeout
	d.TLSConfig = tlsCfg

	switch t.Security {
	case SecurityImplicitTLS:
		d.SSL = true
	default:
		if t.RequireSTARTTLS {
			d.StartTLSPolicy = mail.MandatoryStartTLS
		} else {
			d.StartTLSPolicy = mail.OpportunisticStartTLS
		}
	}

	return d.Dial()
}

// newMessageID genera un Message-Id tipo <rand@dominio>.
func newMessageID(from string) string {
	var b [12]byte
	_, _ = rand.Read(b[:])
	domain := "estudio-dj-api"
	if i := strings.LastIndex(from, "@"); i >= 0 && i < len(from)-1 {
		domain = from[i+1:]
	}
	return fmt.Sprintf("<%s@%s>", hex.EncodeToString(b[:]), domain)
}
