package email

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	mail "github.com/go-mail/mail"
)

// fakeSession implementa mail.SendCloser y registra lo enviado.
type fakeSession struct {
	from   string
	to     []string
	closed bool
	err    error
}

func (f *fakeSession) Send(from string, to []string, msg io.WriterTo) error {
	f.from, f.to = from, to
	if f.err != nil {
		return f.err
	}
	_, err := msg.WriteTo(io.Discard)
	return err
}

func (f *fakeSession) Close() error {
	f.closed = true
	return nil
}

func newTestDispatcher(dial dialFunc) *Dispatcher {
	d := NewDispatcher()
	d.dial = dial
	return d
}

func TestSend_MissingCredentials_NoNetwork(t *testing.T) {
	dials := 0
	d := newTestDispatcher(func(ctx context.Context, tr Transport, c Credentials, timeout time.Duration) (mail.SendCloser, error) {
		dials++
		return &fakeSession{}, nil
	})

	cases := []Credentials{
		{},
		{Host: "smtp.gmail.com", User: "a@b.c"},
		{Host: "smtp.gmail.com", Password: "x"},
		{User: "a@b.c", Password: "x"},
		{Host: "   ", User: "a@b.c", Password: "x"},
	}
	for _, creds := range cases {
		_, err := d.Send(context.Background(), Message{To: "x@y.z"}, creds)
		de, ok := err.(*Error)
		if !ok || de.Category != CategoryMissingCredentials {
			t.Fatalf("%+v: err = %v, want MissingCredentials", creds, err)
		}
	}
	if dials != 0 {
		t.Fatalf("se intentaron %d conexiones; con credenciales incompletas no debe haber I/O de red", dials)
	}
}

func TestSend_Success(t *testing.T) {
	sess := &fakeSession{}
	d := newTestDispatcher(func(ctx context.Context, tr Transport, c Credentials, timeout time.Duration) (mail.SendCloser, error) {
		return sess, nil
	})

	rcpt, err := d.Send(context.Background(), Message{
		To:      "cliente@example.org",
		Subject: "Reserva confirmada",
		HTML:    "<p>ok</p>",
	}, Credentials{Host: "smtp.hostinger.com", User: "info@estudio.com", Password: "secreta"})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	if rcpt.To != "cliente@example.org" {
		t.Fatalf("To = %q", rcpt.To)
	}
	if rcpt.MessageID == "" || !strings.Contains(rcpt.MessageID, "@estudio.com") {
		t.Fatalf("MessageID = %q, debe incluir el dominio del remitente", rcpt.MessageID)
	}
	if rcpt.Transport.Port != 465 || rcpt.Transport.Security != SecurityImplicitTLS {
		t.Fatalf("transporte resuelto inesperado: %+v", rcpt.Transport)
	}
	if len(sess.to) != 1 || sess.to[0] != "cliente@example.org" {
		t.Fatalf("sesión envió a %v", sess.to)
	}
	if !sess.closed {
		t.Fatal("la sesión debe cerrarse tras el envío")
	}
}

func TestSend_GreetingNeverCompletes_ClassifiesTimeout(t *testing.T) {
	d := newTestDispatcher(func(ctx context.Context, tr Transport, c Credentials, timeout time.Duration) (mail.SendCloser, error) {
		// Simula un servidor que acepta TCP pero nunca manda el greeting.
		<-ctx.Done()
		return nil, ctx.Err()
	})
	d.SendTimeout = 50 * time.Millisecond

	start := time.Now()
	_, err := d.Send(context.Background(), Message{To: "x@y.z"},
		Credentials{Host: "smtp.gmail.com", User: "a@gmail.com", Password: "app-pass"})
	if time.Since(start) > 2*time.Second {
		t.Fatal("el timeout no se aplicó")
	}

	de, ok := err.(*Error)
	if !ok {
		t.Fatalf("err = %v (%T)", err, err)
	}
	if de.Category != CategoryConnectionTimeout {
		t.Fatalf("category = %s, want ConnectionTimeout (no Unknown)", de.Category)
	}
}

func TestSend_SessionErrorClosesSession(t *testing.T) {
	sess := &fakeSession{err: errAuth("535 5.7.8 Username and Password not accepted")}
	d := newTestDispatcher(func(ctx context.Context, tr Transport, c Credentials, timeout time.Duration) (mail.SendCloser, error) {
		return sess, nil
	})

	_, err := d.Send(context.Background(), Message{To: "x@y.z"},
		Credentials{Host: "smtp.gmail.com", User: "a@gmail.com", Password: "mala"})
	de, ok := err.(*Error)
	if !ok || de.Category != CategoryAuthFailed {
		t.Fatalf("err = %v, want AuthenticationFailed", err)
	}
	if !sess.closed {
		t.Fatal("la sesión debe cerrarse también en el camino de error")
	}
}

type errAuth string

func (e errAuth) Error() string { return string(e) }
