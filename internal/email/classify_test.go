package email

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// timeoutErr implementa net.Error con Timeout()=true.
type timeoutErr struct{}

func (timeoutErr) Error() string   { return "dial tcp 64.233.184.108:587: i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassify_Timeout(t *testing.T) {
	generic := ResolveTransport("mail.example.org")

	for _, err := range []error{
		timeoutErr{},
		context.DeadlineExceeded,
		errors.New("read tcp: i/o timeout"),
	} {
		de := Classify(err, generic)
		if de.Category != CategoryConnectionTimeout {
			t.Fatalf("%v: category = %s, want ConnectionTimeout", err, de.Category)
		}
		if de.Err == nil {
			t.Fatal("el error original debe conservarse")
		}
	}
}

func TestClassify_GmailTimeoutHint(t *testing.T) {
	de := Classify(timeoutErr{}, ResolveTransport("smtp.gmail.com"))
	if de.Category != CategoryConnectionTimeout {
		t.Fatalf("category = %s", de.Category)
	}
	if !strings.Contains(de.Message, "IPv") {
		t.Fatalf("el mensaje para Gmail debe sugerir IPv6/IPv4, got %q", de.Message)
	}
}

func TestClassify_Auth(t *testing.T) {
	cases := []string{
		"535 5.7.8 Username and Password not accepted",
		"smtp: authentication failed",
	}
	for _, msg := range cases {
		de := Classify(errors.New(msg), ResolveTransport("smtp.gmail.com"))
		if de.Category != CategoryAuthFailed {
			t.Fatalf("%q: category = %s, want AuthenticationFailed", msg, de.Category)
		}
		if !strings.Contains(de.Message, "aplicación") {
			t.Fatalf("el mensaje debe sugerir contraseñas de aplicación, got %q", de.Message)
		}
	}
}

func TestClassify_AddressUnavailable(t *testing.T) {
	de := Classify(errors.New("dial tcp: lookup smtp.noexiste.xyz: no such host"), ResolveTransport("smtp.noexiste.xyz"))
	if de.Category != CategoryAddressUnavailable {
		t.Fatalf("category = %s, want AddressUnavailable", de.Category)
	}
}

func TestClassify_UnknownKeepsOriginal(t *testing.T) {
	orig := errors.New("452 4.2.2 mailbox full")
	de := Classify(orig, ResolveTransport("mail.example.org"))
	if de.Category != CategoryUnknown {
		t.Fatalf("category = %s, want Unknown", de.Category)
	}
	if de.Original() != orig.Error() {
		t.Fatalf("Original() = %q", de.Original())
	}
	if de.Message == orig.Error() {
		t.Fatal("el texto user-facing no debe ser el error crudo")
	}
}

func TestClassify_PassthroughOfClassified(t *testing.T) {
	in := ErrMissingCredentials()
	if out := Classify(in, Transport{}); out != in {
		t.Fatal("un *Error ya clasificado debe pasar sin tocar")
	}
}
