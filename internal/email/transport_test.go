package email

import "testing"

func TestResolveTransport_Table(t *testing.T) {
	cases := []struct {
		host      string
		port      int
		security  Security
		forceIPv4 bool
	}{
		{"smtp.gmail.com", 587, SecurityStartTLS, true},
		{"SMTP.GMAIL.COM", 587, SecurityStartTLS, true},
		{"smtp-relay.google.com", 587, SecurityStartTLS, true},
		{"smtp.hostinger.com", 465, SecurityImplicitTLS, false},
		{"smtp.ionos.es", 465, SecurityImplicitTLS, false},
		{"smtp.zoho.eu", 465, SecurityImplicitTLS, false},
		{"mail.example.org", 587, SecurityStartTLS, false},
		{"  smtp.gmail.com  ", 587, SecurityStartTLS, true},
	}
	for _, c := range cases {
		got := ResolveTransport(c.host)
		if got.Port != c.port {
			t.Fatalf("%q: port = %d, want %d", c.host, got.Port, c.port)
		}
		if got.Security != c.security {
			t.Fatalf("%q: security = %q, want %q", c.host, got.Security, c.security)
		}
		if got.ForceIPv4 != c.forceIPv4 {
			t.Fatalf("%q: forceIPv4 = %v, want %v", c.host, got.ForceIPv4, c.forceIPv4)
		}
	}
}

func TestResolveTransport_GmailRequiresSTARTTLS(t *testing.T) {
	tr := ResolveTransport("smtp.gmail.com")
	if !tr.RequireSTARTTLS {
		t.Fatal("gmail debe exigir STARTTLS")
	}
	if !tr.IsGmail() {
		t.Fatal("IsGmail() debe ser true para smtp.gmail.com")
	}
	if ResolveTransport("mail.example.org").IsGmail() {
		t.Fatal("IsGmail() debe ser false para hosts genéricos")
	}
}

func TestResolveTransport_KeepsOriginalHost(t *testing.T) {
	tr := ResolveTransport("smtp.hostinger.com")
	if tr.Host != "smtp.hostinger.com" {
		t.Fatalf("host = %q", tr.Host)
	}
}
