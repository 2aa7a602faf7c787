package email

import (
	"strings"
)

// Security es el modo de seguridad del transporte SMTP.
type Security string

const (
	// SecurityStartTLS negocia TLS sobre una conexión en claro (puerto 587).
	SecurityStartTLS Security = "starttls"
	// SecurityImplicitTLS abre la conexión directamente en TLS (puerto 465).
	SecurityImplicitTLS Security = "implicit-tls"
)

// Transport es la configuración resuelta para abrir una sesión SMTP.
// Se loguea antes del dispatch y se expone en el Receipt para observabilidad.
type Transport struct {
	Host            string   `json:"host"`
	Port            int      `json:"port"`
	Security        Security `json:"securityMode"`
	ForceIPv4       bool     `json:"forceIPv4,omitempty"`
	RequireSTARTTLS bool     `json:"requireStartTLS,omitempty"`
	Provider        string   `json:"provider,omitempty"`
}

// providerRule es una entrada de la tabla de heurísticas por proveedor.
// Match por substring case-insensitive sobre el hostname; gana la primera
// regla que matchea (las más específicas van primero). Proveedores nuevos
// se agregan extendiendo la tabla, no el control flow.
type providerRule struct {
	name            string
	match           []string
	port            int
	security        Security
	forceIPv4       bool
	requireSTARTTLS bool
}

// La racional de la tabla: el egress de hosting cloud suele no rutear IPv6
// hacia Gmail y bloquea 465 para cuentas arbitrarias, así que STARTTLS en 587
// con IPv4 forzado es el default más confiable; los hosts de correo de negocio
// conocidos van whitelisteados a TLS implícito en 465 porque es su
// configuración documentada. Es una heurística, no una garantía.
var providerRules = []providerRule{
	{
		name:            "gmail",
		match:           []string{"gmail", "google"},
		port:            587,
		security:        SecurityStartTLS,
		forceIPv4:       true,
		requireSTARTTLS: true,
	},
	{
		name:     "business-mail",
		match:    []string{"hostinger", "ionos", "zoho"},
		port:     465,
		security: SecurityImplicitTLS,
	},
}

// defaultRule aplica cuando ningún proveedor conocido matchea.
var defaultRule = providerRule{
	name:     "generic",
	port:     587,
	security: SecurityStartTLS,
}

// ResolveTransport resuelve host/puerto/modo de seguridad para un servidor SMTP.
// Los callers pueden necesitar overridear el resultado; por eso la configuración
// resuelta viaja completa en el Transport en vez de quedar implícita en el dialer.
func ResolveTransport(host string) Transport {
	h := strings.ToLower(strings.TrimSpace(host))

	rule := defaultRule
	for _, r := range providerRules {
		if matchesAny(h, r.match) {
			rule = r
			break
		}
	}

	return Transport{
		Host:            strings.TrimSpace(host),
		Port:            rule.port,
		Security:        rule.security,
		ForceIPv4:       rule.forceIPv4,
		RequireSTARTTLS: rule.requireSTARTTLS,
		Provider:        rule.name,
	}
}

func matchesAny(host string, subs []string) bool {
	for _, s := range subs {
		if strings.Contains(host, s) {
			return true
		}
	}
	return false
}

// IsGmail reporta si el transporte apunta a Gmail/Google Workspace.
// Se usa para enriquecer mensajes de error con causas típicas (IPv6/firewall).
func (t Transport) IsGmail() bool {
	return t.Provider == "gmail"
}
