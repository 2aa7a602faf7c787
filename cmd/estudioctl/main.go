// estudioctl es el CLI de operaciones contra un estudio-dj-api corriendo.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Gabichuelo/estudio-dj-api/internal/util/atomicwrite"
)

type client struct {
	BaseURL   string
	OutFormat string // "json" | "text"
	HTTP      *http.Client
}

func (c *client) do(method, path string, body []byte) (int, []byte, error) {
	url := strings.TrimRight(c.BaseURL, "/") + path
	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, b, nil
}

func (c *client) print(status int, body []byte) {
	if c.OutFormat == "json" {
		var v any
		if json.Unmarshal(body, &v) == nil {
			p, _ := json.MarshalIndent(v, "", "  ")
			fmt.Println(string(p))
			return
		}
	}
	if len(body) > 0 {
		fmt.Println(string(body))
	} else {
		fmt.Printf("status=%d\n", status)
	}
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func main() {
	var (
		baseURL = envOr("ESTUDIO_API_URL", "http://localhost:3001")
		out     = envOr("ESTUDIO_OUT", "text")
		timeout = 30 * time.Second
	)

	cl := &client{HTTP: &http.Client{Timeout: timeout}}

	root := &cobra.Command{
		Use:   "estudioctl",
		Short: "CLI de operaciones para estudio-dj-api",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Los flags ya parsearon: recién acá los valores son definitivos.
			cl.BaseURL = baseURL
			cl.OutFormat = out
		},
	}
	root.PersistentFlags().StringVar(&baseURL, "api-url", baseURL, "URL base del API (env ESTUDIO_API_URL)")
	root.PersistentFlags().StringVar(&out, "out", out, "Formato de salida: json|text")

	// ping: usa GET /healthz
	pingCmd := &cobra.Command{
		Use:   "ping",
		Short: "Ping al API (GET /healthz)",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := cl.do("GET", "/healthz", nil)
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return fmt.Errorf("ping falló: status=%d body=%s", status, string(body))
			}
			if cl.OutFormat == "text" {
				fmt.Println("ok")
				return nil
			}
			cl.print(status, body)
			return nil
		},
	}

	// grupo state
	stateCmd := &cobra.Command{
		Use:   "state",
		Short: "Leer/reemplazar el documento de estado",
	}

	var getOut string
	stateGetCmd := &cobra.Command{
		Use:   "get",
		Short: "Descargar el estado completo (GET /api/sync)",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := cl.do("GET", "/api/sync", nil)
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return fmt.Errorf("get falló: status=%d body=%s", status, string(body))
			}
			if getOut != "" {
				// Snapshot a disco: escritura atómica para no dejar un backup a medias.
				if err := atomicwrite.AtomicWriteFile(getOut, body, 0o644); err != nil {
					return err
				}
				fmt.Printf("estado guardado en %s (%d bytes)\n", getOut, len(body))
				return nil
			}
			cl.print(status, body)
			return nil
		},
	}
	stateGetCmd.Flags().StringVarP(&getOut, "output", "o", "", "guardar el estado en un archivo en vez de imprimirlo")

	var putFile string
	statePutCmd := &cobra.Command{
		Use:   "put",
		Short: "Reemplazar el estado con un JSON local (POST /api/sync)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if putFile == "" {
				return fmt.Errorf("falta el archivo: --file state.json")
			}
			raw, err := os.ReadFile(putFile)
			if err != nil {
				return err
			}
			status, body, err := cl.do("POST", "/api/sync", raw)
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return fmt.Errorf("put falló: status=%d body=%s", status, string(body))
			}
			cl.print(status, body)
			return nil
		},
	}
	statePutCmd.Flags().StringVarP(&putFile, "file", "f", "", "archivo JSON con el estado nuevo")

	// email test
	var to, host, user, pass string
	emailCmd := &cobra.Command{
		Use:   "email",
		Short: "Operaciones de email",
	}
	emailTestCmd := &cobra.Command{
		Use:   "test",
		Short: "Enviar un email de prueba vía POST /api/send-email",
		RunE: func(cmd *cobra.Command, args []string) error {
			if to == "" || host == "" || user == "" {
				return fmt.Errorf("faltan flags: --to, --smtp-host, --smtp-user (y --smtp-pass o env SMTP_PASSWORD)")
			}
			if pass == "" {
				pass = os.Getenv("SMTP_PASSWORD")
			}
			payload, _ := json.Marshal(map[string]any{
				"to":      to,
				"subject": "Test estudioctl",
				"html":    "<p>Email de prueba enviado por estudioctl.</p>",
				"config": map[string]string{
					"smtpHost":     host,
					"smtpUser":     user,
					"smtpPassword": pass,
				},
			})
			status, body, err := cl.do("POST", "/api/send-email", payload)
			if err != nil {
				return err
			}
			cl.print(status, body)
			if status/100 != 2 {
				return fmt.Errorf("envío falló: status=%d", status)
			}
			return nil
		},
	}
	emailTestCmd.Flags().StringVar(&to, "to", "", "destinatario")
	emailTestCmd.Flags().StringVar(&host, "smtp-host", "", "host SMTP")
	emailTestCmd.Flags().StringVar(&user, "smtp-user", "", "usuario SMTP")
	emailTestCmd.Flags().StringVar(&pass, "smtp-pass", "", "password SMTP (o env SMTP_PASSWORD)")

	// payment status
	paymentCmd := &cobra.Command{
		Use:   "payment",
		Short: "Operaciones de pagos",
	}
	paymentStatusCmd := &cobra.Command{
		Use:   "status <paymentId>",
		Short: "Verificar el estado de un pago (POST /api/verify-payment)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, _ := json.Marshal(map[string]string{"paymentId": args[0]})
			status, body, err := cl.do("POST", "/api/verify-payment", payload)
			if err != nil {
				return err
			}
			cl.print(status, body)
			if status/100 != 2 {
				return fmt.Errorf("verificación falló: status=%d", status)
			}
			return nil
		},
	}

	stateCmd.AddCommand(stateGetCmd, statePutCmd)
	emailCmd.AddCommand(emailTestCmd)
	paymentCmd.AddCommand(paymentStatusCmd)
	root.AddCommand(pingCmd, stateCmd, emailCmd, paymentCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
