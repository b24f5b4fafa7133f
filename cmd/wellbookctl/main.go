// wellbookctl es el CLI de operación de plataforma: habla con /v1/admin
// usando la API key (header X-Admin-API-Key).
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
)

type client struct {
	BaseURL   string
	APIKey    string
	OutFormat string // "json" | "text"
	HTTP      *http.Client
}

func (c *client) do(method, path string, body []byte) (int, []byte, error) {
	url := strings.TrimRight(c.BaseURL, "/") + path
	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("X-Admin-API-Key", c.APIKey)
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

func (c *client) run(method, path string, body []byte) error {
	status, out, err := c.do(method, path, body)
	if err != nil {
		return err
	}
	if status/100 != 2 {
		return fmt.Errorf("status=%d body=%s", status, string(out))
	}
	c.print(status, out)
	return nil
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func main() {
	var (
		baseURL = envOr("WELLBOOK_ADMIN_URL", "http://localhost:8080")
		apiKey  = envOr("WELLBOOK_ADMIN_KEY", "")
		out     = envOr("WELLBOOK_OUT", "text")
	)

	root := &cobra.Command{
		Use:   "wellbookctl",
		Short: "CLI de plataforma para wellbook (sólo /v1/admin)",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if apiKey == "" {
				return fmt.Errorf("falta API key (flag --admin-api-key o env WELLBOOK_ADMIN_KEY)")
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&baseURL, "admin-api-url", baseURL, "URL base del Admin API (env WELLBOOK_ADMIN_URL)")
	root.PersistentFlags().StringVar(&apiKey, "admin-api-key", apiKey, "API key del Admin API (env WELLBOOK_ADMIN_KEY)")
	root.PersistentFlags().StringVar(&out, "out", out, "Formato de salida: json|text")

	cl := &client{BaseURL: baseURL, APIKey: apiKey, OutFormat: out, HTTP: &http.Client{Timeout: 30 * time.Second}}
	cobra.OnInitialize(func() {
		cl.BaseURL, cl.APIKey, cl.OutFormat = baseURL, apiKey, out
	})

	// ─── businesses ───
	bizCmd := &cobra.Command{Use: "businesses", Short: "Gestión de tenants"}

	var bizStatus string
	var bizLimit, bizOffset int
	listBizCmd := &cobra.Command{
		Use:   "list",
		Short: "Listar businesses",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/v1/admin/businesses?limit=%d&offset=%d", bizLimit, bizOffset)
			if bizStatus != "" {
				path += "&status=" + bizStatus
			}
			return cl.run("GET", path, nil)
		},
	}
	listBizCmd.Flags().StringVar(&bizStatus, "status", "", "Filtrar por status (pending|active|suspended)")
	listBizCmd.Flags().IntVar(&bizLimit, "limit", 50, "Límite")
	listBizCmd.Flags().IntVar(&bizOffset, "offset", 0, "Offset")

	approveCmd := &cobra.Command{
		Use:   "approve <business-id>",
		Short: "Aprobar un business (status=active)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, _ := json.Marshal(map[string]string{"status": "active"})
			return cl.run("PATCH", "/v1/admin/businesses/"+args[0]+"/status", body)
		},
	}
	suspendCmd := &cobra.Command{
		Use:   "suspend <business-id>",
		Short: "Suspender un business",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, _ := json.Marshal(map[string]string{"status": "suspended"})
			return cl.run("PATCH", "/v1/admin/businesses/"+args[0]+"/status", body)
		},
	}
	bizCmd.AddCommand(listBizCmd, approveCmd, suspendCmd)

	// ─── docs ───
	docsCmd := &cobra.Command{Use: "docs", Short: "Cola de documentos de compliance"}

	pendingCmd := &cobra.Command{
		Use:   "pending",
		Short: "Documentos pendientes de revisión",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cl.run("GET", "/v1/admin/documents", nil)
		},
	}
	var docNote string
	approveDocCmd := &cobra.Command{
		Use:   "approve <document-id>",
		Short: "Aprobar un documento",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, _ := json.Marshal(map[string]string{"status": "approved", "note": docNote})
			return cl.run("PATCH", "/v1/admin/documents/"+args[0], body)
		},
	}
	approveDocCmd.Flags().StringVar(&docNote, "note", "", "Nota de revisión")
	rejectDocCmd := &cobra.Command{
		Use:   "reject <document-id>",
		Short: "Rechazar un documento",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, _ := json.Marshal(map[string]string{"status": "rejected", "note": docNote})
			return cl.run("PATCH", "/v1/admin/documents/"+args[0], body)
		},
	}
	rejectDocCmd.Flags().StringVar(&docNote, "note", "", "Nota de revisión")
	docsCmd.AddCommand(pendingCmd, approveDocCmd, rejectDocCmd)

	// ─── stats ───
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Totales de plataforma",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cl.run("GET", "/v1/admin/stats", nil)
		},
	}

	root.AddCommand(bizCmd, docsCmd, statsCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
