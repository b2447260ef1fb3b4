package options

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// MCPOptions configure the MCP server transport.
type MCPOptions struct {
	Transport   string
	Host        string
	Port        int
	Path        string
	TLSCert     string
	TLSKey      string
	MetricsPath string
}

func AddMCPArgs(cmd *cobra.Command, o *MCPOptions) {
	cmd.Flags().StringVar(&o.Transport, "transport", "http",
		"Transport to use: http or stdio.")
	cmd.Flags().StringVar(&o.Host, "http-host", "127.0.0.1",
		"Interface the HTTP transport binds to.")
	cmd.Flags().IntVar(&o.Port, "http-port", 8080,
		"Port for the HTTP transport. 0 picks a free port.")
	cmd.Flags().StringVar(&o.Path, "http-path", "/mcp",
		"HTTP endpoint path.")
	cmd.Flags().StringVar(&o.TLSCert, "http-tls-cert", "",
		"TLS certificate file. Serves HTTPS together with --http-tls-key.")
	cmd.Flags().StringVar(&o.TLSKey, "http-tls-key", "",
		"TLS private key file.")
	cmd.Flags().StringVar(&o.MetricsPath, "metrics-path", "/metrics",
		"Path serving Prometheus metrics next to the endpoint. Empty disables it.")
}

// Mode returns the normalized transport name, defaulting to http.
func (o *MCPOptions) Mode() string {
	t := strings.ToLower(strings.TrimSpace(o.Transport))
	if t == "" {
		return "http"
	}
	return t
}

// Endpoint returns the HTTP path with a leading slash.
func (o *MCPOptions) Endpoint() string {
	p := strings.TrimSpace(o.Path)
	if p == "" {
		return "/mcp"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

// ListenAddr validates the port and joins it with the host.
func (o *MCPOptions) ListenAddr() (string, error) {
	if o.Port < 0 || o.Port > 65535 {
		return "", fmt.Errorf("invalid http-port %d", o.Port)
	}
	host := strings.TrimSpace(o.Host)
	if host == "" {
		host = "127.0.0.1"
	}
	return net.JoinHostPort(host, strconv.Itoa(o.Port)), nil
}

// TLS reports whether both certificate and key were given.
func (o *MCPOptions) TLS() bool {
	return strings.TrimSpace(o.TLSCert) != "" && strings.TrimSpace(o.TLSKey) != ""
}

// URL renders the address a client should dial once the listener is bound.
// Wildcard hosts are replaced by the bound IP or loopback.
func (o *MCPOptions) URL(bound net.Addr) string {
	scheme := "http"
	if o.TLS() {
		scheme = "https"
	}
	tcp, ok := bound.(*net.TCPAddr)
	if !ok {
		addr, _ := o.ListenAddr()
		return scheme + "://" + addr + o.Endpoint()
	}
	host := strings.TrimSpace(o.Host)
	switch host {
	case "", "0.0.0.0", "::":
		host = "127.0.0.1"
		if tcp.IP != nil && !tcp.IP.IsUnspecified() {
			host = tcp.IP.String()
		}
	}
	return scheme + "://" + net.JoinHostPort(host, strconv.Itoa(tcp.Port)) + o.Endpoint()
}
