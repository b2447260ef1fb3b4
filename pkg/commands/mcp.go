package commands

import (
	"fmt"
	"net"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/cinerec/pkg/commands/options"
	"tableflip.dev/cinerec/pkg/runner/mcp"
)

func addMCP(topLevel *cobra.Command) {
	mo := &options.MCPOptions{}

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the catalog and recommendations over MCP.",
		Long: `Launch a Model Context Protocol server exposing the movie catalog,
title search and recommendations as tools and resources.`,
		Example: `
cinerec mcp --transport stdio
cinerec mcp --http-port 8080 --metrics-path /metrics
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := service()
			if err != nil {
				return err
			}

			r := mcp.Runner{
				App:     svc,
				Name:    "cinerec",
				Version: version,
			}

			switch mo.Mode() {
			case string(mcp.TransportStdio):
				r.Transport = mcp.TransportStdio
			case string(mcp.TransportHTTP):
				addr, err := mo.ListenAddr()
				if err != nil {
					return err
				}
				r.Transport = mcp.TransportHTTP
				r.HTTPListenAddr = addr
				r.HTTPEndpointPath = mo.Endpoint()
				r.MetricsPath = strings.TrimSpace(mo.MetricsPath)
				r.HTTPServerCert = strings.TrimSpace(mo.TLSCert)
				r.HTTPServerKey = strings.TrimSpace(mo.TLSKey)
				r.OnHTTPListening = func(a net.Addr) {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "MCP HTTP server listening on %s\n", mo.URL(a))
				}
			default:
				return fmt.Errorf("unsupported transport %q (expected http or stdio)", mo.Transport)
			}

			return r.Do(cmd.Context())
		},
	}

	options.AddMCPArgs(cmd, mo)
	topLevel.AddCommand(cmd)
}
