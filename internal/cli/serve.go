package cli

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/toparity/pkg/observability"
	"github.com/matzehuels/toparity/pkg/server"
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP conversion API",
		Long: `Serve the conversion pipeline over HTTP.

  POST /api/v1/convert  convert one automaton
  GET  /healthz         liveness check
  GET  /metrics         Prometheus metrics`,
		Example: `  toparity serve --addr :9090
  curl -s localhost:9090/api/v1/convert -d '{"automaton": "HOA: v1 ...", "formats": ["hoa"]}'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			hooks := observability.NewPrometheusHooks(reg)
			observability.SetTransformHooks(hooks)
			observability.SetCacheHooks(hooks)
			observability.SetHTTPHooks(hooks)
			defer observability.Reset()

			runner := c.newRunner(ctx, noCache)
			defer runner.Close()

			opts := server.Options{
				Server:   c.Config.Server,
				Convert:  c.Config.Convert,
				Gatherer: reg,
			}
			if cmd.Flags().Changed("addr") {
				opts.Server.Addr = addr
			}
			return server.New(runner, c.Logger, opts).ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
	return cmd
}
