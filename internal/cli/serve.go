package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/screenflow/pkg/observability"
	"github.com/matzehuels/screenflow/pkg/server"
)

// serveCommand starts the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		envFile string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the flow pipeline over HTTP",
		Long: `Serve the flow pipeline over HTTP.

Variables from a .env file are loaded before the SCREENFLOW_* overrides are
applied, so SCREENFLOW_ADDR, SCREENFLOW_REDIS_ADDR and SCREENFLOW_MONGO_URI
can be kept next to the deployment. Prometheus metrics are served on /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, envFile)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: config or "+defaultAddr+")")
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "dotenv file to load")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr, envFile string) error {
	if err := loadEnvFile(envFile); err != nil {
		return err
	}
	cfg, err := finishConfig(c.Config)
	if err != nil {
		return err
	}
	c.Config = cfg
	if addr == "" {
		addr = cfg.Server.Addr
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	hooks := observability.NewPrometheusHooks(reg)
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	observability.SetServerHooks(hooks)
	defer observability.Reset()

	runner, err := c.newRunner(ctx, false)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	srv := server.New(runner, server.WithLogger(c.Logger), server.WithGatherer(reg))
	printInfo("Listening on %s", StyleLink.Render(addr))
	printDetail("cache %s · store %s", pick(cfg.Cache.Backend, "file"), pick(cfg.Store.Backend, "memory"))
	return srv.ListenAndServe(ctx, addr)
}

// loadEnvFile loads path into the environment without overriding variables
// that are already set. A missing file is ignored.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}
