package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/boxtree/pkg/observability"
	"github.com/matzehuels/boxtree/pkg/server"
	"github.com/matzehuels/boxtree/pkg/store"
)

// serveCommand creates the serve command, which runs the HTTP server until
// interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		mongoURI string
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve layouts and renders over HTTP",
		Long: `Serve layouts and renders over HTTP.

Layouts posted to /v1/layout are kept in MongoDB when a URI is configured
(--mongo or [server] mongo_uri) and in memory otherwise. The cache backend
from [cache] is shared with the CLI; use "redis" when several servers run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.cfg().Server
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("mongo") {
				cfg.MongoURI = mongoURI
			}

			var st store.Store = store.NewMemoryStore()
			storeName := "memory"
			if cfg.MongoURI != "" {
				ms, err := store.NewMongoStore(ctx, cfg.MongoURI, cfg.Database)
				if err != nil {
					return err
				}
				st = ms
				storeName = "mongodb/" + cfg.Database
			}
			defer st.Close(ctx)

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			observability.SetHTTPHooks(observability.NewLogHooks(c.Logger))
			srv := server.New(runner, st,
				server.WithLogger(c.Logger),
				server.WithDefaults(c.pipelineOptions()))

			printInfo("Serving on %s", cfg.Addr)
			printKeyValue("store", storeName)
			backend := c.cfg().Cache.Backend
			if noCache {
				backend = "none"
			}
			printKeyValue("cache", backend)
			if cfg.MongoURI == "" {
				printWarning("Stored layouts are lost when the server stops")
			}
			return srv.ListenAndServe(ctx, cfg.Addr, server.Timeouts{
				Read:  cfg.ReadTimeout.Duration,
				Write: cfg.WriteTimeout.Duration,
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&mongoURI, "mongo", "", "MongoDB URI for stored layouts")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the layout cache")

	return cmd
}
