package handlers

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"newspipe/internal/pipeline"
	"newspipe/internal/server"
)

// NewServeCmd creates the HTTP service command.
func NewServeCmd() *cobra.Command {
	var port int
	var host string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the pipeline over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if cmd.Flags().Changed("host") {
				cfg.Server.Host = host
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			p := pipeline.New(cfg)
			return server.New(p, cfg.Server).Start(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 8000, "port to listen on")
	cmd.Flags().StringVar(&host, "host", "0.0.0.0", "host to bind")
	return cmd
}
