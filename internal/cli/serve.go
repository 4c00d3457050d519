package cli

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/pingchain/internal/infrastructure/config"
	"github.com/GriffinCanCode/pingchain/internal/infrastructure/server"
)

func newServeCmd() *cobra.Command {
	var (
		host string
		port string
		next string
		dev  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a pingchain node",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("host") {
				cfg.Server.Host = host
			}
			if flags.Changed("port") {
				cfg.Server.Port = port
			}
			if flags.Changed("next") {
				cfg.Service.NextURL = next
			}
			if flags.Changed("dev") {
				cfg.Logging.Development = dev
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv, err := server.New(ctx, cfg)
			if err != nil {
				return err
			}
			runErr := srv.Run(ctx)
			return errors.Join(runErr, srv.Close())
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Listen host (overrides HOST)")
	cmd.Flags().StringVarP(&port, "port", "p", "", "Listen port (overrides PORT)")
	cmd.Flags().StringVar(&next, "next", "", "Next service URL (overrides NEXT_SERVICE_URL)")
	cmd.Flags().BoolVar(&dev, "dev", false, "Human-readable debug logging (overrides LOG_DEV)")
	return cmd
}
