package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"

	"github.com/GriffinCanCode/pingchain/internal/downstream"
	"github.com/GriffinCanCode/pingchain/internal/infrastructure/config"
	"github.com/GriffinCanCode/pingchain/internal/infrastructure/logging"
	"github.com/GriffinCanCode/pingchain/internal/infrastructure/tracing"
)

func newPingCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "ping [url]",
		Short: "Start a new trace and ping a chain",
		Long: `Opens a root span, sends GET <url> with its traceparent, and prints the chain's
response and the trace id. Without an argument NEXT_SERVICE_URL is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			url := cfg.Service.NextURL
			if len(args) == 1 {
				url = args[0]
			}
			if url == "" {
				return errors.New("no url given and NEXT_SERVICE_URL is empty")
			}
			if !cmd.Flags().Changed("timeout") {
				timeout = cfg.Service.NextTimeout
			}

			logger, err := logging.New(logging.Config{
				Level:       cfg.Logging.Level,
				Development: cfg.Logging.Development,
				OutputPaths: []string{"stderr"},
			})
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			ctx := cmd.Context()
			provider, err := tracing.NewProvider(ctx, tracing.Config{
				ServiceName:  cfg.Service.Name,
				CollectorURL: cfg.Trace.CollectorURL,
				Protocol:     cfg.Trace.Protocol,
				Enabled:      cfg.Trace.Enabled,
			}, logger.Logger)
			if err != nil {
				return fmt.Errorf("failed to initialize tracing: %w", err)
			}
			defer func() {
				flushCtx, cancel := context.WithTimeout(context.Background(), cfg.Trace.ShutdownTimeout)
				defer cancel()
				_ = provider.Shutdown(flushCtx)
			}()

			tracer := provider.Tracer()
			client := downstream.NewClient(tracer, logger.Logger, downstream.Options{
				Timeout:   timeout,
				UserAgent: "pingchain-cli/" + Version,
			})

			body, traceID, err := pingOnce(ctx, tracer, client, url)
			if err != nil {
				return fmt.Errorf("trace %s: %w", traceID, err)
			}

			out, err := sonic.ConfigStd.MarshalIndent(body, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode response: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			fmt.Fprintf(cmd.OutOrStdout(), "trace_id: %s\n", traceID)
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Bound on the call (overrides NEXT_SERVICE_TIMEOUT, 0 = none)")
	return cmd
}

// pingOnce runs one chain call under a fresh root span.
func pingOnce(ctx context.Context, tracer *tracing.Tracer, client *downstream.Client, url string) (any, string, error) {
	ctx, span := tracer.Start(ctx, "pingchain ping",
		trace.WithNewRoot(),
		trace.WithSpanKind(trace.SpanKindClient),
	)
	defer span.End()
	traceID := span.SpanContext().TraceID().String()

	body, err := client.Forward(ctx, url)
	if err != nil {
		tracing.Fail(span, err, "Exception: "+err.Error())
		return nil, traceID, err
	}
	return body, traceID, nil
}
