package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
)

// NewRootCmd builds the pingchain command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pingchain",
		Short: "pingchain is a trace-propagating ping service",
		Long: `pingchain answers /ping and, when NEXT_SERVICE_URL is set, forwards the call to the
next service in the chain with the W3C trace context attached. Spans are exported
over OTLP to TRACE_COLLECTOR_URL.

Configuration is read from environment variables; serve flags override them.`,
		Version:       fmt.Sprintf("%s (%s)", Version, Commit),
		SilenceUsage:  true,
		SilenceErrors: true, // We handle errors in Execute()
	}
	root.AddCommand(newServeCmd(), newPingCmd())
	return root
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
