// Command rapina runs the demo application and inspects running servers.
//
//	rapina serve --addr :8080 --introspection
//	rapina routes --host 127.0.0.1 --port 8080
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "rapina",
		Short:         "HTTP server core with graceful shutdown",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newServeCmd(), newRoutesCmd())
	return cmd
}
