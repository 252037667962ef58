package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/rapina/core/router"
)

var (
	errUnreachable     = errors.New("server is not reachable")
	errUnexpectedReply = errors.New("unexpected introspection response")
)

func newRoutesCmd() *cobra.Command {
	var (
		host    string
		port    int
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List the named routes of a running server",
		Long: "Fetches " + router.IntrospectionPath + " from a running server and prints its routes.\n" +
			"The server must run with introspection enabled (APP_INTROSPECTION=true).",
		RunE: func(cmd *cobra.Command, args []string) error {
			url := "http://" + net.JoinHostPort(host, strconv.Itoa(port)) + router.IntrospectionPath

			client := &http.Client{Timeout: timeout}
			routes, err := fetchRoutes(cmd.Context(), client, url)
			if err != nil {
				return err
			}
			return printRoutes(cmd.OutOrStdout(), routes)
		},
	}

	cmd.Flags().StringVar(&host, "host", "127.0.0.1", "server host")
	cmd.Flags().IntVar(&port, "port", 8080, "server port")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "request timeout")

	return cmd
}

func fetchRoutes(ctx context.Context, client *http.Client, url string) ([]router.RouteInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errUnreachable, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d from %s, is introspection enabled?", errUnexpectedReply, resp.StatusCode, url)
	}

	var routes []router.RouteInfo
	if err := json.NewDecoder(resp.Body).Decode(&routes); err != nil {
		return nil, fmt.Errorf("%w: %w", errUnexpectedReply, err)
	}
	return routes, nil
}

func printRoutes(w io.Writer, routes []router.RouteInfo) error {
	if len(routes) == 0 {
		_, err := fmt.Fprintln(w, "no named routes")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "METHOD\tPATH\tHANDLER")
	for _, r := range routes {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Method, r.Path, r.HandlerName)
	}
	return tw.Flush()
}
