package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/vietddude/console/internal/infra/resilience"
	"github.com/vietddude/console/internal/listing"
)

var (
	fetchPage    int
	fetchFilters []string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [resource]",
	Short: "Fetch one page of a resource list from the upstream API",
	Args:  cobra.ExactArgs(1),
	Run:   runFetch,
}

func init() {
	fetchCmd.Flags().IntVar(&fetchPage, "page", 1, "page to fetch")
	fetchCmd.Flags().StringSliceVar(&fetchFilters, "filter", nil, "filter as key=value (repeatable)")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	setupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := listing.NewClient(cfg.Upstream.URL, cfg.Upstream.Timeout, cfg.Retry.Policy(),
		resilience.WithName("cli_fetch"))
	defer func() {
		_ = client.Close()
	}()

	query := listing.NewQuery(args[0], cfg.Pagination.PageSize)
	view, err := fetchView(ctx, client, query, fetchFilters, fetchPage, cfg.Pagination.SiblingCount)
	if err != nil {
		slog.Error("Failed to fetch list", "resource", query.Resource, "status", resilience.StatusCode(err), "error", err)
		stop()
		os.Exit(1)
	}
	writeView(os.Stdout, view)
}

// fetchView applies key=value filters to query and loads the requested page through a Pager.
func fetchView(ctx context.Context, client *listing.Client, query listing.Query, filters []string, page, siblings int) (listing.View[map[string]any], error) {
	for _, f := range filters {
		key, value, ok := strings.Cut(f, "=")
		if !ok {
			return listing.View[map[string]any]{}, fmt.Errorf("invalid filter %q, expected key=value", f)
		}
		query = query.WithFilter(key, value)
	}
	pager := listing.NewPager[map[string]any](client, query, siblings)
	return pager.GoTo(ctx, page)
}

func writeView(out io.Writer, view listing.View[map[string]any]) {
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', tabwriter.Debug)
	_, _ = fmt.Fprintln(w, "#\tITEM")
	for i, item := range view.Items {
		data, _ := json.Marshal(item)
		_, _ = fmt.Fprintf(w, "%d\t%s\n", view.Window.Offset+i+1, data)
	}
	_ = w.Flush()

	_, _ = fmt.Fprintf(out, "\nShowing %d-%d of %d\n", view.Window.FirstItem, view.Window.LastItem, view.Total)
	_, _ = fmt.Fprintln(out, formatMarkers(view.Markers, view.Window.Page))
}
