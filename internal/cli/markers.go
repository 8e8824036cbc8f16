package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vietddude/console/internal/core/pagination"
)

var (
	markersPageSize int
	markersSiblings int
)

var markersCmd = &cobra.Command{
	Use:   "markers [total_items] [current_page]",
	Short: "Print the page markers a list view renders",
	Args:  cobra.ExactArgs(2),
	Run:   runMarkers,
}

func init() {
	markersCmd.Flags().IntVar(&markersPageSize, "page-size", 10, "items per page")
	markersCmd.Flags().IntVar(&markersSiblings, "siblings", 1, "pages shown on each side of the current page")
	rootCmd.AddCommand(markersCmd)
}

func runMarkers(cmd *cobra.Command, args []string) {
	total, err := strconv.Atoi(args[0])
	if err != nil || total < 0 {
		fmt.Printf("Invalid total items: %s\n", args[0])
		os.Exit(1)
	}
	page, err := strconv.Atoi(args[1])
	if err != nil || page < 1 {
		fmt.Printf("Invalid page: %s\n", args[1])
		os.Exit(1)
	}

	req := pagination.Request{
		TotalItems:   total,
		PageSize:     markersPageSize,
		CurrentPage:  page,
		SiblingCount: markersSiblings,
	}
	fmt.Println(formatMarkers(req.Markers(), req.Window().Page))
}

// formatMarkers renders markers as a navigation bar, bracketing the current page.
func formatMarkers(markers []pagination.Marker, current int) string {
	if len(markers) == 0 {
		return "(single page)"
	}
	parts := make([]string, len(markers))
	for i, m := range markers {
		switch {
		case m.IsGap():
			parts[i] = "…"
		case m.Number() == current:
			parts[i] = "[" + m.String() + "]"
		default:
			parts[i] = m.String()
		}
	}
	return strings.Join(parts, " ")
}
