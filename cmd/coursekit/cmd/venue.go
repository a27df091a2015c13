package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/conecourse/editor/internal/config"
	"github.com/conecourse/editor/internal/venue"
	"github.com/spf13/cobra"
)

var venueCmd = &cobra.Command{
	Use:   "venue <address>...",
	Short: "Look up the coordinates of a venue",
	Long: `Geocode an address with the configured search service and print the
coordinates the editor would center the map on.

Examples:
  coursekit venue "Lot C, Pomona Fairplex"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runVenue,
}

func init() {
	rootCmd.AddCommand(venueCmd)
}

func runVenue(cmd *cobra.Command, args []string) error {
	address := strings.Join(args, " ")
	client := venue.FromConfig(config.GetVenueConfig())

	res, err := client.Search(cmd.Context(), address)
	if errors.Is(err, venue.ErrNotFound) {
		return fmt.Errorf("no venue found for %q", address)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n", res.Address)
	fmt.Fprintf(out, "  %.7f, %.7f\n", res.Latitude, res.Longitude)
	return nil
}
