package cmd

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/xtreamctl/pkg/xtream"
)

var epgShort bool

// epgCmd prints EPG listings for a stream, or the whole data table.
var epgCmd = &cobra.Command{
	Use:   "epg [stream-id]",
	Short: "Show EPG listings",
	Long: `Show EPG listings. With a stream id, listings for that stream
are shown; --short requests the compact now/next listing. Without a
stream id the panel's full EPG data table is fetched.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newPanelClient()
		if err != nil {
			return err
		}

		streamID := 0
		if len(args) == 1 {
			streamID, err = strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("stream id must be an integer, got %q", args[0])
			}
		}

		ctx := commandContext(cmd)
		var listings []xtream.EPGListing
		if epgShort {
			listings, err = client.GetShortEPG(ctx, streamID)
		} else {
			listings, err = client.GetEPG(ctx, streamID)
		}
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "START\tEND\tTITLE")
		for _, listing := range listings {
			fmt.Fprintf(w, "%s\t%s\t%s\n",
				formatEPGTime(listing.StartTime()),
				formatEPGTime(listing.EndTime()),
				listing.Title,
			)
		}
		return w.Flush()
	},
}

// formatEPGTime renders a listing time, or a placeholder when unknown.
func formatEPGTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04")
}

func init() {
	epgCmd.Flags().BoolVar(&epgShort, "short", false, "fetch the compact now/next listing (requires a stream id)")
	rootCmd.AddCommand(epgCmd)
}
