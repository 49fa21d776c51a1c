package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/xtreamctl/pkg/xtream"
)

var streamsFilter struct {
	live     bool
	vod      bool
	series   bool
	category string
	urls     bool
}

// streamsCmd lists the panel's streams.
var streamsCmd = &cobra.Command{
	Use:   "streams",
	Short: "List streams",
	Long: `List the panel's streams, optionally limited to one category.
With no type flag, live streams are listed. The same VOD/series
exclusivity as the categories command applies.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, cfg, err := newPanelClient()
		if err != nil {
			return err
		}

		ctx := commandContext(cmd)
		if streamsFilter.urls {
			// Live URLs depend on the output type, which the server must
			// advertise first.
			if err := applyOutputType(ctx, client, cfg); err != nil {
				return err
			}
		}

		streams, err := client.GetStreams(ctx, xtream.StreamFilter{
			Live:       streamsFilter.live,
			VOD:        streamsFilter.vod,
			Series:     streamsFilter.series,
			CategoryID: streamsFilter.category,
		})
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		if streamsFilter.urls {
			fmt.Fprintln(w, "ID\tTYPE\tNAME\tURL")
			for _, stream := range streams {
				streamURL, err := client.BuildStreamURL(stream)
				if err != nil {
					streamURL = "-"
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", stream.StreamID.Int(), stream.StreamType, stream.Name, streamURL)
			}
		} else {
			fmt.Fprintln(w, "ID\tTYPE\tCATEGORY\tNAME")
			for _, stream := range streams {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", stream.StreamID.Int(), stream.StreamType, stream.CategoryID, stream.Name)
			}
		}
		return w.Flush()
	},
}

func init() {
	streamsCmd.Flags().BoolVar(&streamsFilter.live, "live", false, "list live streams")
	streamsCmd.Flags().BoolVar(&streamsFilter.vod, "vod", false, "list VOD streams")
	streamsCmd.Flags().BoolVar(&streamsFilter.series, "series", false, "list series")
	streamsCmd.Flags().StringVarP(&streamsFilter.category, "category", "c", "", "limit to one category id")
	streamsCmd.Flags().BoolVar(&streamsFilter.urls, "urls", false, "include playback URLs")
	rootCmd.AddCommand(streamsCmd)
}
