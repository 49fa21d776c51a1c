package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/xtreamctl/pkg/xtream"
)

var playlistOpts struct {
	live         bool
	vod          bool
	series       bool
	remote       bool
	output       string
	channelStart int
	numbering    string
	noHeader     bool
}

// playlistCmd builds a playlist locally from catalog data, or downloads
// the server-generated one.
var playlistCmd = &cobra.Command{
	Use:   "playlist",
	Short: "Build or download an M3U playlist",
	Long: `Build an M3U playlist from the panel's catalog, or with --remote
download the server-generated playlist via get.php (some panels disable
that endpoint and answer 404).

Channel numbering starts at --channel-start when given. The default
per-category policy restarts each category's numbers the way most panel
tooling does; --numbering continuous gives every stream a unique number.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, cfg, err := newPanelClient()
		if err != nil {
			return err
		}

		ctx := commandContext(cmd)
		if err := applyOutputType(ctx, client, cfg); err != nil {
			return err
		}

		if playlistOpts.remote {
			text, err := client.GetPlaylist(ctx, playlistOpts.output)
			if err != nil {
				return err
			}
			if playlistOpts.output == "" {
				fmt.Print(text)
			} else {
				fmt.Printf("Playlist written to %s\n", playlistOpts.output)
			}
			return nil
		}

		numbering := xtream.NumberingPerCategory
		switch playlistOpts.numbering {
		case "", "per-category":
		case "continuous":
			numbering = xtream.NumberingContinuous
		default:
			return fmt.Errorf("numbering must be per-category or continuous, got %q", playlistOpts.numbering)
		}

		channelStart := playlistOpts.channelStart
		if channelStart == 0 {
			channelStart = cfg.Playlist.ChannelStart
		}

		lines, err := client.BuildFullPlaylist(ctx, xtream.PlaylistOptions{
			Live:          playlistOpts.live,
			VOD:           playlistOpts.vod,
			Series:        playlistOpts.series,
			ChannelStart:  channelStart,
			Numbering:     numbering,
			IncludeHeader: !playlistOpts.noHeader,
			FilePath:      playlistOpts.output,
		})
		if err != nil {
			return err
		}

		if playlistOpts.output == "" {
			fmt.Println(strings.Join(lines, "\n"))
		} else {
			fmt.Printf("Playlist with %d entries written to %s\n", len(lines)/2, playlistOpts.output)
		}
		return nil
	},
}

func init() {
	playlistCmd.Flags().BoolVar(&playlistOpts.live, "live", false, "include live streams")
	playlistCmd.Flags().BoolVar(&playlistOpts.vod, "vod", false, "include VOD streams")
	playlistCmd.Flags().BoolVar(&playlistOpts.series, "series", false, "include series")
	playlistCmd.Flags().BoolVar(&playlistOpts.remote, "remote", false, "download the server-generated playlist instead of building one")
	playlistCmd.Flags().StringVarP(&playlistOpts.output, "output", "o", "", "write the playlist to this file")
	playlistCmd.Flags().IntVar(&playlistOpts.channelStart, "channel-start", 0, "first tvg-no channel number (0 disables numbering)")
	playlistCmd.Flags().StringVar(&playlistOpts.numbering, "numbering", "per-category", "channel numbering policy (per-category, continuous)")
	playlistCmd.Flags().BoolVar(&playlistOpts.noHeader, "no-header", false, "omit the #EXTM3U header line")
	rootCmd.AddCommand(playlistCmd)
}
