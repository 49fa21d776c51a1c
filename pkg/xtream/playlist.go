package xtream

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// extm3uHeader is the playlist file header line.
const extm3uHeader = "#EXTM3U"

// NumberingPolicy controls how channel numbers advance across category
// boundaries in BuildFullPlaylist.
type NumberingPolicy int

const (
	// NumberingPerCategory restarts each category's numbering at the
	// starting number plus the count of categories already emitted. This
	// matches the numbering long-standing panel tooling produces, so it
	// is the default even though numbers repeat across categories.
	NumberingPerCategory NumberingPolicy = iota

	// NumberingContinuous carries the channel number across category
	// boundaries, giving every stream in the playlist a unique number.
	NumberingContinuous
)

// PlaylistOptions controls BuildFullPlaylist. With no type selected,
// live is assumed.
type PlaylistOptions struct {
	Live   bool
	VOD    bool
	Series bool

	// ChannelStart is the first tvg-no value. Zero disables numbering.
	ChannelStart int

	// Numbering selects how channel numbers advance across categories.
	Numbering NumberingPolicy

	// IncludeHeader prepends the #EXTM3U line.
	IncludeHeader bool

	// FilePath, when non-empty, receives the playlist text. A write
	// failure is logged and the playlist is still returned.
	FilePath string
}

// BuildExtinfLine renders the #EXTINF metadata line for one stream. The
// tvg-no attribute appears only when channelNumber is positive; tvg-id
// appears only for live streams with a non-empty EPG channel id.
func BuildExtinfLine(stream Stream, categoryName string, channelNumber int) (string, error) {
	var tvgNo, tvgID string
	if channelNumber > 0 {
		tvgNo = fmt.Sprintf(` tvg-no="%d"`, channelNumber)
	}

	switch stream.StreamType {
	case StreamTypeLive:
		if stream.EPGChannelID != "" {
			tvgID = fmt.Sprintf(` tvg-id="%s"`, stream.EPGChannelID)
		}
	case StreamTypeMovie, StreamTypeSeries:
	default:
		return "", newError(KindInvalidArgument, "unexpected stream type %q for stream %d", stream.StreamType, stream.StreamID.Int())
	}

	return fmt.Sprintf(`#EXTINF: -1%s%s tvg-name="%s" tvg-logo=%s group-title="%s",%s`,
		tvgNo, tvgID, stream.Name, stream.StreamIcon, categoryName, stream.Name), nil
}

// BuildStreamURL renders the playback URL for one stream. Live streams
// use the configured output type as their extension; when none is set
// the URL has no extension at all. Movie and series streams use their
// container extension.
func (c *Client) BuildStreamURL(stream Stream) (string, error) {
	var ext string
	switch stream.StreamType {
	case StreamTypeLive:
		if c.outputType != "" {
			ext = "." + c.outputType
		}
	case StreamTypeMovie, StreamTypeSeries:
		if stream.ContainerExtension != "" {
			ext = "." + stream.ContainerExtension
		}
	default:
		return "", newError(KindInvalidArgument, "unexpected stream type %q for stream %d", stream.StreamType, stream.StreamID.Int())
	}

	return fmt.Sprintf("%s/%s/%s/%s/%d%s",
		c.serverURL, stream.StreamType, c.username, c.password, stream.StreamID.Int(), ext), nil
}

// BuildCategoryPlaylist builds playlist lines for a single category's
// live streams: an #EXTINF line followed by a URL line per stream, with
// the channel number incrementing once per stream when channelStart is
// positive. The #EXTM3U header is prepended when includeHeader is set.
func (c *Client) BuildCategoryPlaylist(ctx context.Context, category Category, channelStart int, includeHeader bool) ([]string, error) {
	filter := StreamFilter{Live: true, CategoryID: category.CategoryID.String()}
	lines, _, err := c.buildCategoryLines(ctx, category, filter, channelStart)
	if err != nil {
		return nil, err
	}

	if includeHeader {
		lines = append([]string{extm3uHeader}, lines...)
	}
	return lines, nil
}

// buildCategoryLines fetches one category's streams for the given filter
// and renders two lines per stream. It returns the stream count so the
// caller can advance a continuous channel counter.
func (c *Client) buildCategoryLines(ctx context.Context, category Category, filter StreamFilter, channelStart int) ([]string, int, error) {
	streams, err := c.GetStreams(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	lines := make([]string, 0, len(streams)*2)
	number := channelStart
	for _, stream := range streams {
		extinf, err := BuildExtinfLine(stream, category.CategoryName, number)
		if err != nil {
			return nil, 0, err
		}
		streamURL, err := c.BuildStreamURL(stream)
		if err != nil {
			return nil, 0, err
		}
		lines = append(lines, extinf, streamURL)
		if number > 0 {
			number++
		}
	}
	return lines, len(streams), nil
}

// BuildFullPlaylist builds a playlist covering every category of the
// selected stream types, in the order live, vod, series. Categories are
// emitted in server order with no further sorting. When a file path is
// given the playlist is also written there; a write failure is logged
// and the built playlist is still returned.
func (c *Client) BuildFullPlaylist(ctx context.Context, opts PlaylistOptions) ([]string, error) {
	if !opts.Live && !opts.VOD && !opts.Series {
		opts.Live = true
	}

	var playlist []string
	if opts.IncludeHeader {
		playlist = append(playlist, extm3uHeader)
	}

	counter := opts.ChannelStart
	appendType := func(catFilter CategoryFilter, streamType func(categoryID string) StreamFilter) error {
		categories, err := c.GetCategories(ctx, catFilter)
		if err != nil {
			return err
		}
		for _, category := range categories {
			lines, streamCount, err := c.buildCategoryLines(ctx, category, streamType(category.CategoryID.String()), counter)
			if err != nil {
				return err
			}
			playlist = append(playlist, lines...)
			if counter > 0 {
				if opts.Numbering == NumberingContinuous {
					counter += streamCount
				} else {
					counter++
				}
			}
		}
		return nil
	}

	if opts.Live {
		err := appendType(CategoryFilter{Live: true}, func(id string) StreamFilter {
			return StreamFilter{Live: true, CategoryID: id}
		})
		if err != nil {
			return nil, err
		}
	}
	if opts.VOD {
		err := appendType(CategoryFilter{VOD: true}, func(id string) StreamFilter {
			return StreamFilter{VOD: true, CategoryID: id}
		})
		if err != nil {
			return nil, err
		}
	}
	if opts.Series {
		err := appendType(CategoryFilter{Series: true}, func(id string) StreamFilter {
			return StreamFilter{Series: true, CategoryID: id}
		})
		if err != nil {
			return nil, err
		}
	}

	if opts.FilePath != "" {
		if err := writePlaylistFile(opts.FilePath, playlist); err != nil {
			c.logger.Error("failed to write playlist file",
				slog.String("path", opts.FilePath),
				slog.String("error", err.Error()),
			)
		}
	}

	return playlist, nil
}

// writePlaylistFile writes playlist lines to a file, one per line,
// overwriting any existing content.
func writePlaylistFile(path string, lines []string) error {
	content := strings.Join(lines, "\n")
	if content != "" {
		content += "\n"
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
