package xtream

import (
	"context"
	"fmt"
	"os"
	"strconv"
)

// CategoryFilter selects which category types to fetch. When no type is
// set, live is assumed. VOD and series are mutually exclusive within one
// call: when both are set, only VOD categories are fetched. This mirrors
// the behavior players expect from existing panel tooling.
type CategoryFilter struct {
	Live   bool
	VOD    bool
	Series bool
}

// StreamFilter selects which stream types to fetch, optionally limited
// to one category. The type-selection rules match CategoryFilter.
type StreamFilter struct {
	Live   bool
	VOD    bool
	Series bool

	// CategoryID, when non-empty, must be a positive integer string.
	CategoryID string
}

// InfoKind selects the detail endpoint for GetStreamInfo.
type InfoKind string

const (
	// InfoKindVOD requests get_vod_info.
	InfoKindVOD InfoKind = "vod"

	// InfoKindSeries requests get_series_info.
	InfoKindSeries InfoKind = "series"
)

// GetCategories retrieves categories for the selected types, concatenated
// in the order live, vod, series. With no type selected it fetches live
// categories. Results come fresh from the server on every call.
func (c *Client) GetCategories(ctx context.Context, filter CategoryFilter) ([]Category, error) {
	if !filter.Live && !filter.VOD && !filter.Series {
		filter.Live = true
	}

	var categories []Category
	fetch := func(action string) error {
		var result []Category
		if err := c.getJSON(ctx, pathPlayerAPI, actionParams(action, nil), &result); err != nil {
			return err
		}
		categories = append(categories, result...)
		return nil
	}

	if filter.Live {
		if err := fetch(actionGetLiveCategories); err != nil {
			return nil, err
		}
	}
	if filter.VOD {
		if err := fetch(actionGetVODCategories); err != nil {
			return nil, err
		}
	} else if filter.Series {
		if err := fetch(actionGetSeriesCategories); err != nil {
			return nil, err
		}
	}

	return categories, nil
}

// GetStreams retrieves streams for the selected types, concatenated in
// the order live, vod, series, with the same type-selection rules as
// GetCategories. A non-empty CategoryID must be a positive integer
// string; validation happens before any network call.
func (c *Client) GetStreams(ctx context.Context, filter StreamFilter) ([]Stream, error) {
	extra := map[string]string{}
	if filter.CategoryID != "" {
		id, err := strconv.Atoi(filter.CategoryID)
		if err != nil || id <= 0 {
			return nil, newError(KindInvalidArgument, "category id must be a positive integer, got %q", filter.CategoryID)
		}
		extra[paramCategoryID] = filter.CategoryID
	}

	if !filter.Live && !filter.VOD && !filter.Series {
		filter.Live = true
	}

	var streams []Stream
	fetch := func(action string) error {
		var result []Stream
		if err := c.getJSON(ctx, pathPlayerAPI, actionParams(action, extra), &result); err != nil {
			return err
		}
		streams = append(streams, result...)
		return nil
	}

	if filter.Live {
		if err := fetch(actionGetLiveStreams); err != nil {
			return nil, err
		}
	}
	if filter.VOD {
		if err := fetch(actionGetVODStreams); err != nil {
			return nil, err
		}
	} else if filter.Series {
		if err := fetch(actionGetSeries); err != nil {
			return nil, err
		}
	}

	return streams, nil
}

// GetStreamInfo retrieves detailed information about a VOD item or a
// series. Panels vary wildly in the shape of this response, so it is
// returned as a generic JSON object.
func (c *Client) GetStreamInfo(ctx context.Context, kind InfoKind, streamID int) (map[string]any, error) {
	if streamID <= 0 {
		return nil, newError(KindInvalidArgument, "stream id must be a positive integer, got %d", streamID)
	}

	var action, idParam string
	switch kind {
	case InfoKindVOD:
		action, idParam = actionGetVODInfo, paramVODID
	case InfoKindSeries:
		action, idParam = actionGetSeriesInfo, paramSeriesID
	default:
		return nil, newError(KindInvalidArgument, "info kind must be %q or %q, got %q", InfoKindVOD, InfoKindSeries, kind)
	}

	var info map[string]any
	params := actionParams(action, map[string]string{idParam: intParam(streamID)})
	if err := c.getJSON(ctx, pathPlayerAPI, params, &info); err != nil {
		return nil, err
	}
	return info, nil
}

// GetShortEPG retrieves the short EPG listing for a stream. The stream
// id must be a positive integer.
func (c *Client) GetShortEPG(ctx context.Context, streamID int) ([]EPGListing, error) {
	if streamID <= 0 {
		return nil, newError(KindInvalidArgument, "stream id must be a positive integer, got %d", streamID)
	}

	params := actionParams(actionGetShortEPG, map[string]string{paramStreamID: intParam(streamID)})
	return c.getEPGListings(ctx, params)
}

// GetEPG retrieves the full EPG data table, optionally limited to one
// stream. A non-positive stream id is silently omitted rather than
// rejected, matching the permissive contract of this endpoint.
func (c *Client) GetEPG(ctx context.Context, streamID int) ([]EPGListing, error) {
	var extra map[string]string
	if streamID > 0 {
		extra = map[string]string{paramStreamID: intParam(streamID)}
	}

	return c.getEPGListings(ctx, actionParams(actionGetSimpleDataTable, extra))
}

// getEPGListings dispatches an EPG action and extracts the epg_listings
// field, failing with KindMalformedResponse when it is absent.
func (c *Client) getEPGListings(ctx context.Context, params map[string]string) ([]EPGListing, error) {
	var response EPGResponse
	if err := c.getJSON(ctx, pathPlayerAPI, params, &response); err != nil {
		return nil, err
	}
	if response.EPGListings == nil {
		return nil, newError(KindMalformedResponse, "response missing epg_listings field")
	}
	return *response.EPGListings, nil
}

// GetPanel retrieves the broad panel dump from panel_api.php. Not all
// servers expose this endpoint.
func (c *Client) GetPanel(ctx context.Context) (map[string]any, error) {
	var panel map[string]any
	if err := c.getJSON(ctx, pathPanelAPI, nil, &panel); err != nil {
		return nil, err
	}
	return panel, nil
}

// GetPlaylist downloads the server-generated M3U playlist via get.php
// using the configured playlist type and, when set, the configured
// output type. If filePath is non-empty the text is also written there,
// overwriting any existing file. Servers that disable get.php respond
// 404, surfaced as KindNotFound.
func (c *Client) GetPlaylist(ctx context.Context, filePath string) (string, error) {
	params := map[string]string{paramType: c.playlistType}
	if c.outputType != "" {
		output, ok := outputAliases[c.outputType]
		if !ok {
			output = c.outputType
		}
		params[paramOutput] = output
	}

	text, err := c.getText(ctx, pathGetM3U, params)
	if err != nil {
		return "", err
	}

	if filePath != "" {
		if err := os.WriteFile(filePath, []byte(text), 0o644); err != nil {
			return "", fmt.Errorf("writing playlist file: %w", err)
		}
	}
	return text, nil
}

// GetXMLTV downloads the XMLTV EPG document via xmltv.php. If filePath
// is non-empty the text is also written there, overwriting any existing
// file.
func (c *Client) GetXMLTV(ctx context.Context, filePath string) (string, error) {
	text, err := c.getText(ctx, pathXMLTV, nil)
	if err != nil {
		return "", err
	}

	if filePath != "" {
		if err := os.WriteFile(filePath, []byte(text), 0o644); err != nil {
			return "", fmt.Errorf("writing xmltv file: %w", err)
		}
	}
	return text, nil
}
