// Package xtream provides a Go client for Xtream Codes compatible IPTV
// panels: authentication, catalog metadata (categories, streams, EPG),
// and M3U playlist assembly.
//
// Xtream Codes is an IPTV panel system that exposes a REST API for
// accessing live TV streams, video on demand (VOD), TV series, and EPG
// (Electronic Program Guide) data.
//
// # Basic Usage
//
//	client, err := xtream.New("http://example.com:8080", "username", "password")
//
//	// Verify credentials and cache account/server info
//	info, err := client.Authenticate(ctx)
//
//	// List live categories (the default when no type is selected)
//	categories, err := client.GetCategories(ctx, xtream.CategoryFilter{})
//
//	// List streams in a specific category
//	streams, err := client.GetStreams(ctx, xtream.StreamFilter{Live: true, CategoryID: "1"})
//
//	// EPG for a stream
//	epg, err := client.GetShortEPG(ctx, 12345)
//
// # Authentication
//
// The client holds an explicit authentication state. Protected calls run
// EnsureAuthenticated first, which makes exactly one authentication
// attempt when the cached result is missing or was invalidated. Changing
// the username or password always discards the cached result.
//
// # Playlists
//
// Playlists can be downloaded server-side via get.php (GetPlaylist) or
// assembled locally from catalog data:
//
//	lines, err := client.BuildFullPlaylist(ctx, xtream.PlaylistOptions{
//		Live:          true,
//		ChannelStart:  100,
//		IncludeHeader: true,
//	})
//
// # Errors
//
// Every failure surfaces as an *Error carrying a Kind; match with
// IsKind or KindOf:
//
//	if xtream.IsKind(err, xtream.KindNotFound) {
//		// server does not expose this endpoint
//	}
//
// # API Endpoints
//
// The Xtream Codes API uses the following endpoint pattern:
//
//	{baseURL}/player_api.php?username={user}&password={pass}&action={action}
//
// Available actions:
//   - (no action): Get server info and authentication status
//   - get_live_categories: List live stream categories
//   - get_vod_categories: List VOD categories
//   - get_series_categories: List series categories
//   - get_live_streams: List live streams (optional: category_id)
//   - get_vod_streams: List VOD content (optional: category_id)
//   - get_series: List series (optional: category_id)
//   - get_vod_info: Get VOD details (required: vod_id)
//   - get_series_info: Get series details (required: series_id)
//   - get_short_epg: Get short EPG (required: stream_id)
//   - get_simple_data_table: Get full EPG (optional: stream_id)
//
// Additional endpoints:
//   - {baseURL}/panel_api.php?username={user}&password={pass}: Broad panel dump
//   - {baseURL}/get.php?username={user}&password={pass}&type={type}: M3U playlist
//   - {baseURL}/xmltv.php?username={user}&password={pass}: Full XMLTV EPG
//   - {baseURL}/live/{user}/{pass}/{streamID}.{ext}: Live stream
//   - {baseURL}/movie/{user}/{pass}/{vodID}.{ext}: VOD stream
//   - {baseURL}/series/{user}/{pass}/{episodeID}.{ext}: Series episode
package xtream
