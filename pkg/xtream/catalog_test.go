package xtream

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// panelHandler serves the auth endpoint plus per-action catalog
// responses, recording every action dispatched.
type panelHandler struct {
	actions   []string
	responses map[string]any
	playlist  string
	xmltv     string
}

func (h *panelHandler) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/player_api.php":
			action := r.URL.Query().Get("action")
			if action == "" {
				writeAuthOK(w)
				return
			}
			h.actions = append(h.actions, action)
			if response, ok := h.responses[action]; ok {
				json.NewEncoder(w).Encode(response)
				return
			}
			json.NewEncoder(w).Encode([]any{})
		case "/panel_api.php":
			json.NewEncoder(w).Encode(map[string]any{"available_channels": map[string]any{}})
		case "/get.php":
			if h.playlist == "" {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			w.Write([]byte(h.playlist))
		case "/xmltv.php":
			w.Write([]byte(h.xmltv))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func TestClient_GetCategoriesDefault(t *testing.T) {
	h := &panelHandler{responses: map[string]any{
		actionGetLiveCategories: []Category{
			{CategoryID: "1", CategoryName: "News"},
			{CategoryID: "2", CategoryName: "Sports"},
		},
	}}
	client, _ := newTestClient(t, h.handler())

	categories, err := client.GetCategories(context.Background(), CategoryFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// No type selected defaults to exactly one live categories call.
	if len(h.actions) != 1 || h.actions[0] != actionGetLiveCategories {
		t.Errorf("expected a single %s call, got %v", actionGetLiveCategories, h.actions)
	}
	if len(categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(categories))
	}
	if categories[0].CategoryName != "News" {
		t.Errorf("expected first category 'News', got %q", categories[0].CategoryName)
	}
}

func TestClient_GetCategoriesOrderAndPrecedence(t *testing.T) {
	h := &panelHandler{responses: map[string]any{
		actionGetLiveCategories:   []Category{{CategoryID: "1", CategoryName: "Live"}},
		actionGetVODCategories:    []Category{{CategoryID: "2", CategoryName: "Movies"}},
		actionGetSeriesCategories: []Category{{CategoryID: "3", CategoryName: "Shows"}},
	}}
	client, _ := newTestClient(t, h.handler())

	// VOD and series both requested: VOD wins, series is skipped.
	categories, err := client.GetCategories(context.Background(), CategoryFilter{Live: true, VOD: true, Series: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(h.actions) != 2 {
		t.Fatalf("expected 2 calls (live, vod), got %v", h.actions)
	}
	if h.actions[0] != actionGetLiveCategories || h.actions[1] != actionGetVODCategories {
		t.Errorf("expected live then vod, got %v", h.actions)
	}
	if len(categories) != 2 || categories[1].CategoryName != "Movies" {
		t.Errorf("unexpected categories: %+v", categories)
	}

	// Series alone is honored.
	h.actions = nil
	_, err = client.GetCategories(context.Background(), CategoryFilter{Series: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(h.actions) != 1 || h.actions[0] != actionGetSeriesCategories {
		t.Errorf("expected a single series call, got %v", h.actions)
	}
}

func TestClient_GetStreams(t *testing.T) {
	h := &panelHandler{responses: map[string]any{
		actionGetLiveStreams: []Stream{
			{StreamID: 10, Name: "Channel A", StreamType: StreamTypeLive},
			{StreamID: 11, Name: "Channel B", StreamType: StreamTypeLive},
		},
	}}
	client, _ := newTestClient(t, h.handler())

	streams, err := client.GetStreams(context.Background(), StreamFilter{Live: true, CategoryID: "7"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(streams) != 2 {
		t.Fatalf("expected 2 streams, got %d", len(streams))
	}
	if streams[0].Name != "Channel A" {
		t.Errorf("expected 'Channel A', got %q", streams[0].Name)
	}
}

func TestClient_GetStreamsInvalidCategoryID(t *testing.T) {
	var calls int
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		writeAuthOK(w)
	})

	for _, categoryID := range []string{"-1", "0", "abc", "1.5"} {
		_, err := client.GetStreams(context.Background(), StreamFilter{CategoryID: categoryID})
		if !IsKind(err, KindInvalidArgument) {
			t.Errorf("category id %q: expected KindInvalidArgument, got %v", categoryID, err)
		}
	}
	if calls != 0 {
		t.Errorf("expected zero network calls for invalid category ids, got %d", calls)
	}
}

func TestClient_GetStreamInfo(t *testing.T) {
	h := &panelHandler{responses: map[string]any{
		actionGetVODInfo: map[string]any{
			"info":       map[string]any{"genre": "Drama"},
			"movie_data": map[string]any{"stream_id": 55},
		},
	}}
	client, _ := newTestClient(t, h.handler())

	info, err := client.GetStreamInfo(context.Background(), InfoKindVOD, 55)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := info["movie_data"]; !ok {
		t.Error("expected movie_data field in response")
	}
}

func TestClient_GetStreamInfoInvalidArguments(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeAuthOK(w)
	})

	if _, err := client.GetStreamInfo(context.Background(), InfoKindVOD, 0); !IsKind(err, KindInvalidArgument) {
		t.Errorf("expected KindInvalidArgument for zero id, got %v", err)
	}
	if _, err := client.GetStreamInfo(context.Background(), InfoKind("live"), 5); !IsKind(err, KindInvalidArgument) {
		t.Errorf("expected KindInvalidArgument for bad kind, got %v", err)
	}
}

func TestClient_GetShortEPG(t *testing.T) {
	h := &panelHandler{responses: map[string]any{
		actionGetShortEPG: map[string]any{
			"epg_listings": []map[string]any{
				{"id": "1", "title": "Evening News"},
			},
		},
	}}
	client, _ := newTestClient(t, h.handler())

	listings, err := client.GetShortEPG(context.Background(), 12345)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(listings) != 1 || listings[0].Title != "Evening News" {
		t.Errorf("unexpected listings: %+v", listings)
	}

	if _, err := client.GetShortEPG(context.Background(), -3); !IsKind(err, KindInvalidArgument) {
		t.Errorf("expected KindInvalidArgument for negative id, got %v", err)
	}
}

func TestClient_GetShortEPGMissingListings(t *testing.T) {
	h := &panelHandler{responses: map[string]any{
		actionGetShortEPG: map[string]any{"something_else": true},
	}}
	client, _ := newTestClient(t, h.handler())

	_, err := client.GetShortEPG(context.Background(), 12345)
	if !IsKind(err, KindMalformedResponse) {
		t.Errorf("expected KindMalformedResponse, got %v", err)
	}
}

func TestClient_GetEPGOptionalStreamID(t *testing.T) {
	var sawStreamID bool
	h := &panelHandler{responses: map[string]any{
		actionGetSimpleDataTable: map[string]any{"epg_listings": []map[string]any{}},
	}}
	base := h.handler()
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Has("stream_id") {
			sawStreamID = true
		}
		base(w, r)
	})

	// A non-positive id is silently omitted, not rejected.
	if _, err := client.GetEPG(context.Background(), -1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sawStreamID {
		t.Error("expected non-positive stream id to be omitted from the request")
	}

	if _, err := client.GetEPG(context.Background(), 42); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sawStreamID {
		t.Error("expected positive stream id to be sent")
	}
}

func TestClient_GetPanel(t *testing.T) {
	h := &panelHandler{}
	client, _ := newTestClient(t, h.handler())

	panel, err := client.GetPanel(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := panel["available_channels"]; !ok {
		t.Error("expected available_channels in panel dump")
	}
}

func TestClient_GetPlaylist(t *testing.T) {
	var query string
	h := &panelHandler{playlist: "#EXTM3U\n#EXTINF: -1,Channel\nhttp://host/live/u/p/1.ts\n"}
	base := h.handler()
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/get.php" {
			query = r.URL.RawQuery
		}
		base(w, r)
	})

	if _, err := client.Authenticate(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := client.SetOutputType("ts"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	path := filepath.Join(t.TempDir(), "playlist.m3u")
	text, err := client.GetPlaylist(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(text, "#EXTM3U") {
		t.Errorf("unexpected playlist text: %q", text)
	}

	// The output type maps through its get.php alias.
	if !strings.Contains(query, "type=m3u") || !strings.Contains(query, "output=mpegts") {
		t.Errorf("expected type=m3u and output=mpegts in query, got %q", query)
	}

	written, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading written playlist: %v", err)
	}
	if string(written) != text {
		t.Error("expected file content to match returned playlist")
	}
}

func TestClient_GetPlaylistNotFound(t *testing.T) {
	h := &panelHandler{} // empty playlist makes get.php answer 404
	client, _ := newTestClient(t, h.handler())

	_, err := client.GetPlaylist(context.Background(), "")
	if !IsKind(err, KindNotFound) {
		t.Errorf("expected KindNotFound, got %v", err)
	}
}

func TestClient_GetXMLTV(t *testing.T) {
	h := &panelHandler{xmltv: `<?xml version="1.0"?><tv></tv>`}
	client, _ := newTestClient(t, h.handler())

	path := filepath.Join(t.TempDir(), "epg.xml")
	text, err := client.GetXMLTV(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(text, "<tv>") {
		t.Errorf("unexpected xmltv text: %q", text)
	}

	written, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading written xmltv: %v", err)
	}
	if string(written) != text {
		t.Error("expected file content to match returned xmltv")
	}
}
