package xtream

import (
	"encoding/json"
	"testing"
	"time"
)

func TestFlexInt_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int64
	}{
		{"integer", `123`, 123},
		{"string number", `"456"`, 456},
		{"empty string", `""`, 0},
		{"zero", `0`, 0},
		{"negative", `-100`, -100},
		{"unix timestamp string", `"1704067200"`, 1704067200},
		{"garbage string", `"abc"`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f FlexInt
			if err := json.Unmarshal([]byte(tt.input), &f); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if f.Int() != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, f.Int())
			}
		})
	}
}

func TestFlexString_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"string", `"hello"`, "hello"},
		{"number", `123`, "123"},
		{"float number", `3.14`, "3.14"},
		{"empty string", `""`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f FlexString
			if err := json.Unmarshal([]byte(tt.input), &f); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if f.String() != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, f.String())
			}
		})
	}
}

func TestStream_DecodesMixedFieldTypes(t *testing.T) {
	// Panels are inconsistent about whether ids and numbers arrive as
	// strings or numbers; both shapes must decode.
	data := `{
		"num": "1",
		"name": "News 24",
		"stream_type": "live",
		"stream_id": 10,
		"epg_channel_id": "news24.us",
		"category_id": 5,
		"rating": "4.5"
	}`

	var s Stream
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.StreamID.Int() != 10 {
		t.Errorf("expected stream_id 10, got %d", s.StreamID.Int())
	}
	if s.CategoryID.String() != "5" {
		t.Errorf("expected category_id '5', got %q", s.CategoryID.String())
	}
	if s.Rating.Float() != 4.5 {
		t.Errorf("expected rating 4.5, got %f", s.Rating.Float())
	}
}

func TestUserInfo_IsAuthenticated(t *testing.T) {
	authed := UserInfo{Auth: 1}
	if !authed.IsAuthenticated() {
		t.Error("expected auth=1 to be authenticated")
	}

	denied := UserInfo{Auth: 0, Status: "Active"}
	if denied.IsAuthenticated() {
		t.Error("expected auth=0 to be unauthenticated regardless of status")
	}
}

func TestUserInfo_Expiration(t *testing.T) {
	future := UserInfo{ExpDate: FlexInt(time.Now().Add(24 * time.Hour).Unix())}
	if future.IsExpired() {
		t.Error("expected future expiry to not be expired")
	}

	past := UserInfo{ExpDate: FlexInt(time.Now().Add(-24 * time.Hour).Unix())}
	if !past.IsExpired() {
		t.Error("expected past expiry to be expired")
	}

	unlimited := UserInfo{ExpDate: 0}
	if unlimited.IsExpired() {
		t.Error("expected zero expiry to mean no expiration")
	}
}

func TestEPGResponse_AbsentVersusEmptyListings(t *testing.T) {
	var absent EPGResponse
	if err := json.Unmarshal([]byte(`{}`), &absent); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if absent.EPGListings != nil {
		t.Error("expected absent epg_listings to decode as nil")
	}

	var empty EPGResponse
	if err := json.Unmarshal([]byte(`{"epg_listings": []}`), &empty); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if empty.EPGListings == nil {
		t.Error("expected empty epg_listings to decode as non-nil")
	}
}

func TestEPGListing_Times(t *testing.T) {
	withTimestamps := EPGListing{StartTimestamp: 1704067200, StopTimestamp: 1704070800}
	if withTimestamps.StartTime().Unix() != 1704067200 {
		t.Errorf("unexpected start time: %v", withTimestamps.StartTime())
	}
	if withTimestamps.EndTime().Unix() != 1704070800 {
		t.Errorf("unexpected end time: %v", withTimestamps.EndTime())
	}

	withStrings := EPGListing{Start: "2024-01-01 00:00:00", End: "2024-01-01 01:00:00"}
	if withStrings.StartTime().IsZero() {
		t.Error("expected start string to parse")
	}
	if !withStrings.EndTime().After(withStrings.StartTime()) {
		t.Error("expected end after start")
	}
}
