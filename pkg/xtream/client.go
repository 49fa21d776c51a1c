package xtream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/jmylchreest/xtreamctl/internal/urlutil"
	"github.com/jmylchreest/xtreamctl/pkg/httpclient"
)

// API endpoint paths.
const (
	pathPlayerAPI = "/player_api.php"
	pathPanelAPI  = "/panel_api.php"
	pathGetM3U    = "/get.php"
	pathXMLTV     = "/xmltv.php"
)

// API actions.
const (
	actionGetLiveCategories   = "get_live_categories"
	actionGetVODCategories    = "get_vod_categories"
	actionGetSeriesCategories = "get_series_categories"
	actionGetLiveStreams      = "get_live_streams"
	actionGetVODStreams       = "get_vod_streams"
	actionGetSeries           = "get_series"
	actionGetVODInfo          = "get_vod_info"
	actionGetSeriesInfo       = "get_series_info"
	actionGetShortEPG         = "get_short_epg"
	actionGetSimpleDataTable  = "get_simple_data_table"
)

// Query parameter names.
const (
	paramUsername   = "username"
	paramPassword   = "password"
	paramAction     = "action"
	paramCategoryID = "category_id"
	paramVODID      = "vod_id"
	paramSeriesID   = "series_id"
	paramStreamID   = "stream_id"
	paramType       = "type"
	paramOutput     = "output"
)

// Playlist type values accepted by get.php.
const (
	PlaylistTypeM3U     = "m3u"
	PlaylistTypeM3UPlus = "m3u_plus"
)

const (
	// defaultUserAgent mimics a desktop browser; some panels reject
	// obviously scripted clients.
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	headerUserAgent      = "User-Agent"
	maxErrorBodyReadSize = 1024
)

// outputAliases maps a live output type to the value get.php expects in
// its output parameter.
var outputAliases = map[string]string{
	"ts":   "mpegts",
	"rtmp": "rtmp",
	"m3u8": "m3u8",
}

// AuthState is the authentication state of a client.
type AuthState int

const (
	// StateUnauthenticated is the initial state; no valid authentication
	// result is cached.
	StateUnauthenticated AuthState = iota

	// StateAuthenticated means the panel accepted the credentials and
	// UserInfo/ServerInfo are cached.
	StateAuthenticated
)

// String returns a human-readable name for the state.
func (s AuthState) String() string {
	if s == StateAuthenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

// Doer executes a single HTTP request. *http.Client and
// *httpclient.Client both satisfy it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is an Xtream Codes panel API client. It owns the session state:
// server URL, credentials, headers, and the cached authentication result.
//
// A Client is not safe for concurrent mutation; callers sharing one
// instance across goroutines must serialize access themselves.
type Client struct {
	serverURL    string
	username     string
	password     string
	headers      map[string]string
	playlistType string
	outputType   string

	state      AuthState
	userInfo   *UserInfo
	serverInfo *ServerInfo

	http   Doer
	logger *slog.Logger
}

// Option is a function that configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP transport. Any Doer works, including the
// retrying httpclient.Client.
func WithHTTPClient(d Doer) Option {
	return func(c *Client) {
		c.http = d
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHeaders sets the request headers. A nil or empty map falls back to
// the built-in defaults.
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) {
		c.SetHeaders(headers)
	}
}

// WithPlaylistType sets the playlist type requested from get.php.
func WithPlaylistType(playlistType string) Option {
	return func(c *Client) {
		c.SetPlaylistType(playlistType)
	}
}

// New creates a panel client. The server URL must be a well-formed
// absolute http/https URL; a trailing slash is stripped. Username and
// password must be non-empty.
func New(serverURL, username, password string, opts ...Option) (*Client, error) {
	c := &Client{
		headers:      defaultHeaders(),
		playlistType: PlaylistTypeM3U,
		state:        StateUnauthenticated,
		logger:       slog.Default(),
	}

	if err := c.SetServerURL(serverURL); err != nil {
		return nil, err
	}
	if err := c.SetUsername(username); err != nil {
		return nil, err
	}
	if err := c.SetPassword(password); err != nil {
		return nil, err
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.http == nil {
		cfg := httpclient.DefaultConfig()
		cfg.Logger = c.logger
		c.http = httpclient.New(cfg)
	}

	return c, nil
}

// defaultHeaders returns the built-in header set.
func defaultHeaders() map[string]string {
	return map[string]string{
		headerUserAgent: defaultUserAgent,
	}
}

// ServerURL returns the normalized server URL.
func (c *Client) ServerURL() string {
	return c.serverURL
}

// Username returns the current username.
func (c *Client) Username() string {
	return c.username
}

// PlaylistType returns the current playlist type.
func (c *Client) PlaylistType() string {
	return c.playlistType
}

// OutputType returns the current live output type.
func (c *Client) OutputType() string {
	return c.outputType
}

// State returns the current authentication state.
func (c *Client) State() AuthState {
	return c.state
}

// Headers returns a copy of the current request headers.
func (c *Client) Headers() map[string]string {
	headers := make(map[string]string, len(c.headers))
	for k, v := range c.headers {
		headers[k] = v
	}
	return headers
}

// SetServerURL validates and stores a new server URL, stripping any
// trailing slash.
func (c *Client) SetServerURL(serverURL string) error {
	normalized := urlutil.NormalizeBaseURL(serverURL)
	if err := urlutil.ValidateBaseURL(normalized); err != nil {
		return wrapError(KindInvalidArgument, err, "server url %q", serverURL)
	}
	c.serverURL = normalized
	return nil
}

// SetUsername stores a new username and discards the cached
// authentication result.
func (c *Client) SetUsername(username string) error {
	if username == "" {
		return newError(KindInvalidArgument, "username must not be empty")
	}
	c.username = username
	c.invalidateAuth()
	return nil
}

// SetPassword stores a new password and discards the cached
// authentication result.
func (c *Client) SetPassword(password string) error {
	if password == "" {
		return newError(KindInvalidArgument, "password must not be empty")
	}
	c.password = password
	c.invalidateAuth()
	return nil
}

// SetHeaders replaces the request headers. A nil or empty map silently
// falls back to the built-in defaults; this never fails.
func (c *Client) SetHeaders(headers map[string]string) {
	if len(headers) == 0 {
		c.headers = defaultHeaders()
		return
	}
	copied := make(map[string]string, len(headers))
	for k, v := range headers {
		copied[k] = v
	}
	c.headers = copied
}

// SetPlaylistType sets the playlist type requested from get.php. Unknown
// values silently fall back to m3u.
func (c *Client) SetPlaylistType(playlistType string) {
	switch playlistType {
	case PlaylistTypeM3U, PlaylistTypeM3UPlus:
		c.playlistType = playlistType
	default:
		c.playlistType = PlaylistTypeM3U
	}
}

// SetOutputType sets the live output type. The empty string is always
// accepted; any other value must be one of the formats the server
// advertised during the last successful authentication.
func (c *Client) SetOutputType(outputType string) error {
	allowed := c.AllowedOutputFormats()
	for _, format := range allowed {
		if outputType == format {
			c.outputType = outputType
			return nil
		}
	}
	return newError(KindInvalidArgument, "output type %q not allowed by server, valid types: %v", outputType, allowed)
}

// AllowedOutputFormats returns the output types the server advertised
// during the last successful authentication, preceded by the empty
// string (always valid). No network call is made.
func (c *Client) AllowedOutputFormats() []string {
	allowed := []string{""}
	if c.userInfo != nil {
		allowed = append(allowed, c.userInfo.AllowedOutputFormats...)
	}
	return allowed
}

// invalidateAuth discards the cached authentication result.
func (c *Client) invalidateAuth() {
	c.state = StateUnauthenticated
	c.userInfo = nil
	c.serverInfo = nil
}

// Authenticate calls the panel's authentication endpoint. On success the
// client caches UserInfo/ServerInfo and transitions to
// StateAuthenticated; on any failure the state returns to
// StateUnauthenticated and the error carries KindAuthenticationFailed
// (with the transport failure, if any, as the underlying cause).
func (c *Client) Authenticate(ctx context.Context) (*AuthInfo, error) {
	var info AuthInfo
	if err := c.requestJSON(ctx, pathPlayerAPI, nil, &info); err != nil {
		c.invalidateAuth()
		if IsKind(err, KindAuthenticationFailed) {
			return nil, err
		}
		return nil, wrapError(KindAuthenticationFailed, err, "authenticating with panel")
	}

	if !info.UserInfo.IsAuthenticated() {
		c.invalidateAuth()
		return nil, newError(KindAuthenticationFailed, "panel rejected credentials for user %q", c.username)
	}

	c.userInfo = &info.UserInfo
	c.serverInfo = &info.ServerInfo
	c.state = StateAuthenticated

	c.logger.Debug("authenticated with panel",
		slog.String("server", c.serverURL),
		slog.String("status", info.UserInfo.Status),
	)

	return &info, nil
}

// EnsureAuthenticated makes exactly one authentication attempt when the
// client is unauthenticated, and is a no-op otherwise. Protected calls
// run this before dispatching.
func (c *Client) EnsureAuthenticated(ctx context.Context) error {
	if c.state == StateAuthenticated {
		return nil
	}
	_, err := c.Authenticate(ctx)
	return err
}

// UserInfo returns the cached account information, authenticating first
// if needed.
func (c *Client) UserInfo(ctx context.Context) (*UserInfo, error) {
	if err := c.EnsureAuthenticated(ctx); err != nil {
		return nil, err
	}
	info := *c.userInfo
	return &info, nil
}

// ServerInfo returns the cached server information, authenticating first
// if needed.
func (c *Client) ServerInfo(ctx context.Context) (*ServerInfo, error) {
	if err := c.EnsureAuthenticated(ctx); err != nil {
		return nil, err
	}
	info := *c.serverInfo
	return &info, nil
}

// apiURL builds a request URL for the given endpoint. Credentials are
// always present; action parameters are merged on top.
func (c *Client) apiURL(endpoint string, params map[string]string) string {
	values := url.Values{}
	values.Set(paramUsername, c.username)
	values.Set(paramPassword, c.password)
	for k, v := range params {
		values.Set(k, v)
	}
	return c.serverURL + endpoint + "?" + values.Encode()
}

// get performs one GET against the panel and classifies the outcome.
// The response is returned only for 2xx statuses.
func (c *Client) get(ctx context.Context, requestURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, wrapError(KindRequestFailed, err, "creating request")
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, wrapError(KindRequestFailed, err, "requesting %s", req.URL.Path)
	}

	if err := classifyStatus(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}

	return resp, nil
}

// classifyStatus maps a non-2xx response to the error taxonomy.
func classifyStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return statusError(KindNotFound, resp.StatusCode, "endpoint or resource not available on this server")
	case 444:
		return statusError(KindAuthenticationFailed, resp.StatusCode, "account banned or invalid")
	case http.StatusServiceUnavailable:
		return statusError(KindServiceUnavailable, resp.StatusCode, "server unavailable after retries")
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyReadSize))
		reason := strings.TrimSpace(string(body))
		if reason == "" {
			reason = resp.Status
		}
		return statusError(KindRequestFailed, resp.StatusCode, reason)
	}
}

// requestJSON dispatches a GET and decodes the JSON response into target.
// It does not consult the auth gate; use getJSON for protected endpoints.
func (c *Client) requestJSON(ctx context.Context, endpoint string, params map[string]string, target any) error {
	resp, err := c.get(ctx, c.apiURL(endpoint, params))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return wrapError(KindMalformedResponse, err, "decoding %s response", endpoint)
	}
	return nil
}

// getJSON ensures authentication, then dispatches a GET and decodes the
// JSON response into target.
func (c *Client) getJSON(ctx context.Context, endpoint string, params map[string]string, target any) error {
	if err := c.EnsureAuthenticated(ctx); err != nil {
		return err
	}
	return c.requestJSON(ctx, endpoint, params, target)
}

// getText ensures authentication, then dispatches a GET and returns the
// raw response body as text.
func (c *Client) getText(ctx context.Context, endpoint string, params map[string]string) (string, error) {
	if err := c.EnsureAuthenticated(ctx); err != nil {
		return "", err
	}

	resp, err := c.get(ctx, c.apiURL(endpoint, params))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", wrapError(KindRequestFailed, err, "reading %s response", endpoint)
	}
	return string(body), nil
}

// actionParams builds the parameter map for a player_api.php action.
func actionParams(action string, extra map[string]string) map[string]string {
	params := map[string]string{paramAction: action}
	for k, v := range extra {
		params[k] = v
	}
	return params
}

// intParam formats an integer request parameter.
func intParam(n int) string {
	return fmt.Sprintf("%d", n)
}
