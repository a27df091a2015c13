// internal/venue/client.go

// Package venue looks up the coordinates of a venue address.
package venue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/conecourse/editor/internal/config"
	"github.com/conecourse/editor/pkg/core"
)

// DefaultUserAgent identifies the editor to the geocoding service.
const DefaultUserAgent = "autocross_editor"

// ErrNotFound is returned when the geocoder has no match for an address.
var ErrNotFound = errors.New("venue not found")

// Result is the best match for an address.
type Result struct {
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// LatLng returns the match as a coordinate.
func (r Result) LatLng() core.LatLng {
	return core.LatLng{Lat: r.Latitude, Lng: r.Longitude}
}

// Client queries a Nominatim compatible geocoder. Each search is a single
// request with no retry.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// New creates a new geocoding client.
func New(baseURL, userAgent string, timeout time.Duration) *Client {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// FromConfig creates a client from the venue settings.
func FromConfig(cfg config.VenueConfig) *Client {
	return New(cfg.BaseURL, cfg.UserAgent, cfg.Timeout)
}

type place struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

// Search returns the best match for address.
func (c *Client) Search(ctx context.Context, address string) (Result, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return Result{}, errors.New("address is required")
	}

	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return Result{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("geocoding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("geocoding returned status %d", resp.StatusCode)
	}

	var places []place
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return Result{}, fmt.Errorf("failed to decode geocoding response: %w", err)
	}
	if len(places) == 0 {
		return Result{}, ErrNotFound
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return Result{}, fmt.Errorf("bad latitude %q: %w", places[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return Result{}, fmt.Errorf("bad longitude %q: %w", places[0].Lon, err)
	}
	return Result{Address: places[0].DisplayName, Latitude: lat, Longitude: lon}, nil
}
