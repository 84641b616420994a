// Package geocode wraps the Yandex geocoder HTTP API used to resolve a
// store's street address into coordinates at registration time.
package geocode

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

	"github.com/bakhasuleiman/wesavefood-backend/pkg/config"
	"github.com/bakhasuleiman/wesavefood-backend/pkg/types"
)

// ErrNoMatch signals the geocoder returned no candidates for the address.
var ErrNoMatch = errors.New("geocode: no match for address")

// Client calls the Yandex geocoder.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient builds a geocoder client. A missing API key is allowed; the
// caller is expected to skip geocoding in that case.
func NewClient(cfg config.GeocoderConfig, opts ...Option) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	client := &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     strings.TrimSpace(cfg.APIKey),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Enabled reports whether an API key was configured.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

type geocodeResponse struct {
	Response struct {
		GeoObjectCollection struct {
			FeatureMember []struct {
				GeoObject struct {
					Point struct {
						Pos string `json:"pos"`
					} `json:"Point"`
				} `json:"GeoObject"`
			} `json:"featureMember"`
		} `json:"GeoObjectCollection"`
	} `json:"response"`
}

// Geocode resolves a free-form address into coordinates.
func (c *Client) Geocode(ctx context.Context, address string) (types.Location, error) {
	if !c.Enabled() {
		return types.Location{}, errors.New("geocoder api key not configured")
	}

	query := url.Values{}
	query.Set("apikey", c.apiKey)
	query.Set("format", "json")
	query.Set("geocode", address)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/?"+query.Encode(), nil)
	if err != nil {
		return types.Location{}, fmt.Errorf("build geocode request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return types.Location{}, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.Location{}, fmt.Errorf("geocode request: unexpected status %d", resp.StatusCode)
	}

	var payload geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return types.Location{}, fmt.Errorf("decode geocode response: %w", err)
	}

	members := payload.Response.GeoObjectCollection.FeatureMember
	if len(members) == 0 {
		return types.Location{}, ErrNoMatch
	}

	// Yandex returns "lng lat" separated by a space.
	parts := strings.Fields(members[0].GeoObject.Point.Pos)
	if len(parts) != 2 {
		return types.Location{}, fmt.Errorf("malformed point %q", members[0].GeoObject.Point.Pos)
	}
	lng, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return types.Location{}, fmt.Errorf("parse longitude: %w", err)
	}
	lat, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return types.Location{}, fmt.Errorf("parse latitude: %w", err)
	}
	return types.Location{Lat: lat, Lng: lng}, nil
}
