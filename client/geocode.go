package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"
)

const (
	opencageEndpoint = "https://api.opencagedata.com/geocode/v1/json"
	geocodeLimit     = 5
)

// GeocodeResult is one candidate location for a free-text query.
type GeocodeResult struct {
	Formatted string  `json:"formatted"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Geocoder resolves free-text complaint locations through the OpenCage
// forward geocoding API.
type Geocoder struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

// NewGeocoder creates a geocoder with the given OpenCage API key.
func NewGeocoder(apiKey string) *Geocoder {
	return &Geocoder{
		apiKey:     apiKey,
		endpoint:   opencageEndpoint,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Forward returns up to five candidate locations for the query.
func (g *Geocoder) Forward(ctx context.Context, query string) ([]GeocodeResult, error) {
	if query == "" {
		return nil, fmt.Errorf("query is required")
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("key", g.apiKey)
	q.Set("limit", fmt.Sprintf("%d", geocodeLimit))
	q.Set("no_annotations", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read geocode response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := gjson.GetBytes(body, "status.message").String()
		return nil, fmt.Errorf("geocode failed with status %d: %s", resp.StatusCode, msg)
	}

	var results []GeocodeResult
	gjson.GetBytes(body, "results").ForEach(func(_, value gjson.Result) bool {
		results = append(results, GeocodeResult{
			Formatted: value.Get("formatted").String(),
			Latitude:  value.Get("geometry.lat").Float(),
			Longitude: value.Get("geometry.lng").Float(),
		})
		return true
	})
	return results, nil
}
