// Package geocoding resolves postal addresses to coordinates through a
// Nominatim-compatible HTTP endpoint.
package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

const (
	upstreamName   = "nominatim"
	requestTimeout = 10 * time.Second

	// Nominatim's usage policy requires an identifying agent.
	userAgent = "dispatch/1.0"
)

// nominatimResult is the subset of the search response the geocoder reads.
// Nominatim serializes coordinates as strings.
type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// NominatimGeocoder implements the Geocoder port against a Nominatim search
// endpoint. The region suffix is appended to every query to bias results
// toward the service area.
type NominatimGeocoder struct {
	baseURL    string
	region     string
	httpClient *http.Client
}

// NewNominatimGeocoder creates a geocoder for the given endpoint.
// region may be empty; when set it is appended to every address query.
func NewNominatimGeocoder(baseURL string, region string) *NominatimGeocoder {
	return &NominatimGeocoder{
		baseURL: baseURL,
		region:  region,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// Geocode resolves the address to a geographic point.
//
// Returns an object-not-found error when the address matches nothing and an
// upstream-unavailable error when the endpoint cannot be reached or answers
// with garbage.
func (g *NominatimGeocoder) Geocode(ctx context.Context, address string) (kernel.GeoPoint, error) {
	if address == "" {
		return kernel.GeoPoint{}, errs.NewValueIsRequiredError("address")
	}

	query := address
	if g.region != "" {
		query = fmt.Sprintf("%s, %s", address, g.region)
	}

	requestURL := fmt.Sprintf(
		"%s/search?q=%s&format=json&limit=1",
		g.baseURL,
		url.QueryEscape(query),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return kernel.GeoPoint{}, errs.NewUpstreamUnavailableErrorWithCause(upstreamName, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return kernel.GeoPoint{}, errs.NewUpstreamUnavailableErrorWithCause(upstreamName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return kernel.GeoPoint{}, errs.NewUpstreamUnavailableErrorWithCause(
			upstreamName,
			fmt.Errorf("unexpected status %d", resp.StatusCode),
		)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return kernel.GeoPoint{}, errs.NewUpstreamUnavailableErrorWithCause(upstreamName, err)
	}

	if len(results) == 0 {
		return kernel.GeoPoint{}, errs.NewObjectNotFoundError("address", address)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return kernel.GeoPoint{}, errs.NewUpstreamUnavailableErrorWithCause(upstreamName, err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return kernel.GeoPoint{}, errs.NewUpstreamUnavailableErrorWithCause(upstreamName, err)
	}

	return kernel.NewGeoPoint(lat, lng)
}
