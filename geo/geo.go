// Package geo resolves street addresses to coordinates through the
// Google geocoding API.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"tixplate/apperr"
	"tixplate/models"
	"tixplate/rdx"
)

// Geocoder is what the event handlers consume.
type Geocoder interface {
	Resolve(ctx context.Context, address string) (models.GeoPoint, error)
}

type Client struct {
	apiKey  string
	baseURL string
	httpc   *http.Client
	cache   *rdx.Conn
}

func NewClient(apiKey string, cache *rdx.Conn) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: "https://maps.googleapis.com/maps/api/geocode/json",
		httpc:   &http.Client{Timeout: 10 * time.Second},
		cache:   cache,
	}
}

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry struct {
			Location models.GeoPoint `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Resolve looks the address up in the cache first; a provider miss maps
// to 422 so the caller's create/update fails as a validation problem, not
// a server fault.
func (c *Client) Resolve(ctx context.Context, address string) (models.GeoPoint, error) {
	cacheKey := "geo:" + address
	if cached, ok := c.cache.Get(ctx, cacheKey); ok {
		var pt models.GeoPoint
		if err := json.Unmarshal([]byte(cached), &pt); err == nil {
			return pt, nil
		}
	}

	endpoint := fmt.Sprintf("%s?address=%s&key=%s", c.baseURL, url.QueryEscape(address), c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return models.GeoPoint{}, err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return models.GeoPoint{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return models.GeoPoint{}, fmt.Errorf("geo: provider error (status %d)", resp.StatusCode)
	}

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return models.GeoPoint{}, err
	}
	// Only ZERO_RESULTS means the address itself is bad. REQUEST_DENIED,
	// OVER_QUERY_LIMIT and friends are provider faults, not the caller's.
	if decoded.Status == "ZERO_RESULTS" {
		return models.GeoPoint{}, apperr.BadInput("Could not find location for the specified address")
	}
	if decoded.Status != "OK" {
		return models.GeoPoint{}, fmt.Errorf("geo: provider status %s", decoded.Status)
	}
	if len(decoded.Results) == 0 {
		return models.GeoPoint{}, apperr.BadInput("Could not find location for the specified address")
	}

	pt := decoded.Results[0].Geometry.Location
	if raw, err := json.Marshal(pt); err == nil {
		c.cache.Set(ctx, cacheKey, string(raw), 24*time.Hour)
	}
	return pt, nil
}
