// Package geocoder resolves free-form addresses and postal codes to points.
package geocoder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/oksasatya/bootcamp-directory/internal/domain/entity"
)

// ErrNoMatch is returned when the provider knows no location for the query.
var ErrNoMatch = errors.New("geocoder: no match")

// requestsPerSecond keeps bulk imports under the provider's QPS quota.
const requestsPerSecond = 5

// MapQuest implements the geocoding port against the MapQuest v1 address API.
type MapQuest struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
	Limiter *rate.Limiter // nil means unthrottled
}

func NewMapQuest(apiKey, baseURL string) *MapQuest {
	return &MapQuest{
		APIKey:  apiKey,
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 5 * time.Second},
		Limiter: rate.NewLimiter(requestsPerSecond, requestsPerSecond),
	}
}

type mqResponse struct {
	Info struct {
		StatusCode int      `json:"statuscode"`
		Messages   []string `json:"messages"`
	} `json:"info"`
	Results []struct {
		Locations []struct {
			Street     string `json:"street"`
			City       string `json:"adminArea5"`
			State      string `json:"adminArea3"`
			Country    string `json:"adminArea1"`
			PostalCode string `json:"postalCode"`
			LatLng     struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"latLng"`
		} `json:"locations"`
	} `json:"results"`
}

// Geocode returns the best match for address.
func (m *MapQuest) Geocode(ctx context.Context, address string) (*entity.Location, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, ErrNoMatch
	}

	if m.Limiter != nil {
		if err := m.Limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("geocoder throttled: %w", err)
		}
	}

	q := url.Values{}
	q.Set("key", m.APIKey)
	q.Set("location", address)
	q.Set("maxResults", "1")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := m.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocoder request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoder: unexpected status %d", resp.StatusCode)
	}

	var body mqResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("geocoder decode: %w", err)
	}
	if body.Info.StatusCode != 0 {
		return nil, fmt.Errorf("geocoder: %s", strings.Join(body.Info.Messages, "; "))
	}
	if len(body.Results) == 0 || len(body.Results[0].Locations) == 0 {
		return nil, ErrNoMatch
	}

	l := body.Results[0].Locations[0]
	loc := &entity.Location{
		Type:        "Point",
		Coordinates: [2]float64{l.LatLng.Lng, l.LatLng.Lat},
		Street:      l.Street,
		City:        l.City,
		State:       l.State,
		Zipcode:     l.PostalCode,
		Country:     l.Country,
	}
	loc.FormattedAddress = formatAddress(loc)
	return loc, nil
}

func formatAddress(l *entity.Location) string {
	var parts []string
	for _, s := range []string{l.Street, l.City, strings.TrimSpace(l.State + " " + l.Zipcode), l.Country} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}
