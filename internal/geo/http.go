package geo

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"
)

// HTTPEnricher resolves addresses through a remote JSON lookup service. The
// client timeout bounds how long one record's enrichment can stall its
// pipeline; a timeout is reported as a lookup failure, not propagated.
type HTTPEnricher struct {
	baseURL string
	client  *http.Client
}

// NewHTTPEnricher creates an enricher querying baseURL/<ip>.
func NewHTTPEnricher(baseURL string) *HTTPEnricher {
	return &HTTPEnricher{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// geoResponse is the service's payload shape.
type geoResponse struct {
	CountryCode string  `json:"countryCode"`
	Country     string  `json:"country"`
	Region      string  `json:"region"`
	City        string  `json:"city"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
}

// Enrich queries the remote service. Any non-2xx status or malformed body
// yields an error.
func (e *HTTPEnricher) Enrich(ip string) (*Info, error) {
	if net.ParseIP(ip) == nil {
		return nil, fmt.Errorf("malformed ip address %q", ip)
	}

	resp, err := e.client.Get(e.baseURL + "/" + url.PathEscape(ip))
	if err != nil {
		return nil, fmt.Errorf("geo lookup for %s: %w", ip, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("geo service returned status: %s", resp.Status)
	}

	var body geoResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode geo response: %w", err)
	}

	return &Info{
		ISOCode:     body.CountryCode,
		Country:     body.Country,
		Subdivision: body.Region,
		City:        body.City,
		Lat:         body.Lat,
		Lon:         body.Lon,
	}, nil
}

// Close is a no-op; the enricher holds no scoped resources.
func (e *HTTPEnricher) Close() error {
	return nil
}
