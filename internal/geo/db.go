package geo

import (
	"fmt"
	"net"

	"github.com/oschwald/geoip2-golang"
)

// DBEnricher answers lookups from a local GeoLite2-City database. The reader
// is opened once at construction and held for the enricher's lifetime;
// Close releases it on shutdown.
type DBEnricher struct {
	reader *geoip2.Reader
}

// NewDBEnricher opens the mmdb at path.
func NewDBEnricher(path string) (*DBEnricher, error) {
	reader, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open geo database: %w", err)
	}
	return &DBEnricher{reader: reader}, nil
}

// Enrich looks up ip in the city database.
func (e *DBEnricher) Enrich(ip string) (*Info, error) {
	addr := net.ParseIP(ip)
	if addr == nil {
		return nil, fmt.Errorf("malformed ip address %q", ip)
	}

	city, err := e.reader.City(addr)
	if err != nil {
		return nil, fmt.Errorf("geo lookup for %s: %w", ip, err)
	}

	info := &Info{
		ISOCode: city.Country.IsoCode,
		Country: city.Country.Names["en"],
		City:    city.City.Names["en"],
		Lat:     city.Location.Latitude,
		Lon:     city.Location.Longitude,
	}
	// Most specific subdivision, matching what operators expect from the
	// upstream city databases.
	if n := len(city.Subdivisions); n > 0 {
		info.Subdivision = city.Subdivisions[n-1].IsoCode
	}
	return info, nil
}

// Close releases the database handle.
func (e *DBEnricher) Close() error {
	return e.reader.Close()
}
