package geo

// Info holds the location metadata attached to a parsed record. Absent
// lookups leave the record's geo field nil; Info is never persisted on its
// own.
type Info struct {
	ISOCode     string  `json:"iso_code"`
	Country     string  `json:"country"`
	Subdivision string  `json:"subdivision"`
	City        string  `json:"city"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
}

// Enricher resolves an IP address to location metadata. Implementations
// return (nil, error) on any failure; callers must treat that as "no geo
// data" and continue, never as a pipeline error.
type Enricher interface {
	Enrich(ip string) (*Info, error)
	Close() error
}
