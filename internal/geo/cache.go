package geo

import (
	"database/sql"
	"encoding/json"
	"log"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Misses are retried after this long; hits never expire (addresses move
// between networks far slower than they reoffend).
const missTTL = 24 * time.Hour

// CachedEnricher wraps another Enricher with a persistent sqlite cache so
// repeat offenders do not re-hit the database or network on every line.
type CachedEnricher struct {
	inner Enricher
	db    *sql.DB
}

// NewCachedEnricher opens (or creates) the cache at dbPath around inner.
func NewCachedEnricher(inner Enricher, dbPath string) (*CachedEnricher, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	query := `
	CREATE TABLE IF NOT EXISTS geo_cache (
		ip TEXT PRIMARY KEY,
		info TEXT,
		looked_up DATETIME
	);`
	if _, err := db.Exec(query); err != nil {
		db.Close()
		return nil, err
	}

	return &CachedEnricher{inner: inner, db: db}, nil
}

// Enrich serves from cache when possible, falling through to the wrapped
// enricher otherwise. Both successful lookups and misses are recorded; a
// cached miss is honored until its TTL lapses.
func (c *CachedEnricher) Enrich(ip string) (*Info, error) {
	if info, ok := c.lookup(ip); ok {
		if info == nil {
			return nil, sql.ErrNoRows
		}
		return info, nil
	}

	info, err := c.inner.Enrich(ip)
	c.store(ip, info)
	return info, err
}

func (c *CachedEnricher) lookup(ip string) (*Info, bool) {
	var infoJSON sql.NullString
	var lookedUp time.Time
	row := c.db.QueryRow("SELECT info, looked_up FROM geo_cache WHERE ip = ?", ip)
	if err := row.Scan(&infoJSON, &lookedUp); err != nil {
		return nil, false
	}

	if !infoJSON.Valid {
		if time.Since(lookedUp) > missTTL {
			return nil, false
		}
		return nil, true
	}

	var info Info
	if err := json.Unmarshal([]byte(infoJSON.String), &info); err != nil {
		return nil, false
	}
	return &info, true
}

func (c *CachedEnricher) store(ip string, info *Info) {
	var infoJSON interface{}
	if info != nil {
		b, err := json.Marshal(info)
		if err != nil {
			return
		}
		infoJSON = string(b)
	}

	_, err := c.db.Exec(
		"INSERT OR REPLACE INTO geo_cache (ip, info, looked_up) VALUES (?, ?, ?)",
		ip, infoJSON, time.Now(),
	)
	if err != nil {
		log.Printf("[GEO] Failed to cache lookup for %s: %v", ip, err)
	}
}

// Close releases the cache and the wrapped enricher.
func (c *CachedEnricher) Close() error {
	if err := c.db.Close(); err != nil {
		c.inner.Close()
		return err
	}
	return c.inner.Close()
}
