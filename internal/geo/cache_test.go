package geo

import (
	"errors"
	"path/filepath"
	"testing"
)

// countingEnricher records how often the inner lookup runs.
type countingEnricher struct {
	calls int
	info  *Info
	err   error
}

func (c *countingEnricher) Enrich(ip string) (*Info, error) {
	c.calls++
	return c.info, c.err
}

func (c *countingEnricher) Close() error { return nil }

func TestCachedEnricher_HitSkipsInner(t *testing.T) {
	inner := &countingEnricher{info: &Info{ISOCode: "DE", City: "Berlin"}}
	cache, err := NewCachedEnricher(inner, filepath.Join(t.TempDir(), "geo.db"))
	if err != nil {
		t.Fatalf("Failed to open cache: %v", err)
	}
	defer cache.Close()

	first, err := cache.Enrich("5.6.7.8")
	if err != nil {
		t.Fatalf("Expected lookup to succeed, got %v", err)
	}
	second, err := cache.Enrich("5.6.7.8")
	if err != nil {
		t.Fatalf("Expected cached lookup to succeed, got %v", err)
	}

	if inner.calls != 1 {
		t.Errorf("Expected 1 inner lookup, got %d", inner.calls)
	}
	if first.City != "Berlin" || second.City != "Berlin" {
		t.Errorf("Expected cached info to match, got %+v / %+v", first, second)
	}
}

func TestCachedEnricher_NegativeCaching(t *testing.T) {
	inner := &countingEnricher{err: errors.New("no record")}
	cache, err := NewCachedEnricher(inner, filepath.Join(t.TempDir(), "geo.db"))
	if err != nil {
		t.Fatalf("Failed to open cache: %v", err)
	}
	defer cache.Close()

	if _, err := cache.Enrich("9.9.9.9"); err == nil {
		t.Fatal("Expected miss to surface as error")
	}
	if _, err := cache.Enrich("9.9.9.9"); err == nil {
		t.Fatal("Expected cached miss to surface as error")
	}

	if inner.calls != 1 {
		t.Errorf("Expected miss to be cached, inner called %d times", inner.calls)
	}
}

func TestCachedEnricher_DistinctAddresses(t *testing.T) {
	inner := &countingEnricher{info: &Info{ISOCode: "FR"}}
	cache, err := NewCachedEnricher(inner, filepath.Join(t.TempDir(), "geo.db"))
	if err != nil {
		t.Fatalf("Failed to open cache: %v", err)
	}
	defer cache.Close()

	cache.Enrich("1.1.1.1")
	cache.Enrich("2.2.2.2")

	if inner.calls != 2 {
		t.Errorf("Expected one inner lookup per address, got %d", inner.calls)
	}
}
