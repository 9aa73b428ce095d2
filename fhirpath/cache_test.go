package fhirpath

import "testing"

func TestCompileCacheHitsOnRepeat(t *testing.T) {
	c := NewCompileCache(4)

	if _, err := c.Compile("name.family"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := c.Compile("name.family"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stats := c.Stats()
	if stats.Hits != 1 {
		t.Fatalf("expected 1 hit, got %d", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Fatalf("expected 1 miss, got %d", stats.Misses)
	}
}

func TestCompileCacheDoesNotCacheParseErrors(t *testing.T) {
	c := NewCompileCache(4)
	if _, err := c.Compile("name)"); err == nil {
		t.Fatalf("expected parse error")
	}
	if stats := c.Stats(); stats.Size != 0 {
		t.Fatalf("expected nothing cached after parse error, got size %d", stats.Size)
	}
}
