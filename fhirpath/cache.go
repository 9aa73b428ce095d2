package fhirpath

import "github.com/gofhir/sqlonfhir/cache"

// CompileCache memoizes Parse() by source text, so a ViewDefinition's
// column/where/forEach expressions are lexed and parsed once no matter
// how many resources it is later evaluated against (spec §9 "Expression
// caching" design note). Reuses the teacher's generic cache.Cache[K,V]
// unchanged: an LRU keyed on arbitrary comparable types is exactly what
// this needs, and the teacher already built it to be domain-agnostic.
type CompileCache struct {
	cache *cache.Cache[string, Expr]
}

// NewCompileCache creates a compiled-expression cache holding up to
// capacity distinct expression strings.
func NewCompileCache(capacity int) *CompileCache {
	return &CompileCache{cache: cache.New[string, Expr](capacity)}
}

// Compile returns the cached Expr for src, parsing and caching it on
// first use. Parse errors are never cached, so a transient fix to a
// ViewDefinition's syntax doesn't require flushing the cache.
func (c *CompileCache) Compile(src string) (Expr, error) {
	if expr, ok := c.cache.Get(src); ok {
		return expr, nil
	}
	expr, err := Parse(src)
	if err != nil {
		return nil, err
	}
	c.cache.Set(src, expr)
	return expr, nil
}

// Stats exposes the underlying LRU's hit/miss/eviction counters for
// metrics reporting.
func (c *CompileCache) Stats() cache.Stats {
	return c.cache.Stats()
}
