package cache

import "context"

// Key patterns, one per cached read-endpoint family.
const (
	PatternProducts = "cache:/productos*"
	PatternReviews  = "cache:/resenas*"
	PatternStats    = "cache:/estadisticas*"
	PatternAll      = "cache:*"
)

// Invalidator evicts the cache families whose underlying data a committed
// write may have changed. Callers must only invoke it after commit, never on
// a failed unit of work.
type Invalidator struct {
	Cache Service
}

func (i *Invalidator) Products(ctx context.Context) int {
	return i.Cache.DeleteByPattern(ctx, PatternProducts)
}

func (i *Invalidator) Reviews(ctx context.Context) int {
	return i.Cache.DeleteByPattern(ctx, PatternReviews)
}

func (i *Invalidator) Stats(ctx context.Context) int {
	return i.Cache.DeleteByPattern(ctx, PatternStats)
}

func (i *Invalidator) All(ctx context.Context) int {
	return i.Cache.DeleteByPattern(ctx, PatternAll)
}
