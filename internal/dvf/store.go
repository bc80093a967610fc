// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dvf

import (
	"context"
	"time"
)

// Repository reads property sales.
type Repository interface {
	Search(ctx context.Context, query Query) ([]Sale, error)
}

// QueryObserver records database lookup latency. *metrics.Metrics satisfies it.
type QueryObserver interface {
	ObserveSalesQuery(duration time.Duration)
}

// CacheObserver records cache lookup outcomes. *metrics.Metrics satisfies it.
type CacheObserver interface {
	CacheLookup(result string)
}
