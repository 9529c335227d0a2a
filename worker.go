// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rombuilder

package rombuilder

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Adaptive batching bounds for large passes.
const (
	batchesPerWorker = 8
	maxBatchSize     = 64
)

// autoBatchSize spreads n units into about batchesPerWorker batches per worker.
func autoBatchSize(n int, workers int) int {
	workers = max(1, workers)
	return min(maxBatchSize, max(1, n/(workers*batchesPerWorker)))
}

// dispatch runs fn over items on a bounded pool, batch items per task.
// The first error cancels the remaining work and is returned.
func dispatch[T any](ctx context.Context, workers int, batch int, items []T, fn func(context.Context, T) error) error {
	if len(items) == 0 {
		return nil
	}

	batch = max(1, batch)
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(max(1, workers))

	for start := 0; start < len(items); start += batch {
		if ctx.Err() != nil {
			break
		}

		chunk := items[start:min(start+batch, len(items))]
		eg.Go(func() error {
			for _, item := range chunk {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := fn(ctx, item); err != nil {
					return err
				}
			}
			return nil
		})
	}

	return eg.Wait()
}
