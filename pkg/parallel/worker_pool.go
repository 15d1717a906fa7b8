// Package parallel provides generic parallel processing utilities.
package parallel

import (
	"context"
	"runtime"
	"sync"
)

// PoolConfig configures how many goroutines a processor may use.
type PoolConfig struct {
	// MaxWorkers is the maximum number of concurrent workers.
	// Default: min(runtime.NumCPU(), 8)
	MaxWorkers int

	// MinChunkSize is the smallest number of items handed to one worker.
	// Inputs smaller than two chunks run on a single worker.
	MinChunkSize int
}

// DefaultPoolConfig returns a default pool configuration.
func DefaultPoolConfig() PoolConfig {
	workers := runtime.NumCPU()
	if workers > 8 {
		workers = 8
	}
	if workers < 2 {
		workers = 2
	}
	return PoolConfig{MaxWorkers: workers, MinChunkSize: 1}
}

// WithWorkers returns a new config with the specified number of workers.
func (c PoolConfig) WithWorkers(n int) PoolConfig {
	c.MaxWorkers = n
	return c
}

// WithMinChunkSize returns a new config with the specified minimum chunk size.
func (c PoolConfig) WithMinChunkSize(n int) PoolConfig {
	c.MinChunkSize = n
	return c
}

// ChunkProcessor processes large datasets by splitting them into contiguous
// chunks and processing each chunk in parallel.
type ChunkProcessor[T any, R any] struct {
	config PoolConfig
}

// NewChunkProcessor creates a new chunk processor.
func NewChunkProcessor[T any, R any](config PoolConfig) *ChunkProcessor[T, R] {
	if config.MaxWorkers <= 0 {
		config.MaxWorkers = DefaultPoolConfig().MaxWorkers
	}
	if config.MinChunkSize <= 0 {
		config.MinChunkSize = 1
	}
	return &ChunkProcessor[T, R]{config: config}
}

// Workers returns the number of chunks items would be split into.
func (p *ChunkProcessor[T, R]) Workers(n int) int {
	workers := p.config.MaxWorkers
	if maxByChunk := n / p.config.MinChunkSize; workers > maxByChunk {
		workers = maxByChunk
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}

// ProcessChunks splits the input into chunks and processes each chunk in parallel.
// Chunk i covers a contiguous range that precedes chunk i+1; the reducer
// receives the per-chunk results in that order. A chunk whose worker
// observed a cancelled context contributes the zero value of R.
func (p *ChunkProcessor[T, R]) ProcessChunks(
	ctx context.Context,
	items []T,
	processor func(ctx context.Context, chunk []T, workerID int) R,
	reducer func(results []R) R,
) R {
	if len(items) == 0 {
		var zero R
		return zero
	}

	numWorkers := p.Workers(len(items))
	if numWorkers == 1 {
		return reducer([]R{processor(ctx, items, 0)})
	}

	chunkSize := (len(items) + numWorkers - 1) / numWorkers
	results := make([]R, numWorkers)

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > len(items) {
			end = len(items)
		}
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(workerID int, chunk []T) {
			defer wg.Done()
			select {
			case <-ctx.Done():
				return
			default:
				results[workerID] = processor(ctx, chunk, workerID)
			}
		}(w, items[start:end])
	}

	wg.Wait()
	return reducer(results)
}
