// Package probe runs batches of independent Monte Carlo queries against accelerators and media
// on a pool of workers.
package probe

import (
	"context"
	"runtime"
	"time"

	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/df07/go-raytransport/pkg/core"
)

// workerSeedStride separates the sampler streams of neighbouring workers
const workerSeedStride = 7919

// cancelCheckInterval is how many queries a worker runs between context checks
const cancelCheckInterval = 64

// Query evaluates sample index with the calling worker's private sampler.
// It returns the sampled value and whether the sample counts as a success (a hit, a scatter).
type Query func(index int, sampler core.Sampler) (float64, bool)

// Result holds the per-sample values of a batch. Mean and StdDev summarize the values of
// successful samples only.
type Result struct {
	Values    []float64
	Successes []bool
	Mean      float64
	StdDev    float64
	Hits      int
	Elapsed   time.Duration
	Workers   int
}

// HitFraction returns the fraction of samples that succeeded
func (r *Result) HitFraction() float64 {
	if len(r.Values) == 0 {
		return 0
	}
	return float64(r.Hits) / float64(len(r.Values))
}

// Pool runs queries in parallel. Sample i is always handled by worker i mod NumWorkers with a
// sampler seeded from the pool seed and the worker index, so a batch is reproducible for a fixed
// seed and worker count.
type Pool struct {
	numWorkers int
	seed       int64
	logger     core.Logger

	completed atomic.Int64
}

// NewPool creates a pool with the specified number of workers; zero or less means one per CPU
func NewPool(numWorkers int, seed int64, logger core.Logger) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if logger == nil {
		logger = core.NopLogger()
	}
	return &Pool{numWorkers: numWorkers, seed: seed, logger: logger}
}

// NumWorkers returns the number of workers in the pool
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

// Completed returns how many samples have finished since the pool was created.
// It is safe to call while Run is in progress.
func (p *Pool) Completed() int64 {
	return p.completed.Load()
}

// Run evaluates query for n samples and waits for all of them
func (p *Pool) Run(ctx context.Context, n int, query Query) (*Result, error) {
	start := time.Now()
	result := &Result{
		Values:    make([]float64, n),
		Successes: make([]bool, n),
		Workers:   p.numWorkers,
	}

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < p.numWorkers; w++ {
		worker := w
		g.Go(func() error {
			sampler := core.NewSeededSampler(p.seed + int64(worker)*workerSeedStride)
			// Each worker writes a disjoint set of indices
			for i := worker; i < n; i += p.numWorkers {
				if (i/p.numWorkers)%cancelCheckInterval == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				value, ok := query(i, sampler)
				result.Values[i] = value
				result.Successes[i] = ok
				p.completed.Inc()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, ok := range result.Successes {
		if ok {
			result.Hits++
		}
	}
	if result.Hits > 0 {
		successful := make([]float64, 0, result.Hits)
		for i, ok := range result.Successes {
			if ok {
				successful = append(successful, result.Values[i])
			}
		}
		result.Mean, result.StdDev = stat.MeanStdDev(successful, nil)
		if result.Hits == 1 {
			result.StdDev = 0
		}
	}
	result.Elapsed = time.Since(start)

	p.logger.Debugf("probe ran %d samples on %d workers in %v (%d successes)",
		n, p.numWorkers, result.Elapsed, result.Hits)
	return result, nil
}
