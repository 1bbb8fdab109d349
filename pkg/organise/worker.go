package organise

import (
	"context"
	"sync"

	"github.com/sdejongh/hashtidy/pkg/models"
)

// Pool bounds the number of files processed concurrently. Workers share
// nothing in memory: each candidate owns its own result slot, so no locks
// guard the results.
type Pool struct {
	maxWorkers int
	semaphore  chan struct{}
}

// NewPool creates a worker pool
func NewPool(maxWorkers int) *Pool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &Pool{
		maxWorkers: maxWorkers,
		semaphore:  make(chan struct{}, maxWorkers),
	}
}

// Run processes every candidate through the organiser in parallel and
// returns one result per candidate, in candidate order. It blocks until
// all dispatched files have completed or failed; there is no ordering
// guarantee between files and no mid-flight cancellation beyond the
// context each filesystem call observes.
func (p *Pool) Run(ctx context.Context, organiser *Organiser, candidates []models.FileEntry, observe func(result *models.FileResult)) []models.FileResult {
	results := make([]models.FileResult, len(candidates))
	var wg sync.WaitGroup

	for i := range candidates {
		p.semaphore <- struct{}{}
		wg.Add(1)

		go func(slot int) {
			defer wg.Done()
			defer func() { <-p.semaphore }()

			results[slot] = organiser.Process(ctx, &candidates[slot])
			if observe != nil {
				observe(&results[slot])
			}
		}(i)
	}

	wg.Wait()
	return results
}
