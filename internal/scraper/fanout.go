package scraper

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pfrederiksen/chess-tools/internal/logger"
)

// Batch is the result of fetching many tournaments.
type Batch struct {
	Total       int           `json:"total_tournaments"`
	Tournaments []*Tournament `json:"tournaments"`
}

// Records returns the external form of every tournament in the batch.
func (b *Batch) Records() []map[string]string {
	records := make([]map[string]string, 0, len(b.Tournaments))
	for _, t := range b.Tournaments {
		records = append(records, t.Record())
	}
	return records
}

// Upcoming fetches the listing page and the summary of every tournament it links.
func (s *Scraper) Upcoming(ctx context.Context) *Batch {
	html := s.FetchListing(ctx)
	if html == "" {
		return &Batch{Tournaments: []*Tournament{}}
	}
	return s.FetchAll(ctx, ExtractReferences(html))
}

// FetchAll fetches the summary of each reference with at most s.concurrency
// requests in flight. Results are in completion order, not input order. A task
// that panics is logged and left out of the batch.
func (s *Scraper) FetchAll(ctx context.Context, refs []string) *Batch {
	batch := &Batch{Tournaments: make([]*Tournament, 0, len(refs))}
	if len(refs) == 0 {
		return batch
	}

	batchID := uuid.NewString()
	start := time.Now()
	s.log.Info("Fetching tournament details", logger.Fields{
		"batch_id":    batchID,
		"refs":        len(refs),
		"concurrency": s.concurrency,
	})

	results := make(chan *Tournament)
	semaphore := make(chan struct{}, s.concurrency)
	var wg sync.WaitGroup

	for _, ref := range refs {
		wg.Add(1)
		go func(ref string) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			t, err := s.runTask(ctx, ref)
			if err != nil {
				s.log.Error("Error processing tournament", logger.Fields{
					"batch_id": batchID,
					"ref":      ref,
				}, err)
				logger.IncrCounter("scraper.batch.dropped")
				return
			}
			results <- t
		}(ref)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	for t := range results {
		batch.Tournaments = append(batch.Tournaments, t)
	}
	batch.Total = len(batch.Tournaments)

	elapsed := time.Since(start)
	logger.RecordTiming("scraper.batch", elapsed)
	s.log.Info("Fetched tournament details", logger.Fields{
		"batch_id": batchID,
		"total":    batch.Total,
		"dropped":  len(refs) - batch.Total,
		"elapsed":  elapsed.String(),
	})

	return batch
}

// runTask runs one fetch task and turns a panic into an error.
func (s *Scraper) runTask(ctx context.Context, ref string) (t *Tournament, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	t = s.fetchSummary(ctx, ref)
	if t == nil {
		return nil, fmt.Errorf("no result for %s", ref)
	}
	return t, nil
}
