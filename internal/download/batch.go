package download

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"parcel/internal/split"
	"parcel/internal/utils"
)

// Item is the per-URL outcome of a batch. A fetch failure leaves Result
// nil; a split failure after a successful fetch keeps Result and
// records the split error, since the download itself completed.
type Item struct {
	URL    string
	Result *Result
	Parts  []split.Part
	Err    error
}

func (i Item) Failed() bool {
	return i.Result == nil
}

type BatchResult struct {
	Items     []Item
	Successes int
}

func (b *BatchResult) Failures() []Item {
	var failed []Item
	for _, item := range b.Items {
		if item.Failed() {
			failed = append(failed, item)
		}
	}
	return failed
}

// FetchAll fans out one transfer per request across numWorkers
// goroutines. Every request gets a terminal outcome; a failing transfer
// never cancels or blocks its siblings. Items preserve input order.
// Successful files above the split threshold are split before the item
// is reported complete.
func (m *Manager) FetchAll(ctx context.Context, reqs []Request, numWorkers int) *BatchResult {
	if numWorkers <= 0 || numWorkers > len(reqs) {
		numWorkers = len(reqs)
	}
	logger := utils.GetLogger("batch")
	logger.Info().Int("totalFiles", len(reqs)).Int("workers", numWorkers).Msg("Initiating batch transfer")

	type job struct {
		index int
		req   Request
	}
	jobCh := make(chan job, len(reqs))
	for i, req := range reqs {
		jobCh <- job{index: i, req: req}
	}
	close(jobCh)

	items := make([]Item, len(reqs))
	var wg sync.WaitGroup
	for workerID := range numWorkers {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			workerLog := logger.With().Int("workerID", workerID).Logger()
			for j := range jobCh {
				jobID := uuid.NewString()
				workerLog.Debug().Str("jobID", jobID).Str("url", j.req.URL).Msg("Worker starting transfer")
				items[j.index] = m.fetchAndSplit(ctx, j.req)
			}
		}(workerID + 1)
	}
	wg.Wait()

	result := &BatchResult{Items: items}
	for _, item := range items {
		if !item.Failed() {
			result.Successes++
		}
	}
	logger.Info().Int("successes", result.Successes).Int("failures", len(reqs)-result.Successes).Msg("Batch transfer finished")
	return result
}

func (m *Manager) fetchAndSplit(ctx context.Context, req Request) Item {
	item := Item{URL: req.URL}
	res, err := m.fetch(ctx, req)
	if err != nil {
		item.Err = err
		return item
	}
	item.Result = res
	if res.FileSize > m.cfg.SplitThreshold {
		parts, err := split.Split(res.FilePath, m.cfg.PartSize, m.cfg.SplitDir)
		if err != nil {
			// The download itself completed; only part delivery is off.
			item.Err = err
			return item
		}
		item.Parts = parts
	}
	return item
}
