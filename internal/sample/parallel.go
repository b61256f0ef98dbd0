package sample

import (
	"runtime"
	"sync"

	"github.com/inodb/vibe-mdr/internal/annotation"
)

// WorkItem is a sample table waiting to be classified.
type WorkItem struct {
	Seq    int
	Sample string
	Open   func() (annotation.RowReader, error)
}

// WorkResult holds the classification output for a single sample.
type WorkResult struct {
	Seq    int
	Sample string
	Result *Result
	Err    error
}

// ParallelAggregate classifies work items using a pool of workers.
// Results are sent to the returned channel in arrival order (not sequence order).
// Use OrderedCollect to consume results in sequence-number order.
// If workers is 0, runtime.NumCPU() is used.
func (a *Aggregator) ParallelAggregate(items <-chan WorkItem, workers int) <-chan WorkResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make(chan WorkResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for range workers {
		go func() {
			defer wg.Done()
			for item := range items {
				res, err := a.aggregateItem(item)
				results <- WorkResult{
					Seq:    item.Seq,
					Sample: item.Sample,
					Result: res,
					Err:    err,
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// Run classifies all items with the given number of workers and calls fn
// for each result in item order.
func (a *Aggregator) Run(items []WorkItem, workers int, fn func(WorkResult) error) error {
	ch := make(chan WorkItem, len(items))
	for i, item := range items {
		item.Seq = i
		ch <- item
	}
	close(ch)

	return OrderedCollect(a.ParallelAggregate(ch, workers), fn)
}

func (a *Aggregator) aggregateItem(item WorkItem) (*Result, error) {
	r, err := item.Open()
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return a.AggregateReader(item.Sample, r)
}

// OrderedCollect calls fn for each result in sequence-number order.
// It buffers out-of-order results in a pending map and emits them
// as soon as the next expected sequence number is available.
// Blocks until the results channel is closed.
func OrderedCollect(results <-chan WorkResult, fn func(WorkResult) error) error {
	pending := make(map[int]WorkResult)
	nextSeq := 0

	for r := range results {
		pending[r.Seq] = r

		for {
			rr, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++
			if err := fn(rr); err != nil {
				// Drain remaining results to unblock workers.
				for range results {
				}
				return err
			}
		}
	}

	return nil
}
