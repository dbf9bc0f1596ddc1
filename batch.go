package mdview

import (
	"context"
	"runtime"
	"sync"
)

// Worker sizing constants.
const (
	// MinWorkers ensures at least one worker is available.
	MinWorkers = 1

	// MaxWorkers caps concurrent fetches against the same hosts.
	MaxWorkers = 8
)

// ResolveWorkers determines the number of rendering workers.
// Priority: explicit workers > GOMAXPROCS-based calculation.
// Exported for use by servers and CLIs.
func ResolveWorkers(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is adjusted by automaxprocs for containers
	n := runtime.GOMAXPROCS(0)
	if n < MinWorkers {
		return MinWorkers
	}
	if n > MaxWorkers {
		return MaxWorkers
	}
	return n
}

// RenderAll renders every attachment with at most workers concurrent
// renders and returns the documents in input order. A value <= 0 for
// workers selects ResolveWorkers(0). Attachments not started before ctx is
// done fail with the context error.
func (v *Viewer) RenderAll(ctx context.Context, attachments []Attachment, workers int) []*Document {
	docs := make([]*Document, len(attachments))
	if len(attachments) == 0 {
		return docs
	}

	workers = min(ResolveWorkers(workers), len(attachments))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				docs[i] = v.Render(ctx, attachments[i])
			}
		}()
	}

	for i := range attachments {
		if ctx.Err() != nil {
			docs[i] = v.fail(&Document{Attachment: attachments[i]}, ctx.Err())
			continue
		}
		select {
		case jobs <- i:
		case <-ctx.Done():
			docs[i] = v.fail(&Document{Attachment: attachments[i]}, ctx.Err())
		}
	}
	close(jobs)
	wg.Wait()

	return docs
}
