package mainloop

import (
	"context"

	"github.com/bnema/webbridge/internal/application/port"
	"golang.org/x/sync/errgroup"
)

// Worker runs background jobs and delivers their results on the main context.
// Results of concurrent jobs arrive in completion order, not submission order.
type Worker struct {
	ctx    context.Context
	poster port.Poster
	group  *errgroup.Group
}

// NewWorker creates a worker running at most limit jobs at once (no limit if <= 0).
func NewWorker(ctx context.Context, poster port.Poster, limit int) *Worker {
	group := new(errgroup.Group)
	if limit > 0 {
		group.SetLimit(limit)
	}
	return &Worker{ctx: ctx, poster: poster, group: group}
}

// Submit runs job in the background and posts done with its result.
// Blocks while the worker is at its limit.
func Submit[T any](w *Worker, job func(ctx context.Context) (T, error), done func(T, error)) {
	w.group.Go(func() error {
		value, err := job(w.ctx)
		w.poster.Post(func() {
			done(value, err)
		})
		return nil
	})
}

// Wait blocks until every submitted job finished and posted its result.
func (w *Worker) Wait() {
	_ = w.group.Wait()
}
