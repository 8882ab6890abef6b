package bundle

import (
	"context"
	"sync"

	"github.com/matzehuels/zbuilder/pkg/catalog"
)

// Job is a bundle generation running on its own goroutine.
type Job struct {
	done   chan struct{}
	cancel context.CancelFunc

	mu  sync.Mutex
	res *Result
	err error
}

// GenerateAsync starts Generate in the background. selected is copied, so the
// caller may keep mutating its selection. Cancelling the job, or ctx,
// discards the result and nothing is published after cancellation is seen.
func (a *Assembler) GenerateAsync(ctx context.Context, modules []catalog.Module, selected []string, opts Options) *Job {
	ctx, cancel := context.WithCancel(ctx)
	j := &Job{done: make(chan struct{}), cancel: cancel}
	names := append([]string(nil), selected...)

	go func() {
		defer close(j.done)
		defer cancel()
		res, err := a.Generate(ctx, modules, names, opts)
		if ctx.Err() != nil {
			res, err = nil, ctx.Err()
		}
		j.mu.Lock()
		j.res, j.err = res, err
		j.mu.Unlock()
	}()
	return j
}

// Done is closed when the job finished or was cancelled.
func (j *Job) Done() <-chan struct{} { return j.done }

// Cancel stops the job. A cancelled job's Wait returns context.Canceled.
func (j *Job) Cancel() { j.cancel() }

// Wait blocks until the job finishes or ctx is done.
func (j *Job) Wait(ctx context.Context) (*Result, error) {
	select {
	case <-j.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.res, j.err
}
