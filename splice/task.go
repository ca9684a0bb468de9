package splice

import (
	"context"
	"sync"
	"time"

	"github.com/chrisuehlinger/textsplice/dom"
	"github.com/chrisuehlinger/textsplice/walk"
)

const (
	// DefaultGroupSize is the number of text nodes a paced task processes
	// between yields when Options.GroupSize is unset.
	DefaultGroupSize = 50

	// DefaultInterval is the delay between groups when Options.Interval
	// is unset.
	DefaultInterval = 15 * time.Millisecond
)

// Task is a paced replacement in flight. It completes once every text node
// of its snapshot has been processed, fails on the first per-node error, or
// stops at a group boundary when its context is cancelled. In every case the
// replacements committed before the stop remain in place.
type Task struct {
	done chan struct{}

	mu        sync.Mutex
	err       error
	processed int
	mutated   int
}

// Done returns a channel closed when the task has finished, failed, or been
// cancelled.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Err returns the task's terminal error: nil while running and after normal
// completion, the per-node error after a failure, or the context's error
// after cancellation.
func (t *Task) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Processed returns the number of text nodes processed so far.
func (t *Task) Processed() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.processed
}

// Mutated returns the number of text nodes actually changed so far.
func (t *Task) Mutated() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.mutated
}

// Wait blocks until the task finishes or ctx is done, returning the task's
// terminal error in the former case and ctx's error in the latter. Waiting
// with a done context does not stop the task itself.
func (t *Task) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return t.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *Task) fail(err error) {
	t.mu.Lock()
	t.err = err
	t.mu.Unlock()
}

func (t *Task) record(mutated bool) {
	t.mu.Lock()
	t.processed++
	if mutated {
		t.mutated++
	}
	t.mu.Unlock()
}

// ReplaceTextsPaced runs the rules over every text node under root in groups,
// yielding between groups so a large document never blocks its host for one
// long uninterrupted interval. The traversal snapshot is taken synchronously
// before the call returns; processing order is strict document order, group N
// finishing entirely before group N+1 begins. Cancelling ctx stops the task
// at the next group boundary and leaves committed replacements in place.
func ReplaceTextsPaced(ctx context.Context, root *dom.Node, rules []Rule, opts Options) *Task {
	if ctx == nil {
		ctx = context.Background()
	}
	groupSize := opts.GroupSize
	if groupSize <= 0 {
		groupSize = DefaultGroupSize
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	nodes := walk.Texts(root, opts.Reject)
	task := &Task{done: make(chan struct{})}

	go task.run(ctx, nodes, rules, opts, groupSize, interval)
	return task
}

func (t *Task) run(ctx context.Context, nodes []*dom.Node, rules []Rule, opts Options, groupSize int, interval time.Duration) {
	defer close(t.done)

	timer := time.NewTimer(interval)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for i, n := range nodes {
		if i > 0 && i%groupSize == 0 {
			timer.Reset(interval)
			select {
			case <-ctx.Done():
				t.fail(ctx.Err())
				return
			case <-timer.C:
			}
		}

		text := n.AsText()
		if text == nil || n.ParentNode() == nil {
			// Detached since the snapshot was taken.
			t.record(false)
			continue
		}
		inserted, err := ReplaceTextNode(text, rules, opts.Wrapper, opts.Callback)
		if err != nil {
			t.fail(err)
			return
		}
		t.record(inserted != nil)
	}
}
