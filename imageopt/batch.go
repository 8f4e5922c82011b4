package imageopt

import (
	"context"
	"sync"
)

// Status is the processing state of one batch item.
type Status string

// Item states. An item moves pending → processing → optimized or error.
const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusOptimized  Status = "optimized"
	StatusError      Status = "error"
)

// Item is one file in a batch.
type Item struct {
	Name     string
	Original []byte
	Status   Status
	Result   Result
	Err      error
}

// Message returns the failure text, or "" for successful items.
func (it *Item) Message() string {
	if it.Err == nil {
		return ""
	}
	return it.Err.Error()
}

// Batch optimizes files one after another.
type Batch struct {
	mu    sync.Mutex
	opts  Options
	Items []*Item

	// OnChange, when set, is called after every status transition.
	OnChange func(*Item)
}

// NewBatch returns an empty batch using opts.
func NewBatch(opts Options) *Batch {
	return &Batch{opts: opts}
}

// Add queues a file as pending.
func (b *Batch) Add(name string, data []byte) *Item {
	it := &Item{Name: name, Original: data, Status: StatusPending}
	b.mu.Lock()
	b.Items = append(b.Items, it)
	b.mu.Unlock()
	return it
}

func (b *Batch) set(it *Item, st Status) {
	b.mu.Lock()
	it.Status = st
	b.mu.Unlock()
	if b.OnChange != nil {
		b.OnChange(it)
	}
}

// Run optimizes every pending item in order. Failed items are flagged and
// skipped; there is no retry. When ctx is cancelled the remaining items are
// flagged with the context error.
func (b *Batch) Run(ctx context.Context) (optimized, failed int) {
	for _, it := range b.Items {
		if it.Status != StatusPending {
			continue
		}
		if err := ctx.Err(); err != nil {
			it.Err = err
			b.set(it, StatusError)
			failed++
			continue
		}
		b.set(it, StatusProcessing)
		res, err := Optimize(it.Original, b.opts)
		if err != nil {
			it.Err = err
			b.set(it, StatusError)
			failed++
			continue
		}
		it.Result = res
		b.set(it, StatusOptimized)
		optimized++
	}
	return optimized, failed
}

// Snapshot returns the name and status of every item.
func (b *Batch) Snapshot() map[string]Status {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make(map[string]Status, len(b.Items))
	for _, it := range b.Items {
		out[it.Name] = it.Status
	}
	return out
}
