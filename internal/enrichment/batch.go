// Package enrichment applies crowd-sourced titles and thumbnails to tiles
// after the synchronous rewrite of a payload has finished.
package enrichment

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/alorle/tvtube-proxy/internal/payload"
	"github.com/alorle/tvtube-proxy/logging"
)

// Update is one asynchronous change to a tile. An empty Title or a nil
// Thumbnail leaves that part of the tile alone.
type Update struct {
	VideoID   string
	Tile      payload.Tile
	Title     string
	Thumbnail *payload.Thumbnail
}

func (u Update) apply() bool {
	changed := false
	if u.Title != "" && u.Tile.SetTitle(u.Title) {
		changed = true
	}
	if u.Thumbnail != nil {
		if set, ok := u.Tile.Thumbnails(); ok {
			set.Replace(*u.Thumbnail)
			changed = true
		}
	}
	return changed
}

// Batch collects the lookups started while rewriting one payload and
// applies their results one at a time. Its lock guards the payload tree:
// whoever reads or writes the tree while lookups may still land must go
// through Do.
type Batch struct {
	id      string
	logger  *slog.Logger
	mu      sync.Mutex
	updates chan Update
	pending sync.WaitGroup
	started bool
	sealed  atomic.Bool
	done    chan struct{}
	applied atomic.Int64
	onApply func(Update)
}

// NewBatch creates an empty batch. onApply, when non-nil, is called after
// each update that changed a tile.
func NewBatch(logger *slog.Logger, onApply func(Update)) *Batch {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Batch{
		id:      uuid.NewString(),
		logger:  logger,
		updates: make(chan Update, 16),
		done:    make(chan struct{}),
		onApply: onApply,
	}
}

// ID identifies the batch in logs.
func (b *Batch) ID() string {
	return b.id
}

// Do runs fn while holding the payload lock.
func (b *Batch) Do(fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn()
}

// Go runs lookup on its own goroutine and queues the update it returns.
// Go must not be called after Seal and is meant to be called from inside Do.
func (b *Batch) Go(lookup func() (Update, bool)) {
	if b.sealed.Load() {
		return
	}
	if !b.started {
		b.started = true
		go b.consume()
	}
	b.pending.Add(1)
	go func() {
		defer b.pending.Done()
		if u, ok := lookup(); ok {
			b.updates <- u
		}
	}()
}

// Seal marks the end of scheduling. Once every lookup has reported, the
// batch is done.
func (b *Batch) Seal() {
	if b.sealed.Swap(true) {
		return
	}
	if !b.started {
		close(b.done)
		return
	}
	go func() {
		b.pending.Wait()
		close(b.updates)
	}()
}

// Done is closed once the batch is sealed and every update was applied.
func (b *Batch) Done() <-chan struct{} {
	return b.done
}

// Wait blocks until the batch is done or ctx ends. The updates keep
// landing in the background when ctx wins.
func (b *Batch) Wait(ctx context.Context) error {
	select {
	case <-b.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Applied returns the number of updates that changed a tile so far.
func (b *Batch) Applied() int {
	return int(b.applied.Load())
}

func (b *Batch) consume() {
	defer close(b.done)
	for u := range b.updates {
		if b.applyOne(u) {
			b.applied.Add(1)
			if b.onApply != nil {
				b.onApply(u)
			}
		}
	}
}

func (b *Batch) applyOne(u Update) (changed bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			b.logger.Warn("enrichment update panicked", "batch_id", b.id, "video_id", u.VideoID, "panic", r)
			changed = false
		}
	}()
	return u.apply()
}
