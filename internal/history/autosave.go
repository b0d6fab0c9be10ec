// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/flamesai/flames-tui/internal/model"
)

// =============================================================================
// AUTOSAVER
// =============================================================================

// Snapshot is one autosave payload.
type Snapshot struct {
	ConversationID string
	Title          string
	Transcript     []model.Message
}

// Autosaver writes transcript snapshots to the cache with rate limiting,
// so a burst of messages produces one write instead of many.
type Autosaver struct {
	store   *Store
	limiter *rate.Limiter
	onError func(error)

	mu      sync.Mutex
	pending *Snapshot

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewAutosaver creates an autosaver writing at most one snapshot per
// interval. onError may be nil.
func NewAutosaver(store *Store, interval time.Duration, onError func(error)) *Autosaver {
	ctx, cancel := context.WithCancel(context.Background())
	a := &Autosaver{
		store:   store,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		onError: onError,
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	go a.run()
	return a
}

// Notify queues a snapshot for saving. Later snapshots for the same window
// replace earlier ones. Snapshots without a conversation id are ignored;
// there is nothing stable to key them on until the backend assigns one.
func (a *Autosaver) Notify(snap Snapshot) {
	if snap.ConversationID == "" {
		return
	}
	a.mu.Lock()
	a.pending = &snap
	a.mu.Unlock()
}

// run flushes pending snapshots as the limiter allows.
func (a *Autosaver) run() {
	defer close(a.done)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-a.ctx.Done():
			return

		case <-ticker.C:
			a.mu.Lock()
			snap := a.pending
			if snap != nil && a.limiter.Allow() {
				a.pending = nil
			} else {
				snap = nil
			}
			a.mu.Unlock()

			if snap != nil {
				a.save(snap)
			}
		}
	}
}

// save writes one snapshot.
func (a *Autosaver) save(snap *Snapshot) {
	err := a.store.SaveConversation(snap.ConversationID, snap.Title, snap.Transcript)
	if err != nil && a.onError != nil {
		a.onError(err)
	}
}

// Flush writes any pending snapshot immediately, bypassing the limiter.
func (a *Autosaver) Flush() {
	a.mu.Lock()
	snap := a.pending
	a.pending = nil
	a.mu.Unlock()

	if snap != nil {
		a.save(snap)
	}
}

// Close flushes and stops the background writer.
func (a *Autosaver) Close() {
	a.Flush()
	a.cancel()
	<-a.done
}
