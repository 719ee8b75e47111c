package index

import "sync"

// Handle is the process-wide holder of the current snapshot. It starts
// empty (not ready) and transitions to ready on the first Publish. Queries
// take shared access for their full duration; Publish takes exclusive
// access only long enough to swap the snapshot reference.
//
// The handle is a plain value passed by reference to its consumers, not a
// package-level global, so it stays substitutable in tests.
type Handle struct {
	mu   sync.RWMutex
	snap *Snapshot
}

// NewHandle creates an empty handle with no snapshot.
func NewHandle() *Handle {
	return &Handle{}
}

// Publish replaces the current snapshot with a fully built one. The swap
// itself cannot fail: once Publish returns, the handle serves snap. The
// previous snapshot, if any, is closed once no reader can observe it, and
// its close error is the only error Publish can return; callers must treat
// it as advisory and never touch the snapshot they just published.
func (h *Handle) Publish(snap *Snapshot) error {
	h.mu.Lock()
	old := h.snap
	h.snap = snap
	h.mu.Unlock()

	if old != nil {
		return old.Close()
	}
	return nil
}

// IsReady reports whether a snapshot has been published.
func (h *Handle) IsReady() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.snap != nil
}

// NumDocs returns the document count of the current snapshot, 0 when not ready.
func (h *Handle) NumDocs() uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.snap == nil {
		return 0
	}
	return h.snap.DocCount()
}

// acquire takes shared access and returns the current snapshot with a
// release func. The caller must hold the release for the whole query,
// including result materialization, so it never observes a half-replaced
// snapshot. ok is false when no snapshot has been published.
func (h *Handle) acquire() (snap *Snapshot, release func(), ok bool) {
	h.mu.RLock()
	if h.snap == nil {
		h.mu.RUnlock()
		return nil, nil, false
	}
	return h.snap, h.mu.RUnlock, true
}
