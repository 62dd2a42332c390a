package orders

import (
	"sync"
	"time"

	"github.com/trendora/storefront-admin/internal/admin/products"
)

const defaultWorkspaceTTL = 2 * time.Hour

// Workspace bundles the per-session order workflow state: the list store,
// the transition controller bound to it and the manual order composer.
type Workspace struct {
	Store       *Store
	Transitions *TransitionController
	Manual      *ManualComposer
}

type workspaceEntry struct {
	workspace *Workspace
	lastSeen  time.Time
}

// Workspaces hands out one Workspace per admin session, so staged filters
// and manual drafts survive across requests without leaking between
// operators. Idle workspaces are evicted after the TTL.
type Workspaces struct {
	svc     Service
	catalog products.Service
	limit   int
	ttl     time.Duration
	now     func() time.Time

	mu      sync.Mutex
	entries map[string]*workspaceEntry
}

// NewWorkspaces constructs the registry.
func NewWorkspaces(svc Service, catalog products.Service, pageLimit int, ttl time.Duration) *Workspaces {
	if ttl <= 0 {
		ttl = defaultWorkspaceTTL
	}
	return &Workspaces{
		svc:     svc,
		catalog: catalog,
		limit:   pageLimit,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]*workspaceEntry),
	}
}

// Get returns the workspace for the session, creating it on first use.
func (w *Workspaces) Get(sessionID string) *Workspace {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	w.evictLocked(now)

	entry, ok := w.entries[sessionID]
	if !ok {
		store := NewStore(w.svc, w.limit)
		entry = &workspaceEntry{
			workspace: &Workspace{
				Store:       store,
				Transitions: NewTransitionController(w.svc, store),
				Manual:      NewManualComposer(w.svc, w.catalog),
			},
		}
		w.entries[sessionID] = entry
	}
	entry.lastSeen = now
	return entry.workspace
}

// Drop removes the workspace for the session, e.g. on logout.
func (w *Workspaces) Drop(sessionID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.entries, sessionID)
}

func (w *Workspaces) evictLocked(now time.Time) {
	for id, entry := range w.entries {
		if now.Sub(entry.lastSeen) > w.ttl {
			delete(w.entries, id)
		}
	}
}
