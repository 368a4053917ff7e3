package approvals

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/medrefer/medrefer/internal/domain/approval"
)

// ErrActionInFlight is returned when an approve or reject is attempted for
// an item whose previous decision call has not yet completed. Decisions are
// at most once per interaction; the control stays disabled until resolution.
var ErrActionInFlight = errors.New("a decision for this item is already in flight")

// View is an immutable snapshot of the workflow for rendering.
type View struct {
	Kind       approval.Kind
	Page       int
	TotalPages int
	Items      []*approval.PendingItem
	Stats      *approval.Stats
	// Banner is a non-fatal error message shown inline; the previous page's
	// items remain visible beneath it.
	Banner string
}

// Workflow orchestrates the administration screen's state: the current page
// of pending items, aggregate stats, and the per-item decision controls.
// List responses apply last-request-wins: a slow response for a superseded
// page or queue is discarded rather than overwriting newer results.
type Workflow struct {
	api API

	mu         sync.Mutex
	listSeq    uint64
	kind       approval.Kind
	page       int
	limit      int
	totalPages int
	items      []*approval.PendingItem
	stats      *approval.Stats
	banner     string
	inFlight   map[uuid.UUID]bool
}

func NewWorkflow(api API, pageSize int) *Workflow {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &Workflow{
		api:      api,
		kind:     approval.KindUser,
		page:     1,
		limit:    pageSize,
		inFlight: make(map[uuid.UUID]bool),
	}
}

// View returns the current render state.
func (w *Workflow) View() View {
	w.mu.Lock()
	defer w.mu.Unlock()
	items := make([]*approval.PendingItem, len(w.items))
	copy(items, w.items)
	return View{
		Kind:       w.kind,
		Page:       w.page,
		TotalPages: w.totalPages,
		Items:      items,
		Stats:      w.stats,
		Banner:     w.banner,
	}
}

// Decidable reports whether the item's controls are enabled.
func (w *Workflow) Decidable(id uuid.UUID) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return !w.inFlight[id]
}

// LoadPage fetches one page of the given queue. On failure the previous
// items stay visible and the banner carries the error. A response that
// resolves after a newer LoadPage was issued is discarded.
func (w *Workflow) LoadPage(ctx context.Context, kind approval.Kind, page int) error {
	if page < 1 {
		page = 1
	}

	w.mu.Lock()
	w.listSeq++
	seq := w.listSeq
	w.kind = kind
	w.page = page
	limit := w.limit
	w.mu.Unlock()

	items, totalPages, err := w.api.ListPending(ctx, kind, page, limit)

	w.mu.Lock()
	defer w.mu.Unlock()
	if seq != w.listSeq {
		// Superseded by a newer request; ignore this response entirely.
		return nil
	}
	if err != nil {
		w.banner = err.Error()
		return err
	}
	w.items = items
	w.totalPages = totalPages
	w.banner = ""
	return nil
}

// Approve resolves an item to approved and refreshes the page and stats.
// The item is never removed from the list before the server confirms.
func (w *Workflow) Approve(ctx context.Context, id uuid.UUID, message string) error {
	return w.decide(ctx, id, func(kind approval.Kind) error {
		return w.api.Approve(ctx, kind, id, message)
	})
}

// Reject resolves an item to rejected. An empty reason is refused before
// any network call is made.
func (w *Workflow) Reject(ctx context.Context, id uuid.UUID, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return approval.ErrReasonRequired
	}
	return w.decide(ctx, id, func(kind approval.Kind) error {
		return w.api.Reject(ctx, kind, id, reason)
	})
}

func (w *Workflow) decide(ctx context.Context, id uuid.UUID, call func(approval.Kind) error) error {
	w.mu.Lock()
	if w.inFlight[id] {
		w.mu.Unlock()
		return ErrActionInFlight
	}
	w.inFlight[id] = true
	kind := w.kind
	page := w.page
	w.mu.Unlock()

	err := call(kind)

	w.mu.Lock()
	delete(w.inFlight, id)
	if err != nil {
		w.banner = err.Error()
	}
	w.mu.Unlock()

	if err != nil {
		return err
	}

	// Re-fetch the page and stats so the resolved item drops out and the
	// counts catch up. The two fetches are independent; failures here are
	// non-fatal and only surface on the banner.
	_ = w.LoadPage(ctx, kind, page)
	w.RefreshStats(ctx)
	return nil
}

// RefreshStats re-fetches aggregate counts. Stats and the item list are
// only eventually consistent; brief staleness after a decision is expected.
func (w *Workflow) RefreshStats(ctx context.Context) {
	stats, err := w.api.Stats(ctx)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.banner = err.Error()
		return
	}
	w.stats = stats
}
