package buffer

import "pagestore/pkg/storage/page"

// PageGuard is a scoped handle over one pinned frame. Go has no destructors,
// so it is the idiomatic stand-in for a "scoped handle whose destructor
// unpins, exposing an explicit mark_dirty()": callers fetch through
// FetchPageGuarded/NewPageGuarded, call MarkDirty when they mutate the page,
// and Unpin (typically via defer) when done with it.
type PageGuard struct {
	bpm      *BufferPoolManager
	page     *page.Page
	dirty    bool
	unpinned bool
}

func newPageGuard(bpm *BufferPoolManager, p *page.Page) *PageGuard {
	if p == nil {
		return nil
	}
	return &PageGuard{bpm: bpm, page: p}
}

// Page exposes the underlying frame for data access and latching.
func (g *PageGuard) Page() *page.Page {
	return g.page
}

// MarkDirty records that the page was mutated. Unpin passes this through to
// the buffer pool.
func (g *PageGuard) MarkDirty() {
	g.dirty = true
}

// Unpin releases the guard's pin. Safe to call more than once; only the
// first call has effect.
func (g *PageGuard) Unpin() {
	if g.unpinned {
		return
	}
	g.unpinned = true
	g.bpm.UnpinPage(g.page.ID(), g.dirty)
}
