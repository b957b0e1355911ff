package index

import (
	"encoding/binary"
	"fmt"
	"sync"

	"pagestore/pkg/buffer"
	"pagestore/pkg/storage/page"
)

// HeaderPageID is the fixed page id reserved for the index header. It must
// be the very first page a fresh buffer pool allocates.
const HeaderPageID = page.PageID(0)

const (
	maxIndexNameLen  = 32
	headerEntrySize  = 4 + maxIndexNameLen + 4 // name length + name bytes + root page id
	maxHeaderEntries = (page.PageSize - 4) / headerEntrySize
)

// Header replaces a JSON-sidecar table catalog with a name -> root-page-id
// directory stored on a single, ordinary buffer-pool page: one flat array of
// fixed-width entries names every tree's root. It is kept pinned for its
// owner's lifetime, the way a WAL or superblock header typically is.
type Header struct {
	mu   sync.Mutex
	bpm  *buffer.BufferPoolManager
	page *page.Page
}

// BootstrapHeader allocates the header page on a fresh buffer pool. It
// must be the pool's first allocation, so the header always lives at
// HeaderPageID.
func BootstrapHeader(bpm *buffer.BufferPoolManager) (*Header, error) {
	p := bpm.NewPage()
	if p == nil {
		return nil, fmt.Errorf("index: failed to allocate header page")
	}
	if p.ID() != HeaderPageID {
		return nil, fmt.Errorf("index: header page must be the buffer pool's first allocation, got id %d", p.ID())
	}
	binary.LittleEndian.PutUint32(p.Data[0:4], 0)
	bpm.UnpinPage(p.ID(), true)

	pinned := bpm.FetchPage(HeaderPageID)
	return &Header{bpm: bpm, page: pinned}, nil
}

// OpenHeader pins the header page of a buffer pool that was previously
// bootstrapped (e.g. after reopening an existing database file).
func OpenHeader(bpm *buffer.BufferPoolManager) (*Header, error) {
	p := bpm.FetchPage(HeaderPageID)
	if p == nil {
		return nil, fmt.Errorf("index: header page %d is not available", HeaderPageID)
	}
	return &Header{bpm: bpm, page: p}, nil
}

// Close releases the header's pin. Callers must not use the Header after
// calling Close.
func (h *Header) Close() {
	h.bpm.UnpinPage(h.page.ID(), false)
}

func (h *Header) count() int {
	return int(binary.LittleEndian.Uint32(h.page.Data[0:4]))
}

func (h *Header) setCount(n int) {
	binary.LittleEndian.PutUint32(h.page.Data[0:4], uint32(n))
}

func (h *Header) entryOffset(i int) int {
	return 4 + i*headerEntrySize
}

func (h *Header) nameAt(off int) string {
	nameLen := binary.LittleEndian.Uint32(h.page.Data[off : off+4])
	return string(h.page.Data[off+4 : off+4+int(nameLen)])
}

// GetRootPageID looks up name's root page id, returning InvalidPageID if
// name has never been created.
func (h *Header) GetRootPageID(name string) page.PageID {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := h.count()
	for i := 0; i < n; i++ {
		off := h.entryOffset(i)
		if h.nameAt(off) == name {
			rootOff := off + 4 + maxIndexNameLen
			return page.PageID(int32(binary.LittleEndian.Uint32(h.page.Data[rootOff : rootOff+4])))
		}
	}
	return page.InvalidPageID
}

// SetRootPageID records name's root page id, creating the entry on its
// first call. A correct implementation creates this record the moment a
// tree is first rooted, rather than lazily deferring it to the first
// re-rooting — the bug this header does not repeat.
func (h *Header) SetRootPageID(name string, rootID page.PageID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := h.count()
	for i := 0; i < n; i++ {
		off := h.entryOffset(i)
		if h.nameAt(off) == name {
			rootOff := off + 4 + maxIndexNameLen
			binary.LittleEndian.PutUint32(h.page.Data[rootOff:rootOff+4], uint32(int32(rootID)))
			h.page.SetDirty(true)
			return
		}
	}

	if len(name) > maxIndexNameLen {
		panic(fmt.Sprintf("index: name %q exceeds header's fixed name width of %d bytes", name, maxIndexNameLen))
	}
	if n >= maxHeaderEntries {
		panic("index: header page has no room for another named tree")
	}

	off := h.entryOffset(n)
	binary.LittleEndian.PutUint32(h.page.Data[off:off+4], uint32(len(name)))
	copy(h.page.Data[off+4:off+4+maxIndexNameLen], name)
	rootOff := off + 4 + maxIndexNameLen
	binary.LittleEndian.PutUint32(h.page.Data[rootOff:rootOff+4], uint32(int32(rootID)))

	h.setCount(n + 1)
	h.page.SetDirty(true)
}

// Flush writes the header page to disk immediately, independent of the
// buffer pool's own eviction schedule.
func (h *Header) Flush() bool {
	return h.bpm.FlushPage(h.page.ID())
}
