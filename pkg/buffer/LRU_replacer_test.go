package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLRUKReplacerBasic(t *testing.T) {
	r := NewLRUKReplacer(7)

	// Frames 1, 2, 3 each get a single access (history group, since K=2).
	r.RecordAccess(1)
	r.RecordAccess(2)
	r.RecordAccess(3)
	r.SetEvictable(1, true)
	r.SetEvictable(2, true)
	r.SetEvictable(3, true)
	assert.Equal(t, 3, r.Size())

	// Frame 4 reaches K=2 accesses, joining the cache group.
	r.RecordAccess(4)
	r.RecordAccess(4)
	r.SetEvictable(4, true)
	assert.Equal(t, 4, r.Size())

	// History group (infinite k-distance) is scanned before cache group,
	// so frame 1 (earliest single access) is evicted first.
	f, ok := r.Evict()
	assert.True(t, ok)
	assert.Equal(t, 1, f)
	assert.Equal(t, 3, r.Size())

	f, ok = r.Evict()
	assert.True(t, ok)
	assert.Equal(t, 2, f)

	f, ok = r.Evict()
	assert.True(t, ok)
	assert.Equal(t, 3, f)

	// Only frame 4 (cache group) remains.
	f, ok = r.Evict()
	assert.True(t, ok)
	assert.Equal(t, 4, f)

	_, ok = r.Evict()
	assert.False(t, ok)
}

func TestLRUKReplacerNonEvictableSkipped(t *testing.T) {
	r := NewLRUKReplacer(7)

	r.RecordAccess(1)
	r.RecordAccess(2)
	r.SetEvictable(1, false)
	r.SetEvictable(2, true)

	assert.Equal(t, 1, r.Size())

	f, ok := r.Evict()
	assert.True(t, ok)
	assert.Equal(t, 2, f)
}

func TestLRUKReplacerCacheGroupOrdersByKthAccess(t *testing.T) {
	r := NewLRUKReplacer(7)

	// Frame 1: accesses at t=1,2 -> k-distance timestamp = 1.
	r.RecordAccess(1)
	r.RecordAccess(1)
	// Frame 2: accesses at t=3,4 -> k-distance timestamp = 3.
	r.RecordAccess(2)
	r.RecordAccess(2)
	// Frame 1 accessed again at t=5 -> history becomes [2,5], k-distance ts = 2.
	r.RecordAccess(1)

	r.SetEvictable(1, true)
	r.SetEvictable(2, true)

	// Frame 2's k-th-most-recent (t=3) is more recent than frame 1's (t=2),
	// so frame 1 (larger k-distance) is evicted first.
	f, ok := r.Evict()
	assert.True(t, ok)
	assert.Equal(t, 1, f)

	f, ok = r.Evict()
	assert.True(t, ok)
	assert.Equal(t, 2, f)
}

func TestLRUKReplacerSetEvictableDoesNotMoveGroups(t *testing.T) {
	r := NewLRUKReplacer(7)

	r.RecordAccess(1)
	assert.Equal(t, 0, r.Size())

	r.SetEvictable(1, true)
	assert.Equal(t, 1, r.Size())

	r.SetEvictable(1, false)
	assert.Equal(t, 0, r.Size())

	r.SetEvictable(1, true)
	f, ok := r.Evict()
	assert.True(t, ok)
	assert.Equal(t, 1, f)
}

func TestLRUKReplacerRemove(t *testing.T) {
	r := NewLRUKReplacer(7)

	r.RecordAccess(1)
	r.SetEvictable(1, true)
	r.Remove(1)
	assert.Equal(t, 0, r.Size())

	_, ok := r.Evict()
	assert.False(t, ok)

	// Removing an untracked frame is a no-op.
	r.Remove(99)
}

func TestLRUKReplacerRemovePinnedPanics(t *testing.T) {
	r := NewLRUKReplacer(7)
	r.RecordAccess(1)
	r.SetEvictable(1, false)

	assert.Panics(t, func() { r.Remove(1) })
}
