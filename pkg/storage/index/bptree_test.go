package index

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"pagestore/pkg/buffer"
	"pagestore/pkg/storage/disk"
	"pagestore/pkg/storage/page"
)

func newTestTree(t *testing.T, file string, poolSize int, leafMaxSize, internalMaxSize int32) (*BPlusTree, *buffer.BufferPoolManager) {
	t.Helper()
	_ = os.Remove(file)
	t.Cleanup(func() { os.Remove(file) })

	dm, err := disk.NewDiskManager(file)
	assert.NoError(t, err)

	bpm := buffer.NewBufferPoolManager(dm, poolSize)
	header, err := BootstrapHeader(bpm)
	assert.NoError(t, err)

	return NewBPlusTree("primary", header, bpm, leafMaxSize, internalMaxSize, nil), bpm
}

func rid(pageID int32, slot uint32) page.RecordID {
	return page.RecordID{PageID: page.PageID(pageID), SlotNum: slot}
}

func TestBPlusTreeInsertAndGetValue(t *testing.T) {
	tree, _ := newTestTree(t, "test_insert_get.db", 50, 4, 4)

	const n = 20
	for i := 0; i < n; i++ {
		ok := tree.Insert(int64(i), rid(int32(i), 0))
		assert.True(t, ok, "insert of key %d should succeed", i)
	}

	assert.False(t, tree.Insert(0, rid(999, 0)), "duplicate insert must fail")

	for i := 0; i < n; i++ {
		v, ok := tree.GetValue(int64(i))
		assert.True(t, ok)
		assert.Equal(t, rid(int32(i), 0), v)
	}

	_, ok := tree.GetValue(int64(n + 1))
	assert.False(t, ok)
}

func TestBPlusTreeInsertCausesSplitAndMultiLevelHeight(t *testing.T) {
	tree, bpm := newTestTree(t, "test_split.db", 50, 4, 4)

	for i := 1; i <= 20; i++ {
		assert.True(t, tree.Insert(int64(i), rid(int32(i), 0)))
	}

	// 20 keys cannot fit in one leaf of max size 4, so the root is internal.
	rootGuard := bpm.FetchPageGuarded(tree.GetRootPageID())
	assert.NotNil(t, rootGuard)
	assert.False(t, page.NewBPlusTreePage(rootGuard.Page()).IsLeaf())
	rootGuard.Unpin()

	for i := 1; i <= 20; i++ {
		v, ok := tree.GetValue(int64(i))
		assert.True(t, ok, "key %d must be retrievable after splits", i)
		assert.Equal(t, rid(int32(i), 0), v)
	}

	it := tree.Begin()
	assert.NotNil(t, it)
	defer it.Close()

	var got []int64
	for it.IsValid() {
		got = append(got, it.Key())
		it.Next()
	}
	assert.Equal(t, 20, len(got))
	for i, k := range got {
		assert.Equal(t, int64(i+1), k)
	}
}

func TestBPlusTreeDelete(t *testing.T) {
	tree, _ := newTestTree(t, "test_delete.db", 50, 4, 4)

	const n = 100
	for i := 0; i < n; i++ {
		assert.True(t, tree.Insert(int64(i), rid(int32(i), 0)))
	}

	for i := 0; i < n; i++ {
		tree.Remove(int64(i))

		_, found := tree.GetValue(int64(i))
		assert.False(t, found, "key %d should not exist after removal", i)
	}

	assert.True(t, tree.IsEmpty(), "tree should be empty after removing all keys")
}

// Scenario: from a tree of 20 keys with small max sizes, remove keys
// 20..11 in reverse, checking after each removal that the key is gone, and
// at the end that keys 1..10 are retrievable and iteration yields ten keys.
func TestBPlusTreeDeleteWithCoalesce(t *testing.T) {
	tree, _ := newTestTree(t, "test_delete_coalesce.db", 50, 4, 4)

	for i := 1; i <= 20; i++ {
		assert.True(t, tree.Insert(int64(i), rid(int32(i), 0)))
	}

	for i := 20; i >= 11; i-- {
		tree.Remove(int64(i))
		_, found := tree.GetValue(int64(i))
		assert.False(t, found)
	}

	for i := 1; i <= 10; i++ {
		v, ok := tree.GetValue(int64(i))
		assert.True(t, ok)
		assert.Equal(t, rid(int32(i), 0), v)
	}

	it := tree.Begin()
	assert.NotNil(t, it)
	defer it.Close()
	var got []int64
	for it.IsValid() {
		got = append(got, it.Key())
		it.Next()
	}
	assert.Equal(t, 10, len(got))
}

func TestBPlusTreeBeginAt(t *testing.T) {
	tree, _ := newTestTree(t, "test_begin_at.db", 50, 4, 4)

	for i := 0; i < 20; i += 2 {
		assert.True(t, tree.Insert(int64(i), rid(int32(i), 0)))
	}

	it := tree.BeginAt(5)
	assert.NotNil(t, it)
	defer it.Close()
	assert.Equal(t, int64(6), it.Key())
}

// Two independently-rooted trees can share one buffer pool and one header
// page, each keyed by its own name.
func TestBPlusTreeMultipleNamedTreesShareOneBufferPool(t *testing.T) {
	_ = os.Remove("test_multi_tree.db")
	defer os.Remove("test_multi_tree.db")

	dm, err := disk.NewDiskManager("test_multi_tree.db")
	assert.NoError(t, err)
	bpm := buffer.NewBufferPoolManager(dm, 100)
	header, err := BootstrapHeader(bpm)
	assert.NoError(t, err)

	primary := NewBPlusTree("primary", header, bpm, 8, 8, nil)
	secondary := NewBPlusTree("secondary", header, bpm, 8, 8, nil)

	for i := int64(0); i < 30; i++ {
		assert.True(t, primary.Insert(i, rid(int32(i), 0)))
		assert.True(t, secondary.Insert(i, rid(int32(i), 1)))
	}

	assert.NotEqual(t, primary.GetRootPageID(), secondary.GetRootPageID())

	for i := int64(0); i < 30; i++ {
		v, ok := primary.GetValue(i)
		assert.True(t, ok)
		assert.Equal(t, uint32(0), v.SlotNum)

		v, ok = secondary.GetValue(i)
		assert.True(t, ok)
		assert.Equal(t, uint32(1), v.SlotNum)
	}
}

func TestBPlusTreeHeaderPersistsRootAcrossTreeHandles(t *testing.T) {
	_ = os.Remove("test_header_persist.db")
	defer os.Remove("test_header_persist.db")

	dm, err := disk.NewDiskManager("test_header_persist.db")
	assert.NoError(t, err)
	bpm := buffer.NewBufferPoolManager(dm, 50)
	header, err := BootstrapHeader(bpm)
	assert.NoError(t, err)

	treeA := NewBPlusTree("idx_a", header, bpm, 4, 4, nil)
	treeA.Insert(1, rid(1, 0))

	// A second handle over the same name picks up the same root, since
	// the header record is created the moment the tree is first rooted.
	treeB := NewBPlusTree("idx_a", header, bpm, 4, 4, nil)
	v, ok := treeB.GetValue(1)
	assert.True(t, ok)
	assert.Equal(t, rid(1, 0), v)
}
