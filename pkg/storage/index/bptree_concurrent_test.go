package index

import (
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"pagestore/pkg/buffer"
	"pagestore/pkg/storage/disk"
	"pagestore/pkg/storage/page"
)

// Two writers insert disjoint 10,000-key ranges concurrently while a third
// goroutine hammers GetValue; everything must be retrievable once the
// writers finish, and the whole thing must complete well inside the
// deadlock-detection timeout below.
func TestBPlusTreeConcurrentInsertAndLookup(t *testing.T) {
	file := "test_concurrent.db"
	_ = os.Remove(file)
	defer os.Remove(file)

	dm, err := disk.NewDiskManager(file)
	assert.NoError(t, err)
	bpm := buffer.NewBufferPoolManager(dm, 512)
	header, err := BootstrapHeader(bpm)
	assert.NoError(t, err)

	tree := NewBPlusTree("concurrent", header, bpm, 32, 32, nil)

	const rangeSize = 10000
	done := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < rangeSize; i++ {
			tree.Insert(int64(i), page.RecordID{PageID: page.PageID(i), SlotNum: 0})
		}
	}()
	go func() {
		defer wg.Done()
		for i := rangeSize; i < 2*rangeSize; i++ {
			tree.Insert(int64(i), page.RecordID{PageID: page.PageID(i), SlotNum: 0})
		}
	}()

	stopReads := make(chan struct{})
	go func() {
		for {
			select {
			case <-stopReads:
				return
			default:
				tree.GetValue(int64(rangeSize))
			}
		}
	}()

	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(30 * time.Second):
		t.Fatal("concurrent inserts did not complete: suspect deadlock")
	}
	close(stopReads)

	for i := 0; i < 2*rangeSize; i++ {
		v, ok := tree.GetValue(int64(i))
		assert.True(t, ok, "key %d must be retrievable", i)
		assert.Equal(t, page.PageID(i), v.PageID)
	}
}
