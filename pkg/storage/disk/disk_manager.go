// Package disk is the buffer pool's disk-manager collaborator: synchronous,
// fixed-size page reads and writes against one backing file.
package disk

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"

	"pagestore/pkg/storage/page"
)

// DiskManager is the capability the buffer pool depends on to move pages to
// and from durable storage. All four methods are synchronous and may fail;
// the buffer pool surfaces failure by returning null/false from whichever
// public call triggered them. FlushAllPages and DeletePage do not report a
// failed write-back.
type DiskManager interface {
	ReadPage(pageID page.PageID, p *page.Page) error
	WritePage(pageID page.PageID, p *page.Page) error
	AllocatePage() page.PageID
	DeallocatePage(pageID page.PageID)
	Close() error
}

// FileDiskManager is a DiskManager backed by one OS file, addressed by
// pageID * PageSize byte offsets.
type FileDiskManager struct {
	mu         sync.Mutex
	dbFile     *os.File
	fileName   string
	nextPageID page.PageID
}

// NewDiskManager opens (creating if necessary) the backing file and
// recovers nextPageID from its current size.
func NewDiskManager(dbFileName string) (*FileDiskManager, error) {
	dir := filepath.Dir(dbFileName)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return nil, err
		}
	}

	file, err := os.OpenFile(dbFileName, os.O_RDWR|os.O_CREATE, 0664)
	if err != nil {
		return nil, err
	}

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}

	return &FileDiskManager{
		dbFile:     file,
		fileName:   dbFileName,
		nextPageID: page.PageID(info.Size() / page.PageSize),
	}, nil
}

func (d *FileDiskManager) Close() error {
	return d.dbFile.Close()
}

// ReadPage reads pageID's bytes into p.Data.
func (d *FileDiskManager) ReadPage(pageID page.PageID, p *page.Page) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	offset := int64(pageID) * int64(page.PageSize)
	if _, err := d.dbFile.Seek(offset, io.SeekStart); err != nil {
		return err
	}

	n, err := io.ReadFull(d.dbFile, p.Data[:])
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return errors.New("disk: read less than a full page")
		}
		return err
	}
	if n < page.PageSize {
		return errors.New("disk: read less than a full page")
	}
	return nil
}

// WritePage writes p.Data to pageID's slot.
func (d *FileDiskManager) WritePage(pageID page.PageID, p *page.Page) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	offset := int64(pageID) * int64(page.PageSize)
	if _, err := d.dbFile.Seek(offset, io.SeekStart); err != nil {
		return err
	}
	if _, err := d.dbFile.Write(p.Data[:]); err != nil {
		return err
	}
	return nil
}

// AllocatePage hands out the next page id (simple append strategy; no id
// reuse — space reclamation beyond frame free-listing is out of scope).
func (d *FileDiskManager) AllocatePage() page.PageID {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := d.nextPageID
	d.nextPageID++
	return id
}

// DeallocatePage is a no-op: this disk manager never reclaims file space or
// recycles page ids.
func (d *FileDiskManager) DeallocatePage(pageID page.PageID) {}
