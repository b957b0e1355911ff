package page

import "encoding/binary"

// SizeOfRecordID is the fixed wire size of a RecordID, in bytes.
const SizeOfRecordID = 8

// RecordID names a tuple's location: the page holding it and its slot
// within that page. A leaf's values are RecordIDs, not raw blobs — the
// B+ tree indexes locations, it does not store the tuples themselves.
type RecordID struct {
	PageID  PageID
	SlotNum uint32
}

// InvalidRecordID is returned when no record is present.
var InvalidRecordID = RecordID{PageID: InvalidPageID, SlotNum: 0}

func (r RecordID) IsValid() bool {
	return r.PageID != InvalidPageID
}

// Serialize writes r into an 8-byte buffer.
func (r RecordID) Serialize() [SizeOfRecordID]byte {
	var buf [SizeOfRecordID]byte
	binary.LittleEndian.PutUint32(buf[0:4], uint32(r.PageID))
	binary.LittleEndian.PutUint32(buf[4:8], r.SlotNum)
	return buf
}

// DeserializeRecordID reads a RecordID back from an 8-byte buffer.
func DeserializeRecordID(buf []byte) RecordID {
	return RecordID{
		PageID:  PageID(int32(binary.LittleEndian.Uint32(buf[0:4]))),
		SlotNum: binary.LittleEndian.Uint32(buf[4:8]),
	}
}
