package hash

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Func computes a 64-bit hash for a directory key. Callers supply one at
// construction time — the directory itself stays agnostic to key shape,
// the way gostonefire-filehashmap separates its hash algorithm from its
// bucket storage.
type Func[K any] func(key K) uint64

// Int32Hash hashes a 4-byte integer key (e.g. a page id) with xxhash.
func Int32Hash(key int32) uint64 {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(key))
	return xxhash.Sum64(buf[:])
}

// StringHash hashes a string key with xxhash.
func StringHash(key string) uint64 {
	return xxhash.Sum64String(key)
}

// IntHash hashes a platform int key with xxhash, for the scenarios in
// spec.md section 8 that use small int keys directly.
func IntHash(key int) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(key))
	return xxhash.Sum64(buf[:])
}
