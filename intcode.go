// package intcode contains the shared types of the intcode machine.
package intcode

import (
	"encoding/hex"

	"lukechampine.com/blake3"
)

type (
	// Word is the unit of memory and I/O.
	Word = int64
	// Addr is a resolved, non-negative memory address.
	Addr = uint64
)

// SegmentSize is the number of words in each lazily allocated memory segment.
const SegmentSize = 1024

// Fingerprint identifies a program image.
type Fingerprint [32]byte

func (fp Fingerprint) String() string {
	return hex.EncodeToString(fp[:8])
}

func (fp Fingerprint) IsZero() bool {
	return fp == Fingerprint{}
}

// Hash calculates the fingerprint of x.
// If tag == nil, then the hash is unkeyed.
// If tag != nil, then the hash will be keyed with the tag.
func Hash(tag *Fingerprint, x []byte) (ret Fingerprint) {
	var key []byte
	if tag != nil {
		key = tag[:]
	}
	h := blake3.New(32, key)
	h.Write(x)
	h.Sum(ret[:0])
	return ret
}
