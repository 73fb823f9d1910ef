// package icmem implements the address space of an intcode machine.
//
// Addresses inside the program image are stored in a flat slice.
// Addresses beyond it are stored in fixed size segments, which are allocated
// the first time any address in them is written.
package icmem

import (
	"myceliumweb.org/intcode"
)

type (
	Word = intcode.Word
	Addr = intcode.Addr
)

const SegmentSize = intcode.SegmentSize

type segment = [SegmentSize]Word

// Memory is a conceptually unbounded array of Words.
// The zero value is an empty Memory ready to use.
// Memory is not safe for concurrent use; it is owned by a single machine.
type Memory struct {
	image []Word
	segs  map[uint64]*segment
}

// New returns a Memory whose first len(prog) addresses hold a copy of prog.
func New(prog []Word) *Memory {
	return &Memory{
		image: append([]Word{}, prog...),
	}
}

// Read returns the value at a, or 0 if a has never been written.
func (m *Memory) Read(a Addr) Word {
	if a < uint64(len(m.image)) {
		return m.image[a]
	}
	seg, exists := m.segs[a/SegmentSize]
	if !exists {
		return 0
	}
	return seg[a%SegmentSize]
}

// Write stores v at a.
func (m *Memory) Write(a Addr, v Word) {
	if a < uint64(len(m.image)) {
		m.image[a] = v
		return
	}
	k := a / SegmentSize
	seg, exists := m.segs[k]
	if !exists {
		if v == 0 {
			// unwritten addresses already read as zero
			return
		}
		if m.segs == nil {
			m.segs = make(map[uint64]*segment)
		}
		seg = new(segment)
		m.segs[k] = seg
	}
	seg[a%SegmentSize] = v
}

// Len returns the length of the program image.
func (m *Memory) Len() int {
	return len(m.image)
}

// Segments returns the number of segments allocated beyond the image.
func (m *Memory) Segments() int {
	return len(m.segs)
}

// Dump appends the values at addresses [0, n) to out.
func (m *Memory) Dump(out []Word, n int) []Word {
	for a := 0; a < n; a++ {
		out = append(out, m.Read(Addr(a)))
	}
	return out
}

// Clone returns a deep copy of m.
func (m *Memory) Clone() *Memory {
	m2 := New(m.image)
	if len(m.segs) > 0 {
		m2.segs = make(map[uint64]*segment, len(m.segs))
		for k, seg := range m.segs {
			seg2 := *seg
			m2.segs[k] = &seg2
		}
	}
	return m2
}
