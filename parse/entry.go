package parse

import "fmt"

// Entry is one record of the production stream, packed into two words:
//
//	head: production id (16 bits) | part id (16 bits) | subtree length (32 bits)
//	span: first term (32 bits)    | term after the last (32 bits)
//
// Entries are stored in pre-order. The descendants of an entry are the
// Len()-1 entries that follow it.
type Entry struct {
	head uint64
	span uint64
}

const (
	maxField16 = 1<<16 - 1
	maxField32 = 1<<32 - 1
)

func makeEntry(prod, part, length, begin, end int) Entry {
	if prod > maxField16 || part > maxField16 || length > maxField32 || end > maxField32 {
		panic(fmt.Sprintf("parse: entry out of range: production %d part %d length %d end %d", prod, part, length, end))
	}
	return Entry{
		head: uint64(prod)<<48 | uint64(part)<<32 | uint64(length),
		span: uint64(begin)<<32 | uint64(end),
	}
}

// Production returns the production id.
func (e Entry) Production() int { return int(e.head >> 48) }

// Part returns the part id, 0 when the entry is unlabeled.
func (e Entry) Part() int { return int(e.head >> 32 & maxField16) }

// Len returns the number of entries in the subtree, the entry included.
func (e Entry) Len() int { return int(e.head & maxField32) }

// Begin returns the index of the first matched term.
func (e Entry) Begin() int { return int(e.span >> 32) }

// End returns the index after the last matched term.
func (e Entry) End() int { return int(e.span & maxField32) }

func (e Entry) String() string {
	return fmt.Sprintf("#%d part=%d len=%d terms=[%d,%d)", e.Production(), e.Part(), e.Len(), e.Begin(), e.End())
}
