// Package name interns identifier spans into canonical values.
//
// Identifiers are created while lexing and live as long as their Pool. Two
// interning requests with equal content always return the same *Identifier,
// so identifiers can be compared by pointer.
//
// A Pool is not safe for concurrent use.
package name

import (
	"bytes"
	"hash/maphash"
)

// PageSize is the capacity of one character page.
const PageSize = 4096

const headerBatch = 256

// Identifier is a canonical, immutable span of pooled characters.
type Identifier struct {
	page   []byte
	offset int
	length int
	hash   uint64
}

// Bytes returns the identifier content. The slice must not be modified.
func (id *Identifier) Bytes() []byte {
	return id.page[id.offset : id.offset+id.length : id.offset+id.length]
}

func (id *Identifier) String() string {
	return string(id.Bytes())
}

// Len returns the content length in bytes.
func (id *Identifier) Len() int {
	return id.length
}

// Hash returns the hash computed when the identifier was interned.
func (id *Identifier) Hash() uint64 {
	return id.hash
}

// Equal reports whether both identifiers have the same content.
func (id *Identifier) Equal(other *Identifier) bool {
	if id == other {
		return true
	}
	if id == nil || other == nil || id.length != other.length {
		return false
	}
	return bytes.Equal(id.Bytes(), other.Bytes())
}

// Pool interns identifiers.
type Pool struct {
	seed    maphash.Seed
	page    []byte
	headers []Identifier
	buckets map[uint64][]*Identifier
	count   int
}

// NewPool returns an empty pool.
func NewPool() *Pool {
	return &Pool{
		seed:    maphash.MakeSeed(),
		buckets: make(map[uint64][]*Identifier),
	}
}

// Len returns the number of distinct identifiers in the pool.
func (p *Pool) Len() int {
	return p.count
}

// Intern returns the canonical identifier for buf. The content is copied, so
// callers may reuse buf afterwards. Intern panics if buf is empty.
func (p *Pool) Intern(buf []byte) *Identifier {
	if len(buf) == 0 {
		panic("name: intern of empty span")
	}
	h := maphash.Bytes(p.seed, buf)
	for _, id := range p.buckets[h] {
		if bytes.Equal(id.Bytes(), buf) {
			return id
		}
	}

	id := p.header()
	id.page, id.offset = p.store(buf)
	id.length = len(buf)
	id.hash = h
	p.buckets[h] = append(p.buckets[h], id)
	p.count++
	return id
}

// InternString is Intern for string content.
func (p *Pool) InternString(s string) *Identifier {
	return p.Intern([]byte(s))
}

// store copies buf into the current page, rolling to a new page when it does
// not fit. Spans larger than PageSize get a page of their own.
func (p *Pool) store(buf []byte) ([]byte, int) {
	if len(buf) > PageSize {
		page := make([]byte, len(buf))
		copy(page, buf)
		return page, 0
	}
	if cap(p.page)-len(p.page) < len(buf) {
		p.page = make([]byte, 0, PageSize)
	}
	offset := len(p.page)
	p.page = append(p.page, buf...)
	return p.page[:cap(p.page)], offset
}

func (p *Pool) header() *Identifier {
	if len(p.headers) == 0 {
		p.headers = make([]Identifier, headerBatch)
	}
	id := &p.headers[0]
	p.headers = p.headers[1:]
	return id
}
