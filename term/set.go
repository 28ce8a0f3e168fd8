package term

import "strings"

// Set is a bitset of terms.
type Set struct {
	bits [(Count + 63) / 64]uint64
}

// NewSet returns a set holding terms.
func NewSet(terms ...Term) Set {
	var s Set
	for _, t := range terms {
		s.Add(t)
	}
	return s
}

func (s *Set) Add(t Term) {
	s.bits[t/64] |= 1 << (t % 64)
}

func (s Set) Has(t Term) bool {
	if !t.Valid() {
		return false
	}
	return s.bits[t/64]&(1<<(t%64)) != 0
}

// Terms returns the members in catalog order.
func (s Set) Terms() []Term {
	var terms []Term
	for t := Term(0); t < count; t++ {
		if s.Has(t) {
			terms = append(terms, t)
		}
	}
	return terms
}

func (s Set) String() string {
	var parts []string
	for _, t := range s.Terms() {
		parts = append(parts, t.String())
	}
	return "{" + strings.Join(parts, " ") + "}"
}

// Union adds every member of o to s.
func (s *Set) Union(o Set) {
	for i := range s.bits {
		s.bits[i] |= o.bits[i]
	}
}

// Empty reports whether s has no members.
func (s Set) Empty() bool {
	for _, w := range s.bits {
		if w != 0 {
			return false
		}
	}
	return true
}
