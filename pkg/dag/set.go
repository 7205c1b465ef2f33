package dag

import "math/bits"

// Set is a fixed-capacity bitset of operation handles.
// The zero value is an empty set with no capacity; use [NewSet].
type Set []uint64

// NewSet returns an empty set able to hold handles in [0, n).
func NewSet(n int) Set {
	return make(Set, (n+63)/64)
}

// Add inserts handle i.
func (s Set) Add(i int) { s[i>>6] |= 1 << (uint(i) & 63) }

// Remove deletes handle i.
func (s Set) Remove(i int) { s[i>>6] &^= 1 << (uint(i) & 63) }

// Has reports whether handle i is in the set.
// Handles beyond the set's capacity are never members.
func (s Set) Has(i int) bool {
	w := i >> 6
	if i < 0 || w >= len(s) {
		return false
	}
	return s[w]&(1<<(uint(i)&63)) != 0
}

// Len returns the number of members.
func (s Set) Len() int {
	n := 0
	for _, w := range s {
		n += bits.OnesCount64(w)
	}
	return n
}

// Clear removes all members, keeping capacity.
func (s Set) Clear() {
	for i := range s {
		s[i] = 0
	}
}

// Clone returns an independent copy.
func (s Set) Clone() Set {
	c := make(Set, len(s))
	copy(c, s)
	return c
}

// Union adds every member of o to s. Both sets must have the same capacity.
func (s Set) Union(o Set) {
	for i := range s {
		s[i] |= o[i]
	}
}

// Members returns the handles in ascending order.
func (s Set) Members() []int {
	out := make([]int, 0, s.Len())
	for wi, w := range s {
		for w != 0 {
			b := bits.TrailingZeros64(w)
			out = append(out, wi*64+b)
			w &= w - 1
		}
	}
	return out
}
