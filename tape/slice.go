// SPDX-License-Identifier: EPL-2.0

package tape

import (
	"fmt"
	"iter"
	"math"
	"slices"
	"sort"
)

// Slice is the span [In, Out) of recorded audio on a track.
type Slice struct {
	In, Out int
}

func (s Slice) Len() int       { return max(s.Out-s.In, 0) }
func (s Slice) Empty() bool    { return s.Out <= s.In }
func (s Slice) String() string { return fmt.Sprintf("[%d, %d)", s.In, s.Out) }

// Contains reports whether pos lies in [In, Out).
func (s Slice) Contains(pos int) bool { return pos >= s.In && pos < s.Out }

// Overlaps reports whether s and o share at least one position.
func (s Slice) Overlaps(o Slice) bool {
	return !s.Empty() && !o.Empty() && s.In < o.Out && o.In < s.Out
}

// SliceList is the sorted, non-overlapping set of slices of one track. It is
// immutable: every edit returns a new list, leaving readers of the old one
// undisturbed. A nil *SliceList is empty.
type SliceList struct {
	slices []Slice
}

// NewSliceList inserts each slice in turn.
func NewSliceList(ss ...Slice) *SliceList {
	var l *SliceList
	for _, s := range ss {
		l = l.Insert(s)
	}
	return l
}

func (l *SliceList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.slices)
}

func (l *SliceList) At(i int) Slice { return l.slices[i] }

// All yields every slice in ascending order.
func (l *SliceList) All() iter.Seq[Slice] {
	return func(yield func(Slice) bool) {
		if l == nil {
			return
		}
		for _, s := range l.slices {
			if !yield(s) {
				return
			}
		}
	}
}

// End is the Out of the last slice, or 0.
func (l *SliceList) End() int {
	if l.Len() == 0 {
		return 0
	}
	return l.slices[len(l.slices)-1].Out
}

// search returns the index of the first slice ending after pos.
func (l *SliceList) search(pos int) int {
	if l == nil {
		return 0
	}
	return sort.Search(len(l.slices), func(i int) bool { return l.slices[i].Out > pos })
}

// Overlapping yields, in ascending order, the slices sharing a position with
// r. It starts with a binary search, so the cost depends on the number of
// slices yielded rather than on the length of the list.
func (l *SliceList) Overlapping(r Slice) iter.Seq[Slice] {
	return func(yield func(Slice) bool) {
		if l == nil || r.Empty() {
			return
		}
		for i := l.search(r.In); i < len(l.slices); i++ {
			s := l.slices[i]
			if s.In >= r.Out {
				return
			}
			if !yield(s) {
				return
			}
		}
	}
}

// Current returns the slice containing pos.
func (l *SliceList) Current(pos int) (Slice, bool) {
	i := l.search(pos)
	if i < l.Len() && l.slices[i].Contains(pos) {
		return l.slices[i], true
	}
	return Slice{}, false
}

// span returns the slice containing pos, or the gap around pos with false.
// Both stay valid for every position inside them, which lets the render path
// look up a track once per slice rather than once per frame.
func (l *SliceList) span(pos int) (Slice, bool) {
	i := l.search(pos)
	gap := Slice{In: math.MinInt, Out: math.MaxInt}
	if i > 0 {
		gap.In = l.slices[i-1].Out
	}
	if i < l.Len() {
		s := l.slices[i]
		if s.Contains(pos) {
			return s, true
		}
		gap.Out = s.In
	}
	return gap, false
}

func (l *SliceList) with(ss []Slice) *SliceList {
	if len(ss) == 0 {
		return nil
	}
	return &SliceList{slices: ss}
}

// Insert adds s, merging it with every slice it overlaps or touches.
func (l *SliceList) Insert(s Slice) *SliceList {
	if s.Empty() {
		return l
	}

	n := l.Len()
	var cur []Slice
	if l != nil {
		cur = l.slices
	}

	// First slice ending at or after s.In; first slice starting after s.Out.
	i := sort.Search(n, func(i int) bool { return cur[i].Out >= s.In })
	j := sort.Search(n, func(i int) bool { return cur[i].In > s.Out })

	if i < j {
		s.In = min(s.In, cur[i].In)
		s.Out = max(s.Out, cur[j-1].Out)
	}

	next := make([]Slice, 0, n-(j-i)+1)
	next = append(next, cur[:i]...)
	next = append(next, s)
	next = append(next, cur[j:]...)
	return l.with(next)
}

// Remove clears the positions of r, trimming or splitting the slices it
// overlaps.
func (l *SliceList) Remove(r Slice) *SliceList {
	if r.Empty() || l.Len() == 0 {
		return l
	}

	next := make([]Slice, 0, len(l.slices)+1)
	changed := false
	for _, s := range l.slices {
		if !s.Overlaps(r) {
			next = append(next, s)
			continue
		}
		changed = true
		if s.In < r.In {
			next = append(next, Slice{In: s.In, Out: r.In})
		}
		if s.Out > r.Out {
			next = append(next, Slice{In: r.Out, Out: s.Out})
		}
	}
	if !changed {
		return l
	}
	return l.with(next)
}

// Cut splits the slice containing pos into [In, pos) and [pos, Out). It
// returns l itself when pos is uncovered or already a boundary.
func (l *SliceList) Cut(pos int) *SliceList {
	i := l.search(pos)
	if i >= l.Len() {
		return l
	}
	s := l.slices[i]
	if !s.Contains(pos) || pos == s.In {
		return l
	}

	next := slices.Insert(slices.Clone(l.slices), i+1, Slice{In: pos, Out: s.Out})
	next[i].Out = pos
	return l.with(next)
}

// Glue joins the two slices meeting at pos. It returns l itself when no two
// slices meet there.
func (l *SliceList) Glue(pos int) *SliceList {
	i := l.search(pos)
	if i == 0 || i >= l.Len() || l.slices[i].In != pos || l.slices[i-1].Out != pos {
		return l
	}

	next := slices.Delete(slices.Clone(l.slices), i, i+1)
	next[i-1].Out = l.slices[i].Out
	return l.with(next)
}

// valid reports whether the list is sorted, non-empty per slice and free of
// overlaps.
func (l *SliceList) valid() bool {
	for i := range l.Len() {
		s := l.slices[i]
		if s.Empty() {
			return false
		}
		if i > 0 && l.slices[i-1].Out > s.In {
			return false
		}
	}
	return true
}
