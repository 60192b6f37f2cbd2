// SPDX-License-Identifier: EPL-2.0

package cursor

import (
	"iter"
	"math"
	"math/bits"
)

const (
	fracBits = 32
	unit     = int64(1) << fracBits

	// maxStep keeps step*unit well inside int64.
	maxStep = float64(1 << 30)
)

// Position is a logical location advanced by a signed, possibly fractional
// step. The location is index + rem/2^32; rem is always in [0, 2^32).
//
// The zero value sits at index 0 with no step and does not move; use
// NewPosition or WithStep to give it one.
type Position struct {
	index int
	rem   uint32
	step  int64 // fixed point, same scale as rem
}

// NewPosition returns a position at start moving by step per increment.
func NewPosition(start int, step float64) (Position, error) {
	fixed, err := toFixed(step)
	if err != nil {
		return Position{}, err
	}

	return Position{index: start, step: fixed}, nil
}

func toFixed(step float64) (int64, error) {
	if math.IsNaN(step) || math.Abs(step) > maxStep {
		return 0, ErrStepRange
	}

	fixed := int64(math.Round(step * float64(unit)))
	if fixed == 0 {
		return 0, ErrZeroStep
	}

	return fixed, nil
}

// Index is the element index under the position: floor(location).
func (p Position) Index() int { return p.index }

// Frac is the fractional part of the location, in [0, 1).
func (p Position) Frac() float64 { return float64(p.rem) / float64(unit) }

// Step is the signed step in elements.
func (p Position) Step() float64 { return float64(p.step) / float64(unit) }

// Location is index + Frac as a float. For display only; arithmetic on it
// loses the round-trip guarantee.
func (p Position) Location() float64 { return float64(p.index) + p.Frac() }

// Inc moves the position by +step.
func (p *Position) Inc() { p.advance(p.step) }

// Dec moves the position by -step.
func (p *Position) Dec() { p.retreat(p.step) }

// Move applies k increments (k < 0 applies -k decrements) in one go. The
// distance is formed in 128 bits, so Move(k) lands where k calls to Inc do
// for any k whose index fits an int.
func (p *Position) Move(k int) {
	n := uint64(k)
	if k < 0 {
		n = -n
	}

	whole, frac := split(p.step)
	hi, lo := bits.Mul64(n, uint64(frac))
	dw := whole*int(n) + int(hi<<(64-fracBits)|lo>>fracBits)
	df := uint32(lo)

	if k >= 0 {
		p.add(dw, df)
		return
	}
	p.sub(dw, df)
}

// Shift moves the base index by n whole elements, keeping the remainder.
func (p *Position) Shift(n int) { p.index += n }

// Seek puts the position exactly on index i.
func (p *Position) Seek(i int) {
	p.index = i
	p.rem = 0
}

// WithStep returns the same location with a new step.
func (p Position) WithStep(step float64) (Position, error) {
	fixed, err := toFixed(step)
	if err != nil {
		return p, err
	}

	p.step = fixed
	return p, nil
}

// Reversed returns the same location moving the other way.
func (p Position) Reversed() Position {
	p.step = -p.step
	return p
}

// Sub is the signed distance from o to p counted in p's steps, truncated
// toward zero. With a step of 1 it is plain index distance. Both positions
// must be over the same sequence.
func (p Position) Sub(o Position) int {
	if p.step == 0 {
		return 0
	}

	diff := int64(p.index-o.index)*unit + int64(p.rem) - int64(o.rem)
	return int(diff / p.step)
}

// advance adds delta and carries the remainder overflow into the index.
func (p *Position) advance(delta int64) { p.add(split(delta)) }

// retreat subtracts delta and borrows from the index when the remainder
// underflows. It is the exact inverse of advance.
func (p *Position) retreat(delta int64) { p.sub(split(delta)) }

func (p *Position) add(whole int, frac uint32) {
	sum := uint64(p.rem) + uint64(frac)
	p.rem = uint32(sum)
	p.index += whole + int(sum>>fracBits)
}

func (p *Position) sub(whole int, frac uint32) {
	borrow := 0
	if frac > p.rem {
		borrow = 1
	}
	p.rem -= frac
	p.index -= whole + borrow
}

// split decomposes delta into floor(delta/unit) and a remainder in [0, unit).
func split(delta int64) (int, uint32) {
	return int(delta >> fracBits), uint32(delta)
}

// Cursor is a Position bound to a sequence.
type Cursor[T any] struct {
	seq []T
	pos Position
}

// New returns a cursor over seq starting at index start and moving by step.
func New[T any](seq []T, start int, step float64) (Cursor[T], error) {
	pos, err := NewPosition(start, step)
	if err != nil {
		return Cursor[T]{}, err
	}

	return Cursor[T]{seq: seq, pos: pos}, nil
}

// Value dereferences the cursor.
func (c Cursor[T]) Value() T { return c.seq[c.pos.index] }

// Index is the element index under the cursor.
func (c Cursor[T]) Index() int { return c.pos.index }

// Position returns the underlying position.
func (c Cursor[T]) Position() Position { return c.pos }

// Inc advances the cursor by one step (pre-increment).
func (c *Cursor[T]) Inc() { c.pos.Inc() }

// Dec retreats the cursor by one step (pre-decrement).
func (c *Cursor[T]) Dec() { c.pos.Dec() }

// Next returns the current element and then advances (post-increment).
func (c *Cursor[T]) Next() T {
	v := c.Value()
	c.pos.Inc()
	return v
}

// Prev returns the current element and then retreats (post-decrement).
func (c *Cursor[T]) Prev() T {
	v := c.Value()
	c.pos.Dec()
	return v
}

// Sub is the signed distance from o to c in steps.
func (c Cursor[T]) Sub(o Cursor[T]) int { return c.pos.Sub(o.pos) }

// Values yields the next n elements, advancing the cursor as it goes.
func (c *Cursor[T]) Values(n int) iter.Seq[T] {
	return func(yield func(T) bool) {
		for range n {
			if !yield(c.Next()) {
				return
			}
		}
	}
}
