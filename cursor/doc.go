// SPDX-License-Identifier: EPL-2.0

// Package cursor provides a fractional-step position over an indexable
// sequence.
//
// A cursor moves through a sequence by a fixed step that may be fractional
// and may be negative. A step of 0.5 "stretches" the sequence (every index is
// read twice), a step of 1.5 "compresses" it (indices are skipped), and a
// step of -1 walks it backwards.
//
// # Round Trip
//
// The position is kept as a base index plus a 32-bit fixed-point remainder.
// Advancing adds the step with an explicit carry out of the remainder,
// retreating subtracts it with an explicit borrow. Both are exact integer
// operations, so k advances followed by k retreats (in any interleaving)
// always land on the exact starting position:
//
//	p, _ := cursor.NewPosition(10, -0.5)
//	p.Inc() // 9.5 -> Index() == 9
//	p.Inc() // 9.0 -> Index() == 9
//	p.Dec() // 9.5 -> Index() == 9
//	p.Dec() // 10  -> Index() == 10
//
// A float accumulator rounded on every read cannot give this guarantee and
// drifts when the direction reverses, which is exactly what tape scrubbing
// does every block.
//
// # Dereference
//
// The element under a cursor is the one at floor(position). No bounds
// checking is done; reading outside the sequence is the caller's problem.
//
// # Usage
//
//	data := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
//	c, _ := cursor.New(data, 0, 0.5)
//	c.Next() // 0 (returns the element, then advances)
//	c.Next() // 0
//	c.Next() // 1
package cursor
