// SPDX-License-Identifier: EPL-2.0

package tape

const (
	chunkBits = 12
	chunkSize = 1 << chunkBits
	chunkMask = chunkSize - 1
)

type chunk [chunkSize]float32

// reel is the audio of one track, split into fixed-size chunks so an edit
// can replace the few chunks it touches and share the rest with the reel it
// came from.
type reel struct {
	chunks []*chunk
	length int
}

func newReel(length int) *reel {
	n := (length + chunkSize - 1) / chunkSize
	slab := make([]chunk, n)
	r := &reel{chunks: make([]*chunk, n), length: length}
	for i := range slab {
		r.chunks[i] = &slab[i]
	}
	return r
}

func (r *reel) at(i int) float32 { return r.chunks[i>>chunkBits][i&chunkMask] }

// set writes in place. Only the render context recording a take may do it.
func (r *reel) set(i int, v float32) { r.chunks[i>>chunkBits][i&chunkMask] = v }

// read copies the audio at [from, from+len(dst)) into dst.
func (r *reel) read(from int, dst []float32) {
	for len(dst) > 0 {
		c := r.chunks[from>>chunkBits]
		n := copy(dst, c[from&chunkMask:])
		dst = dst[n:]
		from += n
	}
}

// overwrite returns a reel holding src at [at, at+len(src)). Touched chunks
// are copied; r is left as it was.
func (r *reel) overwrite(at int, src []float32) *reel {
	next := &reel{chunks: make([]*chunk, len(r.chunks)), length: r.length}
	copy(next.chunks, r.chunks)

	for len(src) > 0 {
		ci := at >> chunkBits
		c := new(chunk)
		*c = *r.chunks[ci]
		next.chunks[ci] = c

		n := copy(c[at&chunkMask:], src)
		src = src[n:]
		at += n
	}
	return next
}
