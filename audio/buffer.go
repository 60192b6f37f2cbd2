// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
)

// Buffer is a mono block of samples at a fixed rate. It is never written
// after construction: a new load or a rate change builds a new Buffer and
// publishes it in place of the old one. A nil *Buffer is an empty buffer.
type Buffer struct {
	samples []float32
	rate    int
}

// NewBuffer takes ownership of samples.
func NewBuffer(samples []float32, rate int) *Buffer {
	return &Buffer{samples: samples, rate: rate}
}

func (b *Buffer) Len() int {
	if b == nil {
		return 0
	}
	return len(b.samples)
}

func (b *Buffer) SampleRate() int {
	if b == nil {
		return 0
	}
	return b.rate
}

// Samples exposes the backing slice for reading. Callers must not write to it.
func (b *Buffer) Samples() []float32 {
	if b == nil {
		return nil
	}
	return b.samples
}

// bufferSource replays a Buffer as a mono Source.
type bufferSource struct {
	buf *Buffer
	pos int
}

// NewBufferSource returns a mono Source reading b from the start.
func NewBufferSource(b *Buffer) Source {
	return &bufferSource{buf: b}
}

func (s *bufferSource) SampleRate() int { return s.buf.SampleRate() }
func (s *bufferSource) Channels() int   { return 1 }
func (s *bufferSource) BufSize() int    { return 4096 }
func (s *bufferSource) Close() error    { return nil }

func (s *bufferSource) ReadSamples(dst []float32) (int, error) {
	data := s.buf.Samples()
	if s.pos >= len(data) {
		return 0, io.EOF
	}

	n := copy(dst, data[s.pos:])
	s.pos += n
	if s.pos >= len(data) {
		return n, io.EOF
	}
	return n, nil
}

// ReadMono runs src through a resampler to rate and a mono downmix, and
// collects at most capacity frames into a new Buffer. Anything past capacity
// is left unread. The returned bool reports whether that happened.
//
// An empty result is returned together with ErrEmptySource so callers can
// report it and still install the (empty) buffer.
func ReadMono(src Source, rate, capacity, bufferSize int) (*Buffer, bool, error) {
	if rate <= 0 {
		return nil, false, ErrInvalidRate
	}
	if capacity < 0 {
		capacity = 0
	}
	if bufferSize <= 0 {
		bufferSize = 4096
	}

	var stream Source = NewMonoMixer(src)
	if src.SampleRate() != rate {
		res, err := NewResampler(src, rate)
		if err != nil {
			return nil, false, fmt.Errorf("resampling to %d Hz: %w", rate, err)
		}
		stream = NewMonoMixer(res)
	}

	// Start small and grow; capacity is only an upper bound.
	samples := make([]float32, 0, min(capacity, rate*2))
	buf := make([]float32, bufferSize)
	truncated := false

	for len(samples) < capacity {
		want := min(len(buf), capacity-len(samples))
		n, err := stream.ReadSamples(buf[:want])
		samples = append(samples, buf[:n]...)

		if err == io.EOF {
			break
		}
		if err != nil {
			return NewBuffer(samples, rate), false, fmt.Errorf("reading samples: %w", err)
		}
		if len(samples) == capacity {
			// Probe one more value to tell "exactly full" from "cut short".
			var probe [1]float32
			if n, _ := stream.ReadSamples(probe[:]); n > 0 {
				truncated = true
			}
		}
	}

	out := NewBuffer(samples, rate)
	if out.Len() == 0 {
		return out, false, ErrEmptySource
	}
	return out, truncated, nil
}
