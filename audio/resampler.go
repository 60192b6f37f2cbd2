// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"

	"github.com/ik5/tapecore/cursor"
	"github.com/ik5/tapecore/utils"
)

// Resampler streams from src to a target sample rate using cubic
// interpolation. Works on interleaved samples; preserves channel count.
// Includes basic anti-aliasing filtering when downsampling.
type Resampler struct {
	src      Source
	dstRate  int
	channels int

	// window holds frames t-1, t0, t+1, t+2 around the read point.
	window [4][]float32
	filled [4]bool
	primed bool
	eof    bool

	// pos walks the source at srcRate/dstRate frames per output frame. Its
	// index counts whole frames past window[1]; its remainder is the
	// interpolation point between window[1] and window[2].
	pos cursor.Position

	srcBuf []float32

	smooth bool
	alpha  float32
	state  []float32
}

func NewResampler(src Source, dstRate int) (*Resampler, error) {
	if dstRate <= 0 || src.SampleRate() <= 0 {
		return nil, ErrInvalidRate
	}

	channels := max(src.Channels(), 1)
	ratio := float64(src.SampleRate()) / float64(dstRate)

	pos, err := cursor.NewPosition(0, ratio)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRate, err)
	}

	r := &Resampler{
		src:      src,
		dstRate:  dstRate,
		channels: channels,
		pos:      pos,
		srcBuf:   make([]float32, channels),
		state:    make([]float32, channels),
	}

	// One-pole low-pass when downsampling, cutoff near the new Nyquist.
	if ratio > 1 {
		r.smooth = true
		r.alpha = 0.5
	}

	for i := range r.window {
		r.window[i] = make([]float32, channels)
	}

	return r, nil
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("closing resampler source: %w", err)
	}
	return nil
}

// readFrame reads one interleaved frame into dst.
func (r *Resampler) readFrame(dst []float32) (bool, error) {
	if r.eof {
		return false, nil
	}

	n, err := r.src.ReadSamples(r.srcBuf)
	if err == io.EOF {
		r.eof = true
	} else if err != nil {
		return false, fmt.Errorf("reading source frame: %w", err)
	}
	if n < r.channels {
		r.eof = true
		return false, nil
	}

	copy(dst, r.srcBuf)
	if r.smooth {
		for c := range dst {
			dst[c] = r.alpha*dst[c] + (1-r.alpha)*r.state[c]
			r.state[c] = dst[c]
		}
	}
	return true, nil
}

func (r *Resampler) prime() error {
	r.primed = true

	if r.smooth {
		// Seed the filter with the first frame to avoid a warm-up ramp.
		n, err := r.src.ReadSamples(r.srcBuf)
		if err != nil && err != io.EOF {
			return fmt.Errorf("reading source frame: %w", err)
		}
		if err == io.EOF {
			r.eof = true
		}
		if n < r.channels {
			r.eof = true
			return nil
		}
		copy(r.state, r.srcBuf)
		copy(r.window[1], r.srcBuf)
		r.filled[1] = true
	} else {
		ok, err := r.readFrame(r.window[1])
		if err != nil {
			return err
		}
		r.filled[1] = ok
	}

	// The frame before the first one is the first one.
	copy(r.window[0], r.window[1])
	r.filled[0] = r.filled[1]

	for i := 2; i < len(r.window); i++ {
		ok, err := r.readFrame(r.window[i])
		if err != nil {
			return err
		}
		r.filled[i] = ok
	}
	return nil
}

// shift drops window[0] and pulls the next source frame into window[3].
func (r *Resampler) shift() error {
	oldest := r.window[0]
	copy(r.window[:], r.window[1:])
	copy(r.filled[:], r.filled[1:])
	r.window[3] = oldest

	ok, err := r.readFrame(r.window[3])
	r.filled[3] = ok
	return err
}

func (r *Resampler) tap(i, c int, fallback float32) float32 {
	if r.filled[i] {
		return r.window[i][c]
	}
	return fallback
}

// ReadSamples produces dst samples at the target rate.
// dst length should be a multiple of the channel count.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	frames := len(dst) / r.channels
	written := 0

	for written < frames {
		for r.pos.Index() >= 1 {
			r.pos.Shift(-1)
			if err := r.shift(); err != nil {
				return written * r.channels, err
			}
		}

		if !r.filled[1] {
			return written * r.channels, io.EOF
		}

		x := float32(r.pos.Frac())
		out := dst[written*r.channels : (written+1)*r.channels]
		for c := range out {
			y1 := r.window[1][c]
			y0 := r.tap(0, c, y1)
			y2 := r.tap(2, c, y1)
			y3 := r.tap(3, c, y2)
			out[c] = utils.CubicInterpolate(y0, y1, y2, y3, x)
		}

		written++
		r.pos.Inc()
	}

	return written * r.channels, nil
}
