// SPDX-License-Identifier: EPL-2.0

// Package intpcm adapts the integer PCM readers of go-audio (wav, aiff) to
// float32 sources.
package intpcm

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"

	"github.com/ik5/tapecore/utils"
)

// Reader is the part of the go-audio decoders the Source needs.
type Reader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// Source reads integer PCM from a Reader and scales it to [-1, 1).
type Source struct {
	r        Reader
	format   *goaudio.Format
	bitDepth int
	bias     int
	buf      *goaudio.IntBuffer
	eof      bool
}

// NewSource wraps r. Set unsigned for formats that store 8-bit samples
// offset by 128, as WAV does.
func NewSource(r Reader, format *goaudio.Format, bitDepth int, unsigned bool) *Source {
	s := &Source{
		r:        r,
		format:   format,
		bitDepth: bitDepth,
	}
	if unsigned && bitDepth == 8 {
		s.bias = 128
	}
	return s
}

func (s *Source) SampleRate() int { return s.format.SampleRate }
func (s *Source) Channels() int   { return s.format.NumChannels }
func (s *Source) Close() error    { return nil }

func (s *Source) BufSize() int {
	if s.buf != nil {
		return cap(s.buf.Data)
	}
	return 4096
}

func (s *Source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	if s.eof {
		return 0, io.EOF
	}

	if s.buf == nil || cap(s.buf.Data) < len(dst) {
		s.buf = &goaudio.IntBuffer{
			Data:           make([]int, len(dst)),
			Format:         s.format,
			SourceBitDepth: s.bitDepth,
		}
	} else {
		s.buf.Data = s.buf.Data[:len(dst)]
	}

	n, err := s.r.PCMBuffer(s.buf)
	n = max(min(n, len(dst)), 0)
	for i, v := range s.buf.Data[:n] {
		dst[i] = utils.PCMToFloat(v-s.bias, s.bitDepth)
	}

	switch {
	case err == io.EOF || (err == nil && n == 0):
		// go-audio signals the end of the data chunk with an empty read.
		s.eof = true
		return n, io.EOF
	case err != nil:
		return n, fmt.Errorf("reading PCM data: %w", err)
	}
	return n, nil
}
