// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"fmt"
	"io"

	"github.com/jfreymuth/oggvorbis"

	"github.com/ik5/tapecore/audio"
)

// oggReader is an interface for oggvorbis.Reader to allow testing
type oggReader interface {
	SampleRate() int
	Channels() int
	Read([]float32) (int, error)
}

type source struct {
	dec        oggReader
	sampleRate int
	channels   int
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return 4096 }

// ReadSamples decodes straight into dst. oggvorbis counts values, not frames,
// and never splits a frame when handed a frame-aligned buffer.
func (s *source) ReadSamples(dst []float32) (int, error) {
	aligned := len(dst) - len(dst)%s.channels
	if aligned == 0 {
		return 0, nil
	}

	n, err := s.dec.Read(dst[:aligned])
	switch err {
	case nil, io.EOF:
		return n, err
	default:
		return n, fmt.Errorf("decoding vorbis: %w", err)
	}
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening vorbis stream: %w", err)
	}

	return &source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		channels:   max(dec.Channels(), 1),
	}, nil
}
