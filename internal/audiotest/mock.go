// SPDX-License-Identifier: EPL-2.0

// Package audiotest provides deterministic audio sources for tests.
package audiotest

import (
	"errors"
	"io"
	"math"
)

// ErrBroken is returned by sources built with NewBrokenSource.
var ErrBroken = errors.New("audiotest: broken source")

// MockSource generates audio from a waveform function.
// It implements the audio.Source interface (without importing it to avoid cycles).
type MockSource struct {
	sampleRate   int
	channels     int
	totalSamples int // per channel
	generated    int // per channel
	waveform     func(sample int, channel int) float32
	failAfter    int // frames before ErrBroken, -1 never
	closed       bool
}

// NewMockSource creates a source of totalSamples frames; waveform gives the
// value for a frame index and channel.
func NewMockSource(sampleRate, channels, totalSamples int, waveform func(sample int, channel int) float32) *MockSource {
	return &MockSource{
		sampleRate:   sampleRate,
		channels:     channels,
		totalSamples: totalSamples,
		waveform:     waveform,
		failAfter:    -1,
	}
}

// NewSilentSource creates a source that generates zeros.
func NewSilentSource(sampleRate, channels, totalSamples int) *MockSource {
	return NewMockSource(sampleRate, channels, totalSamples, func(int, int) float32 { return 0 })
}

// NewSineSource creates a source that generates a sine wave.
func NewSineSource(sampleRate, channels, totalSamples int, frequency float64) *MockSource {
	return NewMockSource(sampleRate, channels, totalSamples, func(sample int, _ int) float32 {
		t := float64(sample) / float64(sampleRate)
		return float32(math.Sin(2 * math.Pi * frequency * t))
	})
}

// NewConstantSource creates a source with a constant value.
func NewConstantSource(sampleRate, channels, totalSamples int, value float32) *MockSource {
	return NewMockSource(sampleRate, channels, totalSamples, func(int, int) float32 { return value })
}

// NewSliceSource replays values (interleaved) exactly once.
func NewSliceSource(sampleRate, channels int, values []float32) *MockSource {
	return NewMockSource(sampleRate, channels, len(values)/channels, func(sample int, channel int) float32 {
		return values[sample*channels+channel]
	})
}

// NewBrokenSource yields goodFrames frames of silence and then fails.
func NewBrokenSource(sampleRate, channels, goodFrames int) *MockSource {
	m := NewSilentSource(sampleRate, channels, goodFrames+1<<20)
	m.failAfter = goodFrames
	return m
}

func (m *MockSource) SampleRate() int { return m.sampleRate }
func (m *MockSource) Channels() int   { return m.channels }
func (m *MockSource) BufSize() int    { return 4096 }

func (m *MockSource) Close() error {
	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *MockSource) Closed() bool { return m.closed }

// Reset rewinds the source.
func (m *MockSource) Reset() {
	m.generated = 0
}

func (m *MockSource) ReadSamples(dst []float32) (int, error) {
	if m.failAfter >= 0 && m.generated >= m.failAfter {
		return 0, ErrBroken
	}
	if m.generated >= m.totalSamples {
		return 0, io.EOF
	}

	frames := min(len(dst)/m.channels, m.totalSamples-m.generated)
	if m.failAfter >= 0 {
		frames = min(frames, m.failAfter-m.generated)
	}

	for frame := range frames {
		for ch := range m.channels {
			dst[frame*m.channels+ch] = m.waveform(m.generated+frame, ch)
		}
	}

	m.generated += frames
	n := frames * m.channels

	if m.generated >= m.totalSamples {
		return n, io.EOF
	}
	return n, nil
}
