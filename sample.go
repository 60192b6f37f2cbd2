// SPDX-License-Identifier: EPL-2.0

package tapecore

import (
	"errors"
	"fmt"
	"os"

	"github.com/ik5/tapecore/audio"
	"github.com/ik5/tapecore/sampler"
)

// loadBufferSize is the read size of the decode pipeline.
const loadBufferSize = 4096

// LoadSample decodes the file at path with the decoder reg has for its
// extension, resamples it to rate, mixes it down to mono and keeps at most
// capacity frames.
//
// The pipeline is:
//  1. decode (wav, aiff, mp3, ogg vorbis)
//  2. resample to rate with cubic interpolation
//  3. average the channels to mono
//  4. stop reading once capacity frames are collected
//
// A file with no audio yields an empty buffer and audio.ErrEmptySource. The
// buffer is never nil, so a caller can install it whatever the error.
func LoadSample(reg *audio.Registry, path string, rate, capacity int) (*audio.Buffer, error) {
	empty := audio.NewBuffer(nil, rate)

	dec, err := reg.ForPath(path)
	if err != nil {
		return empty, fmt.Errorf("%s: %w", path, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return empty, fmt.Errorf("opening sample: %w", err)
	}
	defer f.Close()

	src, err := dec.Decode(f)
	if err != nil {
		return empty, fmt.Errorf("decoding %s: %w", path, err)
	}
	defer src.Close()

	buf, _, err := audio.ReadMono(src, rate, capacity, loadBufferSize)
	if buf == nil {
		buf = empty
	}
	if err != nil {
		return buf, fmt.Errorf("reading %s: %w", path, err)
	}
	return buf, nil
}

// Loader returns a sampler.Loader that reads files through reg.
func Loader(reg *audio.Registry) sampler.Loader {
	return func(path string, rate, capacity int) (*audio.Buffer, error) {
		return LoadSample(reg, path, rate, capacity)
	}
}

// IsEmptySample reports whether err only says the file held no audio.
func IsEmptySample(err error) bool { return errors.Is(err, audio.ErrEmptySource) }
