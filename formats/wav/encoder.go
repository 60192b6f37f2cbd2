// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"

	"github.com/ik5/tapecore/utils"
)

const encodeChunk = 8192

// Encode writes samples as a mono integer PCM WAV. bitDepth is 16, 24 or 32.
// The header sizes are patched on completion, hence the WriteSeeker.
func Encode(w io.WriteSeeker, sampleRate, bitDepth int, samples []float32) error {
	switch bitDepth {
	case 16, 24, 32:
	default:
		return fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}

	enc := gowav.NewEncoder(w, sampleRate, bitDepth, 1, formatPCM)

	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           make([]int, min(len(samples), encodeChunk)),
		SourceBitDepth: bitDepth,
	}

	// Always write once so an empty take still gets a header and data chunk.
	for start := 0; ; start += encodeChunk {
		chunk := samples[start:min(start+encodeChunk, len(samples))]
		buf.Data = buf.Data[:len(chunk)]
		for i, v := range chunk {
			buf.Data[i] = utils.FloatToPCM(v, bitDepth)
		}
		if err := enc.Write(buf); err != nil {
			return fmt.Errorf("writing wav data: %w", err)
		}
		if start+encodeChunk >= len(samples) {
			break
		}
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalizing wav: %w", err)
	}
	return nil
}
