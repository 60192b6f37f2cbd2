// SPDX-License-Identifier: EPL-2.0

package output

import (
	"encoding/binary"
	"io"

	"github.com/ik5/tapecore/utils"
)

// bytesPerSample is the size of one signed 16-bit sample.
const bytesPerSample = 2

// Renderer produces mono audio. Render adds one block into out, which the
// caller clears first.
type Renderer interface {
	Render(out []float32)
}

// Reader streams a Renderer as interleaved 16-bit PCM, copying the mono
// signal to every channel.
type Reader struct {
	r        Renderer
	channels int
	block    []float32
}

// NewReader renders through r in blocks of at most blockSize frames.
func NewReader(r Renderer, channels, blockSize int) *Reader {
	return &Reader{
		r:        r,
		channels: max(channels, 1),
		block:    make([]float32, max(blockSize, 1)),
	}
}

// Read fills p with whole frames. A p shorter than one frame, but not
// empty, is io.ErrShortBuffer. It does not allocate.
func (rd *Reader) Read(p []byte) (int, error) {
	frameSize := bytesPerSample * rd.channels
	frames := len(p) / frameSize
	if frames == 0 && len(p) > 0 {
		return 0, io.ErrShortBuffer
	}

	n := 0
	for frames > 0 {
		block := rd.block[:min(frames, len(rd.block))]
		clear(block)
		rd.r.Render(block)

		for _, v := range block {
			s := uint16(utils.Float32ToInt16(v))
			for range rd.channels {
				binary.LittleEndian.PutUint16(p[n:], s)
				n += bytesPerSample
			}
		}
		frames -= len(block)
	}
	return n, nil
}
