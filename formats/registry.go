// SPDX-License-Identifier: EPL-2.0

// Package formats wires the bundled decoders into an audio.Registry.
package formats

import (
	"github.com/ik5/tapecore/audio"
	"github.com/ik5/tapecore/formats/aiff"
	"github.com/ik5/tapecore/formats/mp3"
	"github.com/ik5/tapecore/formats/vorbis"
	"github.com/ik5/tapecore/formats/wav"
)

// NewRegistry returns a registry that knows every bundled format.
func NewRegistry() *audio.Registry {
	r := audio.NewRegistry()
	r.Register(wav.Decoder{}, "wav", "wave")
	r.Register(aiff.Decoder{}, "aif", "aiff")
	r.Register(mp3.Decoder{}, "mp3")
	r.Register(vorbis.Decoder{}, "ogg", "oga")
	return r
}
