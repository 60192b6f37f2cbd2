// SPDX-License-Identifier: EPL-2.0

// Package audio provides the primitives shared by the sampler and the tape
// deck.
//
//   - Source / Decoder: streaming PCM input and the decoders that make it
//   - Registry: decoder lookup by file extension
//   - Buffer: an immutable mono sample block, swapped wholesale on reload
//   - ReadMono: decode pipeline (resample, downmix, truncate to capacity)
//   - Resampler and MonoMixer: the pipeline stages
//   - Event and EventQueue: note events handed to the render context
//
// # Source Interface
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// Samples are float32 in [-1.0, 1.0], interleaved by channel. ReadSamples
// returns io.EOF when the stream is exhausted, possibly together with the
// last samples.
//
// # Loading Into a Buffer
//
//	src, _ := wav.Decoder{}.Decode(file)
//	buf, truncated, err := audio.ReadMono(src, 48000, 16*48000, 4096)
//
// The result is resampled to the engine rate, mixed to mono and cut at the
// engine capacity. An empty result comes back as ErrEmptySource together
// with a zero-length Buffer so the caller can report it and carry on.
//
// # Resampling
//
// The Resampler walks the source with a cursor.Position whose step is
// srcRate/dstRate, so its read point never drifts, and interpolates with a
// Catmull-Rom spline. A one-pole low-pass is applied when downsampling.
//
// # Events
//
//	q := audio.NewEventQueue(256)
//	q.Push(audio.NoteOn(60))         // control side, never blocks
//	events = q.Drain(events)        // render side, once per block
//
// Drain never grows its destination, so the render context can call it with
// a preallocated slice.
package audio
