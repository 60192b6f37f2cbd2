// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis files through
// github.com/jfreymuth/oggvorbis.
//
// # Supported Formats
//
// The decoder supports:
//   - Vorbis audio in an Ogg container
//   - Any channel count
//   - Any sample rate
//
// # Decoding Ogg Vorbis Files
//
// Use the Decoder to open a stream:
//
//	file, _ := os.Open("pad.ogg")
//	source, err := vorbis.Decoder{}.Decode(file)
//	if err != nil {
//	    // Handle error
//	}
//
//	buf := make([]float32, 4096)
//	n, err := source.ReadSamples(buf)
//
// # Output Format
//
// Vorbis decoder output:
//   - Sample format: float32 as decoded, nominally in [-1.0, 1.0]
//   - Channels: as stored in the stream header
//   - Sample rate: as stored in the stream header
//
// Vorbis decodes to float natively, so no scaling is applied. ReadSamples
// uses the largest frame-aligned prefix of dst and returns 0 when dst holds
// less than one frame.
//
// To get a mono buffer at the engine rate, use the audio package:
//
//	source, _ := vorbis.Decoder{}.Decode(file)
//	buf, truncated, err := audio.ReadMono(source, 48000, 16*48000, 4096)
//
// # Error Handling
//
// Decode fails when the stream is not Ogg or carries no Vorbis header; the
// oggvorbis error is wrapped:
//
//	source, err := vorbis.Decoder{}.Decode(strings.NewReader("not ogg"))
//	// err: opening vorbis stream: ...
//
// Errors in the middle of the stream are wrapped as "decoding vorbis".
//
// # Limitations
//
// Note:
//   - Vorbis writing is not supported (decoding only)
//   - Seeking is not used; the file is read front to back
package vorbis
