// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG-1 Layer 3 files through
// github.com/hajimehoshi/go-mp3.
//
// # Supported Formats
//
// The decoder supports:
//   - MPEG-1 Layer 3
//   - Constant and variable bitrates
//   - Mono and stereo files
//
// # Decoding MP3 Files
//
// Use the Decoder to open a stream:
//
//	file, _ := os.Open("loop.mp3")
//	source, err := mp3.Decoder{}.Decode(file)
//	if err != nil {
//	    // Handle error
//	}
//
//	// Read samples as float32 in range [-1.0, 1.0)
//	buf := make([]float32, 4096)
//	n, err := source.ReadSamples(buf)
//
// The stream is read as it is decoded; the reader does not need to seek.
//
// # Output Format
//
// MP3 decoder output:
//   - Sample format: float32 in range [-1.0, 1.0)
//   - Channels: always 2; go-mp3 duplicates mono files onto both channels
//   - Sample rate: as encoded (typically 44.1kHz or 48kHz)
//
// ReadSamples only fills whole frames. An odd-length dst leaves its last
// value untouched, and a partial frame at the very end of the stream is
// dropped.
//
// To fold to mono at the engine rate, use the audio package:
//
//	source, _ := mp3.Decoder{}.Decode(file)
//	resampled, err := audio.NewResampler(source, 48000)
//	if err != nil {
//	    // Handle error
//	}
//	mono := audio.NewMonoMixer(resampled)
//
// # Limitations
//
// Note:
//   - MP3 writing is not supported (decoding only)
//   - Output is always stereo (use MonoMixer or audio.ReadMono to convert)
//   - Errors come from go-mp3 wrapped with context; there are no sentinels
//
// # Use Cases
//
// Example preparing an MP3 for the sampler as a 16-bit WAV:
//
//	buf, err := tapecore.LoadSample(formats.NewRegistry(), "loop.mp3", 48000, 16*48000)
//	if err != nil && !tapecore.IsEmptySample(err) {
//	    // Handle error
//	}
//
//	out, _ := os.Create("loop.wav")
//	err = wav.Encode(out, buf.SampleRate(), 16, buf.Samples())
package mp3
