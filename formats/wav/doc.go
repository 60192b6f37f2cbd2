// SPDX-License-Identifier: EPL-2.0

// Package wav reads and writes WAV files through github.com/go-audio/wav.
//
// WAV is the native format of the instrument: samples are usually loaded from
// WAV and every bounced tape track is written as one.
//
// # Supported Formats
//
// Decoding accepts:
//   - Integer PCM (format tag 1)
//   - 8, 16, 24 and 32 bits per sample; 8-bit data is unsigned as the
//     format requires
//   - Any channel count and any sample rate
//
// Encoding writes mono integer PCM at 16, 24 or 32 bits.
//
// # Decoding WAV Files
//
// Use the Decoder to open a file:
//
//	file, _ := os.Open("kick.wav")
//	source, err := wav.Decoder{}.Decode(file)
//	if err != nil {
//	    // Handle error
//	}
//	defer source.Close()
//
//	// Samples are interleaved float32 in [-1.0, 1.0)
//	buf := make([]float32, source.BufSize())
//	n, err := source.ReadSamples(buf)
//
// go-audio walks the RIFF chunks by seeking, so a reader that is not an
// io.ReadSeeker is read into memory first.
//
// # Writing WAV Files
//
// Encode writes a complete file from float samples, clipping anything
// outside [-1.0, 1.0]:
//
//	file, _ := os.Create("track1.wav")
//	defer file.Close()
//	err := wav.Encode(file, 48000, 16, samples)
//
// The header sizes are patched when the data is complete, which is why Encode
// takes an io.WriteSeeker. An empty take still produces a valid file with an
// empty data chunk.
//
// # Error Handling
//
// The package defines these errors, checked with errors.Is:
//   - ErrNotWavFile: the input has no RIFF/WAVE header
//   - ErrOnlyPCMSupported: the data is compressed or floating point
//   - ErrUnsupportedBitDepth: a bit depth outside the lists above
//   - ErrNoPCMData: the file has no data chunk
//
// Example:
//
//	source, err := wav.Decoder{}.Decode(file)
//	if errors.Is(err, wav.ErrOnlyPCMSupported) {
//	    fmt.Println("convert the file to integer PCM first")
//	}
//
// # Loading Into the Sampler
//
// The decoder is registered under "wav" and "wave" by formats.NewRegistry,
// and tapecore.LoadSample takes it from there:
//
//	buf, err := tapecore.LoadSample(formats.NewRegistry(), "kick.wav", 48000, 16*48000)
package wav
