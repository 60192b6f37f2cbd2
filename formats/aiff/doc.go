// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF files through github.com/go-audio/aiff.
//
// AIFF is common on older samplers and Mac sample libraries, so the
// instrument accepts it alongside WAV.
//
// # Supported Formats
//
// The decoder supports:
//   - Uncompressed AIFF
//   - 8, 16, 24 and 32 bits per sample, signed big-endian as stored
//   - Any channel count and any sample rate
//
// AIFF-C files with compressed data are not supported.
//
// # Decoding AIFF Files
//
// Use the Decoder to open a file:
//
//	file, _ := os.Open("pad.aif")
//	source, err := aiff.Decoder{}.Decode(file)
//	if err != nil {
//	    // Handle error
//	}
//	defer source.Close()
//
//	buf := make([]float32, source.BufSize())
//	n, err := source.ReadSamples(buf)
//
// The decoder returns an audio.Source that provides interleaved float32
// samples in the range [-1.0, 1.0).
//
// Like WAV, the chunk walk needs to seek: readers that are not an
// io.ReadSeeker are buffered in memory first.
//
// # Output Format
//
// AIFF decoder output:
//   - Sample format: float32 in range [-1.0, 1.0)
//   - Channels: as stored in the COMM chunk
//   - Sample rate: as stored in the COMM chunk
//
// To get a mono buffer at the engine rate, use the audio package:
//
//	source, _ := aiff.Decoder{}.Decode(file)
//	buf, truncated, err := audio.ReadMono(source, 48000, 16*48000, 4096)
//
// # Error Handling
//
// The package defines these errors, checked with errors.Is:
//   - ErrNotAiffFile: the input has no FORM/AIFF header
//   - ErrUnsupportedBitDepth: a sample size other than 8, 16, 24 or 32 bits
//   - ErrUnsupportedAiffLayout: no channels or no sample rate
//
// Example:
//
//	source, err := aiff.Decoder{}.Decode(file)
//	if errors.Is(err, aiff.ErrNotAiffFile) {
//	    fmt.Println("Not an AIFF file")
//	}
//
// # Limitations
//
// Note:
//   - AIFF writing is not supported; bounces are written as WAV
//   - The whole file is held in memory when the reader cannot seek
package aiff
