// SPDX-License-Identifier: EPL-2.0

// Command tapeprep converts an audio file into the form the sampler plays:
// mono, at the instrument's sample rate, no longer than the sampler holds.
//
//	tapeprep -r 48000 -t 8 break.mp3 break.wav
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ik5/tapecore"
	"github.com/ik5/tapecore/config"
	"github.com/ik5/tapecore/formats"
	"github.com/ik5/tapecore/formats/wav"
)

func main() {
	defaults := config.Default()
	rate := flag.Int("r", defaults.SampleRate, "Output sample rate in Hz.")
	seconds := flag.Int("t", defaults.MaxSampleSeconds, "Keep at most this many seconds.")
	depth := flag.Int("b", defaults.BounceBitDepth, "Output bit depth: 16, 24 or 32.")
	flag.Usage = printUsage
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(1)
	}

	if err := prepare(flag.Arg(0), flag.Arg(1), *rate, *seconds, *depth); err != nil {
		fmt.Fprintf(os.Stderr, "tapeprep: %v\n", err)
		os.Exit(1)
	}
}

func prepare(inPath, outPath string, rate, seconds, depth int) error {
	if rate <= 0 || seconds <= 0 {
		return fmt.Errorf("rate and length must be positive")
	}

	buf, err := tapecore.LoadSample(formats.NewRegistry(), inPath, rate, rate*seconds)
	if err != nil {
		return err
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("could not create %v: %w", outPath, err)
	}
	if err := wav.Encode(out, rate, depth, buf.Samples()); err != nil {
		out.Close()
		return fmt.Errorf("could not write %v: %w", outPath, err)
	}
	if err := out.Close(); err != nil {
		return err
	}

	fmt.Printf("Wrote %v: %d frames at %d Hz\n", outPath, buf.Len(), rate)
	return nil
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Prepare a sample file for tapecore.\nUsage: %s [flags] <input.{wav|aiff|mp3|ogg}> <output.wav>\n", os.Args[0])
	flag.PrintDefaults()
}
