// SPDX-License-Identifier: EPL-2.0

// Command tapecore runs the sampler and tape on the default audio device.
//
// Notes come from a MIDI input; the transport is driven by commands typed
// on standard input (type "help" for the list).
package main

import (
	"cmp"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ik5/tapecore"
	"github.com/ik5/tapecore/audio"
	"github.com/ik5/tapecore/config"
	"github.com/ik5/tapecore/midiin"
	"github.com/ik5/tapecore/output"
)

func main() {
	configPath := flag.String("c", "", "YAML config file. Defaults are used for anything it leaves out.")
	sample := flag.String("s", "", "Sample file to load, overriding the config.")
	rate := flag.Int("r", 0, "Sample rate in Hz, overriding the config.")
	midiName := flag.String("m", "", "Open the first MIDI input whose name starts with this, overriding the config.")
	channel := flag.Int("ch", midiin.AllChannels, "MIDI channel to listen to (0-15), or -1 for all.")
	channels := flag.Int("o", 2, "Output channel count.")
	dump := flag.Bool("d", false, "Print the effective config as YAML and exit.")
	flag.Usage = printUsage
	flag.Parse()

	logger := log.New(os.Stderr, "tapecore: ", log.LstdFlags)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.Fatal(err)
	}
	if *sample != "" {
		cfg.Sample = *sample
	}
	if *rate > 0 {
		cfg.SampleRate = *rate
	}
	if *midiName != "" {
		cfg.MIDIInput = *midiName
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal(err)
	}

	if *dump {
		data, err := cfg.Marshal()
		if err != nil {
			logger.Fatal(err)
		}
		os.Stdout.Write(data)
		return
	}

	studio, err := tapecore.New(cfg, tapecore.Options{Logger: logger})
	if err != nil {
		logger.Fatal(err)
	}

	if cfg.Sample != "" {
		if err := studio.LoadSample(cfg.Sample); err != nil {
			// The sampler stays usable with whatever was read.
			logger.Print(err)
		}
	}

	closeMIDI := openMIDI(logger, studio.Events(), cfg.MIDIInput, *channel)
	defer closeMIDI()

	player, err := output.New(studio, cfg.SampleRate, *channels, cfg.BlockSize)
	if err != nil {
		logger.Fatal(err)
	}
	defer player.Close()
	player.Start()

	logger.Printf("running at %d Hz, %d frame blocks", cfg.SampleRate, cfg.BlockSize)
	if err := runCommands(os.Stdin, os.Stdout, studio); err != nil {
		logger.Print(err)
	}
	if err := player.Err(); err != nil {
		logger.Print(err)
	}
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.LoadFile(path)
}

// openMIDI starts forwarding notes from the named input and returns the
// function that stops it. Failing to open MIDI is not fatal.
func openMIDI(logger *log.Logger, q *audio.EventQueue, name string, channel int) func() {
	drv, err := openMIDIDriver()
	if err != nil || drv == nil {
		logger.Printf("no MIDI: %v", cmp.Or(err, midiin.ErrNoDriver))
		return func() {}
	}

	l := midiin.NewListener(q, midiin.Options{Channel: channel, Logger: logger})
	if err := l.OpenByName(drv, name); err != nil {
		logger.Printf("no MIDI: %v", err)
		drv.Close()
		return func() {}
	}

	return func() {
		l.Close()
		drv.Close()
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Sampler and four-track tape.\nUsage: %s [flags]\n", os.Args[0])
	flag.PrintDefaults()
}
