// SPDX-License-Identifier: EPL-2.0

// Package config holds the instrument settings read from a YAML file.
//
// Every field has a default, so a file only needs the keys it changes:
//
//	sample_rate: 48000
//	sample: kit/break.wav
//	tempo_bpm: 96
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	SampleRate       int     `yaml:"sample_rate"`
	BlockSize        int     `yaml:"block_size"`
	MaxSampleSeconds int     `yaml:"max_sample_seconds"`
	TapeSeconds      int     `yaml:"tape_seconds"`
	Sample           string  `yaml:"sample,omitempty"`
	MIDIInput        string  `yaml:"midi_input,omitempty"`
	BaseSpeed        float64 `yaml:"base_speed"`
	SpoolSpeed       float64 `yaml:"spool_speed"`
	MaxSpeed         float64 `yaml:"max_speed"`
	TempoBPM         float64 `yaml:"tempo_bpm"`
	BeatsPerBar      int     `yaml:"beats_per_bar"`
	BounceBitDepth   int     `yaml:"bounce_bit_depth"`
	EventQueue       int     `yaml:"event_queue"`
}

// Default returns the settings used for any key a file leaves out.
func Default() Config {
	return Config{
		SampleRate:       44100,
		BlockSize:        512,
		MaxSampleSeconds: 16,
		TapeSeconds:      180,
		BaseSpeed:        1,
		SpoolSpeed:       5,
		MaxSpeed:         8,
		TempoBPM:         120,
		BeatsPerBar:      4,
		BounceBitDepth:   16,
		EventQueue:       256,
	}
}

// Load decodes r over the defaults and validates the result. Unknown keys
// are an error. An empty document yields the defaults.
func Load(r io.Reader) (Config, error) {
	c := Default()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// LoadFile is Load on the file at path.
func LoadFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("opening config: %w", err)
	}
	defer f.Close()

	c, err := Load(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Validate reports the first setting the engines cannot run with.
func (c Config) Validate() error {
	switch {
	case c.SampleRate <= 0:
		return ErrInvalidRate
	case c.BlockSize <= 0:
		return ErrInvalidBlock
	case c.MaxSampleSeconds <= 0 || c.TapeSeconds <= 0:
		return ErrInvalidDuration
	case c.MaxSpeed <= 0 || c.SpoolSpeed <= 0 || c.SpoolSpeed > c.MaxSpeed:
		return ErrInvalidSpeed
	case c.BaseSpeed == 0 || c.BaseSpeed > c.MaxSpeed || c.BaseSpeed < -c.MaxSpeed:
		return ErrInvalidSpeed
	case c.TempoBPM <= 0 || c.BeatsPerBar <= 0:
		return ErrInvalidTempo
	case c.EventQueue <= 0:
		return ErrInvalidQueue
	}

	switch c.BounceBitDepth {
	case 16, 24, 32:
	default:
		return ErrInvalidBitDepth
	}
	return nil
}

// Marshal encodes c as YAML, the format Load reads.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
