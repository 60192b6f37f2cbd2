// SPDX-License-Identifier: EPL-2.0

// Package tapecore is the audio core of a sampler wired into a four-track
// tape recorder.
//
// A Studio owns one sampler.Engine and one tape.Deck. Every render block
// the sampler plays the notes it was sent, the tape records that signal on
// the selected track while recording and plays back what its tracks hold,
// and both are summed into the output block.
//
// # Quick Start
//
//	cfg, err := config.LoadFile("tapecore.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	studio, err := tapecore.New(cfg, tapecore.Options{Logger: log.Default()})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := studio.LoadSample("break.wav"); err != nil {
//	    log.Print(err) // non-fatal: the sampler is left empty
//	}
//
//	// Render context, once per block:
//	studio.Render(block)
//
//	// Control context:
//	studio.Deck().Record()
//	studio.NoteOn(60)
//	studio.NoteOff(60)
//	studio.Deck().ReleaseRecord()
//
// # Loading Samples
//
// LoadSample decodes any format the registry knows (formats.NewRegistry
// registers WAV, AIFF, MP3 and Ogg Vorbis), resamples it to the engine rate,
// mixes it to mono and truncates it to the sampler capacity. A missing or
// empty file is reported but never fatal.
//
// # Render Context
//
// Render, sampler.Engine.Process and tape.Deck.Process never block, lock
// or allocate. Control operations build new state off to the side and
// publish it atomically; the render context sees either the old or the
// new state, never a mix.
//
// # Bouncing
//
// BounceTrack writes the recorded audio of one track to a WAV file at the
// configured bit depth, silent wherever nothing was recorded.
package tapecore
