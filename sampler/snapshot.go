// SPDX-License-Identifier: EPL-2.0

package sampler

// VoiceState is a read-only view of one voice for display.
type VoiceState struct {
	Region Region
	Active bool
	// Progress is the playback index relative to Region.In, or -1 when idle.
	Progress int
}

// Remaining is the share of the region still to be played, in [0, 1]. An
// idle voice reports 1.
func (v VoiceState) Remaining() float64 {
	n := v.Region.Len()
	if !v.Active || n == 0 {
		return 1
	}
	if v.Region.Mode.Direction == Backward {
		return float64(v.Progress+1) / float64(n)
	}
	return float64(n-v.Progress) / float64(n)
}

type Snapshot struct {
	// Current is the slot last triggered.
	Current    int
	Voices     [Voices]VoiceState
	Length     int
	SampleRate int
}

// Snapshot reads the engine state published by the last block. It is safe
// to call from any goroutine.
func (e *Engine) Snapshot() Snapshot {
	p := e.patch.Load()

	s := Snapshot{
		Current:    int(e.current.Load()),
		Length:     p.buf.Len(),
		SampleRate: p.buf.SampleRate(),
	}
	for i := range s.Voices {
		progress := int(e.progress[i].Load())
		s.Voices[i] = VoiceState{
			Region:   p.regions[i],
			Active:   progress >= 0,
			Progress: progress,
		}
	}
	return s
}
