// SPDX-License-Identifier: EPL-2.0

package tapecore

import (
	"bytes"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/ik5/tapecore/audio"
	"github.com/ik5/tapecore/config"
	"github.com/ik5/tapecore/formats/wav"
	"github.com/ik5/tapecore/tape"
)

const testRate = 1000

func testConfig() config.Config {
	c := config.Default()
	c.SampleRate = testRate
	c.BlockSize = 64
	c.TapeSeconds = 4
	c.MaxSampleSeconds = 2
	c.EventQueue = 16
	return c
}

func newStudio(t testing.TB, opts Options) *Studio {
	t.Helper()

	s, err := New(testConfig(), opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s
}

func ramp(n int) []float32 {
	s := make([]float32, n)
	for i := range s {
		s[i] = float32(i + 1)
	}
	return s
}

func TestNew_InvalidConfig(t *testing.T) {
	t.Parallel()

	c := testConfig()
	c.BlockSize = 0
	if _, err := New(c, Options{}); !errors.Is(err, config.ErrInvalidBlock) {
		t.Errorf("New() error = %v, want %v", err, config.ErrInvalidBlock)
	}
}

func TestStudio_RenderPlaysSampler(t *testing.T) {
	t.Parallel()

	s := newStudio(t, Options{})
	s.Sampler().SetBuffer(audio.NewBuffer(ramp(10), testRate))

	if !s.NoteOn(0) {
		t.Fatal("NoteOn() rejected")
	}
	out := make([]float32, 8)
	s.Render(out)

	for i, v := range out {
		if v != float32(i+1) {
			t.Fatalf("out = %v, want the first 8 frames of the sample", out)
		}
	}
	if s.Peak() != 8 {
		t.Errorf("Peak() = %v, want 8", s.Peak())
	}

	// Events reach only the first pass of a long block.
	s.NoteOff(0)
	s.NoteOn(1)
	long := make([]float32, 200)
	s.Render(long)
	for i := range 10 {
		if long[i] != float32(i+1) {
			t.Fatalf("long[%d] = %v, want %v", i, long[i], i+1)
		}
	}
	for i := 10; i < len(long); i++ {
		if long[i] != 0 {
			t.Fatalf("long[%d] = %v after the one-shot ended", i, long[i])
		}
	}
}

func TestStudio_TapeRecordsSampler(t *testing.T) {
	t.Parallel()

	s := newStudio(t, Options{})
	s.Sampler().SetBuffer(audio.NewBuffer(ramp(100), testRate))
	d := s.Deck()

	d.Record()
	s.NoteOn(0)
	monitor := make([]float32, 100)
	s.Render(monitor)
	d.ReleaseRecord()

	// While recording only the sampler is heard.
	for i, v := range monitor {
		if v != float32(i+1) {
			t.Fatalf("monitor[%d] = %v, want %v", i, v, i+1)
		}
	}

	if got, ok := d.Current(0, 50); !ok || got != (tape.Slice{In: 0, Out: 100}) {
		t.Fatalf("Current(0, 50) = %v, %v; want [0, 100)", got, ok)
	}

	d.Seek(0)
	d.Play()
	d.ReleasePlay()
	out := make([]float32, 120)
	s.Render(out)
	d.Stop()

	for i, v := range out {
		want := float32(0)
		if i < 100 {
			want = float32(i + 1)
		}
		if v != want {
			t.Fatalf("playback[%d] = %v, want %v", i, v, want)
		}
	}
}

func TestStudio_Spool(t *testing.T) {
	t.Parallel()

	s := newStudio(t, Options{})
	d := s.Deck()

	if err := s.Spool(true); err != nil {
		t.Fatalf("Spool(true) error = %v", err)
	}
	if d.Mode() != tape.SpoolingForward {
		t.Fatalf("Mode() = %v, want %v", d.Mode(), tape.SpoolingForward)
	}
	s.Render(make([]float32, 64))
	if got, want := d.Position(), 64*5; got != want {
		t.Errorf("Position() = %d, want %d", got, want)
	}

	if err := s.Spool(false); err != nil {
		t.Fatalf("Spool(false) error = %v", err)
	}
	if d.Mode() != tape.SpoolingBackward {
		t.Errorf("Mode() = %v, want %v", d.Mode(), tape.SpoolingBackward)
	}
	s.Render(make([]float32, 64))
	if got := d.Position(); got != 0 {
		t.Errorf("Position() = %d after spooling back, want 0", got)
	}

	d.ReleaseSpool()
	d.Record()
	if err := s.Spool(true); !errors.Is(err, tape.ErrRecording) {
		t.Errorf("Spool() while recording error = %v, want %v", err, tape.ErrRecording)
	}
}

func TestStudio_SetSampleRate(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	s := newStudio(t, Options{Logger: log.New(&logs, "", 0)})
	s.Sampler().SetBuffer(audio.NewBuffer(make([]float32, 100), testRate))

	if err := s.SetSampleRate(2 * testRate); err != nil {
		t.Fatalf("SetSampleRate() error = %v", err)
	}

	if got := s.Sampler().SampleRate(); got != 2*testRate {
		t.Errorf("sampler rate = %d, want %d", got, 2*testRate)
	}
	if got := s.Deck().SampleRate(); got != 2*testRate {
		t.Errorf("tape rate = %d, want %d", got, 2*testRate)
	}
	if got := s.Deck().Length(); got != 4*2*testRate {
		t.Errorf("tape length = %d, want %d", got, 4*2*testRate)
	}
	if got := s.Config().SampleRate; got != 2*testRate {
		t.Errorf("Config().SampleRate = %d, want %d", got, 2*testRate)
	}
	if !strings.Contains(logs.String(), "resampled") {
		t.Errorf("log = %q, want a resample notice", logs.String())
	}

	s.Deck().Record()
	if err := s.SetSampleRate(testRate); !errors.Is(err, tape.ErrRecording) {
		t.Errorf("SetSampleRate() while recording error = %v, want %v", err, tape.ErrRecording)
	}
	if err := s.SetSampleRate(0); err == nil {
		t.Error("SetSampleRate(0) succeeded")
	}
}

func TestStudio_LoadSample(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	s := newStudio(t, Options{Logger: log.New(&logs, "", 0)})

	dir := t.TempDir()
	path := writeWAV(t, dir, "hit.wav", testRate, constantSamples(250, 0.25))
	if err := s.LoadSample(path); err != nil {
		t.Fatalf("LoadSample() error = %v", err)
	}
	if got := s.Sampler().Snapshot().Length; got != 250 {
		t.Errorf("sample length = %d, want 250", got)
	}
	if !strings.Contains(logs.String(), "250 frames") {
		t.Errorf("log = %q", logs.String())
	}

	// Longer than the sampler holds.
	path = writeWAV(t, dir, "long.wav", testRate, constantSamples(5*testRate, 0.25))
	if err := s.LoadSample(path); err != nil {
		t.Fatalf("LoadSample() error = %v", err)
	}
	if got := s.Sampler().Snapshot().Length; got != s.Sampler().Capacity() {
		t.Errorf("sample length = %d, want capacity %d", got, s.Sampler().Capacity())
	}

	if err := s.LoadSample(filepath.Join(dir, "missing.wav")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadSample(missing) error = %v, want os.ErrNotExist", err)
	}
	if got := s.Sampler().Snapshot().Length; got != 0 {
		t.Errorf("sample length after failed load = %d, want 0", got)
	}
}

func TestStudio_BounceTrack(t *testing.T) {
	t.Parallel()

	s := newStudio(t, Options{})
	s.Sampler().SetBuffer(audio.NewBuffer(constantSamples(100, 0.5), testRate))
	d := s.Deck()

	d.Seek(50)
	d.Record()
	s.NoteOn(0)
	s.Render(make([]float32, 100))
	d.ReleaseRecord()

	f, err := os.Create(filepath.Join(t.TempDir(), "track1.wav"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if err := s.BounceTrack(0, f); err != nil {
		t.Fatalf("BounceTrack() error = %v", err)
	}
	if _, err := f.Seek(0, 0); err != nil {
		t.Fatal(err)
	}

	src, err := wav.Decoder{}.Decode(f)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if src.SampleRate() != testRate || src.Channels() != 1 {
		t.Errorf("bounce format = %d Hz × %d, want %d Hz mono", src.SampleRate(), src.Channels(), testRate)
	}

	var got []float32
	buf := make([]float32, 64)
	for {
		n, err := src.ReadSamples(buf)
		got = append(got, buf[:n]...)
		if err != nil {
			break
		}
	}
	if len(got) != 150 {
		t.Fatalf("bounce holds %d frames, want 150", len(got))
	}
	for i, v := range got {
		want := float32(0)
		if i >= 50 {
			want = 0.5
		}
		if d := v - want; d > 1e-3 || d < -1e-3 {
			t.Fatalf("bounce[%d] = %v, want %v", i, v, want)
		}
	}

	d.Record()
	if err := s.BounceTrack(0, f); !errors.Is(err, tape.ErrRecording) {
		t.Errorf("BounceTrack() while recording error = %v, want %v", err, tape.ErrRecording)
	}
}

func TestStudio_EventsDropped(t *testing.T) {
	t.Parallel()

	s := newStudio(t, Options{})
	for i := range 20 {
		s.NoteOn(i)
	}
	if got := s.Events().Dropped(); got != 4 {
		t.Errorf("Dropped() = %d, want 4", got)
	}
}

func TestStudio_RenderZeroAllocs(t *testing.T) {
	s := newStudio(t, Options{})
	s.Sampler().SetBuffer(audio.NewBuffer(ramp(500), testRate))
	s.Deck().Record()

	out := make([]float32, 256)
	allocs := testing.AllocsPerRun(50, func() {
		s.NoteOn(0)
		s.Render(out)
	})
	if allocs != 0 {
		t.Errorf("Render() allocates %v times per block", allocs)
	}
}

func TestStudio_ConcurrentControl(t *testing.T) {
	s := newStudio(t, Options{})
	s.Sampler().SetBuffer(audio.NewBuffer(ramp(300), testRate))
	d := s.Deck()

	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		out := make([]float32, 64)
		for {
			select {
			case <-stop:
				return
			default:
				clear(out)
				s.Render(out)
			}
		}
	}()

	for i := range 200 {
		s.NoteOn(i)
		switch i % 5 {
		case 0:
			d.Record()
		case 1:
			d.ReleaseRecord()
		case 2:
			d.Cut(i * 7)
		case 3:
			s.Spool(i%2 == 0)
		case 4:
			d.ReleaseSpool()
		}
		s.NoteOff(i)
	}

	close(stop)
	wg.Wait()
}

func BenchmarkStudio_Render(b *testing.B) {
	c := testConfig()
	c.SampleRate = 48000
	c.BlockSize = 512
	s, err := New(c, Options{})
	if err != nil {
		b.Fatal(err)
	}
	s.Sampler().SetBuffer(audio.NewBuffer(ramp(48000), 48000))
	s.Deck().Record()

	out := make([]float32, 512)
	b.ReportAllocs()
	for b.Loop() {
		s.NoteOn(0)
		s.Render(out)
	}
}
