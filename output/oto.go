//go:build !headless

// SPDX-License-Identifier: EPL-2.0

package output

import (
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// Player owns the audio device and the oto player reading from a Renderer.
type Player struct {
	mu     sync.Mutex
	ctx    *oto.Context
	player *oto.Player
}

// New opens the audio device at sampleRate and prepares to play r. The
// device buffer holds about two blocks.
func New(r Renderer, sampleRate, channels, blockSize int) (*Player, error) {
	latency := 2 * time.Duration(blockSize) * time.Second / time.Duration(sampleRate)

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   latency,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot create oto context: %w", err)
	}
	<-ready

	p := ctx.NewPlayer(NewReader(r, channels, blockSize))
	p.SetBufferSize(2 * blockSize * channels * bytesPerSample)

	return &Player{ctx: ctx, player: p}, nil
}

func (p *Player) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.player != nil {
		p.player.Play()
	}
}

// Stop pauses playback; Start resumes it.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.player != nil {
		p.player.Pause()
	}
}

func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.player != nil && p.player.IsPlaying()
}

// Err reports a device failure, if any.
func (p *Player) Err() error { return p.ctx.Err() }

// Close stops playback for good.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.player == nil {
		return nil
	}
	err := p.player.Close()
	p.player = nil
	if err != nil {
		return fmt.Errorf("cannot close oto player: %w", err)
	}
	return nil
}
