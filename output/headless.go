//go:build headless

// SPDX-License-Identifier: EPL-2.0

package output

// Player plays nothing. The renderer is never called.
type Player struct {
	playing bool
}

func New(r Renderer, sampleRate, channels, blockSize int) (*Player, error) {
	return &Player{}, nil
}

func (p *Player) Start()          { p.playing = true }
func (p *Player) Stop()           { p.playing = false }
func (p *Player) IsPlaying() bool { return p.playing }
func (p *Player) Err() error      { return nil }
func (p *Player) Close() error {
	p.playing = false
	return nil
}
