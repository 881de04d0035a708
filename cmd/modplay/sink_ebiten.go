package main

import (
	"github.com/chriskillpack/modengine"
	"github.com/hajimehoshi/ebiten/v2/audio"
)

type ebitenSink struct {
	player *audio.Player
}

func newEbitenSink(engine *modengine.Engine, hz int) (*ebitenSink, error) {
	audioContext := audio.NewContext(hz)
	player, err := audioContext.NewPlayer(engine)
	if err != nil {
		return nil, err
	}

	return &ebitenSink{player: player}, nil
}

func (s *ebitenSink) Start() error {
	s.player.Play()
	return nil
}

func (s *ebitenSink) Close() error {
	return s.player.Close()
}
