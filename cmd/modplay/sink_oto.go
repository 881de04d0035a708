package main

import (
	"github.com/chriskillpack/modengine"
	"github.com/ebitengine/oto/v3"
)

type otoSink struct {
	player *oto.Player
}

func newOtoSink(engine *modengine.Engine, hz int) (*otoSink, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   hz,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, err
	}
	<-ready

	// The engine reads as 16-bit little endian stereo, oto's native layout
	return &otoSink{player: ctx.NewPlayer(engine)}, nil
}

func (s *otoSink) Start() error {
	s.player.Play()
	return nil
}

func (s *otoSink) Close() error {
	return s.player.Close()
}
