package main

import (
	"github.com/chriskillpack/modengine"
	"github.com/gordonklaus/portaudio"
)

type portAudioSink struct {
	stream *portaudio.Stream
}

func newPortAudioSink(engine *modengine.Engine, hz int) (*portAudioSink, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}

	streamCB := func(out []int16) {
		n := engine.GenerateAudio(out)
		clear(out[n*2:]) // silence once paused or the song is over
	}

	stream, err := portaudio.OpenDefaultStream(0, 2, float64(hz), 756/2, streamCB)
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}

	return &portAudioSink{stream: stream}, nil
}

func (s *portAudioSink) Start() error {
	return s.stream.Start()
}

func (s *portAudioSink) Close() error {
	s.stream.Stop()
	err := s.stream.Close()
	portaudio.Terminate()
	return err
}
