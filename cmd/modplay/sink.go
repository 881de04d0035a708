package main

import (
	"github.com/chriskillpack/modengine"
	"github.com/chriskillpack/modengine/cmd/internal/config"
)

// sink pulls audio from the engine and sends it to an output device.
type sink interface {
	Start() error
	Close() error
}

func newSink(backend config.Backend, engine *modengine.Engine, hz int) (sink, error) {
	switch backend {
	case config.BackendOto:
		return newOtoSink(engine, hz)
	case config.BackendEbiten:
		return newEbitenSink(engine, hz)
	default:
		return newPortAudioSink(engine, hz)
	}
}
