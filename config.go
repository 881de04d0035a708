package modengine

import (
	"fmt"
	"io"
	"log"
)

// Clock is the Amiga hardware clock used to turn a period into a playback
// rate. Which of the two video standards a MOD was written for is not stored
// in the file, so it is left to configuration.
type Clock float64

const (
	ClockNTSC Clock = 7159090.5
	ClockPAL  Clock = 7093789.2
)

func (c Clock) String() string {
	switch c {
	case ClockNTSC:
		return "ntsc"
	case ClockPAL:
		return "pal"
	default:
		return fmt.Sprintf("Clock(%g)", float64(c))
	}
}

const (
	DefaultSampleRate = 44100

	// forced global multiplier for voice volume
	globalAttenuation = 0.25
	// samples per tick at 125 BPM is SampleRate/50
	defaultTickHz = 50
)

// Config controls how a Player renders a song.
type Config struct {
	SampleRate    int
	Clock         Clock
	Interpolation Interpolation

	// Logger receives diagnostics such as unimplemented effects. nil
	// discards them.
	Logger *log.Logger

	// PlayOrderLimit is the maximum number of pattern table entries to play,
	// -1 to disable the limit.
	PlayOrderLimit int

	// Bitmask of muted channels, channel 1 in LSB. To mute a channel set
	// its bit to 1.
	Mute uint
}

// Option modifies a Config.
type Option func(*Config)

// DefaultConfig returns the configuration used when no options are given.
func DefaultConfig() Config {
	return Config{
		SampleRate:     DefaultSampleRate,
		Clock:          ClockNTSC,
		Interpolation:  Nearest,
		PlayOrderLimit: -1,
	}
}

// WithSampleRate sets the output rate in frames per second.
func WithSampleRate(hz int) Option {
	return func(c *Config) { c.SampleRate = hz }
}

// WithClock sets the Amiga clock used to turn periods into pitch.
func WithClock(clock Clock) Option {
	return func(c *Config) { c.Clock = clock }
}

// WithInterpolation sets how instruments are resampled.
func WithInterpolation(interp Interpolation) Option {
	return func(c *Config) { c.Interpolation = interp }
}

// WithLogger sends player diagnostics to l.
func WithLogger(l *log.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// WithPlayOrderLimit ends the song after n pattern table entries, -1 for no limit.
func WithPlayOrderLimit(n int) Option {
	return func(c *Config) { c.PlayOrderLimit = n }
}

// WithMute sets the muted channel bitmask, channel 1 in LSB.
func WithMute(mask uint) Option {
	return func(c *Config) { c.Mute = mask }
}

func newConfig(opts []Option) (Config, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard, "", 0)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("%w: %d", ErrBadSampleRate, c.SampleRate)
	}
	if c.Clock <= 0 {
		return fmt.Errorf("invalid clock %v", c.Clock)
	}
	if c.Interpolation != Nearest && c.Interpolation != Linear {
		return fmt.Errorf("%w: %v", ErrBadInterpolation, c.Interpolation)
	}

	return nil
}
