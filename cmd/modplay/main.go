package main

import (
	"flag"
	"log"
	"os"

	"github.com/chriskillpack/modengine"
	"github.com/chriskillpack/modengine/cmd/internal/config"
)

var (
	flagHz       = flag.Int("hz", modengine.DefaultSampleRate, "output hz")
	flagBackend  = flag.String("backend", "portaudio", "audio output, choose from portaudio, oto or ebiten")
	flagClock    = flag.String("clock", "ntsc", "Amiga clock used for pitch, ntsc or pal")
	flagInterp   = flag.String("interp", "nearest", "sample interpolation, nearest or linear")
	flagStartOrd = flag.Int("start", 0, "starting order in the MOD, clamped to song max")
	flagLenOrd   = flag.Int("maxpatterns", -1, "Maximum number of orders to play, useful for songs that loop forever")
	flagMute     = flag.String("mute", "", "comma separated list of channels to mute, e.g. 1,3")
	flagVerbose  = flag.Bool("v", false, "log player diagnostics such as unimplemented effects")
	flagNoUI     = flag.Bool("noui", false, "turn off all UI, mostly useful in development")
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("modplay: ")
	flag.Parse()

	if len(flag.Args()) == 0 {
		log.Fatal("Missing song filename")
	}

	clock, err := config.ClockFromFlag(*flagClock)
	if err != nil {
		log.Fatal(err)
	}
	interp, err := config.InterpolationFromFlag(*flagInterp)
	if err != nil {
		log.Fatal(err)
	}
	backend, err := config.BackendFromFlag(*flagBackend)
	if err != nil {
		log.Fatal(err)
	}
	mute, err := config.MuteFromFlag(*flagMute)
	if err != nil {
		log.Fatal(err)
	}

	opts := []modengine.Option{
		modengine.WithSampleRate(*flagHz),
		modengine.WithClock(clock),
		modengine.WithInterpolation(interp),
		modengine.WithPlayOrderLimit(*flagLenOrd),
		modengine.WithMute(mute),
	}
	if *flagVerbose {
		opts = append(opts, modengine.WithLogger(log.New(os.Stderr, "modplay: ", 0)))
	}
	engine, err := modengine.NewEngine(opts...)
	if err != nil {
		log.Fatal(err)
	}
	if err := engine.Load(flag.Arg(0)); err != nil {
		log.Fatal(err)
	}

	out, err := newSink(backend, engine, *flagHz)
	if err != nil {
		log.Fatal(err)
	}

	if err := play(engine, out); err != nil {
		log.Fatal(err)
	}
}
