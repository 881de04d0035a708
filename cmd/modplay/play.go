package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"atomicgo.dev/keyboard"
	"atomicgo.dev/keyboard/keys"
	"github.com/chriskillpack/modengine"
	"github.com/fatih/color"
	"golang.org/x/term"
)

var (
	white   = color.New(color.FgWhite).SprintfFunc()
	cyan    = color.New(color.FgCyan).SprintfFunc()
	magenta = color.New(color.FgMagenta).SprintfFunc()
	yellow  = color.New(color.FgYellow).SprintfFunc()
	blue    = color.New(color.FgHiBlue).SprintFunc()
	green   = color.New(color.FgGreen).SprintfFunc()
	red     = color.New(color.FgRed).SprintfFunc()
)

const (
	escape     = "\x1b["
	hideCursor = escape + "?25l"
	showCursor = escape + "?25h"

	redrawInterval = 20 * time.Millisecond
	wideColumns    = 80 // terminal width needed by displayModeWide
)

type displayMode int

const (
	displayModeWide displayMode = iota
	displayModeNarrow
)

// ui draws the pattern view and handles key presses. The key handler runs
// on the keyboard goroutine, mu guards the selection.
type ui struct {
	engine *modengine.Engine
	song   *modengine.Song
	w      io.Writer
	mode   displayMode

	mu              sync.Mutex
	selectedChannel int
	soloChannel     int

	lastOrder, lastRow int
	drawn              bool
}

func newUI(engine *modengine.Engine, w io.Writer) *ui {
	song := engine.Song()

	mode := displayModeWide
	if song.Channels > 4 {
		mode = displayModeNarrow
	}
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width < wideColumns {
		mode = displayModeNarrow
	}

	return &ui{engine: engine, song: song, w: w, mode: mode, soloChannel: -1}
}

func play(engine *modengine.Engine, out sink) error {
	events := engine.Watch()

	// Start the engine before the sink so reader based sinks don't see EOF
	if err := engine.Play(); err != nil {
		return err
	}
	if *flagStartOrd > 0 {
		if err := engine.SeekTo(*flagStartOrd, 0); err != nil {
			return err
		}
	}
	if err := out.Start(); err != nil {
		return err
	}
	defer out.Close()

	interactive := term.IsTerminal(int(os.Stdout.Fd()))
	var uiw io.Writer = os.Stdout
	if *flagNoUI || !interactive {
		uiw = io.Discard
	}

	// Hide the cursor
	fmt.Fprint(uiw, hideCursor)
	defer fmt.Fprint(uiw, showCursor)

	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigch)

	u := newUI(engine, uiw)
	if interactive {
		go keyboard.Listen(u.handleKey)
	}

	ticker := time.NewTicker(redrawInterval)
	defer ticker.Stop()
	for {
		select {
		case ev := <-events:
			if ev.Kind == modengine.EventStopped {
				return nil
			}
		case <-sigch:
			engine.Stop()
		case <-ticker.C:
			u.draw()
		}
	}
}

func (u *ui) handleKey(key keys.Key) (stop bool, err error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	switch key.Code {
	case keys.CtrlC, keys.Escape:
		u.engine.Stop()
		return true, nil
	case keys.Space:
		u.engine.SkipPattern()
	case keys.Left:
		u.selectedChannel = max(u.selectedChannel-1, 0)
	case keys.Right:
		u.selectedChannel = min(u.selectedChannel+1, u.song.Channels-1)
	case keys.RuneKey:
		switch key.Runes[0] {
		case 'p':
			if u.engine.State() == modengine.Paused {
				u.engine.Play()
			} else {
				u.engine.Pause()
			}
		case 'q':
			u.engine.SetMute(u.engine.Mute() ^ (1 << u.selectedChannel))
		case 's':
			if u.soloChannel != u.selectedChannel {
				u.soloChannel = u.selectedChannel
				u.engine.SetMute(^(1 << u.selectedChannel))
			} else {
				u.soloChannel = -1
				u.engine.SetMute(0)
			}
		}
	}
	return false, nil
}

// draw prints the title line, the instruments playing on each channel and
// the preceding 4 rows, current row and upcoming 4 rows.
//
// <title> row 1A/3F pat 0A/73 speed 6 bpm 125
//
//	 1■ piano                         2□ bass
//	 3  ...
//
//	         1          2          3          4
//	    C-2 01 C20|... .. ...|... .. ...|... .. ...
//	>>> ... .. ...|G-3 14 C0B|... .. ...|... .. ... <<<
func (u *ui) draw() {
	state, ok := u.engine.PlayerState()
	if !ok {
		return
	}
	if u.drawn && u.lastOrder == state.Order && u.lastRow == state.Row {
		return
	}
	u.drawn, u.lastOrder, u.lastRow = true, state.Order, state.Row

	u.mu.Lock()
	selected := u.selectedChannel
	u.mu.Unlock()
	mute := u.engine.Mute()
	song, uiw := u.song, u.w

	if len(song.Title) > 0 {
		fmt.Fprint(uiw, song.Title+" ")
	}
	fmt.Fprintf(uiw, "%s %02X/3F %s %02X/%02X %s %02d %s %3d", blue("row"), state.Row, blue("pat"), state.Order, song.SongLength, blue("speed"), state.Speed, blue("bpm"), state.Tempo)
	if u.engine.State() == modengine.Paused {
		fmt.Fprint(uiw, " ", red("paused"))
	}
	fmt.Fprintln(uiw, escape+"K")

	// Print out which instrument channels are playing
	ncl := (len(state.Channels) + 1) / 2
	for i, ch := range state.Channels {
		tc := ' '
		if state.Order == ch.TrigOrder && state.Row == ch.TrigRow {
			tc = '■'
		} else if ch.Active {
			tc = '□'
		}
		outs := fmt.Sprintf("%2d%c ", i+1, tc)
		if ins := song.Instrument(ch.Instrument); ins != nil && ch.Active {
			outs += ins.Name
		}
		fmt.Fprintf(uiw, "%-32s", outs)
		if i&1 == 1 || i == len(state.Channels)-1 {
			fmt.Fprintln(uiw, escape+"K")
		}
	}
	fmt.Fprintln(uiw)

	// Print the channel header
	fmt.Fprintf(uiw, "    ")
	shown := u.channelsShown()
	for i := range shown {
		chanstr := "%2d         "
		if u.mode == displayModeNarrow {
			chanstr = "%2d      "
		}
		switch {
		case i == selected:
			fmt.Fprint(uiw, green(chanstr, i+1))
		case mute&(1<<i) != 0:
			fmt.Fprint(uiw, red(chanstr, i+1))
		default:
			fmt.Fprintf(uiw, chanstr, i+1)
		}
	}
	fmt.Fprintln(uiw, escape+"K")

	for i := -4; i <= 4; i++ {
		nd := u.engine.NoteDataFor(state.Order, state.Row+i)
		if nd == nil {
			fmt.Fprintln(uiw, escape+"K")
			continue
		}

		// If this is the currently playing row then highlight it
		if i == 0 {
			fmt.Fprint(uiw, ">>> ")
		} else {
			fmt.Fprint(uiw, "    ")
		}

		for ni, n := range nd[:shown] {
			switch u.mode {
			case displayModeWide:
				noteDisplayWide(n, uiw)
			case displayModeNarrow:
				noteDisplayNarrow(n, uiw)
			}
			if ni < shown-1 {
				fmt.Fprint(uiw, "|")
			}
		}
		if shown < len(nd) {
			fmt.Fprint(uiw, " ...")
		}
		if i == 0 {
			fmt.Fprint(uiw, " <<<")
		}
		fmt.Fprintln(uiw, escape+"K")
	}
	fmt.Fprintf(uiw, escape+"%dF", 12+ncl) // move cursor back to the title line
}

func (u *ui) channelsShown() int {
	if u.mode == displayModeWide {
		return min(u.song.Channels, 4)
	}
	return min(u.song.Channels, 8)
}

func noteDisplayWide(n modengine.ChannelNoteData, uiw io.Writer) {
	ins := ".."
	if n.Instrument != 0 {
		ins = fmt.Sprintf("%02X", n.Instrument)
	}
	fmt.Fprint(uiw, white("%s", n.Note), " ", cyan("%s", ins), " ", effectDisplay(n))
}

func noteDisplayNarrow(n modengine.ChannelNoteData, uiw io.Writer) {
	fmt.Fprint(uiw, white("%s", n.Note), " ", effectDisplay(n))
}

func effectDisplay(n modengine.ChannelNoteData) string {
	code := modengine.Cell{Effect: n.Effect, Arg: byte(n.Arg)}.Code()
	if len(code) < 3 {
		return magenta("%s", code)
	}
	return magenta("%s", code[:1]) + yellow("%s", code[1:])
}
