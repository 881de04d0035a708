package modengine

import (
	"fmt"
	"io"
)

var dumpW io.Writer = nil

// SetDumpWriter makes the decoder print the song structure to w as it is
// decoded. Pass nil to turn dumping off.
func SetDumpWriter(w io.Writer) { dumpW = w }

func dumpf(format string, a ...any) {
	if dumpW == nil {
		return
	}

	fmt.Fprintf(dumpW, format, a...)
}
