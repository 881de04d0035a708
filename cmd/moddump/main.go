package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/chriskillpack/modengine"
	"github.com/fatih/color"
)

var flagSummary = flag.Bool("summary", false, "only print the song summary and instruments, skip the pattern dump")

var (
	heading = color.New(color.FgHiBlue, color.Bold).SprintfFunc()
	cyan    = color.New(color.FgCyan).SprintfFunc()
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("moddump: ")
	flag.Parse()

	if len(flag.Args()) == 0 {
		log.Fatal("Missing song filename")
	}

	if !*flagSummary {
		modengine.SetDumpWriter(os.Stdout)
	}

	song, err := modengine.LoadMOD(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}
	if !*flagSummary {
		return
	}

	fmt.Println(heading("%s", song.Title))
	fmt.Printf("%d channels, %d orders, speed %d\n\n", song.Channels, song.SongLength, song.Speed)
	fmt.Println(heading("Instruments"))
	for i, ins := range song.Instruments {
		if ins == nil {
			continue
		}
		fmt.Printf("%s %s\n", cyan("%02X", i+1), ins)
	}
}
