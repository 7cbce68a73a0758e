package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/wayne391/Midi-Track-Idenfication/pkg/midi"
	"go.uber.org/zap"
)

var (
	inFlag  = flag.String("i", "", "Input midi file")
	outFlag = flag.String("o", "", "Output midi file")

	fromFlag  = flag.Int("from", -1, "Window start in ticks")
	toFlag    = flag.Int("to", -1, "Window end in ticks (exclusive)")
	startFlag = flag.Float64("start", -1, "Window start in seconds")
	endFlag   = flag.Float64("end", -1, "Window end in seconds (exclusive)")

	tracksFlag  = flag.String("tracks", "", "Comma-separated instrument indices to export, e.g. 0,2,5")
	noShiftFlag = flag.Bool("noshift", false, "Keep original ticks instead of rebasing the window to 0")
	verboseFlag = flag.Bool("v", false, "Enable debug logging")
)

func parseTracks(s string) []int {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			log.Fatalf("invalid instrument index %q", p)
		}
		out = append(out, n)
	}
	return out
}

func segment() *midi.Segment {
	tickSet := *fromFlag >= 0 || *toFlag >= 0
	secSet := *startFlag >= 0 || *endFlag >= 0

	switch {
	case tickSet && secSet:
		log.Fatal("segment bounds must be all ticks or all seconds")
	case tickSet:
		if *fromFlag < 0 || *toFlag < 0 {
			log.Fatal("both -from and -to are required")
		}
		s := midi.TickSegment(*fromFlag, *toFlag)
		return &s
	case secSet:
		if *startFlag < 0 || *endFlag < 0 {
			log.Fatal("both -start and -end are required")
		}
		s := midi.TimeSegment(*startFlag, *endFlag)
		return &s
	}
	return nil
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s \n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *inFlag == "" || *outFlag == "" {
		flag.Usage()
		return
	}

	if *verboseFlag {
		logger, err := zap.NewDevelopment()
		if err != nil {
			log.Fatal(err)
		}
		defer logger.Sync()
		enableDebugLogging(logger)
	}

	opts := &midi.DumpOptions{
		Segment:     segment(),
		Shift:       !*noShiftFlag,
		Instruments: parseTracks(*tracksFlag),
	}

	m, err := midi.ReadFile(*inFlag)
	if err != nil {
		log.Fatal(err)
	}

	segLog.Debug("model loaded",
		zap.Int("ticksPerBeat", m.TicksPerBeat),
		zap.Int("maxTick", m.MaxTick),
		zap.Int("instruments", len(m.Instruments)))

	if err := m.WriteFile(*outFlag, opts); err != nil {
		log.Fatal(err)
	}
}
