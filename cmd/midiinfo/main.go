package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/wayne391/Midi-Track-Idenfication/pkg/midi"
	"go.uber.org/zap"
)

var (
	inFlag      = flag.String("i", "", "Input midi file")
	verboseFlag = flag.Bool("v", false, "Enable debug logging")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s \n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *inFlag == "" {
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

	m, err := midi.ReadFile(*inFlag)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(m)

	for i, inst := range m.Instruments {
		fmt.Printf("[%d] %s notes: %d\n", i, inst, len(inst.Notes))

		infoLog.Debug("instrument",
			zap.Int("index", i),
			zap.Uint8("program", inst.Program),
			zap.Bool("drum", inst.IsDrum),
			zap.String("name", inst.Name),
			zap.Int("notes", len(inst.Notes)),
			zap.Int("controlChanges", len(inst.ControlChanges)),
			zap.Int("pitchBends", len(inst.PitchBends)))
	}
}
