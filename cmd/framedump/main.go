// Command framedump prints the raw OCR text and parse result for explicit
// video frames. Useful when a stretch of the video refuses to parse and the
// extraction counters alone don't say why.
//
// Usage: framedump -video ramp.mp4 [-config config/roi.yaml] 1200 1210 1220
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"rampocr/internal/config"
	"rampocr/internal/ocr"
	"rampocr/internal/readout"
	"rampocr/internal/video"
)

var (
	flagVideo    = flag.String("video", "", "video file (required)")
	flagConfig   = flag.String("config", config.DefaultPath, "ROI config path")
	flagTessdata = flag.String("tessdata", "", "tessdata directory (empty for system default)")
)

func main() {
	log.SetFlags(0)
	flag.Parse()

	if *flagVideo == "" || flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Usage: framedump -video <file> [options] <frame>...")
		flag.PrintDefaults()
		os.Exit(2)
	}

	frames := make([]int, 0, flag.NArg())
	for _, arg := range flag.Args() {
		n, err := strconv.Atoi(arg)
		if err != nil || n < 0 {
			log.Fatalf("bad frame number %q", arg)
		}
		frames = append(frames, n)
	}

	cfg, err := config.Load(*flagConfig)
	if err != nil {
		log.Fatal(err)
	}

	v, err := video.Open(*flagVideo)
	if err != nil {
		log.Fatal(err)
	}
	defer v.Close()

	engine, err := ocr.NewEngine(*flagTessdata)
	if err != nil {
		log.Fatal(err)
	}
	defer engine.Close()

	stream := video.NewStream(v, engine, cfg.ROI.Rect())
	fps := v.Metadata().FPS

	for _, frame := range frames {
		fmt.Printf("--- frame %d ---\n", frame)

		text, err := stream.TextAt(frame)
		if err != nil {
			fmt.Printf("read error: %v\n\n", err)
			continue
		}
		fmt.Printf("ocr text:\n%s\n", text)

		fields, err := readout.Parse(text)
		if err != nil {
			fmt.Printf("parse: %v\n\n", err)
			continue
		}

		r := readout.NewReading(frame, fps, fields)
		fmt.Printf("parsed: %s\n\n", r)
	}
}
