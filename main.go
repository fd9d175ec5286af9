// Command rampocr extracts time-series instrument readings (magnet current
// and two supply voltages) from videos of an MPS ramp display, by sampling
// frames, running OCR on a fixed readout region, validating the parsed
// values, and cleaning the resulting series for plotting.
package main

import (
	"fmt"
	"log"
	"os"

	"rampocr/internal/version"

	"github.com/kelseyhightower/envconfig"
)

const appName = "rampocr"

// Env holds process-environment defaults (RAMPOCR_* variables). Flags
// override them per invocation.
type Env struct {
	ConfigPath     string `envconfig:"CONFIG" default:"config/roi.yaml"`
	OutputPath     string `envconfig:"OUTPUT" default:"result/output.json"`
	CleanedPath    string `envconfig:"CLEANED" default:"result/output_cleaned.json"`
	FrameInterval  int    `envconfig:"FRAME_INTERVAL" default:"10"`
	FallbackRadius int    `envconfig:"FALLBACK_RADIUS" default:"5"`
	TessdataPrefix string `envconfig:"TESSDATA_PREFIX" default:""`
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	var env Env
	if err := envconfig.Process(appName, &env); err != nil {
		log.Fatalf("bad %s environment: %v", appName, err)
	}

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "setroi":
		err = runSetROI(env, os.Args[2:])
	case "testocr":
		err = runTestOCR(env, os.Args[2:])
	case "extract":
		err = runExtract(env, os.Args[2:])
	case "clean":
		err = runClean(env, os.Args[2:])
	case "version":
		fmt.Printf("%s v%s (%s, built %s)\n", appName, version.Version, version.GitCommit, version.BuildTime)
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		log.Fatalf("%s: %v", os.Args[1], err)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: %s <command> [options]

Commands:
  setroi   write the readout ROI config and save preview frames
  testocr  OCR a few evenly spaced frames and show parse results
  extract  process the full video and save the reading series
  clean    filter and smooth an extracted series
  version  print the version

Run "%s <command> -h" for command options.
`, appName, appName)
}
