package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"
	"path/filepath"

	"rampocr/internal/clean"
	"rampocr/internal/config"
	"rampocr/internal/extract"
	"rampocr/internal/ocr"
	"rampocr/internal/readout"
	"rampocr/internal/store"
	"rampocr/internal/video"
	"rampocr/pkg/geometry"

	"gocv.io/x/gocv"
	"golang.org/x/image/tiff"
)

// previewSkipCurrentA marks testocr rows where the supply is still at full
// ramp current; a preview-only hint, extraction uses the configured limits.
const previewSkipCurrentA = 550.0

// runSetROI writes the readout ROI config for a video and saves preview
// frames with the region drawn, so the coordinates can be checked by eye.
func runSetROI(env Env, args []string) error {
	fs := flag.NewFlagSet("setroi", flag.ExitOnError)
	videoPath := fs.String("video", "", "video file (required)")
	configPath := fs.String("config", env.ConfigPath, "ROI config path")
	x := fs.Int("x", 0, "ROI left edge in pixels")
	y := fs.Int("y", 0, "ROI top edge in pixels")
	w := fs.Int("w", 0, "ROI width in pixels")
	h := fs.Int("h", 0, "ROI height in pixels")
	previewDir := fs.String("previews", "result/preview_frames", "directory for preview frames (empty to skip)")
	fs.Parse(args)

	if *videoPath == "" {
		return fmt.Errorf("-video is required")
	}

	v, err := video.Open(*videoPath)
	if err != nil {
		return err
	}
	defer v.Close()
	meta := v.Metadata()

	roi := config.ROI{X: *x, Y: *y, W: *w, H: *h}
	if !roi.Rect().FitsIn(meta.Width, meta.Height) {
		return fmt.Errorf("ROI %dx%d+%d+%d does not fit in %dx%d video",
			*w, *h, *x, *y, meta.Width, meta.Height)
	}

	cfg := config.New(roi, config.VideoInfo{Width: meta.Width, Height: meta.Height, FPS: meta.FPS})
	if err := cfg.Save(*configPath); err != nil {
		return err
	}
	log.Printf("saved ROI config to %s", *configPath)

	if *previewDir != "" {
		if err := savePreviewFrames(v, roi.Rect(), *previewDir, 5); err != nil {
			return err
		}
		log.Printf("saved preview frames to %s", *previewDir)
	}
	return nil
}

// savePreviewFrames writes n evenly spaced frames with the ROI outlined.
func savePreviewFrames(v *video.Video, roi geometry.RectInt, dir string, n int) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	frameCount := v.Metadata().FrameCount
	green := color.RGBA{G: 255, A: 255}

	for i := 1; i <= n; i++ {
		frame := frameCount * i / (n + 1)
		img, err := v.FrameAt(frame)
		if err != nil {
			log.Printf("preview frame %d: %v", frame, err)
			continue
		}

		gocv.Rectangle(&img, roi.Image(), green, 2)
		path := filepath.Join(dir, fmt.Sprintf("preview_frame_%02d.jpg", i))
		if ok := gocv.IMWrite(path, img); !ok {
			img.Close()
			return fmt.Errorf("could not write %s", path)
		}
		img.Close()
	}
	return nil
}

// runTestOCR recognizes a few evenly spaced frames and tabulates the parse
// results, saving each readout crop for inspection.
func runTestOCR(env Env, args []string) error {
	fs := flag.NewFlagSet("testocr", flag.ExitOnError)
	videoPath := fs.String("video", "", "video file (required)")
	configPath := fs.String("config", env.ConfigPath, "ROI config path")
	numFrames := fs.Int("frames", 5, "number of test frames")
	outDir := fs.String("outdir", "result/test_frames", "directory for saved crops (empty to skip)")
	fs.Parse(args)

	if *videoPath == "" {
		return fmt.Errorf("-video is required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	v, err := video.Open(*videoPath)
	if err != nil {
		return err
	}
	defer v.Close()
	meta := v.Metadata()

	engine, err := ocr.NewEngine(env.TessdataPrefix)
	if err != nil {
		return err
	}
	defer engine.Close()

	log.Printf("testing OCR on %s: %d frames, ROI x=%d y=%d w=%d h=%d",
		filepath.Base(*videoPath), *numFrames, cfg.ROI.X, cfg.ROI.Y, cfg.ROI.W, cfg.ROI.H)

	fmt.Printf("%-10s %-12s %-15s %-12s %-12s %-10s\n",
		"Frame", "Time", "Current (A)", "MPS (V)", "MAG (V)", "Status")

	parsed, skipped := 0, 0
	for i := 1; i <= *numFrames; i++ {
		frame := meta.FrameCount * i / (*numFrames + 1)

		img, err := v.FrameAt(frame)
		if err != nil {
			fmt.Printf("%-10d %-12s %s\n", frame, "ERROR", err)
			continue
		}

		if *outDir != "" {
			if err := saveCropTIFF(img, cfg.ROI.Rect(), *outDir, frame); err != nil {
				log.Printf("frame %d: saving crop: %v", frame, err)
			}
		}

		text, err := engine.RecognizeRegion(img, cfg.ROI.Rect())
		img.Close()
		if err != nil {
			fmt.Printf("%-10d %-12s %s\n", frame, "ERROR", err)
			continue
		}

		fields, err := readout.Parse(text)
		if err != nil {
			fmt.Printf("%-10d %-12s %s\n", frame, "FAILED", "display fields not found")
			continue
		}

		r := readout.NewReading(frame, meta.FPS, fields)
		status := "OK"
		if r.Current > previewSkipCurrentA {
			status = "SKIPPED"
			skipped++
		}
		parsed++
		fmt.Printf("%-10d %-12s %-15.2f %-12.4f %-12.4f %-10s\n",
			r.Frame, r.TimeString, r.Current, r.MPSVolts, r.MAGVolts, status)
	}

	fmt.Printf("\nparsed %d/%d frames, %d above %.0fA\n", parsed, *numFrames, skipped, previewSkipCurrentA)
	return nil
}

// saveCropTIFF writes the readout region of a frame as lossless TIFF.
func saveCropTIFF(frame gocv.Mat, roi geometry.RectInt, dir string, frameNum int) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	clipped := roi.ClampTo(frame.Cols(), frame.Rows())
	if clipped.Empty() {
		return fmt.Errorf("ROI outside frame")
	}
	region := frame.Region(clipped.Image())
	defer region.Close()

	img, err := region.ToImage()
	if err != nil {
		return err
	}

	path := filepath.Join(dir, fmt.Sprintf("frame_%06d_roi.tiff", frameNum))
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return tiff.Encode(f, img, nil)
}

// runExtract processes the full video and saves the reading series.
func runExtract(env Env, args []string) error {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	videoPath := fs.String("video", "", "video file (required)")
	configPath := fs.String("config", env.ConfigPath, "ROI config path")
	outPath := fs.String("out", env.OutputPath, "output JSON path")
	interval := fs.Int("interval", env.FrameInterval, "process every Nth frame")
	radius := fs.Int("radius", env.FallbackRadius, "max fallback distance around a target frame")
	quiet := fs.Bool("quiet", false, "suppress per-frame progress logging")
	fs.Parse(args)

	if *videoPath == "" {
		return fmt.Errorf("-video is required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	v, err := video.Open(*videoPath)
	if err != nil {
		return err
	}
	defer v.Close()
	meta := v.Metadata()

	engine, err := ocr.NewEngine(env.TessdataPrefix)
	if err != nil {
		return err
	}
	defer engine.Close()

	log.Printf("processing %s: %d frames at %.2f fps, every %d frames, fallback ±%d",
		filepath.Base(*videoPath), meta.FrameCount, meta.FPS, *interval, *radius)

	stream := video.NewStream(v, engine, cfg.ROI.Rect())
	res, err := extract.Run(stream, extract.Options{
		FrameCount:     meta.FrameCount,
		FPS:            meta.FPS,
		FrameInterval:  *interval,
		FallbackRadius: *radius,
		Limits:         cfg.Validation.Limits(),
		Quiet:          *quiet,
	})
	if err != nil {
		return err
	}

	result := &store.RunResult{
		Video:               filepath.Base(*videoPath),
		FPS:                 meta.FPS,
		FrameInterval:       *interval,
		TotalFrames:         meta.FrameCount,
		ProcessedFrames:     res.Stats.TargetFrames,
		SuccessfulParses:    res.Stats.Successful,
		FailedParses:        res.Stats.Failed,
		FallbackUsed:        res.Stats.FallbackUsed,
		Validation:          cfg.Validation,
		ExperimentStartTime: res.TimeRange.Start,
		ExperimentEndTime:   res.TimeRange.End,
		Data:                res.Readings,
	}
	if res.PauseThreshold > 0 {
		result.MaxPauseThreshold = &res.PauseThreshold
	}

	if err := result.Save(*outPath); err != nil {
		return err
	}

	log.Printf("extraction complete: %d/%d frames parsed (%.1f%%), %d failed, %d via fallback",
		res.Stats.Successful, res.Stats.TargetFrames, res.Stats.SuccessRate()*100,
		res.Stats.Failed, res.Stats.FallbackUsed)
	log.Printf("output saved to %s", *outPath)
	return nil
}

// runClean filters and smooths a previously extracted series.
func runClean(env Env, args []string) error {
	fs := flag.NewFlagSet("clean", flag.ExitOnError)
	inPath := fs.String("in", env.OutputPath, "extracted series JSON")
	outPath := fs.String("out", env.CleanedPath, "cleaned series JSON")
	fs.Parse(args)

	result, err := store.Load(*inPath)
	if err != nil {
		return err
	}

	cleaned, counts := clean.Series(result.Data)

	out := *result
	out.Data = cleaned
	if err := out.Save(*outPath); err != nil {
		return err
	}

	log.Printf("cleaned %d -> %d points (range -%d, time -%d, rate -%d, outliers -%d)",
		counts.Input, counts.Output, counts.RangeRemoved, counts.TimeRemoved,
		counts.RateRemoved, counts.OutliersRemoved)
	log.Printf("cleaned series saved to %s", *outPath)
	return nil
}
