// Command motionbg renders gradient wallpaper frames and loops to image files.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color/palette"
	"image/gif"
	"io"
	"log"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/image/draw"

	"github.com/gogpu/motionbg"
	"github.com/gogpu/motionbg/internal/config"
	imagebuf "github.com/gogpu/motionbg/internal/image"
)

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		log.Fatalf("motionbg: %v", err)
	}
}

func run(args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("motionbg", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		configPath = fs.String("config", "", "YAML preset (default ./"+config.DefaultFile+" if present)")
		width      = fs.Int("width", 60, "bitmap width")
		height     = fs.Int("height", 80, "bitmap height")
		stridePad  = fs.Int("stride-pad", 0, "extra bytes at the end of each row")
		phase      = fs.Int("phase", 0, "phase 0-7")
		progress   = fs.Float64("progress", 1, "progress from the previous phase, 0-1")
		colors     = fs.String("colors", "", "3 or 4 comma separated colors")
		frames     = fs.Int("frames", 0, "number of GIF frames; 0 renders a still image")
		fps        = fs.Int("fps", 30, "GIF frame rate")
		mode       = fs.String("mode", config.ModeLoop, "GIF animation: loop or switch")
		fast       = fs.Bool("fast", false, "fast phase switches in switch mode")
		out        = fs.String("out", "", "output file")
		format     = fs.String("format", "", "png, bmp, tiff or gif (default from -out)")
		scale      = fs.Int("scale", 1, "integer upscale factor")
		verbose    = fs.Bool("v", false, "debug logging")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	if *verbose {
		logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		motionbg.SetLogger(logger)
	}

	cfg, err := config.LoadOptional(*configPath)
	if err != nil {
		return err
	}

	// Explicit flags override the preset.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "width":
			cfg.Canvas.Width = *width
		case "height":
			cfg.Canvas.Height = *height
		case "stride-pad":
			cfg.Canvas.StridePad = *stridePad
		case "phase":
			cfg.Frame.Phase = *phase
		case "progress":
			p := float32(*progress)
			cfg.Frame.Progress = &p
		case "colors":
			cfg.Frame.Colors = []string{*colors}
		case "frames":
			cfg.Animation.Frames = *frames
		case "fps":
			cfg.Animation.FPS = *fps
		case "mode":
			cfg.Animation.Mode = *mode
		case "fast":
			cfg.Animation.Fast = *fast
		case "out":
			cfg.Output.Path = *out
		case "format":
			cfg.Output.Format = *format
		case "scale":
			cfg.Output.Scale = *scale
		}
	})

	r, err := config.Resolve(cfg)
	if err != nil {
		return err
	}

	start := time.Now()
	if r.Frames > 0 {
		err = writeLoop(r)
	} else {
		err = writeStill(r)
	}
	if err != nil {
		return err
	}

	logger.Info("wrote",
		"path", r.Path,
		"format", r.Format,
		"size", fmt.Sprintf("%dx%d", r.Width*r.Scale, r.Height*r.Scale),
		"frames", max(r.Frames, 1),
		"elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}

func writeStill(r *config.Resolved) error {
	bm, err := motionbg.NewBitmapWithStride(r.Width, r.Height, r.Stride)
	if err != nil {
		return err
	}
	renderer := motionbg.NewRenderer()
	f := motionbg.Frame{Phase: r.Phase, Progress: r.Progress, Colors: r.Colors}
	if err := renderer.Render(bm, true, f); err != nil {
		return err
	}

	if r.Format == "gif" {
		img, err := outputImage(bm, r.Scale)
		if err != nil {
			return err
		}
		return createFile(r.Path, func(w io.Writer) error {
			return gif.Encode(w, img, nil)
		})
	}

	if r.Scale == 1 {
		return createFile(r.Path, func(w io.Writer) error {
			return bm.Encode(w, r.Format)
		})
	}
	scaled, err := upscale(bm, r.Scale)
	if err != nil {
		return err
	}
	return createFile(r.Path, func(w io.Writer) error {
		return scaled.Encode(w, imagebuf.FileFormat(r.Format))
	})
}

func writeLoop(r *config.Resolved) error {
	bm, err := motionbg.NewBitmapWithStride(r.Width, r.Height, r.Stride)
	if err != nil {
		return err
	}

	// Switch mode revisits every phase once per lap.
	gen := motionbg.NewFrameGenerator(0, motionbg.WithSetCache(motionbg.PhaseCount))
	defer gen.Close()

	anim, err := motionbg.NewAnimator(bm,
		motionbg.WithFrameGenerator(gen),
		motionbg.WithPhase(r.Phase),
		motionbg.WithColors(r.Colors))
	if err != nil {
		return err
	}
	defer anim.Close()

	frameTime := time.Second / time.Duration(r.FPS)
	if r.Mode == config.ModeLoop {
		// One lap over all phases in exactly Frames frames.
		lap := frameTime * time.Duration(r.Frames)
		anim.SetIndeterminate(true, float32(motionbg.IndeterminateLoop)/float32(lap))
	}

	// Update treats long deltas as a single display frame, so one output
	// frame is advanced in display-sized steps.
	steps := int(math.Ceil(float64(frameTime) / float64(16*time.Millisecond)))
	step := frameTime / time.Duration(steps)

	out := &gif.GIF{LoopCount: 0}
	delay := int(math.Round(100 / float64(r.FPS)))
	for range r.Frames {
		if r.Mode == config.ModeSwitch && anim.Idle() {
			anim.SwitchToNext(r.Fast)
		}
		for range steps {
			if _, err := anim.Update(step); err != nil {
				return err
			}
		}
		img, err := outputImage(bm, r.Scale)
		if err != nil {
			return err
		}
		out.Image = append(out.Image, img)
		out.Delay = append(out.Delay, delay)
	}

	return createFile(r.Path, func(w io.Writer) error {
		return gif.EncodeAll(w, out)
	})
}

// outputImage converts the bitmap to a dithered, optionally upscaled
// paletted image for GIF output.
func outputImage(bm *motionbg.Bitmap, scale int) (*image.Paletted, error) {
	var src image.Image = bm.ToImage()
	if scale > 1 {
		scaled, err := upscale(bm, scale)
		if err != nil {
			return nil, err
		}
		src = scaled.ToStdImage()
	}
	dst := image.NewPaletted(src.Bounds(), palette.Plan9)
	draw.FloydSteinberg.Draw(dst, dst.Rect, src, image.Point{})
	return dst, nil
}

// upscale resamples the bitmap by an integer factor into an RGBA buffer.
func upscale(bm *motionbg.Bitmap, scale int) (*imagebuf.ImageBuf, error) {
	src, err := imagebuf.FromRaw(bm.Pix(), bm.Width(), bm.Height(), imagebuf.FormatBGRA8, bm.Stride())
	if err != nil {
		return nil, err
	}
	dst, err := imagebuf.NewImageBuf(bm.Width()*scale, bm.Height()*scale, imagebuf.FormatRGBA8)
	if err != nil {
		return nil, err
	}
	imagebuf.Scale(dst, src)
	return dst, nil
}

func createFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
