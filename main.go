package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"runtime"

	"github.com/echoflaresat/spheretrace/imageio"
	"github.com/echoflaresat/spheretrace/render"
	"github.com/echoflaresat/spheretrace/scene"
	"github.com/echoflaresat/spheretrace/texture"
)

type config struct {
	scenePath, env *string
	width, height  *int
	fov            *float64
	bounces        *int
	workers        *int
	out            *string
	verbose        *bool
	showHelp       *bool
}

func defineFlags() config {
	return config{
		scenePath: flag.String("scene", "", "Scene JSON file; empty renders the built-in scene"),
		env:       flag.String("env", "", "Equirectangular environment map, overrides the scene's"),

		width:   flag.Int("width", 1024, "Output image width in pixels"),
		height:  flag.Int("height", 768, "Output image height in pixels"),
		fov:     flag.Float64("fov", 90, "Horizontal field of view in degrees"),
		bounces: flag.Int("bounces", render.DefaultMaxBounces, "Maximum reflection/refraction depth"),
		workers: flag.Int("workers", runtime.GOMAXPROCS(0), "Rows rendered in parallel"),

		out: flag.String("out", "out.ppm", "Output file (.ppm, .png, .jpg, .tif, .bmp)"),

		verbose:  flag.Bool("v", false, "Verbose logging"),
		showHelp: flag.Bool("h", false, "Show this help message"),
	}
}

func printHelp() {
	fmt.Fprintf(os.Stderr, `Sphere Tracer - Whitted-style ray tracer

Usage:
  %[1]s [options]

`, os.Args[0])

	printGroup("Scene", []string{"scene", "env"})
	printGroup("Rendering Options", []string{"width", "height", "fov", "bounces", "workers"})
	printGroup("Output", []string{"out"})
	printGroup("Misc", []string{"v", "h"})
}

func printGroup(title string, keys []string) {
	fmt.Fprintf(os.Stderr, "%s:\n", title)
	for _, name := range keys {
		if f := flag.Lookup(name); f != nil {
			fmt.Fprintf(os.Stderr, "  -%-8s %s (default %q)\n", f.Name, f.Usage, f.DefValue)
		}
	}
	fmt.Fprintln(os.Stderr)
}

func main() {

	cfg := defineFlags()
	flag.Usage = printHelp
	flag.Parse()

	if *cfg.showHelp {
		printHelp()
		return
	}

	level := slog.LevelInfo
	if *cfg.verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	sc, err := loadScene(*cfg.scenePath, *cfg.env)
	if err != nil {
		log.Fatalf("Failed to load scene: %v", err)
	}
	if c, ok := sc.Environment.(io.Closer); ok {
		defer c.Close()
	}

	opts := render.Options{
		Width:      *cfg.width,
		Height:     *cfg.height,
		FOV:        halfAngle(*cfg.fov),
		MaxBounces: *cfg.bounces,
		Workers:    *cfg.workers,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	slog.Info("rendering", "out", *cfg.out, "width", opts.Width, "height", opts.Height)
	if err := render.RenderTo(ctx, sc, opts, imageio.File{Path: *cfg.out}); err != nil {
		log.Fatalf("Render failed: %v", err)
	}
}

// loadScene returns the built-in scene when path is empty. A non-empty env
// replaces the scene's background with an environment map.
func loadScene(path, env string) (*scene.Scene, error) {
	sc := scene.Default()
	if path != "" {
		var err error
		if sc, err = scene.Load(path); err != nil {
			return nil, err
		}
	}

	if env != "" {
		tex, err := texture.Load(env)
		if err != nil {
			return nil, fmt.Errorf("environment map: %w", err)
		}
		if c, ok := sc.Environment.(io.Closer); ok {
			c.Close()
		}
		sc.Environment = tex
	}
	return sc, nil
}

// halfAngle converts a full field of view in degrees to the half-angle in
// radians.
func halfAngle(fovDeg float64) float64 {
	return fovDeg / 2 * math.Pi / 180
}
