package render

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/echoflaresat/spheretrace/colors"
	"github.com/echoflaresat/spheretrace/scene"
	"github.com/echoflaresat/spheretrace/vectors"
	"golang.org/x/sync/errgroup"
)

type Options struct {
	Width  int
	Height int
	// FOV is the horizontal half-angle in radians.
	FOV        float64
	MaxBounces int
	// Workers bounds the number of rows rendered concurrently. Zero or
	// less means runtime.GOMAXPROCS(0).
	Workers int
}

func DefaultOptions() Options {
	return Options{
		Width:      1024,
		Height:     768,
		FOV:        math.Pi / 4,
		MaxBounces: DefaultMaxBounces,
		Workers:    runtime.GOMAXPROCS(0),
	}
}

func (o Options) validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("invalid image size %dx%d", o.Width, o.Height)
	}
	if !(o.FOV > 0 && o.FOV < math.Pi/2) {
		return fmt.Errorf("field of view half-angle must be in (0, pi/2), got %v", o.FOV)
	}
	if o.MaxBounces < 0 {
		return fmt.Errorf("max bounces must be >= 0, got %d", o.MaxBounces)
	}
	return nil
}

// Sink receives a finished frame as row-major pixels.
type Sink interface {
	WritePixels(pixels []colors.RGB, width, height int) error
}

// Render traces one primary ray through the center of every pixel. Rows are
// shared out across workers; each pixel is written exactly once, so the
// result does not depend on scheduling. Render stops early with ctx.Err()
// when ctx is cancelled.
func Render(ctx context.Context, sc *scene.Scene, opts Options) (*Frame, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	camera := NewCamera(opts.FOV)
	caster := NewCaster(sc, opts.MaxBounces)
	frame := NewFrame(opts.Width, opts.Height)
	progress := newProgress(opts.Height)

	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for y := 0; y < opts.Height; y++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for x := 0; x < opts.Width; x++ {
				dir := camera.ComputeRay(float64(x)+0.5, float64(y)+0.5, opts.Width, opts.Height)
				frame.Set(x, y, caster.CastRay(vectors.Zero(), dir, 0))
			}
			progress.rowDone()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slog.Info("render complete",
		"width", opts.Width,
		"height", opts.Height,
		"workers", workers,
		"elapsed", time.Since(start).Round(time.Millisecond))
	return frame, nil
}

// RenderTo renders and hands the frame to sink.
func RenderTo(ctx context.Context, sc *scene.Scene, opts Options, sink Sink) error {
	frame, err := Render(ctx, sc, opts)
	if err != nil {
		return err
	}
	if err := sink.WritePixels(frame.Pix, frame.Width, frame.Height); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// progress logs every tenth of the rows.
type progress struct {
	rows int64
	done atomic.Int64
}

func newProgress(rows int) *progress {
	return &progress{rows: int64(rows)}
}

func (p *progress) rowDone() {
	n := p.done.Add(1)
	if n*10/p.rows != (n-1)*10/p.rows {
		slog.Info("render progress", "percent", n*100/p.rows)
	}
}
