package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/echoflaresat/spheretrace/colors"
	"github.com/echoflaresat/spheretrace/imageio"
	"github.com/echoflaresat/spheretrace/render"
	"github.com/echoflaresat/spheretrace/scene"
)

var update = flag.Bool("update", false, "write missing golden images under testdata/")

func TestScenes(t *testing.T) {
	jsonScene := filepath.Join(t.TempDir(), "default.json")
	f, err := os.Create(jsonScene)
	if err != nil {
		t.Fatal(err)
	}
	if err := scene.Encode(f, scene.DefaultConfig()); err != nil {
		t.Fatalf("failed to write scene: %v", err)
	}
	f.Close()

	cases := []struct {
		name      string
		scenePath string
		golden    string
	}{
		{"built-in", "", "default_64x48.png"},
		{"json round trip", jsonScene, "default_64x48.png"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			runGoldenImageTest(
				t,
				filepath.Join("testdata", c.golden),
				func() (*render.Frame, error) {
					sc, err := loadScene(c.scenePath, "")
					if err != nil {
						return nil, err
					}

					opts := render.DefaultOptions()
					opts.Width = 64
					opts.Height = 48
					opts.Workers = runtime.GOMAXPROCS(0)

					frame, err := render.Render(context.Background(), sc, opts)
					if err != nil {
						return nil, err
					}
					return frame, nil
				},
			)
		})
	}
}

func TestLoadSceneErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := loadScene(filepath.Join(dir, "missing.json"), ""); err == nil {
		t.Error("expected an error for a missing scene file")
	}
	if _, err := loadScene("", filepath.Join(dir, "missing.png")); err == nil {
		t.Error("expected an error for a missing environment map")
	}
}

func TestHalfAngle(t *testing.T) {
	if got := halfAngle(90); math.Abs(got-math.Pi/4) > 1e-12 {
		t.Errorf("halfAngle(90) = %v, want pi/4", got)
	}
	if got := halfAngle(0); got != 0 {
		t.Errorf("halfAngle(0) = %v, want 0", got)
	}
}

// runGoldenImageTest renders a frame using renderFunc and compares it against the golden image at expectedPath.
// A missing golden image is written when -update is set; otherwise the test fails.
func runGoldenImageTest(t *testing.T, expectedPath string, renderFunc func() (*render.Frame, error)) {
	t.Helper()

	// Render new image
	frame, err := renderFunc()
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	// If baseline doesn't exist, create it when asked to
	if _, err := os.Stat(expectedPath); os.IsNotExist(err) {
		if !*update {
			t.Fatalf("baseline image %s does not exist; rerun with -update to create it", expectedPath)
		}
		if err := (imageio.File{Path: expectedPath}).WritePixels(frame.Pix, frame.Width, frame.Height); err != nil {
			t.Fatalf("failed to write baseline image: %v", err)
		}
		t.Logf("baseline image %s did not exist, created one", expectedPath)
		return
	}

	// Load expected image
	expectedFile, err := os.Open(expectedPath)
	if err != nil {
		t.Fatalf("failed to open expected image: %v", err)
	}
	defer expectedFile.Close()

	expectedImg, err := png.Decode(expectedFile)
	if err != nil {
		t.Fatalf("failed to decode expected image: %v", err)
	}

	// Compare
	if diff := imagesDiffer(expectedImg, frame); diff != "" {
		t.Fatalf("image differs from baseline %s: %s", expectedPath, diff)
	}
}

// imagesDiffer allows one level per channel: fused multiply-add changes the
// last bits on some architectures.
func imagesDiffer(want image.Image, got *render.Frame) string {
	if want.Bounds().Size() != got.Bounds().Size() {
		return fmt.Sprintf("size %v, want %v", got.Bounds().Size(), want.Bounds().Size())
	}
	wb := want.Bounds()
	for y := 0; y < got.Height; y++ {
		for x := 0; x < got.Width; x++ {
			w := colors.FromStandardColor(want.At(wb.Min.X+x, wb.Min.Y+y)).Bytes()
			g := got.RGBAt(x, y).Bytes()
			for ch := range g {
				if d := int(g[ch]) - int(w[ch]); d > 1 || d < -1 {
					return fmt.Sprintf("pixel (%d,%d) is %v, want %v", x, y, g, w)
				}
			}
		}
	}
	return ""
}
