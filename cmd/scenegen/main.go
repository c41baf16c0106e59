package main

import (
	"fmt"
	"log"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/echoflaresat/spheretrace/scene"
)

func main() {
	if len(os.Args) < 2 || len(os.Args) > 3 {
		fmt.Fprintf(os.Stderr, "Usage: %s [<cols>x<rows>] <output.json>\n", os.Args[0])
		os.Exit(1)
	}

	cfg := scene.DefaultConfig()
	output := os.Args[len(os.Args)-1]
	if len(os.Args) == 3 {
		cols, rows, err := parseLayout(os.Args[1])
		if err != nil {
			log.Fatalf("Invalid layout: %v", err)
		}
		cfg = gridConfig(cols, rows)
	}

	// Refuse to write something the renderer would reject.
	if _, err := cfg.Build("."); err != nil {
		log.Fatalf("Generated scene is invalid: %v", err)
	}
	if err := save(output, cfg); err != nil {
		log.Fatal(err)
	}
}

func parseLayout(s string) (cols, rows int, err error) {
	parts := strings.Split(s, "x")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%q (expected NxM)", s)
	}
	if cols, err = strconv.Atoi(parts[0]); err != nil {
		return 0, 0, fmt.Errorf("cols: %w", err)
	}
	if rows, err = strconv.Atoi(parts[1]); err != nil {
		return 0, 0, fmt.Errorf("rows: %w", err)
	}
	if cols <= 0 || rows <= 0 {
		return 0, 0, fmt.Errorf("%q must have positive dimensions", s)
	}
	return cols, rows, nil
}

// gridConfig lays out cols x rows unit spheres on the plane z = -20,
// centered on the view axis, cycling through the preset materials in name
// order. Lights and background match the built-in scene.
func gridConfig(cols, rows int) scene.Config {
	cfg := scene.DefaultConfig()
	names := slices.Sorted(maps.Keys(cfg.Materials))

	const spacing = 2.5
	cfg.Spheres = nil
	for idx := 0; idx < cols*rows; idx++ {
		col := idx % cols
		row := idx / cols
		x := (float64(col) - float64(cols-1)/2) * spacing
		y := (float64(rows-1)/2 - float64(row)) * spacing
		cfg.Spheres = append(cfg.Spheres, scene.SphereCfg{
			Center:   scene.Point3{x, y, -20},
			Radius:   1,
			Material: names[idx%len(names)],
		})
	}
	return cfg
}

func save(output string, cfg scene.Config) error {
	fmt.Printf("-> creating %s\n", output)
	outFile, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("could not create %s: %w", output, err)
	}

	if err := scene.Encode(outFile, cfg); err != nil {
		outFile.Close()
		return fmt.Errorf("failed to encode scene: %w", err)
	}
	if err := outFile.Close(); err != nil {
		return fmt.Errorf("could not close %s: %w", output, err)
	}
	return nil
}
