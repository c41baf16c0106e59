package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/echoflaresat/spheretrace/colors"
	"github.com/echoflaresat/spheretrace/texture"
	"github.com/echoflaresat/spheretrace/vectors"
)

var ErrUnknownMaterial = errors.New("unknown material")

type Point3 [3]float64

func (p Point3) Vec() vectors.Vec3 { return vectors.New(p[0], p[1], p[2]) }

type MaterialCfg struct {
	Color            [3]float64 `json:"color"`
	Albedo           [4]float64 `json:"albedo"`
	SpecularExponent float64    `json:"specularExponent"`
	// Zero means 1.0 (no refraction).
	RefractiveIndex float64 `json:"refractiveIndex,omitempty"`
}

type SphereCfg struct {
	Center   Point3  `json:"center"`
	Radius   float64 `json:"radius"`
	Material string  `json:"material"`
}

type LightCfg struct {
	Position  Point3  `json:"position"`
	Intensity float64 `json:"intensity"`
}

// Config is the on-disk form of a Scene. Spheres name their material either
// from Materials or from the built-in presets; Materials wins on conflict.
type Config struct {
	Background *[3]float64 `json:"background,omitempty"`
	// Environment is an image path, resolved relative to the config file.
	Environment string                 `json:"environment,omitempty"`
	Materials   map[string]MaterialCfg `json:"materials,omitempty"`
	Spheres     []SphereCfg            `json:"spheres"`
	Lights      []LightCfg             `json:"lights"`
}

func (mc MaterialCfg) Build() (Material, error) {
	m := Material{
		Color:            colors.New(mc.Color[0], mc.Color[1], mc.Color[2]),
		Albedo:           vectors.New4(mc.Albedo[0], mc.Albedo[1], mc.Albedo[2], mc.Albedo[3]),
		SpecularExponent: mc.SpecularExponent,
		RefractiveIndex:  mc.RefractiveIndex,
	}
	if m.RefractiveIndex == 0 {
		m.RefractiveIndex = 1.0
	}
	if m.RefractiveIndex < 1.0 {
		return Material{}, fmt.Errorf("refractive index must be >= 1, got %v", m.RefractiveIndex)
	}
	if m.SpecularExponent <= 0 {
		return Material{}, fmt.Errorf("specular exponent must be > 0, got %v", m.SpecularExponent)
	}
	return m, nil
}

func materialCfgOf(m Material) MaterialCfg {
	return MaterialCfg{
		Color:            [3]float64{m.Color.R, m.Color.G, m.Color.B},
		Albedo:           [4]float64{m.Albedo.X, m.Albedo.Y, m.Albedo.Z, m.Albedo.W},
		SpecularExponent: m.SpecularExponent,
		RefractiveIndex:  m.RefractiveIndex,
	}
}

// Build validates the config and assembles a Scene. Environment paths are
// resolved against baseDir.
func (c Config) Build(baseDir string) (*Scene, error) {
	materials := Presets()
	for name, mc := range c.Materials {
		m, err := mc.Build()
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", name, err)
		}
		materials[name] = m
	}

	if len(c.Spheres) == 0 {
		return nil, fmt.Errorf("config has no spheres")
	}
	if len(c.Lights) == 0 {
		return nil, fmt.Errorf("config has no lights")
	}

	sc := &Scene{Background: DefaultBackground}
	if c.Background != nil {
		b := *c.Background
		sc.Background = colors.New(b[0], b[1], b[2])
	}

	for i, s := range c.Spheres {
		m, ok := materials[s.Material]
		if !ok {
			return nil, fmt.Errorf("sphere %d: %w %q", i, ErrUnknownMaterial, s.Material)
		}
		if s.Radius <= 0 {
			return nil, fmt.Errorf("sphere %d: radius must be > 0, got %v", i, s.Radius)
		}
		sc.Objects = append(sc.Objects, NewSphere(s.Center.Vec(), s.Radius, m))
	}

	for i, l := range c.Lights {
		if l.Intensity <= 0 {
			return nil, fmt.Errorf("light %d: intensity must be > 0, got %v", i, l.Intensity)
		}
		sc.Lights = append(sc.Lights, Light{Position: l.Position.Vec(), Intensity: l.Intensity})
	}

	if c.Environment != "" {
		path := c.Environment
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		env, err := texture.Load(path)
		if err != nil {
			return nil, fmt.Errorf("environment %q: %w", path, err)
		}
		sc.Environment = env
	}

	return sc, nil
}

// Decode reads a JSON scene config.
func Decode(r io.Reader) (Config, error) {
	var cfg Config
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode scene: %w", err)
	}
	return cfg, nil
}

// Encode writes cfg as indented JSON.
func Encode(w io.Writer, cfg Config) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(cfg)
}

// Load reads and builds the scene stored at path.
func Load(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	sc, err := cfg.Build(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	slog.Debug("scene loaded", "path", path, "objects", len(sc.Objects), "lights", len(sc.Lights))
	return sc, nil
}

// DefaultConfig describes the same scene as Default, with every material
// spelled out so the file is self-contained.
func DefaultConfig() Config {
	bg := [3]float64{DefaultBackground.R, DefaultBackground.G, DefaultBackground.B}
	cfg := Config{
		Background: &bg,
		Materials:  map[string]MaterialCfg{},
	}

	for name, m := range Presets() {
		cfg.Materials[name] = materialCfgOf(m)
	}

	cfg.Spheres = []SphereCfg{
		{Center: Point3{-3, 0, -16}, Radius: 2, Material: "ivory"},
		{Center: Point3{-1.0, -1.5, -12}, Radius: 2, Material: "glass"},
		{Center: Point3{1.5, -0.5, -18}, Radius: 3, Material: "red_rubber"},
		{Center: Point3{7, 5, -18}, Radius: 4, Material: "mirror"},
	}
	for _, l := range Default().Lights {
		cfg.Lights = append(cfg.Lights, LightCfg{
			Position:  Point3{l.Position.X, l.Position.Y, l.Position.Z},
			Intensity: l.Intensity,
		})
	}
	return cfg
}
