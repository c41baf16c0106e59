package scene

import (
	"math"
	"testing"

	"github.com/echoflaresat/spheretrace/colors"
	"github.com/echoflaresat/spheretrace/vectors"
)

func TestIntersectNearest(t *testing.T) {
	sc := &Scene{
		Objects: []Object{
			NewSphere(vectors.New(0, 0, -20), 2, RedRubber),
			NewSphere(vectors.New(0, 0, -10), 1, Ivory),
		},
	}

	info := sc.Intersect(vectors.Zero(), vectors.New(0, 0, -1))
	if !info.Hit {
		t.Fatal("expected a hit")
	}
	if info.Material != Ivory {
		t.Errorf("material = %+v, want the nearer ivory sphere", info.Material)
	}
	if !almostEqual(info.Distance, 9) {
		t.Errorf("distance = %v, want 9", info.Distance)
	}
	if !vec3Equal(info.Point, vectors.New(0, 0, -9)) {
		t.Errorf("point = %v, want (0,0,-9)", info.Point)
	}
	if !vec3Equal(info.Normal, vectors.New(0, 0, 1)) {
		t.Errorf("normal = %v, want (0,0,1)", info.Normal)
	}
}

func TestIntersectTieGoesToFirstObject(t *testing.T) {
	center := vectors.New(0, 0, -10)
	sc := &Scene{
		Objects: []Object{
			NewSphere(center, 2, Mirror),
			NewSphere(center, 2, Glass),
		},
	}

	info := sc.Intersect(vectors.Zero(), vectors.New(0, 0, -1))
	if !info.Hit || info.Material != Mirror {
		t.Errorf("got %+v, want the first (mirror) sphere", info)
	}

	sc.Objects[0], sc.Objects[1] = sc.Objects[1], sc.Objects[0]
	info = sc.Intersect(vectors.Zero(), vectors.New(0, 0, -1))
	if !info.Hit || info.Material != Glass {
		t.Errorf("after swap got %+v, want the glass sphere", info)
	}
}

func TestIntersectNormalIsUnitAndOutward(t *testing.T) {
	sc := Default()
	for _, dir := range []vectors.Vec3{
		vectors.New(-3, 0, -16).Normalize(),
		vectors.New(-0.1, -0.1, -1).Normalize(),
		vectors.New(0.35, 0.25, -1).Normalize(),
	} {
		info := sc.Intersect(vectors.Zero(), dir)
		if !info.Hit {
			t.Errorf("dir %v: expected a hit", dir)
			continue
		}
		if !almostEqual(info.Normal.Norm(), 1) {
			t.Errorf("dir %v: |normal| = %v", dir, info.Normal.Norm())
		}
		if info.Normal.Dot(dir) >= 0 {
			t.Errorf("dir %v: normal %v faces away from the camera", dir, info.Normal)
		}
	}
}

func TestIntersectMiss(t *testing.T) {
	sc := Default()
	info := sc.Intersect(vectors.Zero(), vectors.New(0, 1, 0))
	if info.Hit {
		t.Errorf("expected a miss, got %+v", info)
	}
	if !math.IsInf(info.Distance, 1) {
		t.Errorf("distance = %v, want +Inf", info.Distance)
	}

	empty := &Scene{}
	if empty.Intersect(vectors.Zero(), vectors.New(0, 0, -1)).Hit {
		t.Error("empty scene reported a hit")
	}
}

type constEnv colors.RGB

func (c constEnv) Sample(vectors.Vec3) colors.RGB { return colors.RGB(c) }

func TestBackgroundAt(t *testing.T) {
	sc := &Scene{Background: colors.New(0.2, 0.7, 0.8)}
	if got := sc.BackgroundAt(vectors.New(0, 1, 0)); got != colors.New(0.2, 0.7, 0.8) {
		t.Errorf("BackgroundAt = %v, want the fixed background", got)
	}

	sc.Environment = constEnv(colors.New(1, 0, 1))
	if got := sc.BackgroundAt(vectors.New(0, 1, 0)); got != colors.New(1, 0, 1) {
		t.Errorf("BackgroundAt with environment = %v", got)
	}
}
