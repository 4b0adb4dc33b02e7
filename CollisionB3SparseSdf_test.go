package box3d_test

import (
	"math"
	"testing"

	"github.com/ByteArena/box3d"
	"github.com/go-gl/mathgl/mgl64"
)

func TestSparseSdf(t *testing.T) {
	box := box3d.NewB3BoxShape(mgl64.Vec3{1, 1, 1})

	var sdf box3d.B3SparseSdf
	expectPanic(t, "evaluate before initialize", func() {
		sdf.Evaluate(mgl64.Vec3{}, box, 0)
	})

	sdf.Initialize(2383, 64)
	if !sdf.IsInitialized() {
		t.Fatalf("Initialize must mark the cache ready")
	}

	if d, _ := sdf.Evaluate(mgl64.Vec3{0, 0, 0}, box, 0); d >= 0 {
		t.Fatalf("the centre must be inside, distance %v", d)
	}

	d, normal := sdf.Evaluate(mgl64.Vec3{3, 0, 0}, box, 0)
	if math.Abs(d-2) > 1e-9 {
		t.Fatalf("distance on a cell corner = %v, want 2", d)
	}
	if !normal.ApproxEqualThreshold(mgl64.Vec3{1, 0, 0}, 1e-6) {
		t.Fatalf("normal = %v, want +x", normal)
	}

	withMargin, _ := sdf.Evaluate(mgl64.Vec3{3, 0, 0}, box, 0.5)
	if math.Abs(withMargin-1.5) > 1e-9 {
		t.Fatalf("margin must be subtracted, got %v", withMargin)
	}

	if sdf.GetCellCount() == 0 {
		t.Fatalf("evaluation must cache cells")
	}
	sdf.GarbageCollect(-1)
	if sdf.GetCellCount() == 0 {
		t.Fatalf("a negative lifetime keeps every cell")
	}
	sdf.GarbageCollect(0)
	if sdf.GetCellCount() != 0 {
		t.Fatalf("cells not touched since the last collection must go, %d left", sdf.GetCellCount())
	}

	sdf.Evaluate(mgl64.Vec3{0.1, 0.1, 0.1}, box, 0)
	sdf.RemoveReferences(box)
	if sdf.GetCellCount() != 0 {
		t.Fatalf("RemoveReferences left %d cells", sdf.GetCellCount())
	}
}

func TestSparseSdfClamp(t *testing.T) {
	sphere := box3d.NewB3SphereShape(1)

	var sdf box3d.B3SparseSdf
	sdf.Initialize(16, 4)
	for i := 0; i < 20; i++ {
		sdf.Evaluate(mgl64.Vec3{float64(i), 0, 0}, sphere, 0)
		if sdf.GetCellCount() > 4 {
			t.Fatalf("cache grew past its clamp: %d cells", sdf.GetCellCount())
		}
	}
}
