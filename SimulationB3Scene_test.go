package box3d_test

import (
	"errors"
	"testing"

	"github.com/ByteArena/box3d"
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/multierr"
)

const testScene = `
bodies:
  - name: ground
    shape: box
    mass: 0
    dimensions: [20, 1, 20]
    position: [0, -0.5, 0]
  - name: ball
    shape: sphere
    mass: 1
    radius: 0.5
    segments: 16
    position: [0, 3, 0]
  - name: cone
    shape: cylinder
    mass: 2
    top_radius: 0
    bottom_radius: 0.5
    height: 1
    segments: 12
    position: [2, 3, 0]
    rotation: [0, 45, 0]
  - name: rock
    shape: hull
    mass: 1
    vertices: [[0, 0, 0], [1, 0, 0], [0, 1, 0], [0, 0, 1]]
    position: [-2, 3, 0]
  - name: ramp
    shape: mesh
    vertices: [[0, 0, 0], [1, 0, 0], [0, 1, 0]]
    indices: [0, 1, 2]
    margin: 0.02
    position: [5, 0, 0]
  - name: hills
    shape: terrain
    heights:
      - [0, 1, 0]
      - [1, 2, 1]
      - [0, 1, 0]
    min_height: 0
    max_height: 2
    up_axis: 1
    position: [-10, 0, 0]
  - name: line
    shape: rope
    from: [-1, 6, 0]
    to: [1, 6, 0]
    resolution: [4]
    fixed: [from]
    mass: 1
  - name: cloth
    shape: patch
    corners: [[-1, 8, -1], [1, 8, -1], [-1, 8, 1], [1, 8, 1]]
    resolution: [5, 5]
    fixed: ["00", "10"]
    mass: 2
`

func TestSceneSpawn(t *testing.T) {
	scene, err := box3d.LoadB3Scene(writeTemp(t, "scene.yaml", testScene))
	if err != nil {
		t.Fatalf("LoadB3Scene: %v", err)
	}

	ctx := newTestContext(t)
	objects, err := scene.Spawn(ctx)
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	if len(objects) != 8 || ctx.Len() != 8 {
		t.Fatalf("spawned %d objects, registry holds %d", len(objects), ctx.Len())
	}

	wantShapes := []uint8{
		box3d.B3Shape_Type.E_box,
		box3d.B3Shape_Type.E_sphere,
		box3d.B3Shape_Type.E_convexHull,
		box3d.B3Shape_Type.E_convexHull,
		box3d.B3Shape_Type.E_triangleMesh,
		box3d.B3Shape_Type.E_heightfield,
	}
	for i, want := range wantShapes {
		object := ctx.At(i)
		if object.GetName() != scene.Bodies[i].Name {
			t.Fatalf("position %d is %q, want file order", i, object.GetName())
		}
		if got := object.GetBody().GetShape().GetType(); got != want {
			t.Fatalf("%s: shape type %d, want %d", object.GetName(), got, want)
		}
	}

	if !ctx.At(0).GetBody().IsStaticObject() || ctx.At(1).GetBody().IsStaticObject() {
		t.Fatalf("mass 0 must give a static body and mass 1 a dynamic one")
	}

	rope := ctx.At(6).GetSoftBody()
	if rope == nil || rope.GetNumNodes() != 6 || rope.GetMass(0) != 0 {
		t.Fatalf("rope: want 6 nodes with the first pinned")
	}
	cloth := ctx.At(7).GetSoftBody()
	if cloth == nil || cloth.GetNumNodes() != 25 || cloth.GetTotalMass() < 1.999 || cloth.GetTotalMass() > 2.001 {
		t.Fatalf("cloth: want 25 nodes with a total mass of 2")
	}

	cone := ctx.At(2).GetBody().GetWorldTransform().Q
	if !cone.ApproxEqualThreshold(mgl64.QuatRotate(mgl64.DegToRad(45), mgl64.Vec3{0, 1, 0}), 1e-9) {
		t.Fatalf("rotation not applied: %v", cone)
	}

	ctx.Update()
	if err := ctx.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestSceneValidation(t *testing.T) {
	scene, err := box3d.ParseB3Scene([]byte(`
bodies:
  - name: blob
    shape: jelly
  - name: flat
    shape: box
    dimensions: [1, 1]
    position: [0, 0]
  - name: thin
    shape: cylinder
    segments: 2
    top_radius: 1
    bottom_radius: 1
  - name: knot
    shape: rope
    from: [0, 0, 0]
    to: [1, 0, 0]
    fixed: [middle]
`))
	if err != nil {
		t.Fatalf("ParseB3Scene: %v", err)
	}

	ctx := newTestContext(t)
	objects, err := scene.Spawn(ctx)
	if err == nil || objects != nil {
		t.Fatalf("an invalid scene must not spawn")
	}
	if ctx.Len() != 0 {
		t.Fatalf("nothing may be spawned when validation fails, got %d objects", ctx.Len())
	}

	if n := len(multierr.Errors(err)); n != 4 {
		t.Fatalf("expected one error per bad body, got %d: %v", n, err)
	}
	if !errors.Is(err, box3d.ErrB3UnknownShape) {
		t.Fatalf("expected ErrB3UnknownShape in %v", err)
	}
	if !errors.Is(err, box3d.ErrB3InvalidBody) {
		t.Fatalf("expected ErrB3InvalidBody in %v", err)
	}
}

func TestSceneRejectsNegativeExtents(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"box dimensions", `
  - name: inverted
    shape: box
    mass: 1
    dimensions: [-1, 1, 1]`},
		{"hull scale", `
  - name: mirrored
    shape: hull
    vertices: [[0, 0, 0], [1, 0, 0], [0, 1, 0]]
    scale: [1, -1, 1]`},
		{"terrain scale", `
  - name: sunken
    shape: terrain
    heights: [[0, 0], [0, 0]]
    scale: [1, 1, -2]`},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			scene, err := box3d.ParseB3Scene([]byte(`
bodies:
  - name: ball
    shape: sphere
    mass: 1
    radius: 0.5` + c.body + "\n"))
			if err != nil {
				t.Fatalf("ParseB3Scene: %v", err)
			}

			ctx := newTestContext(t)
			objects, err := scene.Spawn(ctx)
			if !errors.Is(err, box3d.ErrB3InvalidBody) {
				t.Fatalf("expected ErrB3InvalidBody, got %v", err)
			}
			if objects != nil || ctx.Len() != 0 {
				t.Fatalf("the valid body before the bad one must not be spawned, registry holds %d", ctx.Len())
			}
		})
	}
}

func TestParseSceneRejectsMalformedYAML(t *testing.T) {
	if _, err := box3d.ParseB3Scene([]byte("bodies: [")); err == nil {
		t.Fatalf("malformed YAML must fail")
	}
}
