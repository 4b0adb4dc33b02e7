package box3d_test

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"testing"

	"github.com/ByteArena/box3d"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pmezard/go-difflib/difflib"
)

func kindName(kind uint8) string {
	switch kind {
	case box3d.B3CollisionObjectType.E_rigidBody:
		return "rigid"
	case box3d.B3CollisionObjectType.E_softBody:
		return "soft"
	}
	return "unknown"
}

func registryListing(ctx *box3d.B3SimulationContext) string {
	var lines []string
	for it := ctx.Begin(); it != ctx.End(); it++ {
		object := ctx.At(it)
		lines = append(lines, fmt.Sprintf("%s %v\n", kindName(object.GetKind()), object.GetBody().GetUserData()))
	}
	sort.Strings(lines)
	return strings.Join(lines, "")
}

func worldListing(world *box3d.B3DynamicsWorld) string {
	var lines []string
	for _, body := range world.GetRigidBodies() {
		lines = append(lines, fmt.Sprintf("rigid %v\n", body.GetUserData()))
	}
	for _, body := range world.GetSoftBodies() {
		lines = append(lines, fmt.Sprintf("soft %v\n", body.GetUserData()))
	}
	sort.Strings(lines)
	return strings.Join(lines, "")
}

func assertSameMembership(t *testing.T, step string, ctx *box3d.B3SimulationContext) {
	t.Helper()

	expected := registryListing(ctx)
	output := worldListing(ctx.GetWorld())
	if output != expected {
		diff := difflib.UnifiedDiff{
			A:        difflib.SplitLines(expected),
			B:        difflib.SplitLines(output),
			FromFile: "Registry",
			ToFile:   "World",
			Context:  0,
		}
		text, _ := difflib.GetUnifiedDiffString(diff)
		t.Fatalf("%s: world membership does not match the registry:\n%s", step, text)
	}
	if got, want := ctx.GetWorld().GetNumCollisionObjects(), ctx.Len(); got != want {
		t.Fatalf("%s: world holds %d collision objects, registry %d", step, got, want)
	}
	if err := ctx.Validate(); err != nil {
		t.Fatalf("%s: %v", step, err)
	}
}

func TestRegistryCompliance(t *testing.T) {
	ctx := newTestContext(t)
	identity := mgl64.QuatIdent()

	named := func(name string, object *box3d.B3Object) *box3d.B3Object {
		object.SetName(name)
		object.GetBody().SetUserData(name)
		return object
	}

	named("00_ground", box3d.CreateB3RigidBox(ctx, mgl64.Vec3{20, 1, 20}, 0, mgl64.Vec3{0, -0.5, 0}, identity))
	assertSameMembership(t, "ground", ctx)

	named("01_box", box3d.CreateB3RigidBox(ctx, mgl64.Vec3{1, 1, 1}, 1, mgl64.Vec3{0, 3, 0}, identity))
	named("02_sphere", box3d.CreateB3RigidSphere(ctx, 0.5, 12, 1, mgl64.Vec3{2, 3, 0}, identity))
	named("03_rope", box3d.CreateB3SoftRope(ctx, mgl64.Vec3{-2, 4, 0}, mgl64.Vec3{2, 4, 0}, 6, box3d.B3RopeFixed.E_from, 1))
	named("04_cone", box3d.CreateB3RigidCylinder(ctx, 0, 0.5, 1, 8, 1, mgl64.Vec3{-2, 3, 0}, identity))
	named("05_patch", box3d.CreateB3SoftPatch(ctx, [4]mgl64.Vec3{
		{-1, 5, -1}, {1, 5, -1}, {-1, 5, 1}, {1, 5, 1},
	}, 4, 4, box3d.B3PatchFixed.E_corner00|box3d.B3PatchFixed.E_corner10, 1))
	assertSameMembership(t, "populated", ctx)

	ctx.Update()
	assertSameMembership(t, "first update", ctx)

	// Erase from the middle, the front and through a stale handle.
	sphere := ctx.At(2)
	if next := ctx.Erase(2); ctx.At(next).GetName() != "03_rope" {
		t.Fatalf("erase returned %d, which holds %q", next, ctx.At(next).GetName())
	}
	assertSameMembership(t, "erase sphere", ctx)

	ctx.Erase(ctx.Begin())
	assertSameMembership(t, "erase ground", ctx)

	if ctx.EraseObject(sphere) {
		t.Fatalf("erasing an object twice must report false")
	}

	ctx.Update()
	assertSameMembership(t, "second update", ctx)

	// Drain the registry one element at a time.
	for it := ctx.Begin(); it != ctx.End(); {
		it = ctx.Erase(it)
		assertSameMembership(t, fmt.Sprintf("drain %d left", ctx.Len()), ctx)
	}

	ctx.Update()
	if ctx.GetNumObjects() != 0 || ctx.GetWorld().GetNumCollisionObjects() != 0 {
		t.Fatalf("expected an empty world, got snapshot %d and %d objects", ctx.GetNumObjects(), ctx.GetWorld().GetNumCollisionObjects())
	}
}

func TestRegistryComplianceRandomized(t *testing.T) {
	ctx := newTestContext(t)
	r := rand.New(rand.NewSource(42))
	identity := mgl64.QuatIdent()

	spawners := []func(at mgl64.Vec3) *box3d.B3Object{
		func(at mgl64.Vec3) *box3d.B3Object {
			return box3d.CreateB3RigidBox(ctx, mgl64.Vec3{1, 1, 1}, float64(r.Intn(2)), at, identity)
		},
		func(at mgl64.Vec3) *box3d.B3Object {
			return box3d.CreateB3RigidSphere(ctx, 0.5, 8, 1, at, identity)
		},
		func(at mgl64.Vec3) *box3d.B3Object {
			return box3d.CreateB3SoftRope(ctx, at, at.Add(mgl64.Vec3{2, 0, 0}), 2, box3d.B3RopeFixed.E_from, 1)
		},
		func(at mgl64.Vec3) *box3d.B3Object {
			return box3d.CreateB3SoftPatch(ctx, [4]mgl64.Vec3{
				at, at.Add(mgl64.Vec3{1, 0, 0}), at.Add(mgl64.Vec3{0, 0, 1}), at.Add(mgl64.Vec3{1, 0, 1}),
			}, 3, 3, 0, 1)
		},
	}

	next := 0
	for op := 0; op < 600; op++ {
		var step string
		switch roll := r.Intn(10); {
		case roll < 5 || ctx.Len() == 0:
			at := mgl64.Vec3{r.Float64() * 40, r.Float64() * 10, r.Float64() * 40}
			object := spawners[r.Intn(len(spawners))](at)
			name := fmt.Sprintf("%03d", next)
			next++
			object.SetName(name)
			object.GetBody().SetUserData(name)
			step = fmt.Sprintf("op %d push %s %s", op, kindName(object.GetKind()), name)
		case roll < 8:
			pos := r.Intn(ctx.Len())
			name := ctx.At(pos).GetName()
			if got := ctx.Erase(pos); got != pos {
				t.Fatalf("op %d: erase at %d returned %d", op, pos, got)
			}
			step = fmt.Sprintf("op %d erase %s at %d", op, name, pos)
		default:
			ctx.Update()
			if ctx.GetNumObjects() != ctx.Len() {
				t.Fatalf("op %d: snapshot %d after update, registry %d", op, ctx.GetNumObjects(), ctx.Len())
			}
			step = fmt.Sprintf("op %d update", op)
		}
		assertSameMembership(t, step, ctx)
	}
}
