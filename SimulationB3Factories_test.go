package box3d_test

import (
	"testing"

	"github.com/ByteArena/box3d"
	"github.com/go-gl/mathgl/mgl64"
)

func TestRigidFactories(t *testing.T) {
	ctx := newTestContext(t)
	identity := mgl64.QuatIdent()

	box := box3d.CreateB3RigidBox(ctx, mgl64.Vec3{2, 4, 6}, 2, mgl64.Vec3{1, 2, 3}, identity)
	if shape := box.GetBody().GetShape().(*box3d.B3BoxShape); shape.GetHalfExtents() != (mgl64.Vec3{1, 2, 3}) {
		t.Fatalf("box half extents = %v", shape.GetHalfExtents())
	}
	if body := box.GetRigidBody(); body.GetMass() != 2 || body.GetCenterOfMassPosition() != (mgl64.Vec3{1, 2, 3}) {
		t.Fatalf("box mass %v at %v", body.GetMass(), body.GetCenterOfMassPosition())
	}
	if ctx.At(ctx.End()-1) != box {
		t.Fatalf("factories must return the element they just pushed")
	}

	cylinder := box3d.CreateB3RigidCylinder(ctx, 0.5, 0.5, 2, 16, 1, mgl64.Vec3{5, 0, 0}, identity)
	if shape, ok := cylinder.GetBody().GetShape().(*box3d.B3CylinderShape); !ok || shape.GetRadius() != 0.5 || shape.GetHalfHeight() != 1 {
		t.Fatalf("equal radii must give a cylinder of radius 0.5 and half height 1")
	}

	frustum := box3d.CreateB3RigidCylinder(ctx, 0.25, 0.5, 2, 6, 1, mgl64.Vec3{10, 0, 0}, identity)
	hull, ok := frustum.GetBody().GetShape().(*box3d.B3ConvexHullShape)
	if !ok || hull.GetNumPoints() != 12 {
		t.Fatalf("different radii must give a 6-sided frustum hull")
	}
	if d := hull.SignedDistance(mgl64.Vec3{0, 0, 0}); d >= 0 {
		t.Fatalf("the frustum centre must be inside, distance %v", d)
	}

	sphere := box3d.CreateB3RigidSphere(ctx, 0.75, 24, 1, mgl64.Vec3{15, 0, 0}, identity)
	if shape := sphere.GetBody().GetShape().(*box3d.B3SphereShape); shape.GetRadius() != 0.75 || shape.GetSegments() != 24 {
		t.Fatalf("sphere radius %v segments %d", shape.GetRadius(), shape.GetSegments())
	}

	static := box3d.CreateB3RigidSphere(ctx, 1, 8, 0, mgl64.Vec3{20, 0, 0}, identity)
	negative := box3d.CreateB3RigidBox(ctx, mgl64.Vec3{1, 1, 1}, -1, mgl64.Vec3{25, 0, 0}, identity)
	for _, object := range []*box3d.B3Object{static, negative} {
		body := object.GetRigidBody()
		if !body.IsStaticObject() || body.GetInvMass() != 0 || body.GetInvInertiaDiagLocal() != (mgl64.Vec3{}) {
			t.Fatalf("%s: zero or negative mass must be static", object.GetName())
		}
	}

	tri := box3d.NewB3TriMesh([]mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 0, 1}}, []int{0, 1, 2})
	mesh := box3d.CreateB3RigidMesh(ctx, tri, mgl64.Vec3{2, 2, 2}, 0.05, 0, mgl64.Vec3{30, 0, 0}, identity)
	meshShape := mesh.GetBody().GetShape().(*box3d.B3TriangleMeshShape)
	if meshShape.GetMargin() != 0.05 || meshShape.GetTriangle(0)[1] != (mgl64.Vec3{2, 0, 0}) {
		t.Fatalf("mesh margin %v, scaled triangle %v", meshShape.GetMargin(), meshShape.GetTriangle(0))
	}

	field := box3d.NewB3HeightField(3, 3, []float64{0, 0, 0, 0, 4, 0, 0, 0, 0})
	terrain := box3d.CreateB3RigidTerrain(ctx, field, 3, 3, 0, 2, 1, mgl64.Vec3{1, 1, 1}, 0, mgl64.Vec3{40, 0, 0}, identity)
	terrainShape := terrain.GetBody().GetShape().(*box3d.B3HeightfieldTerrainShape)
	if terrainShape.GetUpAxis() != 1 {
		t.Fatalf("terrain up axis = %d", terrainShape.GetUpAxis())
	}
	bounds := terrainShape.GetLocalBounds()
	if bounds.UpperBound.Y() != 1 || bounds.LowerBound.Y() != -1 {
		t.Fatalf("terrain bounds must be centred on the height range: %v", bounds)
	}

	if err := ctx.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestFactoryContractViolations(t *testing.T) {
	ctx := newTestContext(t)
	identity := mgl64.QuatIdent()

	expectPanic(t, "two-sided cylinder", func() {
		box3d.CreateB3RigidCylinder(ctx, 1, 0.5, 1, 2, 1, mgl64.Vec3{}, identity)
	})
	expectPanic(t, "negative box", func() {
		box3d.CreateB3RigidBox(ctx, mgl64.Vec3{-1, 1, 1}, 1, mgl64.Vec3{}, identity)
	})
	expectPanic(t, "empty hull", func() {
		box3d.CreateB3RigidHull(ctx, box3d.NewB3TriMesh(nil, nil), mgl64.Vec3{1, 1, 1}, 1, mgl64.Vec3{}, identity)
	})
	expectPanic(t, "one-row patch", func() {
		box3d.CreateB3SoftPatch(ctx, [4]mgl64.Vec3{}, 1, 3, 0, 1)
	})

	if ctx.Len() != 0 {
		t.Fatalf("rejected factories must not register anything")
	}
}

func TestSoftFactories(t *testing.T) {
	ctx := newTestContext(t)

	rope := box3d.CreateB3SoftRope(ctx, mgl64.Vec3{0, 2, 0}, mgl64.Vec3{3, 2, 0}, 2, box3d.B3RopeFixed.E_from|box3d.B3RopeFixed.E_to, 0)
	body := rope.GetSoftBody()
	if body.GetNumNodes() != 4 || body.GetNumLinks() != 3 {
		t.Fatalf("rope: %d nodes %d links", body.GetNumNodes(), body.GetNumLinks())
	}
	if body.GetWorldInfo() != ctx.GetInfo() {
		t.Fatalf("soft bodies must use the context environment")
	}

	// Both ends are pinned, so the rope keeps its ends while the middle sags.
	for i := 0; i < 5; i++ {
		ctx.Update()
	}
	nodes := body.GetNodes()
	if nodes[0].M_x != (mgl64.Vec3{0, 2, 0}) || nodes[3].M_x != (mgl64.Vec3{3, 2, 0}) {
		t.Fatalf("pinned nodes moved: %v %v", nodes[0].M_x, nodes[3].M_x)
	}
	if nodes[1].M_x.Y() >= 2 {
		t.Fatalf("free nodes should sag under gravity, y = %v", nodes[1].M_x.Y())
	}

	patch := box3d.CreateB3SoftPatch(ctx, [4]mgl64.Vec3{{0, 5, 0}, {1, 5, 0}, {0, 5, 1}, {1, 5, 1}}, 3, 4, 0, 12)
	if patch.GetSoftBody().GetNumNodes() != 12 {
		t.Fatalf("patch nodes = %d", patch.GetSoftBody().GetNumNodes())
	}
	if m := patch.GetSoftBody().GetTotalMass(); m < 11.999 || m > 12.001 {
		t.Fatalf("patch mass = %v", m)
	}
}
