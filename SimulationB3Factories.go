package box3d

import (
	"github.com/go-gl/mathgl/mgl64"
)

func b3CreateRigid(ctx *B3SimulationContext, shape B3ShapeInterface, mass float64, position mgl64.Vec3, rotation mgl64.Quat) *B3Object {
	inertia := mgl64.Vec3{}
	if mass > 0.0 {
		inertia = shape.CalculateLocalInertia(mass)
	}

	info := MakeB3RigidBodyConstructionInfo(mass, shape, inertia)
	info.M_startWorldTransform = MakeB3TransformByPositionAndRotation(position, rotation)

	object := NewB3RigidObject(NewB3RigidBody(info))
	object.SetName(shape.GetName())
	ctx.PushBack(object)
	return object
}

/// A box of the given full dimensions.
func CreateB3RigidBox(ctx *B3SimulationContext, dimensions mgl64.Vec3, mass float64, position mgl64.Vec3, rotation mgl64.Quat) *B3Object {
	B3Assert(dimensions.X() >= 0 && dimensions.Y() >= 0 && dimensions.Z() >= 0)
	return b3CreateRigid(ctx, NewB3BoxShape(dimensions.Mul(0.5)), mass, position, rotation)
}

/// A cylinder along Y. Different radii give a frustum hull with the given
/// number of sides.
func CreateB3RigidCylinder(ctx *B3SimulationContext, topRadius, bottomRadius, height float64, segments int, mass float64, position mgl64.Vec3, rotation mgl64.Quat) *B3Object {
	B3Assert(topRadius >= 0 && bottomRadius >= 0 && height >= 0)
	B3Assert(segments >= 3)

	var shape B3ShapeInterface
	if topRadius == bottomRadius {
		shape = NewB3CylinderShape(topRadius, 0.5*height)
	} else {
		shape = NewB3FrustumShape(topRadius, bottomRadius, height, segments)
	}
	return b3CreateRigid(ctx, shape, mass, position, rotation)
}

/// A convex hull around the scaled mesh vertices.
func CreateB3RigidHull(ctx *B3SimulationContext, mesh *B3TriMesh, scale mgl64.Vec3, mass float64, position mgl64.Vec3, rotation mgl64.Quat) *B3Object {
	B3Assert(mesh != nil && len(mesh.Vertices) > 0)
	return b3CreateRigid(ctx, NewB3ConvexHullShape(mesh.ScaledVertices(scale)), mass, position, rotation)
}

/// A triangle mesh with a collision margin. Meshes are meant to be static.
func CreateB3RigidMesh(ctx *B3SimulationContext, mesh *B3TriMesh, scale mgl64.Vec3, margin float64, mass float64, position mgl64.Vec3, rotation mgl64.Quat) *B3Object {
	B3Assert(mesh != nil && mesh.GetNumTriangles() > 0)
	B3Assert(margin >= 0)
	return b3CreateRigid(ctx, NewB3TriangleMeshShape(mesh, scale, margin), mass, position, rotation)
}

func CreateB3RigidSphere(ctx *B3SimulationContext, radius float64, segments int, mass float64, position mgl64.Vec3, rotation mgl64.Quat) *B3Object {
	shape := NewB3SphereShape(radius)
	shape.SetSegments(segments)
	return b3CreateRigid(ctx, shape, mass, position, rotation)
}

/// Heightfield terrain sampled from field on a stickWidth by stickLength grid.
func CreateB3RigidTerrain(ctx *B3SimulationContext, field *B3HeightField, stickWidth, stickLength int, minHeight, maxHeight float64, upAxis int, scale mgl64.Vec3, mass float64, position mgl64.Vec3, rotation mgl64.Quat) *B3Object {
	B3Assert(field != nil)
	shape := NewB3HeightfieldTerrainShape(field, stickWidth, stickLength, minHeight, maxHeight, upAxis, scale)
	return b3CreateRigid(ctx, shape, mass, position, rotation)
}

func b3CreateSoft(ctx *B3SimulationContext, body *B3SoftBody, name string, mass float64) *B3Object {
	if mass > 0.0 {
		body.SetTotalMass(mass)
	}
	object := NewB3SoftObject(body)
	object.SetName(name)
	ctx.PushBack(object)
	return object
}

/// A rope of resolution+2 nodes. fixeds takes B3RopeFixed bits. A positive
/// mass is spread over the free nodes.
func CreateB3SoftRope(ctx *B3SimulationContext, from, to mgl64.Vec3, resolution int, fixeds int, mass float64) *B3Object {
	ctx.checkAlive()
	body := B3SoftBodyHelpers{}.CreateRope(ctx.GetInfo(), from, to, resolution, fixeds)
	return b3CreateSoft(ctx, body, "rope", mass)
}

/// A cloth patch over corners 00, 10, 01, 11. fixeds takes B3PatchFixed bits.
func CreateB3SoftPatch(ctx *B3SimulationContext, corners [4]mgl64.Vec3, resX, resY int, fixeds int, mass float64) *B3Object {
	ctx.checkAlive()
	body := B3SoftBodyHelpers{}.CreatePatch(ctx.GetInfo(), corners, resX, resY, fixeds)
	return b3CreateSoft(ctx, body, "patch", mass)
}
