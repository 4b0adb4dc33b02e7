package box3d

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

/// Computes the contact manifold between two collision objects. Returns nil
/// when the objects are further apart than threshold.
type B3CollisionAlgorithm func(objA, objB *B3CollisionObject, threshold float64) *B3ContactManifold

/// Shapes that know points on their own surface return them here. Other shapes
/// are sampled at the corners of their local bounds.
type B3SamplePointsProvider interface {
	GetSamplePoints() []mgl64.Vec3
}

const b3GradientStep = 1e-4

/// Unit outward normal of a shape's distance field at a local point, by central
/// differences. Falls back to the direction from the origin, then to +Y.
func B3ShapeGradient(shape B3ShapeInterface, p mgl64.Vec3) mgl64.Vec3 {
	var g mgl64.Vec3
	for axis := 0; axis < 3; axis++ {
		var e mgl64.Vec3
		e[axis] = b3GradientStep
		g[axis] = shape.SignedDistance(p.Add(e)) - shape.SignedDistance(p.Sub(e))
	}
	if g.Len() > B3_epsilon {
		return g.Normalize()
	}
	if p.Len() > B3_epsilon {
		return p.Normalize()
	}
	return mgl64.Vec3{0, 1, 0}
}

func b3SamplePoints(shape B3ShapeInterface) []mgl64.Vec3 {
	if provider, ok := shape.(B3SamplePointsProvider); ok {
		return provider.GetSamplePoints()
	}
	corners := shape.GetLocalBounds().GetCorners()
	return corners[:]
}

/// Exact sphere against sphere.
func B3CollideSpheres(objA, objB *B3CollisionObject, threshold float64) *B3ContactManifold {
	sphereA := objA.GetShape().(*B3SphereShape)
	sphereB := objB.GetShape().(*B3SphereShape)

	pA := objA.GetWorldTransform().P
	pB := objB.GetWorldTransform().P
	d := pA.Sub(pB)
	length := d.Len()

	distance := length - sphereA.GetRadius() - sphereB.GetRadius()
	if distance > threshold {
		return nil
	}

	normalOnB := mgl64.Vec3{1, 0, 0}
	if length > B3_epsilon {
		normalOnB = d.Mul(1.0 / length)
	}

	manifold := NewB3ContactManifold(objA, objB)
	manifold.AddContactPoint(normalOnB, pB.Add(normalOnB.Mul(sphereB.GetRadius())), distance)
	return manifold
}

/// Sphere against any shape: the other shape's distance field at the sphere centre.
/// The sphere may be either object; the manifold keeps the pair order.
func B3CollideSphereConvex(objA, objB *B3CollisionObject, threshold float64) *B3ContactManifold {
	sphereObj, otherObj, flipped := objA, objB, false
	if _, ok := objA.GetShape().(*B3SphereShape); !ok {
		sphereObj, otherObj, flipped = objB, objA, true
	}
	sphere := sphereObj.GetShape().(*B3SphereShape)
	other := otherObj.GetShape()

	xf := otherObj.GetWorldTransform()
	center := sphereObj.GetWorldTransform().P
	local := xf.ApplyInverse(center)

	d := other.SignedDistance(local)
	distance := d - sphere.GetRadius()
	if distance > threshold {
		return nil
	}

	// Normal from the other shape towards the sphere.
	n := xf.ApplyRotation(B3ShapeGradient(other, local))
	pointOnOther := center.Sub(n.Mul(d))

	manifold := NewB3ContactManifold(objA, objB)
	if flipped {
		// B is the sphere: report on the sphere surface, normal from sphere to A.
		pointOnSphere := center.Sub(n.Mul(sphere.GetRadius()))
		manifold.AddContactPoint(n.Mul(-1), pointOnSphere, distance)
	} else {
		manifold.AddContactPoint(n, pointOnOther, distance)
	}
	return manifold
}

/// Any shape against any shape: sample points of each body tested against the
/// other's distance field.
func B3CollideSampled(objA, objB *B3CollisionObject, threshold float64) *B3ContactManifold {
	var manifold *B3ContactManifold
	add := func(normalOnB, pointOnB mgl64.Vec3, distance float64) {
		if manifold == nil {
			manifold = NewB3ContactManifold(objA, objB)
		}
		manifold.AddContactPoint(normalOnB, pointOnB, distance)
	}

	xfA := objA.GetWorldTransform()
	xfB := objB.GetWorldTransform()
	shapeA := objA.GetShape()
	shapeB := objB.GetShape()

	// Points of A inside B.
	for _, p := range b3SamplePoints(shapeA) {
		world := xfA.Apply(p)
		local := xfB.ApplyInverse(world)
		d := shapeB.SignedDistance(local)
		if d > threshold {
			continue
		}
		n := xfB.ApplyRotation(B3ShapeGradient(shapeB, local))
		add(n, world.Sub(n.Mul(d)), d)
	}

	// Points of B inside A, normal flipped to point from B to A.
	for _, p := range b3SamplePoints(shapeB) {
		world := xfB.Apply(p)
		local := xfA.ApplyInverse(world)
		d := shapeA.SignedDistance(local)
		if d > threshold {
			continue
		}
		n := xfA.ApplyRotation(B3ShapeGradient(shapeA, local))
		add(n.Mul(-1), world, d)
	}

	return manifold
}

func (shape B3CylinderShape) GetSamplePoints() []mgl64.Vec3 {
	const ring = 8
	points := make([]mgl64.Vec3, 0, 2*ring)
	for _, y := range []float64{-shape.M_halfHeight, shape.M_halfHeight} {
		for i := 0; i < ring; i++ {
			theta := 2.0 * B3_pi * float64(i) / ring
			points = append(points, mgl64.Vec3{
				shape.M_radius * math.Cos(theta),
				y,
				shape.M_radius * math.Sin(theta),
			})
		}
	}
	return points
}

func (shape B3ConvexHullShape) GetSamplePoints() []mgl64.Vec3 {
	return shape.M_points
}
