package box3d

import (
	"github.com/go-gl/mathgl/mgl64"
)

/// An axis aligned bounding box.
type B3AABB struct {
	LowerBound mgl64.Vec3 ///< the lower vertex
	UpperBound mgl64.Vec3 ///< the upper vertex
}

func MakeB3AABB(lower, upper mgl64.Vec3) B3AABB {
	return B3AABB{
		LowerBound: lower,
		UpperBound: upper,
	}
}

/// Get the center of the AABB.
func (bb B3AABB) GetCenter() mgl64.Vec3 {
	return bb.LowerBound.Add(bb.UpperBound).Mul(0.5)
}

/// Get the extents of the AABB (half-widths).
func (bb B3AABB) GetExtents() mgl64.Vec3 {
	return bb.UpperBound.Sub(bb.LowerBound).Mul(0.5)
}

/// Get the surface area. Used as the insertion cost metric of the dynamic tree.
func (bb B3AABB) GetSurfaceArea() float64 {
	d := bb.UpperBound.Sub(bb.LowerBound)
	return 2.0 * (d[0]*d[1] + d[1]*d[2] + d[2]*d[0])
}

/// Combine an AABB into this one.
func (bb *B3AABB) CombineInPlace(aabb B3AABB) {
	bb.LowerBound = B3Vec3Min(bb.LowerBound, aabb.LowerBound)
	bb.UpperBound = B3Vec3Max(bb.UpperBound, aabb.UpperBound)
}

/// Combine two AABBs into this one.
func (bb *B3AABB) CombineTwoInPlace(aabb1, aabb2 B3AABB) {
	bb.LowerBound = B3Vec3Min(aabb1.LowerBound, aabb2.LowerBound)
	bb.UpperBound = B3Vec3Max(aabb1.UpperBound, aabb2.UpperBound)
}

/// Does this aabb contain the provided AABB.
func (bb B3AABB) Contains(aabb B3AABB) bool {
	return bb.LowerBound[0] <= aabb.LowerBound[0] &&
		bb.LowerBound[1] <= aabb.LowerBound[1] &&
		bb.LowerBound[2] <= aabb.LowerBound[2] &&
		aabb.UpperBound[0] <= bb.UpperBound[0] &&
		aabb.UpperBound[1] <= bb.UpperBound[1] &&
		aabb.UpperBound[2] <= bb.UpperBound[2]
}

func (bb B3AABB) IsValid() bool {
	d := bb.UpperBound.Sub(bb.LowerBound)
	valid := d[0] >= 0.0 && d[1] >= 0.0 && d[2] >= 0.0
	return valid && B3Vec3IsValid(bb.LowerBound) && B3Vec3IsValid(bb.UpperBound)
}

/// Returns a copy grown by r on every side.
func (bb B3AABB) Expand(r float64) B3AABB {
	e := B3Vec3Splat(r)
	return B3AABB{
		LowerBound: bb.LowerBound.Sub(e),
		UpperBound: bb.UpperBound.Add(e),
	}
}

/// The eight corners of the box, lower-x first.
func (bb B3AABB) GetCorners() [8]mgl64.Vec3 {
	var corners [8]mgl64.Vec3
	for i := 0; i < 8; i++ {
		for axis := 0; axis < 3; axis++ {
			if i&(1<<axis) != 0 {
				corners[i][axis] = bb.UpperBound[axis]
			} else {
				corners[i][axis] = bb.LowerBound[axis]
			}
		}
	}
	return corners
}

func B3TestOverlapBoundingBoxes(a, b B3AABB) bool {
	for axis := 0; axis < 3; axis++ {
		if b.LowerBound[axis]-a.UpperBound[axis] > 0.0 {
			return false
		}
		if a.LowerBound[axis]-b.UpperBound[axis] > 0.0 {
			return false
		}
	}
	return true
}

/// Transforms a local box by xf and returns the world-space box around it.
func B3TransformAABB(local B3AABB, xf B3Transform) B3AABB {
	center := xf.Apply(local.GetCenter())
	extents := local.GetExtents()
	basis := xf.GetBasis()

	var world mgl64.Vec3
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			world[row] += abs(basis.At(row, col)) * extents[col]
		}
	}

	return B3AABB{
		LowerBound: center.Sub(world),
		UpperBound: center.Add(world),
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

///////////////////////////////////////////////////////////////////////////////
// Contact manifolds
///////////////////////////////////////////////////////////////////////////////

/// A contact point between two collision objects. The normal points from B to A.
/// Distance is negative while the objects penetrate.
type B3ManifoldPoint struct {
	PositionWorldOnA mgl64.Vec3
	PositionWorldOnB mgl64.Vec3
	NormalWorldOnB   mgl64.Vec3
	Distance         float64

	// Solver scratch, valid during one solve.
	NormalImpulse  float64
	TangentImpulse float64
}

type B3ContactManifold struct {
	BodyA  *B3CollisionObject
	BodyB  *B3CollisionObject
	Points []B3ManifoldPoint
}

func NewB3ContactManifold(bodyA, bodyB *B3CollisionObject) *B3ContactManifold {
	return &B3ContactManifold{
		BodyA:  bodyA,
		BodyB:  bodyB,
		Points: make([]B3ManifoldPoint, 0, 4),
	}
}

/// Adds a contact from a point on B, the normal on B and the signed distance.
func (m *B3ContactManifold) AddContactPoint(normalOnB mgl64.Vec3, pointOnB mgl64.Vec3, distance float64) {
	m.Points = append(m.Points, B3ManifoldPoint{
		PositionWorldOnA: pointOnB.Add(normalOnB.Mul(distance)),
		PositionWorldOnB: pointOnB,
		NormalWorldOnB:   normalOnB,
		Distance:         distance,
	})
}

func (m B3ContactManifold) GetNumContacts() int {
	return len(m.Points)
}
