package box3d

import (
	"github.com/go-gl/mathgl/mgl64"
)

/// A solid sphere centred on the local origin. The margin is the radius itself.
type B3SphereShape struct {
	B3ShapeBase

	M_radius float64

	// Tessellation hint for renderers, not used by collision.
	M_segments int
}

func MakeB3SphereShape(radius float64) B3SphereShape {
	B3Assert(radius >= 0)
	return B3SphereShape{
		B3ShapeBase: B3ShapeBase{
			M_type: B3Shape_Type.E_sphere,
		},
		M_radius: radius,
	}
}

func NewB3SphereShape(radius float64) *B3SphereShape {
	res := MakeB3SphereShape(radius)
	return &res
}

func (shape B3SphereShape) GetName() string {
	return "sphere"
}

func (shape B3SphereShape) GetRadius() float64 {
	return shape.M_radius
}

func (shape B3SphereShape) GetSegments() int {
	return shape.M_segments
}

func (shape *B3SphereShape) SetSegments(segments int) {
	shape.M_segments = segments
}

func (shape B3SphereShape) GetLocalBounds() B3AABB {
	r := B3Vec3Splat(shape.M_radius)
	return MakeB3AABB(r.Mul(-1), r)
}

func (shape *B3SphereShape) ComputeAABB(xf B3Transform) B3AABB {
	return MakeB3AABB(xf.P, xf.P).Expand(shape.M_radius + shape.M_margin)
}

func (shape B3SphereShape) CalculateLocalInertia(mass float64) mgl64.Vec3 {
	return B3Vec3Splat(0.4 * mass * shape.M_radius * shape.M_radius)
}

func (shape B3SphereShape) SignedDistance(localPoint mgl64.Vec3) float64 {
	return localPoint.Len() - shape.M_radius
}
