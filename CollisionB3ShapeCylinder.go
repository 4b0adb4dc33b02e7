package box3d

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

/// A solid cylinder around the local Y axis.
type B3CylinderShape struct {
	B3ShapeBase

	M_radius     float64
	M_halfHeight float64
}

func MakeB3CylinderShape(radius, halfHeight float64) B3CylinderShape {
	B3Assert(radius >= 0 && halfHeight >= 0)
	return B3CylinderShape{
		B3ShapeBase: B3ShapeBase{
			M_type:   B3Shape_Type.E_cylinder,
			M_margin: B3_defaultMargin,
		},
		M_radius:     radius,
		M_halfHeight: halfHeight,
	}
}

func NewB3CylinderShape(radius, halfHeight float64) *B3CylinderShape {
	res := MakeB3CylinderShape(radius, halfHeight)
	return &res
}

func (shape B3CylinderShape) GetName() string {
	return "cylinder"
}

func (shape B3CylinderShape) GetRadius() float64 {
	return shape.M_radius
}

func (shape B3CylinderShape) GetHalfHeight() float64 {
	return shape.M_halfHeight
}

func (shape B3CylinderShape) GetLocalBounds() B3AABB {
	e := mgl64.Vec3{shape.M_radius, shape.M_halfHeight, shape.M_radius}
	return MakeB3AABB(e.Mul(-1), e)
}

func (shape *B3CylinderShape) ComputeAABB(xf B3Transform) B3AABB {
	return b3ComputeShapeAABB(shape, xf)
}

func (shape B3CylinderShape) CalculateLocalInertia(mass float64) mgl64.Vec3 {
	r2 := shape.M_radius * shape.M_radius
	h := 2.0 * shape.M_halfHeight
	side := mass / 12.0 * (3.0*r2 + h*h)
	return mgl64.Vec3{side, 0.5 * mass * r2, side}
}

func (shape B3CylinderShape) SignedDistance(p mgl64.Vec3) float64 {
	radial := math.Hypot(p[0], p[2]) - shape.M_radius
	axial := math.Abs(p[1]) - shape.M_halfHeight
	inside := math.Min(math.Max(radial, axial), 0.0)
	outside := math.Hypot(math.Max(radial, 0.0), math.Max(axial, 0.0))
	return inside + outside
}
