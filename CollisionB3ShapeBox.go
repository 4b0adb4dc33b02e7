package box3d

import (
	"github.com/go-gl/mathgl/mgl64"
)

/// A solid box centred on the local origin.
type B3BoxShape struct {
	B3ShapeBase

	M_halfExtents mgl64.Vec3
}

func MakeB3BoxShape(halfExtents mgl64.Vec3) B3BoxShape {
	B3Assert(halfExtents[0] >= 0 && halfExtents[1] >= 0 && halfExtents[2] >= 0)
	return B3BoxShape{
		B3ShapeBase: B3ShapeBase{
			M_type:   B3Shape_Type.E_box,
			M_margin: B3_defaultMargin,
		},
		M_halfExtents: halfExtents,
	}
}

func NewB3BoxShape(halfExtents mgl64.Vec3) *B3BoxShape {
	res := MakeB3BoxShape(halfExtents)
	return &res
}

func (shape B3BoxShape) GetName() string {
	return "box"
}

func (shape B3BoxShape) GetHalfExtents() mgl64.Vec3 {
	return shape.M_halfExtents
}

func (shape B3BoxShape) GetLocalBounds() B3AABB {
	return MakeB3AABB(shape.M_halfExtents.Mul(-1), shape.M_halfExtents)
}

func (shape *B3BoxShape) ComputeAABB(xf B3Transform) B3AABB {
	return b3ComputeShapeAABB(shape, xf)
}

func (shape B3BoxShape) CalculateLocalInertia(mass float64) mgl64.Vec3 {
	return B3BoxInertia(mass, shape.M_halfExtents)
}

func (shape B3BoxShape) SignedDistance(localPoint mgl64.Vec3) float64 {
	return B3BoxDistance(localPoint, shape.M_halfExtents)
}
