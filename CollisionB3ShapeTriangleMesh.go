package box3d

import (
	"github.com/go-gl/mathgl/mgl64"
)

/// A concave triangle mesh, mostly used for static geometry. Collision treats
/// it as its bounding box grown by the margin.
type B3TriangleMeshShape struct {
	B3ShapeBase

	M_vertices []mgl64.Vec3
	M_indices  []int
	M_bounds   B3AABB
}

func NewB3TriangleMeshShape(mesh *B3TriMesh, scale mgl64.Vec3, margin float64) *B3TriangleMeshShape {
	B3Assert(mesh != nil)
	B3Assert(len(mesh.Indices)%3 == 0)
	for _, index := range mesh.Indices {
		B3Assert(0 <= index && index < len(mesh.Vertices))
	}

	vertices := mesh.ScaledVertices(scale)
	return &B3TriangleMeshShape{
		B3ShapeBase: B3ShapeBase{
			M_type:   B3Shape_Type.E_triangleMesh,
			M_margin: margin,
		},
		M_vertices: vertices,
		M_indices:  append([]int(nil), mesh.Indices...),
		M_bounds:   B3ComputePointBounds(vertices),
	}
}

func (shape B3TriangleMeshShape) GetName() string {
	return "mesh"
}

func (shape B3TriangleMeshShape) GetNumTriangles() int {
	return len(shape.M_indices) / 3
}

/// The three vertices of triangle i.
func (shape B3TriangleMeshShape) GetTriangle(i int) [3]mgl64.Vec3 {
	B3Assert(0 <= i && i < shape.GetNumTriangles())
	return [3]mgl64.Vec3{
		shape.M_vertices[shape.M_indices[3*i]],
		shape.M_vertices[shape.M_indices[3*i+1]],
		shape.M_vertices[shape.M_indices[3*i+2]],
	}
}

func (shape B3TriangleMeshShape) GetLocalBounds() B3AABB {
	return shape.M_bounds
}

func (shape *B3TriangleMeshShape) ComputeAABB(xf B3Transform) B3AABB {
	return b3ComputeShapeAABB(shape, xf)
}

func (shape B3TriangleMeshShape) CalculateLocalInertia(mass float64) mgl64.Vec3 {
	return B3BoxInertia(mass, shape.M_bounds.GetExtents())
}

func (shape B3TriangleMeshShape) SignedDistance(localPoint mgl64.Vec3) float64 {
	return B3AABBDistance(localPoint, shape.M_bounds) - shape.M_margin
}
