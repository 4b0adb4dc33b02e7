package box3d

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

/// A shape is used for collision detection. Shapes live in their own local frame;
/// a collision object places them in the world with its transform.
var B3Shape_Type = struct {
	E_box          uint8
	E_sphere       uint8
	E_cylinder     uint8
	E_convexHull   uint8
	E_triangleMesh uint8
	E_heightfield  uint8
	E_typeCount    uint8
}{
	E_box:          0,
	E_sphere:       1,
	E_cylinder:     2,
	E_convexHull:   3,
	E_triangleMesh: 4,
	E_heightfield:  5,
	E_typeCount:    6,
}

type B3ShapeInterface interface {
	/// Get the type of this shape. You can use this to down cast to the concrete shape.
	GetType() uint8

	/// A short human readable name, e.g. "box".
	GetName() string

	/// Given a transform, compute the associated axis aligned bounding box,
	/// margin included.
	ComputeAABB(xf B3Transform) B3AABB

	/// The local bounds of the shape without margin.
	GetLocalBounds() B3AABB

	/// Compute the diagonal of the inertia tensor about the local origin.
	CalculateLocalInertia(mass float64) mgl64.Vec3

	/// Signed distance from a local point to the surface. Negative inside.
	SignedDistance(localPoint mgl64.Vec3) float64

	GetMargin() float64
	SetMargin(margin float64)
}

// Shared margin bookkeeping for every shape.
type B3ShapeBase struct {
	M_type   uint8
	M_margin float64
}

func (shape B3ShapeBase) GetType() uint8 {
	return shape.M_type
}

func (shape B3ShapeBase) GetMargin() float64 {
	return shape.M_margin
}

func (shape *B3ShapeBase) SetMargin(margin float64) {
	shape.M_margin = margin
}

// World box of a shape from its local bounds, grown by its margin.
func b3ComputeShapeAABB(shape B3ShapeInterface, xf B3Transform) B3AABB {
	return B3TransformAABB(shape.GetLocalBounds(), xf).Expand(shape.GetMargin())
}

/// Inertia diagonal of a solid box with the given half extents.
func B3BoxInertia(mass float64, halfExtents mgl64.Vec3) mgl64.Vec3 {
	lx := 2.0 * halfExtents[0]
	ly := 2.0 * halfExtents[1]
	lz := 2.0 * halfExtents[2]
	return mgl64.Vec3{
		mass / 12.0 * (ly*ly + lz*lz),
		mass / 12.0 * (lx*lx + lz*lz),
		mass / 12.0 * (lx*lx + ly*ly),
	}
}

/// Signed distance to an origin centred box.
func B3BoxDistance(p mgl64.Vec3, halfExtents mgl64.Vec3) float64 {
	q := B3Vec3Abs(p).Sub(halfExtents)
	outside := B3Vec3Max(q, mgl64.Vec3{}).Len()
	inside := math.Min(math.Max(q[0], math.Max(q[1], q[2])), 0.0)
	return outside + inside
}

/// Signed distance to an arbitrary local box.
func B3AABBDistance(p mgl64.Vec3, bounds B3AABB) float64 {
	return B3BoxDistance(p.Sub(bounds.GetCenter()), bounds.GetExtents())
}

/// A triangle soup shared by hull and mesh factories.
type B3TriMesh struct {
	Vertices []mgl64.Vec3
	Indices  []int
}

func NewB3TriMesh(vertices []mgl64.Vec3, indices []int) *B3TriMesh {
	return &B3TriMesh{
		Vertices: vertices,
		Indices:  indices,
	}
}

func (mesh B3TriMesh) GetNumTriangles() int {
	return len(mesh.Indices) / 3
}

/// Vertices multiplied component-wise by scale.
func (mesh B3TriMesh) ScaledVertices(scale mgl64.Vec3) []mgl64.Vec3 {
	res := make([]mgl64.Vec3, len(mesh.Vertices))
	for i, v := range mesh.Vertices {
		res[i] = B3Vec3MulComponents(v, scale)
	}
	return res
}

/// Tight bounds of a point set. Empty sets give a degenerate box at the origin.
func B3ComputePointBounds(points []mgl64.Vec3) B3AABB {
	if len(points) == 0 {
		return B3AABB{}
	}
	bounds := B3AABB{LowerBound: points[0], UpperBound: points[0]}
	for _, p := range points[1:] {
		bounds.LowerBound = B3Vec3Min(bounds.LowerBound, p)
		bounds.UpperBound = B3Vec3Max(bounds.UpperBound, p)
	}
	return bounds
}
