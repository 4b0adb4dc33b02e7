package box3d

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Sampling directions for the hull distance: the 26 neighbours of a voxel.
var b3HullDirections = func() []mgl64.Vec3 {
	dirs := make([]mgl64.Vec3, 0, 26)
	for x := -1; x <= 1; x++ {
		for y := -1; y <= 1; y++ {
			for z := -1; z <= 1; z++ {
				if x == 0 && y == 0 && z == 0 {
					continue
				}
				dirs = append(dirs, mgl64.Vec3{float64(x), float64(y), float64(z)}.Normalize())
			}
		}
	}
	return dirs
}()

/// A convex shape given by a point cloud. Distances are measured against the
/// support planes of a fixed direction set plus the hull's own face normals,
/// which is exact for boxes and frustums and conservative otherwise.
type B3ConvexHullShape struct {
	B3ShapeBase

	M_points  []mgl64.Vec3
	M_normals []mgl64.Vec3
	M_support []float64
	M_bounds  B3AABB
}

func NewB3ConvexHullShape(points []mgl64.Vec3) *B3ConvexHullShape {
	B3Assert(len(points) > 0)

	shape := &B3ConvexHullShape{
		B3ShapeBase: B3ShapeBase{
			M_type:   B3Shape_Type.E_convexHull,
			M_margin: B3_defaultMargin,
		},
		M_points: append([]mgl64.Vec3(nil), points...),
	}
	shape.M_bounds = B3ComputePointBounds(shape.M_points)
	shape.M_normals = append([]mgl64.Vec3(nil), b3HullDirections...)
	shape.M_support = make([]float64, len(shape.M_normals))
	shape.recomputeSupport()
	return shape
}

/// Adds a face normal to the distance planes. Factories that know the hull faces
/// call this to make the distance exact.
func (shape *B3ConvexHullShape) AddFaceNormal(n mgl64.Vec3) {
	if n.Len() < B3_epsilon {
		return
	}
	shape.M_normals = append(shape.M_normals, n.Normalize())
	shape.M_support = append(shape.M_support, 0)
	shape.recomputeSupport()
}

func (shape *B3ConvexHullShape) recomputeSupport() {
	for i, n := range shape.M_normals {
		shape.M_support[i] = shape.supportDistance(n)
	}
}

func (shape B3ConvexHullShape) supportDistance(n mgl64.Vec3) float64 {
	best := -B3_maxFloat
	for _, p := range shape.M_points {
		best = math.Max(best, n.Dot(p))
	}
	return best
}

/// The vertex furthest along direction d.
func (shape B3ConvexHullShape) LocalGetSupportingVertex(d mgl64.Vec3) mgl64.Vec3 {
	best := shape.M_points[0]
	bestDot := d.Dot(best)
	for _, p := range shape.M_points[1:] {
		if dot := d.Dot(p); dot > bestDot {
			best, bestDot = p, dot
		}
	}
	return best
}

func (shape B3ConvexHullShape) GetName() string {
	return "hull"
}

func (shape B3ConvexHullShape) GetPoints() []mgl64.Vec3 {
	return shape.M_points
}

func (shape B3ConvexHullShape) GetNumPoints() int {
	return len(shape.M_points)
}

func (shape B3ConvexHullShape) GetLocalBounds() B3AABB {
	return shape.M_bounds
}

func (shape *B3ConvexHullShape) ComputeAABB(xf B3Transform) B3AABB {
	return b3ComputeShapeAABB(shape, xf)
}

/// Approximated by the inertia of the bounding box.
func (shape B3ConvexHullShape) CalculateLocalInertia(mass float64) mgl64.Vec3 {
	return B3BoxInertia(mass, shape.M_bounds.GetExtents())
}

func (shape B3ConvexHullShape) SignedDistance(localPoint mgl64.Vec3) float64 {
	d := -B3_maxFloat
	for i, n := range shape.M_normals {
		d = math.Max(d, n.Dot(localPoint)-shape.M_support[i])
	}
	return d
}

/// Points of a frustum around the Y axis, centred on the origin.
/// The first ring is the bottom, the second the top.
func B3MakeFrustumPoints(topRadius, bottomRadius, height float64, segments int) []mgl64.Vec3 {
	B3Assert(segments >= 3)

	half := 0.5 * height
	points := make([]mgl64.Vec3, 0, 2*segments)
	for ring, radius := range []float64{bottomRadius, topRadius} {
		y := -half
		if ring == 1 {
			y = half
		}
		for i := 0; i < segments; i++ {
			theta := 2.0 * B3_pi * float64(i) / float64(segments)
			points = append(points, mgl64.Vec3{radius * math.Cos(theta), y, radius * math.Sin(theta)})
		}
	}
	return points
}

/// Builds a frustum hull and registers its cap and side normals.
func NewB3FrustumShape(topRadius, bottomRadius, height float64, segments int) *B3ConvexHullShape {
	shape := NewB3ConvexHullShape(B3MakeFrustumPoints(topRadius, bottomRadius, height, segments))

	shape.AddFaceNormal(mgl64.Vec3{0, 1, 0})
	shape.AddFaceNormal(mgl64.Vec3{0, -1, 0})

	// Side faces lean by the radius difference over the height.
	slope := 0.0
	if height > 0 {
		slope = (bottomRadius - topRadius) / height
	}
	for i := 0; i < segments; i++ {
		theta := 2.0 * B3_pi * (float64(i) + 0.5) / float64(segments)
		shape.AddFaceNormal(mgl64.Vec3{math.Cos(theta), slope, math.Sin(theta)})
	}
	return shape
}
