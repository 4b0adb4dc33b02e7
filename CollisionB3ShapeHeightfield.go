package box3d

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

/// A row-major grid of height samples, e.g. decoded from a greyscale image.
type B3HeightField struct {
	Width  int
	Length int
	Data   []float64
}

func NewB3HeightField(width, length int, data []float64) *B3HeightField {
	B3Assert(width >= 1 && length >= 1)
	B3Assert(len(data) == width*length)
	return &B3HeightField{
		Width:  width,
		Length: length,
		Data:   data,
	}
}

func (field B3HeightField) At(x, z int) float64 {
	x = MaxInt(0, MinInt(field.Width-1, x))
	z = MaxInt(0, MinInt(field.Length-1, z))
	return field.Data[z*field.Width+x]
}

/// Bilinear sample at normalized coordinates u, v in [0, 1].
func (field B3HeightField) Sample(u, v float64) float64 {
	fx := mgl64.Clamp(u, 0, 1) * float64(field.Width-1)
	fz := mgl64.Clamp(v, 0, 1) * float64(field.Length-1)
	x0, z0 := int(math.Floor(fx)), int(math.Floor(fz))
	tx, tz := fx-float64(x0), fz-float64(z0)

	h00 := field.At(x0, z0)
	h10 := field.At(x0+1, z0)
	h01 := field.At(x0, z0+1)
	h11 := field.At(x0+1, z0+1)
	return (h00*(1-tx)+h10*tx)*(1-tz) + (h01*(1-tx)+h11*tx)*tz
}

/// A terrain of stickWidth x stickLength height samples. The grid is centred on
/// the local origin and the height range is centred on the up axis, so the
/// local bounds run from -(max-min)/2 to +(max-min)/2 along upAxis.
type B3HeightfieldTerrainShape struct {
	B3ShapeBase

	M_stickWidth  int
	M_stickLength int
	M_heights     []float64
	M_minHeight   float64
	M_maxHeight   float64
	M_upAxis      int
	M_scale       mgl64.Vec3
	M_bounds      B3AABB
}

func NewB3HeightfieldTerrainShape(field *B3HeightField, stickWidth, stickLength int, minHeight, maxHeight float64, upAxis int, scale mgl64.Vec3) *B3HeightfieldTerrainShape {
	B3Assert(field != nil)
	B3Assert(stickWidth >= 2 && stickLength >= 2)
	B3Assert(minHeight <= maxHeight)
	B3Assert(0 <= upAxis && upAxis <= 2)

	heights := make([]float64, stickWidth*stickLength)
	for j := 0; j < stickLength; j++ {
		for i := 0; i < stickWidth; i++ {
			h := field.Sample(float64(i)/float64(stickWidth-1), float64(j)/float64(stickLength-1))
			heights[j*stickWidth+i] = mgl64.Clamp(h, minHeight, maxHeight)
		}
	}

	shape := &B3HeightfieldTerrainShape{
		B3ShapeBase: B3ShapeBase{
			M_type:   B3Shape_Type.E_heightfield,
			M_margin: B3_defaultMargin,
		},
		M_stickWidth:  stickWidth,
		M_stickLength: stickLength,
		M_heights:     heights,
		M_minHeight:   minHeight,
		M_maxHeight:   maxHeight,
		M_upAxis:      upAxis,
		M_scale:       scale,
	}

	var half mgl64.Vec3
	u, v := shape.planeAxes()
	half[u] = 0.5 * float64(stickWidth-1)
	half[v] = 0.5 * float64(stickLength-1)
	half[upAxis] = 0.5 * (maxHeight - minHeight)
	half = B3Vec3Abs(B3Vec3MulComponents(half, scale))
	shape.M_bounds = MakeB3AABB(half.Mul(-1), half)
	return shape
}

// The two grid axes for the current up axis.
func (shape B3HeightfieldTerrainShape) planeAxes() (int, int) {
	switch shape.M_upAxis {
	case 0:
		return 1, 2
	case 1:
		return 0, 2
	}
	return 0, 1
}

func (shape B3HeightfieldTerrainShape) GetName() string {
	return "terrain"
}

func (shape B3HeightfieldTerrainShape) GetUpAxis() int {
	return shape.M_upAxis
}

func (shape B3HeightfieldTerrainShape) GetLocalBounds() B3AABB {
	return shape.M_bounds
}

func (shape *B3HeightfieldTerrainShape) ComputeAABB(xf B3Transform) B3AABB {
	return b3ComputeShapeAABB(shape, xf)
}

func (shape B3HeightfieldTerrainShape) CalculateLocalInertia(mass float64) mgl64.Vec3 {
	return B3BoxInertia(mass, shape.M_bounds.GetExtents())
}

/// Local height of the surface above the grid point nearest to localPoint,
/// interpolated between the four surrounding samples.
func (shape B3HeightfieldTerrainShape) GetHeightAt(localPoint mgl64.Vec3) float64 {
	u, v := shape.planeAxes()
	extents := shape.M_bounds.GetExtents()

	fu, fv := 0.5, 0.5
	if extents[u] > 0 {
		fu = (localPoint[u]/extents[u] + 1.0) * 0.5
	}
	if extents[v] > 0 {
		fv = (localPoint[v]/extents[v] + 1.0) * 0.5
	}

	grid := B3HeightField{Width: shape.M_stickWidth, Length: shape.M_stickLength, Data: shape.M_heights}
	raw := grid.Sample(fu, fv)

	mid := 0.5 * (shape.M_minHeight + shape.M_maxHeight)
	return (raw - mid) * shape.M_scale[shape.M_upAxis]
}

/// Vertical distance above the surface inside the grid footprint, box distance outside it.
func (shape B3HeightfieldTerrainShape) SignedDistance(localPoint mgl64.Vec3) float64 {
	u, v := shape.planeAxes()
	extents := shape.M_bounds.GetExtents()
	if math.Abs(localPoint[u]) > extents[u] || math.Abs(localPoint[v]) > extents[v] {
		return B3AABBDistance(localPoint, shape.M_bounds)
	}
	return localPoint[shape.M_upAxis] - shape.GetHeightAt(localPoint)
}
