package box3d

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

/// Edge length of one cached cell, in the shape's local units.
const B3_sdfCellSize = 0.25

type b3SdfCellKey struct {
	shape      B3ShapeInterface
	ix, iy, iz int
}

/// One cached voxel: the distance at its 8 corners, lower-x first.
type B3SdfCell struct {
	M_corners [8]float64
	M_puid    int
}

/// A sparse cache of signed distances around shapes, used by soft bodies to
/// collide against rigid bodies. Cells are built on demand in the shape's local
/// frame and evaluated with trilinear interpolation.
type B3SparseSdf struct {
	M_cells      map[b3SdfCellKey]*B3SdfCell
	M_hashSize   int
	M_clampCells int
	M_puid       int

	M_initialized bool

	// Statistics
	M_nqueries int
	M_nprobes  int
}

/// Must be called before Evaluate. clampCells bounds the cache; it is reset
/// when it grows past that many cells.
func (sdf *B3SparseSdf) Initialize(hashSize, clampCells int) {
	B3Assert(hashSize > 0)
	B3Assert(clampCells > 0)
	sdf.M_hashSize = hashSize
	sdf.M_clampCells = clampCells
	sdf.M_initialized = true
	sdf.Reset()
}

func (sdf B3SparseSdf) IsInitialized() bool {
	return sdf.M_initialized
}

/// Drops every cell.
func (sdf *B3SparseSdf) Reset() {
	sdf.M_cells = make(map[b3SdfCellKey]*B3SdfCell, sdf.M_hashSize)
	sdf.M_puid = 0
	sdf.M_nqueries = 1
	sdf.M_nprobes = 1
}

/// Advances the cache clock and removes cells not used for more than lifetime calls.
/// A negative lifetime keeps everything.
func (sdf *B3SparseSdf) GarbageCollect(lifetime int) {
	sdf.M_puid++
	if lifetime < 0 {
		return
	}
	for key, cell := range sdf.M_cells {
		if sdf.M_puid-cell.M_puid > lifetime {
			delete(sdf.M_cells, key)
		}
	}
}

/// Drops every cell of one shape, e.g. when it is destroyed.
func (sdf *B3SparseSdf) RemoveReferences(shape B3ShapeInterface) {
	for key := range sdf.M_cells {
		if key.shape == shape {
			delete(sdf.M_cells, key)
		}
	}
}

func (sdf B3SparseSdf) GetCellCount() int {
	return len(sdf.M_cells)
}

func (sdf *B3SparseSdf) cell(shape B3ShapeInterface, ix, iy, iz int) *B3SdfCell {
	key := b3SdfCellKey{shape: shape, ix: ix, iy: iy, iz: iz}
	sdf.M_nqueries++
	if c, ok := sdf.M_cells[key]; ok {
		c.M_puid = sdf.M_puid
		return c
	}

	if len(sdf.M_cells) >= sdf.M_clampCells {
		sdf.Reset()
	}

	sdf.M_nprobes++
	c := &B3SdfCell{M_puid: sdf.M_puid}
	origin := mgl64.Vec3{float64(ix), float64(iy), float64(iz)}.Mul(B3_sdfCellSize)
	for i := 0; i < 8; i++ {
		corner := origin.Add(mgl64.Vec3{
			float64(i & 1),
			float64((i >> 1) & 1),
			float64((i >> 2) & 1),
		}.Mul(B3_sdfCellSize))
		c.M_corners[i] = shape.SignedDistance(corner)
	}
	sdf.M_cells[key] = c
	return c
}

func (sdf *B3SparseSdf) distance(shape B3ShapeInterface, p mgl64.Vec3) float64 {
	scaled := p.Mul(1.0 / B3_sdfCellSize)
	ix := int(math.Floor(scaled[0]))
	iy := int(math.Floor(scaled[1]))
	iz := int(math.Floor(scaled[2]))
	tx := scaled[0] - float64(ix)
	ty := scaled[1] - float64(iy)
	tz := scaled[2] - float64(iz)

	d := sdf.cell(shape, ix, iy, iz).M_corners
	x00 := d[0]*(1-tx) + d[1]*tx
	x10 := d[2]*(1-tx) + d[3]*tx
	x01 := d[4]*(1-tx) + d[5]*tx
	x11 := d[6]*(1-tx) + d[7]*tx
	y0 := x00*(1-ty) + x10*ty
	y1 := x01*(1-ty) + x11*ty
	return y0*(1-tz) + y1*tz
}

/// Distance from a local point to the shape surface grown by margin, plus the
/// outward normal in local coordinates.
func (sdf *B3SparseSdf) Evaluate(localPoint mgl64.Vec3, shape B3ShapeInterface, margin float64) (float64, mgl64.Vec3) {
	B3Assert(sdf.M_initialized)
	B3Assert(shape != nil)

	d := sdf.distance(shape, localPoint)

	const h = 0.5 * B3_sdfCellSize
	var g mgl64.Vec3
	for axis := 0; axis < 3; axis++ {
		var e mgl64.Vec3
		e[axis] = h
		g[axis] = sdf.distance(shape, localPoint.Add(e)) - sdf.distance(shape, localPoint.Sub(e))
	}

	normal := B3ShapeGradient(shape, localPoint)
	if g.Len() > B3_epsilon {
		normal = g.Normalize()
	}
	return d - margin, normal
}
