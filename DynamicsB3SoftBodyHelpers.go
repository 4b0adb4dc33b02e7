package box3d

import (
	"github.com/go-gl/mathgl/mgl64"
)

/// Bits of the fixeds argument of CreateRope.
var B3RopeFixed = struct {
	E_from int
	E_to   int
}{
	E_from: 1,
	E_to:   2,
}

/// Bits of the fixeds argument of CreatePatch, one per corner.
var B3PatchFixed = struct {
	E_corner00 int
	E_corner10 int
	E_corner01 int
	E_corner11 int
}{
	E_corner00: 1,
	E_corner10: 2,
	E_corner01: 4,
	E_corner11: 8,
}

/// Builders for common soft bodies.
type B3SoftBodyHelpers struct{}

/// A straight rope of resolution+2 nodes between from and to.
func (B3SoftBodyHelpers) CreateRope(worldInfo *B3SoftBodyWorldInfo, from, to mgl64.Vec3, resolution int, fixeds int) *B3SoftBody {
	B3Assert(resolution >= 0)

	count := resolution + 2
	positions := make([]mgl64.Vec3, count)
	masses := make([]float64, count)
	for i := 0; i < count; i++ {
		t := float64(i) / float64(count-1)
		positions[i] = from.Add(to.Sub(from).Mul(t))
		masses[i] = 1.0
	}
	if fixeds&B3RopeFixed.E_from != 0 {
		masses[0] = 0.0
	}
	if fixeds&B3RopeFixed.E_to != 0 {
		masses[count-1] = 0.0
	}

	body := NewB3SoftBody(worldInfo, positions, masses)
	for i := 1; i < count; i++ {
		body.AppendLink(i-1, i, 1.0)
	}
	return body
}

/// A resX by resY grid of nodes spanning the four corners, with structural
/// links along both grid axes and one diagonal per quad.
func (B3SoftBodyHelpers) CreatePatch(worldInfo *B3SoftBodyWorldInfo, corners [4]mgl64.Vec3, resX, resY int, fixeds int) *B3SoftBody {
	B3Assert(resX >= 2 && resY >= 2)

	corner00, corner10, corner01, corner11 := corners[0], corners[1], corners[2], corners[3]
	index := func(ix, iy int) int {
		return iy*resX + ix
	}

	positions := make([]mgl64.Vec3, resX*resY)
	masses := make([]float64, resX*resY)
	for iy := 0; iy < resY; iy++ {
		ty := float64(iy) / float64(resY-1)
		left := corner00.Add(corner01.Sub(corner00).Mul(ty))
		right := corner10.Add(corner11.Sub(corner10).Mul(ty))
		for ix := 0; ix < resX; ix++ {
			tx := float64(ix) / float64(resX-1)
			positions[index(ix, iy)] = left.Add(right.Sub(left).Mul(tx))
			masses[index(ix, iy)] = 1.0
		}
	}

	if fixeds&B3PatchFixed.E_corner00 != 0 {
		masses[index(0, 0)] = 0.0
	}
	if fixeds&B3PatchFixed.E_corner10 != 0 {
		masses[index(resX-1, 0)] = 0.0
	}
	if fixeds&B3PatchFixed.E_corner01 != 0 {
		masses[index(0, resY-1)] = 0.0
	}
	if fixeds&B3PatchFixed.E_corner11 != 0 {
		masses[index(resX-1, resY-1)] = 0.0
	}

	body := NewB3SoftBody(worldInfo, positions, masses)
	for iy := 0; iy < resY; iy++ {
		for ix := 0; ix < resX; ix++ {
			idx := index(ix, iy)
			if ix+1 < resX {
				body.AppendLink(idx, index(ix+1, iy), 1.0)
			}
			if iy+1 < resY {
				body.AppendLink(idx, index(ix, iy+1), 1.0)
			}
			if ix+1 < resX && iy+1 < resY {
				body.AppendLink(idx, index(ix+1, iy+1), 1.0)
			}
		}
	}
	return body
}
