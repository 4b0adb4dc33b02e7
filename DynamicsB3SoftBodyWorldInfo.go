package box3d

import (
	"github.com/go-gl/mathgl/mgl64"
)

/// Environment shared by every soft body of a world: air and water for the
/// aerodynamic and buoyancy forces, gravity, and the distance cache used to
/// collide nodes with rigid bodies.
type B3SoftBodyWorldInfo struct {
	M_airDensity   float64
	M_waterDensity float64
	M_waterOffset  float64
	M_waterNormal  mgl64.Vec3
	M_gravity      mgl64.Vec3

	M_broadphase *B3BroadPhase
	M_dispatcher *B3CollisionDispatcher

	M_sparsesdf B3SparseSdf
}

/// Defaults of a fresh environment. The sparse SDF still needs Initialize.
func MakeB3SoftBodyWorldInfo() B3SoftBodyWorldInfo {
	return B3SoftBodyWorldInfo{
		M_airDensity:   1.2,
		M_waterDensity: 0.0,
		M_waterOffset:  0.0,
		M_waterNormal:  mgl64.Vec3{0, 0, 0},
		M_gravity:      mgl64.Vec3{0, -10, 0},
	}
}

/// Submerged when the point lies below the water plane n·x = offset.
/// A zero normal or density means there is no water.
func (info B3SoftBodyWorldInfo) IsSubmerged(p mgl64.Vec3) bool {
	if info.M_waterDensity <= 0.0 || info.M_waterNormal.LenSqr() == 0.0 {
		return false
	}
	return info.M_waterNormal.Dot(p) < info.M_waterOffset
}
