package box3d

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

/// This function is used to ensure that a floating point number is not a NaN or infinity.
func B3IsValid(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func B3Vec3IsValid(v mgl64.Vec3) bool {
	return B3IsValid(v[0]) && B3IsValid(v[1]) && B3IsValid(v[2])
}

func B3Vec3Min(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{
		math.Min(a[0], b[0]),
		math.Min(a[1], b[1]),
		math.Min(a[2], b[2]),
	}
}

func B3Vec3Max(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{
		math.Max(a[0], b[0]),
		math.Max(a[1], b[1]),
		math.Max(a[2], b[2]),
	}
}

func B3Vec3Abs(a mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{math.Abs(a[0]), math.Abs(a[1]), math.Abs(a[2])}
}

/// Component-wise product.
func B3Vec3MulComponents(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

func B3Vec3Splat(s float64) mgl64.Vec3 {
	return mgl64.Vec3{s, s, s}
}

/// Returns a unit vector orthogonal to n. n must be normalized.
func B3PlaneSpace(n mgl64.Vec3) mgl64.Vec3 {
	if math.Abs(n[2]) > math.Sqrt2/2 {
		// choose p in y-z plane
		a := n[1]*n[1] + n[2]*n[2]
		k := 1.0 / math.Sqrt(a)
		return mgl64.Vec3{0, -n[2] * k, n[1] * k}
	}

	// choose p in x-y plane
	a := n[0]*n[0] + n[1]*n[1]
	k := 1.0 / math.Sqrt(a)
	return mgl64.Vec3{-n[1] * k, n[0] * k, 0}
}

///////////////////////////////////////////////////////////////////////////////
/// A transform contains translation and rotation. It is used to represent
/// the position and orientation of rigid frames.
///////////////////////////////////////////////////////////////////////////////
type B3Transform struct {
	P mgl64.Vec3
	Q mgl64.Quat
}

/// The default constructor does nothing.
func MakeB3Transform() B3Transform {
	return B3Transform{
		P: mgl64.Vec3{},
		Q: mgl64.QuatIdent(),
	}
}

/// Initialize using a position vector and a rotation.
func MakeB3TransformByPositionAndRotation(position mgl64.Vec3, rotation mgl64.Quat) B3Transform {
	if rotation.Len() == 0 {
		rotation = mgl64.QuatIdent()
	}
	return B3Transform{
		P: position,
		Q: rotation.Normalize(),
	}
}

func (t *B3Transform) SetIdentity() {
	t.P = mgl64.Vec3{}
	t.Q = mgl64.QuatIdent()
}

/// Transforms a local point into world space.
func (t B3Transform) Apply(v mgl64.Vec3) mgl64.Vec3 {
	return t.Q.Rotate(v).Add(t.P)
}

/// Transforms a world point into local space.
func (t B3Transform) ApplyInverse(v mgl64.Vec3) mgl64.Vec3 {
	return t.Q.Conjugate().Rotate(v.Sub(t.P))
}

/// Rotates a local direction into world space.
func (t B3Transform) ApplyRotation(v mgl64.Vec3) mgl64.Vec3 {
	return t.Q.Rotate(v)
}

/// Rotates a world direction into local space.
func (t B3Transform) ApplyInverseRotation(v mgl64.Vec3) mgl64.Vec3 {
	return t.Q.Conjugate().Rotate(v)
}

/// The rotation as a 3x3 matrix.
func (t B3Transform) GetBasis() mgl64.Mat3 {
	return t.Q.Mat4().Mat3()
}

/// Integrates a rotation by an angular velocity over h seconds and renormalizes.
func B3QuatIntegrate(q mgl64.Quat, w mgl64.Vec3, h float64) mgl64.Quat {
	spin := mgl64.Quat{W: 0, V: w}.Mul(q).Scale(0.5 * h)
	res := q.Add(spin)
	if res.Len() == 0 {
		return mgl64.QuatIdent()
	}
	return res.Normalize()
}

/// Builds a rotation from Euler angles in degrees, applied X then Y then Z.
func B3QuatFromEulerDegrees(angles mgl64.Vec3) mgl64.Quat {
	return mgl64.AnglesToQuat(
		mgl64.DegToRad(angles[0]),
		mgl64.DegToRad(angles[1]),
		mgl64.DegToRad(angles[2]),
		mgl64.XYZ,
	)
}
