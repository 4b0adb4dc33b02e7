package box3d

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

/// Everything needed to build a rigid body. Use MakeB3RigidBodyConstructionInfo
/// for sensible defaults and adjust the fields you care about.
type B3RigidBodyConstructionInfo struct {
	M_mass float64

	M_shape               B3ShapeInterface
	M_startWorldTransform B3Transform
	M_localInertia        mgl64.Vec3

	M_linearDamping  float64
	M_angularDamping float64

	M_friction    float64
	M_restitution float64

	M_linearSleepingThreshold  float64
	M_angularSleepingThreshold float64
}

func MakeB3RigidBodyConstructionInfo(mass float64, shape B3ShapeInterface, localInertia mgl64.Vec3) B3RigidBodyConstructionInfo {
	return B3RigidBodyConstructionInfo{
		M_mass:                     mass,
		M_shape:                    shape,
		M_startWorldTransform:      MakeB3Transform(),
		M_localInertia:             localInertia,
		M_friction:                 0.5,
		M_linearSleepingThreshold:  B3_linearSleepTolerance,
		M_angularSleepingThreshold: B3_angularSleepTolerance,
	}
}

/// A rigid body. Its collision object is embedded, so a *B3RigidBody can be
/// used wherever the collision object state is needed.
type B3RigidBody struct {
	B3CollisionObject

	M_inverseMass           float64
	M_invInertiaLocal       mgl64.Vec3
	M_invInertiaTensorWorld mgl64.Mat3

	M_linearVelocity  mgl64.Vec3
	M_angularVelocity mgl64.Vec3

	M_totalForce  mgl64.Vec3
	M_totalTorque mgl64.Vec3

	M_gravity             mgl64.Vec3
	M_gravityAcceleration mgl64.Vec3

	M_linearDamping  float64
	M_angularDamping float64

	M_linearSleepingThreshold  float64
	M_angularSleepingThreshold float64
}

func NewB3RigidBody(info B3RigidBodyConstructionInfo) *B3RigidBody {
	B3Assert(info.M_shape != nil)

	body := &B3RigidBody{
		B3CollisionObject:          MakeB3CollisionObject(),
		M_linearSleepingThreshold:  info.M_linearSleepingThreshold,
		M_angularSleepingThreshold: info.M_angularSleepingThreshold,
	}

	body.M_internalType = B3CollisionObjectType.E_rigidBody
	body.M_rigidBody = body
	body.M_shape = info.M_shape
	body.M_worldTransform = info.M_startWorldTransform
	body.M_friction = info.M_friction
	body.M_restitution = info.M_restitution

	body.SetDamping(info.M_linearDamping, info.M_angularDamping)
	body.SetMassProps(info.M_mass, info.M_localInertia)
	body.UpdateInertiaTensor()
	return body
}

/// Sets mass and the inertia diagonal. A mass of zero or less makes the body static.
func (body *B3RigidBody) SetMassProps(mass float64, inertia mgl64.Vec3) {
	if mass <= 0.0 {
		body.M_collisionFlags |= B3CollisionFlags.E_staticObject
		body.M_inverseMass = 0.0
	} else {
		body.M_collisionFlags &^= B3CollisionFlags.E_staticObject
		body.M_inverseMass = 1.0 / mass
	}

	for axis := 0; axis < 3; axis++ {
		body.M_invInertiaLocal[axis] = 0.0
		if inertia[axis] != 0.0 && mass > 0.0 {
			body.M_invInertiaLocal[axis] = 1.0 / inertia[axis]
		}
	}

	// Keep acceleration, recompute the force.
	body.M_gravity = body.M_gravityAcceleration.Mul(body.GetMass())
}

func (body B3RigidBody) GetMass() float64 {
	if body.M_inverseMass == 0.0 {
		return 0.0
	}
	return 1.0 / body.M_inverseMass
}

func (body B3RigidBody) GetInvMass() float64 {
	return body.M_inverseMass
}

func (body B3RigidBody) GetInvInertiaDiagLocal() mgl64.Vec3 {
	return body.M_invInertiaLocal
}

func (body B3RigidBody) GetInvInertiaTensorWorld() mgl64.Mat3 {
	return body.M_invInertiaTensorWorld
}

/// Recomputes the world inverse inertia from the current orientation.
func (body *B3RigidBody) UpdateInertiaTensor() {
	basis := body.M_worldTransform.GetBasis()
	body.M_invInertiaTensorWorld = basis.Mul3(mgl64.Diag3(body.M_invInertiaLocal)).Mul3(basis.Transpose())
}

func (body *B3RigidBody) SetDamping(linear, angular float64) {
	body.M_linearDamping = mgl64.Clamp(linear, 0.0, 1.0)
	body.M_angularDamping = mgl64.Clamp(angular, 0.0, 1.0)
}

func (body B3RigidBody) GetLinearDamping() float64 {
	return body.M_linearDamping
}

func (body B3RigidBody) GetAngularDamping() float64 {
	return body.M_angularDamping
}

func (body *B3RigidBody) SetSleepingThresholds(linear, angular float64) {
	body.M_linearSleepingThreshold = linear
	body.M_angularSleepingThreshold = angular
}

func (body B3RigidBody) GetLinearSleepingThreshold() float64 {
	return body.M_linearSleepingThreshold
}

func (body B3RigidBody) GetAngularSleepingThreshold() float64 {
	return body.M_angularSleepingThreshold
}

/// Sets the gravity acceleration. Static bodies ignore it.
func (body *B3RigidBody) SetGravity(acceleration mgl64.Vec3) {
	if body.M_inverseMass != 0.0 {
		body.M_gravity = acceleration.Mul(body.GetMass())
	}
	body.M_gravityAcceleration = acceleration
}

func (body B3RigidBody) GetGravity() mgl64.Vec3 {
	return body.M_gravityAcceleration
}

func (body *B3RigidBody) ApplyGravity() {
	if body.IsStaticOrKinematicObject() {
		return
	}
	body.ApplyCentralForce(body.M_gravity)
}

func (body B3RigidBody) GetCenterOfMassPosition() mgl64.Vec3 {
	return body.M_worldTransform.P
}

func (body B3RigidBody) GetOrientation() mgl64.Quat {
	return body.M_worldTransform.Q
}

func (body B3RigidBody) GetLinearVelocity() mgl64.Vec3 {
	return body.M_linearVelocity
}

func (body *B3RigidBody) SetLinearVelocity(v mgl64.Vec3) {
	body.M_linearVelocity = v
}

func (body B3RigidBody) GetAngularVelocity() mgl64.Vec3 {
	return body.M_angularVelocity
}

func (body *B3RigidBody) SetAngularVelocity(w mgl64.Vec3) {
	body.M_angularVelocity = w
}

/// Velocity of a point given relative to the centre of mass.
func (body B3RigidBody) GetVelocityInLocalPoint(relPos mgl64.Vec3) mgl64.Vec3 {
	return body.M_linearVelocity.Add(body.M_angularVelocity.Cross(relPos))
}

func (body B3RigidBody) GetTotalForce() mgl64.Vec3 {
	return body.M_totalForce
}

func (body B3RigidBody) GetTotalTorque() mgl64.Vec3 {
	return body.M_totalTorque
}

func (body *B3RigidBody) ApplyCentralForce(force mgl64.Vec3) {
	body.M_totalForce = body.M_totalForce.Add(force)
}

func (body *B3RigidBody) ApplyTorque(torque mgl64.Vec3) {
	body.M_totalTorque = body.M_totalTorque.Add(torque)
}

/// Applies a force at a point given relative to the centre of mass.
func (body *B3RigidBody) ApplyForce(force, relPos mgl64.Vec3) {
	body.ApplyCentralForce(force)
	body.ApplyTorque(relPos.Cross(force))
}

func (body *B3RigidBody) ApplyCentralImpulse(impulse mgl64.Vec3) {
	body.M_linearVelocity = body.M_linearVelocity.Add(impulse.Mul(body.M_inverseMass))
}

func (body *B3RigidBody) ApplyTorqueImpulse(torque mgl64.Vec3) {
	body.M_angularVelocity = body.M_angularVelocity.Add(body.M_invInertiaTensorWorld.Mul3x1(torque))
}

/// Applies an impulse at a point given relative to the centre of mass.
func (body *B3RigidBody) ApplyImpulse(impulse, relPos mgl64.Vec3) {
	if body.M_inverseMass == 0.0 {
		return
	}
	body.ApplyCentralImpulse(impulse)
	body.ApplyTorqueImpulse(relPos.Cross(impulse))
}

/// Effective inverse mass along normal at relPos.
func (body B3RigidBody) ComputeImpulseDenominator(relPos, normal mgl64.Vec3) float64 {
	rxn := relPos.Cross(normal)
	return body.M_inverseMass + body.M_invInertiaTensorWorld.Mul3x1(rxn).Cross(relPos).Dot(normal)
}

func (body *B3RigidBody) ClearForces() {
	body.M_totalForce = mgl64.Vec3{}
	body.M_totalTorque = mgl64.Vec3{}
}

/// Integrates accumulated forces into velocities and applies damping.
func (body *B3RigidBody) IntegrateVelocities(h float64) {
	if body.IsStaticOrKinematicObject() {
		return
	}

	body.M_linearVelocity = body.M_linearVelocity.Add(body.M_totalForce.Mul(body.M_inverseMass * h))
	body.M_angularVelocity = body.M_angularVelocity.Add(body.M_invInertiaTensorWorld.Mul3x1(body.M_totalTorque).Mul(h))

	body.ApplyDamping(h)
}

func (body *B3RigidBody) ApplyDamping(h float64) {
	body.M_linearVelocity = body.M_linearVelocity.Mul(math.Pow(1.0-body.M_linearDamping, h))
	body.M_angularVelocity = body.M_angularVelocity.Mul(math.Pow(1.0-body.M_angularDamping, h))
}

/// Moves the body by its velocities over h seconds. Large motions are clamped.
func (body *B3RigidBody) IntegrateTransform(h float64) {
	if body.IsStaticOrKinematicObject() {
		return
	}

	translation := body.M_linearVelocity.Mul(h)
	if translation.LenSqr() > B3_maxTranslationSquared {
		ratio := B3_maxTranslation / translation.Len()
		body.M_linearVelocity = body.M_linearVelocity.Mul(ratio)
	}

	rotation := body.M_angularVelocity.Mul(h)
	if rotation.LenSqr() > B3_maxRotationSquared {
		ratio := B3_maxRotation / rotation.Len()
		body.M_angularVelocity = body.M_angularVelocity.Mul(ratio)
	}

	body.M_worldTransform.P = body.M_worldTransform.P.Add(body.M_linearVelocity.Mul(h))
	body.M_worldTransform.Q = B3QuatIntegrate(body.M_worldTransform.Q, body.M_angularVelocity, h)
	body.UpdateInertiaTensor()
}

/// Advances the deactivation timer while the body is slower than its thresholds.
func (body *B3RigidBody) UpdateDeactivation(h float64) {
	state := body.GetActivationState()
	if state == B3ActivationState.E_islandSleeping || state == B3ActivationState.E_disableDeactivation {
		return
	}

	linear := body.M_linearSleepingThreshold
	angular := body.M_angularSleepingThreshold
	if body.M_linearVelocity.LenSqr() < linear*linear && body.M_angularVelocity.LenSqr() < angular*angular {
		body.M_deactivationTime += h
	} else {
		body.M_deactivationTime = 0.0
		body.SetActivationState(B3ActivationState.E_activeTag)
	}
}

func (body B3RigidBody) WantsSleeping() bool {
	switch body.GetActivationState() {
	case B3ActivationState.E_disableDeactivation:
		return false
	case B3ActivationState.E_islandSleeping, B3ActivationState.E_wantsDeactivation:
		return true
	}
	return body.M_deactivationTime > B3_timeToSleep
}

/// Puts the body to sleep and zeroes its motion.
func (body *B3RigidBody) Sleep() {
	body.SetActivationState(B3ActivationState.E_islandSleeping)
	body.M_linearVelocity = mgl64.Vec3{}
	body.M_angularVelocity = mgl64.Vec3{}
	body.ClearForces()
}

/// Returns the embedded collision object.
func (body *B3RigidBody) GetCollisionObject() *B3CollisionObject {
	return &body.B3CollisionObject
}
