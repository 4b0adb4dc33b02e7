package box3d

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type b3ContactConstraint struct {
	bodyA, bodyB *B3RigidBody
	point        *B3ManifoldPoint

	normal  mgl64.Vec3 // from B to A
	tangent mgl64.Vec3
	rA, rB  mgl64.Vec3

	normalMass  float64
	tangentMass float64
	friction    float64
	bias        float64
	restitution float64
}

/// Sequential impulses over contact points: a normal impulse with restitution
/// and a position bias for penetration past the slop, plus Coulomb friction.
/// Accumulated impulses are clamped so contacts only push.
type B3SequentialImpulseConstraintSolver struct {
	M_iterations int

	M_constraints []b3ContactConstraint
}

func NewB3SequentialImpulseConstraintSolver() *B3SequentialImpulseConstraintSolver {
	return &B3SequentialImpulseConstraintSolver{
		M_iterations: B3_defaultSolverIterations,
	}
}

func (solver B3SequentialImpulseConstraintSolver) GetIterations() int {
	return solver.M_iterations
}

func (solver *B3SequentialImpulseConstraintSolver) SetIterations(iterations int) {
	B3Assert(iterations >= 1)
	solver.M_iterations = iterations
}

func b3MixFriction(a, b float64) float64 {
	return math.Sqrt(a * b)
}

func b3MixRestitution(a, b float64) float64 {
	return math.Max(a, b)
}

// Wakes a sleeping body touched by an awake dynamic one.
func b3WakeTouching(a, b *B3RigidBody) {
	if a.IsActive() && !a.IsStaticOrKinematicObject() && !b.IsActive() && !b.IsStaticOrKinematicObject() {
		b.Activate(false)
	}
}

func (solver *B3SequentialImpulseConstraintSolver) setup(manifolds []*B3ContactManifold, step B3TimeStep) {
	solver.M_constraints = solver.M_constraints[:0]

	for _, manifold := range manifolds {
		bodyA := manifold.BodyA.GetRigidBody()
		bodyB := manifold.BodyB.GetRigidBody()
		if bodyA == nil || bodyB == nil {
			continue
		}
		if !bodyA.HasContactResponse() || !bodyB.HasContactResponse() {
			continue
		}

		b3WakeTouching(bodyA, bodyB)
		b3WakeTouching(bodyB, bodyA)

		for i := range manifold.Points {
			point := &manifold.Points[i]
			c := b3ContactConstraint{
				bodyA:       bodyA,
				bodyB:       bodyB,
				point:       point,
				normal:      point.NormalWorldOnB,
				rA:          point.PositionWorldOnA.Sub(bodyA.GetCenterOfMassPosition()),
				rB:          point.PositionWorldOnB.Sub(bodyB.GetCenterOfMassPosition()),
				friction:    b3MixFriction(bodyA.GetFriction(), bodyB.GetFriction()),
				restitution: b3MixRestitution(bodyA.GetRestitution(), bodyB.GetRestitution()),
			}
			c.tangent = B3PlaneSpace(c.normal)

			kNormal := bodyA.ComputeImpulseDenominator(c.rA, c.normal) + bodyB.ComputeImpulseDenominator(c.rB, c.normal)
			if kNormal > 0.0 {
				c.normalMass = 1.0 / kNormal
			}

			// Friction direction along the current sliding velocity when there is one.
			vRel := bodyA.GetVelocityInLocalPoint(c.rA).Sub(bodyB.GetVelocityInLocalPoint(c.rB))
			slide := vRel.Sub(c.normal.Mul(vRel.Dot(c.normal)))
			if slide.LenSqr() > B3_epsilon {
				c.tangent = slide.Normalize()
			}
			kTangent := bodyA.ComputeImpulseDenominator(c.rA, c.tangent) + bodyB.ComputeImpulseDenominator(c.rB, c.tangent)
			if kTangent > 0.0 {
				c.tangentMass = 1.0 / kTangent
			}

			penetration := -point.Distance - B3_linearSlop
			if penetration > 0.0 {
				c.bias = B3_baumgarte * step.Inv_dt * penetration
			}

			approach := -vRel.Dot(c.normal)
			if approach > B3_velocityThreshold {
				c.bias = math.Max(c.bias, c.restitution*approach)
			}

			point.NormalImpulse = 0.0
			point.TangentImpulse = 0.0
			solver.M_constraints = append(solver.M_constraints, c)
		}
	}
}

func (solver *B3SequentialImpulseConstraintSolver) solveContact(c *b3ContactConstraint) {
	bodyA, bodyB := c.bodyA, c.bodyB

	// Normal
	vRel := bodyA.GetVelocityInLocalPoint(c.rA).Sub(bodyB.GetVelocityInLocalPoint(c.rB))
	lambda := c.normalMass * (c.bias - vRel.Dot(c.normal))
	newImpulse := math.Max(c.point.NormalImpulse+lambda, 0.0)
	lambda = newImpulse - c.point.NormalImpulse
	c.point.NormalImpulse = newImpulse

	impulse := c.normal.Mul(lambda)
	bodyA.ApplyImpulse(impulse, c.rA)
	bodyB.ApplyImpulse(impulse.Mul(-1), c.rB)

	// Friction
	vRel = bodyA.GetVelocityInLocalPoint(c.rA).Sub(bodyB.GetVelocityInLocalPoint(c.rB))
	lambda = -c.tangentMass * vRel.Dot(c.tangent)
	maxFriction := c.friction * c.point.NormalImpulse
	newImpulse = mgl64.Clamp(c.point.TangentImpulse+lambda, -maxFriction, maxFriction)
	lambda = newImpulse - c.point.TangentImpulse
	c.point.TangentImpulse = newImpulse

	impulse = c.tangent.Mul(lambda)
	bodyA.ApplyImpulse(impulse, c.rA)
	bodyB.ApplyImpulse(impulse.Mul(-1), c.rB)
}

/// Solves all contact points of the manifolds for one sub-step.
func (solver *B3SequentialImpulseConstraintSolver) SolveGroup(manifolds []*B3ContactManifold, step B3TimeStep) {
	solver.setup(manifolds, step)
	if len(solver.M_constraints) == 0 {
		return
	}

	for it := 0; it < solver.M_iterations; it++ {
		for i := range solver.M_constraints {
			solver.solveContact(&solver.M_constraints[i])
		}
	}
}

func (solver *B3SequentialImpulseConstraintSolver) Reset() {
	solver.M_constraints = nil
}
