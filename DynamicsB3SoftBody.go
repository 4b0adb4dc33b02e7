package box3d

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

/// A soft body point mass.
type B3SoftBodyNode struct {
	M_x  mgl64.Vec3 // position
	M_q  mgl64.Vec3 // position before the current step
	M_v  mgl64.Vec3 // velocity
	M_f  mgl64.Vec3 // accumulated force
	M_im float64    // inverse mass, 0 for pinned nodes
}

/// A distance constraint between two nodes.
type B3SoftBodyLink struct {
	M_n   [2]int
	M_rl  float64 // rest length
	M_kst float64 // stiffness in [0, 1]
}

/// Solver settings of one soft body.
type B3SoftBodyConfig struct {
	M_piterations int     // position solver iterations
	M_kDP         float64 // velocity damping per step [0, 1]
	M_kDG         float64 // drag coefficient
	M_kDF         float64 // friction against rigid bodies [0, 1]
	M_kCHR        float64 // rigid contact hardness [0, 1]
}

func MakeB3SoftBodyConfig() B3SoftBodyConfig {
	return B3SoftBodyConfig{
		M_piterations: 4,
		M_kDP:         0.0,
		M_kDG:         0.0,
		M_kDF:         0.2,
		M_kCHR:        1.0,
	}
}

/// A mass-spring style body solved with position constraints. Nodes are pushed
/// out of rigid bodies through the world's sparse distance cache. Soft bodies
/// never fall asleep on their own.
type B3SoftBody struct {
	B3CollisionObject

	M_worldInfo *B3SoftBodyWorldInfo

	M_nodes []B3SoftBodyNode
	M_links []B3SoftBodyLink
	M_cfg   B3SoftBodyConfig

	M_bounds B3AABB
}

/// Builds a body with one node per position. A nil masses slice gives every
/// node a unit mass; a zero mass pins the node.
func NewB3SoftBody(worldInfo *B3SoftBodyWorldInfo, positions []mgl64.Vec3, masses []float64) *B3SoftBody {
	B3Assert(worldInfo != nil)
	B3Assert(masses == nil || len(masses) == len(positions))

	body := &B3SoftBody{
		B3CollisionObject: MakeB3CollisionObject(),
		M_worldInfo:       worldInfo,
		M_nodes:           make([]B3SoftBodyNode, len(positions)),
		M_cfg:             MakeB3SoftBodyConfig(),
	}
	body.M_internalType = B3CollisionObjectType.E_softBody
	body.M_softBody = body

	for i, x := range positions {
		mass := 1.0
		if masses != nil {
			mass = masses[i]
		}
		node := &body.M_nodes[i]
		node.M_x = x
		node.M_q = x
		if mass > 0.0 {
			node.M_im = 1.0 / mass
		}
	}
	body.updateBounds()
	return body
}

func (body B3SoftBody) GetWorldInfo() *B3SoftBodyWorldInfo {
	return body.M_worldInfo
}

func (body *B3SoftBody) SetWorldInfo(info *B3SoftBodyWorldInfo) {
	B3Assert(info != nil)
	body.M_worldInfo = info
}

func (body B3SoftBody) GetConfig() B3SoftBodyConfig {
	return body.M_cfg
}

func (body *B3SoftBody) SetConfig(cfg B3SoftBodyConfig) {
	B3Assert(cfg.M_piterations >= 1)
	body.M_cfg = cfg
}

func (body B3SoftBody) GetNodes() []B3SoftBodyNode {
	return body.M_nodes
}

func (body B3SoftBody) GetNumNodes() int {
	return len(body.M_nodes)
}

func (body B3SoftBody) GetLinks() []B3SoftBodyLink {
	return body.M_links
}

func (body B3SoftBody) GetNumLinks() int {
	return len(body.M_links)
}

/// Links nodes a and b at their current distance.
func (body *B3SoftBody) AppendLink(a, b int, kst float64) {
	B3Assert(0 <= a && a < len(body.M_nodes))
	B3Assert(0 <= b && b < len(body.M_nodes))
	B3Assert(a != b)
	body.M_links = append(body.M_links, B3SoftBodyLink{
		M_n:   [2]int{a, b},
		M_rl:  body.M_nodes[a].M_x.Sub(body.M_nodes[b].M_x).Len(),
		M_kst: mgl64.Clamp(kst, 0.0, 1.0),
	})
}

/// Sets the mass of one node. Zero pins it.
func (body *B3SoftBody) SetMass(node int, mass float64) {
	B3Assert(0 <= node && node < len(body.M_nodes))
	body.M_nodes[node].M_im = 0.0
	if mass > 0.0 {
		body.M_nodes[node].M_im = 1.0 / mass
	}
}

func (body B3SoftBody) GetMass(node int) float64 {
	B3Assert(0 <= node && node < len(body.M_nodes))
	if body.M_nodes[node].M_im == 0.0 {
		return 0.0
	}
	return 1.0 / body.M_nodes[node].M_im
}

/// Spreads mass evenly over the free nodes. Pinned nodes stay pinned.
func (body *B3SoftBody) SetTotalMass(mass float64) {
	free := 0
	for _, node := range body.M_nodes {
		if node.M_im > 0.0 {
			free++
		}
	}
	if free == 0 || mass <= 0.0 {
		return
	}
	im := float64(free) / mass
	for i := range body.M_nodes {
		if body.M_nodes[i].M_im > 0.0 {
			body.M_nodes[i].M_im = im
		}
	}
}

func (body B3SoftBody) GetTotalMass() float64 {
	total := 0.0
	for i := range body.M_nodes {
		total += body.GetMass(i)
	}
	return total
}

func (body *B3SoftBody) AddForce(force mgl64.Vec3) {
	for i := range body.M_nodes {
		body.M_nodes[i].M_f = body.M_nodes[i].M_f.Add(force)
	}
}

func (body *B3SoftBody) Translate(d mgl64.Vec3) {
	for i := range body.M_nodes {
		body.M_nodes[i].M_x = body.M_nodes[i].M_x.Add(d)
		body.M_nodes[i].M_q = body.M_nodes[i].M_q.Add(d)
	}
	body.updateBounds()
}

func (body *B3SoftBody) updateBounds() {
	if len(body.M_nodes) == 0 {
		body.M_bounds = B3AABB{}
		return
	}
	body.M_bounds = B3AABB{LowerBound: body.M_nodes[0].M_x, UpperBound: body.M_nodes[0].M_x}
	for _, node := range body.M_nodes[1:] {
		body.M_bounds.LowerBound = B3Vec3Min(body.M_bounds.LowerBound, node.M_x)
		body.M_bounds.UpperBound = B3Vec3Max(body.M_bounds.UpperBound, node.M_x)
	}
}

/// Node bounds grown by the default margin.
func (body *B3SoftBody) ComputeAABB() B3AABB {
	return body.M_bounds.Expand(B3_defaultMargin)
}

/// Applies external forces and moves every free node to its predicted position.
func (body *B3SoftBody) PredictMotion(h float64) {
	info := body.M_worldInfo
	for i := range body.M_nodes {
		node := &body.M_nodes[i]
		node.M_q = node.M_x

		if node.M_im > 0.0 {
			acc := info.M_gravity.Add(node.M_f.Mul(node.M_im))

			// Quadratic drag, scaled by air density.
			if body.M_cfg.M_kDG > 0.0 && info.M_airDensity > 0.0 {
				speed := node.M_v.Len()
				drag := node.M_v.Mul(-0.5 * info.M_airDensity * body.M_cfg.M_kDG * speed)
				acc = acc.Add(drag.Mul(node.M_im))
			}

			// Nodes are unit density, so water of density 1 cancels gravity.
			if info.IsSubmerged(node.M_x) {
				acc = acc.Sub(info.M_gravity.Mul(info.M_waterDensity))
			}

			node.M_v = node.M_v.Add(acc.Mul(h))
			node.M_v = node.M_v.Mul(1.0 - body.M_cfg.M_kDP)
			node.M_x = node.M_x.Add(node.M_v.Mul(h))
		} else {
			node.M_v = mgl64.Vec3{}
		}
		node.M_f = mgl64.Vec3{}
	}
	body.updateBounds()
}

func (body *B3SoftBody) solveLinks() {
	for _, link := range body.M_links {
		n1 := &body.M_nodes[link.M_n[0]]
		n2 := &body.M_nodes[link.M_n[1]]
		w := n1.M_im + n2.M_im
		if w == 0.0 {
			continue
		}

		d := n2.M_x.Sub(n1.M_x)
		length := d.Len()
		if length < B3_epsilon {
			continue
		}

		c := link.M_kst * (length - link.M_rl) / (length * w)
		n1.M_x = n1.M_x.Add(d.Mul(c * n1.M_im))
		n2.M_x = n2.M_x.Sub(d.Mul(c * n2.M_im))
	}
}

// Pushes nodes out of overlapping rigid bodies and applies friction along the surface.
func (body *B3SoftBody) solveRigidContacts(rigids []*B3RigidBody) {
	sdf := &body.M_worldInfo.M_sparsesdf
	bounds := body.ComputeAABB()

	for _, rigid := range rigids {
		if !body.canCollideWith(rigid) {
			continue
		}
		rigidBounds := rigid.ComputeAABB()
		if !B3TestOverlapBoundingBoxes(bounds, rigidBounds) {
			continue
		}

		xf := rigid.GetWorldTransform()
		shape := rigid.GetShape()
		margin := shape.GetMargin()
		for i := range body.M_nodes {
			node := &body.M_nodes[i]
			if node.M_im == 0.0 || !b3PointInAABB(node.M_x, rigidBounds) {
				continue
			}

			dist, localNormal := sdf.Evaluate(xf.ApplyInverse(node.M_x), shape, margin)
			if dist >= 0.0 {
				continue
			}

			n := xf.ApplyRotation(localNormal)
			node.M_x = node.M_x.Sub(n.Mul(dist * body.M_cfg.M_kCHR))

			// Remove part of the tangential motion of this step.
			step := node.M_x.Sub(node.M_q)
			tangent := step.Sub(n.Mul(step.Dot(n)))
			node.M_x = node.M_x.Sub(tangent.Mul(body.M_cfg.M_kDF))
		}
	}
}

func (body *B3SoftBody) canCollideWith(rigid *B3RigidBody) bool {
	if rigid.GetShape() == nil || !rigid.HasContactResponse() {
		return false
	}
	return B3DefaultShouldCollide(&body.B3CollisionObject, &rigid.B3CollisionObject)
}

func b3PointInAABB(p mgl64.Vec3, bb B3AABB) bool {
	for axis := 0; axis < 3; axis++ {
		if p[axis] < bb.LowerBound[axis] || p[axis] > bb.UpperBound[axis] {
			return false
		}
	}
	return true
}

/// Solves links and rigid contacts, then derives velocities from the motion.
func (body *B3SoftBody) SolveConstraints(h float64, rigids []*B3RigidBody) {
	if h <= 0.0 {
		return
	}

	for it := 0; it < body.M_cfg.M_piterations; it++ {
		body.solveLinks()
	}
	if len(rigids) > 0 {
		body.solveRigidContacts(rigids)
	}

	invH := 1.0 / h
	for i := range body.M_nodes {
		node := &body.M_nodes[i]
		node.M_v = node.M_x.Sub(node.M_q).Mul(invH)
		if !B3Vec3IsValid(node.M_v) {
			node.M_v = mgl64.Vec3{}
		}
	}
	body.updateBounds()
}

/// Average node position.
func (body B3SoftBody) GetCenter() mgl64.Vec3 {
	var c mgl64.Vec3
	if len(body.M_nodes) == 0 {
		return c
	}
	for _, node := range body.M_nodes {
		c = c.Add(node.M_x)
	}
	return c.Mul(1.0 / float64(len(body.M_nodes)))
}

/// Largest relative error of any link length, for tests and diagnostics.
func (body B3SoftBody) GetMaxLinkStrain() float64 {
	strain := 0.0
	for _, link := range body.M_links {
		if link.M_rl == 0.0 {
			continue
		}
		l := body.M_nodes[link.M_n[0]].M_x.Sub(body.M_nodes[link.M_n[1]].M_x).Len()
		strain = math.Max(strain, math.Abs(l-link.M_rl)/link.M_rl)
	}
	return strain
}

func (body *B3SoftBody) GetCollisionObject() *B3CollisionObject {
	return &body.B3CollisionObject
}
