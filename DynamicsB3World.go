package box3d

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

/// Lifetime, in steps, of unused sparse distance cells.
const B3_sdfCellLifetime = 256

/// The world owns no subsystem: dispatcher, broadphase, solver and configuration
/// are handed in and outlive it. It manages collision objects, runs the step
/// pipeline and keeps activation states up to date.
type B3DynamicsWorld struct {
	M_dispatcher             *B3CollisionDispatcher
	M_broadphase             *B3BroadPhase
	M_solver                 *B3SequentialImpulseConstraintSolver
	M_collisionConfiguration *B3DefaultCollisionConfiguration

	M_collisionObjects []*B3CollisionObject
	M_rigidBodies      []*B3RigidBody
	M_softBodies       []*B3SoftBody

	M_gravity      mgl64.Vec3
	M_dispatchInfo B3DispatcherInfo

	M_localTime         float64
	M_lastFixedTimeStep float64
	M_lastSubStepCount  int
	M_stepCount         int

	M_manifolds []*B3ContactManifold

	M_contactListener B3ContactListenerInterface

	M_profile B3Profile
}

func NewB3DynamicsWorld(dispatcher *B3CollisionDispatcher, broadphase *B3BroadPhase, solver *B3SequentialImpulseConstraintSolver, configuration *B3DefaultCollisionConfiguration) *B3DynamicsWorld {
	B3Assert(dispatcher != nil)
	B3Assert(broadphase != nil)
	B3Assert(solver != nil)
	B3Assert(configuration != nil)

	return &B3DynamicsWorld{
		M_dispatcher:             dispatcher,
		M_broadphase:             broadphase,
		M_solver:                 solver,
		M_collisionConfiguration: configuration,
		M_gravity:                mgl64.Vec3{0, -10, 0},
		M_dispatchInfo:           MakeB3DispatcherInfo(),
		M_profile:                MakeB3Profile(),
	}
}

func (world B3DynamicsWorld) GetDispatcher() *B3CollisionDispatcher {
	return world.M_dispatcher
}

func (world B3DynamicsWorld) GetBroadphase() *B3BroadPhase {
	return world.M_broadphase
}

func (world B3DynamicsWorld) GetConstraintSolver() *B3SequentialImpulseConstraintSolver {
	return world.M_solver
}

func (world B3DynamicsWorld) GetCollisionConfiguration() *B3DefaultCollisionConfiguration {
	return world.M_collisionConfiguration
}

func (world *B3DynamicsWorld) GetDispatchInfo() *B3DispatcherInfo {
	return &world.M_dispatchInfo
}

/// Register a contact filter to provide specific control over collision.
/// Otherwise the group/mask filter is used.
func (world *B3DynamicsWorld) SetContactFilter(filter B3ContactFilterInterface) {
	world.M_dispatcher.SetContactFilter(filter)
}

/// Register a contact event listener.
func (world *B3DynamicsWorld) SetContactListener(listener B3ContactListenerInterface) {
	world.M_contactListener = listener
}

/// Sets the world gravity and pushes it to every dynamic rigid body.
func (world *B3DynamicsWorld) SetGravity(gravity mgl64.Vec3) {
	world.M_gravity = gravity
	for _, body := range world.M_rigidBodies {
		if !body.IsStaticOrKinematicObject() {
			body.SetGravity(gravity)
		}
	}
}

func (world B3DynamicsWorld) GetGravity() mgl64.Vec3 {
	return world.M_gravity
}

/// Every rigid and soft body in the world. Removal moves the last object into
/// the freed slot.
func (world B3DynamicsWorld) GetCollisionObjectArray() []*B3CollisionObject {
	return world.M_collisionObjects
}

func (world B3DynamicsWorld) GetNumCollisionObjects() int {
	return len(world.M_collisionObjects)
}

func (world B3DynamicsWorld) GetRigidBodies() []*B3RigidBody {
	return world.M_rigidBodies
}

func (world B3DynamicsWorld) GetSoftBodies() []*B3SoftBody {
	return world.M_softBodies
}

func (world B3DynamicsWorld) GetLastFixedTimeStep() float64 {
	return world.M_lastFixedTimeStep
}

func (world B3DynamicsWorld) GetLastSubStepCount() int {
	return world.M_lastSubStepCount
}

func (world B3DynamicsWorld) GetStepCount() int {
	return world.M_stepCount
}

/// Manifolds produced by the last sub-step.
func (world B3DynamicsWorld) GetContactManifolds() []*B3ContactManifold {
	return world.M_manifolds
}

func (world B3DynamicsWorld) GetProfile() B3Profile {
	return world.M_profile
}

func (world B3DynamicsWorld) GetProxyCount() int {
	return world.M_broadphase.GetProxyCount()
}

func (world B3DynamicsWorld) GetTreeHeight() int {
	return world.M_broadphase.GetTreeHeight()
}

/// True when the object is currently part of this world.
func (world B3DynamicsWorld) Contains(obj *B3CollisionObject) bool {
	if obj == nil {
		return false
	}
	i := obj.M_worldArrayIndex
	return 0 <= i && i < len(world.M_collisionObjects) && world.M_collisionObjects[i] == obj
}

func (world *B3DynamicsWorld) addCollisionObject(obj *B3CollisionObject) {
	B3Assert(!world.Contains(obj))
	B3Assert(obj.M_worldArrayIndex == -1)

	obj.M_worldArrayIndex = len(world.M_collisionObjects)
	world.M_collisionObjects = append(world.M_collisionObjects, obj)
	obj.M_broadphaseProxyId = world.M_broadphase.CreateProxy(obj.ComputeAABB(), obj)
}

// Returns false when the object is not in this world.
func (world *B3DynamicsWorld) removeCollisionObject(obj *B3CollisionObject) bool {
	if !world.Contains(obj) {
		return false
	}

	if obj.M_broadphaseProxyId != E_nullProxy {
		world.M_dispatcher.RemovePairsContainingProxy(obj.M_broadphaseProxyId)
		world.M_broadphase.DestroyProxy(obj.M_broadphaseProxyId)
		obj.M_broadphaseProxyId = E_nullProxy
	}

	// Swap with the last object.
	i := obj.M_worldArrayIndex
	last := len(world.M_collisionObjects) - 1
	if i != last {
		world.M_collisionObjects[i] = world.M_collisionObjects[last]
		world.M_collisionObjects[i].M_worldArrayIndex = i
	}
	world.M_collisionObjects[last] = nil
	world.M_collisionObjects = world.M_collisionObjects[:last]
	obj.M_worldArrayIndex = -1
	return true
}

/// Adds a rigid body. Dynamic bodies take the world gravity. Adding a body
/// twice is a programming error.
func (world *B3DynamicsWorld) AddRigidBody(body *B3RigidBody) {
	B3Assert(body != nil)
	if !body.IsStaticOrKinematicObject() {
		body.SetGravity(world.M_gravity)
	}
	world.addCollisionObject(&body.B3CollisionObject)
	world.M_rigidBodies = append(world.M_rigidBodies, body)
}

/// Removes a rigid body. Bodies that are not in the world are ignored.
func (world *B3DynamicsWorld) RemoveRigidBody(body *B3RigidBody) {
	if body == nil || !world.removeCollisionObject(&body.B3CollisionObject) {
		return
	}
	for i, b := range world.M_rigidBodies {
		if b == body {
			world.M_rigidBodies = append(world.M_rigidBodies[:i], world.M_rigidBodies[i+1:]...)
			break
		}
	}
}

/// Adds a soft body. Adding a body twice is a programming error.
func (world *B3DynamicsWorld) AddSoftBody(body *B3SoftBody) {
	B3Assert(body != nil)
	world.addCollisionObject(&body.B3CollisionObject)
	world.M_softBodies = append(world.M_softBodies, body)
}

/// Removes a soft body. Bodies that are not in the world are ignored.
func (world *B3DynamicsWorld) RemoveSoftBody(body *B3SoftBody) {
	if body == nil || !world.removeCollisionObject(&body.B3CollisionObject) {
		return
	}
	for i, b := range world.M_softBodies {
		if b == body {
			world.M_softBodies = append(world.M_softBodies[:i], world.M_softBodies[i+1:]...)
			break
		}
	}
}

/// Removes every object and its proxy.
func (world *B3DynamicsWorld) Destroy() {
	for len(world.M_collisionObjects) > 0 {
		obj := world.M_collisionObjects[len(world.M_collisionObjects)-1]
		world.removeCollisionObject(obj)
	}
	world.M_rigidBodies = nil
	world.M_softBodies = nil
	world.M_manifolds = nil
	world.M_solver.Reset()
}

/// Query the world for all collision objects that potentially overlap the
/// provided AABB.
func (world *B3DynamicsWorld) QueryAABB(callback B3BroadPhaseQueryCallback, aabb B3AABB) {
	world.M_broadphase.Query(func(proxyId int) bool {
		return callback(world.M_broadphase.GetUserData(proxyId).(*B3CollisionObject))
	}, aabb)
}

/// Advances the world by timeStep using fixed sub-steps of fixedTimeStep.
/// Left-over time is carried to the next call. At most maxSubSteps sub-steps
/// run; with maxSubSteps <= 0 a single variable step of timeStep runs instead.
/// Returns the number of sub-steps the elapsed time called for, before clamping.
func (world *B3DynamicsWorld) StepSimulation(timeStep float64, maxSubSteps int, fixedTimeStep float64) int {
	stepTimer := MakeB3Timer()

	numSimulationSubSteps := 0
	if maxSubSteps > 0 {
		B3Assert(fixedTimeStep > 0.0)
		world.M_localTime += timeStep
		if world.M_localTime >= fixedTimeStep {
			numSimulationSubSteps = int(math.Floor(world.M_localTime / fixedTimeStep))
			world.M_localTime -= float64(numSimulationSubSteps) * fixedTimeStep
		}
	} else {
		fixedTimeStep = timeStep
		world.M_localTime = 0.0
		maxSubSteps = 1
		if math.Abs(timeStep) > B3_epsilon {
			numSimulationSubSteps = 1
		}
	}

	clampedSimulationSteps := 0
	if numSimulationSubSteps > 0 {
		clampedSimulationSteps = MinInt(numSimulationSubSteps, maxSubSteps)

		world.applyGravity()
		for i := 0; i < clampedSimulationSteps; i++ {
			world.InternalSingleStepSimulation(fixedTimeStep)
		}
	}

	world.ClearForces()

	world.M_lastFixedTimeStep = fixedTimeStep
	world.M_lastSubStepCount = clampedSimulationSteps
	world.M_profile.Step = stepTimer.GetMilliseconds()

	return numSimulationSubSteps
}

func (world *B3DynamicsWorld) applyGravity() {
	for _, body := range world.M_rigidBodies {
		if body.IsActive() {
			body.ApplyGravity()
		}
	}
}

func (world *B3DynamicsWorld) ClearForces() {
	for _, body := range world.M_rigidBodies {
		body.ClearForces()
	}
}

/// One fixed step of the pipeline.
func (world *B3DynamicsWorld) InternalSingleStepSimulation(h float64) {
	world.M_stepCount++
	world.M_dispatchInfo.M_timeStep = h
	world.M_dispatchInfo.M_stepCount = world.M_stepCount
	step := MakeB3TimeStep(h, world.M_solver.GetIterations())

	// Integrate forces.
	for _, body := range world.M_rigidBodies {
		if body.IsActive() {
			body.IntegrateVelocities(h)
		}
	}

	{
		timer := MakeB3Timer()
		for _, soft := range world.M_softBodies {
			if soft.GetActivationState() != B3ActivationState.E_disableSimulation {
				soft.PredictMotion(h)
			}
		}
		world.M_profile.SoftBodies = timer.GetMilliseconds()
	}

	{
		timer := MakeB3Timer()
		world.UpdateAabbs(h)
		world.M_broadphase.UpdatePairs(world.addPair)
		world.M_profile.Broadphase = timer.GetMilliseconds()
	}

	{
		timer := MakeB3Timer()
		world.M_manifolds = world.M_dispatcher.DispatchAllCollisionPairs(world.M_broadphase, &world.M_dispatchInfo)
		if world.M_contactListener != nil {
			for _, manifold := range world.M_manifolds {
				world.M_contactListener.OnContact(manifold)
			}
		}
		world.M_profile.Narrowphase = timer.GetMilliseconds()
	}

	{
		timer := MakeB3Timer()
		world.M_solver.SolveGroup(world.M_manifolds, step)
		for _, body := range world.M_rigidBodies {
			if body.IsActive() {
				body.IntegrateTransform(h)
			}
		}
		world.M_profile.Solve = timer.GetMilliseconds()
	}

	{
		timer := MakeB3Timer()
		world.solveSoftBodies(h)
		world.M_profile.SoftBodies += timer.GetMilliseconds()
	}

	world.UpdateActivationState(h)
}

func (world *B3DynamicsWorld) addPair(userDataA, userDataB interface{}) {
	world.M_dispatcher.AddPair(userDataA.(*B3CollisionObject), userDataB.(*B3CollisionObject))
}

/// Moves every proxy to the current bounds of its object.
func (world *B3DynamicsWorld) UpdateAabbs(h float64) {
	for _, obj := range world.M_collisionObjects {
		var displacement mgl64.Vec3
		if body := obj.GetRigidBody(); body != nil {
			displacement = body.GetLinearVelocity().Mul(h)
		}
		world.M_broadphase.MoveProxy(obj.M_broadphaseProxyId, obj.ComputeAABB(), displacement)
	}
}

func (world *B3DynamicsWorld) solveSoftBodies(h float64) {
	if len(world.M_softBodies) == 0 {
		return
	}

	infos := make(map[*B3SoftBodyWorldInfo]struct{})
	for _, soft := range world.M_softBodies {
		if soft.GetActivationState() == B3ActivationState.E_disableSimulation {
			continue
		}
		soft.SolveConstraints(h, world.M_rigidBodies)
		infos[soft.GetWorldInfo()] = struct{}{}
	}

	for info := range infos {
		info.M_sparsesdf.GarbageCollect(B3_sdfCellLifetime)
	}
}

/// Advances deactivation timers and puts islands of resting bodies to sleep.
/// An island is a set of dynamic bodies connected by contacts of this step; it
/// sleeps only when every member wants to.
func (world *B3DynamicsWorld) UpdateActivationState(h float64) {
	for _, body := range world.M_rigidBodies {
		body.UpdateDeactivation(h)

		state := body.GetActivationState()
		if !body.WantsSleeping() {
			if state != B3ActivationState.E_disableDeactivation {
				body.SetActivationState(B3ActivationState.E_activeTag)
			}
			continue
		}

		if body.IsStaticOrKinematicObject() {
			body.SetActivationState(B3ActivationState.E_islandSleeping)
			continue
		}
		if state == B3ActivationState.E_activeTag {
			body.SetActivationState(B3ActivationState.E_wantsDeactivation)
		}
	}

	islands := world.buildIslands()
	for _, members := range islands {
		allSleepy := true
		for _, body := range members {
			state := body.GetActivationState()
			if state != B3ActivationState.E_wantsDeactivation && state != B3ActivationState.E_islandSleeping {
				allSleepy = false
				break
			}
		}

		for _, body := range members {
			if allSleepy {
				body.Sleep()
			} else if body.GetActivationState() == B3ActivationState.E_islandSleeping {
				body.SetActivationState(B3ActivationState.E_wantsDeactivation)
				body.M_deactivationTime = 0.0
			}
		}
	}
}

// Groups dynamic rigid bodies through the contacts of the last sub-step.
func (world *B3DynamicsWorld) buildIslands() [][]*B3RigidBody {
	parent := make(map[*B3RigidBody]*B3RigidBody)
	find := func(b *B3RigidBody) *B3RigidBody {
		for parent[b] != b {
			parent[b] = parent[parent[b]]
			b = parent[b]
		}
		return b
	}

	order := make([]*B3RigidBody, 0, len(world.M_rigidBodies))
	for _, body := range world.M_rigidBodies {
		if body.IsStaticOrKinematicObject() {
			continue
		}
		parent[body] = body
		order = append(order, body)
	}

	for _, manifold := range world.M_manifolds {
		a := manifold.BodyA.GetRigidBody()
		b := manifold.BodyB.GetRigidBody()
		if a == nil || b == nil {
			continue
		}
		if _, ok := parent[a]; !ok {
			continue
		}
		if _, ok := parent[b]; !ok {
			continue
		}
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}

	index := make(map[*B3RigidBody]int)
	var islands [][]*B3RigidBody
	for _, body := range order {
		root := find(body)
		i, ok := index[root]
		if !ok {
			i = len(islands)
			index[root] = i
			islands = append(islands, nil)
		}
		islands[i] = append(islands[i], body)
	}
	return islands
}
