package box3d

/// The concrete kind behind a collision object.
var B3CollisionObjectType = struct {
	E_collisionObject uint8
	E_rigidBody       uint8
	E_softBody        uint8
}{
	E_collisionObject: 1,
	E_rigidBody:       2,
	E_softBody:        8,
}

/// Activation states. Sleeping and simulation-disabled objects are inactive.
var B3ActivationState = struct {
	E_activeTag           int
	E_islandSleeping      int
	E_wantsDeactivation   int
	E_disableDeactivation int
	E_disableSimulation   int
}{
	E_activeTag:           1,
	E_islandSleeping:      2,
	E_wantsDeactivation:   3,
	E_disableDeactivation: 4,
	E_disableSimulation:   5,
}

var B3CollisionFlags = struct {
	E_staticObject      int
	E_kinematicObject   int
	E_noContactResponse int
}{
	E_staticObject:      1,
	E_kinematicObject:   2,
	E_noContactResponse: 4,
}

/// Default filter: belongs to group 1 and collides with everything.
const B3_defaultFilterGroup = 1
const B3_allFilter = -1

/// State shared by rigid and soft bodies: placement, shape, activation and the
/// bookkeeping that links the object to the broadphase and the world.
type B3CollisionObject struct {
	M_internalType uint8

	M_worldTransform B3Transform
	M_shape          B3ShapeInterface

	M_collisionFlags int

	M_activationState  int
	M_deactivationTime float64

	M_friction    float64
	M_restitution float64

	M_collisionFilterGroup int
	M_collisionFilterMask  int

	M_broadphaseProxyId int

	// Position in the world's collision object array, -1 when not in a world.
	M_worldArrayIndex int

	M_rigidBody *B3RigidBody
	M_softBody  *B3SoftBody

	M_userData interface{}
}

func MakeB3CollisionObject() B3CollisionObject {
	return B3CollisionObject{
		M_internalType:         B3CollisionObjectType.E_collisionObject,
		M_worldTransform:       MakeB3Transform(),
		M_activationState:      B3ActivationState.E_activeTag,
		M_friction:             0.5,
		M_collisionFilterGroup: B3_defaultFilterGroup,
		M_collisionFilterMask:  B3_allFilter,
		M_broadphaseProxyId:    E_nullProxy,
		M_worldArrayIndex:      -1,
	}
}

func (co B3CollisionObject) GetInternalType() uint8 {
	return co.M_internalType
}

func (co B3CollisionObject) GetShape() B3ShapeInterface {
	return co.M_shape
}

func (co *B3CollisionObject) SetShape(shape B3ShapeInterface) {
	co.M_shape = shape
}

func (co B3CollisionObject) GetWorldTransform() B3Transform {
	return co.M_worldTransform
}

func (co *B3CollisionObject) SetWorldTransform(xf B3Transform) {
	co.M_worldTransform = xf
}

func (co B3CollisionObject) GetCollisionFlags() int {
	return co.M_collisionFlags
}

func (co *B3CollisionObject) SetCollisionFlags(flags int) {
	co.M_collisionFlags = flags
}

func (co B3CollisionObject) IsStaticObject() bool {
	return co.M_collisionFlags&B3CollisionFlags.E_staticObject != 0
}

func (co B3CollisionObject) IsKinematicObject() bool {
	return co.M_collisionFlags&B3CollisionFlags.E_kinematicObject != 0
}

func (co B3CollisionObject) IsStaticOrKinematicObject() bool {
	return co.M_collisionFlags&(B3CollisionFlags.E_staticObject|B3CollisionFlags.E_kinematicObject) != 0
}

func (co B3CollisionObject) HasContactResponse() bool {
	return co.M_collisionFlags&B3CollisionFlags.E_noContactResponse == 0
}

func (co B3CollisionObject) GetActivationState() int {
	return co.M_activationState
}

/// Changes the state unless deactivation or simulation has been disabled.
func (co *B3CollisionObject) SetActivationState(newState int) {
	if co.M_activationState != B3ActivationState.E_disableDeactivation &&
		co.M_activationState != B3ActivationState.E_disableSimulation {
		co.M_activationState = newState
	}
}

/// Changes the state unconditionally.
func (co *B3CollisionObject) ForceActivationState(newState int) {
	co.M_activationState = newState
}

/// Wakes the object. Static and kinematic objects are only woken when forced.
func (co *B3CollisionObject) Activate(forceActivation bool) {
	if forceActivation || !co.IsStaticOrKinematicObject() {
		co.SetActivationState(B3ActivationState.E_activeTag)
		co.M_deactivationTime = 0.0
	}
}

func (co B3CollisionObject) IsActive() bool {
	state := co.M_activationState
	return state != B3ActivationState.E_islandSleeping && state != B3ActivationState.E_disableSimulation
}

func (co B3CollisionObject) GetDeactivationTime() float64 {
	return co.M_deactivationTime
}

func (co B3CollisionObject) GetFriction() float64 {
	return co.M_friction
}

func (co *B3CollisionObject) SetFriction(friction float64) {
	co.M_friction = friction
}

func (co B3CollisionObject) GetRestitution() float64 {
	return co.M_restitution
}

func (co *B3CollisionObject) SetRestitution(restitution float64) {
	co.M_restitution = restitution
}

func (co *B3CollisionObject) SetCollisionFilter(group, mask int) {
	co.M_collisionFilterGroup = group
	co.M_collisionFilterMask = mask
}

func (co B3CollisionObject) GetBroadphaseProxyId() int {
	return co.M_broadphaseProxyId
}

func (co B3CollisionObject) GetWorldArrayIndex() int {
	return co.M_worldArrayIndex
}

/// The owning rigid body, nil for other kinds.
func (co B3CollisionObject) GetRigidBody() *B3RigidBody {
	if co.M_internalType != B3CollisionObjectType.E_rigidBody {
		return nil
	}
	return co.M_rigidBody
}

/// The owning soft body, nil for other kinds.
func (co B3CollisionObject) GetSoftBody() *B3SoftBody {
	if co.M_internalType != B3CollisionObjectType.E_softBody {
		return nil
	}
	return co.M_softBody
}

func (co B3CollisionObject) GetUserData() interface{} {
	return co.M_userData
}

func (co *B3CollisionObject) SetUserData(data interface{}) {
	co.M_userData = data
}

/// World bounds: the shape's box for rigid bodies, the node box for soft bodies.
func (co *B3CollisionObject) ComputeAABB() B3AABB {
	if soft := co.GetSoftBody(); soft != nil {
		return soft.ComputeAABB()
	}
	B3Assert(co.M_shape != nil)
	return co.M_shape.ComputeAABB(co.M_worldTransform)
}
