package box3d

/// Implement this to take over pair filtering from the group/mask test.
type B3ContactFilterInterface interface {
	/// Return true if contact calculations should be performed between these two objects.
	ShouldCollide(objA *B3CollisionObject, objB *B3CollisionObject) bool
}

/// Group/mask filter. Embed it to build your own on top of the default behaviour.
type B3ContactFilter struct{}

func (cf *B3ContactFilter) ShouldCollide(objA *B3CollisionObject, objB *B3CollisionObject) bool {
	return B3DefaultShouldCollide(objA, objB)
}

/// Implement this to get contact information after the narrowphase.
type B3ContactListenerInterface interface {
	/// Called once per step for every manifold with at least one point,
	/// before the solver runs. The manifold is only valid during the call.
	OnContact(manifold *B3ContactManifold)
}

/// Called for each collision object found in a world query. Return false to stop.
type B3BroadPhaseQueryCallback func(obj *B3CollisionObject) bool
