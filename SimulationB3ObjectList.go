package box3d

import (
	"fmt"
	"sort"
	"strings"
)

/// Appends the object and adds its body to the world list matching its kind.
func (ctx *B3SimulationContext) PushBack(object *B3Object) {
	ctx.checkAlive()
	B3Assert(object != nil && object.M_body != nil)

	body := object.M_body
	_, registered := ctx.M_registered[body]
	B3Assert(!registered)

	ctx.M_objects = append(ctx.M_objects, object)
	ctx.M_registered[body] = struct{}{}

	switch object.M_kind {
	case B3CollisionObjectType.E_rigidBody:
		ctx.M_world.AddRigidBody(body.GetRigidBody())
	case B3CollisionObjectType.E_softBody:
		ctx.M_world.AddSoftBody(body.GetSoftBody())
	default:
		B3Assert(false)
	}
}

/// Removes the object at pos from its world list and then from the registry.
/// Returns the position of the element that followed it, which is End() when
/// the last element was erased.
func (ctx *B3SimulationContext) Erase(pos int) int {
	ctx.checkAlive()
	B3Assert(0 <= pos && pos < len(ctx.M_objects))

	object := ctx.M_objects[pos]
	switch object.M_kind {
	case B3CollisionObjectType.E_rigidBody:
		ctx.M_world.RemoveRigidBody(object.M_body.GetRigidBody())
	case B3CollisionObjectType.E_softBody:
		ctx.M_world.RemoveSoftBody(object.M_body.GetSoftBody())
	}
	delete(ctx.M_registered, object.M_body)

	copy(ctx.M_objects[pos:], ctx.M_objects[pos+1:])
	ctx.M_objects[len(ctx.M_objects)-1] = nil
	ctx.M_objects = ctx.M_objects[:len(ctx.M_objects)-1]
	return pos
}

/// Erases the given object. Returns false when it is not in the registry.
func (ctx *B3SimulationContext) EraseObject(object *B3Object) bool {
	pos := ctx.IndexOf(object)
	if pos < 0 {
		return false
	}
	ctx.Erase(pos)
	return true
}

func (ctx *B3SimulationContext) Begin() int {
	return 0
}

func (ctx *B3SimulationContext) End() int {
	return len(ctx.M_objects)
}

func (ctx *B3SimulationContext) At(pos int) *B3Object {
	B3Assert(0 <= pos && pos < len(ctx.M_objects))
	return ctx.M_objects[pos]
}

/// The live registry in insertion order. Do not modify it; use PushBack and Erase.
func (ctx *B3SimulationContext) GetObjects() []*B3Object {
	return ctx.M_objects
}

func (ctx *B3SimulationContext) Len() int {
	return len(ctx.M_objects)
}

/// Calls fn for each object in insertion order until it returns false.
func (ctx *B3SimulationContext) Each(fn func(pos int, object *B3Object) bool) {
	for pos, object := range ctx.M_objects {
		if !fn(pos, object) {
			return
		}
	}
}

/// Position of object in the registry, or -1.
func (ctx *B3SimulationContext) IndexOf(object *B3Object) int {
	if object == nil {
		return -1
	}
	for pos, o := range ctx.M_objects {
		if o == object {
			return pos
		}
	}
	return -1
}

func (ctx *B3SimulationContext) Contains(object *B3Object) bool {
	if object == nil || object.M_body == nil {
		return false
	}
	_, ok := ctx.M_registered[object.M_body]
	return ok
}

/// Checks that the registry and the world's rigid and soft lists hold the same
/// bodies, each under the right kind. Meant for tests and debugging.
func (ctx *B3SimulationContext) Validate() error {
	ctx.checkAlive()

	var registry, world []string
	for _, object := range ctx.M_objects {
		registry = append(registry, b3MembershipLine(object.M_kind, object.M_body))
	}
	for _, body := range ctx.M_world.GetRigidBodies() {
		world = append(world, b3MembershipLine(B3CollisionObjectType.E_rigidBody, &body.B3CollisionObject))
	}
	for _, body := range ctx.M_world.GetSoftBodies() {
		world = append(world, b3MembershipLine(B3CollisionObjectType.E_softBody, &body.B3CollisionObject))
	}
	sort.Strings(registry)
	sort.Strings(world)

	if len(ctx.M_registered) != len(ctx.M_objects) || strings.Join(registry, "\n") != strings.Join(world, "\n") {
		return fmt.Errorf("%w: registry %v, world %v", ErrB3RegistryMismatch, registry, world)
	}
	return nil
}

func b3MembershipLine(kind uint8, body *B3CollisionObject) string {
	name := "rigid"
	if kind == B3CollisionObjectType.E_softBody {
		name = "soft"
	}
	return fmt.Sprintf("%s %p", name, body)
}
