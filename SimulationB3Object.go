package box3d

/// A registry entry: an engine body plus the kind it was built as. The kind is
/// fixed at construction and decides which world list the body goes to.
type B3Object struct {
	M_kind uint8
	M_body *B3CollisionObject
	M_name string

	M_userData interface{}
}

func NewB3RigidObject(body *B3RigidBody) *B3Object {
	B3Assert(body != nil)
	return &B3Object{
		M_kind: B3CollisionObjectType.E_rigidBody,
		M_body: &body.B3CollisionObject,
	}
}

func NewB3SoftObject(body *B3SoftBody) *B3Object {
	B3Assert(body != nil)
	return &B3Object{
		M_kind: B3CollisionObjectType.E_softBody,
		M_body: &body.B3CollisionObject,
	}
}

func (object B3Object) GetKind() uint8 {
	return object.M_kind
}

func (object B3Object) IsRigidBody() bool {
	return object.M_kind == B3CollisionObjectType.E_rigidBody
}

func (object B3Object) IsSoftBody() bool {
	return object.M_kind == B3CollisionObjectType.E_softBody
}

func (object B3Object) GetBody() *B3CollisionObject {
	return object.M_body
}

/// Nil unless the object was built as a rigid body.
func (object B3Object) GetRigidBody() *B3RigidBody {
	if !object.IsRigidBody() {
		return nil
	}
	return object.M_body.GetRigidBody()
}

/// Nil unless the object was built as a soft body.
func (object B3Object) GetSoftBody() *B3SoftBody {
	if !object.IsSoftBody() {
		return nil
	}
	return object.M_body.GetSoftBody()
}

func (object B3Object) GetName() string {
	return object.M_name
}

func (object *B3Object) SetName(name string) {
	object.M_name = name
}

func (object B3Object) GetUserData() interface{} {
	return object.M_userData
}

func (object *B3Object) SetUserData(data interface{}) {
	object.M_userData = data
}

func ToB3RigidBody(object *B3Object) *B3RigidBody {
	if object == nil {
		return nil
	}
	return object.GetRigidBody()
}

func ToB3SoftBody(object *B3Object) *B3SoftBody {
	if object == nil {
		return nil
	}
	return object.GetSoftBody()
}
