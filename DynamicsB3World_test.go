package box3d_test

import (
	"testing"

	"github.com/ByteArena/box3d"
	"github.com/go-gl/mathgl/mgl64"
)

func newTestWorld() *box3d.B3DynamicsWorld {
	config := box3d.NewB3DefaultCollisionConfiguration()
	return box3d.NewB3DynamicsWorld(
		box3d.NewB3CollisionDispatcher(config),
		box3d.NewB3BroadPhase(),
		box3d.NewB3SequentialImpulseConstraintSolver(),
		config,
	)
}

func TestStepSimulationSubSteps(t *testing.T) {
	cases := []struct {
		name          string
		timeStep      float64
		maxSubSteps   int
		fixedTimeStep float64
		wantReturned  int
		wantClamped   int
		wantFixed     float64
	}{
		{"exact multiple", 1.0, 10, 0.25, 4, 4, 0.25},
		{"clamped", 1.0, 2, 0.25, 4, 2, 0.25},
		{"below one step", 0.125, 10, 0.25, 0, 0, 0.25},
		{"variable step", 0.5, 0, 0.25, 1, 1, 0.5},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			world := newTestWorld()
			body := newRigidBox(1, mgl64.Vec3{})
			world.AddRigidBody(body)

			got := world.StepSimulation(c.timeStep, c.maxSubSteps, c.fixedTimeStep)
			if got != c.wantReturned {
				t.Fatalf("StepSimulation returned %d, want %d", got, c.wantReturned)
			}
			if world.GetLastSubStepCount() != c.wantClamped || world.GetStepCount() != c.wantClamped {
				t.Fatalf("ran %d sub-steps (total %d), want %d", world.GetLastSubStepCount(), world.GetStepCount(), c.wantClamped)
			}
			if world.GetLastFixedTimeStep() != c.wantFixed {
				t.Fatalf("fixed step %v, want %v", world.GetLastFixedTimeStep(), c.wantFixed)
			}
			if body.GetTotalForce() != (mgl64.Vec3{}) {
				t.Fatalf("forces must be cleared after stepping")
			}
		})
	}
}

func TestStepSimulationCarriesRemainder(t *testing.T) {
	world := newTestWorld()
	world.AddRigidBody(newRigidBox(1, mgl64.Vec3{}))

	if n := world.StepSimulation(0.125, 10, 0.25); n != 0 {
		t.Fatalf("first call ran %d steps", n)
	}
	if n := world.StepSimulation(0.125, 10, 0.25); n != 1 {
		t.Fatalf("accumulated time should give one step, got %d", n)
	}
}

func TestWorldSwapRemove(t *testing.T) {
	world := newTestWorld()
	a := newRigidBox(1, mgl64.Vec3{0, 0, 0})
	b := newRigidBox(1, mgl64.Vec3{3, 0, 0})
	c := newRigidBox(1, mgl64.Vec3{6, 0, 0})
	world.AddRigidBody(a)
	world.AddRigidBody(b)
	world.AddRigidBody(c)

	world.RemoveRigidBody(a)
	objects := world.GetCollisionObjectArray()
	if len(objects) != 2 || objects[0] != c.GetCollisionObject() || objects[1] != b.GetCollisionObject() {
		t.Fatalf("removal must swap the last object into the hole")
	}
	if c.GetWorldArrayIndex() != 0 || a.GetWorldArrayIndex() != -1 {
		t.Fatalf("world array indices not maintained")
	}
	if world.GetProxyCount() != 2 {
		t.Fatalf("proxy count = %d", world.GetProxyCount())
	}

	// Removing twice is a no-op.
	world.RemoveRigidBody(a)
	if world.GetNumCollisionObjects() != 2 || len(world.GetRigidBodies()) != 2 {
		t.Fatalf("a second removal changed the world")
	}

	world.Destroy()
	if world.GetNumCollisionObjects() != 0 || world.GetProxyCount() != 0 {
		t.Fatalf("Destroy must remove every object and proxy")
	}
}

func TestWorldSetGravity(t *testing.T) {
	world := newTestWorld()
	dynamic := newRigidBox(2, mgl64.Vec3{})
	static := newRigidBox(0, mgl64.Vec3{5, 0, 0})
	world.AddRigidBody(dynamic)
	world.AddRigidBody(static)

	world.SetGravity(mgl64.Vec3{0, -3, 0})
	if dynamic.GetGravity() != (mgl64.Vec3{0, -3, 0}) {
		t.Fatalf("dynamic bodies must take the world gravity, got %v", dynamic.GetGravity())
	}
	if static.GetGravity() != (mgl64.Vec3{}) {
		t.Fatalf("static bodies must keep zero gravity, got %v", static.GetGravity())
	}
}

type countingListener struct {
	contacts int
}

func (l *countingListener) OnContact(manifold *box3d.B3ContactManifold) {
	l.contacts += manifold.GetNumContacts()
}

func TestSphereRestsOnGround(t *testing.T) {
	ctx := newTestContext(t)
	identity := mgl64.QuatIdent()

	listener := &countingListener{}
	ctx.GetWorld().SetContactListener(listener)

	box3d.CreateB3RigidBox(ctx, mgl64.Vec3{10, 1, 10}, 0, mgl64.Vec3{0, -0.5, 0}, identity)
	ball := box3d.CreateB3RigidSphere(ctx, 0.5, 16, 1, mgl64.Vec3{0, 1.5, 0}, identity)

	// Three seconds at 60 fps, 10 sub-steps per update.
	for i := 0; i < 18; i++ {
		ctx.Update()
	}

	y := ball.GetRigidBody().GetCenterOfMassPosition().Y()
	if y < 0.25 || y > 0.75 {
		t.Fatalf("the ball should rest on the ground near y = 0.5, got %v", y)
	}
	if listener.contacts == 0 {
		t.Fatalf("the listener never saw a contact")
	}
}

func TestQueryAABB(t *testing.T) {
	world := newTestWorld()
	near := newRigidBox(1, mgl64.Vec3{0, 0, 0})
	far := newRigidBox(1, mgl64.Vec3{50, 0, 0})
	world.AddRigidBody(near)
	world.AddRigidBody(far)

	var found []*box3d.B3CollisionObject
	world.QueryAABB(func(obj *box3d.B3CollisionObject) bool {
		found = append(found, obj)
		return true
	}, box3d.MakeB3AABB(mgl64.Vec3{-1, -1, -1}, mgl64.Vec3{1, 1, 1}))

	if len(found) != 1 || found[0] != near.GetCollisionObject() {
		t.Fatalf("query found %d objects", len(found))
	}
}
