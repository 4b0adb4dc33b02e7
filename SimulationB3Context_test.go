package box3d_test

import (
	"errors"
	"testing"

	"github.com/ByteArena/box3d"
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newTestContext(t *testing.T, options ...box3d.B3ContextOption) *box3d.B3SimulationContext {
	t.Helper()
	options = append([]box3d.B3ContextOption{box3d.WithB3FrameRateSource(box3d.B3FixedFrameRate(60))}, options...)
	ctx := box3d.CreateB3SimulationContext(options...)
	t.Cleanup(func() {
		if !ctx.IsReleased() {
			ctx.Release()
		}
	})
	return ctx
}

func expectPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatalf("%s: expected a panic", name)
		}
	}()
	fn()
}

func TestContextDefaults(t *testing.T) {
	ctx := newTestContext(t)

	if ctx.GetCollisionConfiguration() == nil || ctx.GetDispatcher() == nil || ctx.GetBroadphase() == nil || ctx.GetSolver() == nil || ctx.GetWorld() == nil {
		t.Fatalf("every subsystem must exist after creation")
	}

	world := ctx.GetWorld()
	if world.GetDispatcher() != ctx.GetDispatcher() || world.GetBroadphase() != ctx.GetBroadphase() ||
		world.GetConstraintSolver() != ctx.GetSolver() || world.GetCollisionConfiguration() != ctx.GetCollisionConfiguration() {
		t.Fatalf("the world must be built from the context's subsystems")
	}
	if ctx.GetDispatcher().GetCollisionConfiguration() != ctx.GetCollisionConfiguration() {
		t.Fatalf("the dispatcher must use the context's configuration")
	}

	info := ctx.GetInfo()
	if info.M_airDensity != 1.2 || info.M_waterDensity != 0 || info.M_waterOffset != 0 || info.M_waterNormal != (mgl64.Vec3{}) {
		t.Fatalf("unexpected soft-body environment %+v", *info)
	}
	if info.M_gravity != (mgl64.Vec3{0, -10, 0}) || world.GetGravity() != info.M_gravity {
		t.Fatalf("world gravity %v and environment gravity %v must both be (0,-10,0)", world.GetGravity(), info.M_gravity)
	}
	if info.M_broadphase != ctx.GetBroadphase() || info.M_dispatcher != ctx.GetDispatcher() {
		t.Fatalf("the environment must point at the context's broadphase and dispatcher")
	}
	if !info.M_sparsesdf.IsInitialized() {
		t.Fatalf("the sparse SDF must be initialized at creation")
	}
	if !world.GetDispatchInfo().M_enableParallelDispatch {
		t.Fatalf("parallel dispatch must be enabled by default")
	}
	if ctx.GetSolver().GetIterations() != box3d.B3_defaultSolverIterations {
		t.Fatalf("solver iterations = %d", ctx.GetSolver().GetIterations())
	}
	if ctx.GetNumObjects() != 0 || ctx.Len() != 0 {
		t.Fatalf("a new context must be empty")
	}
	if ctx.GetElapsedSeconds() < 0 {
		t.Fatalf("elapsed seconds must not be negative")
	}
}

func TestContextConfigIsApplied(t *testing.T) {
	cfg := box3d.DefaultB3WorldConfig()
	cfg.World.Gravity = [3]float64{0, -1, 0}
	cfg.World.SolverIterations = 4
	cfg.World.ParallelDispatch = false
	cfg.SoftBody.WaterDensity = 1000
	cfg.SoftBody.WaterNormal = [3]float64{0, 1, 0}

	ctx := newTestContext(t, box3d.WithB3Config(cfg))

	if ctx.GetWorld().GetGravity() != (mgl64.Vec3{0, -1, 0}) {
		t.Fatalf("world gravity = %v", ctx.GetWorld().GetGravity())
	}
	if ctx.GetSolver().GetIterations() != 4 {
		t.Fatalf("solver iterations = %d", ctx.GetSolver().GetIterations())
	}
	if ctx.GetWorld().GetDispatchInfo().M_enableParallelDispatch {
		t.Fatalf("parallel dispatch should follow the config")
	}
	if !ctx.GetInfo().IsSubmerged(mgl64.Vec3{0, -1, 0}) {
		t.Fatalf("points below the water plane should be submerged")
	}
}

func TestContextRejectsInvalidConfig(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(cfg *box3d.B3WorldConfig)
	}{
		{"no sub-steps", func(cfg *box3d.B3WorldConfig) { cfg.World.MaxSubSteps = 0 }},
		{"zero time step", func(cfg *box3d.B3WorldConfig) { cfg.World.TimeStep = 0 }},
		{"zero value", func(cfg *box3d.B3WorldConfig) { *cfg = box3d.B3WorldConfig{} }},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := box3d.DefaultB3WorldConfig()
			c.mutate(&cfg)

			defer func() {
				r := recover()
				err, ok := r.(error)
				if !ok || !errors.Is(err, box3d.ErrB3InvalidConfig) {
					t.Fatalf("expected a panic wrapping ErrB3InvalidConfig, got %v", r)
				}
			}()
			box3d.CreateB3SimulationContext(box3d.WithB3Config(cfg))
		})
	}
}

func TestContextStepsAtFrameRate(t *testing.T) {
	cfg := box3d.DefaultB3WorldConfig()
	cfg.World.MaxSubSteps = 4
	ctx := newTestContext(t, box3d.WithB3Config(cfg))
	box3d.CreateB3RigidBox(ctx, mgl64.Vec3{1, 1, 1}, 1, mgl64.Vec3{}, mgl64.QuatIdent())

	ctx.UpdateWithFrameRate(60)
	world := ctx.GetWorld()
	if world.GetLastFixedTimeStep() != 1.0/60 || world.GetLastSubStepCount() != 4 {
		t.Fatalf("sub-step %v x %d, want 1/60 x 4", world.GetLastFixedTimeStep(), world.GetLastSubStepCount())
	}
}

func TestContextRetainRelease(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	ctx := box3d.CreateB3SimulationContext(box3d.WithB3Logger(zap.New(core)))
	box3d.CreateB3RigidBox(ctx, mgl64.Vec3{1, 1, 1}, 1, mgl64.Vec3{}, mgl64.QuatIdent())

	shared := ctx.Retain()
	if shared.Release() {
		t.Fatalf("releasing a shared reference must not tear the context down")
	}
	if ctx.IsReleased() {
		t.Fatalf("context released too early")
	}

	world := ctx.GetWorld()
	if !ctx.Release() {
		t.Fatalf("the last release must tear the context down")
	}
	if !ctx.IsReleased() || ctx.GetWorld() != nil || ctx.GetBroadphase() != nil || ctx.GetSolver() != nil {
		t.Fatalf("subsystems must be dropped on release")
	}
	if world.GetNumCollisionObjects() != 0 {
		t.Fatalf("the world must be emptied before it is dropped")
	}

	if logs.FilterMessage("simulation context created").Len() != 1 || logs.FilterMessage("simulation context released").Len() != 1 {
		t.Fatalf("expected one creation and one release log, got %v", logs.All())
	}

	expectPanic(t, "release after teardown", func() { ctx.Release() })
	expectPanic(t, "update after teardown", func() { ctx.Update() })
}

func TestContextSetInfo(t *testing.T) {
	ctx := newTestContext(t)
	rope := box3d.CreateB3SoftRope(ctx, mgl64.Vec3{0, 1, 0}, mgl64.Vec3{1, 1, 0}, 2, 0, 1)

	info := box3d.MakeB3SoftBodyWorldInfo()
	info.M_airDensity = 0.5
	info.M_waterDensity = 1000
	info.M_waterNormal = mgl64.Vec3{0, 1, 0}
	info.M_gravity = mgl64.Vec3{0, -2, 0}
	ctx.SetInfo(info)

	got := ctx.GetInfo()
	if got.M_airDensity != 0.5 || got.M_waterDensity != 1000 || got.M_gravity != (mgl64.Vec3{0, -2, 0}) {
		t.Fatalf("environment not replaced: %+v", *got)
	}
	if got.M_broadphase != ctx.GetBroadphase() || got.M_dispatcher != ctx.GetDispatcher() {
		t.Fatalf("SetInfo must keep the context's broadphase and dispatcher")
	}
	if !got.M_sparsesdf.IsInitialized() {
		t.Fatalf("SetInfo must keep an initialized sparse SDF")
	}
	if rope.GetSoftBody().GetWorldInfo() != got {
		t.Fatalf("existing soft bodies must share the context environment")
	}
	if ctx.GetWorld().GetGravity() != (mgl64.Vec3{0, -10, 0}) {
		t.Fatalf("SetInfo must not change world gravity")
	}
}
