package box3d

import (
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

/// Owns the engine subsystems, the world built from them, the soft-body
/// environment and the object registry. Create it with
/// CreateB3SimulationContext; it is shared through Retain/Release and torn
/// down by the last Release.
type B3SimulationContext struct {
	M_collisionConfiguration *B3DefaultCollisionConfiguration
	M_dispatcher             *B3CollisionDispatcher
	M_broadphase             *B3BroadPhase
	M_solver                 *B3SequentialImpulseConstraintSolver
	M_world                  *B3DynamicsWorld

	M_softBodyWorldInfo B3SoftBodyWorldInfo

	M_objects    []*B3Object
	M_registered map[*B3CollisionObject]struct{}

	// Engine collision-object count seen by the last Update.
	M_numObjects int

	M_frameRate B3FrameRateSource
	M_config    B3WorldConfig
	M_logger    *zap.Logger
	M_createdAt time.Time

	M_refs atomic.Int32
}

type B3ContextOption func(ctx *B3SimulationContext)

func WithB3Config(cfg B3WorldConfig) B3ContextOption {
	return func(ctx *B3SimulationContext) {
		ctx.M_config = cfg
	}
}

func WithB3Logger(logger *zap.Logger) B3ContextOption {
	return func(ctx *B3SimulationContext) {
		if logger != nil {
			ctx.M_logger = logger
		}
	}
}

func WithB3FrameRateSource(source B3FrameRateSource) B3ContextOption {
	return func(ctx *B3SimulationContext) {
		if source != nil {
			ctx.M_frameRate = source
		}
	}
}

/// Builds configuration, dispatcher, broadphase and solver, then the soft-body
/// environment and finally the world on top of them. The returned context
/// holds one reference. An invalid config panics with an error wrapping
/// ErrB3InvalidConfig.
func CreateB3SimulationContext(options ...B3ContextOption) *B3SimulationContext {
	ctx := &B3SimulationContext{
		M_config:     DefaultB3WorldConfig(),
		M_logger:     zap.NewNop(),
		M_registered: make(map[*B3CollisionObject]struct{}),
	}
	for _, option := range options {
		option(ctx)
	}
	if ctx.M_frameRate == nil {
		ctx.M_frameRate = NewB3FrameClock()
	}
	cfg := ctx.M_config
	if err := cfg.Validate(); err != nil {
		panic(fmt.Errorf("create simulation context: %w", err))
	}

	ctx.M_collisionConfiguration = NewB3DefaultCollisionConfiguration()
	ctx.M_dispatcher = NewB3CollisionDispatcher(ctx.M_collisionConfiguration)
	ctx.M_broadphase = NewB3BroadPhase()
	ctx.M_solver = NewB3SequentialImpulseConstraintSolver()
	ctx.M_solver.SetIterations(cfg.World.SolverIterations)

	info := MakeB3SoftBodyWorldInfo()
	info.M_airDensity = cfg.SoftBody.AirDensity
	info.M_waterDensity = cfg.SoftBody.WaterDensity
	info.M_waterOffset = cfg.SoftBody.WaterOffset
	info.M_waterNormal = cfg.SoftBody.GetWaterNormal()
	info.M_gravity = cfg.World.GetGravity()
	info.M_broadphase = ctx.M_broadphase
	info.M_dispatcher = ctx.M_dispatcher
	info.M_sparsesdf.Initialize(cfg.SoftBody.SdfHashSize, cfg.SoftBody.SdfClampCells)
	ctx.M_softBodyWorldInfo = info

	ctx.M_world = NewB3DynamicsWorld(ctx.M_dispatcher, ctx.M_broadphase, ctx.M_solver, ctx.M_collisionConfiguration)
	ctx.M_world.SetGravity(ctx.M_softBodyWorldInfo.M_gravity)
	ctx.M_world.GetDispatchInfo().M_enableParallelDispatch = cfg.World.ParallelDispatch

	ctx.M_numObjects = 0
	ctx.M_createdAt = time.Now()
	ctx.M_refs.Store(1)

	ctx.M_logger.Info("simulation context created",
		zap.Int("solverIterations", cfg.World.SolverIterations),
		zap.Bool("parallelDispatch", cfg.World.ParallelDispatch),
	)
	return ctx
}

/// Adds a reference and returns the context for chaining.
func (ctx *B3SimulationContext) Retain() *B3SimulationContext {
	B3Assert(ctx.M_refs.Add(1) > 1)
	return ctx
}

/// Drops a reference. The last one destroys the world, then the subsystems.
/// Returns true when this call tore the context down.
func (ctx *B3SimulationContext) Release() bool {
	refs := ctx.M_refs.Add(-1)
	B3Assert(refs >= 0)
	if refs > 0 {
		return false
	}
	ctx.destroy()
	return true
}

func (ctx *B3SimulationContext) destroy() {
	numObjects := len(ctx.M_objects)

	if ctx.M_world != nil {
		ctx.M_world.Destroy()
		ctx.M_world = nil
	}
	ctx.M_objects = nil
	ctx.M_registered = nil

	if ctx.M_solver != nil {
		ctx.M_solver.Reset()
		ctx.M_solver = nil
	}
	ctx.M_broadphase = nil
	ctx.M_dispatcher = nil
	ctx.M_collisionConfiguration = nil

	ctx.M_softBodyWorldInfo.M_broadphase = nil
	ctx.M_softBodyWorldInfo.M_dispatcher = nil
	ctx.M_softBodyWorldInfo.M_sparsesdf.Reset()

	ctx.M_logger.Info("simulation context released", zap.Int("objects", numObjects))
}

func (ctx *B3SimulationContext) IsReleased() bool {
	return ctx.M_world == nil
}

func (ctx *B3SimulationContext) checkAlive() {
	B3Assert(ctx.M_world != nil)
}

func (ctx *B3SimulationContext) GetBroadphase() *B3BroadPhase {
	return ctx.M_broadphase
}

func (ctx *B3SimulationContext) GetCollisionConfiguration() *B3DefaultCollisionConfiguration {
	return ctx.M_collisionConfiguration
}

func (ctx *B3SimulationContext) GetDispatcher() *B3CollisionDispatcher {
	return ctx.M_dispatcher
}

func (ctx *B3SimulationContext) GetSolver() *B3SequentialImpulseConstraintSolver {
	return ctx.M_solver
}

func (ctx *B3SimulationContext) GetWorld() *B3DynamicsWorld {
	return ctx.M_world
}

/// The environment shared by every soft body created against this context.
func (ctx *B3SimulationContext) GetInfo() *B3SoftBodyWorldInfo {
	return &ctx.M_softBodyWorldInfo
}

/// Replaces the soft-body environment. The broadphase and dispatcher stay
/// pinned to this context, and an uninitialized distance cache keeps the
/// current one. Existing soft bodies see the new values on their next step.
/// World gravity is left alone.
func (ctx *B3SimulationContext) SetInfo(info B3SoftBodyWorldInfo) {
	ctx.checkAlive()

	if !info.M_sparsesdf.IsInitialized() {
		info.M_sparsesdf = ctx.M_softBodyWorldInfo.M_sparsesdf
	}
	info.M_broadphase = ctx.M_broadphase
	info.M_dispatcher = ctx.M_dispatcher
	ctx.M_softBodyWorldInfo = info
}

/// The collision-object count observed by the last Update.
func (ctx *B3SimulationContext) GetNumObjects() int {
	return ctx.M_numObjects
}

func (ctx *B3SimulationContext) GetFrameRateSource() B3FrameRateSource {
	return ctx.M_frameRate
}

func (ctx *B3SimulationContext) SetFrameRateSource(source B3FrameRateSource) {
	B3Assert(source != nil)
	ctx.M_frameRate = source
}

func (ctx *B3SimulationContext) GetConfig() B3WorldConfig {
	return ctx.M_config
}

func (ctx *B3SimulationContext) GetLogger() *zap.Logger {
	return ctx.M_logger
}

/// Seconds since the context was created.
func (ctx *B3SimulationContext) GetElapsedSeconds() float64 {
	return time.Since(ctx.M_createdAt).Seconds()
}
