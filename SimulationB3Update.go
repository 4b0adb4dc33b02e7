package box3d

import (
	"math"

	"go.uber.org/zap"
)

/// Advances the simulation by one frame at the rate reported by the context's
/// frame-rate source.
func (ctx *B3SimulationContext) Update() {
	ctx.checkAlive()
	ctx.UpdateWithFrameRate(ctx.M_frameRate.GetFrameRate())
}

/// Advances the simulation by one frame. When the engine's collision-object
/// count differs from the one seen last time, every object is woken first.
/// An empty world is neither activated nor stepped, but its count is still
/// recorded. Frame rates below one are treated as one.
func (ctx *B3SimulationContext) UpdateWithFrameRate(fps float64) {
	ctx.checkAlive()

	world := ctx.M_world
	numObjects := world.GetNumCollisionObjects()

	if numObjects != ctx.M_numObjects {
		if numObjects == 0 {
			ctx.M_logger.Debug("world emptied", zap.Int("previous", ctx.M_numObjects), zap.Int("current", 0))
			ctx.M_numObjects = 0
			return
		}

		for _, obj := range world.GetCollisionObjectArray() {
			switch obj.GetInternalType() {
			case B3CollisionObjectType.E_rigidBody:
				obj.GetRigidBody().Activate(true)
			case B3CollisionObjectType.E_softBody:
				obj.GetSoftBody().Activate(true)
			}
		}
		ctx.M_logger.Debug("collision objects changed", zap.Int("previous", ctx.M_numObjects), zap.Int("current", numObjects))
	}

	ctx.M_numObjects = numObjects
	if numObjects == 0 {
		return
	}

	if math.IsNaN(fps) {
		fps = B3_minFrameRate
	}
	cfg := ctx.M_config.World
	world.StepSimulation(cfg.TimeStep, cfg.MaxSubSteps, 1.0/math.Max(B3_minFrameRate, fps))
}
