package box3d

import "math"

const B3DEBUG = false

func B3Assert(a bool) {
	if !a {
		panic("B3Assert")
	}
}

const B3_maxFloat = math.MaxFloat64
const B3_epsilon = 1e-9
const B3_pi = math.Pi

/// @file
/// Global tuning constants based on meters-kilograms-seconds (MKS) units.
///

// Collision

/// This is used to fatten AABBs in the dynamic tree. This allows proxies
/// to move by a small amount without triggering a tree adjustment.
/// This is in meters.
const B3_aabbExtension = 0.1

/// This is used to fatten AABBs in the dynamic tree. This is used to predict
/// the future position based on the current displacement.
/// This is a dimensionless multiplier.
const B3_aabbMultiplier = 2.0

/// A small length used as a collision and constraint tolerance.
const B3_linearSlop = 0.005

/// Default collision margin added around convex shapes.
const B3_defaultMargin = 0.04

/// Contacts further apart than this are not reported by the narrowphase.
const B3_contactBreakingThreshold = 0.02

/// Below this many overlapping pairs the dispatcher stays on the calling goroutine
/// even when parallel dispatch is enabled.
const B3_parallelDispatchThreshold = 64

// Dynamics

/// A velocity threshold for elastic collisions. Any collision with a relative linear
/// velocity below this threshold will be treated as inelastic.
const B3_velocityThreshold = 1.0

/// This scale factor controls how fast overlap is resolved.
const B3_baumgarte = 0.2

/// The maximum linear translation of a body per step. This limit is very large and is used
/// to prevent numerical problems.
const B3_maxTranslation = 4.0
const B3_maxTranslationSquared = (B3_maxTranslation * B3_maxTranslation)

/// The maximum rotation of a body per step.
const B3_maxRotation = (0.5 * B3_pi)
const B3_maxRotationSquared = (B3_maxRotation * B3_maxRotation)

/// Default number of solver iterations per sub-step.
const B3_defaultSolverIterations = 10

// Sleep

/// The time that a body must be still before it will go to sleep.
const B3_timeToSleep = 2.0

/// A body cannot sleep if its linear velocity is above this tolerance.
const B3_linearSleepTolerance = 0.8

/// A body cannot sleep if its angular velocity is above this tolerance.
const B3_angularSleepTolerance = 1.0

// Update driver

/// The outer time unit handed to the world every frame. Together with the sub-step
/// cap this bounds the work of one Update call to a single full step.
const B3_updateTimeStep = 1.0

/// The sub-step cap used by Update.
const B3_updateMaxSubSteps = 10

/// Frame rates below this value are treated as this value.
const B3_minFrameRate = 1.0
