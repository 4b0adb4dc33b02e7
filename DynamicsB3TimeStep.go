package box3d

/// Profiling data. Times are in milliseconds.
type B3Profile struct {
	Step        float64
	Broadphase  float64
	Narrowphase float64
	Solve       float64
	SoftBodies  float64
}

func MakeB3Profile() B3Profile {
	return B3Profile{}
}

/// This is an internal structure.
type B3TimeStep struct {
	Dt         float64 // time step
	Inv_dt     float64 // inverse time step (0 if dt == 0).
	Iterations int
}

func MakeB3TimeStep(dt float64, iterations int) B3TimeStep {
	step := B3TimeStep{
		Dt:         dt,
		Iterations: iterations,
	}
	if dt > 0.0 {
		step.Inv_dt = 1.0 / dt
	}
	return step
}
