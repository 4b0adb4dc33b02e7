package box3d

/// Holds the narrowphase algorithm for every pair of shape types together with
/// the shared collision tolerances.
type B3DefaultCollisionConfiguration struct {
	M_algorithms [][]B3CollisionAlgorithm

	/// Contacts are reported while the objects are closer than this.
	M_contactBreakingThreshold float64

	/// Margin given to new convex shapes.
	M_defaultMargin float64
}

func MakeB3DefaultCollisionConfiguration() B3DefaultCollisionConfiguration {
	n := int(B3Shape_Type.E_typeCount)
	config := B3DefaultCollisionConfiguration{
		M_algorithms:               make([][]B3CollisionAlgorithm, n),
		M_contactBreakingThreshold: B3_contactBreakingThreshold,
		M_defaultMargin:            B3_defaultMargin,
	}

	for i := range config.M_algorithms {
		config.M_algorithms[i] = make([]B3CollisionAlgorithm, n)
		for j := range config.M_algorithms[i] {
			config.M_algorithms[i][j] = B3CollideSampled
		}
	}

	sphere := B3Shape_Type.E_sphere
	for other := uint8(0); other < B3Shape_Type.E_typeCount; other++ {
		config.RegisterCollisionAlgorithm(sphere, other, B3CollideSphereConvex)
	}
	config.RegisterCollisionAlgorithm(sphere, sphere, B3CollideSpheres)

	return config
}

func NewB3DefaultCollisionConfiguration() *B3DefaultCollisionConfiguration {
	res := MakeB3DefaultCollisionConfiguration()
	return &res
}

/// Sets the algorithm for both orders of the shape type pair.
func (config *B3DefaultCollisionConfiguration) RegisterCollisionAlgorithm(typeA, typeB uint8, algorithm B3CollisionAlgorithm) {
	B3Assert(typeA < B3Shape_Type.E_typeCount && typeB < B3Shape_Type.E_typeCount)
	B3Assert(algorithm != nil)
	config.M_algorithms[typeA][typeB] = algorithm
	config.M_algorithms[typeB][typeA] = algorithm
}

func (config B3DefaultCollisionConfiguration) GetCollisionAlgorithm(typeA, typeB uint8) B3CollisionAlgorithm {
	B3Assert(typeA < B3Shape_Type.E_typeCount && typeB < B3Shape_Type.E_typeCount)
	return config.M_algorithms[typeA][typeB]
}

func (config B3DefaultCollisionConfiguration) GetContactBreakingThreshold() float64 {
	return config.M_contactBreakingThreshold
}

func (config B3DefaultCollisionConfiguration) GetDefaultMargin() float64 {
	return config.M_defaultMargin
}
