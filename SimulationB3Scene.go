package box3d

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

/// A list of bodies to spawn into a context, loadable from YAML.
type B3Scene struct {
	Bodies []B3BodySpec `yaml:"bodies"`
}

/// One body of a scene. Which fields matter depends on Shape.
type B3BodySpec struct {
	Name     string    `yaml:"name"`
	Shape    string    `yaml:"shape"`
	Mass     float64   `yaml:"mass"`
	Position []float64 `yaml:"position"`
	Rotation []float64 `yaml:"rotation"` // Euler degrees, X then Y then Z

	// box
	Dimensions []float64 `yaml:"dimensions"`

	// sphere, cylinder
	Radius       float64 `yaml:"radius"`
	Segments     int     `yaml:"segments"`
	TopRadius    float64 `yaml:"top_radius"`
	BottomRadius float64 `yaml:"bottom_radius"`
	Height       float64 `yaml:"height"`

	// hull, mesh
	Vertices [][]float64 `yaml:"vertices"`
	Indices  []int       `yaml:"indices"`
	Scale    []float64   `yaml:"scale"`
	Margin   float64     `yaml:"margin"`

	// terrain
	Heights     [][]float64 `yaml:"heights"`
	StickWidth  int         `yaml:"stick_width"`
	StickLength int         `yaml:"stick_length"`
	MinHeight   float64     `yaml:"min_height"`
	MaxHeight   float64     `yaml:"max_height"`
	UpAxis      int         `yaml:"up_axis"`

	// rope, patch
	From       []float64   `yaml:"from"`
	To         []float64   `yaml:"to"`
	Corners    [][]float64 `yaml:"corners"`
	Resolution []int       `yaml:"resolution"`
	Fixed      []string    `yaml:"fixed"`
}

type b3BodySpawner struct {
	validate func(spec B3BodySpec) error
	spawn    func(ctx *B3SimulationContext, spec B3BodySpec) *B3Object
}

var b3BodySpawners = map[string]b3BodySpawner{
	"box": {
		validate: func(spec B3BodySpec) error {
			return b3CheckExtent("dimensions", spec.Dimensions)
		},
		spawn: func(ctx *B3SimulationContext, spec B3BodySpec) *B3Object {
			return CreateB3RigidBox(ctx, b3Vec3(spec.Dimensions, 0), spec.Mass, spec.position(), spec.rotation())
		},
	},
	"sphere": {
		validate: func(spec B3BodySpec) error {
			if spec.Radius <= 0 {
				return fmt.Errorf("radius must be positive")
			}
			return nil
		},
		spawn: func(ctx *B3SimulationContext, spec B3BodySpec) *B3Object {
			return CreateB3RigidSphere(ctx, spec.Radius, spec.Segments, spec.Mass, spec.position(), spec.rotation())
		},
	},
	"cylinder": {
		validate: func(spec B3BodySpec) error {
			var err error
			if spec.TopRadius < 0 || spec.BottomRadius < 0 || spec.TopRadius+spec.BottomRadius == 0 {
				err = multierr.Append(err, fmt.Errorf("top_radius and bottom_radius must be non-negative and not both zero"))
			}
			if spec.Height <= 0 {
				err = multierr.Append(err, fmt.Errorf("height must be positive"))
			}
			if spec.Segments < 3 {
				err = multierr.Append(err, fmt.Errorf("segments must be at least 3"))
			}
			return err
		},
		spawn: func(ctx *B3SimulationContext, spec B3BodySpec) *B3Object {
			return CreateB3RigidCylinder(ctx, spec.TopRadius, spec.BottomRadius, spec.Height, spec.Segments, spec.Mass, spec.position(), spec.rotation())
		},
	},
	"hull": {
		validate: func(spec B3BodySpec) error {
			return multierr.Append(spec.checkVertices(), b3CheckExtent("scale", spec.Scale))
		},
		spawn: func(ctx *B3SimulationContext, spec B3BodySpec) *B3Object {
			return CreateB3RigidHull(ctx, spec.mesh(), b3Vec3(spec.Scale, 1), spec.Mass, spec.position(), spec.rotation())
		},
	},
	"mesh": {
		validate: func(spec B3BodySpec) error {
			err := multierr.Append(spec.checkVertices(), b3CheckExtent("scale", spec.Scale))
			if len(spec.Indices) == 0 || len(spec.Indices)%3 != 0 {
				err = multierr.Append(err, fmt.Errorf("indices must hold whole triangles"))
			}
			for _, index := range spec.Indices {
				if index < 0 || index >= len(spec.Vertices) {
					err = multierr.Append(err, fmt.Errorf("index %d out of range", index))
					break
				}
			}
			if spec.Margin < 0 {
				err = multierr.Append(err, fmt.Errorf("margin must not be negative"))
			}
			return err
		},
		spawn: func(ctx *B3SimulationContext, spec B3BodySpec) *B3Object {
			return CreateB3RigidMesh(ctx, spec.mesh(), b3Vec3(spec.Scale, 1), spec.Margin, spec.Mass, spec.position(), spec.rotation())
		},
	},
	"terrain": {
		validate: func(spec B3BodySpec) error {
			var err error
			if len(spec.Heights) == 0 || len(spec.Heights[0]) == 0 {
				err = multierr.Append(err, fmt.Errorf("heights must not be empty"))
			}
			for i, row := range spec.Heights {
				if len(row) != len(spec.Heights[0]) {
					err = multierr.Append(err, fmt.Errorf("heights row %d has %d samples, want %d", i, len(row), len(spec.Heights[0])))
				}
			}
			if spec.StickWidth == 1 || spec.StickLength == 1 || spec.StickWidth < 0 || spec.StickLength < 0 {
				err = multierr.Append(err, fmt.Errorf("stick_width and stick_length must be at least 2"))
			}
			if spec.MinHeight > spec.MaxHeight {
				err = multierr.Append(err, fmt.Errorf("min_height is above max_height"))
			}
			if spec.UpAxis < 0 || spec.UpAxis > 2 {
				err = multierr.Append(err, fmt.Errorf("up_axis must be 0, 1 or 2"))
			}
			return multierr.Append(err, b3CheckExtent("scale", spec.Scale))
		},
		spawn: func(ctx *B3SimulationContext, spec B3BodySpec) *B3Object {
			field := spec.heightField()
			width, length := spec.StickWidth, spec.StickLength
			if width == 0 {
				width = MaxInt(2, field.Width)
			}
			if length == 0 {
				length = MaxInt(2, field.Length)
			}
			return CreateB3RigidTerrain(ctx, field, width, length, spec.MinHeight, spec.MaxHeight, spec.UpAxis, b3Vec3(spec.Scale, 1), spec.Mass, spec.position(), spec.rotation())
		},
	},
	"rope": {
		validate: func(spec B3BodySpec) error {
			err := multierr.Append(b3CheckVec3("from", spec.From, false), b3CheckVec3("to", spec.To, false))
			if len(spec.Resolution) > 1 || (len(spec.Resolution) == 1 && spec.Resolution[0] < 0) {
				err = multierr.Append(err, fmt.Errorf("resolution must be one non-negative count"))
			}
			_, fixErr := b3ParseFixed(spec.Fixed, map[string]int{"from": B3RopeFixed.E_from, "to": B3RopeFixed.E_to})
			return multierr.Append(err, fixErr)
		},
		spawn: func(ctx *B3SimulationContext, spec B3BodySpec) *B3Object {
			resolution := 0
			if len(spec.Resolution) == 1 {
				resolution = spec.Resolution[0]
			}
			fixeds, _ := b3ParseFixed(spec.Fixed, map[string]int{"from": B3RopeFixed.E_from, "to": B3RopeFixed.E_to})
			return CreateB3SoftRope(ctx, b3Vec3(spec.From, 0), b3Vec3(spec.To, 0), resolution, fixeds, spec.Mass)
		},
	},
	"patch": {
		validate: func(spec B3BodySpec) error {
			var err error
			if len(spec.Corners) != 4 {
				err = multierr.Append(err, fmt.Errorf("corners must hold 4 points, got %d", len(spec.Corners)))
			}
			for i, corner := range spec.Corners {
				err = multierr.Append(err, b3CheckVec3(fmt.Sprintf("corners[%d]", i), corner, false))
			}
			if len(spec.Resolution) != 2 || spec.Resolution[0] < 2 || spec.Resolution[1] < 2 {
				err = multierr.Append(err, fmt.Errorf("resolution must be two counts of at least 2"))
			}
			_, fixErr := b3ParseFixed(spec.Fixed, b3PatchFixedNames)
			return multierr.Append(err, fixErr)
		},
		spawn: func(ctx *B3SimulationContext, spec B3BodySpec) *B3Object {
			var corners [4]mgl64.Vec3
			for i := range corners {
				corners[i] = b3Vec3(spec.Corners[i], 0)
			}
			fixeds, _ := b3ParseFixed(spec.Fixed, b3PatchFixedNames)
			return CreateB3SoftPatch(ctx, corners, spec.Resolution[0], spec.Resolution[1], fixeds, spec.Mass)
		},
	},
}

var b3PatchFixedNames = map[string]int{
	"00": B3PatchFixed.E_corner00,
	"10": B3PatchFixed.E_corner10,
	"01": B3PatchFixed.E_corner01,
	"11": B3PatchFixed.E_corner11,
}

func ParseB3Scene(data []byte) (*B3Scene, error) {
	scene := &B3Scene{}
	if err := yaml.Unmarshal(data, scene); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	return scene, nil
}

func LoadB3Scene(path string) (*B3Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene %s: %w", path, err)
	}
	scene, err := ParseB3Scene(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return scene, nil
}

/// Checks every body and reports all problems together.
func (scene B3Scene) Validate() error {
	var err error
	for i, spec := range scene.Bodies {
		if bodyErr := spec.Validate(); bodyErr != nil {
			err = multierr.Append(err, fmt.Errorf("body %d (%s): %w", i, spec.label(), bodyErr))
		}
	}
	return err
}

func (spec B3BodySpec) Validate() error {
	spawner, ok := b3BodySpawners[spec.Shape]
	if !ok {
		return fmt.Errorf("%w %q", ErrB3UnknownShape, spec.Shape)
	}

	err := multierr.Combine(
		b3CheckVec3("position", spec.Position, true),
		b3CheckVec3("rotation", spec.Rotation, true),
	)
	if !B3IsValid(spec.Mass) {
		err = multierr.Append(err, fmt.Errorf("mass is not a finite number"))
	}
	if shapeErr := spawner.validate(spec); shapeErr != nil {
		err = multierr.Append(err, shapeErr)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrB3InvalidBody, err)
	}
	return nil
}

/// Validates the scene, then creates its bodies in file order. Nothing is
/// spawned when validation fails.
func (scene B3Scene) Spawn(ctx *B3SimulationContext) ([]*B3Object, error) {
	if err := scene.Validate(); err != nil {
		return nil, err
	}

	objects := make([]*B3Object, 0, len(scene.Bodies))
	for _, spec := range scene.Bodies {
		object := b3BodySpawners[spec.Shape].spawn(ctx, spec)
		if spec.Name != "" {
			object.SetName(spec.Name)
		}
		objects = append(objects, object)
	}
	return objects, nil
}

func (spec B3BodySpec) label() string {
	if spec.Name != "" {
		return spec.Name
	}
	return spec.Shape
}

func (spec B3BodySpec) position() mgl64.Vec3 {
	return b3Vec3(spec.Position, 0)
}

func (spec B3BodySpec) rotation() mgl64.Quat {
	return B3QuatFromEulerDegrees(b3Vec3(spec.Rotation, 0))
}

func (spec B3BodySpec) checkVertices() error {
	if len(spec.Vertices) == 0 {
		return fmt.Errorf("vertices must not be empty")
	}
	var err error
	for i, v := range spec.Vertices {
		err = multierr.Append(err, b3CheckVec3(fmt.Sprintf("vertices[%d]", i), v, false))
	}
	return err
}

func (spec B3BodySpec) mesh() *B3TriMesh {
	vertices := make([]mgl64.Vec3, len(spec.Vertices))
	for i, v := range spec.Vertices {
		vertices[i] = b3Vec3(v, 0)
	}
	return NewB3TriMesh(vertices, spec.Indices)
}

func (spec B3BodySpec) heightField() *B3HeightField {
	width, length := len(spec.Heights[0]), len(spec.Heights)
	data := make([]float64, 0, width*length)
	for _, row := range spec.Heights {
		data = append(data, row...)
	}
	return NewB3HeightField(width, length, data)
}

func b3CheckVec3(field string, v []float64, optional bool) error {
	if len(v) == 0 && optional {
		return nil
	}
	if len(v) != 3 {
		return fmt.Errorf("%s must have 3 components, got %d", field, len(v))
	}
	for _, x := range v {
		if !B3IsValid(x) {
			return fmt.Errorf("%s is not finite", field)
		}
	}
	return nil
}

// Like b3CheckVec3 on an optional vector, but every component must also be
// non-negative.
func b3CheckExtent(field string, v []float64) error {
	if err := b3CheckVec3(field, v, true); err != nil {
		return err
	}
	for _, x := range v {
		if x < 0 {
			return fmt.Errorf("%s must not be negative, got %v", field, v)
		}
	}
	return nil
}

// Missing vectors take the given fill value in every component.
func b3Vec3(v []float64, fill float64) mgl64.Vec3 {
	if len(v) != 3 {
		return B3Vec3Splat(fill)
	}
	return mgl64.Vec3{v[0], v[1], v[2]}
}

func b3ParseFixed(names []string, bits map[string]int) (int, error) {
	fixeds := 0
	var err error
	for _, name := range names {
		bit, ok := bits[name]
		if !ok {
			err = multierr.Append(err, fmt.Errorf("unknown fixed point %q", name))
			continue
		}
		fixeds |= bit
	}
	return fixeds, err
}
