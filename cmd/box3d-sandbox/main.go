package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ByteArena/box3d"
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "world config (TOML)")
	scenePath := flag.String("scene", "", "scene to spawn (YAML); a small demo scene when empty")
	frames := flag.Int("frames", 120, "number of frames to simulate")
	fps := flag.Float64("fps", 60, "frame rate handed to the update driver")
	flag.Parse()

	cfg := box3d.DefaultB3WorldConfig()
	if *configPath != "" {
		loaded, err := box3d.LoadB3WorldConfig(*configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	log, err := cfg.Logging.NewLogger()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	ctx := box3d.CreateB3SimulationContext(
		box3d.WithB3Config(cfg),
		box3d.WithB3Logger(log),
		box3d.WithB3FrameRateSource(box3d.B3FixedFrameRate(*fps)),
	)
	defer ctx.Release()

	if *scenePath != "" {
		scene, err := box3d.LoadB3Scene(*scenePath)
		if err != nil {
			return fmt.Errorf("load scene: %w", err)
		}
		if _, err := scene.Spawn(ctx); err != nil {
			return fmt.Errorf("spawn scene: %w", err)
		}
	} else {
		spawnDemo(ctx)
	}
	log.Info("scene ready", zap.Int("bodies", ctx.Len()))

	world := ctx.GetWorld()
	for frame := 0; frame < *frames; frame++ {
		ctx.Update()
		if frame%30 == 0 {
			log.Debug("frame",
				zap.Int("frame", frame),
				zap.Int("objects", ctx.GetNumObjects()),
				zap.Int("contacts", len(world.GetContactManifolds())),
				zap.Float64("stepMs", world.GetProfile().Step),
			)
		}
	}

	for _, object := range ctx.GetObjects() {
		body := object.GetBody()
		log.Info("body",
			zap.String("name", object.GetName()),
			zap.Bool("active", body.IsActive()),
			zap.Any("position", bodyPosition(object)),
		)
	}
	return nil
}

func spawnDemo(ctx *box3d.B3SimulationContext) {
	identity := mgl64.QuatIdent()

	box3d.CreateB3RigidBox(ctx, mgl64.Vec3{20, 1, 20}, 0, mgl64.Vec3{0, -0.5, 0}, identity)
	box3d.CreateB3RigidBox(ctx, mgl64.Vec3{1, 1, 1}, 1, mgl64.Vec3{0, 4, 0}, identity)
	box3d.CreateB3RigidSphere(ctx, 0.5, 16, 1, mgl64.Vec3{1.5, 6, 0}, identity)
	box3d.CreateB3RigidCylinder(ctx, 0.3, 0.6, 1, 12, 2, mgl64.Vec3{-1.5, 5, 0}, identity)
	box3d.CreateB3SoftRope(ctx, mgl64.Vec3{-3, 6, 0}, mgl64.Vec3{3, 6, 0}, 10, box3d.B3RopeFixed.E_from|box3d.B3RopeFixed.E_to, 1)
}

func bodyPosition(object *box3d.B3Object) mgl64.Vec3 {
	if soft := object.GetSoftBody(); soft != nil {
		return soft.GetCenter()
	}
	return object.GetBody().GetWorldTransform().P
}
