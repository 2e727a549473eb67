package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/akmonengine/quill"
	"github.com/akmonengine/quill/actor"
	"github.com/akmonengine/quill/config"
	"github.com/akmonengine/quill/scene"
	"github.com/davecgh/go-spew/spew"
	"github.com/go-gl/mathgl/mgl64"
)

type options struct {
	path  string
	steps int
	every int
	dump  bool
}

// objectState is what the runner prints of an object
type objectState struct {
	Name            string
	Position        mgl64.Vec2
	Rotation        float64
	Velocity        mgl64.Vec2
	AngularVelocity float64
	Touching        []string
}

func main() {
	path := flag.String("scene", "", "scene file (yaml)")
	steps := flag.Int("steps", 0, "number of steps, overrides run.steps")
	every := flag.Int("every", 30, "print the objects every n steps, 0 to print the last step only")
	watch := flag.Bool("watch", false, "run the scene again whenever the file changes")
	dump := flag.Bool("dump", false, "dump the parsed scene and the final object states")
	flag.Parse()

	if *path == "" && flag.NArg() > 0 {
		*path = flag.Arg(0)
	}
	if *path == "" {
		flag.Usage()
		os.Exit(2)
	}

	opts := options{path: *path, steps: *steps, every: *every, dump: *dump}
	if err := run(opts); err != nil {
		if !*watch {
			log.Fatal(err)
		}
		log.Print(err)
	}
	if !*watch {
		return
	}

	if err := watchScene(opts); err != nil {
		log.Fatal(err)
	}
}

func run(opts options) error {
	sc, err := config.Load(opts.path)
	if err != nil {
		return err
	}
	if opts.steps > 0 {
		sc.Run.Steps = opts.steps
	}
	if opts.dump {
		spew.Dump(sc)
	}

	bridge, err := sc.Build()
	if err != nil {
		return fmt.Errorf("%s: %w", opts.path, err)
	}

	touches := 0
	bridge.World.Events.Subscribe(quill.COLLISION_ENTER, func(event quill.Event) {
		touches++
	})
	for _, obj := range bridge.Objects() {
		obj.Handlers.General = func(self *scene.Object, c scene.Collision) {
			if c.Other != nil && !c.IsTrigger {
				log.Printf("%s hits %s", self.Name, c.Other.Name)
			}
		}
	}

	log.Printf("running %s: %d objects, %d constraints, %d steps of %.4fs",
		filepath.Base(opts.path), len(bridge.Objects()), len(bridge.World.Constraints()), sc.Run.Steps, sc.Run.DT)

	for step := 1; step <= sc.Run.Steps; step++ {
		bridge.Step(sc.Run.DT)
		if (opts.every > 0 && step%opts.every == 0) || step == sc.Run.Steps {
			printStates(bridge, step)
		}
	}

	log.Printf("done: %d contacts started, kinetic energy %.4f", touches, bridge.World.KineticEnergy())
	if opts.dump {
		spew.Dump(states(bridge))
	}
	return nil
}

func watchScene(opts options) error {
	watcher, err := config.NewWatcher(opts.path)
	if err != nil {
		return err
	}
	defer watcher.Close()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	target, _ := filepath.Abs(opts.path)
	log.Printf("watching %s", opts.path)
	for {
		select {
		case name, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if abs, _ := filepath.Abs(name); abs != target {
				continue
			}
			log.Printf("%s changed", filepath.Base(name))
			if err := run(opts); err != nil {
				log.Print(err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("watch: %v", err)
		case <-interrupt:
			return nil
		}
	}
}

func states(bridge *scene.Bridge) []objectState {
	result := make([]objectState, 0, len(bridge.Objects()))
	for _, obj := range bridge.Objects() {
		body := obj.Body()
		state := objectState{
			Name:            obj.Name,
			Position:        obj.Position,
			Rotation:        obj.Rotation,
			Velocity:        body.Velocity.Linear,
			AngularVelocity: body.Velocity.Angular,
		}
		for _, data := range body.Colliding.Get(actor.General) {
			if other, ok := bridge.World.Body(data.Body); ok {
				if o, ok := other.UserData.(*scene.Object); ok {
					state.Touching = append(state.Touching, o.Name)
				}
			}
		}
		result = append(result, state)
	}
	return result
}

func printStates(bridge *scene.Bridge, step int) {
	fmt.Printf("--- step %d ---\n", step)
	for _, s := range states(bridge) {
		fmt.Printf("  %-10s pos (%8.3f, %8.3f)  rot %6.3f  vel (%7.3f, %7.3f)  touching %v\n",
			s.Name, s.Position.X(), s.Position.Y(), s.Rotation, s.Velocity.X(), s.Velocity.Y(), s.Touching)
	}
}
