package main

import (
	"fmt"
	"math"

	"github.com/akmonengine/quill"
	"github.com/akmonengine/quill/actor"
	"github.com/akmonengine/quill/constraint"
	"github.com/akmonengine/quill/geometry"
	"github.com/akmonengine/quill/sat"
	"github.com/go-gl/mathgl/mgl64"
)

// CollisionDebugger instruments the collision of two bodies
type CollisionDebugger interface {
	DebugSAT(bodyA, bodyB *actor.RigidBody, manifold sat.Manifold, collides bool)
	DebugMonitor(body *actor.RigidBody)
	DebugContact(contact *constraint.Contact)
}

// SimpleDebugger prints everything to stdout
type SimpleDebugger struct{}

func (d *SimpleDebugger) DebugSAT(bodyA, bodyB *actor.RigidBody, manifold sat.Manifold, collides bool) {
	if !collides {
		fmt.Printf("   no overlap (distance %.4f)\n", minDistance(bodyA, bodyB))
		return
	}
	fmt.Printf("🎯 SAT:\n")
	fmt.Printf("   Normal: %v  Depth: %.6f\n", manifold.Normal, manifold.Depth)
	for i, point := range manifold.Points {
		rA := point.Sub(bodyA.Transform.Position)
		rB := point.Sub(bodyB.Transform.Position)
		fmt.Printf("   Point %d: %v\n", i, point)
		fmt.Printf("      rA (floor): %v (len=%.3f)\n", rA, rA.Len())
		fmt.Printf("      rB (box):   %v (len=%.3f)\n", rB, rB.Len())
	}
}

func (d *SimpleDebugger) DebugMonitor(body *actor.RigidBody) {
	for _, dir := range actor.Directions {
		for _, data := range body.Colliding.Get(dir) {
			fmt.Printf("   %-6s body %d normal %v resolved=%v\n", dir, data.Body, data.Normal, data.Resolved)
		}
	}
}

func (d *SimpleDebugger) DebugContact(contact *constraint.Contact) {
	fmt.Printf("⚙️  Contact:\n")
	fmt.Printf("   Box velocity: %v  angular: %.4f\n", contact.BodyB.Velocity.Linear, contact.BodyB.Velocity.Angular)
	fmt.Printf("   Depth: %.6f  Points: %d\n", contact.Depth, len(contact.Points))
}

func minDistance(bodyA, bodyB *actor.RigidBody) float64 {
	best := math.Inf(1)
	for _, a := range bodyA.Models() {
		for _, b := range bodyB.Models() {
			best = math.Min(best, sat.Distance(a, b))
		}
	}
	return best
}

// SetupScene creates a floor and a tilted bouncing box
func SetupScene() (*quill.World, *actor.RigidBody, *actor.RigidBody, CollisionDebugger) {
	debugger := &SimpleDebugger{}
	world := quill.NewWorld()
	world.Substeps = 1

	// Floor: top edge at y=0, y grows downward
	floor := actor.NewRigidBody(actor.NewTransform(mgl64.Vec2{}), actor.BodyTypeStatic)
	floor.AddShape(geometry.NewRect(-20, 0, 40, 2))
	world.AddBody(floor)

	box := actor.NewRigidBody(actor.Transform{
		Position: mgl64.Vec2{-5, -5},
		Angle:    mgl64.DegToRad(20),
	}, actor.BodyTypeDynamic)
	box.AddShape(geometry.NewBox(3, 3))
	box.Material.Restitution = 0.8 // high restitution to watch the bounces
	world.AddBody(box)

	world.Events.Subscribe(quill.ONSET, func(event quill.Event) {
		onset := event.(quill.OnsetEvent)
		if onset.Body == box && onset.Direction != actor.General {
			fmt.Printf("💥 box touches the floor on its %s side\n", onset.Direction)
		}
	})

	return world, floor, box, debugger
}

// RunBouncingBox steps the scene and prints the box state around each step
func RunBouncingBox() {
	fmt.Println("🧪 Bouncing box")
	fmt.Println("===============")

	world, floor, box, debugger := SetupScene()

	fmt.Printf("Initial setup:\n")
	fmt.Printf("  Floor: position %v\n", floor.Transform.Position)
	fmt.Printf("  Box: position %v, angle %.3f\n", box.Transform.Position, box.Transform.Angle)
	fmt.Printf("  Gravity: %v\n", world.Gravity)
	fmt.Println()

	const dt float64 = 1.0 / 60.0
	const maxSteps int = 200

	for step := 0; step < maxSteps; step++ {
		fmt.Printf("--- STEP %d ---\n", step+1)
		fmt.Printf("Box BEFORE:\n")
		fmt.Printf("  Position: %v  Velocity: %v\n", box.Transform.Position, box.Velocity.Linear)
		fmt.Printf("  Angle: %.4f  Angular velocity: %.4f\n", box.Transform.Angle, box.Velocity.Angular)

		manifold, collides := quill.NarrowPhase(quill.Pair{BodyA: floor, BodyB: box})
		debugger.DebugSAT(floor, box, manifold, collides)
		if collides {
			debugger.DebugContact(&constraint.Contact{
				BodyA:  floor,
				BodyB:  box,
				Normal: manifold.Normal,
				Depth:  manifold.Depth,
				Points: manifold.Points,
			})
		}

		world.Step(dt)

		fmt.Printf("Box AFTER:\n")
		fmt.Printf("  Position: %v  Velocity: %v\n", box.Transform.Position, box.Velocity.Linear)
		fmt.Printf("  Angle: %.4f  Angular velocity: %.4f\n", box.Transform.Angle, box.Velocity.Angular)
		fmt.Printf("  Kinetic energy: %.4f\n", world.KineticEnergy())
		debugger.DebugMonitor(box)
		fmt.Println()
	}

	fmt.Println("Done!")
}

func main() {
	RunBouncingBox()
}
