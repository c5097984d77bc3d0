// Package marionette animates rigged 2D puppets.
//
// A puppet is a tree of nodes plus a set of named parameters. Each parameter
// drives bindings: grids of values, sampled at normalized breakpoints along
// the parameter's axes, that offset a node's translation, rotation, scale or
// Z order. Every frame the engine evaluates the bindings at the current
// parameter values, composes the transform hierarchy and emits one
// [RenderCommand] per node, sorted back to front.
//
// The engine does not draw anything. A renderer consumes the commands.
//
// # Quick start
//
// Load a puppet with the model package and build an engine:
//
//	p, err := model.Open("puppet.inp")
//	if err != nil {
//		log.Fatal(err)
//	}
//	eng, err := marionette.New(p)
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Then, once per frame:
//
//	for _, cmd := range eng.Update(dt) {
//		// draw cmd.Node with cmd.Transform
//	}
//
// # Parameters
//
// Parameters are shared handles. [Param1D] and [Param2D] may be written from
// any goroutine (an input handler, an audio callback, a network receiver)
// while another goroutine runs [Engine.Update]. Each write is atomic; a
// two-axis value is never observed half updated. Different parameters are
// independent, so one frame may see a fresh value of one parameter and a
// stale value of another.
//
//	yaw := eng.Param1D("Head:: Yaw")
//	yaw.Set(0.3)
//
// [ParamTween] eases a parameter towards a target (via [gween]); the lipsync
// sub-package drives a parameter from audio loudness.
//
// # Errors
//
// [New] rejects descriptions it cannot evaluate. Errors wrap [ErrInvalid] for
// malformed input (bad breakpoints, min above max, grids of the wrong shape)
// and [ErrUnsupported] for features that are recognized but not implemented
// (non-linear bindings, mesh deformation, masks, composites, physics nodes).
// Once built, Update cannot fail.
//
// # Logging
//
// The package is silent by default. Use [SetLogger] or [WithLogger] to
// receive construction warnings and, with [WithDebug], per-frame timings.
//
// # ECS integration
//
// The ecs sub-package provides a [Donburi] component and system that update
// every puppet in a world and publish the resulting commands as events.
//
// [gween]: https://github.com/tanema/gween
// [Donburi]: https://github.com/yohamta/donburi
package marionette
