// Package ecs provides a [Donburi] adapter for marionette puppets.
//
// Attach a puppet to an entity with [AddPuppet], then call [UpdatePuppets]
// once per frame. Each puppet's render commands are stored on its component
// and published as a [FrameEvent] on [FrameEventType]:
//
//	entity := ecs.AddPuppet(world, eng)
//	ecs.FrameEventType.Subscribe(world, func(w donburi.World, ev ecs.FrameEvent) {
//		// draw ev.Commands
//	})
//
//	// each frame:
//	ecs.UpdatePuppets(world, dt)
//	ecs.FrameEventType.ProcessEvents(world)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
