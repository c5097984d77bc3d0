package ecs

import (
	"time"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"

	"github.com/phanxgames/marionette"
)

// PuppetData is the component attached to puppet entities.
type PuppetData struct {
	Engine   *marionette.Engine
	// Commands holds the result of the last update. It is reused by the
	// next update.
	Commands []marionette.RenderCommand
	// Paused entities are skipped by UpdatePuppets.
	Paused   bool
}

// PuppetComponent is the Donburi component type for puppets.
var PuppetComponent = donburi.NewComponentType[PuppetData]()

// FrameEvent is published once per updated puppet.
type FrameEvent struct {
	Entity   donburi.Entity
	Commands []marionette.RenderCommand
}

// FrameEventType is the Donburi event type for puppet frames.
// Events are queued; call ProcessEvents before the next UpdatePuppets, since
// Commands is only valid until then.
var FrameEventType = events.NewEventType[FrameEvent]()

var puppetQuery = donburi.NewQuery(filter.Contains(PuppetComponent))

// AddPuppet creates an entity carrying eng.
func AddPuppet(world donburi.World, eng *marionette.Engine) donburi.Entity {
	entity := world.Create(PuppetComponent)
	PuppetComponent.SetValue(world.Entry(entity), PuppetData{Engine: eng})
	return entity
}

// UpdatePuppets updates every unpaused puppet in world and publishes a
// FrameEvent for each.
func UpdatePuppets(world donburi.World, dt time.Duration) {
	puppetQuery.Each(world, func(entry *donburi.Entry) {
		p := PuppetComponent.Get(entry)
		if p.Paused || p.Engine == nil {
			return
		}
		p.Commands = p.Engine.Update(dt)
		FrameEventType.Publish(world, FrameEvent{Entity: entry.Entity(), Commands: p.Commands})
	})
}
