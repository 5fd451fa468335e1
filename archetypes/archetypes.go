package archetypes

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"

	"github.com/pixelmint/nftplay/components"
	"github.com/pixelmint/nftplay/tags"
)

var (
	Session = newArchetype(
		tags.Session,
		components.Session,
	)
	Boss = newArchetype(
		tags.Boss,
		components.Boss,
	)
	Quest = newArchetype(
		tags.Quest,
		components.Quest,
	)
	Story = newArchetype(
		tags.Story,
		components.Story,
	)
	Particle = newArchetype(
		tags.Particle,
		components.Motion,
		components.AutoDestroy,
	)
)

type archetype struct {
	components []donburi.IComponentType
}

func newArchetype(cs ...donburi.IComponentType) *archetype {
	return &archetype{
		components: cs,
	}
}

func (a *archetype) Spawn(e *ecs.ECS, cs ...donburi.IComponentType) *donburi.Entry {
	entry := e.World.Entry(e.Create(
		ecs.LayerDefault,
		append(a.components, cs...)...,
	))
	return entry
}
