package tags

import "github.com/yohamta/donburi"

var (
	Session  = donburi.NewTag().SetName("Session")
	Boss     = donburi.NewTag().SetName("Boss")
	Quest    = donburi.NewTag().SetName("Quest")
	Story    = donburi.NewTag().SetName("Story")
	Particle = donburi.NewTag().SetName("Particle")
)
