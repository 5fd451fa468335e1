package components

import (
	"github.com/tanema/gween"
	"github.com/yohamta/donburi"

	"github.com/pixelmint/nftplay/surface"
)

// MotionData animates one spawned effect node headlessly. X/Y tween from the
// spawn point outward; the motion system writes the sampled offsets back to
// the node's inline style each motion tick.
type MotionData struct {
	Node surface.Node
	X    *gween.Tween
	Y    *gween.Tween
}

var Motion = donburi.NewComponentType[MotionData]()

// AutoDestroyData marks entities removed after a tick countdown, mirroring
// the effect node's scheduled surface cleanup.
type AutoDestroyData struct {
	TicksRemaining int
}

var AutoDestroy = donburi.NewComponentType[AutoDestroyData]()
