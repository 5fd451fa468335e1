package systems

import (
	"fmt"
	"log"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"

	"github.com/pixelmint/nftplay/components"
	"github.com/pixelmint/nftplay/surface"
)

// UpdateMotion advances every live particle tween by dt seconds and writes
// the sampled offsets back to the node styles, then counts down and removes
// expired entities. Node errors mean the surface already detached the node;
// they are logged once and the motion drops its handle.
func UpdateMotion(e *ecs.ECS, dt float32) {
	components.Motion.Each(e.World, func(entry *donburi.Entry) {
		m := components.Motion.Get(entry)
		if m.Node == nil {
			return
		}
		x, _ := m.X.Update(dt)
		y, _ := m.Y.Update(dt)
		style := fmt.Sprintf("translate(%.2fpx, %.2fpx)", x, y)
		if err := m.Node.SetStyle("transform", style); err != nil {
			if err != surface.ErrDetached {
				log.Printf("Warning: motion style update: %v", err)
			}
			m.Node = nil
		}
	})

	var expired []*donburi.Entry
	components.AutoDestroy.Each(e.World, func(entry *donburi.Entry) {
		ad := components.AutoDestroy.Get(entry)
		ad.TicksRemaining--
		if ad.TicksRemaining <= 0 {
			expired = append(expired, entry)
		}
	})
	for _, entry := range expired {
		entry.Remove()
	}
}
