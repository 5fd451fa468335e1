package components

import (
	"github.com/yohamta/donburi"

	cfg "github.com/pixelmint/nftplay/config"
)

// BossData tracks the boss encounter state machine.
// idle -> attack -> idle cycles on a tick counter; damage forces hurt -> idle;
// defeat is terminal and fires exactly once.
type BossData struct {
	Active    bool
	Health    int
	MaxHealth int
	State     cfg.BossStateID

	// Ticks spent in the current state (drives attack cadence and the
	// hurt/attack state durations).
	StateTicks int

	DefeatFired bool
}

var Boss = donburi.NewComponentType[BossData]()
