package components

import (
	"time"

	"github.com/yohamta/donburi"
)

// SessionData is the singleton working set for one NFT view: score, combo,
// leveling, and the ARG click window. Owned exclusively by the active
// session; there is no cross-session synchronization.
type SessionData struct {
	Score           int
	ComboCount      int
	ComboMultiplier float64
	MaxCombo        int
	LastClickAt     time.Time

	Level    int
	XP       int
	XPToNext int

	// Counters quests derive progress from. Monotonic within a session.
	TotalClicks int
	BossDefeats int
	GamesWon    int

	// EventMultiplier is the time-of-day/weekend modifier snapshot. It is
	// taken once per explicit check, never re-evaluated mid-session.
	EventMultiplier float64

	// ClickPattern is the bounded window of recent 3x3 grid cells (1..9).
	ClickPattern []int

	// BoostBonus is the flat multiplier bonus from owned shop items.
	BoostBonus float64
}

var Session = donburi.NewComponentType[SessionData]()
