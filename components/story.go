package components

import (
	"time"

	"github.com/yohamta/donburi"
)

// ChoiceRecord logs one dialogue decision.
type ChoiceRecord struct {
	NodeID   string
	ChoiceID string
	At       time.Time
}

// StoryData tracks narrative progress. Unlock flags are append-only: a
// fragment or chapter once unlocked never re-locks.
type StoryData struct {
	Chapter           int
	UnlockedFragments []string
	CurrentNode       string
	Choices           []ChoiceRecord
}

var Story = donburi.NewComponentType[StoryData]()
