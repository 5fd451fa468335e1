package components

import (
	"github.com/yohamta/donburi"

	"github.com/pixelmint/nftplay/content"
)

// QuestData tracks one daily quest. Progress is recomputed from session
// counters each quest tick, never incremented directly, and is capped at the
// requirement. Completed flips exactly once; Claimed is idempotent.
type QuestData struct {
	Def       content.QuestDef
	Progress  int
	Completed bool
	Claimed   bool
}

var Quest = donburi.NewComponentType[QuestData]()
