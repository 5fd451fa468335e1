package game

import (
	"github.com/yohamta/donburi"

	"github.com/pixelmint/nftplay/components"
	cfg "github.com/pixelmint/nftplay/config"
	"github.com/pixelmint/nftplay/content"
	"github.com/pixelmint/nftplay/systems"
)

// ApplyProgress restores a saved snapshot into a fresh session: level and
// unlocks, score, story state, discovered ARG secrets, inventory boosts, and
// — when the snapshot is from today — the already-claimed daily quests.
// Restoration is silent: no toasts, no triggers.
func (s *Session) ApplyProgress(p *systems.SavedProgress) {
	if p == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	sess := components.Session.Get(s.sessionEntry)
	if p.Level > sess.Level {
		sess.Level = p.Level
		sess.XP = p.XP
		sess.XPToNext = p.XPToNext
		if sess.XPToNext <= 0 {
			sess.XPToNext = cfg.Level.BaseThreshold
		}
	}
	if p.Score > sess.Score {
		sess.Score = p.Score
	}
	s.restoreUnlocksLocked(sess.Level)

	story := components.Story.Get(s.storyEntry)
	if p.Chapter > story.Chapter {
		story.Chapter = p.Chapter
	}
	for _, fragID := range p.Fragments {
		if !s.fragmentUnlockedLocked(fragID) {
			story.UnlockedFragments = append(story.UnlockedFragments, fragID)
		}
	}

	for _, id := range p.FoundClues {
		s.foundClues[id] = true
	}
	for _, code := range p.RedeemedCodes {
		if _, ok := s.codes[code]; ok {
			s.redeemed[code] = true
		}
	}

	for _, itemID := range p.Inventory {
		if _, owned := s.inventory[itemID]; owned {
			continue
		}
		for _, item := range s.tables.Items {
			if item.ID != itemID {
				continue
			}
			s.inventory[itemID] = item
			if item.Kind == content.ItemBoost {
				sess.BoostBonus += item.Boost
			}
			break
		}
	}

	// Daily quests reset at the date boundary: yesterday's claims don't
	// carry over.
	if p.QuestDate == s.questDate {
		claimed := map[string]bool{}
		for _, id := range p.ClaimedQuests {
			claimed[id] = true
		}
		components.Quest.Each(s.ecs.World, func(entry *donburi.Entry) {
			q := components.Quest.Get(entry)
			if claimed[q.Def.ID] {
				q.Completed = true
				q.Claimed = true
				q.Progress = q.Def.Requirement
			}
		})
	}
}

// ExportProgress snapshots the durable slice of the session state.
func (s *Session) ExportProgress() *systems.SavedProgress {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := components.Session.Get(s.sessionEntry)
	story := components.Story.Get(s.storyEntry)

	p := &systems.SavedProgress{
		Level:     sess.Level,
		XP:        sess.XP,
		XPToNext:  sess.XPToNext,
		Score:     sess.Score,
		Chapter:   story.Chapter,
		Fragments: append([]string(nil), story.UnlockedFragments...),
		QuestDate: s.questDate,
	}
	for id := range s.foundClues {
		p.FoundClues = append(p.FoundClues, id)
	}
	for code := range s.redeemed {
		p.RedeemedCodes = append(p.RedeemedCodes, code)
	}
	for id := range s.inventory {
		p.Inventory = append(p.Inventory, id)
	}
	components.Quest.Each(s.ecs.World, func(entry *donburi.Entry) {
		q := components.Quest.Get(entry)
		if q.Claimed {
			p.ClaimedQuests = append(p.ClaimedQuests, q.Def.ID)
		}
	})
	return p
}

// restoreUnlocksLocked re-derives the level-gated unlocks without feedback.
func (s *Session) restoreUnlocksLocked(level int) {
	if level >= cfg.Level.MemoryGameLevel {
		s.unlockedGames[cfg.GameMemory] = true
	}
	if level >= cfg.Level.PuzzleGameLevel {
		s.unlockedGames[cfg.GamePuzzle] = true
	}
	if level >= cfg.Level.PlatformerLevel {
		s.unlockedGames[cfg.GamePlatformer] = true
	}
	if level >= cfg.Level.StoryChapter2Lvl {
		story := components.Story.Get(s.storyEntry)
		if story.Chapter < 2 {
			story.Chapter = 2
		}
	}
}
