package systems

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"

	"github.com/pixelmint/nftplay/components"
	"github.com/pixelmint/nftplay/content"
)

// UpdateQuests recomputes every quest's progress from the session counters.
// Progress is derived, never incremented, and capped at the requirement.
// Completed flips exactly once per quest; the newly completed quests are
// returned so the session can surface them (the completion and its feedback
// are allowed to be a tick apart).
func UpdateQuests(e *ecs.ECS) []content.QuestDef {
	sessionEntry, ok := components.Session.First(e.World)
	if !ok {
		return nil
	}
	s := components.Session.Get(sessionEntry)

	var completed []content.QuestDef
	components.Quest.Each(e.World, func(entry *donburi.Entry) {
		q := components.Quest.Get(entry)
		if q.Claimed {
			return
		}

		progress := questProgress(s, q.Def.Metric)
		if progress > q.Def.Requirement {
			progress = q.Def.Requirement
		}
		// Counters are monotonic, so derived progress never regresses.
		if progress > q.Progress {
			q.Progress = progress
		}

		if !q.Completed && q.Progress >= q.Def.Requirement {
			q.Completed = true
			completed = append(completed, q.Def)
		}
	})
	return completed
}

// ClaimQuest pays the reward for a completed quest. Claiming twice only pays
// once; claiming an incomplete quest is a no-op. Returns the points paid.
func ClaimQuest(e *ecs.ECS, questID string) int {
	paid := 0
	components.Quest.Each(e.World, func(entry *donburi.Entry) {
		q := components.Quest.Get(entry)
		if q.Def.ID != questID || !q.Completed || q.Claimed {
			return
		}
		q.Claimed = true
		paid = q.Def.Reward
	})
	return paid
}

func questProgress(s *components.SessionData, metric content.QuestMetric) int {
	switch metric {
	case content.MetricClicks:
		return s.TotalClicks
	case content.MetricScore:
		return s.Score
	case content.MetricMaxCombo:
		return s.MaxCombo
	case content.MetricBossDefeats:
		return s.BossDefeats
	case content.MetricGamesWon:
		return s.GamesWon
	}
	return 0
}
