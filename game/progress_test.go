package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixelmint/nftplay/components"
	cfg "github.com/pixelmint/nftplay/config"
)

func TestProgressRoundTrip(t *testing.T) {
	a, clock, _ := newTestSession(t)

	// Build up state worth keeping.
	a.mu.Lock()
	a.grantXPLocked(components.Session.Get(a.sessionEntry), 1000)
	a.mu.Unlock()
	for i := 0; i < 3; i++ {
		a.HandleClick(150, 150)
		clock.Advance(time.Second)
	}
	a.TickQuests()
	require.Equal(t, 50, a.ClaimQuest("q-clicks"))
	_, err := a.RedeemCode("pixel42")
	require.NoError(t, err)
	require.NoError(t, a.BuyItem("boost-ember"))

	snapshot := a.ExportProgress()
	levelA := a.State().Level
	scoreA := a.State().Score

	b, _, _ := newTestSession(t)
	b.ApplyProgress(snapshot)

	state := b.State()
	assert.Equal(t, levelA, state.Level)
	assert.Equal(t, scoreA, state.Score)
	assert.Equal(t, 0.25, state.BoostBonus, "inventory boosts re-apply on restore")

	assert.ElementsMatch(t, a.RedeemedCodes(), b.RedeemedCodes())
	assert.Contains(t, b.Inventory(), "boost-ember")

	// Level-gated unlocks re-derive without replaying the level-ups.
	assert.True(t, b.GameUnlocked(cfg.GameMemory))
	assert.Equal(t, 0, b.ClaimQuest("q-clicks"), "same-day claims stay claimed")

	fragsA := a.UnlockedFragments()
	fragsB := b.UnlockedFragments()
	assert.Equal(t, len(fragsA), len(fragsB))
}

func TestApplyProgressNeverDowngrades(t *testing.T) {
	s, _, _ := newTestSession(t)

	s.mu.Lock()
	s.grantXPLocked(components.Session.Get(s.sessionEntry), 300)
	s.mu.Unlock()
	level := s.State().Level
	require.Greater(t, level, 1)

	stale := s.ExportProgress()
	stale.Level = 1
	stale.Score = 0
	s.ApplyProgress(stale)

	assert.Equal(t, level, s.State().Level, "a stale snapshot never lowers the level")
}

func TestApplyProgressDropsYesterdaysClaims(t *testing.T) {
	s, clock, _ := newTestSession(t)

	for i := 0; i < 3; i++ {
		s.HandleClick(150, 150)
		clock.Advance(time.Second)
	}
	s.TickQuests()
	require.Equal(t, 50, s.ClaimQuest("q-clicks"))

	snapshot := s.ExportProgress()
	snapshot.QuestDate = "2026-01-06" // yesterday

	fresh, _, _ := newTestSession(t)
	fresh.ApplyProgress(snapshot)

	for _, q := range fresh.Quests() {
		assert.False(t, q.Claimed, "daily claims reset at the date boundary: %s", q.Def.ID)
	}
}
