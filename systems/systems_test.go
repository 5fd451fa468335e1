package systems_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"

	"github.com/pixelmint/nftplay/archetypes"
	"github.com/pixelmint/nftplay/components"
	cfg "github.com/pixelmint/nftplay/config"
	"github.com/pixelmint/nftplay/content"
	"github.com/pixelmint/nftplay/surface"
	"github.com/pixelmint/nftplay/systems"
)

func newWorld() *ecs.ECS {
	return ecs.NewECS(donburi.NewWorld())
}

func spawnBoss(e *ecs.ECS, health int) *donburi.Entry {
	entry := archetypes.Boss.Spawn(e)
	components.Boss.Set(entry, &components.BossData{
		Active:    true,
		Health:    health,
		MaxHealth: health,
		State:     cfg.BossIdle,
	})
	return entry
}

func TestBossAttackCycle(t *testing.T) {
	e := newWorld()
	entry := spawnBoss(e, 500)

	var transitions []systems.BossTransition
	for i := 0; i < cfg.Boss.AttackInterval; i++ {
		transitions = append(transitions, systems.UpdateBoss(e)...)
	}
	require.Len(t, transitions, 1, "idle expires into exactly one attack")
	assert.Equal(t, cfg.BossIdle, transitions[0].From)
	assert.Equal(t, cfg.BossAttack, transitions[0].To)

	transitions = nil
	for i := 0; i < cfg.Boss.AttackDuration; i++ {
		transitions = append(transitions, systems.UpdateBoss(e)...)
	}
	require.Len(t, transitions, 1)
	assert.Equal(t, cfg.BossIdle, transitions[0].To)
	assert.Equal(t, cfg.BossIdle, components.Boss.Get(entry).State)
}

func TestBossHurtExpires(t *testing.T) {
	e := newWorld()
	entry := spawnBoss(e, 500)

	tr, defeated := systems.DamageBoss(e, 50)
	require.NotNil(t, tr)
	assert.False(t, defeated)
	assert.Equal(t, cfg.BossHurt, tr.To)
	assert.Equal(t, 450, components.Boss.Get(entry).Health)

	for i := 0; i < cfg.Boss.HurtDuration; i++ {
		systems.UpdateBoss(e)
	}
	assert.Equal(t, cfg.BossIdle, components.Boss.Get(entry).State)
}

func TestBossDefeatIsTerminal(t *testing.T) {
	e := newWorld()
	entry := spawnBoss(e, 30)

	tr, defeated := systems.DamageBoss(e, 100)
	require.NotNil(t, tr)
	assert.True(t, defeated)
	assert.Equal(t, cfg.BossDefeat, tr.To)

	boss := components.Boss.Get(entry)
	assert.Equal(t, 0, boss.Health, "health clamps at zero")
	assert.False(t, boss.Active)

	// Neither ticks nor further damage revive or re-pay a dead boss.
	assert.Empty(t, systems.UpdateBoss(e))
	tr, defeated = systems.DamageBoss(e, 100)
	assert.Nil(t, tr)
	assert.False(t, defeated)
}

func TestBossNegativeDamageIsZero(t *testing.T) {
	e := newWorld()
	entry := spawnBoss(e, 100)

	systems.DamageBoss(e, -50)
	assert.Equal(t, 100, components.Boss.Get(entry).Health)
}

func spawnQuestWorld(e *ecs.ECS, defs ...content.QuestDef) *donburi.Entry {
	sessionEntry := archetypes.Session.Spawn(e)
	components.Session.Set(sessionEntry, &components.SessionData{Level: 1})
	for _, def := range defs {
		entry := archetypes.Quest.Spawn(e)
		components.Quest.Set(entry, &components.QuestData{Def: def})
	}
	return sessionEntry
}

func TestQuestProgressDerivesAndCaps(t *testing.T) {
	e := newWorld()
	sessionEntry := spawnQuestWorld(e, content.QuestDef{
		ID: "clicks", Metric: content.MetricClicks, Requirement: 5, Reward: 10,
	})

	sess := components.Session.Get(sessionEntry)
	sess.TotalClicks = 3
	assert.Empty(t, systems.UpdateQuests(e))

	sess.TotalClicks = 99
	completed := systems.UpdateQuests(e)
	require.Len(t, completed, 1)
	assert.Equal(t, "clicks", completed[0].ID)

	entry, _ := components.Quest.First(e.World)
	q := components.Quest.Get(entry)
	assert.Equal(t, 5, q.Progress, "progress caps at the requirement")

	// Completion only reports once.
	assert.Empty(t, systems.UpdateQuests(e))
}

func TestClaimQuestPaysOnce(t *testing.T) {
	e := newWorld()
	sessionEntry := spawnQuestWorld(e,
		content.QuestDef{ID: "combo", Metric: content.MetricMaxCombo, Requirement: 2, Reward: 75},
	)
	components.Session.Get(sessionEntry).MaxCombo = 4
	systems.UpdateQuests(e)

	assert.Equal(t, 75, systems.ClaimQuest(e, "combo"))
	assert.Equal(t, 0, systems.ClaimQuest(e, "combo"))
	assert.Equal(t, 0, systems.ClaimQuest(e, "missing"))
}

func TestUpdateMotionWritesStylesAndExpires(t *testing.T) {
	e := newWorld()
	surf := surface.NewMemorySurface(100, 100)
	node, err := surf.AppendChild()
	require.NoError(t, err)

	entry := archetypes.Particle.Spawn(e)
	components.Motion.Set(entry, &components.MotionData{
		Node: node,
		X:    gween.New(0, 10, 1, ease.Linear),
		Y:    gween.New(0, 20, 1, ease.Linear),
	})
	components.AutoDestroy.Set(entry, &components.AutoDestroyData{TicksRemaining: 2})

	systems.UpdateMotion(e, 0.5)
	mem := node.(*surface.MemoryNode)
	assert.Equal(t, "translate(5.00px, 10.00px)", mem.Style("transform"))

	systems.UpdateMotion(e, 0.5)
	_, ok := components.Motion.First(e.World)
	assert.False(t, ok, "expired particles leave the world")
}

func TestUpdateMotionDropsDetachedNodes(t *testing.T) {
	e := newWorld()
	surf := surface.NewMemorySurface(100, 100)
	node, err := surf.AppendChild()
	require.NoError(t, err)
	require.NoError(t, node.Remove())

	entry := archetypes.Particle.Spawn(e)
	components.Motion.Set(entry, &components.MotionData{
		Node: node,
		X:    gween.New(0, 10, 1, ease.Linear),
		Y:    gween.New(0, 10, 1, ease.Linear),
	})
	components.AutoDestroy.Set(entry, &components.AutoDestroyData{TicksRemaining: 10})

	systems.UpdateMotion(e, 0.1)
	assert.Nil(t, components.Motion.Get(entry).Node, "detached nodes are dropped, not retried")
}
