// Package game is the per-view engagement engine: click combo scoring,
// leveling, the boss encounter, daily quests, mini-games, the story tree,
// and the hidden ARG layer. A Session owns all of that state for the
// lifetime of one NFT view and renders feedback through an injected surface.
package game

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/tanema/gween"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"

	"github.com/pixelmint/nftplay/anim"
	"github.com/pixelmint/nftplay/archetypes"
	"github.com/pixelmint/nftplay/components"
	cfg "github.com/pixelmint/nftplay/config"
	"github.com/pixelmint/nftplay/content"
	"github.com/pixelmint/nftplay/feed"
	"github.com/pixelmint/nftplay/minigames"
	"github.com/pixelmint/nftplay/surface"
	"github.com/pixelmint/nftplay/systems"
)

var (
	ErrLocked             = errors.New("game: mini-game not unlocked yet")
	ErrNoGame             = errors.New("game: mini-game not started")
	ErrInsufficientPoints = errors.New("game: not enough points")
	ErrUnknownItem        = errors.New("game: unknown shop item")
	ErrClosed             = errors.New("game: session closed")
)

// ToastKind tags entries in the session's feedback log.
type ToastKind string

const (
	ToastLevelUp ToastKind = "level-up"
	ToastUnlock  ToastKind = "unlock"
	ToastQuest   ToastKind = "quest"
	ToastClue    ToastKind = "clue"
	ToastBoss    ToastKind = "boss"
	ToastGame    ToastKind = "game"
	ToastStory   ToastKind = "story"
	ToastShop    ToastKind = "shop"
)

// Toast is one user-facing feedback entry.
type Toast struct {
	Kind    ToastKind
	Message string
	At      time.Time
}

// Config wires a Session. Surface is required; everything else defaults.
type Config struct {
	Surface surface.Surface

	// Arena is the shared style namespace. Nil builds a private arena bound
	// to the surface's style sink.
	Arena *anim.StyleArena

	// Tables overrides the embedded content set (tests).
	Tables *content.Tables

	// Effects are registered with the session's registry at start, e.g. the
	// persisted editor snapshot.
	Effects []anim.Effect

	// Now overrides the clock (tests). Nil uses time.Now.
	Now func() time.Time

	// Rand drives card shuffles and particle spread. Nil seeds from the clock.
	Rand *rand.Rand

	// NewTimer schedules deferred callbacks (effect cleanup, memory
	// flip-back). Nil uses time.AfterFunc.
	NewTimer anim.TimerFactory

	// TokenID labels the session in notifications.
	TokenID string
}

// ClickResult summarizes the state changes of one primary interaction.
type ClickResult struct {
	Points     int
	XP         int
	Combo      int
	Multiplier float64
	LevelUps   []int
	Clue       string // newly revealed ARG clue, if any
	BossDamage int
	BossDefeat bool
}

// Session is the working set for one NFT view.
type Session struct {
	mu sync.Mutex

	ecs      *ecs.ECS
	surf     surface.Surface
	arena    *anim.StyleArena
	registry *anim.Registry
	tables   *content.Tables
	tokenID  string

	now      func() time.Time
	rng      *rand.Rand
	newTimer anim.TimerFactory

	sessionEntry *donburi.Entry
	bossEntry    *donburi.Entry
	storyEntry   *donburi.Entry

	instanceIDs []string

	clues      []content.ClueDef
	foundClues map[string]bool
	codes      map[string]secretCode
	redeemed   map[string]bool

	inventory map[string]content.ItemDef

	unlockedGames map[cfg.MiniGameID]bool
	memory        *minigames.Memory
	puzzle        *minigames.Puzzle
	platformer    *minigames.Platformer

	questDate string

	toasts        []Toast
	notifications []feed.Event

	timers    map[int]func()
	nextTimer int
	closed    bool
}

// NewSession builds a session, spawns the world singletons, registers the
// effect set, and fires the load triggers.
func NewSession(c Config) (*Session, error) {
	if c.Surface == nil {
		return nil, fmt.Errorf("game: session config requires a surface")
	}
	tables := c.Tables
	if tables == nil {
		tables = content.MustLoad()
	}
	now := c.Now
	if now == nil {
		now = time.Now
	}
	rng := c.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	arena := c.Arena
	if arena == nil {
		arena = anim.NewStyleArena(c.Surface.Styles())
	}

	s := &Session{
		surf:          c.Surface,
		arena:         arena,
		tables:        tables,
		tokenID:       c.TokenID,
		now:           now,
		rng:           rng,
		newTimer:      c.NewTimer,
		foundClues:    map[string]bool{},
		redeemed:      map[string]bool{},
		inventory:     map[string]content.ItemDef{},
		unlockedGames: map[cfg.MiniGameID]bool{},
		timers:        map[int]func(){},
	}
	if s.newTimer == nil {
		s.newTimer = func(d time.Duration, f func()) func() {
			t := time.AfterFunc(d, f)
			return func() { t.Stop() }
		}
	}

	registry, err := anim.NewRegistry(anim.RegistryConfig{
		Arena:                 arena,
		NewTimer:              s.newTimer,
		InfiniteCleanupWindow: cfg.Effects.InfiniteCleanupWindow,
		OnMaterialize:         s.spawnMotion, // runs under s.mu, see spawnMotion
		Rand:                  rng,
	})
	if err != nil {
		return nil, err
	}
	s.registry = registry

	s.ecs = ecs.NewECS(donburi.NewWorld())
	startedAt := now()

	s.sessionEntry = archetypes.Session.Spawn(s.ecs)
	components.Session.Set(s.sessionEntry, &components.SessionData{
		ComboMultiplier: 1,
		Level:           1,
		XPToNext:        cfg.Level.BaseThreshold,
		EventMultiplier: EventMultiplier(startedAt),
	})

	s.bossEntry = archetypes.Boss.Spawn(s.ecs)
	components.Boss.Set(s.bossEntry, &components.BossData{
		Health:    cfg.Boss.MaxHealth,
		MaxHealth: cfg.Boss.MaxHealth,
	})

	s.storyEntry = archetypes.Story.Spawn(s.ecs)
	components.Story.Set(s.storyEntry, &components.StoryData{Chapter: 1})

	s.questDate = startedAt.Format("2006-01-02")
	s.spawnQuests()

	s.clues = tables.Clues
	s.codes = buildCodeTable(tables.Codes)

	for _, e := range c.Effects {
		id, err := registry.Register(e)
		if err != nil {
			registry.Close()
			return nil, fmt.Errorf("game: register effect %q: %w", e.ID, err)
		}
		s.instanceIDs = append(s.instanceIDs, id)
	}

	s.mu.Lock()
	s.registry.TriggerAll(anim.TriggerLoad, s.surf, s.snapshotLocked())
	s.mu.Unlock()

	return s, nil
}

func (s *Session) spawnQuests() {
	for _, def := range s.tables.Quests {
		entry := archetypes.Quest.Spawn(s.ecs)
		components.Quest.Set(entry, &components.QuestData{Def: def})
	}
}

// HandleClick processes one primary interaction at surface coordinates
// (x, y): combo/scoring, XP and level-ups, ARG pattern tracking, boss
// damage, and trigger dispatch.
func (s *Session) HandleClick(x, y float64) ClickResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ClickResult{}
	}

	sess := components.Session.Get(s.sessionEntry)
	at := s.now()

	// Combo window bookkeeping. Max combo is recorded when a run ends, not
	// while it is still building.
	if !sess.LastClickAt.IsZero() && at.Sub(sess.LastClickAt) < cfg.Combo.Window {
		sess.ComboCount++
		if sess.ComboCount%cfg.Combo.StepSize == 0 {
			sess.ComboMultiplier += cfg.Combo.MultiplierIncrement
		}
	} else {
		if sess.ComboCount > sess.MaxCombo {
			sess.MaxCombo = sess.ComboCount
			s.registry.TriggerAll(anim.TriggerCondition, s.surf, s.snapshotLocked())
		}
		sess.ComboCount = 1
		sess.ComboMultiplier = 1
	}
	sess.LastClickAt = at
	sess.TotalClicks++

	// Scoring.
	mult := sess.ComboMultiplier + sess.BoostBonus
	points := int(math.Floor(float64(cfg.Combo.BasePoints) * mult * sess.EventMultiplier))
	sess.Score += points
	xp := points / cfg.Level.XPDivisor

	result := ClickResult{
		Points:     points,
		XP:         xp,
		Combo:      sess.ComboCount,
		Multiplier: mult,
	}

	result.LevelUps = s.grantXPLocked(sess, xp)

	// ARG click-pattern window.
	w, h := s.surf.Bounds()
	cell := quantizeCell(x, y, w, h, cfg.ARG.GridSize)
	result.Clue = s.recordPatternLocked(sess, cell, at)

	// Boss damage proportional to the current multiplier.
	if boss := components.Boss.Get(s.bossEntry); boss.Active && boss.State != cfg.BossDefeat {
		damage := int(cfg.Boss.DamageBase * mult)
		_, defeated := systems.DamageBoss(s.ecs, damage)
		result.BossDamage = damage
		if defeated {
			result.BossDefeat = true
			sess.BossDefeats++
			sess.Score += cfg.Boss.RewardPoints
			s.pushToast(ToastBoss, "The guardian falls. Reward claimed.", at)
		}
	}

	s.registry.TriggerAll(anim.TriggerClick, s.surf, s.snapshotLocked())
	return result
}

// grantXPLocked applies an XP grant. Leveling is a while-loop: one large
// grant can cross several thresholds, and each crossed level fires its
// unlocks exactly once (Level only ever increases).
func (s *Session) grantXPLocked(sess *components.SessionData, xp int) []int {
	sess.XP += xp
	var levelUps []int
	for sess.XP >= sess.XPToNext {
		sess.XP -= sess.XPToNext
		sess.Level++
		sess.XPToNext = int(float64(sess.XPToNext) * cfg.Level.GrowthFactor)
		levelUps = append(levelUps, sess.Level)
		s.applyLevelUnlocksLocked(sess.Level)

		snap := s.snapshotLocked()
		s.registry.TriggerAll(anim.TriggerCondition, s.surf, snap)
		s.pushToast(ToastLevelUp, fmt.Sprintf("Level %d!", sess.Level), s.now())
	}
	return levelUps
}

func (s *Session) applyLevelUnlocksLocked(level int) {
	at := s.now()
	switch level {
	case cfg.Level.StoryFragmentLvl:
		s.unlockFirstFragmentLocked(1, at)
	case cfg.Level.MemoryGameLevel:
		s.unlockedGames[cfg.GameMemory] = true
		s.pushToast(ToastUnlock, "Memory match unlocked", at)
	case cfg.Level.StoryChapter2Lvl:
		story := components.Story.Get(s.storyEntry)
		if story.Chapter < 2 {
			story.Chapter = 2
			s.pushToast(ToastStory, "Chapter 2 unlocked", at)
		}
	case cfg.Level.PuzzleGameLevel:
		s.unlockedGames[cfg.GamePuzzle] = true
		s.pushToast(ToastUnlock, "Sliding puzzle unlocked", at)
	case cfg.Level.PlatformerLevel:
		s.unlockedGames[cfg.GamePlatformer] = true
		s.pushToast(ToastUnlock, "Platformer unlocked", at)
	}
}

// HandleHover dispatches hover-triggered effects. Hovering never scores and
// never advances the ARG window.
func (s *Session) HandleHover() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.registry.TriggerAll(anim.TriggerHover, s.surf, s.snapshotLocked())
}

// StartBoss activates the boss encounter at full health. No-op while a
// fight is already running; a defeated boss can be re-summoned.
func (s *Session) StartBoss() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	boss := components.Boss.Get(s.bossEntry)
	if boss.Active {
		return
	}
	boss.Active = true
	boss.Health = boss.MaxHealth
	boss.State = cfg.BossIdle
	boss.StateTicks = 0
	boss.DefeatFired = false
	s.pushToast(ToastBoss, "The guardian wakes.", s.now())
}

// ClaimQuest pays out a completed quest. Idempotent: a second claim pays
// nothing.
func (s *Session) ClaimQuest(questID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0
	}
	paid := systems.ClaimQuest(s.ecs, questID)
	if paid > 0 {
		sess := components.Session.Get(s.sessionEntry)
		sess.Score += paid
		s.pushToast(ToastQuest, fmt.Sprintf("Quest reward: %d points", paid), s.now())
	}
	return paid
}

// BuyItem spends points on a shop item. Non-stackable: owning the item
// already is a no-op purchase. Boost items raise the score multiplier.
func (s *Session) BuyItem(itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if _, owned := s.inventory[itemID]; owned {
		return nil
	}
	var item *content.ItemDef
	for i := range s.tables.Items {
		if s.tables.Items[i].ID == itemID {
			item = &s.tables.Items[i]
			break
		}
	}
	if item == nil {
		return fmt.Errorf("%w: %s", ErrUnknownItem, itemID)
	}
	sess := components.Session.Get(s.sessionEntry)
	if sess.Score < item.Cost {
		return fmt.Errorf("%w: %s costs %d", ErrInsufficientPoints, item.Name, item.Cost)
	}
	sess.Score -= item.Cost
	s.inventory[itemID] = *item
	if item.Kind == content.ItemBoost {
		sess.BoostBonus += item.Boost
	}
	s.pushToast(ToastShop, fmt.Sprintf("Bought %s", item.Name), s.now())
	return nil
}

// Inventory returns the owned item IDs.
func (s *Session) Inventory() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.inventory))
	for id := range s.inventory {
		out = append(out, id)
	}
	return out
}

// RefreshEventMultiplier re-snapshots the time-based modifier. Sessions
// spanning a night/weekend boundary keep the old value until this is called.
func (s *Session) RefreshEventMultiplier() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	sess := components.Session.Get(s.sessionEntry)
	sess.EventMultiplier = EventMultiplier(s.now())
}

// HandleFeedEvent appends a live event to the bounded notification log.
// Events for other tokens are dropped; remote events never mutate score,
// level, or any progression state.
func (s *Session) HandleFeedEvent(ev feed.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if ev.TokenID != "" && s.tokenID != "" && ev.TokenID != s.tokenID {
		return
	}
	s.notifications = append(s.notifications, ev)
	if over := len(s.notifications) - cfg.Feed.LogCap; over > 0 {
		s.notifications = s.notifications[over:]
	}
}

// Notifications returns a copy of the live-event log.
func (s *Session) Notifications() []feed.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]feed.Event, len(s.notifications))
	copy(out, s.notifications)
	return out
}

// Toasts returns a copy of the feedback log.
func (s *Session) Toasts() []Toast {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Toast, len(s.toasts))
	copy(out, s.toasts)
	return out
}

// Snapshot returns the current condition-trigger metrics.
func (s *Session) Snapshot() anim.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() anim.Snapshot {
	sess := components.Session.Get(s.sessionEntry)
	return anim.Snapshot{Score: sess.Score, Level: sess.Level, Combo: sess.ComboCount}
}

// State returns a copy of the session counters.
func (s *Session) State() components.SessionData {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := components.Session.Get(s.sessionEntry)
	out := *sess
	out.ClickPattern = append([]int(nil), sess.ClickPattern...)
	return out
}

// BossState returns a copy of the boss state.
func (s *Session) BossState() components.BossData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *components.Boss.Get(s.bossEntry)
}

// Quests returns a copy of every quest's state.
func (s *Session) Quests() []components.QuestData {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []components.QuestData
	components.Quest.Each(s.ecs.World, func(entry *donburi.Entry) {
		out = append(out, *components.Quest.Get(entry))
	})
	return out
}

// Registry exposes the session's effect registry (the editor preview and
// integration glue use it; tests too).
func (s *Session) Registry() *anim.Registry { return s.registry }

func (s *Session) pushToast(kind ToastKind, msg string, at time.Time) {
	s.toasts = append(s.toasts, Toast{Kind: kind, Message: msg, At: at})
}

// schedule registers a cancellable deferred callback (memory flip-back and
// friends). All outstanding callbacks are cancelled at Close.
func (s *Session) schedule(d time.Duration, f func()) {
	token := s.nextTimer
	s.nextTimer++
	cancel := s.newTimer(d, func() {
		f()
		s.mu.Lock()
		delete(s.timers, token)
		s.mu.Unlock()
	})
	s.timers[token] = cancel
}

// spawnMotion attaches headless motion tweens to freshly materialized
// particle nodes. Called synchronously from Trigger paths, which all run
// with s.mu held — it must not lock.
func (s *Session) spawnMotion(m anim.Materialized) {
	if m.Effect.Type != anim.EffectParticle || len(m.Nodes) == 0 {
		return
	}
	frames := m.Effect.Animation.SortedKeyframes()
	easeFn := frames[0].Timing.Ease()
	dur := float32(m.Effect.Animation.Duration)
	if dur <= 0 {
		dur = 1
	}
	ticks := int(m.Lifetime / cfg.Loop.MotionInterval)
	if ticks < 1 {
		ticks = 1
	}
	if ticks > cfg.Effects.MotionSteps {
		ticks = cfg.Effects.MotionSteps
	}

	for _, node := range m.Nodes {
		entry := archetypes.Particle.Spawn(s.ecs)
		dx := float32((s.rng.Float64()*2 - 1) * 60)
		dy := float32((s.rng.Float64()*2 - 1) * 60)
		components.Motion.Set(entry, &components.MotionData{
			Node: node,
			X:    gween.New(0, dx, dur, easeFn),
			Y:    gween.New(0, dy, dur, easeFn),
		})
		components.AutoDestroy.Set(entry, &components.AutoDestroyData{TicksRemaining: ticks})
	}
}

// Close tears the session down: every outstanding timer is cancelled, the
// registry's timers and owned style rules are released, and further input
// becomes a no-op. Safe to call more than once.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	cancels := make([]func(), 0, len(s.timers))
	for _, c := range s.timers {
		cancels = append(cancels, c)
	}
	s.timers = map[int]func(){}
	s.mu.Unlock()

	for _, c := range cancels {
		c()
	}
	s.registry.Close()
}
