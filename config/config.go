// Package config holds the engine tuning values. Content tables (quests,
// clues, secret codes, story, shop) live in package content; everything
// numeric lives here.
package config

import "time"

// ComboConfig contains click combo and scoring values
type ComboConfig struct {
	BasePoints          int           // points per click before multipliers
	Window              time.Duration // max inter-click latency to keep a combo alive
	StepSize            int           // every Nth combo step raises the multiplier
	MultiplierIncrement float64       // raise per step
}

// LevelConfig contains experience and leveling values
type LevelConfig struct {
	XPDivisor     int     // xp = points / XPDivisor
	BaseThreshold int     // xp to reach level 2
	GrowthFactor  float64 // threshold multiplier per level

	// Unlocks gated on exact level numbers
	MemoryGameLevel  int
	PuzzleGameLevel  int
	PlatformerLevel  int
	StoryFragmentLvl int
	StoryChapter2Lvl int
}

// BossConfig contains boss encounter values
type BossConfig struct {
	MaxHealth      int
	DamageBase     float64 // per-click damage = DamageBase * combo multiplier
	AttackInterval int     // boss ticks between attacks while idle
	AttackDuration int     // boss ticks spent in the attack state
	HurtDuration   int     // boss ticks spent in the hurt state
	RewardPoints   int     // paid once on defeat
}

// EventsConfig contains the time-of-day/weekend score modifiers
type EventsConfig struct {
	NightStartHour    int // inclusive
	NightEndHour      int // exclusive
	NightMultiplier   float64
	WeekendMultiplier float64
}

// ARGConfig contains the hidden click-pattern layer values
type ARGConfig struct {
	GridSize      int // clicks quantize onto a GridSize x GridSize grid
	PatternWindow int // how many recent cells are retained
}

// EffectsConfig contains animation runtime values
type EffectsConfig struct {
	InfiniteCleanupWindow time.Duration // removal cap for infinite iteration counts
	MotionSteps           int           // tween samples per particle motion
}

// LoopConfig contains the session update intervals. These are independent
// channels; ordering between them is not guaranteed.
type LoopConfig struct {
	MotionInterval time.Duration // effect motion
	BossInterval   time.Duration // boss/particle animation
	QuestInterval  time.Duration // quest recomputation
}

// MemoryConfig contains memory match values
type MemoryConfig struct {
	Pairs         int           // grid holds Pairs*2 cards
	FlipBackDelay time.Duration // mismatch flip-back wait
	BaseAward     int
	MovePenalty   int // points lost per move
	MinAward      int // floor
}

// PuzzleConfig contains sliding puzzle values
type PuzzleConfig struct {
	Size         int // Size x Size grid, one slot empty
	ShuffleMoves int // random walk length from the solved state
	Award        int
}

// PlatformerConfig contains the simplified platformer values
type PlatformerConfig struct {
	Gravity      float64
	JumpSpeed    float64
	MoveSpeed    float64
	MaxFallSpeed float64
	Award        int
}

// FeedConfig contains live-event feed values
type FeedConfig struct {
	LogCap      int // bounded notification log
	DialTimeout time.Duration
}

// Global configuration instances
var Combo ComboConfig
var Level LevelConfig
var Boss BossConfig
var Events EventsConfig
var ARG ARGConfig
var Effects EffectsConfig
var Loop LoopConfig
var Memory MemoryConfig
var Puzzle PuzzleConfig
var Platformer PlatformerConfig
var Feed FeedConfig

func init() {
	Combo = ComboConfig{
		BasePoints:          10,
		Window:              500 * time.Millisecond,
		StepSize:            5,
		MultiplierIncrement: 0.5,
	}

	Level = LevelConfig{
		XPDivisor:     5,
		BaseThreshold: 100,
		GrowthFactor:  1.5,

		MemoryGameLevel:  3,
		PuzzleGameLevel:  5,
		PlatformerLevel:  8,
		StoryFragmentLvl: 2,
		StoryChapter2Lvl: 4,
	}

	Boss = BossConfig{
		MaxHealth:      500,
		DamageBase:     5.0,
		AttackInterval: 40, // 2s at the 50ms boss tick
		AttackDuration: 12,
		HurtDuration:   6,
		RewardPoints:   250,
	}

	Events = EventsConfig{
		NightStartHour:    22,
		NightEndHour:      6,
		NightMultiplier:   2.0,
		WeekendMultiplier: 1.5,
	}

	ARG = ARGConfig{
		GridSize:      3,
		PatternWindow: 5,
	}

	Effects = EffectsConfig{
		InfiniteCleanupWindow: 10 * time.Second,
		MotionSteps:           60,
	}

	Loop = LoopConfig{
		MotionInterval: 16 * time.Millisecond,
		BossInterval:   50 * time.Millisecond,
		QuestInterval:  time.Second,
	}

	Memory = MemoryConfig{
		Pairs:         8,
		FlipBackDelay: 800 * time.Millisecond,
		BaseAward:     200,
		MovePenalty:   5,
		MinAward:      50,
	}

	Puzzle = PuzzleConfig{
		Size:         3,
		ShuffleMoves: 80,
		Award:        150,
	}

	Platformer = PlatformerConfig{
		Gravity:      0.75,
		JumpSpeed:    15.0,
		MoveSpeed:    6.0,
		MaxFallSpeed: 10.0,
		Award:        300,
	}

	Feed = FeedConfig{
		LogCap:      100,
		DialTimeout: 5 * time.Second,
	}
}
