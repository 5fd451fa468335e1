package config

// BossStateID identifies a boss animation state.
type BossStateID int

const (
	BossIdle BossStateID = iota
	BossAttack
	BossHurt
	BossDefeat
)

func (s BossStateID) String() string {
	switch s {
	case BossIdle:
		return "idle"
	case BossAttack:
		return "attack"
	case BossHurt:
		return "hurt"
	case BossDefeat:
		return "defeat"
	}
	return "unknown"
}

// MiniGameID identifies an unlockable mini-game.
type MiniGameID int

const (
	GameMemory MiniGameID = iota
	GamePuzzle
	GamePlatformer
)

func (g MiniGameID) String() string {
	switch g {
	case GameMemory:
		return "memory"
	case GamePuzzle:
		return "puzzle"
	case GamePlatformer:
		return "platformer"
	}
	return "unknown"
}
