package game

import (
	"fmt"

	"github.com/pixelmint/nftplay/components"
	cfg "github.com/pixelmint/nftplay/config"
	"github.com/pixelmint/nftplay/minigames"
)

// GameUnlocked reports whether a mini-game's level gate has been passed.
func (s *Session) GameUnlocked(id cfg.MiniGameID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unlockedGames[id]
}

// StartMemory deals a fresh memory-match board. Restarting mid-game discards
// the old board.
func (s *Session) StartMemory() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if !s.unlockedGames[cfg.GameMemory] {
		return fmt.Errorf("%w: memory", ErrLocked)
	}
	s.memory = minigames.NewMemory(cfg.Memory.Pairs, s.rng)
	return nil
}

// FlipCard flips one memory card. A mismatch schedules the flip-back after
// the configured delay; a win pays out and counts toward quests.
func (s *Session) FlipCard(i int) (minigames.FlipOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}
	if s.memory == nil {
		return 0, ErrNoGame
	}

	outcome, err := s.memory.Flip(i)
	if err != nil {
		return outcome, err
	}

	switch outcome {
	case minigames.FlipMismatch:
		board := s.memory
		s.schedule(cfg.Memory.FlipBackDelay, func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if s.memory == board {
				board.ResolveTurn()
			}
		})
	case minigames.FlipWin:
		s.finishGameLocked("memory match", s.memory.Award())
		s.memory = nil
	}
	return outcome, nil
}

// Memory returns the running memory board, if any.
func (s *Session) Memory() *minigames.Memory {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.memory
}

// StartPuzzle shuffles a fresh sliding puzzle.
func (s *Session) StartPuzzle() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if !s.unlockedGames[cfg.GamePuzzle] {
		return fmt.Errorf("%w: puzzle", ErrLocked)
	}
	s.puzzle = minigames.NewPuzzle(cfg.Puzzle.Size, cfg.Puzzle.ShuffleMoves, s.rng)
	return nil
}

// MovePuzzleTile slides one tile. moved is false for a non-adjacent tile;
// solving the board pays out and ends the game.
func (s *Session) MovePuzzleTile(i int) (moved, solved bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, false, ErrClosed
	}
	if s.puzzle == nil {
		return false, false, ErrNoGame
	}
	moved = s.puzzle.Move(i)
	if moved && s.puzzle.Solved() {
		s.finishGameLocked("sliding puzzle", cfg.Puzzle.Award)
		s.puzzle = nil
		return true, true, nil
	}
	return moved, false, nil
}

// Puzzle returns the running puzzle, if any.
func (s *Session) Puzzle() *minigames.Puzzle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.puzzle
}

// StartPlatformer loads the embedded arcade level and spawns the player.
func (s *Session) StartPlatformer() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if !s.unlockedGames[cfg.GamePlatformer] {
		return fmt.Errorf("%w: platformer", ErrLocked)
	}
	layout, err := minigames.LoadDefaultLayout()
	if err != nil {
		return fmt.Errorf("game: platformer level: %w", err)
	}
	s.platformer = minigames.NewPlatformer(layout)
	return nil
}

// StepPlatformer advances the platformer one tick. Reaching the goal pays
// out and ends the game.
func (s *Session) StepPlatformer(in minigames.Input) (minigames.StepResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}
	if s.platformer == nil {
		return 0, ErrNoGame
	}
	res := s.platformer.Step(in)
	if res == minigames.StepGoal {
		s.finishGameLocked("platformer", cfg.Platformer.Award)
		s.platformer = nil
	}
	return res, nil
}

// Platformer returns the running platformer, if any.
func (s *Session) Platformer() *minigames.Platformer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.platformer
}

// finishGameLocked records a mini-game win: points (never XP), the quest
// counter, and a story fragment for the current chapter.
func (s *Session) finishGameLocked(name string, award int) {
	sess := components.Session.Get(s.sessionEntry)
	sess.Score += award
	sess.GamesWon++
	at := s.now()
	s.pushToast(ToastGame, fmt.Sprintf("Won the %s: +%d points", name, award), at)
	s.unlockNextFragmentLocked(at)
}
