package game

import (
	"fmt"
	"sync"
	"time"

	"github.com/pixelmint/nftplay/anim"
	cfg "github.com/pixelmint/nftplay/config"
	"github.com/pixelmint/nftplay/systems"
)

// Runner drives a session's periodic work on one goroutine: effect motion,
// the boss state machine, and quest recomputation, each on its own interval.
// The tickers are independent channels; relative ordering between them is
// not guaranteed.
type Runner struct {
	session *Session

	mu     sync.Mutex
	paused bool
	stop   chan struct{}
	done   chan struct{}
}

// NewRunner starts the update loop for session.
func NewRunner(session *Session) *Runner {
	r := &Runner{
		session: session,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go r.run()
	return r
}

func (r *Runner) run() {
	defer close(r.done)

	motion := time.NewTicker(cfg.Loop.MotionInterval)
	boss := time.NewTicker(cfg.Loop.BossInterval)
	quests := time.NewTicker(cfg.Loop.QuestInterval)
	defer motion.Stop()
	defer boss.Stop()
	defer quests.Stop()

	dt := float32(cfg.Loop.MotionInterval.Seconds())

	for {
		select {
		case <-r.stop:
			return
		case <-motion.C:
			if r.running() {
				r.session.TickMotion(dt)
			}
		case <-boss.C:
			if r.running() {
				r.session.TickBoss()
			}
		case <-quests.C:
			if r.running() {
				r.session.TickQuests()
			}
		}
	}
}

func (r *Runner) running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return !r.paused
}

// Pause stops the periodic updates without touching session state. Combo
// windows and boss tick counters resume exactly where they were.
func (r *Runner) Pause() {
	r.mu.Lock()
	r.paused = true
	r.mu.Unlock()
}

// Resume restarts the periodic updates.
func (r *Runner) Resume() {
	r.mu.Lock()
	r.paused = false
	r.mu.Unlock()
}

// Close stops the loop, waits for it to drain, and closes the session.
// Safe to call more than once.
func (r *Runner) Close() {
	r.mu.Lock()
	select {
	case <-r.stop:
	default:
		close(r.stop)
	}
	r.mu.Unlock()

	<-r.done
	r.session.Close()
}

// TickMotion advances the particle tweens by dt seconds.
func (s *Session) TickMotion(dt float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	systems.UpdateMotion(s.ecs, dt)
}

// TickBoss advances the boss state machine one tick and surfaces attack
// telegraphs through the timer-trigger effects.
func (s *Session) TickBoss() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	for _, tr := range systems.UpdateBoss(s.ecs) {
		if tr.To == cfg.BossAttack {
			s.registry.TriggerAll(anim.TriggerTimer, s.surf, s.snapshotLocked())
		}
	}
}

// TickQuests recomputes quest progress and toasts the newly completed ones.
func (s *Session) TickQuests() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	at := s.now()
	for _, def := range systems.UpdateQuests(s.ecs) {
		s.pushToast(ToastQuest, fmt.Sprintf("Quest complete: %s", def.Name), at)
	}
}
