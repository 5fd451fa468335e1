package systems

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"

	"github.com/pixelmint/nftplay/components"
	cfg "github.com/pixelmint/nftplay/config"
)

// BossTransition reports a state change made during one boss tick.
type BossTransition struct {
	From cfg.BossStateID
	To   cfg.BossStateID
}

// UpdateBoss advances the boss state machine by one tick. Idle bosses attack
// every AttackInterval ticks; attack and hurt states expire back to idle
// after their configured durations. Defeat is terminal and never ticks out.
// Returns the transitions that happened so the session can fire feedback.
func UpdateBoss(e *ecs.ECS) []BossTransition {
	var transitions []BossTransition
	components.Boss.Each(e.World, func(entry *donburi.Entry) {
		boss := components.Boss.Get(entry)
		if !boss.Active || boss.State == cfg.BossDefeat {
			return
		}
		boss.StateTicks++

		switch boss.State {
		case cfg.BossIdle:
			if boss.StateTicks >= cfg.Boss.AttackInterval {
				transitions = append(transitions, setBossState(boss, cfg.BossAttack))
			}
		case cfg.BossAttack:
			if boss.StateTicks >= cfg.Boss.AttackDuration {
				transitions = append(transitions, setBossState(boss, cfg.BossIdle))
			}
		case cfg.BossHurt:
			if boss.StateTicks >= cfg.Boss.HurtDuration {
				transitions = append(transitions, setBossState(boss, cfg.BossIdle))
			}
		}
	})
	return transitions
}

// DamageBoss applies damage to the active boss, clamping health at zero.
// Reports the resulting transition (hurt, or defeat exactly once) and whether
// this call was the defeating blow.
func DamageBoss(e *ecs.ECS, damage int) (transition *BossTransition, defeated bool) {
	entry, ok := components.Boss.First(e.World)
	if !ok {
		return nil, false
	}
	boss := components.Boss.Get(entry)
	if !boss.Active || boss.State == cfg.BossDefeat {
		return nil, false
	}
	if damage < 0 {
		damage = 0
	}

	boss.Health -= damage
	if boss.Health <= 0 {
		boss.Health = 0
		tr := setBossState(boss, cfg.BossDefeat)
		boss.Active = false
		if boss.DefeatFired {
			return &tr, false
		}
		boss.DefeatFired = true
		return &tr, true
	}

	tr := setBossState(boss, cfg.BossHurt)
	return &tr, false
}

func setBossState(boss *components.BossData, to cfg.BossStateID) BossTransition {
	tr := BossTransition{From: boss.State, To: to}
	boss.State = to
	boss.StateTicks = 0
	return tr
}
