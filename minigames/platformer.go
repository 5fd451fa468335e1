package minigames

import (
	"embed"
	"fmt"

	"github.com/lafriks/go-tiled"
	"github.com/solarlune/resolv"

	cfg "github.com/pixelmint/nftplay/config"
)

//go:embed levels
var levelFS embed.FS

// Collision tags within the platformer space.
const (
	tagSolid    = "solid"
	tagObstacle = "obstacle"
	tagGoal     = "goal"
)

// Rect is an axis-aligned box from the level file.
type Rect struct {
	X, Y, W, H float64
}

// Layout is the parsed level: spawn point plus solid/obstacle/goal boxes.
type Layout struct {
	Width, Height int
	SpawnX        float64
	SpawnY        float64
	Ground        []Rect
	Obstacles     []Rect
	Goal          []Rect
}

// LoadLayoutFile parses a TMX level from the embedded level set. Only object
// groups are read: "Spawn" (first object wins), "Ground", "Obstacles", and
// "Goal" — tile layers are render data and ignored here.
func LoadLayoutFile(tmxPath string) (*Layout, error) {
	levelMap, err := tiled.LoadFile(tmxPath, tiled.WithFileSystem(levelFS))
	if err != nil {
		return nil, fmt.Errorf("load TMX %s: %w", tmxPath, err)
	}

	layout := &Layout{
		Width:  levelMap.Width * levelMap.TileWidth,
		Height: levelMap.Height * levelMap.TileHeight,
	}

	for _, og := range levelMap.ObjectGroups {
		for _, o := range og.Objects {
			r := Rect{X: o.X, Y: o.Y, W: o.Width, H: o.Height}
			switch og.Name {
			case "Spawn":
				if layout.SpawnX == 0 && layout.SpawnY == 0 {
					layout.SpawnX, layout.SpawnY = o.X, o.Y
				}
			case "Ground":
				layout.Ground = append(layout.Ground, r)
			case "Obstacles":
				layout.Obstacles = append(layout.Obstacles, r)
			case "Goal":
				layout.Goal = append(layout.Goal, r)
			}
		}
	}

	if len(layout.Ground) == 0 {
		return nil, fmt.Errorf("level %s has no Ground objects", tmxPath)
	}
	return layout, nil
}

// LoadDefaultLayout loads the embedded arcade level.
func LoadDefaultLayout() (*Layout, error) {
	return LoadLayoutFile("levels/arcade.tmx")
}

// Input is one step's worth of player intent.
type Input struct {
	Left  bool
	Right bool
	Jump  bool
}

// StepResult reports what a simulation step did.
type StepResult int

const (
	StepRunning StepResult = iota
	StepReset              // hit an obstacle, back to spawn
	StepGoal               // reached the goal
)

const (
	playerW = 16
	playerH = 24
)

// Platformer is the simplified side-scroller: gravity, horizontal movement,
// jumping, obstacle resets, and a goal. It is a state container stepped by
// the caller; there is no internal clock.
type Platformer struct {
	space  *resolv.Space
	player *resolv.Object
	layout *Layout

	vx, vy   float64
	onGround bool
	resets   int
	done     bool
}

// NewPlatformer builds the collision space from a layout.
func NewPlatformer(layout *Layout) *Platformer {
	space := resolv.NewSpace(layout.Width, layout.Height, 16, 16)

	for _, r := range layout.Ground {
		space.Add(resolv.NewObject(r.X, r.Y, r.W, r.H, tagSolid))
	}
	for _, r := range layout.Obstacles {
		space.Add(resolv.NewObject(r.X, r.Y, r.W, r.H, tagObstacle))
	}
	for _, r := range layout.Goal {
		space.Add(resolv.NewObject(r.X, r.Y, r.W, r.H, tagGoal))
	}

	player := resolv.NewObject(layout.SpawnX, layout.SpawnY, playerW, playerH)
	space.Add(player)

	return &Platformer{space: space, player: player, layout: layout}
}

// Step advances the simulation one tick.
func (p *Platformer) Step(in Input) StepResult {
	if p.done {
		return StepGoal
	}

	// Horizontal intent, instant accel to keep the sim simple.
	p.vx = 0
	if in.Left {
		p.vx = -cfg.Platformer.MoveSpeed
	}
	if in.Right {
		p.vx = cfg.Platformer.MoveSpeed
	}
	if in.Jump && p.onGround {
		p.vy = -cfg.Platformer.JumpSpeed
		p.onGround = false
	}

	p.vy += cfg.Platformer.Gravity
	if p.vy > cfg.Platformer.MaxFallSpeed {
		p.vy = cfg.Platformer.MaxFallSpeed
	}

	// Horizontal move, stop at solids ahead. The sweep also reports the slab
	// the player stands on (its contact points back toward the slab's near
	// edge), so only contacts lying between the player and the intended move
	// clip dx.
	dx := p.vx
	if dx != 0 {
		if check := p.player.Check(dx, 0, tagSolid); check != nil {
			for _, solid := range check.ObjectsByTags(tagSolid) {
				c := check.ContactWithObject(solid).X()
				if dx > 0 && c >= 0 && c < dx {
					dx = c
				} else if dx < 0 && c <= 0 && c > dx {
					dx = c
				}
			}
		}
	}
	p.player.X += dx

	// Vertical move, land on or bump into solids.
	dy := p.vy
	if check := p.player.Check(0, dy, tagSolid); check != nil {
		if solids := check.ObjectsByTags(tagSolid); len(solids) > 0 {
			dy = check.ContactWithObject(solids[0]).Y()
			if p.vy > 0 {
				p.onGround = true
			}
			p.vy = 0
		}
	} else if dy != 0 {
		p.onGround = false
	}
	p.player.Y += dy
	p.player.Update()

	// Falling out of the level counts as an obstacle hit.
	if check := p.player.Check(0, 0, tagObstacle); check != nil || p.player.Y > float64(p.layout.Height) {
		p.respawn()
		return StepReset
	}
	if check := p.player.Check(0, 0, tagGoal); check != nil {
		p.done = true
		return StepGoal
	}
	return StepRunning
}

func (p *Platformer) respawn() {
	p.player.X = p.layout.SpawnX
	p.player.Y = p.layout.SpawnY
	p.vx, p.vy = 0, 0
	p.onGround = false
	p.resets++
	p.player.Update()
}

func (p *Platformer) Position() (x, y float64) { return p.player.X, p.player.Y }
func (p *Platformer) OnGround() bool           { return p.onGround }
func (p *Platformer) Resets() int              { return p.resets }
func (p *Platformer) Done() bool               { return p.done }
