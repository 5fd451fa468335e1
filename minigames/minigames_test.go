package minigames_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cfg "github.com/pixelmint/nftplay/config"
	"github.com/pixelmint/nftplay/minigames"
)

// pairIndex finds the two positions holding the same pair ID.
func pairIndex(m *minigames.Memory, id int) (int, int) {
	first := -1
	for i := 0; i < m.Cards(); i++ {
		if m.Card(i) != id {
			continue
		}
		if first < 0 {
			first = i
			continue
		}
		return first, i
	}
	return first, -1
}

func TestMemoryMatchFlow(t *testing.T) {
	m := minigames.NewMemory(3, rand.New(rand.NewSource(42)))
	require.Equal(t, 6, m.Cards())

	a, b := pairIndex(m, 0)
	require.GreaterOrEqual(t, b, 0)

	out, err := m.Flip(a)
	require.NoError(t, err)
	assert.Equal(t, minigames.FlipFaceUp, out)
	assert.True(t, m.FaceUp(a))

	_, err = m.Flip(a)
	assert.ErrorIs(t, err, minigames.ErrCardUsed)
	_, err = m.Flip(99)
	assert.ErrorIs(t, err, minigames.ErrOutOfRange)

	out, err = m.Flip(b)
	require.NoError(t, err)
	assert.Equal(t, minigames.FlipMatch, out)
	assert.True(t, m.Matched(a))
	assert.True(t, m.Matched(b))
}

func TestMemoryMismatchBlocksUntilResolved(t *testing.T) {
	m := minigames.NewMemory(3, rand.New(rand.NewSource(42)))

	a, _ := pairIndex(m, 0)
	c, _ := pairIndex(m, 1)

	_, err := m.Flip(a)
	require.NoError(t, err)
	out, err := m.Flip(c)
	require.NoError(t, err)
	assert.Equal(t, minigames.FlipMismatch, out)
	assert.True(t, m.MismatchOpen())

	_, err = m.Flip(a)
	assert.ErrorIs(t, err, minigames.ErrTurnPending)

	m.ResolveTurn()
	assert.False(t, m.FaceUp(a))
	assert.False(t, m.FaceUp(c))

	// ResolveTurn with nothing pending is a safe no-op.
	m.ResolveTurn()
	_, err = m.Flip(a)
	assert.NoError(t, err)
}

func TestMemoryWinAndAward(t *testing.T) {
	m := minigames.NewMemory(3, rand.New(rand.NewSource(42)))

	var last minigames.FlipOutcome
	for id := 0; id < 3; id++ {
		a, b := pairIndex(m, id)
		_, err := m.Flip(a)
		require.NoError(t, err)
		last, err = m.Flip(b)
		require.NoError(t, err)
	}
	assert.Equal(t, minigames.FlipWin, last)
	assert.True(t, m.Won())
	assert.Equal(t, 3, m.Moves())
	assert.Equal(t, cfg.Memory.BaseAward-3*cfg.Memory.MovePenalty, m.Award())

	_, err := m.Flip(0)
	assert.ErrorIs(t, err, minigames.ErrGameOver)
}

func TestMemoryAwardFloor(t *testing.T) {
	m := minigames.NewMemory(2, rand.New(rand.NewSource(1)))
	// Burn enough mismatches to push the payout below the floor.
	for i := 0; i < 60 && !m.Won(); i++ {
		a, _ := pairIndex(m, 0)
		c, _ := pairIndex(m, 1)
		if _, err := m.Flip(a); err != nil {
			break
		}
		if _, err := m.Flip(c); err != nil {
			break
		}
		m.ResolveTurn()
	}
	assert.Equal(t, cfg.Memory.MinAward, m.Award())
}

func TestPuzzleShuffleIsSolvable(t *testing.T) {
	// One shuffle move from solved: sliding the displaced tile back wins.
	p := minigames.NewPuzzle(2, 1, rand.New(rand.NewSource(3)))
	require.False(t, p.Solved())
	assert.Equal(t, 0, p.Moves(), "shuffling does not count as player moves")

	assert.True(t, p.Move(3))
	assert.True(t, p.Solved())
	assert.Equal(t, 1, p.Moves())
}

func TestPuzzleRejectsNonAdjacentMoves(t *testing.T) {
	p := minigames.NewPuzzle(3, 80, rand.New(rand.NewSource(9)))
	assert.Len(t, p.Tiles(), 9)

	assert.False(t, p.Move(-1))
	assert.False(t, p.Move(9))

	// Find the empty slot and try a tile two rows away.
	tiles := p.Tiles()
	empty := -1
	for pos, tile := range tiles {
		if tile == 8 {
			empty = pos
		}
	}
	require.GreaterOrEqual(t, empty, 0)
	far := (empty + 4) % 9
	if rowDist(empty, far, 3)+colDist(empty, far, 3) > 1 {
		assert.False(t, p.Move(far))
	}
}

func rowDist(a, b, size int) int { return abs(a/size - b/size) }
func colDist(a, b, size int) int { return abs(a%size - b%size) }

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func TestPlatformerLoadsEmbeddedLevel(t *testing.T) {
	layout, err := minigames.LoadDefaultLayout()
	require.NoError(t, err)

	assert.Equal(t, 640, layout.Width)
	assert.Equal(t, 240, layout.Height)
	assert.NotEmpty(t, layout.Ground)
	assert.NotEmpty(t, layout.Obstacles)
	assert.NotEmpty(t, layout.Goal)
	assert.Equal(t, 24.0, layout.SpawnX)
}

func TestPlatformerLandsOnGround(t *testing.T) {
	layout, err := minigames.LoadDefaultLayout()
	require.NoError(t, err)
	p := minigames.NewPlatformer(layout)

	for i := 0; i < 30; i++ {
		res := p.Step(minigames.Input{})
		require.Equal(t, minigames.StepRunning, res)
	}
	assert.True(t, p.OnGround())
	_, y := p.Position()
	assert.InDelta(t, 200, y, 1, "player rests on top of the ground slab")
}

func TestPlatformerWalksOnSupportingGround(t *testing.T) {
	layout := &minigames.Layout{
		Width: 320, Height: 240,
		SpawnX: 8, SpawnY: 176,
		Ground: []minigames.Rect{
			{X: 0, Y: 200, W: 320, H: 16},
			{X: 128, Y: 152, W: 16, H: 48}, // wall partway along the slab
		},
		Goal: []minigames.Rect{{X: 280, Y: 152, W: 16, H: 48}},
	}
	p := minigames.NewPlatformer(layout)

	// Settle onto the ground, then take one step right: the slab underfoot
	// must not register as a horizontal blocker.
	require.Equal(t, minigames.StepRunning, p.Step(minigames.Input{}))
	x0, _ := p.Position()
	require.Equal(t, minigames.StepRunning, p.Step(minigames.Input{Right: true}))
	x1, y1 := p.Position()
	assert.Equal(t, x0+cfg.Platformer.MoveSpeed, x1, "walking moves by MoveSpeed per step")
	assert.Equal(t, 176.0, y1, "walking stays on the ground line")

	// Keep walking: the wall clips the move and the player ends flush
	// against its face (player is 16px wide).
	for i := 0; i < 60; i++ {
		p.Step(minigames.Input{Right: true})
	}
	x, y := p.Position()
	assert.Equal(t, 112.0, x, "the wall stops the walk flush against its face")
	assert.Equal(t, 176.0, y)
	assert.True(t, p.OnGround())
	assert.Equal(t, 0, p.Resets())
}

func TestPlatformerObstacleResets(t *testing.T) {
	layout := &minigames.Layout{
		Width: 320, Height: 240,
		SpawnX: 8, SpawnY: 176,
		Ground:    []minigames.Rect{{X: 0, Y: 200, W: 320, H: 16}},
		Obstacles: []minigames.Rect{{X: 96, Y: 184, W: 16, H: 16}},
		Goal:      []minigames.Rect{{X: 280, Y: 152, W: 16, H: 48}},
	}
	p := minigames.NewPlatformer(layout)

	steps := 0
	for i := 0; i < 200; i++ {
		res := p.Step(minigames.Input{Right: true})
		if res == minigames.StepReset {
			steps = i + 1
			break
		}
		require.Equal(t, minigames.StepRunning, res)
		_, y := p.Position()
		require.Equal(t, 176.0, y, "the walk toward the obstacle stays grounded")
	}
	require.NotZero(t, steps, "walking right must hit the obstacle")
	// Spawn right edge is at 24 and the obstacle face at 96: twelve full
	// steps reach x=80, the thirteenth lands inside the obstacle.
	assert.Equal(t, 13, steps, "the reset comes from the obstacle, not the level edge")
	assert.Equal(t, 1, p.Resets())
	x, _ := p.Position()
	assert.Equal(t, 8.0, x, "reset returns to spawn")
}

func TestPlatformerReachesGoal(t *testing.T) {
	layout := &minigames.Layout{
		Width: 320, Height: 240,
		SpawnX: 8, SpawnY: 176,
		Ground: []minigames.Rect{{X: 0, Y: 200, W: 320, H: 16}},
		Goal:   []minigames.Rect{{X: 200, Y: 152, W: 16, H: 48}},
	}
	p := minigames.NewPlatformer(layout)

	reached := false
	for i := 0; i < 400; i++ {
		if p.Step(minigames.Input{Right: true}) == minigames.StepGoal {
			reached = true
			break
		}
	}
	require.True(t, reached)
	assert.True(t, p.Done())
	assert.Equal(t, minigames.StepGoal, p.Step(minigames.Input{}), "a finished run stays finished")
}
