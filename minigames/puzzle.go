package minigames

import (
	"math/rand"
)

// Puzzle is the sliding puzzle: an NxN permutation with one empty slot.
// Tiles only swap with the empty slot when grid-adjacent. Solved when every
// tile sits at its home index.
type Puzzle struct {
	size  int
	tiles []int // tiles[pos] = tile ID; the empty slot holds size*size-1
	empty int
	moves int
}

// NewPuzzle shuffles by a random walk of legal moves from the solved state,
// so the board is always solvable.
func NewPuzzle(size, shuffleMoves int, rng *rand.Rand) *Puzzle {
	if size < 2 {
		size = 2
	}
	p := &Puzzle{size: size, tiles: make([]int, size*size)}
	for i := range p.tiles {
		p.tiles[i] = i
	}
	p.empty = len(p.tiles) - 1

	for i := 0; i < shuffleMoves; i++ {
		neighbors := p.adjacent(p.empty)
		pick := neighbors[rng.Intn(len(neighbors))]
		p.swap(pick)
	}
	p.moves = 0
	return p
}

// Move slides the tile at position i into the empty slot. Returns false when
// i is not grid-adjacent to the empty slot (invalid input, not an error).
func (p *Puzzle) Move(i int) bool {
	if i < 0 || i >= len(p.tiles) || i == p.empty {
		return false
	}
	for _, n := range p.adjacent(p.empty) {
		if n == i {
			p.swap(i)
			p.moves++
			return true
		}
	}
	return false
}

// Solved reports whether every tile is at its home position.
func (p *Puzzle) Solved() bool {
	for pos, tile := range p.tiles {
		if pos != tile {
			return false
		}
	}
	return true
}

func (p *Puzzle) Size() int  { return p.size }
func (p *Puzzle) Moves() int { return p.moves }

// Tiles returns a copy of the current permutation.
func (p *Puzzle) Tiles() []int {
	out := make([]int, len(p.tiles))
	copy(out, p.tiles)
	return out
}

func (p *Puzzle) swap(i int) {
	p.tiles[p.empty], p.tiles[i] = p.tiles[i], p.tiles[p.empty]
	p.empty = i
}

func (p *Puzzle) adjacent(i int) []int {
	row, col := i/p.size, i%p.size
	var out []int
	if row > 0 {
		out = append(out, i-p.size)
	}
	if row < p.size-1 {
		out = append(out, i+p.size)
	}
	if col > 0 {
		out = append(out, i-1)
	}
	if col < p.size-1 {
		out = append(out, i+1)
	}
	return out
}
