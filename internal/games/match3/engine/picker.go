package engine

import (
	"fmt"
	"math/rand"
)

// Bias selects how spawn types are chosen.
type Bias string

const (
	// BiasUniform picks every palette type with equal probability.
	BiasUniform Bias = "uniform"
	// BiasAvoid skips types that would immediately complete a run with the
	// neighbours already placed or reserved, when any other type is left.
	BiasAvoid Bias = "avoid"
)

// ParseBias validates a bias name. An empty name means BiasUniform.
func ParseBias(s string) (Bias, error) {
	switch Bias(s) {
	case "", BiasUniform:
		return BiasUniform, nil
	case BiasAvoid:
		return BiasAvoid, nil
	}
	return "", fmt.Errorf("unknown spawn bias %q (want %q or %q)", s, BiasUniform, BiasAvoid)
}

// TypePicker chooses the type for a spawn slot.
type TypePicker interface {
	Pick(b *Board, c Coord) TileType
}

// UniformPicker draws uniformly from a palette.
type UniformPicker struct {
	rng   *rand.Rand
	types []TileType
}

// NewUniformPicker creates a UniformPicker. An empty palette falls back to
// the minimum palette.
func NewUniformPicker(rng *rand.Rand, types []TileType) *UniformPicker {
	if len(types) == 0 {
		types = Palette(MinPalette)
	}
	return &UniformPicker{rng: rng, types: types}
}

// Pick implements TypePicker.
func (p *UniformPicker) Pick(_ *Board, _ Coord) TileType {
	return p.types[p.rng.Intn(len(p.types))]
}

// AvoidPicker draws uniformly among the types that would not form a run at
// the slot, considering reservations as if they were tiles.
type AvoidPicker struct {
	rng   *rand.Rand
	types []TileType
	buf   []TileType
}

// NewAvoidPicker creates an AvoidPicker.
func NewAvoidPicker(rng *rand.Rand, types []TileType) *AvoidPicker {
	if len(types) == 0 {
		types = Palette(MinPalette)
	}
	return &AvoidPicker{rng: rng, types: types, buf: make([]TileType, 0, len(types))}
}

// Pick implements TypePicker.
func (p *AvoidPicker) Pick(b *Board, c Coord) TileType {
	p.buf = p.buf[:0]
	for _, t := range p.types {
		if !completesRun(b, c, t) {
			p.buf = append(p.buf, t)
		}
	}
	if len(p.buf) == 0 {
		return p.types[p.rng.Intn(len(p.types))]
	}
	return p.buf[p.rng.Intn(len(p.buf))]
}

// NewPicker builds the picker for a bias.
func NewPicker(bias Bias, rng *rand.Rand, types []TileType) TypePicker {
	if bias == BiasAvoid {
		return NewAvoidPicker(rng, types)
	}
	return NewUniformPicker(rng, types)
}

// completesRun reports whether placing t at c would make a line of MinRun.
func completesRun(b *Board, c Coord, t TileType) bool {
	count := func(dx, dy int) int {
		n := 0
		for p := c.Add(dx, dy); b.TypeAt(p) == t; p = p.Add(dx, dy) {
			n++
		}
		return n
	}
	return 1+count(-1, 0)+count(1, 0) >= MinRun || 1+count(0, -1)+count(0, 1) >= MinRun
}
