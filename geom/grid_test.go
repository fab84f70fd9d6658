package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestPMod(t *testing.T) {
	table := []struct {
		x, y, mod int
	}{
		{0, 4, 0}, {3, 4, 3}, {4, 4, 0}, {5, 4, 1},
		{-1, 4, 3}, {-4, 4, 0}, {-5, 4, 3}, {-1, 1, 0},
	}

	for i, line := range table {
		if mod := pMod(line.x, line.y); mod != line.mod {
			t.Errorf("%d) Expected pMod(%d, %d) = %d. Got %d.",
				i, line.x, line.y, line.mod, mod)
		}
	}
}

func TestGridIdx(t *testing.T) {
	g := NewGrid(10, 5, nil)

	table := []struct {
		x, y, idx int
	}{
		{0, 0, 0}, {4, 0, 4}, {0, 1, 5}, {4, 4, 24},
		{-1, 0, 4}, {5, 0, 0}, {0, -1, 20}, {-1, -1, 24}, {6, 7, 11},
	}

	for i, line := range table {
		if idx := g.Idx(line.x, line.y); idx != line.idx {
			t.Errorf("%d) Expected Idx(%d, %d) = %d. Got %d.",
				i, line.x, line.y, line.idx, idx)
		}
		x, y := g.Coords(line.idx)
		assert.True(t, g.BoundsCheck(x, y))
		assert.Equal(t, line.idx, g.Idx(x, y))
	}

	assert.False(t, g.BoundsCheck(-1, 0))
	assert.False(t, g.BoundsCheck(0, 5))
}

func TestGridLocate(t *testing.T) {
	g := NewGrid(10, 5, nil)
	assert.Equal(t, 2.0, g.CellWidth())

	table := []struct {
		x, y   float64
		cx, cy int
	}{
		{0, 0, 0, 0}, {1.9, 0.1, 0, 0}, {2, 3.9, 1, 1},
		{9.99, 5, 4, 2}, {-0.1, 10.5, -1, 5},
	}

	for i, line := range table {
		cx, cy := g.Locate(r2.Vec{X: line.x, Y: line.y})
		if cx != line.cx || cy != line.cy {
			t.Errorf("%d) Expected Locate(%g, %g) = (%d, %d). Got (%d, %d).",
				i, line.x, line.y, line.cx, line.cy, cx, cy)
		}
	}
}

func TestGridNeighbors(t *testing.T) {
	table := []struct {
		m, n int
	}{
		{1, 1}, {2, 4}, {3, 9}, {4, 9}, {10, 9},
	}

	for i, line := range table {
		g := NewGrid(10, line.m, nil)
		for x := 0; x < line.m; x++ {
			for y := 0; y < line.m; y++ {
				c := g.Cell(x, y)
				if n := len(c.Neighbors()); n != line.n {
					t.Errorf("%d) Expected %d neighbors of (%d, %d) with "+
						"M = %d. Got %d.", i, line.n, x, y, line.m, n)
				}
				assert.Contains(t, c.Neighbors(), c)
			}
		}
	}

	// Neighbors wrap around the box.
	g := NewGrid(10, 5, nil)
	assert.Contains(t, g.Cell(0, 0).Neighbors(), g.Cell(4, 4))
	assert.Contains(t, g.Cell(0, 0).Neighbors(), g.Cell(1, 4))
	assert.NotContains(t, g.Cell(0, 0).Neighbors(), g.Cell(2, 0))
}

func TestGridMembership(t *testing.T) {
	ps := []*Particle{
		NewParticle(0, 1, 1, 0, 0, 1, 0.5),
		NewParticle(1, 3, 1, 0, 0, 1, 0.5),
		NewParticle(2, 1.5, 1.5, 0, 0, 1, 0.5),
		NewParticle(3, 9, 9, 0, 0, 1, 0.5),
	}
	g := NewGrid(10, 5, ps)
	assert.Nil(t, g.Check())
	assert.False(t, g.Brute())

	assert.Equal(t, []*Particle{ps[0], ps[2]}, g.Cell(0, 0).Particles)
	assert.Equal(t, []*Particle{ps[1]}, g.Cell(1, 0).Particles)
	assert.Equal(t, []*Particle{ps[3]}, g.CellOf(ps[3]).Particles)

	// Moving a particle without updating the grid is caught.
	ps[0].SetPos(5, 5)
	assert.NotNil(t, g.Check())

	assert.True(t, g.Cell(0, 0).Remove(ps[0]))
	assert.False(t, g.Cell(0, 0).Remove(ps[0]))
	assert.Equal(t, []*Particle{ps[2]}, g.Cell(0, 0).Particles)
	assert.NotNil(t, g.Check())

	c := g.Insert(ps[0])
	assert.Equal(t, g.Cell(2, 2), c)
	assert.Nil(t, g.Check())

	// So is a duplicate.
	g.Cell(2, 2).Particles = append(g.Cell(2, 2).Particles, ps[0])
	assert.NotNil(t, g.Check())
}

func TestBruteGrid(t *testing.T) {
	ps := []*Particle{
		NewParticle(0, 1, 1, 0, 0, 1, 0.5),
		NewParticle(1, 9, 9, 0, 0, 1, 0.5),
	}
	g := NewBruteGrid(10, ps)

	assert.True(t, g.Brute())
	assert.Equal(t, 1, g.Cells())
	assert.Equal(t, ps, g.Cell(0, 0).Particles)
	assert.Equal(t, 1, len(g.Cell(0, 0).Neighbors()))
	assert.Nil(t, g.Check())

	g = NewGrid(10, 0, ps)
	assert.True(t, g.Brute())
}
