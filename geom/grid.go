package geom

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Grid partitions a square box of width L into an M x M lattice of cells with
// periodic boundary conditions. A Grid with M = 1 is the brute-force grid: a
// single cell which holds every particle.
type Grid struct {
	L float64
	M int

	cellWidth float64
	particles []*Particle
	cells     []Cell
}

// Cell is a single lattice site of a Grid.
type Cell struct {
	X, Y      int
	Particles []*Particle
	neighbors []*Cell
}

// NewBruteGrid returns a single-cell Grid containing ps.
func NewBruteGrid(L float64, ps []*Particle) *Grid {
	return NewGrid(L, 1, ps)
}

// NewGrid returns a new M x M Grid with every particle in ps inserted into
// the cell containing it.
func NewGrid(L float64, m int, ps []*Particle) *Grid {
	g := &Grid{}
	g.Init(L, m, ps)
	return g
}

// Init initializes a Grid instance. Values of m below one are treated as one.
func (g *Grid) Init(L float64, m int, ps []*Particle) {
	if m < 1 {
		m = 1
	}

	g.L, g.M = L, m
	g.cellWidth = L / float64(m)
	g.particles = ps
	g.cells = make([]Cell, m*m)

	for i := range g.cells {
		c := &g.cells[i]
		c.X, c.Y = g.Coords(i)
		c.neighbors = g.neighbors(c.X, c.Y)
	}

	for _, p := range ps {
		g.Insert(p)
	}
}

// neighbors returns the distinct cells within one step of (x, y), including
// (x, y) itself and cells reached by wrapping around the box.
func (g *Grid) neighbors(x, y int) []*Cell {
	out := make([]*Cell, 0, 9)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			c := &g.cells[g.Idx(x+dx, y+dy)]
			if !containsCell(out, c) {
				out = append(out, c)
			}
		}
	}
	return out
}

func containsCell(cs []*Cell, c *Cell) bool {
	for _, x := range cs {
		if x == c {
			return true
		}
	}
	return false
}

func (g *Grid) Particles() []*Particle { return g.particles }
func (g *Grid) Width() float64 { return g.L }
func (g *Grid) Cells() int { return g.M }
func (g *Grid) CellWidth() float64 { return g.cellWidth }
func (g *Grid) Brute() bool { return g.M == 1 }

// Coords returns the x, y coordinates of a cell from its index.
func (g *Grid) Coords(idx int) (x, y int) {
	return idx % g.M, idx / g.M
}

// Locate returns the unwrapped lattice coordinates of the cell containing
// pos. The results fall outside [0, M) when pos lies outside the box.
func (g *Grid) Locate(pos r2.Vec) (x, y int) {
	x = int(math.Floor(pos.X / g.cellWidth))
	y = int(math.Floor(pos.Y / g.cellWidth))
	return x, y
}

// Idx returns the index of the cell at (x, y), wrapping coordinates which
// lie outside the lattice.
func (g *Grid) Idx(x, y int) int {
	return pMod(x, g.M) + pMod(y, g.M)*g.M
}

// BoundsCheck returns true if the given coordinates are within the lattice
// and false otherwise.
func (g *Grid) BoundsCheck(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.M && y < g.M
}

// Cell returns the cell at (x, y) after periodic wrapping.
func (g *Grid) Cell(x, y int) *Cell {
	return &g.cells[g.Idx(x, y)]
}

// CellOf returns the cell which contains the position of p.
func (g *Grid) CellOf(p *Particle) *Cell {
	return g.Cell(g.Locate(p.Pos))
}

// Insert adds p to the cell containing it and returns that cell.
func (g *Grid) Insert(p *Particle) *Cell {
	c := g.CellOf(p)
	c.Particles = append(c.Particles, p)
	return c
}

// Neighbors returns the cells adjacent to c, including c itself. Each cell
// appears once even when the lattice is small enough for wrapped neighbors
// to coincide.
func (c *Cell) Neighbors() []*Cell { return c.neighbors }

// Remove removes p from c and returns true if p was a member.
func (c *Cell) Remove(p *Particle) bool {
	for i, q := range c.Particles {
		if q == p {
			c.Particles = append(c.Particles[:i], c.Particles[i+1:]...)
			return true
		}
	}
	return false
}

// Check returns an error if any particle is missing from the grid, is stored
// more than once, or is stored in a cell which does not contain its position.
func (g *Grid) Check() error {
	seen := make(map[*Particle]bool, len(g.particles))
	for i := range g.cells {
		c := &g.cells[i]
		for _, p := range c.Particles {
			if seen[p] {
				return fmt.Errorf(
					"Particle %d is stored in more than one cell.", p.ID,
				)
			}
			seen[p] = true

			if owner := g.CellOf(p); owner != c {
				return fmt.Errorf(
					"Particle %d at (%g, %g) is stored in cell (%d, %d), "+
						"but is located in cell (%d, %d).",
					p.ID, p.Pos.X, p.Pos.Y, c.X, c.Y, owner.X, owner.Y,
				)
			}
		}
	}

	for _, p := range g.particles {
		if !seen[p] {
			return fmt.Errorf("Particle %d is not stored in any cell.", p.ID)
		}
	}
	return nil
}

// pMod computes the positive modulo x % y.
func pMod(x, y int) int {
	m := x % y
	if m < 0 {
		m += y
	}
	return m
}
