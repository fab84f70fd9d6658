package hardisk

import (
	"math"

	"github.com/phil-mansfield/hardisk/geom"
)

// nextCollision returns the earliest collision in the system.
func (s *Simulation) nextCollision() (Collision, bool) {
	if s.brute {
		return s.bruteSearch()
	}
	return s.gridSearch()
}

// bruteSearch checks every particle against the walls and against every
// particle after it in the particle list, so each pair is solved once.
func (s *Simulation) bruteSearch() (first Collision, found bool) {
	L := s.grid.Width()
	for i, p := range s.particles {
		local, ok := WallTime(p, L)
		if c, cok := pairSearch(p, s.particles[i+1:], L); cok &&
			(!ok || c.Before(local)) {
			local, ok = c, true
		}

		if ok && (!found || local.Before(first)) {
			first, found = local, true
		}
	}
	return first, found
}

// gridSearch checks every particle against the walls and against the
// particles in its own cell and the cells around it.
func (s *Simulation) gridSearch() (first Collision, found bool) {
	L := s.grid.Width()
	for _, p := range s.particles {
		local, ok := WallTime(p, L)
		for _, cell := range s.grid.CellOf(p).Neighbors() {
			if c, cok := pairSearch(p, cell.Particles, L); cok &&
				(!ok || c.Before(local)) {
				local, ok = c, true
			}
		}

		if ok && (!found || local.Before(first)) {
			first, found = local, true
		}
	}
	return first, found
}

// horizon returns how far ahead the grid search can see. Disks in
// non-adjacent cells start more than a cell width apart and close at most
// 2 * vmax per unit time, so no pair the grid search skips can touch sooner
// than (cellWidth - 2 * maxRadius) / (2 * vmax). Lattices of three or fewer
// cells per side make every cell a neighbor of every other, and the brute
// search checks every pair, so neither has a horizon.
func (s *Simulation) horizon() float64 {
	g := s.grid
	if s.brute || g.Cells() <= 3 {
		return math.Inf(1)
	}

	vmax := geom.MaxSpeed(s.particles)
	gap := g.CellWidth() - 2*geom.MaxRadius(s.particles)
	if vmax == 0 || gap <= 0 {
		return math.Inf(1)
	}
	return gap / (2 * vmax)
}

// pairSearch returns the earliest collision between p and a member of
// against. Collisions which would happen with either disk outside the box
// are skipped: a wall collision always comes first in that case.
func pairSearch(
	p *geom.Particle, against []*geom.Particle, L float64,
) (best Collision, found bool) {
	for _, q := range against {
		if q == p {
			continue
		}

		t, ok := PairTime(p, q)
		if !ok {
			continue
		}

		c := PairCollision(p, q, t)
		if (!found || c.Before(best)) && contactValid(p, q, t, L) {
			best, found = c, true
		}
	}
	return best, found
}

// cellMargin is the minimum cell width in units of the largest contact
// distance, 2 * maxRadius. The excess over one contact distance is the gap
// disks in non-adjacent cells must close before they can touch.
const cellMargin = 2

// LatticeSize returns the number of cells along each side of the grid for a
// box of width L. Cells are sized to the mean free path, speed *
// meanFreeTime, but are never narrower than cellMargin contact distances.
// Disks in non-adjacent cells are then separated by a gap which the grid
// search's lookahead horizon depends on.
func LatticeSize(L, speed, meanFreeTime, maxRadius float64) int {
	m := math.Floor(L / (speed * meanFreeTime))
	if maxRadius > 0 {
		m = math.Min(m, math.Floor(L/(cellMargin*2*maxRadius)))
	}

	if math.IsNaN(m) || math.IsInf(m, 0) || m < 1 {
		return 1
	}
	return int(m)
}
