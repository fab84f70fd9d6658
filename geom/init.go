package geom

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"
)

const maxPlacementTries = 1000

// RandomParticles places n disks uniformly at random inside a box of width L
// so that no two disks overlap. Every disk moves at the given speed in a
// random direction. The same seed always gives the same particles.
func RandomParticles(
	n int, L, radius, mass, speed float64, seed int64,
) ([]*Particle, error) {
	if radius <= 0 || mass <= 0 {
		return nil, fmt.Errorf(
			"Particles need a positive radius and mass, but got radius = %g "+
				"and mass = %g.", radius, mass,
		)
	} else if 2*radius >= L {
		return nil, fmt.Errorf(
			"A disk of radius %g does not fit in a box of width %g.", radius, L,
		)
	}

	gen := rand.New(rand.NewSource(seed))
	ps := make([]*Particle, 0, n)

	for i := 0; i < n; i++ {
		placed := false
		for try := 0; try < maxPlacementTries && !placed; try++ {
			pos := r2.Vec{
				X: radius + gen.Float64()*(L-2*radius),
				Y: radius + gen.Float64()*(L-2*radius),
			}
			if overlaps(ps, pos, radius) {
				continue
			}

			θ := gen.Float64() * 2 * math.Pi
			sin, cos := math.Sincos(θ)
			ps = append(ps, NewParticle(
				i, pos.X, pos.Y, speed*cos, speed*sin, mass, radius,
			))
			placed = true
		}

		if !placed {
			return nil, fmt.Errorf(
				"Could not place particle %d of %d after %d tries. The box "+
					"is too crowded.", i+1, n, maxPlacementTries,
			)
		}
	}

	return ps, nil
}

func overlaps(ps []*Particle, pos r2.Vec, radius float64) bool {
	for _, p := range ps {
		sigma := p.Radius + radius
		if r2.Norm2(r2.Sub(p.Pos, pos)) < sigma*sigma {
			return true
		}
	}
	return false
}
