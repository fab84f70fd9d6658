package io

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/phil-mansfield/table"

	"github.com/phil-mansfield/hardisk/geom"
)

const particleTableHeader = "# x y vx vy mass radius"

// ReadParticles reads a particle table with the columns
// x, y, vx, vy, mass, radius. Particles are given IDs in file order.
func ReadParticles(fname string) ([]*geom.Particle, error) {
	colIdxs := []int{0, 1, 2, 3, 4, 5}
	cols, err := table.ReadTable(fname, colIdxs, nil)
	if err != nil {
		return nil, err
	}

	xs, ys, vxs, vys := cols[0], cols[1], cols[2], cols[3]
	ms, rs := cols[4], cols[5]

	ps := make([]*geom.Particle, len(xs))
	for i := range ps {
		if ms[i] <= 0 || rs[i] <= 0 {
			return nil, fmt.Errorf(
				"Particle %d in '%s' has mass %g and radius %g, but both "+
					"must be positive.", i, fname, ms[i], rs[i],
			)
		}
		ps[i] = geom.NewParticle(i, xs[i], ys[i], vxs[i], vys[i], ms[i], rs[i])
	}

	return ps, nil
}

// WriteParticles writes ps as a table which can be read by ReadParticles.
func WriteParticles(wr io.Writer, ps []*geom.Particle) error {
	buf := bufio.NewWriter(wr)
	fmt.Fprintln(buf, particleTableHeader)
	for _, p := range ps {
		fmt.Fprintf(buf, "%.17g %.17g %.17g %.17g %.17g %.17g\n",
			p.Pos.X, p.Pos.Y, p.Vel.X, p.Vel.Y, p.Mass, p.Radius)
	}
	return buf.Flush()
}

// WriteParticlesFile writes ps to a new particle table file.
func WriteParticlesFile(fname string, ps []*geom.Particle) (err error) {
	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	defer checkClose(&err, f)

	return WriteParticles(f, ps)
}

// CheckParticles returns an error if any particle lies outside a box of
// width L or overlaps another particle.
func CheckParticles(ps []*geom.Particle, L float64) error {
	for i, p := range ps {
		if !p.Valid(L) {
			return fmt.Errorf(
				"Particle %d at (%g, %g) with radius %g is not inside a box "+
					"of width %g.", p.ID, p.Pos.X, p.Pos.Y, p.Radius, L,
			)
		}

		for _, q := range ps[i+1:] {
			dx, dy := p.Pos.X-q.Pos.X, p.Pos.Y-q.Pos.Y
			sigma := p.Radius + q.Radius
			if dx*dx+dy*dy < sigma*sigma {
				return fmt.Errorf(
					"Particles %d and %d overlap.", p.ID, q.ID,
				)
			}
		}
	}
	return nil
}

// MeanSpeed returns the mean speed of ps.
func MeanSpeed(ps []*geom.Particle) float64 {
	if len(ps) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range ps {
		sum += p.Speed()
	}
	return sum / float64(len(ps))
}

// checkClose checks for errors in deferred calls.
func checkClose(err *error, c io.Closer) {
	if cerr := c.Close(); *err == nil {
		*err = cerr
	}
}
