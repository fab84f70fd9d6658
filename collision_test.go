package hardisk

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/phil-mansfield/hardisk/geom"
)

const testEps = 1e-9

func TestPairTime(t *testing.T) {
	table := []struct {
		x1, y1, vx1, vy1, r1 float64
		x2, y2, vx2, vy2, r2 float64
		ok                   bool
		dt                   float64
	}{
		// head-on
		{3, 5, 1, 0, 0.5, 7, 5, -1, 0, 0.5, true, 1.5},
		// one particle at rest
		{2, 2, 1, 0, 1, 6, 2, 0, 0, 1, true, 2},
		// glancing
		{2, 2, 1, 0, 0.5, 6, 2.5, 0, 0, 0.5, true, 4 - math.Sqrt(0.75)},
		// different radii
		{0, 0, 0, 1, 2, 0, 10, 0, -1, 1, true, 3.5},
		// moving apart
		{3, 5, -1, 0, 0.5, 7, 5, 1, 0, 0.5, false, 0},
		// same velocity
		{3, 5, 1, 1, 0.5, 7, 5, 1, 1, 0.5, false, 0},
		// approaching, but miss
		{2, 2, 1, 0, 0.5, 6, 4, 0, 0, 0.5, false, 0},
		// already touching and approaching
		{2, 2, 1, 0, 0.5, 3, 2, 0, 0, 0.5, false, 0},
	}

	for i, line := range table {
		p1 := geom.NewParticle(0, line.x1, line.y1, line.vx1, line.vy1, 1, line.r1)
		p2 := geom.NewParticle(1, line.x2, line.y2, line.vx2, line.vy2, 1, line.r2)

		dt, ok := PairTime(p1, p2)
		if ok != line.ok {
			t.Errorf("%d) Expected ok = %v. Got ok = %v.", i, line.ok, ok)
			continue
		}
		if !ok {
			continue
		}

		if math.Abs(dt-line.dt) > testEps {
			t.Errorf("%d) Expected dt = %g. Got dt = %g.", i, line.dt, dt)
		}

		// The disks must be touching at the returned time.
		d := r2.Norm(r2.Sub(p1.At(dt), p2.At(dt)))
		if math.Abs(d-(line.r1+line.r2)) > testEps {
			t.Errorf("%d) Expected separation %g at contact. Got %g.",
				i, line.r1+line.r2, d)
		}

		// The pair is symmetric.
		dtRev, okRev := PairTime(p2, p1)
		assert.True(t, okRev)
		assert.InDelta(t, dt, dtRev, testEps)
	}
}

func TestAxisWallTime(t *testing.T) {
	L := 10.0
	table := []struct {
		x, vx, r float64
		ok       bool
		dt, xHit float64
	}{
		{5, 2, 1, true, 2, 9},
		{7, -1, 0.5, true, 6.5, 0.5},
		{3, -0.5, 1, true, 4, 1},
		{5, 0, 1, false, 0, 0},
		// a rounding error past the wall
		{1 - 1e-12, -1, 1, true, 0, 1 - 1e-12},
	}

	for i, line := range table {
		p := geom.NewParticle(0, line.x, line.x, line.vx, line.vx, 1, line.r)

		for _, axis := range []Axis{XAxis, YAxis} {
			dt, ok := AxisWallTime(p, axis, L)
			if ok != line.ok {
				t.Errorf("%d) Expected ok = %v. Got ok = %v.", i, line.ok, ok)
				continue
			}
			if !ok {
				continue
			}

			if math.Abs(dt-line.dt) > testEps {
				t.Errorf("%d) Expected dt = %g. Got dt = %g.", i, line.dt, dt)
			}

			pos := p.At(dt)
			hit := pos.X
			if axis == YAxis {
				hit = pos.Y
			}
			if math.Abs(hit-line.xHit) > testEps {
				t.Errorf("%d) Expected wall contact at %g. Got %g.",
					i, line.xHit, hit)
			}
		}
	}
}

func TestWallTime(t *testing.T) {
	L := 10.0

	p := geom.NewParticle(0, 5, 5, 1, 2, 1, 1)
	c, ok := WallTime(p, L)
	assert.True(t, ok)
	assert.Equal(t, Wall, c.Kind)
	assert.Equal(t, YAxis, c.Axis)
	assert.InDelta(t, 2.0, c.Time, testEps)

	p = geom.NewParticle(0, 5, 5, -4, 1, 1, 1)
	c, ok = WallTime(p, L)
	assert.True(t, ok)
	assert.Equal(t, XAxis, c.Axis)
	assert.InDelta(t, 1.0, c.Time, testEps)

	// Ties go to the x axis.
	p = geom.NewParticle(0, 5, 5, 1, 1, 1, 1)
	c, ok = WallTime(p, L)
	assert.True(t, ok)
	assert.Equal(t, XAxis, c.Axis)

	p = geom.NewParticle(0, 5, 5, 0, 0, 1, 1)
	_, ok = WallTime(p, L)
	assert.False(t, ok)
}

func TestResolveWall(t *testing.T) {
	p := geom.NewParticle(0, 9, 5, 2, -3, 1, 1)

	WallCollision(p, XAxis, 0).Resolve()
	assert.Equal(t, r2.Vec{X: -2, Y: -3}, p.Vel)

	WallCollision(p, YAxis, 0).Resolve()
	assert.Equal(t, r2.Vec{X: -2, Y: 3}, p.Vel)
}

func TestResolvePair(t *testing.T) {
	table := []struct {
		x1, y1, vx1, vy1, m1, r1 float64
		x2, y2, vx2, vy2, m2, r2 float64
	}{
		{4.5, 5, 1, 0, 1, 0.5, 5.5, 5, -1, 0, 1, 0.5},
		{4, 4, 1, 0.5, 1, 1, 5, 5.732050807568877, -0.25, -1, 3, 1},
		{2, 2, 3, -1, 0.5, 1, 3.2, 3.6, 0, -2, 2, 1},
		{7, 7, 0, 0, 1, 2, 4, 7, 5, 0, 10, 1},
	}

	for i, line := range table {
		p1 := geom.NewParticle(0, line.x1, line.y1, line.vx1, line.vy1, line.m1, line.r1)
		p2 := geom.NewParticle(1, line.x2, line.y2, line.vx2, line.vy2, line.m2, line.r2)

		E0 := p1.KineticEnergy() + p2.KineticEnergy()
		P0 := r2.Add(r2.Scale(p1.Mass, p1.Vel), r2.Scale(p2.Mass, p2.Vel))

		PairCollision(p1, p2, 0).Resolve()

		E1 := p1.KineticEnergy() + p2.KineticEnergy()
		P1 := r2.Add(r2.Scale(p1.Mass, p1.Vel), r2.Scale(p2.Mass, p2.Vel))

		if math.Abs(E1-E0) > testEps*E0 {
			t.Errorf("%d) Expected E = %g. Got E = %g.", i, E0, E1)
		}
		if r2.Norm(r2.Sub(P1, P0)) > testEps*r2.Norm(P0)+testEps {
			t.Errorf("%d) Expected P = %v. Got P = %v.", i, P0, P1)
		}

		// The velocity change is along the line of centers.
		r := r2.Sub(p2.Pos, p1.Pos)
		dv := r2.Sub(p1.Vel, r2.Vec{X: line.vx1, Y: line.vy1})
		if math.Abs(r.X*dv.Y-r.Y*dv.X) > testEps {
			t.Errorf("%d) Velocity change %v is not parallel to %v.", i, dv, r)
		}
	}
}

func TestHeadOnSwap(t *testing.T) {
	p1 := geom.NewParticle(0, 3, 5, 1, 0, 1, 0.5)
	p2 := geom.NewParticle(1, 7, 5, -1, 0, 1, 0.5)

	dt, ok := PairTime(p1, p2)
	assert.True(t, ok)

	p1.Advance(dt)
	p2.Advance(dt)
	PairCollision(p1, p2, dt).Resolve()

	assert.InDelta(t, -1.0, p1.Vel.X, testEps)
	assert.InDelta(t, 0.0, p1.Vel.Y, testEps)
	assert.InDelta(t, 1.0, p2.Vel.X, testEps)
	assert.InDelta(t, 0.0, p2.Vel.Y, testEps)
}

func TestCollisionBefore(t *testing.T) {
	p0 := geom.NewParticle(0, 0, 0, 0, 0, 1, 1)
	p1 := geom.NewParticle(1, 0, 0, 0, 0, 1, 1)
	p2 := geom.NewParticle(2, 0, 0, 0, 0, 1, 1)

	table := []struct {
		a, b   Collision
		before bool
	}{
		{WallCollision(p2, XAxis, 1), WallCollision(p0, XAxis, 2), true},
		{WallCollision(p0, XAxis, 2), WallCollision(p2, XAxis, 1), false},
		{WallCollision(p0, YAxis, 1), WallCollision(p1, XAxis, 1), true},
		{WallCollision(p1, XAxis, 1), WallCollision(p0, YAxis, 1), false},
		{WallCollision(p1, XAxis, 1), PairCollision(p1, p2, 1), true},
		{PairCollision(p2, p1, 1), WallCollision(p1, XAxis, 1), false},
		{PairCollision(p2, p0, 1), WallCollision(p1, XAxis, 1), true},
		{PairCollision(p0, p1, 1), PairCollision(p0, p2, 1), true},
		{PairCollision(p2, p0, 1), PairCollision(p1, p0, 1), false},
	}

	for i, line := range table {
		if res := line.a.Before(line.b); res != line.before {
			t.Errorf("%d) Expected %v.Before(%v) = %v. Got %v.",
				i, line.a, line.b, line.before, res)
		}
	}
}

func TestPairCollisionOrder(t *testing.T) {
	p3 := geom.NewParticle(3, 0, 0, 0, 0, 1, 1)
	p7 := geom.NewParticle(7, 0, 0, 0, 0, 1, 1)

	c := PairCollision(p7, p3, 1)
	assert.Equal(t, 3, c.P1.ID)
	assert.Equal(t, 7, c.P2.ID)
}
