package hardisk

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/phil-mansfield/hardisk/geom"
)

// Kind says which of the two collision types a Collision holds.
type Kind int

const (
	Wall Kind = iota
	Pair
)

func (k Kind) String() string {
	switch k {
	case Wall:
		return "wall"
	case Pair:
		return "pair"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Axis is the velocity component reflected by a wall collision.
type Axis int

const (
	XAxis Axis = iota
	YAxis
)

// Collision is a pending collision which will happen Time after the current
// sub-step. Wall collisions use P1 and Axis. Pair collisions use P1 and P2,
// with P1 the particle with the smaller ID.
type Collision struct {
	Kind Kind
	Time float64
	P1   *geom.Particle
	P2   *geom.Particle
	Axis Axis
}

// WallCollision returns a collision of p with the wall perpendicular to axis.
func WallCollision(p *geom.Particle, axis Axis, t float64) Collision {
	return Collision{Kind: Wall, Time: t, P1: p, Axis: axis}
}

// PairCollision returns a collision between p1 and p2.
func PairCollision(p1, p2 *geom.Particle, t float64) Collision {
	if p2.ID < p1.ID {
		p1, p2 = p2, p1
	}
	return Collision{Kind: Pair, Time: t, P1: p1, P2: p2}
}

// Resolve updates the velocities of the colliding particles. The particles
// must already have been advanced to the moment of contact.
func (c Collision) Resolve() {
	switch c.Kind {
	case Wall:
		if c.Axis == XAxis {
			c.P1.Vel.X = -c.P1.Vel.X
		} else {
			c.P1.Vel.Y = -c.P1.Vel.Y
		}
	case Pair:
		bounce(c.P1, c.P2)
	default:
		panic(fmt.Sprintf("Unrecognized collision kind %d.", int(c.Kind)))
	}
}

// bounce applies the elastic hard-disk impulse to two touching disks. The
// impulse acts along the line of centers, so momentum and kinetic energy
// are both conserved.
func bounce(p1, p2 *geom.Particle) {
	r := r2.Sub(p2.Pos, p1.Pos)
	v := r2.Sub(p2.Vel, p1.Vel)
	dist := r2.Norm(r)

	J := 2 * p1.Mass * p2.Mass * r2.Dot(v, r) / (dist * (p1.Mass + p2.Mass))
	impulse := r2.Scale(J/dist, r)

	p1.Vel = r2.Add(p1.Vel, r2.Scale(1/p1.Mass, impulse))
	p2.Vel = r2.Sub(p2.Vel, r2.Scale(1/p2.Mass, impulse))
}

// Before returns true if c should be resolved before d. Collisions are
// ordered by time, then by the smallest particle ID involved, then walls
// before pairs, then by the ID of the second particle.
func (c Collision) Before(d Collision) bool {
	if c.Time != d.Time {
		return c.Time < d.Time
	} else if c.P1.ID != d.P1.ID {
		return c.P1.ID < d.P1.ID
	} else if c.Kind != d.Kind {
		return c.Kind == Wall
	} else if c.Kind == Pair {
		return c.P2.ID < d.P2.ID
	}
	return c.Axis < d.Axis
}

func (c Collision) String() string {
	if c.Kind == Wall {
		axis := "x"
		if c.Axis == YAxis {
			axis = "y"
		}
		return fmt.Sprintf(
			"wall collision of particle %d along %s in %g", c.P1.ID, axis, c.Time,
		)
	}
	return fmt.Sprintf(
		"collision of particles %d and %d in %g", c.P1.ID, c.P2.ID, c.Time,
	)
}

// PairTime returns the time until the surfaces of p1 and p2 touch, assuming
// both move in straight lines. ok is false if they never touch or if the
// only contact is at or before the present.
func PairTime(p1, p2 *geom.Particle) (t float64, ok bool) {
	sigma := p1.Radius + p2.Radius
	r := r2.Sub(p2.Pos, p1.Pos)
	v := r2.Sub(p2.Vel, p1.Vel)

	vr := r2.Dot(v, r)
	if vr >= 0 {
		return 0, false
	}

	vv := r2.Dot(v, v)
	d := vr*vr - vv*(r2.Dot(r, r)-sigma*sigma)
	if d < 0 {
		return 0, false
	}

	t = -(vr + math.Sqrt(d)) / vv
	if t > 0 {
		return t, true
	}
	return 0, false
}

// AxisWallTime returns the time until p touches the wall it is moving towards
// along a single axis of a box of width L. ok is false if p is at rest
// along that axis. Particles which have already reached the wall return a
// time of zero.
func AxisWallTime(p *geom.Particle, axis Axis, L float64) (t float64, ok bool) {
	pos, v := p.Pos.X, p.Vel.X
	if axis == YAxis {
		pos, v = p.Pos.Y, p.Vel.Y
	}

	switch {
	case v > 0:
		t = (L - pos - p.Radius) / v
	case v < 0:
		t = (p.Radius - pos) / v
	default:
		return 0, false
	}

	return math.Max(t, 0), true
}

// WallTime returns p's earliest wall collision in a box of width L. ok is
// false if p is at rest.
func WallTime(p *geom.Particle, L float64) (c Collision, ok bool) {
	tx, okx := AxisWallTime(p, XAxis, L)
	ty, oky := AxisWallTime(p, YAxis, L)

	switch {
	case okx && (!oky || tx <= ty):
		return WallCollision(p, XAxis, tx), true
	case oky:
		return WallCollision(p, YAxis, ty), true
	}
	return Collision{}, false
}

// contactTol is the distance, in units of the box width, by which a disk may
// poke through a wall and still count as inside the box. Wall collisions
// leave disks within a few ulps of the wall.
const contactTol = 1e-9

// contactValid returns true if both particles of a pair collision lie inside
// the box at the moment of contact.
func contactValid(p1, p2 *geom.Particle, t, L float64) bool {
	tol := contactTol * L
	return geom.ValidPos(p1.At(t), p1.Radius-tol, L) &&
		geom.ValidPos(p2.At(t), p2.Radius-tol, L)
}
