package geom

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// Particle is a hard disk moving in a straight line between collisions.
//
// Particles are shared by pointer between the grid and the engine, so two
// particles with identical state are still distinct. ID gives particles a
// total order which is used to break ties between simultaneous collisions.
type Particle struct {
	ID     int
	Pos    r2.Vec
	Vel    r2.Vec
	Mass   float64
	Radius float64
}

// NewParticle returns a particle at (x, y) with velocity (vx, vy).
func NewParticle(id int, x, y, vx, vy, mass, radius float64) *Particle {
	return &Particle{
		ID: id, Pos: r2.Vec{X: x, Y: y}, Vel: r2.Vec{X: vx, Y: vy},
		Mass: mass, Radius: radius,
	}
}

// Advance moves the particle along its velocity for a time dt.
func (p *Particle) Advance(dt float64) {
	p.Pos = p.At(dt)
}

// At returns the position the particle will have after a time dt without
// modifying the particle.
func (p *Particle) At(dt float64) r2.Vec {
	return r2.Add(p.Pos, r2.Scale(dt, p.Vel))
}

func (p *Particle) SetPos(x, y float64) { p.Pos = r2.Vec{X: x, Y: y} }
func (p *Particle) SetVel(vx, vy float64) { p.Vel = r2.Vec{X: vx, Y: vy} }

// Speed returns the magnitude of the particle's velocity.
func (p *Particle) Speed() float64 { return r2.Norm(p.Vel) }

// KineticEnergy returns m v^2 / 2.
func (p *Particle) KineticEnergy() float64 {
	return 0.5 * p.Mass * r2.Norm2(p.Vel)
}

// Copy returns a copy of the particle which shares no state with p.
func (p *Particle) Copy() *Particle {
	q := *p
	return &q
}

// ValidPos returns true if a disk of the given radius centered on pos lies
// inside a box of width L.
func ValidPos(pos r2.Vec, radius, L float64) bool {
	return pos.X >= radius && pos.X < L-radius &&
		pos.Y >= radius && pos.Y < L-radius
}

// Valid returns true if p lies inside a box of width L.
func (p *Particle) Valid(L float64) bool {
	return ValidPos(p.Pos, p.Radius, L)
}

// KineticEnergy returns the total kinetic energy of a set of particles.
func KineticEnergy(ps []*Particle) float64 {
	E := 0.0
	for _, p := range ps {
		E += p.KineticEnergy()
	}
	return E
}

// MaxSpeed returns the speed of the fastest particle in ps.
func MaxSpeed(ps []*Particle) float64 {
	max := 0.0
	for _, p := range ps {
		if v := p.Speed(); v > max {
			max = v
		}
	}
	return max
}

// MaxRadius returns the radius of the largest particle in ps.
func MaxRadius(ps []*Particle) float64 {
	max := 0.0
	for _, p := range ps {
		if p.Radius > max {
			max = p.Radius
		}
	}
	return max
}
