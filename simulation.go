/*Package hardisk runs event-driven simulations of elastic hard disks in a
square box.

Disks move in straight lines until the next collision, either between two
disks or between a disk and a wall. The simulation jumps straight to that
collision, resolves it and repeats. The first SampleCount steps search every
pair of disks; after that the simulation estimates the mean free time, builds
a cell grid sized to the mean free path and only searches neighboring cells.
*/
package hardisk

import (
	"io"
	"log"
	"time"

	"github.com/phil-mansfield/hardisk/geom"
)

const (
	DefaultSampleCount = 1000
	DefaultLogInterval = 10
)

// Sink receives a snapshot of every particle after each step. t is the clock
// after the step, the time at which the snapshot's state holds, rather than
// the time the step started.
type Sink interface {
	Append(ps []*geom.Particle, t float64) error
}

type discardSink struct{}

func (discardSink) Append(ps []*geom.Particle, t float64) error { return nil }

// Params contains the parameters of a run.
type Params struct {
	// TotalTime is the simulation time after which the run stops.
	TotalTime float64
	// InitialSpeed is the speed particles started with. It is only used to
	// turn the mean free time into a mean free path when sizing the grid.
	InitialSpeed float64

	// SampleCount is the number of brute-force steps taken before switching
	// to the grid search.
	SampleCount int
	// LogInterval is the number of steps between progress messages.
	LogInterval int
	// Pace is a wall-clock delay between steps. It has no effect on results.
	Pace time.Duration
	// TraceEnergy records the kinetic energy at every step.
	TraceEnergy bool
}

// DefaultParams returns Params with the default sample count and log
// interval.
func DefaultParams(totalTime, initialSpeed float64) Params {
	return Params{
		TotalTime: totalTime, InitialSpeed: initialSpeed,
		SampleCount: DefaultSampleCount, LogInterval: DefaultLogInterval,
	}
}

// EnergySample is the total kinetic energy at the start of a step.
type EnergySample struct {
	Step   int
	Time   float64
	Energy float64
}

// Simulation contains the full state of a run.
type Simulation struct {
	grid      *geom.Grid
	particles []*geom.Particle
	params    Params
	sink      Sink
	log       *log.Logger

	brute        bool
	meanFreeTime float64
	switchStep   int

	next     Collision
	hasNext  bool
	time     float64
	steps    int
	flights  int
	energies []EnergySample
}

// New returns a Simulation of the particles in grid. The grid is owned by
// the Simulation from now on. A nil sink discards snapshots and a nil
// logger discards log messages.
func New(
	grid *geom.Grid, params Params, sink Sink, logger *log.Logger,
) (*Simulation, error) {
	if params.TotalTime < 0 {
		return nil, &ConfigError{"TotalTime", params.TotalTime, ErrNegativeTime}
	}

	if params.SampleCount <= 0 {
		params.SampleCount = DefaultSampleCount
	}
	if params.LogInterval <= 0 {
		params.LogInterval = DefaultLogInterval
	}
	if sink == nil {
		sink = discardSink{}
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	s := &Simulation{
		grid: grid, particles: grid.Particles(), params: params,
		sink: sink, log: logger, brute: true, switchStep: -1,
	}
	return s, nil
}

// Run steps the simulation until the clock passes TotalTime.
func (s *Simulation) Run() error {
	for !s.Done() {
		if err := s.Step(); err != nil {
			return err
		}
		if s.params.Pace > 0 {
			time.Sleep(s.params.Pace)
		}
	}

	s.log.Printf(
		"Finished after %d steps at t = %g, E = %g.",
		s.steps, s.time, geom.KineticEnergy(s.particles),
	)
	return nil
}

// Done returns true once the clock has passed TotalTime.
func (s *Simulation) Done() bool { return s.time > s.params.TotalTime }

// Step finds the next collision, moves every particle to it, resolves it and
// sends the new state to the sink. When the grid search's next candidate lies
// beyond its horizon, the particles are first moved to the horizon and the
// search repeated, so collisions between disks in distant cells are not
// skipped.
func (s *Simulation) Step() error {
	E := geom.KineticEnergy(s.particles)
	if s.params.TraceEnergy {
		s.energies = append(s.energies, EnergySample{s.steps, s.time, E})
	}
	if s.steps%s.params.LogInterval == 0 {
		s.log.Printf("Step %d: t = %g, E = %g.", s.steps, s.time, E)
	}

	if s.brute && s.steps == s.params.SampleCount {
		s.switchMode()
	}

	next, ok := s.nextCollision()
	for h := s.horizon(); ok && next.Time > h; {
		s.fly(h)
		next, ok = s.nextCollision()
	}
	if !ok {
		s.hasNext = false
		return &StepError{s.steps, s.time, ErrNoCollision}
	}
	s.next, s.hasNext = next, true

	s.advance(next.Time)
	next.Resolve()

	s.time += next.Time
	s.steps++

	if err := s.sink.Append(s.particles, s.time); err != nil {
		return &StepError{s.steps, s.time, err}
	}
	return nil
}

// switchMode ends the brute-force phase and replaces the single-cell grid
// with a lattice sized from the mean free time measured so far.
func (s *Simulation) switchMode() {
	s.brute = false
	s.switchStep = s.steps
	s.meanFreeTime = s.time / float64(s.params.SampleCount)

	L := s.grid.Width()
	m := LatticeSize(
		L, s.params.InitialSpeed, s.meanFreeTime, geom.MaxRadius(s.particles),
	)
	s.grid = geom.NewGrid(L, m, s.particles)

	s.log.Printf(
		"Switching to grid search after %d steps: mean free time = %g, "+
			"grid = %d x %d.", s.steps, s.meanFreeTime, m, m,
	)
}

// fly advances every particle by dt without resolving a collision. The grid
// search uses it to move up to its horizon before looking again.
func (s *Simulation) fly(dt float64) {
	s.advance(dt)
	s.time += dt
	s.flights++
}

// advance moves every particle forward by dt, keeping the grid up to date
// once the grid search is in use.
func (s *Simulation) advance(dt float64) {
	for _, p := range s.particles {
		if s.brute {
			p.Advance(dt)
		} else {
			s.relocate(p, dt)
		}
	}
}

// relocate advances p by dt and moves it to a new cell if it left its old
// one. Particles which left the box are wrapped back around.
func (s *Simulation) relocate(p *geom.Particle, dt float64) {
	g := s.grid
	x0, y0 := g.Locate(p.Pos)
	p.Advance(dt)
	x1, y1 := g.Locate(p.Pos)

	if x0 == x1 && y0 == y1 {
		return
	}
	g.Cell(x0, y0).Remove(p)

	L, M := g.Width(), g.Cells()
	if x1 < 0 {
		p.Pos.X += L
	} else if x1 >= M {
		p.Pos.X -= L
	}
	if y1 < 0 {
		p.Pos.Y += L
	} else if y1 >= M {
		p.Pos.Y -= L
	}

	g.Insert(p)
}

func (s *Simulation) Time() float64 { return s.time }
func (s *Simulation) Steps() int { return s.steps }

// Flights returns the number of collision-free moves the grid search has made
// to stay within its horizon.
func (s *Simulation) Flights() int { return s.flights }

func (s *Simulation) Brute() bool { return s.brute }
func (s *Simulation) Grid() *geom.Grid { return s.grid }
func (s *Simulation) Particles() []*geom.Particle { return s.particles }
func (s *Simulation) Params() Params { return s.params }
func (s *Simulation) Energies() []EnergySample { return s.energies }

// MeanFreeTime returns the mean free time used to size the grid, or zero if
// the simulation is still in its brute-force phase.
func (s *Simulation) MeanFreeTime() float64 { return s.meanFreeTime }

// SwitchStep returns the step at which the grid search started, or -1.
func (s *Simulation) SwitchStep() int { return s.switchStep }

// Next returns the collision resolved by the most recent step.
func (s *Simulation) Next() (c Collision, ok bool) { return s.next, s.hasNext }
