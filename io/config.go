package io

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/gcfg.v1"
)

const ExampleSimulationFile = `[Simulation]

#######################
# Required Parameters #
#######################

# Simulation time after which the run stops. Must be non-negative.
TotalTime = 100

# Width of the square box.
BoxWidth = 100

# Particles can either be read from a text table or placed at random. A
# particle table has one particle per line with the columns
#     x y vx vy mass radius
# Lines beginning with '#' are ignored.
# ParticleFile = path/to/particles.txt

# Number of randomly placed particles, used if ParticleFile isn't set. They
# are placed without overlaps and all move at InitialSpeed in random
# directions.
Particles = 200
Radius = 1
Mass = 1

# Speed of the particles at the start of the run. This is used to turn the
# measured mean free time into a mean free path when sizing the search grid.
# If a ParticleFile is given and InitialSpeed is not, the mean speed of the
# particles in the file is used.
InitialSpeed = 1

#######################
# Optional Parameters #
#######################

# Seed for the random particle placement. Default is 1.
# Seed = 1

# Number of brute-force steps taken before the search grid is built. Default
# is 1000.
# SampleCount = 1000

# Output file for particle snapshots. One snapshot is written after every
# collision. OutputFormat can be one of [ Table | Binary | Msgpack | HDF5 ].
# Default is Table.
# Output = path/to/output.txt
# OutputFormat = Table

# Writes a plot of the kinetic energy against time. This is a useful check on
# energy conservation.
# EnergyPlot = energy.png

# Number of steps between progress messages. Default is 10.
# LogInterval = 10

# Wall-clock delay between steps in milliseconds. Default is 0.
# PaceMillis = 0

# Output files which are useful for profiling and debugging. Generally, there
# isn't a reason to use these unless something goes wrong.
# ProfileFile = prof.out
# LogFile = log.out`

// SimulationConfig holds the parameters of a [Simulation] config file.
type SimulationConfig struct {
	// Required
	TotalTime, BoxWidth float64
	InitialSpeed        float64

	ParticleFile string
	Particles    int
	Radius, Mass float64

	// Optional
	Seed         int64
	SampleCount  int
	LogInterval  int
	PaceMillis   int
	Output       string
	OutputFormat string
	EnergyPlot   string

	LogFile, ProfileFile string
}

type SimulationWrapper struct {
	Simulation SimulationConfig
}

func DefaultSimulationWrapper() *SimulationWrapper {
	cfg := SimulationConfig{
		Radius: 1, Mass: 1, Seed: 1,
		SampleCount: 1000, LogInterval: 10, OutputFormat: "Table",
	}
	return &SimulationWrapper{cfg}
}

// ReadSimulationConfig reads and checks a config file. Files ending in
// .toml are read as TOML and everything else as a gcfg file.
func ReadSimulationConfig(fname string) (*SimulationConfig, error) {
	wrap := DefaultSimulationWrapper()

	if strings.ToLower(filepath.Ext(fname)) == ".toml" {
		if _, err := toml.DecodeFile(fname, wrap); err != nil {
			return nil, err
		}
	} else if err := gcfg.ReadFileInto(wrap, fname); err != nil {
		return nil, err
	}

	con := &wrap.Simulation
	if err := con.CheckInit(); err != nil {
		return nil, err
	}
	return con, nil
}

func (con *SimulationConfig) ValidTotalTime() bool { return con.TotalTime >= 0 }
func (con *SimulationConfig) ValidBoxWidth() bool { return con.BoxWidth > 0 }
func (con *SimulationConfig) ValidParticleFile() bool {
	return con.ParticleFile != ""
}
func (con *SimulationConfig) ValidParticles() bool { return con.Particles > 0 }
func (con *SimulationConfig) ValidOutput() bool { return con.Output != "" }
func (con *SimulationConfig) ValidEnergyPlot() bool {
	return con.EnergyPlot != ""
}
func (con *SimulationConfig) ValidLogFile() bool { return con.LogFile != "" }
func (con *SimulationConfig) ValidProfileFile() bool {
	return con.ProfileFile != ""
}

func (con *SimulationConfig) ValidOutputFormat() bool {
	_, ok := outputFormats[strings.ToLower(strings.Trim(con.OutputFormat, " "))]
	return ok
}

// CheckInit returns an error describing the first invalid value in con and
// canonicalizes OutputFormat.
func (con *SimulationConfig) CheckInit() error {
	if !con.ValidTotalTime() {
		return fmt.Errorf("TotalTime must be non-negative, but is %g.",
			con.TotalTime)
	} else if !con.ValidBoxWidth() {
		return fmt.Errorf("Invalid/non-existent 'BoxWidth' value.")
	} else if !con.ValidParticleFile() && !con.ValidParticles() {
		return fmt.Errorf(
			"Either 'ParticleFile' or 'Particles' must be set.",
		)
	} else if con.InitialSpeed < 0 {
		return fmt.Errorf("InitialSpeed must be non-negative, but is %g.",
			con.InitialSpeed)
	} else if !con.ValidParticleFile() &&
		(con.Radius <= 0 || con.Mass <= 0) {
		return fmt.Errorf(
			"Random particles need a positive 'Radius' and 'Mass'.",
		)
	} else if con.PaceMillis < 0 {
		return fmt.Errorf("PaceMillis must be non-negative, but is %d.",
			con.PaceMillis)
	}

	if !con.ValidOutputFormat() {
		return fmt.Errorf(
			"OutputFormat must be one of [Table | Binary | Msgpack | HDF5]. "+
				"'%s' is not recognized.", con.OutputFormat,
		)
	}
	con.OutputFormat = outputFormats[strings.ToLower(
		strings.Trim(con.OutputFormat, " "),
	)]

	return nil
}
