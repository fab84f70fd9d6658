package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"strings"
	"time"

	plt "github.com/phil-mansfield/pyplot"

	"github.com/phil-mansfield/hardisk"
	"github.com/phil-mansfield/hardisk/geom"
	"github.com/phil-mansfield/hardisk/io"
)

type FileGroup struct {
	log, prof *os.File
}

func (fg *FileGroup) Close() {
	if fg.log != nil {
		err := fg.log.Close()
		if err != nil {
			log.Fatal(err.Error())
		}
	}

	if fg.prof != nil {
		pprof.StopCPUProfile()
		err := fg.prof.Close()
		if err != nil {
			log.Fatal(err.Error())
		}
	}
}

func main() {
	var (
		simulate, exampleConfig string
	)
	vars := map[string]*string{
		"Simulate":      &simulate,
		"ExampleConfig": &exampleConfig,
	}

	flag.StringVar(
		&simulate, "Simulate", "",
		"Configuration file for [Simulation] mode.",
	)
	flag.StringVar(
		&exampleConfig,
		"ExampleConfig", "", "Prints an example configuration file of the "+
			"specified type to stdout. The only accepted argument is "+
			"'Simulation'.",
	)

	flag.Parse()

	modeName, err := getModeName(vars)
	if err != nil {
		log.Fatal(err.Error())
	}

	switch modeName {
	case "Simulate":
		con, err := io.ReadSimulationConfig(simulate)
		if err != nil {
			log.Fatal(err.Error())
		}

		fg := setupIO(con)
		defer fg.Close()

		if err := simulateMain(con); err != nil {
			log.Fatal(err.Error())
		}
	case "ExampleConfig":
		switch exampleConfig {
		case "Simulation":
			fmt.Println(io.ExampleSimulationFile)
		default:
			log.Fatal(
				"Unrecognized 'ExampleConfig' argument. The only recognized " +
					"argument is 'Simulation'.",
			)
		}
	default:
		panic("Impossible")
	}
}

func getModeName(vars map[string]*string) (string, error) {
	setNames := []string{}

	for name, varPtr := range vars {
		if *varPtr != "" {
			setNames = append(setNames, name)
		}
	}

	if len(setNames) == 0 {
		return "", fmt.Errorf("No flags have been set.")
	}

	if len(setNames) > 1 {
		return "", fmt.Errorf(
			"The following flags were set: %s, but hardisk "+
				"only accepts one flag at a time.",
			strings.Join(setNames, ", "),
		)
	}

	return setNames[0], nil
}

func setupIO(con *io.SimulationConfig) *FileGroup {
	fg := &FileGroup{}
	var err error

	if con.ValidLogFile() {
		fg.log, err = os.Create(con.LogFile)
		if err != nil {
			log.Fatal(err.Error())
		}
		log.SetOutput(fg.log)
	}

	if con.ValidProfileFile() {
		fg.prof, err = os.Create(con.ProfileFile)
		if err != nil {
			log.Fatal(err.Error())
		}
		err = pprof.StartCPUProfile(fg.prof)
		if err != nil {
			log.Fatal(err.Error())
		}
	}

	return fg
}

func simulateMain(con *io.SimulationConfig) (err error) {
	log.Println("Running Simulate main.")

	ps, err := initialParticles(con)
	if err != nil {
		return err
	}
	if err := io.CheckParticles(ps, con.BoxWidth); err != nil {
		return err
	}

	speed := con.InitialSpeed
	if speed == 0 {
		speed = io.MeanSpeed(ps)
	}

	var sink io.Sink
	if con.ValidOutput() {
		sink, err = io.CreateSink(con.OutputFormat, con.Output)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := sink.Close(); err == nil {
				err = cerr
			}
		}()
	}

	params := hardisk.DefaultParams(con.TotalTime, speed)
	params.SampleCount = con.SampleCount
	params.LogInterval = con.LogInterval
	params.Pace = time.Duration(con.PaceMillis) * time.Millisecond
	params.TraceEnergy = con.ValidEnergyPlot()

	grid := geom.NewBruteGrid(con.BoxWidth, ps)
	sim, err := hardisk.New(grid, params, sink, log.Default())
	if err != nil {
		return err
	}

	log.Printf(
		"Simulating %d particles in a box of width %g until t = %g.",
		len(ps), con.BoxWidth, con.TotalTime,
	)
	if err := sim.Run(); err != nil {
		return err
	}

	if con.ValidEnergyPlot() {
		samples := sim.Energies()
		ts, Es := make([]float64, len(samples)), make([]float64, len(samples))
		for i, s := range samples {
			ts[i], Es[i] = s.Time, s.Energy
		}
		if err := io.PlotEnergy(con.EnergyPlot, ts, Es); err != nil {
			return err
		}
		plt.Execute()
	}

	return nil
}

func initialParticles(con *io.SimulationConfig) ([]*geom.Particle, error) {
	if con.ValidParticleFile() {
		log.Printf("Reading particles from %s.", con.ParticleFile)
		return io.ReadParticles(con.ParticleFile)
	}

	log.Printf("Placing %d random particles.", con.Particles)
	return geom.RandomParticles(
		con.Particles, con.BoxWidth, con.Radius, con.Mass,
		con.InitialSpeed, con.Seed,
	)
}
