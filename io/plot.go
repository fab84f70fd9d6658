package io

import (
	"fmt"
	"math"

	plt "github.com/phil-mansfield/pyplot"
)

// PlotEnergy adds a figure showing the relative change in kinetic energy,
// (E - E[0]) / E[0], against time which is saved to fname. The figure is
// only drawn once plt.Execute() is called.
func PlotEnergy(fname string, ts, Es []float64) error {
	if len(ts) != len(Es) {
		return fmt.Errorf(
			"Got %d times but %d energies.", len(ts), len(Es),
		)
	} else if len(Es) == 0 {
		return fmt.Errorf("No energies to plot.")
	}

	dEs := EnergyDrift(Es)
	maxDrift := 0.0
	for _, dE := range dEs {
		maxDrift = math.Max(maxDrift, math.Abs(dE))
	}

	plt.Figure()
	plt.Plot(ts, dEs, "k", plt.LW(2))
	plt.Title(fmt.Sprintf(`Max $|\Delta E / E_0|$ = %.3g`, maxDrift))
	plt.XLabel(`$t$`, plt.FontSize(16))
	plt.YLabel(`$\Delta E / E_0$`, plt.FontSize(16))
	plt.Grid(plt.Axis("y"))
	plt.SaveFig(fname)

	return nil
}

// EnergyDrift returns (E - E[0]) / E[0] for every E in Es. If E[0] is zero
// the absolute change is returned instead.
func EnergyDrift(Es []float64) []float64 {
	out := make([]float64, len(Es))
	if len(Es) == 0 {
		return out
	}

	E0 := Es[0]
	for i, E := range Es {
		if E0 == 0 {
			out[i] = E
		} else {
			out[i] = (E - E0) / E0
		}
	}
	return out
}
