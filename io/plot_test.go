package io

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnergyDrift(t *testing.T) {
	table := []struct {
		Es, drift []float64
	}{
		{[]float64{}, []float64{}},
		{[]float64{2, 2, 2.5, 1}, []float64{0, 0, 0.25, -0.5}},
		{[]float64{0, 0, 1e-3}, []float64{0, 0, 1e-3}},
	}

	for i, line := range table {
		drift := EnergyDrift(line.Es)
		if len(drift) != len(line.drift) {
			t.Errorf("%d) Expected %d values. Got %d.",
				i, len(line.drift), len(drift))
			continue
		}
		for j := range drift {
			if math.Abs(drift[j]-line.drift[j]) > 1e-12 {
				t.Errorf("%d) Expected drift[%d] = %g. Got %g.",
					i, j, line.drift[j], drift[j])
			}
		}
	}
}

func TestPlotEnergyErrors(t *testing.T) {
	assert.NotNil(t, PlotEnergy("energy.png", []float64{1, 2}, []float64{1}))
	assert.NotNil(t, PlotEnergy("energy.png", nil, nil))
}
