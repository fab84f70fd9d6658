//go:build nohdf5
// +build nohdf5

package io

import (
	"fmt"
	"os"

	"github.com/phil-mansfield/hardisk/geom"
)

// HDF5Sink is unavailable in builds without HDF5 support.
type HDF5Sink struct{}

// CreateHDF5Sink returns an error explaining that HDF5 support is disabled.
func CreateHDF5Sink(fname string) (*HDF5Sink, error) {
	return nil, fmt.Errorf(
		"%s was built without HDF5 support. Use another OutputFormat.",
		os.Args[0],
	)
}

func (s *HDF5Sink) Append(ps []*geom.Particle, t float64) error { return nil }
func (s *HDF5Sink) Close() error { return nil }
