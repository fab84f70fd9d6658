//go:build !nohdf5
// +build !nohdf5

package io

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/hdf5"

	"github.com/phil-mansfield/hardisk/geom"
)

// unlimited is H5S_UNLIMITED, the maximum extent of a dimension which can
// grow without bound.
const unlimited = ^uint(0)

// timeChunk is the number of snapshot times stored per chunk of the "time"
// dataset.
const timeChunk = 256

// HDF5Sink writes snapshots to an HDF5 file as they arrive. The file holds a
// "particles" dataset of shape [snapshots, particles] with one Record per
// entry and a "time" dataset with one time per snapshot. Both grow by one
// row per snapshot.
type HDF5Sink struct {
	file  *hdf5.File
	n     uint
	count uint

	times, parts *hdf5.Dataset
	tmem, pmem   *hdf5.Dataspace
}

// CreateHDF5Sink creates fname and returns an HDF5Sink which writes to it.
func CreateHDF5Sink(fname string) (*HDF5Sink, error) {
	if err := os.MkdirAll(filepath.Dir(fname), 0755); err != nil {
		return nil, err
	}

	file, err := hdf5.CreateFile(fname, hdf5.F_ACC_TRUNC)
	if err != nil {
		return nil, err
	}
	if err := saveCreationTime(file); err != nil {
		file.Close()
		return nil, err
	}
	return &HDF5Sink{file: file}, nil
}

func (s *HDF5Sink) Append(ps []*geom.Particle, t float64) error {
	if s.parts == nil {
		if err := s.createDatasets(uint(len(ps))); err != nil {
			return err
		}
	} else if uint(len(ps)) != s.n {
		return fmt.Errorf(
			"HDF5 snapshots must all hold %d particles, but got %d.",
			s.n, len(ps),
		)
	}

	snap := NewSnapshot(ps, t)
	times := []float64{snap.Time}
	if err := appendRow(s.times, s.tmem, []uint{s.count}, &times); err != nil {
		return err
	}
	if err := appendRow(
		s.parts, s.pmem, []uint{s.count, s.n}, &snap.Records,
	); err != nil {
		return err
	}

	s.count++
	return nil
}

// appendRow grows dset by one row along its first dimension and writes data,
// laid out as mem, into that row. dims is the extent of dset before the
// write.
func appendRow(
	dset *hdf5.Dataset, mem *hdf5.Dataspace, dims []uint, data interface{},
) (err error) {
	grown := append([]uint{dims[0] + 1}, dims[1:]...)
	if err := dset.Resize(grown); err != nil {
		return err
	}

	fspace := dset.Space()
	defer checkClose(&err, fspace)

	start := make([]uint, len(dims))
	count := append([]uint{1}, dims[1:]...)
	start[0] = dims[0]
	if err := fspace.SelectHyperslab(start, nil, count, nil); err != nil {
		return err
	}
	return dset.WriteSubset(data, mem, fspace)
}

// createDatasets creates the extendable "time" and "particles" datasets for
// snapshots of n particles.
func (s *HDF5Sink) createDatasets(n uint) (err error) {
	if n == 0 {
		return fmt.Errorf("Cannot write an HDF5 snapshot with no particles.")
	}
	s.n = n

	s.times, err = createExtendable(
		s.file, "time", float64(0), []uint{0}, []uint{timeChunk},
	)
	if err != nil {
		return err
	}
	s.parts, err = createExtendable(
		s.file, "particles", Record{}, []uint{0, n}, []uint{1, n},
	)
	if err != nil {
		return err
	}

	if s.tmem, err = hdf5.CreateSimpleDataspace([]uint{1}, nil); err != nil {
		return err
	}
	s.pmem, err = hdf5.CreateSimpleDataspace([]uint{n}, nil)
	return err
}

// createExtendable creates a chunked dataset holding values like v whose
// first dimension is unlimited.
func createExtendable(
	file *hdf5.File, name string, v interface{}, dims, chunk []uint,
) (dset *hdf5.Dataset, err error) {
	dtype, err := hdf5.NewDatatypeFromValue(v)
	if err != nil {
		return nil, err
	}
	defer checkClose(&err, dtype)

	maxDims := append([]uint{unlimited}, dims[1:]...)
	dspace, err := hdf5.CreateSimpleDataspace(dims, maxDims)
	if err != nil {
		return nil, err
	}
	defer checkClose(&err, dspace)

	dcpl, err := hdf5.NewPropList(hdf5.P_DATASET_CREATE)
	if err != nil {
		return nil, err
	}
	defer checkClose(&err, dcpl)
	if err := dcpl.SetChunk(chunk); err != nil {
		return nil, err
	}

	return file.CreateDatasetWith(name, dtype, dspace, dcpl)
}

// Close closes the datasets and the file. Every snapshot has already been
// written.
func (s *HDF5Sink) Close() (err error) {
	defer checkClose(&err, s.file)

	if s.times != nil {
		defer checkClose(&err, s.times)
	}
	if s.parts != nil {
		defer checkClose(&err, s.parts)
	}
	if s.tmem != nil {
		defer checkClose(&err, s.tmem)
	}
	if s.pmem != nil {
		defer checkClose(&err, s.pmem)
	}
	return nil
}

// saveCreationTime creates a "config" dataset with a null dataspace whose
// "Time" attribute records when the file was written.
func saveCreationTime(file *hdf5.File) (err error) {
	null, err := hdf5.CreateDataspace(hdf5.S_NULL)
	if err != nil {
		return err
	}
	defer checkClose(&err, null)

	anytype, err := hdf5.NewDatatypeFromValue(0)
	if err != nil {
		return err
	}
	defer checkClose(&err, anytype)

	dset, err := file.CreateDataset("config", anytype, null)
	if err != nil {
		return err
	}
	defer checkClose(&err, dset)

	dtype, err := hdf5.NewDatatypeFromValue("")
	if err != nil {
		return err
	}
	defer checkClose(&err, dtype)

	scalar, err := hdf5.CreateDataspace(hdf5.S_SCALAR)
	if err != nil {
		return err
	}
	defer checkClose(&err, scalar)

	attr, err := dset.CreateAttribute("Time", dtype, scalar)
	if err != nil {
		return err
	}
	defer checkClose(&err, attr)

	now := time.Now().String()
	return attr.Write(&now, dtype)
}

var _ Sink = (*HDF5Sink)(nil)
