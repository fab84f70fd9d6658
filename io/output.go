package io

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strings"
	"unsafe"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/phil-mansfield/hardisk/geom"
)

var end = binary.LittleEndian

// outputFormats maps lower-case format names to their canonical spelling.
var outputFormats = map[string]string{
	"table":   "Table",
	"binary":  "Binary",
	"msgpack": "Msgpack",
	"hdf5":    "HDF5",
}

// Record is the state of a single particle in a snapshot.
type Record struct {
	ID     int64   `msgpack:"id"`
	X      float64 `msgpack:"x"`
	Y      float64 `msgpack:"y"`
	VX     float64 `msgpack:"vx"`
	VY     float64 `msgpack:"vy"`
	Mass   float64 `msgpack:"m"`
	Radius float64 `msgpack:"r"`
}

// Snapshot is the state of every particle at a single time.
type Snapshot struct {
	Time    float64  `msgpack:"t"`
	Records []Record `msgpack:"p"`
}

// NewSnapshot copies the state of ps at time t.
func NewSnapshot(ps []*geom.Particle, t float64) Snapshot {
	snap := Snapshot{t, make([]Record, len(ps))}
	for i, p := range ps {
		snap.Records[i] = Record{
			int64(p.ID), p.Pos.X, p.Pos.Y, p.Vel.X, p.Vel.Y, p.Mass, p.Radius,
		}
	}
	return snap
}

// Sink is a snapshot destination which must be closed when the run ends.
type Sink interface {
	Append(ps []*geom.Particle, t float64) error
	Close() error
}

// CreateSink creates fname and returns a Sink which writes snapshots to it
// in the given format.
func CreateSink(format, fname string) (Sink, error) {
	switch outputFormats[strings.ToLower(format)] {
	case "Table":
		return CreateTableSink(fname)
	case "Binary":
		return CreateBinarySink(fname)
	case "Msgpack":
		return CreateMsgpackSink(fname)
	case "HDF5":
		return CreateHDF5Sink(fname)
	}
	return nil, fmt.Errorf("Unrecognized output format '%s'.", format)
}

// MemorySink keeps every snapshot in memory.
type MemorySink struct {
	Snapshots []Snapshot
}

func (s *MemorySink) Append(ps []*geom.Particle, t float64) error {
	s.Snapshots = append(s.Snapshots, NewSnapshot(ps, t))
	return nil
}

func (s *MemorySink) Close() error { return nil }

// TableSink writes snapshots as a text table with the columns
// t, id, x, y, vx, vy. Every particle gets its own line.
type TableSink struct {
	buf *bufio.Writer
	c   io.Closer
}

// NewTableSink returns a TableSink which writes to wr.
func NewTableSink(wr io.Writer) *TableSink {
	s := &TableSink{buf: bufio.NewWriter(wr)}
	if c, ok := wr.(io.Closer); ok {
		s.c = c
	}
	fmt.Fprintln(s.buf, "# t id x y vx vy")
	return s
}

// CreateTableSink creates fname and returns a TableSink which writes to it.
func CreateTableSink(fname string) (*TableSink, error) {
	f, err := os.Create(fname)
	if err != nil {
		return nil, err
	}
	return NewTableSink(f), nil
}

func (s *TableSink) Append(ps []*geom.Particle, t float64) error {
	for _, p := range ps {
		_, err := fmt.Fprintf(s.buf, "%.17g %d %.17g %.17g %.17g %.17g\n",
			t, p.ID, p.Pos.X, p.Pos.Y, p.Vel.X, p.Vel.Y)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *TableSink) Close() (err error) {
	if s.c != nil {
		defer checkClose(&err, s.c)
	}
	return s.buf.Flush()
}

// MsgpackSink writes every snapshot as a msgpack-encoded Snapshot.
type MsgpackSink struct {
	buf *bufio.Writer
	enc *msgpack.Encoder
	c   io.Closer
}

// NewMsgpackSink returns a MsgpackSink which writes to wr.
func NewMsgpackSink(wr io.Writer) *MsgpackSink {
	s := &MsgpackSink{buf: bufio.NewWriter(wr)}
	s.enc = msgpack.NewEncoder(s.buf)
	if c, ok := wr.(io.Closer); ok {
		s.c = c
	}
	return s
}

// CreateMsgpackSink creates fname and returns a MsgpackSink which writes
// to it.
func CreateMsgpackSink(fname string) (*MsgpackSink, error) {
	f, err := os.Create(fname)
	if err != nil {
		return nil, err
	}
	return NewMsgpackSink(f), nil
}

func (s *MsgpackSink) Append(ps []*geom.Particle, t float64) error {
	snap := NewSnapshot(ps, t)
	return s.enc.Encode(&snap)
}

func (s *MsgpackSink) Close() (err error) {
	if s.c != nil {
		defer checkClose(&err, s.c)
	}
	return s.buf.Flush()
}

// ReadMsgpack decodes every snapshot written by a MsgpackSink.
func ReadMsgpack(rd io.Reader) ([]Snapshot, error) {
	dec := msgpack.NewDecoder(bufio.NewReader(rd))
	snaps := []Snapshot{}
	for {
		snap := Snapshot{}
		err := dec.Decode(&snap)
		if err == io.EOF {
			return snaps, nil
		} else if err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
}

/*
The binary snapshot format is as follows:
    |-- 1 --||-- 2 --||-- 3 --||-- 4 --||-- 5 --| ...

    1 - (int64) Flag indicating the endianness of the file. 0 indicates a big
        endian byte ordering and -1 indicates a little endian byte order.
    2 - (int64) Size of a BinaryHeader struct. Should be checked for
        consistency.
    3 - (int64) Number of particles in each snapshot.
    4 - (float64) Time of the first snapshot.
    5 - ([]Record) Records of the first snapshot.

Blocks 4 and 5 repeat once per snapshot.
*/
type BinaryHeader struct {
	Endianness int64
	HeaderSize int64
	Count      int64
}

// BinarySink writes snapshots in the binary snapshot format.
type BinarySink struct {
	buf     *bufio.Writer
	c       io.Closer
	started bool
}

// NewBinarySink returns a BinarySink which writes to wr.
func NewBinarySink(wr io.Writer) *BinarySink {
	s := &BinarySink{buf: bufio.NewWriter(wr)}
	if c, ok := wr.(io.Closer); ok {
		s.c = c
	}
	return s
}

// CreateBinarySink creates fname and returns a BinarySink which writes to
// it.
func CreateBinarySink(fname string) (*BinarySink, error) {
	f, err := os.Create(fname)
	if err != nil {
		return nil, err
	}
	return NewBinarySink(f), nil
}

func (s *BinarySink) Append(ps []*geom.Particle, t float64) error {
	if !s.started {
		hd := BinaryHeader{Count: int64(len(ps))}
		hd.HeaderSize = int64(unsafe.Sizeof(hd))
		if end == binary.LittleEndian {
			hd.Endianness = -1
		}
		if err := binary.Write(s.buf, end, &hd); err != nil {
			return err
		}
		s.started = true
	}

	snap := NewSnapshot(ps, t)
	if err := binary.Write(s.buf, end, snap.Time); err != nil {
		return err
	}
	return binary.Write(s.buf, end, snap.Records)
}

func (s *BinarySink) Close() (err error) {
	if s.c != nil {
		defer checkClose(&err, s.c)
	}
	return s.buf.Flush()
}

// ReadBinary reads every snapshot written by a BinarySink.
func ReadBinary(rd io.Reader) ([]Snapshot, error) {
	rd = bufio.NewReader(rd)

	var flag int64
	if err := binary.Read(rd, binary.LittleEndian, &flag); err == io.EOF {
		return []Snapshot{}, nil
	} else if err != nil {
		return nil, err
	}

	var order binary.ByteOrder
	switch flag {
	case 0:
		order = binary.BigEndian
	case -1:
		order = binary.LittleEndian
	default:
		return nil, fmt.Errorf(
			"Unrecognized endianness flag, %d (must be 0 or -1).", flag,
		)
	}

	hd := BinaryHeader{Endianness: flag}
	if err := binary.Read(rd, order, &hd.HeaderSize); err != nil {
		return nil, err
	} else if hd.HeaderSize != int64(unsafe.Sizeof(hd)) {
		return nil, fmt.Errorf(
			"Expected BinaryHeader size of %d, found %d.",
			unsafe.Sizeof(hd), hd.HeaderSize,
		)
	}
	if err := binary.Read(rd, order, &hd.Count); err != nil {
		return nil, err
	} else if hd.Count < 0 {
		return nil, fmt.Errorf(
			"BinaryHeader has a negative particle count, %d.", hd.Count,
		)
	}

	snaps := []Snapshot{}
	for {
		snap := Snapshot{Records: make([]Record, hd.Count)}
		err := binary.Read(rd, order, &snap.Time)
		if err == io.EOF {
			return snaps, nil
		} else if err != nil {
			return nil, err
		}
		if err := binary.Read(rd, order, snap.Records); err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
}
