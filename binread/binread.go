// SPDX-License-Identifier: GPL-2.0-or-later

// Package binread decodes little-endian fixed width values from a seekable
// byte source.
package binread

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"

	"goldsrc/math/vec"
)

type Reader struct {
	r io.ReadSeeker
}

func NewReader(r io.ReadSeeker) *Reader {
	return &Reader{r}
}

// read decodes into data. Nothing is written to data unless the whole value
// could be read.
func read(r io.Reader, data any) error {
	err := binary.Read(r, binary.LittleEndian, data)
	if err == io.EOF {
		// a value was expected, so an empty read is still a short read
		return io.ErrUnexpectedEOF
	}
	return err
}

func readValue[T constraints.Integer | constraints.Float](q *Reader) (T, error) {
	var v T
	if err := read(q.r, &v); err != nil {
		return 0, errors.Wrapf(err, "read %T", v)
	}
	return v, nil
}

func readSlice[T constraints.Integer | constraints.Float](q *Reader, dst []T) error {
	if len(dst) == 0 {
		return nil
	}
	if err := read(q.r, dst); err != nil {
		return errors.Wrapf(err, "read %d x %T", len(dst), dst[0])
	}
	return nil
}

// Seek moves to the absolute offset.
func (q *Reader) Seek(offset int64) error {
	off, err := q.r.Seek(offset, io.SeekStart)
	if err != nil {
		return errors.Wrapf(err, "seek to %d", offset)
	}
	if off != offset {
		return errors.Errorf("seek to %d ended at %d", offset, off)
	}
	return nil
}

// Offset returns the current absolute position.
func (q *Reader) Offset() (int64, error) {
	return q.r.Seek(0, io.SeekCurrent)
}

func (q *Reader) ReadUint8() (uint8, error) {
	return readValue[uint8](q)
}

func (q *Reader) ReadInt16() (int16, error) {
	return readValue[int16](q)
}

func (q *Reader) ReadUint16() (uint16, error) {
	return readValue[uint16](q)
}

func (q *Reader) ReadInt32() (int32, error) {
	return readValue[int32](q)
}

func (q *Reader) ReadUint32() (uint32, error) {
	return readValue[uint32](q)
}

func (q *Reader) ReadFloat32() (float32, error) {
	return readValue[float32](q)
}

func (q *Reader) ReadFloat32s(dst []float32) error {
	return readSlice(q, dst)
}

func (q *Reader) ReadInt32s(dst []int32) error {
	return readSlice(q, dst)
}

func (q *Reader) ReadUint32s(dst []uint32) error {
	return readSlice(q, dst)
}

func (q *Reader) ReadInt16s(dst []int16) error {
	return readSlice(q, dst)
}

func (q *Reader) ReadUint8s(dst []uint8) error {
	return readSlice(q, dst)
}

func (q *Reader) ReadVec3() (vec.Vec3, error) {
	var a [3]float32
	if err := q.ReadFloat32s(a[:]); err != nil {
		return vec.Vec3{}, err
	}
	return vec.VFromA(a), nil
}

// ReadUint16Pair reads two uint16 and widens them.
func (q *Reader) ReadUint16Pair() ([2]uint32, error) {
	var a [2]uint16
	if err := read(q.r, &a); err != nil {
		return [2]uint32{}, errors.Wrap(err, "read uint16 pair")
	}
	return [2]uint32{uint32(a[0]), uint32(a[1])}, nil
}

// ReadBytes returns the next n bytes. The buffer grows while reading so a
// bogus n fails at the end of the data instead of allocating it.
func (q *Reader) ReadBytes(n int64) ([]byte, error) {
	if n < 0 {
		return nil, errors.Errorf("read %d bytes", n)
	}
	var buf bytes.Buffer
	if _, err := io.CopyN(&buf, q.r, n); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, errors.Wrapf(err, "read %d bytes", n)
	}
	return buf.Bytes(), nil
}

// Read decodes a fixed size value, see encoding/binary.
func (q *Reader) Read(data any) error {
	if err := read(q.r, data); err != nil {
		return errors.Wrapf(err, "read %T", data)
	}
	return nil
}
