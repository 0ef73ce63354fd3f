// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"github.com/pkg/errors"

	"goldsrc/binread"
	"goldsrc/conlog"
)

// records are appended one by one, so a bogus length does not allocate
// everything up front
const maxPrealloc = 1 << 16

type recordDecoder[T any] func(*binread.Reader) (T, error)

func seekLump(r *binread.Reader, h *Header, lt LumpType) (Lump, error) {
	l := h.Lumps[lt]
	if l.Offset < 0 || l.Length < 0 {
		return Lump{}, errors.Wrapf(&InvalidValueError{Field: lt.String() + " lump", Value: int64(min(l.Offset, l.Length))},
			"lump %s", lt)
	}
	if err := r.Seek(int64(l.Offset)); err != nil {
		return Lump{}, errors.Wrapf(err, "lump %s", lt)
	}
	return l, nil
}

// decodeLump decodes floor(length/size) records of lump lt. Trailing bytes
// that do not form a whole record are not read.
func decodeLump[T any](r *binread.Reader, h *Header, lt LumpType, size int, dec recordDecoder[T]) ([]T, error) {
	l, err := seekLump(r, h, lt)
	if err != nil {
		return nil, err
	}
	count := int(l.Length) / size
	if rest := int(l.Length) % size; rest != 0 {
		conlog.Debug("lump length is not a multiple of the record size",
			"lump", lt, "length", l.Length, "size", size, "ignored", rest)
	}
	items := make([]T, 0, min(count, maxPrealloc))
	for i := 0; i < count; i++ {
		item, err := dec(r)
		if err != nil {
			return nil, errors.Wrapf(err, "lump %s record %d", lt, i)
		}
		items = append(items, item)
	}
	conlog.Debug("decoded lump", "lump", lt, "records", len(items))
	return items, nil
}

// decodeRaw returns the lump bytes unparsed.
func decodeRaw(r *binread.Reader, h *Header, lt LumpType) ([]byte, error) {
	l, err := seekLump(r, h, lt)
	if err != nil {
		return nil, err
	}
	b, err := r.ReadBytes(int64(l.Length))
	if err != nil {
		return nil, errors.Wrapf(err, "lump %s", lt)
	}
	return b, nil
}
