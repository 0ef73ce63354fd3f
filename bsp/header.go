// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"io"

	"github.com/pkg/errors"

	"goldsrc/binread"
)

const Ident30 = 30

type Version int

const (
	VersionUnknown Version = iota
	VersionGoldSrc30
)

func (v Version) String() string {
	switch v {
	case VersionGoldSrc30:
		return "GoldSrc30"
	}
	return "unknown"
}

func versionFromIdent(ident int32) (Version, error) {
	switch ident {
	case Ident30:
		return VersionGoldSrc30, nil
	}
	return VersionUnknown, &UnsupportedVersionError{Ident: ident}
}

// ReadHeader reads and checks the identifier and the lump directory.
func ReadHeader(r io.ReadSeeker) (Header, error) {
	br := binread.NewReader(r)
	if err := br.Seek(0); err != nil {
		return Header{}, err
	}
	ident, err := br.ReadInt32()
	if err != nil {
		return Header{}, errors.Wrap(err, "read identifier")
	}
	if _, err := versionFromIdent(ident); err != nil {
		return Header{}, err
	}
	return decodeHeader(br, ident)
}

// decodeHeader reads the lump directory that follows the identifier.
func decodeHeader(r *binread.Reader, ident int32) (Header, error) {
	h := Header{Ident: ident}
	for i := range h.Lumps {
		var l [2]int32
		if err := r.ReadInt32s(l[:]); err != nil {
			return Header{}, errors.Wrapf(err, "read directory entry %s", LumpType(i))
		}
		h.Lumps[i] = Lump{Offset: l[0], Length: l[1]}
	}
	return h, nil
}
