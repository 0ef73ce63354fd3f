// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"io"

	"github.com/pkg/errors"

	"goldsrc/binread"
)

// Format is a decoded map of one of the supported versions. The set of
// implementations is closed; switch on the concrete type.
type Format interface {
	Version() Version
	isFormat()
}

// Decoder detects the version of a map and decodes it.
type Decoder struct {
	r       *binread.Reader
	ident   int32
	version Version
}

// NewDecoder reads the identifier of the map in r. r needs random access as
// the lumps are not read in file order.
func NewDecoder(r io.ReadSeeker) (*Decoder, error) {
	br := binread.NewReader(r)
	if err := br.Seek(0); err != nil {
		return nil, err
	}
	ident, err := br.ReadInt32()
	if err != nil {
		return nil, errors.Wrap(err, "read identifier")
	}
	v, err := versionFromIdent(ident)
	if err != nil {
		return nil, err
	}
	return &Decoder{r: br, ident: ident, version: v}, nil
}

func (d *Decoder) Version() Version {
	return d.version
}

// DecodeAny decodes whatever version was detected.
func (d *Decoder) DecodeAny() (Format, error) {
	switch d.version {
	case VersionGoldSrc30:
		m, err := d.DecodeGoldSrc30()
		if err != nil {
			return nil, err
		}
		return m, nil
	}
	return nil, &UnsupportedVersionError{Ident: d.ident}
}

// DecodeGoldSrc30 decodes a version 30 map. It fails with ErrFormatMismatch if
// the file is of another version.
func (d *Decoder) DecodeGoldSrc30() (*GoldSrc30, error) {
	if d.version != VersionGoldSrc30 {
		return nil, errors.Wrapf(ErrFormatMismatch, "want %s, have %s", VersionGoldSrc30, d.version)
	}
	if err := d.r.Seek(4); err != nil {
		return nil, err
	}
	h, err := decodeHeader(d.r, d.ident)
	if err != nil {
		return nil, err
	}
	return decodeGoldSrc30(d.r, &h)
}

// Decode detects the version of the map in r and decodes it.
func Decode(r io.ReadSeeker) (Format, error) {
	d, err := NewDecoder(r)
	if err != nil {
		return nil, err
	}
	return d.DecodeAny()
}
