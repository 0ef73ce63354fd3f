// SPDX-License-Identifier: GPL-2.0-or-later

// Package wad reads WAD2 and WAD3 texture archives.
package wad

import (
	"fmt"
	"io"

	"github.com/pkg/errors"

	"goldsrc/binread"
	"goldsrc/bsp"
	"goldsrc/conlog"
)

var ErrInvalidFormat = errors.New("not a wad2 or wad3 file")

type Version int

const (
	VersionWAD2 Version = 2
	VersionWAD3 Version = 3
)

func (v Version) String() string {
	return fmt.Sprintf("WAD%d", int(v))
}

// entry types
const (
	TypPalette    = 0x40
	TypColorMap   = 0x41
	TypQPic       = 0x42
	TypMipTex     = 0x43 // half-life miptex with its own palette
	TypMipTex2    = 0x44 // quake miptex, shared palette
	TypConsolePic = 0x45
	TypFont       = 0x46
)

type header struct {
	M          [4]byte
	EntryCount int32
	DirOffset  int32
}

// directory entry as stored
type lump struct {
	Offset      int32
	DiskSize    int32
	Size        int32
	Typ         byte
	Compression byte
	Dummy       int16
	Name        [bsp.MaxTextureName]byte
}

type Entry struct {
	Name       string
	Offset     int32
	DiskSize   int32
	Size       int32
	Type       byte
	Compressed bool
}

// isTexture reports whether the entry holds an uncompressed paletted texture.
func (e *Entry) isTexture() bool {
	return e.Type == TypMipTex && !e.Compressed && e.Size == e.DiskSize
}

type Archive struct {
	Version Version
	Entries []Entry
	// Textures by name. Later entries win over earlier ones of the same name.
	Textures map[string]*bsp.Texture
}

// TextureNames returns the texture names in directory order.
func (a *Archive) TextureNames() []string {
	var n []string
	seen := make(map[string]bool)
	for i := range a.Entries {
		e := &a.Entries[i]
		if _, ok := a.Textures[e.Name]; ok && !seen[e.Name] {
			seen[e.Name] = true
			n = append(n, e.Name)
		}
	}
	return n
}

func readHeader(r *binread.Reader) (header, error) {
	var h header
	if err := r.Seek(0); err != nil {
		return header{}, err
	}
	if err := r.ReadUint8s(h.M[:]); err != nil {
		return header{}, errors.Wrap(err, "read magic")
	}
	switch h.M {
	case [4]byte{'W', 'A', 'D', '2'}, [4]byte{'W', 'A', 'D', '3'}:
	default:
		return header{}, errors.Wrapf(ErrInvalidFormat, "magic %q", h.M[:])
	}
	var d [2]int32
	if err := r.ReadInt32s(d[:]); err != nil {
		return header{}, errors.Wrap(err, "read directory location")
	}
	h.EntryCount, h.DirOffset = d[0], d[1]
	if h.EntryCount < 0 || h.DirOffset < 0 {
		return header{}, errors.Wrapf(ErrInvalidFormat, "directory %d entries at %d", h.EntryCount, h.DirOffset)
	}
	return h, nil
}

// Decode reads the directory of the archive in r and all paletted textures.
// Only a bad magic or a failure to read the directory is an error, textures
// that fail to decode are skipped.
func Decode(r io.ReadSeeker) (*Archive, error) {
	br := binread.NewReader(r)
	h, err := readHeader(br)
	if err != nil {
		return nil, err
	}
	a := &Archive{
		Version:  Version(h.M[3] - '0'),
		Textures: make(map[string]*bsp.Texture),
	}
	if err := br.Seek(int64(h.DirOffset)); err != nil {
		return nil, errors.Wrap(err, "seek to directory")
	}
	a.Entries = make([]Entry, 0, min(int(h.EntryCount), 1<<12))
	for i := 0; i < int(h.EntryCount); i++ {
		var l lump
		if err := br.Read(&l); err != nil {
			return nil, errors.Wrapf(err, "read directory entry %d", i)
		}
		a.Entries = append(a.Entries, Entry{
			Name:       bsp.CString(l.Name[:]),
			Offset:     l.Offset,
			DiskSize:   l.DiskSize,
			Size:       l.Size,
			Type:       l.Typ,
			Compressed: l.Compression != 0,
		})
	}
	for i := range a.Entries {
		e := &a.Entries[i]
		if !e.isTexture() {
			continue
		}
		t, err := bsp.DecodeTexture(br, int64(e.Offset))
		if err != nil {
			conlog.Warn("skipping wad entry", "entry", e.Name, "error", err)
			continue
		}
		a.Textures[e.Name] = &t
	}
	conlog.Debug("decoded wad", "version", a.Version, "entries", len(a.Entries), "textures", len(a.Textures))
	return a, nil
}
