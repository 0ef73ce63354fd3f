// SPDX-License-Identifier: GPL-2.0-or-later

// Package pack reads PAK archives, the container mods ship maps and wads in.
package pack

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"slices"

	"github.com/pkg/errors"

	"goldsrc/conlog"
)

var ErrNotPack = errors.New("not a pack")

type header struct {
	ID     [4]byte
	Offset int32
	Size   int32
}

type entry struct {
	Name   [56]byte
	Offset int32
	Size   int32
}

const entrySize = 64

type Pack struct {
	r     io.ReaderAt
	c     io.Closer
	files map[string]*qfile
	name  string
}

type qfile struct {
	offset int64
	size   int64
}

// Open returns a reader for the member name or os.ErrNotExist.
func (p *Pack) Open(name string) (*io.SectionReader, error) {
	q, ok := p.files[name]
	if !ok {
		return nil, errors.Wrapf(os.ErrNotExist, "%s in %s", name, p.name)
	}
	return io.NewSectionReader(p.r, q.offset, q.size), nil
}

// Names returns the member names sorted.
func (p *Pack) Names() []string {
	n := make([]string, 0, len(p.files))
	for k := range p.files {
		n = append(n, k)
	}
	slices.Sort(n)
	return n
}

func (p *Pack) String() string {
	return p.name
}

// Close closes the underlying file if the pack was opened with OpenFile.
func (p *Pack) Close() error {
	if p.c == nil {
		return nil
	}
	return p.c.Close()
}

func (p *Pack) init(size int64) error {
	var h header
	if err := binary.Read(io.NewSectionReader(p.r, 0, 12), binary.LittleEndian, &h); err != nil {
		return errors.Wrap(err, "read header")
	}
	if !bytes.Equal([]byte("PACK"), h.ID[:]) {
		return errors.Wrapf(ErrNotPack, "%s", p.name)
	}
	if h.Offset < 0 || h.Size < 0 || int64(h.Offset)+int64(h.Size) > size {
		return errors.Errorf("%s: directory [%d,+%d) outside of %d bytes", p.name, h.Offset, h.Size, size)
	}
	dir := io.NewSectionReader(p.r, int64(h.Offset), int64(h.Size))
	filenum := h.Size / entrySize
	p.files = make(map[string]*qfile, filenum)
	for i := int32(0); i < filenum; i++ {
		var e entry
		if err := binary.Read(dir, binary.LittleEndian, &e); err != nil {
			return errors.Wrapf(err, "read entry %d", i)
		}
		n := bytes.IndexByte(e.Name[:], 0)
		if n < 0 {
			n = len(e.Name)
		}
		name := string(e.Name[:n])
		if p.files[name] != nil {
			return errors.Errorf("%s: %s is not unique", p.name, name)
		}
		if e.Offset < 0 || e.Size < 0 || int64(e.Offset)+int64(e.Size) > size {
			return errors.Errorf("%s: %s outside of the pack", p.name, name)
		}
		p.files[name] = &qfile{
			offset: int64(e.Offset),
			size:   int64(e.Size),
		}
	}
	conlog.Debug("opened pack", "pack", p.name, "files", len(p.files))
	return nil
}

// NewReader reads the directory of the size bytes long pack in r.
func NewReader(r io.ReaderAt, size int64, name string) (*Pack, error) {
	p := &Pack{r: r, name: name}
	if err := p.init(size); err != nil {
		return nil, err
	}
	return p, nil
}

// OpenFile opens the pack file name. Close releases the file.
func OpenFile(name string) (*Pack, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	p, err := NewReader(f, fi.Size(), name)
	if err != nil {
		f.Close()
		return nil, err
	}
	p.c = f
	return p, nil
}
