// SPDX-License-Identifier: GPL-2.0-or-later

package wad

import (
	"context"
	"io"
	"os"
	"runtime"
	"slices"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"goldsrc/bsp"
)

// Table is a read-only name to texture mapping built from several archives.
// It is safe for concurrent use.
type Table struct {
	textures map[string]*bsp.Texture
	folded   map[string]string
}

// NewTable merges the textures of the archives. Archives later in the list
// overwrite earlier ones. Textures without a size are left out.
func NewTable(archives ...*Archive) *Table {
	t := &Table{
		textures: make(map[string]*bsp.Texture),
		folded:   make(map[string]string),
	}
	for _, a := range archives {
		if a == nil {
			continue
		}
		for _, name := range a.TextureNames() {
			tex := a.Textures[name]
			if tex.Width == 0 || tex.Height == 0 {
				continue
			}
			t.textures[name] = tex
			t.folded[strings.ToLower(name)] = name
		}
	}
	return t
}

// Lookup finds a texture by its exact name, or failing that ignoring case.
// Map editors do not agree on the case of texture names.
func (t *Table) Lookup(name string) (*bsp.Texture, bool) {
	if t == nil {
		return nil, false
	}
	if tex, ok := t.textures[name]; ok {
		return tex, true
	}
	if n, ok := t.folded[strings.ToLower(name)]; ok {
		return t.textures[n], true
	}
	return nil, false
}

// Names returns all texture names sorted.
func (t *Table) Names() []string {
	if t == nil {
		return nil
	}
	n := make([]string, 0, len(t.textures))
	for k := range t.textures {
		n = append(n, k)
	}
	slices.Sort(n)
	return n
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.textures)
}

// Source is an archive to decode. Open is called once.
type Source struct {
	Name string
	Open func() (io.ReadSeekCloser, error)
}

// FileSource reads the archive from a file.
func FileSource(path string) Source {
	return Source{
		Name: path,
		Open: func() (io.ReadSeekCloser, error) {
			f, err := os.Open(path)
			if err != nil {
				return nil, err
			}
			return f, nil
		},
	}
}

type nopCloser struct {
	io.ReadSeeker
}

func (nopCloser) Close() error { return nil }

// ReaderSource reads the archive from r.
func ReaderSource(name string, r io.ReadSeeker) Source {
	return Source{
		Name: name,
		Open: func() (io.ReadSeekCloser, error) {
			return nopCloser{r}, nil
		},
	}
}

func decodeSource(s Source) (*Archive, error) {
	f, err := s.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	a, err := Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "wad %s", s.Name)
	}
	return a, nil
}

// DecodeAll decodes the sources in parallel. The results are in the order of
// sources; for every index either the archive or the error is set. One
// failing source does not stop the others.
func DecodeAll(ctx context.Context, sources []Source) ([]*Archive, []error) {
	archives := make([]*Archive, len(sources))
	errs := make([]error, len(sources))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, s := range sources {
		i, s := i, s
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			archives[i], errs[i] = decodeSource(s)
			return nil
		})
	}
	// failures are kept per source, the group never fails
	_ = g.Wait()
	return archives, errs
}
