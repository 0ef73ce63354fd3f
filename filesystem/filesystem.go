// SPDX-License-Identifier: GPL-2.0-or-later

// Package filesystem looks up files in a game directory and the pack files
// inside it, the way the engine resolves map and wad names.
package filesystem

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pkg/errors"

	"goldsrc/conlog"
	"goldsrc/pack"
)

type File interface {
	io.ReadSeekCloser
	io.ReaderAt
}

// layer is one entry of the search path.
type layer interface {
	Open(name string) (File, error)
	Names() []string
	String() string
}

type dirLayer string

func (d dirLayer) Open(name string) (File, error) {
	f, err := os.Open(filepath.Join(string(d), filepath.FromSlash(name)))
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (d dirLayer) Names() []string {
	var names []string
	root := string(d)
	filepath.WalkDir(root, func(p string, e fs.DirEntry, err error) error {
		if err != nil || e.IsDir() {
			return nil
		}
		if rel, err := filepath.Rel(root, p); err == nil {
			names = append(names, filepath.ToSlash(rel))
		}
		return nil
	})
	return names
}

func (d dirLayer) String() string {
	return string(d)
}

type packLayer struct {
	p *pack.Pack
}

type closer struct {
	*io.SectionReader
}

func (*closer) Close() error {
	return nil
}

func (p packLayer) Open(name string) (File, error) {
	// inside a pack file there is no 'root'. all files are relative to '.'
	f, err := p.p.Open(strings.TrimPrefix(name, "/"))
	if err != nil {
		return nil, err
	}
	return &closer{f}, nil
}

func (p packLayer) Names() []string {
	return p.p.Names()
}

func (p packLayer) String() string {
	return p.p.String()
}

// FileSystem is an ordered search path. Later additions shadow earlier ones.
type FileSystem struct {
	layers []layer // highest priority first
	packs  []*pack.Pack
}

func New() *FileSystem {
	return &FileSystem{}
}

func (fsys *FileSystem) push(l layer) {
	fsys.layers = slices.Insert(fsys.layers, 0, l)
}

// AddPack puts p in front of the search path. Close closes it.
func (fsys *FileSystem) AddPack(p *pack.Pack) {
	fsys.push(packLayer{p})
	fsys.packs = append(fsys.packs, p)
}

// AddGameDir puts dir and its pak0.pak, pak1.pak, ... in front of the search
// path. Higher numbered packs win over lower ones and all packs win over
// loose files.
func (fsys *FileSystem) AddGameDir(dir string) error {
	fi, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !fi.IsDir() {
		return errors.Errorf("%s is not a directory", dir)
	}
	fsys.push(dirLayer(dir))
	for i := 0; ; i++ {
		pfp := filepath.Join(dir, fmt.Sprintf("pak%d.pak", i))
		p, err := pack.OpenFile(pfp)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				conlog.Warn("skipping pack", "pack", pfp, "error", err)
			}
			break
		}
		fsys.AddPack(p)
	}
	conlog.Debug("added game dir", "dir", dir, "layers", len(fsys.layers))
	return nil
}

// Open returns the first file called name along the search path. Names use
// forward slashes.
func (fsys *FileSystem) Open(name string) (File, error) {
	name = path.Clean(strings.TrimPrefix(filepath.ToSlash(name), "/"))
	var err error
	for _, l := range fsys.layers {
		f, err1 := l.Open(name)
		if err1 == nil {
			return f, nil
		}
		// not exist errors of one layer must not mask real errors of another
		if err == nil || errors.Is(err, os.ErrNotExist) {
			err = err1
		}
	}
	if err == nil {
		err = &os.PathError{Op: "open", Path: name, Err: os.ErrNotExist}
	}
	return nil, err
}

func (fsys *FileSystem) ReadFile(name string) ([]byte, error) {
	file, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

// Names returns the sorted names with extension ext (case insensitive) over
// all layers. An empty ext matches every file.
func (fsys *FileSystem) Names(ext string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, l := range fsys.layers {
		for _, n := range l.Names() {
			if seen[n] || (ext != "" && !strings.EqualFold(Ext(n), ext)) {
				continue
			}
			seen[n] = true
			names = append(names, n)
		}
	}
	slices.Sort(names)
	return names
}

func (fsys *FileSystem) String() string {
	s := make([]string, len(fsys.layers))
	for i, l := range fsys.layers {
		s[i] = l.String()
	}
	return strings.Join(s, ";")
}

// Close closes all packs opened through the search path.
func (fsys *FileSystem) Close() error {
	var first error
	for _, p := range fsys.packs {
		if err := p.Close(); err != nil && first == nil {
			first = err
		}
	}
	fsys.packs = nil
	fsys.layers = nil
	return first
}

func isSep(c uint8) bool {
	return c == '/' || c == '\\'
}

func Ext(path string) string {
	for i := len(path) - 1; i >= 0 && !isSep(path[i]); i-- {
		if path[i] == '.' {
			return path[i:]
		}
	}
	return ""
}
