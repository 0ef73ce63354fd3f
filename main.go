// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"goldsrc/bsp"
	"goldsrc/conlog"
	"goldsrc/filesystem"
	"goldsrc/pack"
	"goldsrc/wad"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "goldsrc",
	Short: "Inspect GoldSrc maps and wad files",
	Long: `goldsrc decodes Half-Life maps (bsp version 30) and WAD2/WAD3 texture
archives. It can print summaries, export textures as png and build the
triangle meshes of a map.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		conlog.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug output")
	rootCmd.PersistentFlags().String("game", "", "Game directory to search, e.g. valve")
	rootCmd.PersistentFlags().String("pak", "", "Read input files from this pak archive")
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(wadCmd)
	rootCmd.AddCommand(texturesCmd)
	rootCmd.AddCommand(meshCmd)
}

// input resolves file names. With --game or --pak names are looked up along
// the search path first, then on the file system.
type input struct {
	fs *filesystem.FileSystem
}

func newInput(cmd *cobra.Command) (*input, error) {
	game, _ := cmd.Flags().GetString("game")
	pak, _ := cmd.Flags().GetString("pak")
	in := &input{fs: filesystem.New()}
	if game != "" {
		if err := in.fs.AddGameDir(game); err != nil {
			return nil, errors.Wrap(err, "game dir")
		}
	}
	if pak != "" {
		p, err := pack.OpenFile(pak)
		if err != nil {
			in.Close()
			return nil, errors.Wrap(err, "open pak")
		}
		in.fs.AddPack(p)
	}
	return in, nil
}

func (in *input) Close() error {
	return in.fs.Close()
}

func (in *input) open(name string) (io.ReadSeekCloser, error) {
	f, err := in.fs.Open(name)
	if err == nil {
		return f, nil
	}
	of, oerr := os.Open(name)
	if oerr != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, oerr
		}
		return nil, err
	}
	return of, nil
}

func (in *input) decodeMap(name string) (*bsp.GoldSrc30, error) {
	f, err := in.open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	d, err := bsp.NewDecoder(f)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", name)
	}
	m, err := d.DecodeGoldSrc30()
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", name)
	}
	return m, nil
}

// wadSources lists the wad files in dir, or along the search path if dir is
// empty.
func (in *input) wadSources(dir string) ([]wad.Source, error) {
	var sources []wad.Source
	if dir == "" {
		for _, n := range in.fs.Names(".wad") {
			n := n
			sources = append(sources, wad.Source{
				Name: n,
				Open: func() (io.ReadSeekCloser, error) { return in.fs.Open(n) },
			})
		}
		return sources, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filesystem.Ext(e.Name()), ".wad") {
			sources = append(sources, wad.FileSource(filepath.Join(dir, e.Name())))
		}
	}
	slices.SortFunc(sources, func(a, b wad.Source) int { return strings.Compare(a.Name, b.Name) })
	return sources, nil
}

// wadTable decodes all wads found by wadSources. Archives that fail are
// logged and left out.
func (in *input) wadTable(ctx context.Context, dir string) (*wad.Table, error) {
	sources, err := in.wadSources(dir)
	if err != nil {
		return nil, err
	}
	archives, errs := wad.DecodeAll(ctx, sources)
	for i, err := range errs {
		if err != nil {
			conlog.Warn("skipping wad", "wad", sources[i].Name, "error", err)
		}
	}
	t := wad.NewTable(archives...)
	conlog.Debug("loaded wads", "wads", len(sources), "textures", t.Len())
	return t, nil
}
