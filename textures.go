// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"goldsrc/bsp"
	"goldsrc/image"
	"goldsrc/palette"
	"goldsrc/wad"
)

var wadCmd = &cobra.Command{
	Use:   "wad <file.wad>",
	Short: "List the textures of a wad",
	Args:  cobra.ExactArgs(1),
	RunE:  runWad,
}

var texturesCmd = &cobra.Command{
	Use:   "textures <map.bsp>",
	Short: "Export the textures of a map as png",
	Long: `Export every texture a map uses as png. Textures that are not part of
the map are looked up in the wad files of --wad-dir, or in the wad files
found along --game and --pak. Textures found nowhere are listed at the end.`,
	Args: cobra.ExactArgs(1),
	RunE: runTextures,
}

func init() {
	texturesCmd.Flags().StringP("out", "o", ".", "Output directory")
	texturesCmd.Flags().String("wad-dir", "", "Directory with wad files")
	texturesCmd.Flags().Bool("fix-edges", false, "Bleed color into transparent pixels")
}

func runWad(cmd *cobra.Command, args []string) error {
	in, err := newInput(cmd)
	if err != nil {
		return err
	}
	defer in.Close()
	f, err := in.open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()
	a, err := wad.Decode(f)
	if err != nil {
		return errors.Wrapf(err, "decode %s", args[0])
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s, %d entries, %d textures\n", a.Version, len(a.Entries), len(a.Textures))
	for _, n := range a.TextureNames() {
		t := a.Textures[n]
		fmt.Fprintf(out, "%-16s %4dx%d\n", n, t.Width, t.Height)
	}
	return nil
}

func runTextures(cmd *cobra.Command, args []string) error {
	outDir, _ := cmd.Flags().GetString("out")
	wadDir, _ := cmd.Flags().GetString("wad-dir")
	fixEdges, _ := cmd.Flags().GetBool("fix-edges")

	in, err := newInput(cmd)
	if err != nil {
		return err
	}
	defer in.Close()
	m, err := in.decodeMap(args[0])
	if err != nil {
		return err
	}
	table, err := in.wadTable(cmd.Context(), wadDir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var missing []string
	written := 0
	for i := range m.Textures {
		t := &m.Textures[i]
		if t.Name() == "" {
			continue
		}
		src := t
		if !t.Embedded() {
			wt, ok := table.Lookup(t.Name())
			if !ok {
				missing = append(missing, t.Name())
				continue
			}
			src = wt
		}
		if err := writeTexture(outDir, src, fixEdges); err != nil {
			fmt.Fprintf(out, "%s: %v\n", t.Name(), err)
			continue
		}
		written++
	}
	fmt.Fprintf(out, "wrote %d of %d textures to %s\n", written, len(m.Textures), outDir)
	if len(missing) > 0 {
		fmt.Fprintf(out, "missing textures: %s\n", strings.Join(missing, ", "))
	}
	return nil
}

func writeTexture(dir string, t *bsp.Texture, fixEdges bool) error {
	img, err := palette.Materialize(t)
	if err != nil {
		return err
	}
	if fixEdges && img.Transparent {
		img.FixAlphaEdges()
	}
	return image.WriteFile(image.FileName(dir, img.Name), img)
}
