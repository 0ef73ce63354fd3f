// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"bytes"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"goldsrc/image"
	"goldsrc/mesh"
)

var meshCmd = &cobra.Command{
	Use:   "mesh <map.bsp>",
	Short: "Build the triangle meshes of a map model",
	Args:  cobra.ExactArgs(1),
	RunE:  runMesh,
}

func init() {
	meshCmd.Flags().Int("model", 0, "Model to build, 0 is the world")
	meshCmd.Flags().String("wad-dir", "", "Directory with wad files")
	meshCmd.Flags().String("obj", "", "Write the meshes as Wavefront OBJ to this file")
	meshCmd.Flags().String("textures", "", "Write the images the model uses as png into this directory")
	meshCmd.Flags().Bool("skip-sky", true, "Leave out sky faces")
	meshCmd.Flags().Bool("lighting", false, "Attach light samples as vertex colors")
}

func runMesh(cmd *cobra.Command, args []string) error {
	model, _ := cmd.Flags().GetInt("model")
	wadDir, _ := cmd.Flags().GetString("wad-dir")
	objFile, _ := cmd.Flags().GetString("obj")
	texDir, _ := cmd.Flags().GetString("textures")
	skipSky, _ := cmd.Flags().GetBool("skip-sky")
	lighting, _ := cmd.Flags().GetBool("lighting")

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
	mdl, err := mesh.BuildModel(m, model, table, mesh.Options{SkipSky: skipSky, Lighting: lighting})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "model %d: %d meshes, %d triangles, %d materials\n",
		model, len(mdl.Meshes), mdl.TriangleCount(), len(mdl.Materials))
	fmt.Fprintf(out, "bounds %v %v\n", mdl.Mins, mdl.Maxs)
	for _, d := range mdl.Diagnostics {
		fmt.Fprintln(out, d)
	}
	if len(mdl.MissingTextures) > 0 {
		fmt.Fprintf(out, "missing textures: %s\n", strings.Join(mdl.MissingTextures, ", "))
	}
	if texDir != "" {
		if err := writeImages(texDir, mdl); err != nil {
			return err
		}
	}
	if objFile == "" {
		return nil
	}
	f, err := os.Create(objFile)
	if err != nil {
		return err
	}
	if err := mesh.WriteOBJ(f, mdl); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// writeImages writes every distinct image of mdl once, oldest first.
func writeImages(dir string, mdl *mesh.Model) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	ids := make([]uuid.UUID, 0, len(mdl.Images))
	for id := range mdl.Images {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b uuid.UUID) int { return bytes.Compare(a[:], b[:]) })
	for _, id := range ids {
		img := mdl.Images[id]
		if err := image.WriteFile(image.FileName(dir, img.Name), img); err != nil {
			return err
		}
	}
	return nil
}
