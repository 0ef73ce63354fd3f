// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"goldsrc/bsp"
	"goldsrc/math/vec"
)

var decodeCmd = &cobra.Command{
	Use:   "decode <map.bsp>",
	Short: "Print a summary of a map",
	Args:  cobra.ExactArgs(1),
	RunE:  runDecode,
}

func init() {
	decodeCmd.Flags().Bool("json", false, "Print the summary as json")
}

func runDecode(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	in, err := newInput(cmd)
	if err != nil {
		return err
	}
	defer in.Close()
	m, err := in.decodeMap(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if asJSON {
		return writeSummaryJSON(out, m)
	}
	fmt.Fprint(out, m)
	for i, mdl := range m.Models {
		fmt.Fprintf(out, "model %d: %d faces, bounds %v %v\n", i, mdl.FaceCount, mdl.Mins, mdl.Maxs)
	}
	for i := range m.Textures {
		t := &m.Textures[i]
		where := "wad"
		if t.Embedded() {
			where = "embedded"
		}
		fmt.Fprintf(out, "texture %d: %q %dx%d %s\n", i, t.Name(), t.Width, t.Height, where)
	}
	if ws, ok := m.Worldspawn(); ok {
		if w, ok := ws.Property("wad"); ok {
			fmt.Fprintf(out, "wads: %s\n", w)
		}
	}
	return nil
}

func vecList(v vec.Vec3) []any {
	return []any{float64(v.X), float64(v.Y), float64(v.Z)}
}

// summary is the json form of a map. structpb only takes plain maps and
// slices of any.
func summary(m *bsp.GoldSrc30) map[string]any {
	lumps := map[string]any{
		bsp.LumpEntities.String():     len(m.Entities),
		bsp.LumpPlanes.String():       len(m.Planes),
		bsp.LumpTextures.String():     len(m.Textures),
		bsp.LumpVertices.String():     len(m.Vertices),
		bsp.LumpVisibility.String():   len(m.Visibility),
		bsp.LumpNodes.String():        len(m.Nodes),
		bsp.LumpTexInfo.String():      len(m.TexInfos),
		bsp.LumpFaces.String():        len(m.Faces),
		bsp.LumpLighting.String():     len(m.Lighting),
		bsp.LumpClipNodes.String():    len(m.ClipNodes),
		bsp.LumpLeaves.String():       len(m.Leaves),
		bsp.LumpMarkSurfaces.String(): len(m.MarkSurfaces),
		bsp.LumpEdges.String():        len(m.Edges),
		bsp.LumpSurfEdges.String():    len(m.SurfEdges),
		bsp.LumpModels.String():       len(m.Models),
	}
	models := make([]any, 0, len(m.Models))
	for _, mdl := range m.Models {
		models = append(models, map[string]any{
			"mins":      vecList(mdl.Mins),
			"maxs":      vecList(mdl.Maxs),
			"origin":    vecList(mdl.Origin),
			"firstFace": int(mdl.FirstFace),
			"faceCount": int(mdl.FaceCount),
		})
	}
	textures := make([]any, 0, len(m.Textures))
	for i := range m.Textures {
		t := &m.Textures[i]
		textures = append(textures, map[string]any{
			"name":     t.Name(),
			"width":    int(t.Width),
			"height":   int(t.Height),
			"embedded": t.Embedded(),
		})
	}
	classes := map[string]any{}
	for _, e := range m.Entities {
		c, _ := e.ClassName()
		n, _ := classes[c].(int)
		classes[c] = n + 1
	}
	names := make([]string, 0, len(classes))
	for c := range classes {
		names = append(names, c)
	}
	slices.Sort(names)
	classNames := make([]any, len(names))
	for i, n := range names {
		classNames[i] = n
	}
	return map[string]any{
		"version":    m.Version().String(),
		"lumps":      lumps,
		"models":     models,
		"textures":   textures,
		"entities":   classes,
		"classnames": classNames,
	}
}

func writeSummaryJSON(w io.Writer, m *bsp.GoldSrc30) error {
	s, err := structpb.NewStruct(summary(m))
	if err != nil {
		return err
	}
	b, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(s)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
