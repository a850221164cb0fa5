// figment - procedural character generator
// Generates rigged, animated low-poly characters (humanoids,
// creatures, monsters, mechs) and exports them to glTF/GLB, OBJ, or a
// Blender-tuned GLB, with a terminal wireframe preview.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/figment3d/figment/pkg/export"
	"github.com/figment3d/figment/pkg/generate"
	"github.com/figment3d/figment/pkg/model"
	"github.com/figment3d/figment/pkg/plugin"
	"github.com/figment3d/figment/pkg/preview"
)

var verbose bool

func main() {
	root := newRootCmd()
	if err := fang.Execute(context.Background(), root); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "figment",
		Short: "Procedural character generator",
		Long: "figment generates rigged, animated low-poly characters from\n" +
			"presets and exports them to glTF/GLB, OBJ, or Blender-tuned GLB.",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newGenerateCmd(), newPresetsCmd(), newPreviewCmd())
	return root
}

// presetFlags are shared by the generate and preview commands.
type presetFlags struct {
	kind       string
	preset     string
	presetFile string
	seed       int64
	anims      []string
	noTexture  bool
}

func (f *presetFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.kind, "kind", "k", generate.KindHumanoid,
		"character kind ("+strings.Join(generate.Kinds(), "|")+")")
	cmd.Flags().StringVarP(&f.preset, "preset", "p", "", "builtin preset name")
	cmd.Flags().StringVar(&f.presetFile, "preset-file", "", "TOML preset file")
	cmd.Flags().Int64VarP(&f.seed, "seed", "s", 0, "override the preset seed")
	cmd.Flags().StringSliceVar(&f.anims, "anims", nil, "override the preset's animation clips")
	cmd.Flags().BoolVar(&f.noTexture, "no-texture", false, "skip texture baking")
}

// resolve builds the effective preset from flags: an explicit file
// wins over a named builtin, which wins over the kind's default.
func (f *presetFlags) resolve(cmd *cobra.Command) (generate.Preset, error) {
	var p generate.Preset
	var err error

	switch {
	case f.presetFile != "":
		p, err = generate.LoadPresetFile(f.presetFile)
	case f.preset != "":
		p, err = generate.LookupPreset(f.preset)
	default:
		p, err = generate.DefaultPresetFor(f.kind)
	}
	if err != nil {
		return generate.Preset{}, err
	}

	if cmd.Flags().Changed("seed") {
		p.Seed = f.seed
	}
	if cmd.Flags().Changed("anims") {
		p.Animations = f.anims
	}
	if f.noTexture {
		p.Texture.Pattern = ""
	}
	return p, nil
}

// generateCharacter runs the plugin-registered generator for a preset.
func generateCharacter(ctx context.Context, p generate.Preset) (*generatedResult, error) {
	manager := plugin.NewManager()
	if err := generate.RegisterGenerators(manager); err != nil {
		return nil, err
	}
	if err := manager.InitAll(ctx); err != nil {
		return nil, err
	}

	gen, err := generate.GeneratorFrom(manager, p.Kind)
	if err != nil {
		return nil, err
	}

	slog.Debug("generating character", "preset", p.Name, "kind", p.Kind, "seed", p.Seed)
	c, err := gen.Generate(p)
	if err != nil {
		return nil, err
	}
	return &generatedResult{character: c, manager: manager}, nil
}

type generatedResult struct {
	character *model.Character
	manager   *plugin.Manager
}

func newGenerateCmd() *cobra.Command {
	var flags presetFlags
	var format, out string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a character and export it",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := flags.resolve(cmd)
			if err != nil {
				return err
			}

			res, err := generateCharacter(cmd.Context(), p)
			if err != nil {
				return err
			}
			defer res.manager.DestroyAll(cmd.Context())
			c := res.character

			if out == "" {
				ext := ".glb"
				if format == "gltf" {
					ext = ".gltf"
				} else if format == "obj" {
					ext = ".obj"
				}
				out = p.Name + ext
			}

			switch effectiveFormat(format, out) {
			case "blender":
				err = export.BlenderGLB(c, out)
			case "obj":
				err = export.OBJ(c, out)
			default:
				err = export.GLTF(c, out)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d vertices, %d triangles, %d bones, %d clips)\n",
				out, c.Mesh.VertexCount(), c.Mesh.TriangleCount(), c.Skeleton.Len(), len(c.Clips))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "", "export format (glb|gltf|obj|blender); default from --out extension")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path")
	return cmd
}

// effectiveFormat picks the export format from the flag, falling back
// to the output extension.
func effectiveFormat(format, out string) string {
	if format != "" {
		return format
	}
	switch strings.ToLower(filepath.Ext(out)) {
	case ".obj":
		return "obj"
	case ".gltf":
		return "gltf"
	default:
		return "glb"
	}
}

func newPresetsCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, "builtin presets:")
			for _, name := range generate.PresetNames() {
				p, err := generate.LookupPreset(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "  %-10s %s (seed %d)\n", name, p.Kind, p.Seed)
			}

			if dir == "" {
				return nil
			}

			matches, err := filepath.Glob(filepath.Join(dir, "*.toml"))
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "presets in %s:\n", dir)
			for _, path := range matches {
				p, err := generate.LoadPresetFile(path)
				if err != nil {
					slog.Warn("skipping preset file", "path", path, "err", err)
					continue
				}
				fmt.Fprintf(w, "  %-10s %s (%s)\n", p.Name, p.Kind, filepath.Base(path))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "also list TOML presets from a directory")
	return cmd
}

func newPreviewCmd() *cobra.Command {
	var flags presetFlags
	var fps int

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Preview a character as a terminal wireframe",
		Long: "Preview renders the generated character as an animated terminal\n" +
			"wireframe.\n\n" +
			"Keys:\n" +
			"  mouse drag  rotate\n" +
			"  scroll      zoom\n" +
			"  space       random spin impulse\n" +
			"  a           next animation clip\n" +
			"  b           toggle skeleton overlay\n" +
			"  r           reset view\n" +
			"  esc         quit",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := flags.resolve(cmd)
			if err != nil {
				return err
			}

			res, err := generateCharacter(cmd.Context(), p)
			if err != nil {
				return err
			}
			defer res.manager.DestroyAll(cmd.Context())

			return preview.NewViewer(res.character, fps).Run(cmd.Context())
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&fps, "fps", 30, "target frame rate")
	return cmd
}
