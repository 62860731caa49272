package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/smasonuk/gosubdiv"
)

func main() {
	cmd := newRootCmd(os.Stderr)
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(logOut io.Writer) *cobra.Command {
	var (
		configPath string
		format     string
		debug      bool
	)

	cmd := &cobra.Command{
		Use:   "gosubdiv [input] [output-prefix] [target]",
		Short: "Subdivide a triangle mesh until it reaches a target triangle count",
		Long: "Repeatedly splits every triangle into four until the mesh has at least\n" +
			"target triangles, writing <output-prefix>_<triangles>.<ext> after every round.",
		Args:         cobra.MaximumNArgs(3),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var cfg Config
			if configPath != "" {
				var err error
				if cfg, err = loadConfig(configPath); err != nil {
					return err
				}
			}

			if len(args) > 0 {
				cfg.Input = args[0]
			}
			if len(args) > 1 {
				cfg.Output = args[1]
			}
			if len(args) > 2 {
				target, err := strconv.Atoi(args[2])
				if err != nil {
					return fmt.Errorf("target must be an integer: %w", err)
				}
				cfg.Target = target
			}
			if cmd.Flags().Changed("format") {
				cfg.Format = format
			}
			if cmd.Flags().Changed("debug") {
				cfg.Debug = debug
			}

			if err := cfg.validate(); err != nil {
				return err
			}
			return run(cfg, newLogger(logOut, cfg.Debug))
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML file with input, output, target, format and debug")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: obj, ply, stl or dxf (default: obj)")
	cmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")
	return cmd
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func run(cfg Config, log *slog.Logger) error {
	format, err := cfg.outputFormat()
	if err != nil {
		return err
	}

	mesh, err := gosubdiv.LoadFile(cfg.Input)
	if err != nil {
		log.Error("mesh import failed", "path", cfg.Input, "err", err)
		return err
	}
	log.Info("mesh imported",
		"path", cfg.Input,
		"vertices", mesh.VertexCount(),
		"triangles", mesh.FaceCount())

	refiner := &gosubdiv.Refiner{Target: cfg.Target, Logger: log}
	final, rounds, err := refiner.Run(mesh, func(m *gosubdiv.Mesh, triangles int) error {
		name := gosubdiv.OutputName(cfg.Output, triangles, format)
		if err := gosubdiv.SaveFileAs(name, m, format); err != nil {
			return err
		}
		ext := m.Extents()
		log.Info("mesh saved",
			"path", name,
			"triangles", triangles,
			"vertices", m.VertexCount(),
			"size", fmt.Sprintf("%.2f x %.2f x %.2f", ext.X(), ext.Y(), ext.Z()))
		return nil
	})
	if err != nil {
		log.Error("refinement failed", "rounds", rounds, "err", err)
		return err
	}

	log.Info("refinement finished",
		"rounds", rounds,
		"triangles", final.FaceCount(),
		"target", cfg.Target)
	return nil
}
