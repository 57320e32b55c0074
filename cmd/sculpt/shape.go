package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Faultbox/claymesh/internal/logger"
	"github.com/Faultbox/claymesh/internal/meshio"
	"github.com/Faultbox/claymesh/internal/shapes"
)

var (
	shapeOut   string
	shapeSize  float32
	shapeCells int
)

var shapeCmd = &cobra.Command{
	Use:   "shape <kind>",
	Short: "Generate a primitive mesh to sculpt",
	Long:  "Generate a welded primitive (" + strings.Join(shapes.Kinds(), ", ") + ") centred on the origin and write it as OBJ.",
	Args:  cobra.ExactArgs(1),
	RunE:  runShape,
}

func init() {
	rootCmd.AddCommand(shapeCmd)

	shapeCmd.Flags().StringVarP(&shapeOut, "output", "o", "", "Output OBJ path (default <kind>.obj)")
	shapeCmd.Flags().Float32Var(&shapeSize, "size", 1, "Diameter or edge length")
	shapeCmd.Flags().IntVar(&shapeCells, "cells", 0, "Tessellation cells along the longest axis (default from config)")
}

func runShape(cmd *cobra.Command, args []string) error {
	kind := args[0]

	opts := shapes.Options{Cells: cfg.Host.ShapeCells, WeldEpsilon: cfg.Host.WeldEpsilon}
	if shapeCells > 0 {
		opts.Cells = shapeCells
	}

	m, err := shapes.New(kind, shapeSize, opts)
	if err != nil {
		return err
	}

	out := shapeOut
	if out == "" {
		out = strings.ToLower(kind) + ".obj"
	}
	if err := meshio.SaveOBJ(out, m); err != nil {
		return err
	}

	logger.Info("shape written", zap.String("path", out), zap.Int("vertices", m.VertexCount()))
	fmt.Printf("Wrote %s: %d vertices, %d triangles\n", out, m.VertexCount(), m.TriangleCount())
	return nil
}
