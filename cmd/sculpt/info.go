package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Faultbox/claymesh/internal/mesh"
	"github.com/Faultbox/claymesh/internal/meshio"
	"github.com/Faultbox/claymesh/pkg/math"
)

var infoCmd = &cobra.Command{
	Use:   "info <file.obj>",
	Short: "Display information about a mesh",
	Long:  "Show vertex and triangle counts, bounds and how many vertices welding would merge.",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	filename := args[0]

	m, err := meshio.LoadOBJ(filename)
	if err != nil {
		return err
	}

	welded, _ := mesh.Weld(m.Positions, m.Indices, cfg.Host.WeldEpsilon)
	size := m.Bounds.Size()

	fmt.Println("Mesh Information")
	fmt.Println("================")
	fmt.Printf("Name: %s\n", m.Name)
	fmt.Printf("File: %s\n\n", filename)

	fmt.Println("Geometry:")
	fmt.Printf("  Vertices: %d\n", m.VertexCount())
	fmt.Printf("  Triangles: %d\n", m.TriangleCount())
	fmt.Printf("  UVs: %t\n", len(m.UVs) == m.VertexCount())
	fmt.Printf("  Weldable duplicates: %d\n\n", m.VertexCount()-len(welded))

	fmt.Println("Bounding Box:")
	fmt.Printf("  Min: %s\n", formatVec(m.Bounds.Min))
	fmt.Printf("  Max: %s\n", formatVec(m.Bounds.Max))
	fmt.Printf("  Center: %s\n", formatVec(m.Bounds.Center()))
	fmt.Printf("  Size: %s\n", formatVec(size))
	return nil
}

func formatVec(v math.Vec3) string {
	return fmt.Sprintf("(%.4f, %.4f, %.4f)", v.X, v.Y, v.Z)
}
