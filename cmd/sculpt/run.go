package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Faultbox/claymesh/internal/host"
	"github.com/Faultbox/claymesh/internal/logger"
	"github.com/Faultbox/claymesh/internal/mesh"
	"github.com/Faultbox/claymesh/internal/meshio"
	"github.com/Faultbox/claymesh/internal/sculpt"
)

var runOut string

var runCmd = &cobra.Command{
	Use:   "run <mesh.obj> <script.yaml>",
	Short: "Replay a stroke script on a mesh",
	Long:  "Load a mesh, replay the strokes in a YAML script against it and write the sculpted result.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return replay(args[0], args[1], outputPath(runOut, args[0]))
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&runOut, "output", "o", "", "Output OBJ path (default <mesh>.sculpted.obj)")
}

func outputPath(flag, meshPath string) string {
	if flag != "" {
		return flag
	}
	ext := filepath.Ext(meshPath)
	return strings.TrimSuffix(meshPath, ext) + ".sculpted" + ext
}

// replay runs one script against a freshly loaded mesh and saves the result.
func replay(meshPath, scriptPath, out string) error {
	m, err := meshio.LoadOBJ(meshPath)
	if err != nil {
		return err
	}
	script, err := host.LoadScript(scriptPath)
	if err != nil {
		return err
	}

	obj := mesh.NewObject(m)
	obj.SeamEpsilon = cfg.Host.SeamEpsilon

	session := sculpt.NewSession(cfg.SessionOptions())
	driver, err := host.NewDriver(session, obj)
	if err != nil {
		return err
	}

	stats, err := script.Run(driver)
	if err != nil {
		return fmt.Errorf("running %s: %w", scriptPath, err)
	}

	if err := meshio.SaveOBJ(out, obj.Mesh); err != nil {
		return err
	}

	logger.Info("script replayed",
		zap.String("session", session.ID()),
		zap.String("script", scriptPath),
		zap.Int("strokes", stats.Strokes),
		zap.Int("steps", stats.Steps),
		zap.Int("misses", stats.Misses))
	fmt.Printf("Wrote %s: %d strokes, %d steps, %d vertex moves, %d undos\n",
		out, stats.Strokes, stats.Steps, stats.Moved, stats.Undos)
	return nil
}
