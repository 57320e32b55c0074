// Command sculpt generates, inspects and sculpts meshes from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Faultbox/claymesh/internal/config"
	"github.com/Faultbox/claymesh/internal/logger"
)

var (
	cfgFlags *config.Flags
	cfg      *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "sculpt",
	Short: "Mesh sculpting engine",
	Long: `sculpt deforms triangle meshes with push, pull, pinch and smooth brushes.
Meshes are read and written as Wavefront OBJ; strokes are replayed from YAML
scripts so the same edit can be reproduced or iterated on.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFlags)
		if err != nil {
			return err
		}
		return logger.Init(cfg.Logging.Level, cfg.Logging.LogFile)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	cfgFlags = config.BindFlags(rootCmd.PersistentFlags())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
