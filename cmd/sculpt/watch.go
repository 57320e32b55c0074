package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Faultbox/claymesh/internal/config"
	"github.com/Faultbox/claymesh/internal/logger"
)

var watchOut string

var watchCmd = &cobra.Command{
	Use:   "watch <mesh.obj> <script.yaml>",
	Short: "Re-run a stroke script whenever it changes",
	Long:  "Replay the script once, then again every time the script or mesh file is saved, until interrupted.",
	Args:  cobra.ExactArgs(2),
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVarP(&watchOut, "output", "o", "", "Output OBJ path (default <mesh>.sculpted.obj)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	meshPath, scriptPath := args[0], args[1]
	out := outputPath(watchOut, meshPath)

	var mu sync.Mutex
	rerun := func(changed string) {
		mu.Lock()
		defer mu.Unlock()

		logger.Info("change detected", zap.String("file", changed))
		if err := replay(meshPath, scriptPath, out); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}

	rerun(scriptPath)

	w, err := config.NewWatcher(cfg.Host.WatchDebounce)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Watch([]string{meshPath, scriptPath}, rerun); err != nil {
		return err
	}
	w.Start()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Watching %s and %s (Ctrl+C to stop)\n", scriptPath, meshPath)
	<-ctx.Done()
	return nil
}
