package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"zajal/internal/frontend"
	"zajal/internal/log"
	"zajal/internal/reload"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] [sketch.zj]",
	Short: "Run a sketch in the live render loop",
	Long:  `Run a sketch file and hot-reload it on every save. Without an argument the nearest zajal.toml picks the sketch.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSketch,
}

func init() {
	runCmd.Flags().String("snapshot", "", "file to write ctrl+s frame snapshots to")
	runCmd.Flags().Int("fps", 0, "frame rate (default 30)")
	runCmd.Flags().Int("check-every", 0, "reload check cadence in frames (default 15)")
	runCmd.Flags().String("log-file", "", "append diagnostics to a file instead of stderr")
}

func runSketch(cmd *cobra.Command, args []string) error {
	if !isTerminal(os.Stdout) {
		return errors.New("zajal run needs an interactive terminal")
	}

	sketch, snapshot, fps, err := resolveSketch(args)
	if err != nil {
		return err
	}
	if flagSnap, ferr := cmd.Flags().GetString("snapshot"); ferr == nil && flagSnap != "" {
		snapshot = flagSnap
	}
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return fmt.Errorf("failed to get verbose flag: %w", err)
	}
	if flagFPS, ferr := cmd.Flags().GetInt("fps"); ferr == nil && flagFPS > 0 {
		fps = flagFPS
	}
	checkEvery, _ := cmd.Flags().GetInt("check-every")
	logFile, _ := cmd.Flags().GetString("log-file")

	logger, err := log.New(verbose, logFile)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	err = frontend.Run(frontend.Options{
		SketchPath: sketch,
		SnapPath:   snapshot,
		Logger:     logger,
		FPS:        fps,
		CheckEvery: checkEvery,
	})
	var fatal *reload.FatalError
	if errors.As(err, &fatal) {
		// исчезнувший файл скетча — немедленный выход
		fmt.Fprintln(os.Stderr, fatal.Error())
		os.Exit(1)
	}
	return err
}
