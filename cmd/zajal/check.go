package main

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"zajal/internal/reload"
)

var checkCmd = &cobra.Command{
	Use:   "check <sketch.zj>...",
	Short: "Syntax-check sketch files without running them",
	Long:  `Parse each sketch (after globalization, exactly as the runtime would) and report syntax errors`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  checkSketches,
}

func checkSketches(cmd *cobra.Command, args []string) error {
	var (
		mu       sync.Mutex
		failures []string
	)

	g, _ := errgroup.WithContext(cmd.Context())
	g.SetLimit(4)
	for _, path := range args {
		path := path
		g.Go(func() error {
			data, err := os.ReadFile(path)
			if err != nil {
				mu.Lock()
				failures = append(failures, fmt.Sprintf("%s: %v", path, err))
				mu.Unlock()
				return nil
			}
			if _, perr := reload.ParseVersion(path, string(data)); perr != nil {
				mu.Lock()
				if serr, ok := perr.(*reload.SyntaxError); ok {
					failures = append(failures, serr.Messages()...)
				} else {
					failures = append(failures, perr.Error())
				}
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if len(failures) > 0 {
		sort.Strings(failures)
		for _, f := range failures {
			fmt.Fprintln(os.Stderr, f)
		}
		return fmt.Errorf("%d of %d files failed", len(failures), len(args))
	}
	fmt.Printf("%d files ok\n", len(args))
	return nil
}
