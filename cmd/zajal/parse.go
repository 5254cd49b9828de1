package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"zajal/internal/ast"
	"zajal/internal/reload"
)

var parseCmd = &cobra.Command{
	Use:   "parse <sketch.zj>",
	Short: "Print the structural tree of a sketch",
	Args:  cobra.ExactArgs(1),
	RunE:  parseSketch,
}

func init() {
	parseCmd.Flags().Bool("globalized", false, "print the globalized source text instead of the tree")
}

func parseSketch(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	showText, err := cmd.Flags().GetBool("globalized")
	if err != nil {
		return fmt.Errorf("failed to get globalized flag: %w", err)
	}

	v, perr := reload.ParseVersion(args[0], string(data))
	if perr != nil {
		if serr, ok := perr.(*reload.SyntaxError); ok {
			for _, msg := range serr.Messages() {
				fmt.Fprintln(os.Stderr, msg)
			}
			return fmt.Errorf("%s failed to parse", args[0])
		}
		return perr
	}

	if showText {
		fmt.Print(v.Text)
		if len(v.Text) > 0 && v.Text[len(v.Text)-1] != '\n' {
			fmt.Println()
		}
		return nil
	}
	fmt.Print(ast.Dump(v.Pos))
	return nil
}
