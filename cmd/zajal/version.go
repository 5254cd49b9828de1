package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"zajal/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the zajal version",
	RunE:  showVersion,
}

func showVersion(cmd *cobra.Command, _ []string) error {
	colorFlag, err := cmd.Flags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	switch colorFlag {
	case "off":
		color.NoColor = true
	case "on":
		color.NoColor = false
	}

	fmt.Printf("zajal %s\n", version.Version)
	if version.GitCommit != "" {
		fmt.Printf("commit: %s\n", version.GitCommit)
	}
	if version.BuildDate != "" {
		fmt.Printf("built:  %s\n", version.BuildDate)
	}
	return nil
}
