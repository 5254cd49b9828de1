package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"zajal/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "zajal",
	Short: "Zajal live-coding sketch runtime",
	Long:  `Zajal runs sketch files in a live render loop and hot-reloads them as you edit`,
}

func main() {
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Version
	rootCmd.SilenceUsage = true

	// Добавляем команды
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().Bool("verbose", false, "trace reload decisions to stderr")
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
