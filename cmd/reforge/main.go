package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"reforge/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "reforge",
	Short: "Interactive refactoring tool",
	Long:  `Reforge serves editor-driven refactoring sessions over a line protocol`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return applyColorMode(cmd)
	},
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(interactCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics per compiler run")
	rootCmd.PersistentFlags().String("trace", "", "trace destination (stderr or a file path)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace verbosity (off|session|detail|debug)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func applyColorMode(cmd *cobra.Command) error {
	mode, err := readColorMode(cmd)
	if err != nil {
		return err
	}
	switch mode {
	case colorModeOn:
		color.NoColor = false
	case colorModeOff:
		color.NoColor = true
	default:
		color.NoColor = !isTerminal(os.Stdout)
	}
	return nil
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
