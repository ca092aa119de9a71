// Package main is the spellbook command line: character creation, one-shot
// sheet operations and an interactive session.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cory-johannsen/spellbook/internal/errors"
)

var (
	configPath string
	assumeYes  bool
)

var rootCmd = &cobra.Command{
	Use:   "spellbook",
	Short: "D&D character sheet, spellcasting and resource tracker",
	Long: `spellbook creates characters from the class tables, tracks hit points,
spell slots, abilities and items, and resolves casts, rests and checks.
Every operation is loaded from and saved back to the configured store.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", errors.GetMessage(err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "configs/dev.yaml", "path to configuration file")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "answer yes to confirmation prompts")

	rootCmd.AddCommand(createCmd, listCmd, deleteCmd, importCmd, playCmd, serveCmd, logCmd)
	for _, cmd := range sheetCommands() {
		rootCmd.AddCommand(cmd)
	}
}
