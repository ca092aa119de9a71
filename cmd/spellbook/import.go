package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cory-johannsen/spellbook/internal/importer"
	"github.com/cory-johannsen/spellbook/internal/importer/legacy"
)

var importOpts importer.Options

var importCmd = &cobra.Command{
	Use:   "import <roster.json>",
	Short: "Import characters from a legacy JSON roster",
	Long: `Import characters saved by the earlier sheet format. The file may hold an
array of sheets or an object keyed by character id. Invalid values are
repaired and reported as warnings; existing characters are skipped unless
--overwrite is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&importOpts.Overwrite, "overwrite", false, "replace characters that already exist")
	importCmd.Flags().BoolVar(&importOpts.DryRun, "dry-run", false, "convert and validate without saving")
}

func runImport(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	start := time.Now()
	src := legacy.NewSource(a.content.Rules, a.content.Items)
	report, err := importer.New(src, a.store, a.logger).Run(cmd.Context(), args[0], importOpts)
	if err != nil {
		return err
	}
	verb := "imported"
	if importOpts.DryRun {
		verb = "would import"
	}
	fmt.Fprintf(os.Stdout, "%s %d, skipped %d, %d warning(s) in %s\n",
		verb, len(report.Imported), len(report.Skipped), report.Warnings, time.Since(start).Round(time.Millisecond))
	return nil
}
