// Package importer moves characters from external roster files into a
// storage.CharacterStore.
package importer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/spellbook/internal/storage"
)

// Options controls how Run treats characters already in the store.
type Options struct {
	// Overwrite replaces stored characters with the same id; otherwise they are skipped.
	Overwrite bool
	// DryRun converts and validates without saving.
	DryRun bool
}

// Report summarises one Run.
type Report struct {
	Imported []string
	Skipped  []string
	Warnings int
}

// Importer orchestrates a roster import from a Source into a store.
type Importer struct {
	source Source
	store  storage.CharacterStore
	logger *zap.Logger
}

// New constructs an Importer.
//
// Precondition: source and store must be non-nil.
// Postcondition: returns a non-nil Importer.
func New(source Source, store storage.CharacterStore, logger *zap.Logger) *Importer {
	return &Importer{source: source, store: store, logger: logger.Named("importer")}
}

// Run loads path, validates each character and saves it.
//
// Precondition: path must satisfy the source's format.
// Postcondition: every character in Report.Imported was saved (unless DryRun);
// the first validation or store failure aborts the run.
func (imp *Importer) Run(ctx context.Context, path string, opts Options) (Report, error) {
	overall := time.Now()
	var report Report

	results, err := imp.source.Load(path)
	if err != nil {
		return report, fmt.Errorf("loading source: %w", err)
	}
	imp.logger.Info("roster loaded", zap.String("path", path), zap.Int("characters", len(results)))

	for _, r := range results {
		c := r.Character
		for _, w := range r.Warnings {
			imp.logger.Warn("import repair", zap.String("character", c.ID), zap.String("detail", w))
		}
		report.Warnings += len(r.Warnings)

		if err := c.Validate(); err != nil {
			return report, fmt.Errorf("character %q failed validation: %w", c.ID, err)
		}

		if !opts.Overwrite {
			_, err := imp.store.Get(ctx, c.ID)
			switch {
			case err == nil:
				imp.logger.Info("skipping existing character", zap.String("character", c.ID))
				report.Skipped = append(report.Skipped, c.ID)
				continue
			case !errors.Is(err, storage.ErrCharacterNotFound):
				return report, fmt.Errorf("checking character %q: %w", c.ID, err)
			}
		}

		if !opts.DryRun {
			if err := imp.store.Save(ctx, c); err != nil {
				return report, fmt.Errorf("saving character %q: %w", c.ID, err)
			}
		}
		report.Imported = append(report.Imported, c.ID)
		imp.logger.Debug("imported character",
			zap.String("character", c.ID),
			zap.String("class", c.Class),
			zap.Int("level", c.Level),
		)
	}

	imp.logger.Info("import finished",
		zap.Int("imported", len(report.Imported)),
		zap.Int("skipped", len(report.Skipped)),
		zap.Int("warnings", report.Warnings),
		zap.Duration("elapsed", time.Since(overall).Round(time.Millisecond)),
		zap.Bool("dry_run", opts.DryRun),
	)
	return report, nil
}
