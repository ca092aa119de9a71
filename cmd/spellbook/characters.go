package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cory-johannsen/spellbook/internal/errors"
	"github.com/cory-johannsen/spellbook/internal/game/battlelog"
	"github.com/cory-johannsen/spellbook/internal/game/character"
	"github.com/cory-johannsen/spellbook/internal/game/ruleset"
	"github.com/cory-johannsen/spellbook/internal/storage"
)

var createReq character.Request

var createCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a character",
	Long: `Create a character from its class tables. The id is derived from the name;
spells, slots, abilities and the starting kit are filled in for the level.`,
	Args: cobra.ExactArgs(1),
	RunE: runCreate,
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List stored characters",
	Args:    cobra.NoArgs,
	RunE:    runList,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <character>",
	Short: "Delete a stored character",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	f := createCmd.Flags()
	f.StringVar(&createReq.Class, "class", "", "class id, e.g. wizard")
	f.StringVar(&createReq.Subclass, "subclass", "", "subclass display name")
	f.StringVar(&createReq.Race, "race", "", "race")
	f.StringVar(&createReq.Alignment, "alignment", "", "alignment")
	f.IntVar(&createReq.Level, "level", 1, "starting level (1-20)")
	_ = createCmd.MarkFlagRequired("class")
}

func runCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	req := createReq
	req.Name = args[0]
	// Lines are held until the character row exists so sinks keyed by
	// character can accept them.
	held := battlelog.NewMemorySink()
	c, out, err := a.engine(held).Create(req)
	if err != nil {
		return err
	}
	if _, err := a.store.Get(ctx, c.ID); err == nil {
		return errors.DuplicateIDf("character %q already exists", c.ID)
	} else if !errors.Is(err, storage.ErrCharacterNotFound) {
		return err
	}
	if err := a.store.Save(ctx, c); err != nil {
		return fmt.Errorf("saving character: %w", err)
	}
	out.Publish(a.sinkFor(c.ID, os.Stdout))
	fmt.Fprintf(os.Stdout, "Created %q.\n", c.ID)
	return nil
}

func runList(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	summaries, err := a.store.List(cmd.Context())
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		fmt.Fprintln(os.Stdout, "No characters yet. Use create to add one.")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCLASS\tLEVEL\tUPDATED")
	for _, s := range summaries {
		updated := "-"
		if !s.UpdatedAt.IsZero() {
			updated = s.UpdatedAt.Local().Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", s.ID, s.Name, s.Class, s.Level, updated)
	}
	return w.Flush()
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	id := ruleset.Slug(args[0])
	c, err := a.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrCharacterNotFound) {
			return errors.NotFoundf("character %q", id)
		}
		return err
	}
	if !a.prompter().Confirm(fmt.Sprintf("Delete %s permanently?", c.Name)) {
		return errors.Cancelledf("kept %s", c.Name)
	}
	if err := a.store.Delete(ctx, id); err != nil {
		return err
	}
	if a.redisLog != nil {
		if err := a.redisLog.Clear(ctx, id); err != nil {
			a.logger.Warn("clearing battle log", zap.String("character", id), zap.Error(err))
		}
	}
	fmt.Fprintf(os.Stdout, "Deleted %q.\n", id)
	return nil
}
