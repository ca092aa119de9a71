package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cory-johannsen/spellbook/internal/errors"
	"github.com/cory-johannsen/spellbook/internal/game/character"
	"github.com/cory-johannsen/spellbook/internal/game/ruleset"
	"github.com/cory-johannsen/spellbook/internal/game/session"
	"github.com/cory-johannsen/spellbook/internal/server"
	"github.com/cory-johannsen/spellbook/internal/storage"
)

var (
	playClass string
	playLevel int
)

var playCmd = &cobra.Command{
	Use:   "play <character>",
	Short: "Open an interactive session",
	Long: `Open an interactive session for a stored character. Type help for the
command list and quit to leave. With --class, a missing character is created
first, which makes the memory storage driver usable for a throwaway sheet.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&playClass, "class", "", "create the character with this class when it does not exist")
	playCmd.Flags().IntVar(&playLevel, "level", 1, "level used with --class")
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	id := ruleset.Slug(args[0])
	c, err := a.store.Get(ctx, id)
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrCharacterNotFound) && playClass != "":
		if c, err = createForPlay(cmd, a, args[0]); err != nil {
			return err
		}
		id = c.ID
	case errors.Is(err, storage.ErrCharacterNotFound):
		return errors.NotFoundf("character %q, create it first or pass --class", args[0])
	default:
		return err
	}

	fmt.Fprintf(os.Stdout, "%s %s is ready. Type help for commands.\n", c.Icon, c.Name)
	lc := server.NewLifecycle(a.logger)
	lc.Add("session", server.NewSessionService(session.NewManager(), a.sessionConfig(id, os.Stdout, nil), os.Stdin, a.logger))
	return lc.Run(ctx)
}

func createForPlay(cmd *cobra.Command, a *app, name string) (*character.Character, error) {
	c, out, err := a.engine(nil).Create(character.Request{Name: name, Class: playClass, Level: playLevel})
	if err != nil {
		return nil, err
	}
	if err := a.store.Save(cmd.Context(), c); err != nil {
		return nil, fmt.Errorf("saving character: %w", err)
	}
	out.Publish(a.sinkFor(c.ID, os.Stdout))
	return c, nil
}
