package telnet

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/spellbook/internal/errors"
	"github.com/cory-johannsen/spellbook/internal/game/ruleset"
	"github.com/cory-johannsen/spellbook/internal/game/session"
	"github.com/cory-johannsen/spellbook/internal/observability"
	"github.com/cory-johannsen/spellbook/internal/storage"
)

// ConfigFunc builds the session wiring for a character whose output goes to out.
type ConfigFunc func(characterID string, out io.Writer) session.Config

// Table lets each connection pick a stored character and drive it. A
// character can only be driven by one connection at a time.
type Table struct {
	manager   *session.Manager
	store     storage.CharacterStore
	configure ConfigFunc
	logger    *zap.Logger
}

// NewTable builds the table session handler.
//
// Precondition: every argument is non-nil.
func NewTable(manager *session.Manager, store storage.CharacterStore, configure ConfigFunc, logger *zap.Logger) *Table {
	return &Table{manager: manager, store: store, configure: configure, logger: logger.Named("table")}
}

// HandleSession greets the player, asks for a character and runs its
// session. After the session ends the player may pick another character.
func (t *Table) HandleSession(ctx context.Context, conn *Conn) error {
	if err := conn.WriteLine(Colorize(BrightMagenta, "📖 Welcome to the spellbook table.")); err != nil {
		return err
	}
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		if err := t.listCharacters(ctx, conn); err != nil {
			return err
		}
		fmt.Fprint(conn, Colorize(BrightCyan, "character> "))
		line, err := conn.ReadLine()
		if err != nil {
			return err
		}
		name := strings.TrimSpace(line)
		switch strings.ToLower(name) {
		case "":
			continue
		case "quit", "exit", "q":
			return conn.WriteLine("Farewell.")
		}
		if err := t.play(ctx, conn, ruleset.Slug(name)); err != nil {
			if errors.GetCode(err) == errors.CodeInternal {
				return err
			}
			_ = conn.WriteLine(Colorize(Red, "⚠️ "+errors.GetMessage(err)))
		}
	}
}

func (t *Table) listCharacters(ctx context.Context, conn *Conn) error {
	summaries, err := t.store.List(ctx)
	if err != nil {
		return fmt.Errorf("listing characters: %w", err)
	}
	if len(summaries) == 0 {
		return conn.WriteLine(Colorize(Yellow, "No characters yet. Create one with spellbook create."))
	}
	open := map[string]bool{}
	for _, id := range t.manager.OpenIDs() {
		open[id] = true
	}
	for _, s := range summaries {
		entry := Colorf(Bold, "%s", s.Name) + Colorf(Dim, " (%s) level %d %s", s.ID, s.Level, s.Class)
		if open[s.ID] {
			entry += Colorize(Yellow, " [in play]")
		}
		if err := conn.WriteLine("  " + entry); err != nil {
			return err
		}
	}
	return nil
}

// play runs a session for id until the player quits it.
func (t *Table) play(ctx context.Context, conn *Conn, id string) error {
	c, err := t.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrCharacterNotFound) {
			return errors.NotFoundf("character %q", id)
		}
		return fmt.Errorf("loading character %q: %w", id, err)
	}

	cfg := t.configure(c.ID, conn)
	cfg.Prompt = Colorf(BrightCyan, "%s> ", c.ID)
	sess, err := t.manager.Open(cfg)
	if err != nil {
		return errors.InvalidOperationf("%s", err.Error())
	}
	defer func() { _ = t.manager.Close(c.ID) }()

	observability.ForEntity(t.logger, "play", c).Info("character taken", zap.String("remote_addr", conn.RemoteAddr().String()))
	if err := conn.WriteLine(Colorf(Green, "%s %s is ready. Type help for commands, quit to leave.", c.Icon, c.Name)); err != nil {
		return err
	}
	return sess.Run(ctx, conn)
}
