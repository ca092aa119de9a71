// Package session runs sheet commands against one stored character. A line
// is resolved through the command registry, the character is loaded from the
// store, the engine applies the operation and mutating commands save the
// result. Battle log lines reach the user through the engine's sink; the
// session itself only writes views (sheet, spellbook, help) and warnings.
package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/spellbook/internal/errors"
	"github.com/cory-johannsen/spellbook/internal/game/battlelog"
	"github.com/cory-johannsen/spellbook/internal/game/character"
	"github.com/cory-johannsen/spellbook/internal/game/command"
	"github.com/cory-johannsen/spellbook/internal/game/engine"
	"github.com/cory-johannsen/spellbook/internal/observability"
	"github.com/cory-johannsen/spellbook/internal/storage"
)

// Prompt is the default prompt written before each command line Run reads.
const Prompt = "> "

// Config wires a Session.
type Config struct {
	CharacterID string
	Engine      *engine.Engine
	Store       storage.CharacterStore
	// Registry defaults to command.DefaultRegistry.
	Registry *command.Registry
	// Prompter answers questions asked by forget and hp. When nil, Run reads
	// answers from its input and Dispatch confirms everything.
	Prompter battlelog.Prompter
	Out      io.Writer
	Logger   *zap.Logger
	// Prompt replaces the default command prompt when set.
	Prompt string
}

// Session executes commands for one character.
type Session struct {
	characterID string
	engine      *engine.Engine
	store       storage.CharacterStore
	registry    *command.Registry
	prompter    battlelog.Prompter
	ownPrompter bool
	prompt      string
	out         io.Writer
	logger      *zap.Logger
}

// New builds a Session.
//
// Precondition: cfg.CharacterID, cfg.Engine, cfg.Store, cfg.Out and cfg.Logger are set.
func New(cfg Config) *Session {
	s := &Session{
		characterID: cfg.CharacterID,
		engine:      cfg.Engine,
		store:       cfg.Store,
		registry:    cfg.Registry,
		prompter:    cfg.Prompter,
		prompt:      cfg.Prompt,
		out:         cfg.Out,
		logger:      cfg.Logger.Named("session"),
	}
	if s.registry == nil {
		s.registry = command.DefaultRegistry()
	}
	if s.prompt == "" {
		s.prompt = Prompt
	}
	if s.prompter == nil {
		s.prompter = battlelog.AutoConfirm{}
		s.ownPrompter = true
	}
	return s
}

// CharacterID returns the id of the character the session drives.
func (s *Session) CharacterID() string { return s.characterID }

// Dispatch parses and executes one command line. Blank lines are ignored.
//
// Postcondition: quit is true only for the quit command; err carries the
// engine's coded error when the command was rejected.
func (s *Session) Dispatch(ctx context.Context, line string) (quit bool, err error) {
	parsed := command.Parse(line)
	if parsed.Command == "" {
		return false, nil
	}
	cmd, ok := s.registry.Resolve(parsed.Command)
	if !ok {
		if near := s.registry.Suggest(parsed.Command); len(near) > 0 {
			return false, errors.NotFoundf("unknown command %q, did you mean %s?", parsed.Command, strings.Join(near, ", "))
		}
		return false, errors.NotFoundf("unknown command %q, type help for a list", parsed.Command)
	}
	return s.exec(ctx, cmd, parsed.Args, parsed.RawArgs)
}

// Exec runs the command name with pre-split arguments. It is the entry point
// for non-interactive callers.
func (s *Session) Exec(ctx context.Context, name string, args ...string) error {
	cmd, ok := s.registry.Resolve(strings.ToLower(name))
	if !ok {
		return errors.NotFoundf("unknown command %q", name)
	}
	_, err := s.exec(ctx, cmd, args, strings.Join(args, " "))
	return err
}

func (s *Session) exec(ctx context.Context, cmd *command.Command, args []string, raw string) (bool, error) {
	switch cmd.Handler {
	case command.HandlerQuit:
		return true, nil
	case command.HandlerHelp:
		s.renderHelp()
		return false, nil
	}
	h, ok := handlers[cmd.Handler]
	if !ok {
		return false, errors.Newf(errors.CodeInternal, "command %q has no handler", cmd.Name)
	}

	logger := s.logger.With(zap.String("op", cmd.Name))
	start := time.Now()
	run := func(c *character.Character) error {
		logger = observability.ForEntity(s.logger, cmd.Name, c)
		if err := h(s, c, request{args: args, raw: raw}); err != nil {
			logger.Debug("command rejected", zap.String("code", errors.GetCode(err).String()), zap.Error(err))
			return err
		}
		return nil
	}

	var err error
	if locker, ok := s.store.(storage.Locker); ok && cmd.Mutates {
		err = locker.Do(s.characterID, run)
	} else {
		err = s.loadAndRun(ctx, cmd, run)
	}
	if err != nil {
		if errors.Is(err, storage.ErrCharacterNotFound) {
			return false, errors.NotFoundf("character %q", s.characterID)
		}
		return false, err
	}
	logger.Debug("command complete", zap.Duration("elapsed", time.Since(start)))
	return false, nil
}

// loadAndRun is the read-modify-write path for stores without per-character
// locking. The Manager keeps one session per character, which serializes it.
func (s *Session) loadAndRun(ctx context.Context, cmd *command.Command, run func(*character.Character) error) error {
	c, err := s.store.Get(ctx, s.characterID)
	if err != nil {
		if errors.Is(err, storage.ErrCharacterNotFound) {
			return err
		}
		return fmt.Errorf("loading character %q: %w", s.characterID, err)
	}
	if err := run(c); err != nil {
		return err
	}
	if cmd.Mutates {
		if err := s.store.Save(ctx, c); err != nil {
			return fmt.Errorf("saving character %q: %w", c.ID, err)
		}
	}
	return nil
}

// Run reads command lines from in until EOF, quit or ctx is done. Rejected
// commands are reported to the output and do not end the loop; store
// failures do.
func (s *Session) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	if s.ownPrompter {
		s.prompter = battlelog.NewScannerPrompter(scanner, s.out)
		defer func() { s.prompter = battlelog.AutoConfirm{} }()
	}
	s.logger.Info("session started", zap.String("character", s.characterID))
	defer s.logger.Info("session ended", zap.String("character", s.characterID))

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		fmt.Fprint(s.out, s.prompt)
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}
		quit, err := s.Dispatch(ctx, scanner.Text())
		if err != nil {
			if errors.GetCode(err) == errors.CodeInternal {
				return err
			}
			s.Warn(err)
			continue
		}
		if quit {
			return nil
		}
	}
}

// Warn prints a rejected command's message.
func (s *Session) Warn(err error) {
	fmt.Fprintf(s.out, "⚠️ %s\n", errors.GetMessage(err))
}
