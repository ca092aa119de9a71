package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cory-johannsen/spellbook/internal/game/ruleset"
	"github.com/cory-johannsen/spellbook/internal/game/session"
)

// passthrough builds a subcommand that runs one session command against the
// character named by its first argument. join, when set, reshapes the
// remaining arguments into the session command's argument line.
type passthrough struct {
	use     string
	short   string
	command string
	args    cobra.PositionalArgs
	join    func(args []string) []string
}

func (p passthrough) build() *cobra.Command {
	return &cobra.Command{
		Use:   p.use,
		Short: p.short,
		Args:  p.args,
		RunE: func(cmd *cobra.Command, args []string) error {
			rest := args[1:]
			if p.join != nil {
				rest = p.join(rest)
			}
			return runSheetCommand(cmd, args[0], p.command, rest)
		},
	}
}

func runSheetCommand(cmd *cobra.Command, characterID, name string, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	sess := session.New(a.sessionConfig(ruleset.Slug(characterID), os.Stdout, a.prompter()))
	return sess.Exec(cmd.Context(), name, args...)
}

// pipeFields joins free-text fields into the "a | b | c" form the session
// parses for custom abilities and spells.
func pipeFields(args []string) []string {
	return []string{strings.Join(args, " | ")}
}

// leadingThenPipe keeps the first argument (a spell level) and pipe-joins the rest.
func leadingThenPipe(args []string) []string {
	return []string{args[0] + " " + strings.Join(args[1:], " | ")}
}

func sheetCommands() []*cobra.Command {
	simple := []passthrough{
		{use: "show <character>", short: "Show the character sheet", command: "show", args: cobra.ExactArgs(1)},
		{use: "spells <character>", short: "List the spellbook and slots", command: "spells", args: cobra.ExactArgs(1)},
		{use: "abilities <character>", short: "List abilities", command: "abilities", args: cobra.ExactArgs(1)},
		{use: "inventory <character>", short: "List carried items", command: "inventory", args: cobra.ExactArgs(1)},
		{use: "cast <character> <spell> [level]", short: "Cast a spell", command: "cast", args: cobra.RangeArgs(2, 3)},
		{use: "forget <character> <spell> [level]", short: "Remove a spell from the spellbook", command: "forget", args: cobra.RangeArgs(2, 3)},
		{use: "prepare <character> <spell> [level]", short: "Mark a spell prepared", command: "prepare", args: cobra.RangeArgs(2, 3)},
		{use: "unprepare <character> <spell> [level]", short: "Mark a spell unprepared", command: "unprepare", args: cobra.RangeArgs(2, 3)},
		{use: "learn <character>", short: "Learn more spells from the class pool", command: "learn", args: cobra.ExactArgs(1)},
		{use: "use <character> <ability>", short: "Use an ability", command: "use", args: cobra.MinimumNArgs(2)},
		{use: "save <character> <ability>", short: "Roll a saving throw", command: "save", args: cobra.ExactArgs(2)},
		{use: "initiative <character>", short: "Roll initiative", command: "initiative", args: cobra.ExactArgs(1)},
		{use: "check <character> <label> [modifier]", short: "Roll a d20 check", command: "check", args: cobra.RangeArgs(2, 3)},
		{use: "hp <character>", short: "Edit current HP", command: "hp", args: cobra.ExactArgs(1)},
		{use: "damage <character> <n>", short: "Take damage", command: "damage", args: cobra.ExactArgs(2)},
		{use: "heal <character> <n>", short: "Regain hit points", command: "heal", args: cobra.ExactArgs(2)},
		{use: "levelup <character> <level>", short: "Change level and rebuild spells and abilities", command: "levelup", args: cobra.ExactArgs(2)},
		{use: "item <character> <item>", short: "Use a consumable item", command: "item", args: cobra.MinimumNArgs(2)},
		{use: "autoadd <character>", short: "Add the level-appropriate class items", command: "autoadd", args: cobra.ExactArgs(1)},
		{
			use:   "modifier <character> [add <preset> | custom <value> <description> | remove <n> | clear | list]",
			short: "Manage temporary roll modifiers", command: "modifier", args: cobra.MinimumNArgs(1),
		},
	}

	cmds := make([]*cobra.Command, 0, len(simple)+2)
	for _, p := range simple {
		cmds = append(cmds, p.build())
	}

	restCmd := &cobra.Command{Use: "rest", Short: "Take a short or long rest"}
	restCmd.AddCommand(
		passthrough{use: "short <character>", short: "Spend a hit die; pact casters regain slots", command: "short", args: cobra.ExactArgs(1)}.build(),
		passthrough{use: "long <character>", short: "Restore HP and slots and clear temporary modifiers", command: "long", args: cobra.ExactArgs(1)}.build(),
	)

	customCmd := &cobra.Command{Use: "custom", Short: "Add custom abilities and spells"}
	customCmd.AddCommand(
		passthrough{
			use: "ability <character> <name> <icon> <damage> <description>", short: "Create a custom ability",
			command: "addability", args: cobra.ExactArgs(5), join: pipeFields,
		}.build(),
		passthrough{
			use: "spell <character> <level> <name> [damage] [description]", short: "Create a custom spell",
			command: "addspell", args: cobra.RangeArgs(3, 5), join: leadingThenPipe,
		}.build(),
	)

	return append(cmds, restCmd, customCmd)
}
