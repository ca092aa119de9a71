// Package command provides the command registry, parser, and built-in
// command definitions for the interactive character sheet.
package command

// Categories for organizing commands.
const (
	CategorySheet  = "sheet"
	CategorySpells = "spells"
	CategoryCombat = "combat"
	CategoryRest   = "rest"
	CategoryItems  = "items"
	CategorySystem = "system"
)

// Handler identifiers mapping commands to session handlers.
const (
	HandlerShow       = "show"
	HandlerSpells     = "spells"
	HandlerCast       = "cast"
	HandlerForget     = "forget"
	HandlerPrepare    = "prepare"
	HandlerUnprepare  = "unprepare"
	HandlerLearn      = "learn"
	HandlerAddSpell   = "addspell"
	HandlerAbilities  = "abilities"
	HandlerUse        = "use"
	HandlerAddAbility = "addability"
	HandlerShortRest  = "short"
	HandlerLongRest   = "long"
	HandlerSave       = "save"
	HandlerInitiative = "initiative"
	HandlerCheck      = "check"
	HandlerHP         = "hp"
	HandlerDamage     = "damage"
	HandlerHeal       = "heal"
	HandlerModifier   = "modifier"
	HandlerLevelUp    = "levelup"
	HandlerInventory  = "inventory"
	HandlerItem       = "item"
	HandlerAutoAdd    = "autoadd"
	HandlerHelp       = "help"
	HandlerQuit       = "quit"
)

// Command defines a player-invocable command.
type Command struct {
	// Name is the canonical command name.
	Name string
	// Aliases are alternate names for this command.
	Aliases []string
	// Usage shows the argument shape, e.g. "<spell> [level]".
	Usage string
	// Help is the short help text displayed to players.
	Help string
	// Category groups the command.
	Category string
	// Handler maps to the session handler.
	Handler string
	// Mutates marks commands whose result is saved back to the store.
	Mutates bool
}

// BuiltinCommands returns all built-in commands.
func BuiltinCommands() []Command {
	return []Command{
		{Name: "show", Aliases: []string{"sheet", "stats"}, Help: "Show the character sheet", Category: CategorySheet, Handler: HandlerShow},
		{Name: "hp", Help: "Edit current HP", Category: CategorySheet, Handler: HandlerHP, Mutates: true},
		{Name: "damage", Aliases: []string{"dmg"}, Usage: "<n>", Help: "Take damage", Category: CategorySheet, Handler: HandlerDamage, Mutates: true},
		{Name: "heal", Usage: "<n>", Help: "Regain hit points", Category: CategorySheet, Handler: HandlerHeal, Mutates: true},
		{Name: "levelup", Aliases: []string{"level"}, Usage: "<level>", Help: "Change level and rebuild spells and abilities", Category: CategorySheet, Handler: HandlerLevelUp, Mutates: true},
		{Name: "modifier", Aliases: []string{"mod"}, Usage: "add <preset> | custom <value> <description> | remove <n> | clear | list", Help: "Manage temporary roll modifiers", Category: CategorySheet, Handler: HandlerModifier, Mutates: true},

		{Name: "spells", Aliases: []string{"book"}, Help: "List the spellbook and slots", Category: CategorySpells, Handler: HandlerSpells},
		{Name: "cast", Aliases: []string{"c"}, Usage: "<spell> [level]", Help: "Cast a spell", Category: CategorySpells, Handler: HandlerCast, Mutates: true},
		{Name: "forget", Usage: "<spell> [level]", Help: "Remove a spell from the spellbook", Category: CategorySpells, Handler: HandlerForget, Mutates: true},
		{Name: "prepare", Usage: "<spell>", Help: "Mark a spell prepared", Category: CategorySpells, Handler: HandlerPrepare, Mutates: true},
		{Name: "unprepare", Usage: "<spell>", Help: "Mark a spell unprepared", Category: CategorySpells, Handler: HandlerUnprepare, Mutates: true},
		{Name: "learn", Help: "Learn more spells from the class pool", Category: CategorySpells, Handler: HandlerLearn, Mutates: true},
		{Name: "addspell", Usage: "<level> <name> | <damage> | <description>", Help: "Create a custom spell", Category: CategorySpells, Handler: HandlerAddSpell, Mutates: true},

		{Name: "abilities", Aliases: []string{"abil"}, Help: "List abilities", Category: CategoryCombat, Handler: HandlerAbilities},
		{Name: "use", Aliases: []string{"u"}, Usage: "<ability>", Help: "Use an ability", Category: CategoryCombat, Handler: HandlerUse},
		{Name: "addability", Usage: "<name> | <icon> | <damage> | <description>", Help: "Create a custom ability", Category: CategoryCombat, Handler: HandlerAddAbility, Mutates: true},
		{Name: "save", Usage: "<ability>", Help: "Roll a saving throw", Category: CategoryCombat, Handler: HandlerSave},
		{Name: "initiative", Aliases: []string{"init"}, Help: "Roll initiative", Category: CategoryCombat, Handler: HandlerInitiative},
		{Name: "check", Aliases: []string{"roll"}, Usage: "<label> [modifier]", Help: "Roll a d20 check", Category: CategoryCombat, Handler: HandlerCheck},

		{Name: "short", Help: "Take a short rest", Category: CategoryRest, Handler: HandlerShortRest, Mutates: true},
		{Name: "long", Help: "Take a long rest", Category: CategoryRest, Handler: HandlerLongRest, Mutates: true},

		{Name: "inventory", Aliases: []string{"inv", "i"}, Help: "List carried items", Category: CategoryItems, Handler: HandlerInventory},
		{Name: "item", Aliases: []string{"quaff"}, Usage: "<item>", Help: "Use a consumable item", Category: CategoryItems, Handler: HandlerItem, Mutates: true},
		{Name: "autoadd", Help: "Add the level-appropriate class items", Category: CategoryItems, Handler: HandlerAutoAdd, Mutates: true},

		{Name: "help", Aliases: []string{"?"}, Help: "List commands", Category: CategorySystem, Handler: HandlerHelp},
		{Name: "quit", Aliases: []string{"exit", "q"}, Help: "Leave the session", Category: CategorySystem, Handler: HandlerQuit},
	}
}
