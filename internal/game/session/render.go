package session

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/cory-johannsen/spellbook/internal/game/character"
	"github.com/cory-johannsen/spellbook/internal/game/command"
)

func (s *Session) table() *tabwriter.Writer {
	return tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
}

func (s *Session) className(c *character.Character) string {
	if class, ok := s.engine.Content().Rules.Class(c.Class); ok {
		return class.Name
	}
	return c.Class
}

func (s *Session) renderSheet(c *character.Character) {
	fmt.Fprintf(s.out, "%s %s\n", c.Icon, c.Name)
	line := fmt.Sprintf("Level %d %s", c.Level, s.className(c))
	if c.Subclass != "" {
		line += fmt.Sprintf(" (%s)", c.Subclass)
	}
	if c.Race != "" {
		line += ", " + c.Race
	}
	if c.Alignment != "" {
		line += ", " + c.Alignment
	}
	fmt.Fprintln(s.out, line)
	fmt.Fprintf(s.out, "HP %d/%d  AC %d\n", c.HP.Current, c.HP.Max, c.AC)

	w := s.table()
	for _, a := range character.Abilities {
		fmt.Fprintf(w, "%s\t%d\t%+d\n", strings.ToUpper(string(a)[:3]), c.Stats.Score(a), c.Stats.Modifier(a))
	}
	w.Flush()

	if total := c.TempModifiers.Total(); total != 0 {
		fmt.Fprintf(s.out, "Temp modifiers: %+d\n", total)
	}
}

func (s *Session) renderSpells(c *character.Character) {
	if c.Spells.Count() == 0 {
		fmt.Fprintf(s.out, "%s knows no spells.\n", c.Name)
		return
	}
	w := s.table()
	for _, level := range c.Spells.Levels() {
		if level == 0 {
			fmt.Fprintln(w, "Cantrips")
		} else {
			slot := c.SpellSlots[level]
			fmt.Fprintf(w, "Level %d\tslots %d/%d\n", level, slot.Current, slot.Max)
		}
		for _, inst := range c.Spells[level] {
			def := inst.Definition()
			mark := ""
			if p, ok := inst.(character.PreparedSpell); ok && level > 0 {
				mark = "○"
				if p.Prepared {
					mark = "●"
				}
			}
			fmt.Fprintf(w, "  %s %s %s\t%s\t%s\n", mark, def.Icon, def.Name, def.ID, def.Damage)
		}
	}
	w.Flush()
}

func (s *Session) renderAbilities(c *character.Character) {
	w := s.table()
	for _, a := range c.Abilities {
		fmt.Fprintf(w, "%s %s\t%s\t%s\n", a.Icon, a.Name, a.ID, a.Damage)
	}
	w.Flush()
}

func (s *Session) renderInventory(c *character.Character) {
	if len(c.Inventory) == 0 {
		fmt.Fprintf(s.out, "%s carries nothing.\n", c.Name)
		return
	}
	w := s.table()
	for _, it := range c.Inventory {
		equipped := ""
		if it.Equipped {
			equipped = "equipped"
		}
		fmt.Fprintf(w, "%s %s\tx%d\t%s\t%s\n", it.Icon, it.Name, it.Quantity, it.ItemDefID, equipped)
	}
	w.Flush()
}

func (s *Session) renderModifiers(c *character.Character) {
	if len(c.TempModifiers) == 0 {
		fmt.Fprintln(s.out, "No temporary modifiers.")
		return
	}
	w := s.table()
	for i, m := range c.TempModifiers {
		fmt.Fprintf(w, "%d\t%+d\t%s\n", i+1, m.Value, m.Description)
	}
	w.Flush()
	fmt.Fprintf(s.out, "Total: %+d\n", c.TempModifiers.Total())
}

func (s *Session) renderHelp() {
	RenderHelp(s.out, s.registry)
}

// RenderHelp lists the registry's commands grouped by category.
func RenderHelp(out io.Writer, r *command.Registry) {
	byCategory := r.CommandsByCategory()
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, cat := range command.CategoryOrder {
		cmds := byCategory[cat]
		if len(cmds) == 0 {
			continue
		}
		fmt.Fprintf(w, "%s\n", strings.ToUpper(cat))
		for _, cmd := range cmds {
			name := cmd.Name
			if cmd.Usage != "" {
				name += " " + cmd.Usage
			}
			fmt.Fprintf(w, "  %s\t%s\n", name, cmd.Help)
		}
	}
	w.Flush()
}
