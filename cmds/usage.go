package cmds

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"
)

func (p *Executor) PrintUsage() {
	p.printCommands(os.Stdout, p.commands, 0)
}

func (p *Executor) printCommands(w *os.File, commands map[string]*Command, depth int) {
	names := slices.Sorted(maps.Keys(commands))

	printed := make(map[*Command]bool)
	for _, name := range names {
		command := commands[name]
		if printed[command] {
			continue
		}
		printed[command] = true

		line := name
		if len(command.Aliases) > 0 {
			line += " (" + strings.Join(command.Aliases, ", ") + ")"
		}
		fmt.Fprintf(w, "%s%s", strings.Repeat("  ", depth+1), line)
		if command.Description != "" {
			fmt.Fprintf(w, "\t%s", command.Description)
		}
		fmt.Fprintln(w)

		if len(command.Subs) > 0 {
			p.printCommands(w, command.Subs, depth+1)
		}
	}
}
