package main

import "strings"

// shouldShowConsole reports whether the console window must stay visible.
// Only the tray host, started bare or with "run", hides it; every other
// command prints to the terminal.
func shouldShowConsole(keep bool, args []string) bool {
	if keep {
		return true
	}

	for i := 0; i < len(args); i++ {
		trimmed := strings.TrimSpace(args[i])
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "-") {
			name := strings.ToLower(strings.TrimLeft(trimmed, "-"))
			switch {
			case name == "help" || name == "h" || name == "version" || name == "v":
				return true
			case (name == "config-dir" || name == "endpoint") && i+1 < len(args):
				i++
			}
			continue
		}
		return strings.ToLower(trimmed) != "run"
	}
	return false
}
