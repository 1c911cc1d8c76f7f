package output

import (
	"fmt"
	"strings"
)

// CommandHints maps command names to related commands users might want to run next
var CommandHints = map[string][]string{
	"login":               {"whoami", "dashboard"},
	"logout":              {"login"},
	"dashboard":           {"withdrawals list --status pending", "screenshots list"},
	"users list":          {"users ban <id>", "users wallet <id> <amount>"},
	"campaigns list":      {"campaigns create", "campaigns update <id>"},
	"channels list":       {"channels create"},
	"giftcodes list":      {"giftcodes create <amount>"},
	"apikeys list":        {"apikeys create <name>"},
	"withdrawals list":    {"withdrawals approve <id>", "withdrawals reject <id>"},
	"screenshots list":    {"screenshots approve --all", "screenshots reject <id>"},
	"settings get":        {"settings set"},
	"cache stats":         {"cache invalidate <type>"},
	"cache invalidate":    {"cache stats"},
	"withdrawals approve": {"withdrawals list --status pending"},
	"withdrawals reject":  {"withdrawals list --status pending"},
}

// PrintHints prints "See also" hints for a command. No-op in quiet mode or if command has no hints.
func (p *Printer) PrintHints(command string) {
	if p.quiet {
		return
	}
	hints, ok := CommandHints[command]
	if !ok || len(hints) == 0 {
		return
	}

	cmds := make([]string, len(hints))
	for i, h := range hints {
		cmds[i] = "adminctl " + h
	}
	fmt.Fprintf(p.out, "\nSee also: %s\n", strings.Join(cmds, ", "))
}
