package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"

	"github.com/alt-project/adminctl/internal/output"
)

const shellPrompt = "adminctl> "

func newShellCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive shell sharing one session and cache",
		Long: `Run commands interactively. Every line is parsed like a command line and
runs against the same session, cache and notification queue, so staleness
windows and invalidation after mutations are observable across commands.

Type 'exit' or press Ctrl-D to leave.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rl, err := readline.NewEx(&readline.Config{
				Prompt:          shellPrompt,
				HistoryFile:     historyFile(),
				Stdin:           io.NopCloser(a.stdin),
				Stdout:          a.stdout,
				Stderr:          a.stderr,
				InterruptPrompt: "^C",
				EOFPrompt:       "exit",
			})
			if err != nil {
				return err
			}
			defer rl.Close()

			p := &readlinePrompter{rl: rl}
			a.prompt = p
			defer func() { a.prompt = nil }()
			return a.runShell(cmd.Context(), p)
		},
	}
}

// runShell reads lines until exit and runs each through a fresh command tree.
func (a *app) runShell(ctx context.Context, in prompter) error {
	for {
		line, err := in.ReadLine(shellPrompt)
		if errors.Is(err, errCancelled) {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		switch line {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		words, err := shellquote.Split(line)
		if err != nil {
			a.printer.Error("%v", err)
			continue
		}
		if words[0] == "shell" {
			a.printer.Warning("already in the shell")
			continue
		}

		root := newRootCmd(a)
		root.SetArgs(words)
		if err := root.ExecuteContext(ctx); err != nil {
			a.errorPrinter().FormatError(output.FromError(err))
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func historyFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	dir = filepath.Join(dir, "adminctl")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return ""
	}
	return filepath.Join(dir, "history")
}
