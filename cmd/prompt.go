package cmd

import (
	"errors"
	"io"

	"github.com/chzyer/readline"
)

// prompter reads interactive answers from the operator.
type prompter interface {
	ReadLine(prompt string) (string, error)
	ReadPassword(prompt string) (string, error)
}

type readlinePrompter struct {
	rl *readline.Instance
}

func newReadlinePrompter(stdin io.Reader, stdout, stderr io.Writer) (*readlinePrompter, error) {
	rl, err := readline.NewEx(&readline.Config{
		Stdin:  io.NopCloser(stdin),
		Stdout: stdout,
		Stderr: stderr,
	})
	if err != nil {
		return nil, err
	}
	return &readlinePrompter{rl: rl}, nil
}

func (p *readlinePrompter) ReadLine(prompt string) (string, error) {
	p.rl.SetPrompt(prompt)
	line, err := p.rl.Readline()
	return line, promptErr(err)
}

func (p *readlinePrompter) ReadPassword(prompt string) (string, error) {
	b, err := p.rl.ReadPassword(prompt)
	return string(b), promptErr(err)
}

func (p *readlinePrompter) Close() error {
	return p.rl.Close()
}

func promptErr(err error) error {
	if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
		return errCancelled
	}
	return err
}

// openPrompter returns the shell's prompter, or opens one on stdin for a single command.
func (a *app) openPrompter() (prompter, func(), error) {
	if a.prompt != nil {
		return a.prompt, func() {}, nil
	}
	p, err := newReadlinePrompter(a.stdin, a.stdout, a.stderr)
	if err != nil {
		return nil, nil, err
	}
	return p, func() { _ = p.Close() }, nil
}
