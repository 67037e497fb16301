package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// ErrNoTerminal is returned when a password prompt is needed but stdin is not a terminal.
var ErrNoTerminal = errors.New("no password given and stdin is not a terminal")

// PromptFunc reads a password without echo.
type PromptFunc func(prompt string) (string, error)

// TerminalPrompt prompts on stderr and reads the password from the stdin terminal.
func TerminalPrompt(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", ErrNoTerminal
	}
	fmt.Fprint(os.Stderr, prompt)
	pw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(pw), nil
}

// ResolvePassword fills s.Password through prompt when it is empty.
func (s *Settings) ResolvePassword(prompt PromptFunc) error {
	if s.Password != "" {
		return nil
	}
	pw, err := prompt("CVP Password: ")
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	s.Password = pw
	return nil
}
