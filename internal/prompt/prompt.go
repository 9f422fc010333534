// Package prompt asks for secrets on the terminal without echoing them, so
// they stay out of the screen and the shell history.
package prompt

import (
	"fmt"
	"os"

	"github.com/chzyer/readline"
)

var readPassword = func(label string) ([]byte, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt: label,
		Stdout: os.Stderr,
	})
	if err != nil {
		return nil, err
	}
	defer rl.Close()
	return rl.ReadPassword(label)
}

// PasswordIfEmpty returns value unchanged when it is set and prompts for it
// otherwise.
func PasswordIfEmpty(value, label string) (string, error) {
	if value != "" {
		return value, nil
	}
	pass, err := readPassword(label)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(pass), nil
}
