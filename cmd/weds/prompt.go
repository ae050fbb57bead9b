package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// prompter reads answers line by line, the way the interactive menus do
type prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{scanner: bufio.NewScanner(in), out: out}
}

// ask prints label and returns the trimmed answer. ok is false at EOF.
func (p *prompter) ask(label string) (string, bool) {
	fmt.Fprint(p.out, label)
	if !p.scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(p.scanner.Text()), true
}

// askDefault returns def for an empty answer
func (p *prompter) askDefault(label, def string) string {
	if def != "" {
		label = fmt.Sprintf("%s [%s]: ", strings.TrimSuffix(label, ": "), def)
	}
	answer, _ := p.ask(label)
	if answer == "" {
		return def
	}
	return answer
}

// Confirm asks a yes/no question defaulting to no
func (p *prompter) Confirm(question string) bool {
	answer, ok := p.ask(question + " [y/N]: ")
	if !ok {
		return false
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	}
	return false
}
