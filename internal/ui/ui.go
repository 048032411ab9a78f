// Package ui abstracts the line-oriented prompts used by the menu and the
// practice drills so they can run against a terminal or a script.
package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

type UI interface {
	// Say prints a line.
	Say(msg string)
	// Ask prints prompt and returns the next line of input without its line ending.
	Ask(prompt string) (string, error)
	// Confirm asks a yes/no question; only "y" (any case, surrounding spaces ignored) approves.
	Confirm(prompt string) (bool, error)
}

// Console reads answers from in and writes prompts to out.
type Console struct {
	in  *bufio.Reader
	out io.Writer
}

func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewReader(in), out: out}
}

func (c *Console) Say(msg string) {
	fmt.Fprintln(c.out, msg)
}

func (c *Console) Ask(prompt string) (string, error) {
	fmt.Fprint(c.out, prompt)
	line, err := c.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (c *Console) Confirm(prompt string) (bool, error) {
	answer, err := c.Ask(prompt)
	if err != nil {
		return false, err
	}
	return strings.ToLower(strings.TrimSpace(answer)) == "y", nil
}

// Scripted replays canned answers and records everything shown.
type Scripted struct {
	Answers []string
	Output  []string
}

func (s *Scripted) Say(msg string) {
	s.Output = append(s.Output, msg)
}

func (s *Scripted) Ask(prompt string) (string, error) {
	s.Output = append(s.Output, prompt)
	if len(s.Answers) == 0 {
		return "", io.EOF
	}
	answer := s.Answers[0]
	s.Answers = s.Answers[1:]
	return answer, nil
}

func (s *Scripted) Confirm(prompt string) (bool, error) {
	answer, err := s.Ask(prompt)
	if err != nil {
		return false, err
	}
	return strings.ToLower(strings.TrimSpace(answer)) == "y", nil
}

// Transcript joins everything shown so far.
func (s *Scripted) Transcript() string {
	return strings.Join(s.Output, "\n")
}
