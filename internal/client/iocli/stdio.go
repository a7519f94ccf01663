package iocli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Stdio реализация IO поверх произвольных reader/writer.
type Stdio struct {
	in      *bufio.Reader
	out     io.Writer
	success *color.Color
	warn    *color.Color
	inFd    int
	isTTY   bool
}

var _ IO = (*Stdio)(nil)

// NewStdio returns IO bound to the process stdin/stdout.
func NewStdio() *Stdio {
	s := New(os.Stdin, os.Stdout)
	s.inFd = int(os.Stdin.Fd())
	s.isTTY = term.IsTerminal(s.inFd)
	return s
}

// New returns IO reading from in and writing to out. Secrets are read as
// plain lines because in is not a terminal.
func New(in io.Reader, out io.Writer) *Stdio {
	s := &Stdio{
		in:      bufio.NewReader(in),
		out:     out,
		success: color.New(color.FgGreen),
		warn:    color.New(color.FgYellow),
	}
	if out != os.Stdout {
		s.success.DisableColor()
		s.warn.DisableColor()
	}
	return s
}

func (s *Stdio) Println(a ...any) {
	_, _ = fmt.Fprintln(s.out, a...)
}

func (s *Stdio) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(s.out, format, a...)
}

func (s *Stdio) Success(format string, a ...any) {
	_, _ = s.success.Fprintf(s.out, format+"\n", a...)
}

func (s *Stdio) Warn(format string, a ...any) {
	_, _ = s.warn.Fprintf(s.out, format+"\n", a...)
}

func (s *Stdio) Write(p []byte) (int, error) {
	return s.out.Write(p)
}

func (s *Stdio) ReadInput(prompt string) (string, error) {
	s.Printf("%s", prompt)
	input, err := s.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && input != "") {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

func (s *Stdio) ReadSecret(prompt string) (string, error) {
	if !s.isTTY {
		return s.ReadInput(prompt)
	}
	s.Printf("%s", prompt)
	secret, err := term.ReadPassword(s.inFd)
	s.Println("")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(secret)), nil
}
