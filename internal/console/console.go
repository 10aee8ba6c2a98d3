// Package console is the operator's terminal: line input, masked password
// input, plain and error output, and tabular rendering.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"golang.org/x/term"
)

// ErrorPrefix marks every diagnostic shown to the operator.
const ErrorPrefix = "Error: "

// Console is what the session and command layers need from the terminal.
// ReadLine and ReadPassword return io.EOF when input is exhausted.
type Console interface {
	ReadLine(prompt string) (string, error)
	ReadPassword(prompt string) (string, error)
	Println(a ...any)
	Printf(format string, a ...any)
	Errorf(format string, a ...any)
	Table(headers []string, rows [][]string)
	Clear()
}

// Terminal implements Console over any reader/writer pair. Password input is
// masked only when the reader is an interactive terminal.
type Terminal struct {
	in  *bufio.Reader
	fd  int
	tty bool
	out io.Writer
}

// NewTerminal wraps in and out.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	t := &Terminal{in: bufio.NewReader(in), out: out, fd: -1}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		t.fd = int(f.Fd())
		t.tty = true
	}
	return t
}

// NewStdio is the process terminal.
func NewStdio() *Terminal { return NewTerminal(os.Stdin, os.Stdout) }

func (t *Terminal) ReadLine(prompt string) (string, error) {
	fmt.Fprint(t.out, prompt)
	line, err := t.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (t *Terminal) ReadPassword(prompt string) (string, error) {
	if !t.tty {
		return t.ReadLine(prompt)
	}
	fmt.Fprint(t.out, prompt)
	b, err := term.ReadPassword(t.fd)
	fmt.Fprintln(t.out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (t *Terminal) Println(a ...any) { fmt.Fprintln(t.out, a...) }

func (t *Terminal) Printf(format string, a ...any) { fmt.Fprintf(t.out, format, a...) }

// Errorf prints one diagnostic line prefixed with ErrorPrefix.
func (t *Terminal) Errorf(format string, a ...any) {
	fmt.Fprintln(t.out, ErrorPrefix+fmt.Sprintf(format, a...))
}

// Table renders rows under headers in aligned columns. An empty row set
// prints "(no rows)" beneath the header.
func (t *Terminal) Table(headers []string, rows [][]string) {
	w := tabwriter.NewWriter(t.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(headers, "\t"))
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	_ = w.Flush()
	if len(rows) == 0 {
		fmt.Fprintln(t.out, "(no rows)")
	}
}

// Clear wipes the viewport with ANSI escapes.
func (t *Terminal) Clear() { fmt.Fprint(t.out, "\033[H\033[2J") }
