package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/credkeeper/internal/common"
	"golang.org/x/term"
)

// Test seams for the terminal.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

type fdReader interface {
	Fd() uintptr
}

// prompter reads answers from in. Secrets bypass the buffer and are read
// without echo when in is a terminal.
type prompter struct {
	in     io.Reader
	reader *bufio.Reader
	out    io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: in, reader: bufio.NewReader(in), out: out}
}

// line prints prompt and returns one trimmed line. A final line without a
// newline is accepted.
func (p *prompter) line(prompt string) (string, error) {
	if _, err := fmt.Fprint(p.out, prompt+": "); err != nil {
		return "", err
	}
	s, err := p.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(s) > 0 {
			return strings.TrimSpace(s), nil
		}
		return "", err
	}
	return strings.TrimSpace(s), nil
}

func (p *prompter) secret(prompt string) (string, error) {
	f, ok := p.in.(fdReader)
	if !ok || !isTerminal(int(f.Fd())) {
		return p.line(prompt)
	}

	if _, err := fmt.Fprint(p.out, prompt+": "); err != nil {
		return "", err
	}
	b, err := readPassword(int(f.Fd()))
	fmt.Fprintln(p.out)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(b)
	return string(b), nil
}
