package workflow

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Prompter asks yes/no questions on a line-oriented console.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Confirm writes question and reads one line. Only the exact answer "y"
// is affirmative; end of input counts as a decline.
func (p *Prompter) Confirm(question string) (bool, error) {
	if _, err := io.WriteString(p.out, question); err != nil {
		return false, fmt.Errorf("write prompt: %w", err)
	}
	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read answer: %w", err)
	}
	return strings.TrimRight(line, "\r\n") == "y", nil
}

// Say prints one line of operator-facing output.
func (p *Prompter) Say(a ...any) {
	fmt.Fprintln(p.out, a...)
}
