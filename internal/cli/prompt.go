package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// prompter asks questions on w and reads single-line answers from r.
// One prompter must be reused for the whole run so buffered input is not
// lost between questions.
type prompter struct {
	r *bufio.Reader
	w io.Writer
}

func newPrompter(r io.Reader, w io.Writer) *prompter {
	return &prompter{r: bufio.NewReader(r), w: w}
}

// ask prints question and returns the trimmed answer. It returns io.EOF
// only when input ended before any answer was typed.
func (p *prompter) ask(question string) (string, error) {
	fmt.Fprint(p.w, question)

	line, err := p.r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// confirm asks a y/n question. Only "y" (any case) counts as yes; end of
// input counts as no.
func (p *prompter) confirm(question string) (bool, error) {
	answer, err := p.ask(question)
	if errors.Is(err, io.EOF) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return strings.ToLower(answer) == "y", nil
}
