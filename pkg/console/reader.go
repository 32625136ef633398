package console

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"golang.org/x/term"
)

// LineReader yields one input line at a time, io.EOF once the stream is closed
type LineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
	Close() error
}

// NewLineReader uses readline on a terminal and a plain buffered reader for
// piped input. historyFile may be empty.
func NewLineReader(in *os.File, out io.Writer, prompt, historyFile string) (LineReader, error) {
	if !term.IsTerminal(int(in.Fd())) {
		return NewBufferedReader(in, out, prompt), nil
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Stdin:           in,
		Stdout:          out,
	})
	if err != nil {
		return nil, fmt.Errorf("readline init: %w", err)
	}
	return rl, nil
}

type bufferedReader struct {
	r      *bufio.Reader
	out    io.Writer
	prompt string
}

func NewBufferedReader(in io.Reader, out io.Writer, prompt string) LineReader {
	return &bufferedReader{r: bufio.NewReader(in), out: out, prompt: prompt}
}

func (b *bufferedReader) Readline() (string, error) {
	fmt.Fprint(b.out, b.prompt)
	line, err := b.r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (b *bufferedReader) SetPrompt(prompt string) {
	b.prompt = prompt
}

func (b *bufferedReader) Close() error {
	return nil
}
