package shell

import (
	"io"
	"os"

	"github.com/ASHISH26940/txkv/internal/lineio"
	"github.com/chzyer/readline"
	"golang.org/x/term"
)

// LineReader is the input side of a session. *readline.Instance satisfies
// it directly.
type LineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
	Close() error
}

// ReaderConfig selects how input is read.
type ReaderConfig struct {
	Prompt       string
	HistoryFile  string
	MaxLineBytes int // plain input only; <= 0 means lineio.DefaultMaxLineBytes
}

// NewLineReader picks the reader for in. A terminal gets readline with
// history and line editing; anything else (pipes, files, tests) is read
// line by line with no prompt echoed.
func NewLineReader(in io.Reader, out io.Writer, cfg ReaderConfig) (LineReader, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return readline.NewEx(&readline.Config{
			Prompt:          cfg.Prompt,
			HistoryFile:     cfg.HistoryFile,
			InterruptPrompt: "^C",
			EOFPrompt:       "exit",
			Stdin:           f,
			Stdout:          out,
		})
	}
	return NewPlainReader(in, cfg.MaxLineBytes), nil
}

// PlainReader reads lines from a non-interactive source and ignores
// prompts. A line longer than the cap is skipped and reported as a
// *lineio.LineTooLongError.
type PlainReader struct {
	lines  *lineio.Reader
	closer io.Closer
}

// NewPlainReader wraps r. If r is an io.Closer other than os.Stdin, Close
// closes it.
func NewPlainReader(r io.Reader, maxLineBytes int) *PlainReader {
	pr := &PlainReader{lines: lineio.NewReader(r, maxLineBytes)}
	if c, ok := r.(io.Closer); ok && r != os.Stdin {
		pr.closer = c
	}
	return pr
}

// Readline returns the next line without its terminator, or io.EOF.
func (r *PlainReader) Readline() (string, error) {
	return r.lines.Next()
}

// SetPrompt is a no-op; non-interactive input gets no prompt.
func (r *PlainReader) SetPrompt(string) {}

func (r *PlainReader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}
