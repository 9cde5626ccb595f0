// Package shell runs the interactive command loop on top of a store.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/ASHISH26940/txkv/internal/command"
	"github.com/ASHISH26940/txkv/internal/lineio"
	"github.com/ASHISH26940/txkv/internal/store"
	"github.com/chzyer/readline"
)

// Banner is printed at startup and by HELP.
const Banner = `
Welcome to the transactional KV store! Available commands are below:
  SET <key> <value>  // store the value for key
  GET <key>          // return the current value for key
  DELETE <key>       // remove the entry for key
  COUNT <value>      // return the number of keys that have the given value
  BEGIN              // start a new transaction
  COMMIT             // complete the current transaction
  ROLLBACK           // revert to state prior to BEGIN call
  DEPTH | TX | KEYS | HELP | EXIT
`

// Options configures a Shell.
type Options struct {
	Prompt string
	Banner bool
	Logger *slog.Logger
}

// Shell is one client session: it reads lines, runs them against the
// store and writes the rendered results.
type Shell struct {
	store  *store.Store
	out    io.Writer
	opts   Options
	logger *slog.Logger
}

// New creates a Shell writing to out. Input is supplied to Run; callers
// that feed lines themselves use Handle directly.
func New(st *store.Store, out io.Writer, opts Options) *Shell {
	if opts.Prompt == "" {
		opts.Prompt = "=> "
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Shell{
		store:  st,
		out:    out,
		opts:   opts,
		logger: logger,
	}
}

// Run processes lines from in until EOF, EXIT, or ctx is cancelled. It
// takes ownership of in and closes it before returning.
func (s *Shell) Run(ctx context.Context, in LineReader) error {
	var closeOnce sync.Once
	closeInput := func() {
		closeOnce.Do(func() {
			if err := in.Close(); err != nil {
				s.logger.Debug("close input", "err", err)
			}
		})
	}
	defer closeInput()

	// Closing the reader unblocks a pending Readline.
	stop := context.AfterFunc(ctx, closeInput)
	defer stop()

	if s.opts.Banner {
		fmt.Fprint(s.out, Banner)
	}

	for {
		if ctx.Err() != nil {
			return nil
		}
		in.SetPrompt(s.prompt())

		line, err := in.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				return nil
			}
			continue
		}
		var tooLong *lineio.LineTooLongError
		if errors.As(err, &tooLong) {
			s.logger.Warn("input line skipped", "bytes", tooLong.Len, "max", tooLong.Max)
			fmt.Fprintf(s.out, "Line too long: %d bytes exceeds limit of %d\n", tooLong.Len, tooLong.Max)
			continue
		}
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}

		if s.Handle(line) {
			return nil
		}
	}
}

// Handle runs one input line and writes its output. It returns true when
// the line asks the session to end.
func (s *Shell) Handle(line string) bool {
	name, args, ok := command.Parse(line)
	if !ok {
		return false
	}

	if len(args) == 0 {
		switch strings.ToUpper(name) {
		case "EXIT", "QUIT":
			return true
		case "HELP":
			fmt.Fprint(s.out, Banner)
			return false
		case "DEPTH":
			fmt.Fprintln(s.out, s.store.Depth())
			return false
		case "TX":
			if cp, ok := s.store.Current(); ok {
				fmt.Fprintln(s.out, cp.ID)
			} else {
				fmt.Fprintln(s.out, "No open transaction")
			}
			return false
		case "KEYS":
			for _, k := range s.store.Keys() {
				fmt.Fprintln(s.out, k)
			}
			return false
		}
	}

	res, err := command.Execute(s.store, name, args)
	if err != nil {
		s.logger.Debug("command rejected", "command", name, "err", err)
	}
	if text := command.Render(res, err); text != "" {
		fmt.Fprintln(s.out, text)
	}
	return false
}

func (s *Shell) prompt() string {
	if d := s.store.Depth(); d > 0 {
		return "(tx " + strconv.Itoa(d) + ") " + s.opts.Prompt
	}
	return s.opts.Prompt
}
