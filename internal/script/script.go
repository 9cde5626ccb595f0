// Package script replays command files line by line.
package script

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ASHISH26940/txkv/internal/lineio"
)

// ApplyFunc handles one command line. lineNo is 1-based.
type ApplyFunc func(lineNo int, line string) error

// Options tunes a replay.
type Options struct {
	// MaxLineBytes caps a single line; <= 0 means lineio.DefaultMaxLineBytes.
	MaxLineBytes int
	// OnSkip is called for a line over the cap. Returning nil continues
	// with the next line. When OnSkip is nil the replay stops with the
	// *lineio.LineTooLongError.
	OnSkip func(lineNo int, err error) error
}

// Replay opens the file at path and calls apply for every command line in
// it. Blank lines and lines whose first non-space character is '#' are
// skipped.
func Replay(path string, opts Options, apply ApplyFunc) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open script: %w", err)
	}
	defer file.Close()

	if err := ReplayReader(file, opts, apply); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// ReplayReader is Replay over an already open reader.
func ReplayReader(r io.Reader, opts Options, apply ApplyFunc) error {
	lines := lineio.NewReader(r, opts.MaxLineBytes)
	lineNo := 0
	for {
		raw, err := lines.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		lineNo++
		if errors.Is(err, lineio.ErrLineTooLong) {
			if opts.OnSkip == nil {
				return fmt.Errorf("line %d: %w", lineNo, err)
			}
			if err := opts.OnSkip(lineNo, err); err != nil {
				return fmt.Errorf("line %d: %w", lineNo, err)
			}
			continue
		}
		if err != nil {
			return err
		}

		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := apply(lineNo, line); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
}
