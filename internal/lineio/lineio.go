// Package lineio reads newline-terminated input with a configurable line
// length cap. A line over the cap is consumed and reported as a
// *LineTooLongError; the next call continues with the following line.
package lineio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// DefaultMaxLineBytes is used when a Reader is created with a cap <= 0.
const DefaultMaxLineBytes = 1 << 20

// ErrLineTooLong is matched by errors.Is for any *LineTooLongError.
var ErrLineTooLong = errors.New("line too long")

// LineTooLongError reports a skipped line of Len bytes, terminator
// excluded.
type LineTooLongError struct {
	Len int
	Max int
}

func (e *LineTooLongError) Error() string {
	return fmt.Sprintf("line too long: %d bytes exceeds limit of %d", e.Len, e.Max)
}

func (e *LineTooLongError) Is(target error) bool {
	return target == ErrLineTooLong
}

// Reader returns one line per Next call without its "\n" or "\r\n".
type Reader struct {
	br  *bufio.Reader
	max int
}

// NewReader wraps r. maxLineBytes <= 0 selects DefaultMaxLineBytes.
func NewReader(r io.Reader, maxLineBytes int) *Reader {
	if maxLineBytes <= 0 {
		maxLineBytes = DefaultMaxLineBytes
	}
	return &Reader{br: bufio.NewReader(r), max: maxLineBytes}
}

// Max returns the line length cap in bytes.
func (r *Reader) Max() int {
	return r.max
}

// Next returns the next line. It returns io.EOF once the input is
// exhausted; a final line without a terminator is still returned.
func (r *Reader) Next() (string, error) {
	var line []byte
	n := 0    // bytes consumed, terminator included
	term := 0 // terminator length
	for {
		chunk, err := r.br.ReadSlice('\n')
		n += len(chunk)
		// Keep buffering while the line could still fit, terminator included.
		if n <= r.max+2 {
			line = append(line, chunk...)
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if err != nil {
			if errors.Is(err, io.EOF) && n > 0 {
				break
			}
			return "", err
		}
		term = 1
		if len(chunk) >= 2 && chunk[len(chunk)-2] == '\r' {
			term = 2
		}
		break
	}

	size := n - term
	if size > r.max {
		return "", &LineTooLongError{Len: size, Max: r.max}
	}
	return string(line[:size]), nil
}
