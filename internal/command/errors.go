package command

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidArguments is matched by errors.Is for any argument count
	// violation. The store is untouched when it is returned.
	ErrInvalidArguments = errors.New("invalid arguments")
	// ErrUnknownCommand is matched by errors.Is when the command name is not
	// one the store understands.
	ErrUnknownCommand = errors.New("command not recognized")
)

// InvalidArgumentsError carries the offending command and its arguments.
type InvalidArgumentsError struct {
	Command string
	Args    []string
}

func (e *InvalidArgumentsError) Error() string {
	return fmt.Sprintf("invalid use of %s: %s", e.Command, strings.Join(e.Args, " "))
}

func (e *InvalidArgumentsError) Is(target error) bool {
	return target == ErrInvalidArguments
}

// UnknownCommandError carries the input that could not be dispatched.
type UnknownCommandError struct {
	Input string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("command not recognized: %s", e.Input)
}

func (e *UnknownCommandError) Is(target error) bool {
	return target == ErrUnknownCommand
}
