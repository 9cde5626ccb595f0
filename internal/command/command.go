// Package command turns parsed input lines into store operations and
// renders their outcomes as text.
//
// Execute is the only place that checks argument counts. Every outcome the
// store can produce is a Result; only malformed input is an error.
package command

import (
	"errors"
	"strconv"
	"strings"

	"github.com/ASHISH26940/txkv/internal/store"
	"github.com/ASHISH26940/txkv/internal/transaction"
)

// Command names understood by Execute.
const (
	Set      = "SET"
	Get      = "GET"
	Delete   = "DELETE"
	Count    = "COUNT"
	Begin    = "BEGIN"
	Commit   = "COMMIT"
	Rollback = "ROLLBACK"
)

// Kind discriminates the outcomes of a successful Execute.
type Kind int

const (
	KindOK Kind = iota
	KindValue
	KindKeyNotSet
	KindCount
	KindCommitted
	KindNothingToCommit
	KindRolledBack
	KindNothingToRollBack
)

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindValue:
		return "value"
	case KindKeyNotSet:
		return "key_not_set"
	case KindCount:
		return "count"
	case KindCommitted:
		return "committed"
	case KindNothingToCommit:
		return "nothing_to_commit"
	case KindRolledBack:
		return "rolled_back"
	case KindNothingToRollBack:
		return "nothing_to_roll_back"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Result is the outcome of one command. Only the fields relevant to Kind
// are set.
type Result struct {
	Kind  Kind
	Key   string // GET
	Value string // GET when Kind == KindValue
	Count int    // COUNT
	TxID  string // BEGIN, COMMIT, ROLLBACK
}

// Parse splits a line into a command name and its argument tokens.
// ok is false for a blank line.
func Parse(line string) (name string, args []string, ok bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil, false
	}
	return fields[0], fields[1:], true
}

// Execute runs one command against s. The name is matched
// case-insensitively.
func Execute(s *store.Store, name string, args []string) (Result, error) {
	cmd := strings.ToUpper(name)
	switch cmd {
	case Get:
		if len(args) != 1 {
			return Result{}, invalid(cmd, args)
		}
		key := args[0]
		value, ok := s.Get(key)
		if !ok {
			return Result{Kind: KindKeyNotSet, Key: key}, nil
		}
		return Result{Kind: KindValue, Key: key, Value: value}, nil

	case Set:
		if len(args) < 2 {
			return Result{}, invalid(cmd, args)
		}
		s.Set(args[0], strings.Join(args[1:], " "))
		return Result{Kind: KindOK}, nil

	case Delete:
		if len(args) != 1 {
			return Result{}, invalid(cmd, args)
		}
		s.Delete(args[0])
		return Result{Kind: KindOK}, nil

	case Count:
		if len(args) == 0 {
			return Result{}, invalid(cmd, args)
		}
		return Result{Kind: KindCount, Count: s.Count(strings.Join(args, " "))}, nil

	case Begin:
		if len(args) != 0 {
			return Result{}, invalid(cmd, args)
		}
		cp, err := s.Begin()
		if err != nil {
			return Result{}, err
		}
		return Result{Kind: KindOK, TxID: cp.ID}, nil

	case Commit:
		if len(args) != 0 {
			return Result{}, invalid(cmd, args)
		}
		cp, ok := s.Commit()
		if !ok {
			return Result{Kind: KindNothingToCommit}, nil
		}
		return Result{Kind: KindCommitted, TxID: cp.ID}, nil

	case Rollback:
		if len(args) != 0 {
			return Result{}, invalid(cmd, args)
		}
		cp, ok := s.Rollback()
		if !ok {
			return Result{Kind: KindNothingToRollBack}, nil
		}
		return Result{Kind: KindRolledBack, TxID: cp.ID}, nil
	}

	input := strings.TrimSpace(strings.Join(append([]string{name}, args...), " "))
	return Result{}, &UnknownCommandError{Input: input}
}

// ExecuteLine parses and executes a single input line. ok is false when
// the line is blank and nothing was executed.
func ExecuteLine(s *store.Store, line string) (res Result, ok bool, err error) {
	name, args, ok := Parse(line)
	if !ok {
		return Result{}, false, nil
	}
	res, err = Execute(s, name, args)
	return res, true, err
}

// Render formats the outcome of Execute the way the shell prints it.
// An empty string means there is nothing to print.
func Render(res Result, err error) string {
	if err != nil {
		var ia *InvalidArgumentsError
		var uc *UnknownCommandError
		var de *transaction.DepthExceededError
		switch {
		case errors.As(err, &ia):
			return "Invalid use of " + ia.Command + ": " + strings.Join(ia.Args, " ")
		case errors.As(err, &uc):
			return "Command not recognized: " + uc.Input
		case errors.As(err, &de):
			return "Transaction depth limit " + strconv.Itoa(de.Limit) + " reached"
		default:
			return "Error: " + err.Error()
		}
	}

	switch res.Kind {
	case KindValue:
		return res.Value
	case KindKeyNotSet:
		return "Key " + res.Key + " not set"
	case KindCount:
		return strconv.Itoa(res.Count)
	case KindCommitted:
		return "Transaction committed successfully"
	case KindNothingToCommit:
		return "No transactions to commit"
	case KindRolledBack:
		return "Transaction rolled back successfully"
	case KindNothingToRollBack:
		return "No transactions to roll back"
	default:
		return ""
	}
}

func invalid(cmd string, args []string) error {
	return &InvalidArgumentsError{Command: cmd, Args: append([]string(nil), args...)}
}
