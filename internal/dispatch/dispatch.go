// Package dispatch routes a parsed request to a keyspace operation and
// renders its reply as a wire frame. Every reply is exactly one frame;
// errors of any kind — arity, type coercion, or a failed keyspace
// operation — become a BulkError rather than closing the connection.
package dispatch

import (
	"strings"

	"github.com/volatixdb/volatix/internal/keyspace"
	"github.com/volatixdb/volatix/internal/wire"
)

// Dispatcher binds the command table to one Keyspace instance.
type Dispatcher struct {
	ks *keyspace.Keyspace
}

// New builds a Dispatcher serving ks.
func New(ks *keyspace.Keyspace) *Dispatcher {
	return &Dispatcher{ks: ks}
}

// handlerFunc executes one command against args — the request's
// elements after the command name — and returns the already-encoded
// reply frame.
type handlerFunc func(d *Dispatcher, args []wire.Node) []byte

// Dispatch decodes req's command name and arguments and runs the
// matching handler, or replies with a BulkError if the request is
// malformed or names an unknown command.
func (d *Dispatcher) Dispatch(req wire.Node) []byte {
	name, args, err := extractCommand(req)
	if err != nil {
		return wire.EncodeBulkError(err.Error())
	}

	handler, ok := commandTable[strings.ToUpper(name)]
	if !ok {
		return wire.EncodeBulkError(errUnknownCommand.Error())
	}
	return handler(d, args)
}

// extractCommand splits a request node into a command name and its
// arguments. A bare scalar frame is a zero-arg command; an Array's
// first element is the command name and the rest are arguments.
func extractCommand(req wire.Node) (string, []wire.Node, error) {
	switch req.Kind {
	case wire.KindArray:
		if len(req.Children) == 0 {
			return "", nil, errMissingArguments
		}
		name, err := textOf(req.Children[0])
		if err != nil {
			return "", nil, err
		}
		return name, req.Children[1:], nil
	case wire.KindBulkString, wire.KindSimpleString:
		return string(req.Bytes), nil, nil
	default:
		return "", nil, errInvalidType
	}
}

// requireArgs fails a command with errMissingArguments if it received
// fewer than n arguments.
func requireArgs(args []wire.Node, n int) error {
	if len(args) < n {
		return errMissingArguments
	}
	return nil
}
