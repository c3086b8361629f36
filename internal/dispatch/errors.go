package dispatch

import (
	"errors"
	"fmt"
)

// These mirror the original implementation's error strings exactly —
// clients written against that implementation match on them.
var (
	errMissingArguments = errors.New("Command missing some arguments")
	errInvalidType      = errors.New("Invalid request type for command")
	errUnknownCommand   = errors.New("Unknown command")
)

func errInvalidTypeFor(what string) error {
	return fmt.Errorf("Invalid request type for %s", what)
}
