package rule

import (
	"errors"
	"fmt"
)

// ErrIndexOutOfRange is returned when a list-valued strength or lifetime is
// shorter than the list of states it annotates.
var ErrIndexOutOfRange = errors.New("index out of range")

// GuardError reports that the guard or a precondition could not be
// evaluated. The rule did not fire and nothing was mutated.
type GuardError struct {
	Rule  string
	Facet Facet
	Err   error
}

func (e *GuardError) Error() string {
	return fmt.Sprintf("rule %s: evaluating %s: %v", e.Rule, e.Facet, e.Err)
}

func (e *GuardError) Unwrap() error { return e.Err }

// ActionError reports that an action could not be applied. Mutations made
// earlier in the same evaluation are kept.
type ActionError struct {
	Rule  string
	Facet Facet
	Err   error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("rule %s: applying %s: %v", e.Rule, e.Facet, e.Err)
}

func (e *ActionError) Unwrap() error { return e.Err }
