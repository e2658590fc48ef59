package rule

import (
	"errors"
	"fmt"

	"github.com/npillmayer/mdkit/engine/tree"
)

// ErrUnknownLevel is returned when looking up rules for a level outside
// atomic, inline and block.
var ErrUnknownLevel = errors.New("unknown grammar level")

// ValidationError reports a rule failing structural validation.
type ValidationError struct {
	Field   string // level, name, start, parse or render
	Rule    string
	Level   tree.Level
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("rule %q (%s): field %s %s", e.Rule, e.Level, e.Field, e.Message)
}

// LookupError reports a missing rule for a node.
type LookupError struct {
	Level tree.Level
	Name  string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("no rule found for %s/%s", e.Level, e.Name)
}
