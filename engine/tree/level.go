package tree

import (
	"fmt"

	"github.com/npillmayer/mdkit/core"
)

// Level is a grammar precedence level.
type Level int8

// Levels, from finest to coarsest. The numeric order is significant:
// a smaller level is a finer grammar.
const (
	Atomic Level = iota
	Inline
	Block
)

var levelNames = [...]string{"atomic", "inline", "block"}

func (l Level) String() string {
	if !l.Valid() {
		return fmt.Sprintf("level(%d)", int(l))
	}
	return levelNames[l]
}

// Valid is true for Atomic, Inline and Block.
func (l Level) Valid() bool {
	return l >= Atomic && l <= Block
}

// ParseLevel returns the level for a level name.
func ParseLevel(name string) (Level, error) {
	for i, n := range levelNames {
		if n == name {
			return Level(i), nil
		}
	}
	return Atomic, core.Error(core.EINVALID, "invalid grammar level %q", name)
}

// Min returns the finer of two levels.
func Min(a, b Level) Level {
	if a < b {
		return a
	}
	return b
}

// LevelsFrom lists the levels a tokenizer visits for a maximum level,
// coarsest first.
func LevelsFrom(max Level) []Level {
	levels := make([]Level, 0, 3)
	for l := max; l >= Atomic; l-- {
		levels = append(levels, l)
	}
	return levels
}

// LineBreak selects how soft line breaks are treated during normalization.
type LineBreak int8

const (
	// CommonMark keeps a single newline as a soft join and emits a break
	// for a run of consecutive breaks.
	CommonMark LineBreak = iota
	// Soft emits the first break of every run.
	Soft
)

func (lb LineBreak) String() string {
	switch lb {
	case CommonMark:
		return "common-mark"
	case Soft:
		return "soft"
	}
	return fmt.Sprintf("linebreak(%d)", int(lb))
}

// ParseLineBreak returns the line-break mode for a mode name.
func ParseLineBreak(name string) (LineBreak, error) {
	switch name {
	case "common-mark":
		return CommonMark, nil
	case "soft":
		return Soft, nil
	}
	return CommonMark, core.Error(core.EINVALID, "invalid line-break mode %q", name)
}

// Options configure a tokenize call.
type Options struct {
	MaxLevel              Level
	SkipParagraphWrapping bool
	LineBreak             LineBreak
}

// DefaultOptions returns block level, paragraph wrapping and CommonMark breaks.
func DefaultOptions() Options {
	return Options{MaxLevel: Block, LineBreak: CommonMark}
}
