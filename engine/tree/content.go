package tree

import "github.com/npillmayer/mdkit/core"

// Override carries the options a child-content descriptor sets explicitly.
// Unset fields are inherited from the parent tokenization.
type Override struct {
	MaxLevel              Level
	SkipParagraphWrapping bool
	LineBreak             LineBreak
	hasLevel              bool
	hasSkip               bool
	hasBreak              bool
}

// HasMaxLevel is true if the override requests a maximum level.
func (o Override) HasMaxLevel() bool { return o.hasLevel }

// HasSkip is true if the override sets paragraph wrapping.
func (o Override) HasSkip() bool { return o.hasSkip }

// HasLineBreak is true if the override sets a line-break mode.
func (o Override) HasLineBreak() bool { return o.hasBreak }

// Apply returns inherited options overridden by o. The maximum level is
// returned unclamped; clamping against the parent rule happens in the tokenizer.
func (o Override) Apply(inherited Options) Options {
	opts := inherited
	if o.hasLevel {
		opts.MaxLevel = o.MaxLevel
	}
	if o.hasSkip {
		opts.SkipParagraphWrapping = o.SkipParagraphWrapping
	}
	if o.hasBreak {
		opts.LineBreak = o.LineBreak
	}
	return opts
}

// OverrideOption configures a child-content descriptor.
type OverrideOption func(*Override) error

// WithMaxLevel requests a maximum level by name.
func WithMaxLevel(name string) OverrideOption {
	return func(o *Override) error {
		l, err := ParseLevel(name)
		if err != nil {
			return err
		}
		o.MaxLevel, o.hasLevel = l, true
		return nil
	}
}

// AtLevel requests a maximum level.
func AtLevel(l Level) OverrideOption {
	return func(o *Override) error {
		if !l.Valid() {
			return core.Error(core.EINVALID, "invalid grammar level %s", l)
		}
		o.MaxLevel, o.hasLevel = l, true
		return nil
	}
}

// WithLineBreak selects a line-break mode by name.
func WithLineBreak(name string) OverrideOption {
	return func(o *Override) error {
		lb, err := ParseLineBreak(name)
		if err != nil {
			return err
		}
		o.LineBreak, o.hasBreak = lb, true
		return nil
	}
}

// WithoutParagraphs suppresses paragraph wrapping for the child content.
func WithoutParagraphs() OverrideOption {
	return func(o *Override) error {
		o.SkipParagraphWrapping, o.hasSkip = true, true
		return nil
	}
}

// WithParagraphs forces paragraph wrapping for block-level child content.
func WithParagraphs() OverrideOption {
	return func(o *Override) error {
		o.SkipParagraphWrapping, o.hasSkip = false, true
		return nil
	}
}

// Content is a child-content descriptor: text to tokenize as an independent
// sub-document, plus option overrides.
type Content struct {
	Text     string
	Override Override
}

// NewContent creates a child-content descriptor. Invalid level names or
// line-break modes are reported here, not at tokenize time.
func NewContent(text string, opts ...OverrideOption) (Content, error) {
	c := Content{Text: text}
	for _, opt := range opts {
		if err := opt(&c.Override); err != nil {
			return Content{}, err
		}
	}
	return c, nil
}

// MustContent is NewContent for statically known options. It panics on error.
func MustContent(text string, opts ...OverrideOption) Content {
	c, err := NewContent(text, opts...)
	if err != nil {
		panic(err)
	}
	return c
}
