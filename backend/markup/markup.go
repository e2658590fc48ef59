/*
Package markup has helpers for writing HTML.

Escaping is delegated to golang.org/x/net/html, inline styles are built from
github.com/aymerick/douceur CSS declarations.

	markup.Element("td", cell, markup.Attr("style", markup.Style(markup.Decl("text-align", "right"))))

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package markup

import (
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func tracer() tracing.Trace {
	return tracing.Select("mdkit.markdown")
}

// Escape escapes text for use in HTML content and attribute values.
func Escape(s string) string {
	return html.EscapeString(s)
}

// Unescape reverses Escape. It also resolves entities like "&copy;".
func Unescape(s string) string {
	return html.UnescapeString(s)
}

// Attr creates an attribute.
func Attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

// Open returns a start tag. Attributes with an empty key are skipped.
func Open(tag string, attrs ...html.Attribute) string {
	if atom.Lookup([]byte(tag)) == 0 {
		tracer().Debugf("writing non-standard tag <%s>", tag)
	}
	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(tag)
	for _, a := range attrs {
		if a.Key == "" {
			continue
		}
		b.WriteByte(' ')
		b.WriteString(a.Key)
		b.WriteString(`="`)
		b.WriteString(Escape(a.Val))
		b.WriteByte('"')
	}
	b.WriteByte('>')
	return b.String()
}

// Close returns an end tag.
func Close(tag string) string {
	return "</" + tag + ">"
}

// Element wraps content, which must already be markup, in a start and end
// tag. For void elements, content is ignored.
func Element(tag, content string, attrs ...html.Attribute) string {
	if IsVoid(tag) {
		return Open(tag, attrs...)
	}
	return Open(tag, attrs...) + content + Close(tag)
}

// IsVoid is true for elements without end tag, like <br> or <img>.
func IsVoid(tag string) bool {
	switch atom.Lookup([]byte(tag)) {
	case atom.Area, atom.Base, atom.Br, atom.Col, atom.Embed, atom.Hr, atom.Img,
		atom.Input, atom.Link, atom.Meta, atom.Source, atom.Track, atom.Wbr:
		return true
	}
	return false
}

// IsBlock is true for elements which are rendered on lines of their own.
func IsBlock(tag string) bool {
	switch atom.Lookup([]byte(tag)) {
	case atom.P, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6, atom.Ul, atom.Ol,
		atom.Li, atom.Blockquote, atom.Pre, atom.Table, atom.Thead, atom.Tbody, atom.Tr,
		atom.Hr, atom.Div, atom.Section, atom.Dl, atom.Dt, atom.Dd:
		return true
	}
	return false
}

// Decl creates a CSS declaration.
func Decl(property, value string) *css.Declaration {
	return &css.Declaration{Property: property, Value: value}
}

// Style joins declarations into the value of a style attribute.
func Style(decls ...*css.Declaration) string {
	parts := make([]string, 0, len(decls))
	for _, d := range decls {
		if d == nil || d.Value == "" {
			continue
		}
		parts = append(parts, d.String())
	}
	return strings.Join(parts, " ")
}

// Alignment of a table column.
type Alignment int8

const (
	AlignNone Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
)

func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	}
	return ""
}

// AlignStyle returns a style attribute for an alignment, or an attribute
// with an empty key (skipped by Open) for AlignNone.
func AlignStyle(a Alignment) html.Attribute {
	if a == AlignNone {
		return html.Attribute{}
	}
	return Attr("style", Style(Decl("text-align", a.String())))
}
