/*
Package frontmatter splits a leading YAML block off Markdown source.

A front matter block starts with a line "---" at the very beginning of the
source and ends with a line "---" or "...":

	---
	title: Notes
	tags: [go, markdown]
	---
	# Notes

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package frontmatter

import (
	"strings"

	"github.com/npillmayer/mdkit/core"
	"github.com/npillmayer/schuko/tracing"
	"gopkg.in/yaml.v3"
)

func tracer() tracing.Trace {
	return tracing.Select("mdkit.markdown")
}

// Split returns the decoded front matter of src and the remaining body.
// Without a front matter block, meta is nil and body is src.
func Split(src string) (meta map[string]interface{}, body string, err error) {
	block, body, ok := cut(src)
	if !ok {
		return nil, src, nil
	}
	meta = make(map[string]interface{})
	if err = yaml.Unmarshal([]byte(block), &meta); err != nil {
		return nil, src, core.WrapError(err, core.EINVALID, "malformed front matter")
	}
	tracer().Debugf("front matter with %d keys", len(meta))
	return meta, body, nil
}

// cut separates the front matter block from the body.
func cut(src string) (block, body string, ok bool) {
	src = strings.TrimPrefix(src, "\ufeff")
	first, rest, found := strings.Cut(src, "\n")
	if !found || strings.TrimRight(first, " \t\r") != "---" {
		return "", src, false
	}
	pos := 0
	for pos <= len(rest) {
		line, _, more := strings.Cut(rest[pos:], "\n")
		end := pos + len(line)
		if more {
			end++
		}
		if t := strings.TrimRight(line, " \t\r"); t == "---" || t == "..." {
			return rest[:pos], rest[end:], true
		}
		if !more {
			break
		}
		pos = end
	}
	return "", src, false
}
