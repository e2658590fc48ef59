/*
Package treedebug writes document trees in GraphViz DOT format.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package treedebug

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/npillmayer/mdkit/engine/tree"
	"github.com/npillmayer/schuko/tracing"
)

// Parameters for GraphViz drawing.
type graphParamsType struct {
	Fontname string
	NodeTmpl *template.Template
	EdgeTmpl *template.Template
	cnt      int
}

// maxNodes guards against runaway output for huge documents.
const maxNodes = 5000

// ToGraphViz creates a graphical representation of a document tree.
// It produces a DOT file format suitable as input for Graphviz, given a Writer.
func ToGraphViz(nodes []*tree.Node, w io.Writer, tracer tracing.Trace) error {
	header, err := template.New("docTree").Parse(graphHeadTmpl)
	if err != nil {
		return err
	}
	gparams := graphParamsType{Fontname: "Helvetica"}
	gparams.NodeTmpl = template.Must(template.New("node").Funcs(
		template.FuncMap{
			"shortstring": shortText,
			"label":       label,
			"fill":        fillColor,
		}).Parse(nodeTmpl))
	gparams.EdgeTmpl = template.Must(template.New("edge").Parse(edgeTmpl))
	if err = header.Execute(w, gparams); err != nil {
		return err
	}
	dict := make(map[*tree.Node]string, 256)
	if _, err = io.WriteString(w, "root\t[ label=\"document\" shape=box style=rounded ] ;\n"); err != nil {
		return err
	}
	for _, n := range nodes {
		if err = walk(n, w, dict, &gparams, tracer); err != nil {
			return err
		}
		if err = edge("root", dict[n], "", w, &gparams); err != nil {
			return err
		}
	}
	_, err = w.Write([]byte("}\n"))
	return err
}

func walk(n *tree.Node, w io.Writer, dict map[*tree.Node]string, gparams *graphParamsType,
	tracer tracing.Trace) error {
	//
	gparams.cnt++
	if gparams.cnt > maxNodes {
		return nil
	}
	name := fmt.Sprintf("node%05d", len(dict)+1)
	dict[n] = name
	if err := gparams.NodeTmpl.Execute(w, &dnode{N: n, Name: name}); err != nil {
		return err
	}
	tracer.Debugf("node = %v", n)
	if n.Children == nil {
		return nil
	}
	slots := n.Children.Flatten()
	for i, br := range slots {
		slot := ""
		if len(slots) > 1 {
			slot = fmt.Sprintf("%d", i)
		}
		for _, child := range br.Nodes {
			if err := walk(child, w, dict, gparams, tracer); err != nil {
				return err
			}
			if dict[child] == "" {
				continue
			}
			if err := edge(name, dict[child], slot, w, gparams); err != nil {
				return err
			}
		}
	}
	return nil
}

// Helper structs
type dnode struct {
	N    *tree.Node
	Name string
}

type dedge struct {
	From, To, Slot string
}

func edge(from, to, slot string, w io.Writer, gparams *graphParamsType) error {
	return gparams.EdgeTmpl.Execute(w, dedge{from, to, slot})
}

func shortText(n *tree.Node) string {
	txt := n.Raw
	if r := []rune(txt); len(r) > 12 {
		txt = string(r[:12]) + "…"
	}
	txt = strings.ReplaceAll(txt, `\`, `\\`)
	txt = strings.ReplaceAll(txt, `"`, `\"`)
	txt = strings.ReplaceAll(txt, "\n", `\\n`)
	txt = strings.ReplaceAll(txt, "\t", `\\t`)
	txt = strings.ReplaceAll(txt, " ", "␣")
	return "\"" + txt + "\""
}

func label(n *tree.Node) string {
	return fmt.Sprintf("\"%s %s\"", levelSymbol(n.Type), n.Name)
}

func levelSymbol(l tree.Level) string {
	switch l {
	case tree.Block:
		return "▢" // ▢
	case tree.Inline:
		return "▭" // ▭
	}
	return "·"
}

func fillColor(n *tree.Node) string {
	switch n.Type {
	case tree.Block:
		if n.IsParagraph() {
			return "lightblue1"
		}
		return "lightblue3"
	case tree.Inline:
		return "palegreen"
	}
	return "grey95"
}

// --- Templates --------------------------------------------------------

const graphHeadTmpl = `digraph g {
  graph [labelloc="t" label="" splines=true overlap=false rankdir = "LR"];
  graph [fontname = "{{ .Fontname }}" fontsize=12] ;
   node [fontname = "{{ .Fontname }}" fontsize=12] ;
   edge [fontname = "{{ .Fontname }}" fontsize=12] ;
`

const nodeTmpl = `{{ if eq .N.Type 0 }}{{ .Name }}	[ label={{ shortstring .N }} xlabel={{ label .N }} shape=box style=filled fillcolor={{ fill .N }} fontname="Courier" fontsize=11.0 ] ;
{{ else }}{{ .Name }}	[ label={{ label .N }} shape=box style=filled fillcolor={{ fill .N }} ] ;
{{ end }}`

const edgeTmpl = `{{ .From }} -> {{ .To }} [weight=1{{ if .Slot }} label="{{ .Slot }}"{{ end }}] ;
`
