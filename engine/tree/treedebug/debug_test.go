package treedebug

import (
	"strings"
	"testing"

	"github.com/npillmayer/mdkit/engine/tree"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphViz(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mdkit.engine")
	defer teardown()
	//
	cell1 := tree.Branch{Nodes: []*tree.Node{tree.NewText("a", 0)}}
	cell2 := tree.Branch{Nodes: []*tree.Node{tree.NewText("b \"q\"", 0)}}
	ch := tree.Values(cell1, cell2)
	table := &tree.Node{Type: tree.Block, Name: "table", Raw: "|a|b|\n", Children: &ch}
	var out strings.Builder
	err := ToGraphViz([]*tree.Node{table}, &out, tracing.Select("mdkit.engine"))
	require.NoError(t, err)
	dot := out.String()
	t.Log(dot)
	assert.True(t, strings.HasPrefix(dot, "digraph g {"))
	assert.Contains(t, dot, "root -> node00001")
	assert.Contains(t, dot, `node00001 -> node00003 [weight=1 label="1"]`)
	assert.Contains(t, dot, `\"q\"`)
	assert.True(t, strings.HasSuffix(dot, "}\n"))
}
