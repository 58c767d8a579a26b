package parse

import (
	"strings"

	"github.com/halvorsen/llgen"
)

// Node is one node of a concrete parse tree: a token together with its
// derived children, in production order. Terminal and epsilon nodes have
// no children.
type Node[TLex any, TSyntax comparable] struct {
	Children []*Node[TLex, TSyntax]
	Tok      llgen.Token[TLex, TSyntax]
}

func newLeaf[TLex any, TSyntax comparable](tok llgen.Token[TLex, TSyntax]) *Node[TLex, TSyntax] {
	return &Node[TLex, TSyntax]{Tok: tok}
}

func newInternal[TLex any, TSyntax comparable](tok llgen.Token[TLex, TSyntax], children []*Node[TLex, TSyntax]) *Node[TLex, TSyntax] {
	return &Node[TLex, TSyntax]{Tok: tok, Children: children}
}

// Yield returns the leaf tokens of the subtree rooted at n, in order.
// Epsilon leaves (no children, carrying the grammar's epsilon symbol)
// contribute nothing to the yield.
func (n *Node[TLex, TSyntax]) Yield(epsilon TSyntax) []llgen.Token[TLex, TSyntax] {
	if len(n.Children) == 0 {
		if n.Tok.TType() == epsilon {
			return nil
		}
		return []llgen.Token[TLex, TSyntax]{n.Tok}
	}
	var out []llgen.Token[TLex, TSyntax]
	for _, c := range n.Children {
		out = append(out, c.Yield(epsilon)...)
	}
	return out
}

func (n *Node[TLex, TSyntax]) String() string {
	if len(n.Children) == 0 {
		return n.Tok.String()
	}
	parts := make([]string, len(n.Children))
	for i, c := range n.Children {
		parts[i] = c.String()
	}
	return n.Tok.String() + "(" + strings.Join(parts, ", ") + ")"
}

// Tree is a concrete parse tree produced by a successful parse.
type Tree[TLex any, TSyntax comparable] struct {
	Root *Node[TLex, TSyntax]
}
