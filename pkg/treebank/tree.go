package treebank

import (
	"slices"
	"strconv"
	"strings"

	"github.com/tmarceau/croquis/pkg/errors"
)

// Meta holds tree-level metadata extracted from "# key = value" comment
// lines. Unrecognized comment keys are ignored.
type Meta struct {
	SentID string
	Text   string
}

// Tree is one parsed sentence. It is built once by a dialect parser and
// treated as immutable afterwards; derived queries return new slices.
type Tree struct {
	// Meta carries sentence-level metadata. Set at construction time by the
	// parsers; informational only.
	Meta Meta

	nodes []*Node // identifier order, nodes[0] is the synthetic root
	spans []*MultiTokenNode
}

// New builds a Tree from reference-resolved nodes and multiword spans.
// Nodes are sorted by identifier defensively. Returns an INVALID_STRUCTURE
// error if identifier 0 is missing or any identifier is duplicated.
func New(nodes []*Node, spans []*MultiTokenNode) (*Tree, error) {
	sorted := slices.Clone(nodes)
	slices.SortStableFunc(sorted, func(a, b *Node) int { return a.ID - b.ID })

	if len(sorted) == 0 || sorted[0].ID != 0 {
		return nil, errors.New(errors.ErrCodeStructure, "tree has no root node (identifier 0)")
	}
	for i := 1; i < len(sorted); i++ {
		if sorted[i].ID == sorted[i-1].ID {
			return nil, errors.New(errors.ErrCodeStructure, "duplicate identifier %d", sorted[i].ID)
		}
	}

	return &Tree{nodes: sorted, spans: slices.Clone(spans)}, nil
}

// Root returns the synthetic root node.
func (t *Tree) Root() *Node { return t.nodes[0] }

// Nodes returns every true node in identifier order, root included.
// The returned slice is a copy; the nodes are shared.
func (t *Tree) Nodes() []*Node { return slices.Clone(t.nodes) }

// Words returns the word sequence: every node except the synthetic root.
// This is the sequence renderers operate on. Multiword spans are not part
// of it.
func (t *Tree) Words() []*Node { return slices.Clone(t.nodes[1:]) }

// Spans returns the multiword tokens, in input order.
func (t *Tree) Spans() []*MultiTokenNode { return slices.Clone(t.spans) }

// WordCount returns the number of non-root nodes.
func (t *Tree) WordCount() int { return len(t.nodes) - 1 }

// Descendants returns root and every node reachable from it by following
// is-head-of edges, skipping any child whose relation is in excluded.
// The result is in ascending-identifier order. The tree is not mutated.
func (t *Tree) Descendants(root *Node, excluded ...string) []*Node {
	skip := make(map[string]bool, len(excluded))
	for _, rel := range excluded {
		skip[rel] = true
	}

	var out []*Node
	var walk func(n *Node)
	walk = func(n *Node) {
		out = append(out, n)
		for _, c := range t.nodes {
			if c.Head == n && !skip[c.Deprel.Or("")] {
				walk(c)
			}
		}
	}
	walk(root)

	slices.SortFunc(out, func(a, b *Node) int { return a.ID - b.ID })
	return out
}

// ConllU serializes the tree to canonical CoNLL-U text, one token per line,
// without a trailing newline. The root is not emitted; multiword-span lines
// precede their first covered word.
func (t *Tree) ConllU() string {
	spanAt := make(map[*Node]*MultiTokenNode, len(t.spans))
	for _, s := range t.spans {
		spanAt[s.First()] = s
	}

	var lines []string
	for _, n := range t.nodes[1:] {
		if s, ok := spanAt[n]; ok {
			lines = append(lines, spanLine(s))
		}
		lines = append(lines, nodeLine(n))
	}
	return strings.Join(lines, "\n")
}

// String returns the canonical serialization.
func (t *Tree) String() string { return t.ConllU() }

func spanLine(s *MultiTokenNode) string {
	id := strconv.Itoa(s.First().ID) + "-" + strconv.Itoa(s.Last().ID)
	return strings.Join([]string{
		id, s.Form.String(), Absent, Absent, Absent, Absent, Absent, Absent, Absent, Absent,
	}, "\t")
}

func nodeLine(n *Node) string {
	head := Absent
	if n.Head != nil {
		head = strconv.Itoa(n.Head.ID)
	}
	return strings.Join([]string{
		strconv.Itoa(n.ID),
		n.Form.String(),
		n.Lemma.String(),
		n.UPOS.String(),
		n.XPOS.String(),
		n.Feats.String(),
		head,
		n.Deprel.String(),
		marshalDeps(n.Deps),
		n.Misc.String(),
	}, "\t")
}

func marshalDeps(deps []Dep) string {
	if len(deps) == 0 {
		return Absent
	}
	parts := make([]string, len(deps))
	for i, d := range deps {
		parts[i] = strconv.Itoa(d.Head.ID) + ":" + d.Deprel
	}
	return strings.Join(parts, "|")
}
