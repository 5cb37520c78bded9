package formats

import (
	"regexp"
	"strings"

	"github.com/tmarceau/croquis/pkg/errors"
	"github.com/tmarceau/croquis/pkg/treebank"
)

const dialectConllu = "CoNLL-U"

var (
	spanIDRe  = regexp.MustCompile(`^(\d+)-(\d+)$`)
	emptyIDRe = regexp.MustCompile(`^\d+\.\d+$`)
)

// protoNode is a node whose head and secondary deps are still placeholder
// identifiers, pending the resolution pass.
type protoNode struct {
	node *treebank.Node
	head int
	deps []rawDep
}

// protoSpan is a multiword token whose covered range is still expressed as
// placeholder identifiers.
type protoSpan struct {
	form        treebank.Field
	first, last int
	line        int
}

// parseConlluBlock parses one tree in the canonical CoNLL-U dialect.
//
// Multiword "a-b" lines become MultiTokenNodes; elided "a.b" nodes are
// skipped entirely (a deliberate lossy simplification).
func parseConlluBlock(b Block) (*treebank.Tree, error) {
	protos := []*protoNode{{node: treebank.NewRoot()}}
	var spans []protoSpan

	for i, raw := range b.Lines {
		line := strings.TrimSpace(raw)
		cols := strings.Split(line, "\t")
		if len(cols) != 10 {
			return nil, errors.New(errors.ErrCodeInvalidField,
				"at line %d: 10 columns expected, got %d (%q)", b.num(i), len(cols), line)
		}

		if m := spanIDRe.FindStringSubmatch(cols[0]); m != nil {
			first, err := parseID(m[1], false)
			if err != nil {
				return nil, errors.NewFieldError(b.num(i), "ID", dialectConllu, cols[0])
			}
			last, err := parseID(m[2], false)
			if err != nil {
				return nil, errors.NewFieldError(b.num(i), "ID", dialectConllu, cols[0])
			}
			spans = append(spans, protoSpan{
				form:  treebank.ParseField(cols[1]),
				first: first,
				last:  last,
				line:  b.num(i),
			})
			continue
		}

		id, err := parseID(cols[0], true)
		if err != nil {
			if emptyIDRe.MatchString(cols[0]) {
				continue // elided node
			}
			return nil, errors.NewFieldError(b.num(i), "ID", dialectConllu, cols[0])
		}

		feats, ok := parseFeats(cols[5])
		if !ok {
			return nil, errors.NewFieldError(b.num(i), "FEATS", dialectConllu, cols[5])
		}

		head, err := parseID(cols[6], false)
		if err != nil {
			return nil, errors.NewFieldError(b.num(i), "HEAD", dialectConllu, cols[6])
		}

		deps, ok := parseDeps(cols[8])
		if !ok {
			return nil, errors.NewFieldError(b.num(i), "DEPS", dialectConllu, cols[8])
		}

		protos = append(protos, &protoNode{
			node: &treebank.Node{
				ID:     id,
				Form:   treebank.ParseField(cols[1]),
				Lemma:  treebank.ParseField(cols[2]),
				UPOS:   treebank.ParseField(cols[3]),
				XPOS:   treebank.ParseField(cols[4]),
				Feats:  feats,
				Deprel: treebank.ParseField(cols[7]),
				Misc:   treebank.ParseField(cols[9]),
			},
			head: head,
			deps: deps,
		})
	}

	tree, err := resolve(protos, spans)
	if err != nil {
		return nil, err
	}
	tree.Meta = b.Meta
	return tree, nil
}

// resolve is the shared phase-2 pass: every placeholder identifier is
// replaced by the actual node reference via an identifier lookup over the
// already-built node list. A referenced identifier absent from the tree is
// an INVALID_STRUCTURE error.
func resolve(protos []*protoNode, spans []protoSpan) (*treebank.Tree, error) {
	byID := make(map[int]*treebank.Node, len(protos))
	nodes := make([]*treebank.Node, len(protos))
	for i, p := range protos {
		if _, dup := byID[p.node.ID]; dup {
			return nil, errors.New(errors.ErrCodeStructure,
				"duplicate identifier %d", p.node.ID)
		}
		byID[p.node.ID] = p.node
		nodes[i] = p.node
	}

	for _, p := range protos[1:] {
		head, ok := byID[p.head]
		if !ok {
			return nil, errors.New(errors.ErrCodeStructure,
				"node %d references head %d, absent from tree", p.node.ID, p.head)
		}
		p.node.Head = head

		for _, d := range p.deps {
			target, ok := byID[d.head]
			if !ok {
				return nil, errors.New(errors.ErrCodeStructure,
					"node %d references dep head %d, absent from tree", p.node.ID, d.head)
			}
			p.node.Deps = append(p.node.Deps, treebank.Dep{Head: target, Deprel: d.deprel})
		}
	}

	mtns := make([]*treebank.MultiTokenNode, 0, len(spans))
	for _, s := range spans {
		if s.last < s.first {
			return nil, errors.New(errors.ErrCodeStructure,
				"empty multiword span %d-%d at line %d", s.first, s.last, s.line)
		}
		if s.first == 0 {
			return nil, errors.New(errors.ErrCodeStructure,
				"multiword span %d-%d at line %d covers the root", s.first, s.last, s.line)
		}
		covered := make([]*treebank.Node, 0, s.last-s.first+1)
		for id := s.first; id <= s.last; id++ {
			n, ok := byID[id]
			if !ok {
				return nil, errors.New(errors.ErrCodeStructure,
					"multiword span %d-%d covers identifier %d, absent from tree", s.first, s.last, id)
			}
			covered = append(covered, n)
		}
		mtns = append(mtns, &treebank.MultiTokenNode{Span: covered, Form: s.form})
	}

	return treebank.New(nodes, mtns)
}
