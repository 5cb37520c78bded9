package formats

import (
	"strconv"
	"strings"

	"github.com/tmarceau/croquis/pkg/errors"
	"github.com/tmarceau/croquis/pkg/treebank"
)

const dialectConll2009 = "CoNLL-2009"

// splitConll2009 splits a CoNLL-2009 line into its 14 fixed columns plus the
// variadic APRED tail.
func splitConll2009(b Block, i int) ([]string, error) {
	line := strings.TrimSpace(b.Lines[i])
	cols := strings.Split(line, "\t")
	if len(cols) < 14 {
		return nil, errors.New(errors.ErrCodeInvalidField,
			"at line %d: at least 14 columns expected, got %d (%q)", b.num(i), len(cols), line)
	}
	return cols, nil
}

// parseConll2009GoldBlock parses one tree using the gold columns of the
// CoNLL-2009 dialect. The predicted mirror columns and the predicate data
// are folded into MISC so nothing is silently discarded.
func parseConll2009GoldBlock(b Block) (*treebank.Tree, error) {
	protos := []*protoNode{{node: treebank.NewRoot()}}
	remap := map[int]int{0: 0}

	for i := range b.Lines {
		cols, err := splitConll2009(b, i)
		if err != nil {
			return nil, err
		}

		id, err := parseID(cols[0], true)
		if err != nil {
			return nil, errors.NewFieldError(b.num(i), "ID", dialectConll2009, cols[0])
		}

		lemma := lemmaNoSpace(cols[2])

		feats, ok := parseFeats(cols[6])
		if !ok {
			return nil, errors.NewFieldError(b.num(i), "FEAT", dialectConll2009, cols[6])
		}

		head, err := parseID(cols[8], false)
		if err != nil {
			return nil, errors.NewFieldError(b.num(i), "HEAD", dialectConll2009, cols[8])
		}

		// The predicted head column tolerates "_" (no prediction).
		pheadRaw, pdeprel := "", ""
		if cols[9] != treebank.Absent {
			phead, err := parseID(cols[9], false)
			if err != nil {
				return nil, errors.NewFieldError(b.num(i), "PHEAD", dialectConll2009, cols[9])
			}
			if phead != 0 {
				pheadRaw = strconv.Itoa(phead)
			}
			pdeprel = cols[11]
		}

		misc := foldMisc([]miscPair{
			{"ppos", cols[5]},
			{"phead", pheadRaw},
			{"pdeprel", pdeprel},
			{"fillpred", cols[12]},
			{"pred", cols[13]},
			{"apreds", strings.Join(cols[14:], ",")},
		})

		expand(&protos, remap, id, cols[1], &treebank.Node{
			Lemma:  treebank.ParseField(lemma),
			UPOS:   treebank.ParseField(cols[4]),
			Feats:  feats,
			Deprel: treebank.ParseField(cols[10]),
			Misc:   misc,
		}, head)
	}

	return finish(protos, remap, b.Meta)
}

// parseConll2009SysBlock parses one tree using the predicted columns of the
// CoNLL-2009 dialect. The gold mirror columns are folded into MISC.
func parseConll2009SysBlock(b Block) (*treebank.Tree, error) {
	protos := []*protoNode{{node: treebank.NewRoot()}}
	remap := map[int]int{0: 0}

	for i := range b.Lines {
		cols, err := splitConll2009(b, i)
		if err != nil {
			return nil, err
		}

		id, err := parseID(cols[0], true)
		if err != nil {
			return nil, errors.NewFieldError(b.num(i), "ID", dialectConll2009, cols[0])
		}

		plemma := lemmaNoSpace(cols[3])

		pfeats, ok := parseFeats(cols[7])
		if !ok {
			return nil, errors.NewFieldError(b.num(i), "PFEAT", dialectConll2009, cols[7])
		}

		phead, err := parseID(cols[9], false)
		if err != nil {
			return nil, errors.NewFieldError(b.num(i), "PHEAD", dialectConll2009, cols[9])
		}

		// The gold head column tolerates "_" (sys-only file).
		headRaw, deprel := "", ""
		if cols[8] != treebank.Absent {
			head, err := parseID(cols[8], false)
			if err != nil {
				return nil, errors.NewFieldError(b.num(i), "HEAD", dialectConll2009, cols[8])
			}
			if head != 0 {
				headRaw = strconv.Itoa(head)
			}
			deprel = cols[10]
		}

		misc := foldMisc([]miscPair{
			{"pos", cols[4]},
			{"head", headRaw},
			{"deprel", deprel},
			{"fillpred", cols[12]},
			{"pred", cols[13]},
			{"apreds", strings.Join(cols[14:], ",")},
		})

		expand(&protos, remap, id, cols[1], &treebank.Node{
			Lemma:  treebank.ParseField(plemma),
			UPOS:   treebank.ParseField(cols[5]),
			Feats:  pfeats,
			Deprel: treebank.ParseField(cols[11]),
			Misc:   misc,
		}, phead)
	}

	return finish(protos, remap, b.Meta)
}

// expand appends node (and its renumbering) to the proto list, splitting a
// multi-token FORM the same way the CoNLL-X parser does.
func expand(protos *[]*protoNode, remap map[int]int, id int, form string, node *treebank.Node, head int) {
	tokens := tokenRe.FindAllString(form, -1)
	if len(tokens) == 0 {
		tokens = []string{form}
	}

	node.ID = len(*protos)
	node.Form = treebank.FieldOf(tokens[0])
	remap[id] = node.ID
	*protos = append(*protos, &protoNode{node: node, head: head})

	for _, tok := range tokens[1:] {
		*protos = append(*protos, &protoNode{
			node: &treebank.Node{
				ID:     len(*protos),
				Form:   treebank.FieldOf(tok),
				Deprel: treebank.FieldOf("fixed"),
			},
			head: id,
		})
	}
}

func finish(protos []*protoNode, remap map[int]int, meta treebank.Meta) (*treebank.Tree, error) {
	if err := renumber(protos, remap); err != nil {
		return nil, err
	}
	tree, err := resolve(protos, nil)
	if err != nil {
		return nil, err
	}
	tree.Meta = meta
	return tree, nil
}

// marshalConll2009Gold writes a tree back out with the canonical data in the
// gold columns and every mirror column blanked.
func marshalConll2009Gold(t *treebank.Tree) string {
	lines := make([]string, 0, t.WordCount())
	for _, n := range t.Words() {
		lines = append(lines, strings.Join([]string{
			strconv.Itoa(n.ID), n.Form.String(), n.Lemma.String(), "_",
			n.UPOS.String(), "_", n.Feats.String(), "_",
			marshalHead(n), "_", n.Deprel.String(), "_", "_", "_", "_",
		}, "\t"))
	}
	return strings.Join(lines, "\n")
}

// marshalConll2009Sys is the mirror writer: canonical data in the predicted
// columns, gold columns blanked.
func marshalConll2009Sys(t *treebank.Tree) string {
	lines := make([]string, 0, t.WordCount())
	for _, n := range t.Words() {
		lines = append(lines, strings.Join([]string{
			strconv.Itoa(n.ID), n.Form.String(), "_", n.Lemma.String(),
			"_", n.UPOS.String(), "_", n.Feats.String(),
			"_", marshalHead(n), "_", n.Deprel.String(), "_", "_", "_",
		}, "\t"))
	}
	return strings.Join(lines, "\n")
}

func marshalHead(n *treebank.Node) string {
	if n.Head == nil {
		return treebank.Absent
	}
	return strconv.Itoa(n.Head.ID)
}
