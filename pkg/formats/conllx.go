package formats

import (
	"regexp"
	"strings"

	"github.com/tmarceau/croquis/pkg/errors"
	"github.com/tmarceau/croquis/pkg/treebank"
)

const dialectConllx = "CoNLL-X"

// tokenRe splits a legacy FORM cell holding several surface tokens: runs of
// word characters, or any single non-space character.
var tokenRe = regexp.MustCompile(`[\p{L}\p{N}_]+|\S`)

// parseConllxBlock parses one tree in the legacy CoNLL-X dialect.
//
// Identifiers are renumbered on the fly: a FORM cell holding several tokens
// expands into one node per token, the extra tokens attached to the first
// with the "fixed" relation. Head references use the original numbering and
// are remapped during resolution. PHEAD/PDEPREL become a secondary dep.
func parseConllxBlock(b Block) (*treebank.Tree, error) {
	protos := []*protoNode{{node: treebank.NewRoot()}}
	remap := map[int]int{0: 0}

	for i, raw := range b.Lines {
		line := strings.TrimSpace(raw)
		cols := strings.Split(line, "\t")
		if len(cols) != 10 {
			return nil, errors.New(errors.ErrCodeInvalidField,
				"at line %d: 10 columns expected, got %d (%q)", b.num(i), len(cols), line)
		}

		id, err := parseID(cols[0], true)
		if err != nil {
			return nil, errors.NewFieldError(b.num(i), "ID", dialectConllx, cols[0])
		}

		lemma := lemmaNoSpace(cols[2])

		feats, ok := parseFeats(cols[5])
		if !ok {
			return nil, errors.NewFieldError(b.num(i), "FEATS", dialectConllx, cols[5])
		}

		head, err := parseID(cols[6], false)
		if err != nil {
			return nil, errors.NewFieldError(b.num(i), "HEAD", dialectConllx, cols[6])
		}

		var deps []rawDep
		if cols[8] != treebank.Absent {
			phead, err := parseID(cols[8], false)
			if err != nil {
				return nil, errors.NewFieldError(b.num(i), "PHEAD", dialectConllx, cols[8])
			}
			deps = []rawDep{{head: phead, deprel: cols[9]}}
		}

		tokens := tokenRe.FindAllString(cols[1], -1)
		if len(tokens) == 0 {
			tokens = []string{cols[1]}
		}

		real := len(protos)
		remap[id] = real
		protos = append(protos, &protoNode{
			node: &treebank.Node{
				ID:     real,
				Form:   treebank.FieldOf(tokens[0]),
				Lemma:  treebank.ParseField(lemma),
				UPOS:   treebank.ParseField(cols[3]),
				XPOS:   treebank.ParseField(cols[4]),
				Feats:  feats,
				Deprel: treebank.ParseField(cols[7]),
			},
			head: head,
			deps: deps,
		})
		for _, tok := range tokens[1:] {
			protos = append(protos, &protoNode{
				node: &treebank.Node{
					ID:     len(protos),
					Form:   treebank.FieldOf(tok),
					Deprel: treebank.FieldOf("fixed"),
				},
				head: id, // original numbering, remapped to the first token below
			})
		}
	}

	if err := renumber(protos, remap); err != nil {
		return nil, err
	}
	tree, err := resolve(protos, nil)
	if err != nil {
		return nil, err
	}
	tree.Meta = b.Meta
	return tree, nil
}

// renumber rewrites placeholder head identifiers from the source numbering
// to the dense post-expansion numbering.
func renumber(protos []*protoNode, remap map[int]int) error {
	for _, p := range protos[1:] {
		real, ok := remap[p.head]
		if !ok {
			return errors.New(errors.ErrCodeStructure,
				"node %d references head %d, absent from tree", p.node.ID, p.head)
		}
		p.head = real
		for j, d := range p.deps {
			real, ok := remap[d.head]
			if !ok {
				return errors.New(errors.ErrCodeStructure,
					"node %d references dep head %d, absent from tree", p.node.ID, d.head)
			}
			p.deps[j].head = real
		}
	}
	return nil
}
