package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/tmarceau/croquis/pkg/errors"
	"github.com/tmarceau/croquis/pkg/treebank"
)

// ReadJSON decodes the JSON treebank format from r.
//
// The input must be a JSON object with a "trees" array; each tree carries a
// "words" array and an optional "spans" array. Head and dep references are
// word identifiers and must resolve within the same tree; identifier 0 is
// the synthetic root, which is never listed explicitly.
//
// ReadJSON returns an error if the JSON is malformed, a reference dangles,
// or a span covers identifiers that are not part of the tree. The returned
// trees are independent of r; ReadJSON does not close r.
func ReadJSON(r io.Reader) ([]*treebank.Tree, error) {
	var data document
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode")
	}

	trees := make([]*treebank.Tree, len(data.Trees))
	for i, t := range data.Trees {
		tree, err := unmarshalTree(t)
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		trees[i] = tree
	}
	return trees, nil
}

// ImportJSON reads a JSON file at path and returns the decoded trees.
// It returns the same validation errors as [ReadJSON], wrapped with the
// file path for context.
func ImportJSON(path string) ([]*treebank.Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return ReadJSON(f)
}

func unmarshalTree(t tree) (*treebank.Tree, error) {
	nodes := []*treebank.Node{treebank.NewRoot()}
	byID := map[int]*treebank.Node{0: nodes[0]}

	for _, w := range t.Words {
		n := &treebank.Node{
			ID:     w.ID,
			Form:   fieldOf(w.Form),
			Lemma:  fieldOf(w.Lemma),
			UPOS:   fieldOf(w.UPOS),
			XPOS:   fieldOf(w.XPOS),
			Deprel: fieldOf(w.Deprel),
			Misc:   fieldOf(w.Misc),
		}
		for _, f := range w.Feats {
			n.Feats = append(n.Feats, treebank.Feat{Name: f.Name, Value: f.Value})
		}
		if _, dup := byID[w.ID]; dup {
			return nil, errors.New(errors.ErrCodeStructure, "duplicate word identifier %d", w.ID)
		}
		byID[w.ID] = n
		nodes = append(nodes, n)
	}

	// Second pass: resolve references now that every word exists.
	for _, w := range t.Words {
		n := byID[w.ID]
		if w.Head != nil {
			head, ok := byID[*w.Head]
			if !ok {
				return nil, errors.New(errors.ErrCodeStructure,
					"word %d references head %d, absent from tree", w.ID, *w.Head)
			}
			n.Head = head
		}
		for _, d := range w.Deps {
			head, ok := byID[d.Head]
			if !ok {
				return nil, errors.New(errors.ErrCodeStructure,
					"word %d references dep head %d, absent from tree", w.ID, d.Head)
			}
			n.Deps = append(n.Deps, treebank.Dep{Head: head, Deprel: d.Deprel})
		}
	}

	var spans []*treebank.MultiTokenNode
	for _, s := range t.Spans {
		if s.Last < s.First {
			return nil, errors.New(errors.ErrCodeStructure, "empty span %d-%d", s.First, s.Last)
		}
		covered := make([]*treebank.Node, 0, s.Last-s.First+1)
		for id := s.First; id <= s.Last; id++ {
			n, ok := byID[id]
			if !ok {
				return nil, errors.New(errors.ErrCodeStructure,
					"span %d-%d covers identifier %d, absent from tree", s.First, s.Last, id)
			}
			covered = append(covered, n)
		}
		spans = append(spans, &treebank.MultiTokenNode{Span: covered, Form: fieldOf(s.Form)})
	}

	tree, err := treebank.New(nodes, spans)
	if err != nil {
		return nil, err
	}
	tree.Meta = treebank.Meta{SentID: t.SentID, Text: t.Text}
	return tree, nil
}

func fieldOf(s *string) treebank.Field {
	if s == nil {
		return treebank.Field{}
	}
	return treebank.FieldOf(*s)
}
