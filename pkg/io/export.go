package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/tmarceau/croquis/pkg/treebank"
)

type document struct {
	Trees []tree `json:"trees"`
}

type tree struct {
	SentID string `json:"sent_id,omitempty"`
	Text   string `json:"text,omitempty"`
	Words  []word `json:"words"`
	Spans  []span `json:"spans,omitempty"`
}

type word struct {
	ID     int     `json:"id"`
	Form   *string `json:"form,omitempty"`
	Lemma  *string `json:"lemma,omitempty"`
	UPOS   *string `json:"upos,omitempty"`
	XPOS   *string `json:"xpos,omitempty"`
	Feats  []feat  `json:"feats,omitempty"`
	Head   *int    `json:"head,omitempty"`
	Deprel *string `json:"deprel,omitempty"`
	Deps   []dep   `json:"deps,omitempty"`
	Misc   *string `json:"misc,omitempty"`
}

type feat struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type dep struct {
	Head   int    `json:"head"`
	Deprel string `json:"deprel"`
}

type span struct {
	First int     `json:"first"`
	Last  int     `json:"last"`
	Form  *string `json:"form,omitempty"`
}

// WriteJSON encodes trees as JSON and writes them to w.
// The output preserves every field the tree model carries, absent fields
// excluded, so it can be re-imported with [ReadJSON] for round-trip
// processing.
func WriteJSON(trees []*treebank.Tree, w io.Writer) error {
	out := document{Trees: make([]tree, len(trees))}
	for i, t := range trees {
		out.Trees[i] = marshalTree(t)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes trees to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(trees []*treebank.Tree, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(trees, f)
}

func marshalTree(t *treebank.Tree) tree {
	out := tree{
		SentID: t.Meta.SentID,
		Text:   t.Meta.Text,
		Words:  make([]word, 0, t.WordCount()),
	}

	for _, n := range t.Words() {
		w := word{
			ID:     n.ID,
			Form:   fieldPtr(n.Form),
			Lemma:  fieldPtr(n.Lemma),
			UPOS:   fieldPtr(n.UPOS),
			XPOS:   fieldPtr(n.XPOS),
			Deprel: fieldPtr(n.Deprel),
			Misc:   fieldPtr(n.Misc),
		}
		for _, f := range n.Feats {
			w.Feats = append(w.Feats, feat{Name: f.Name, Value: f.Value})
		}
		if n.Head != nil {
			head := n.Head.ID
			w.Head = &head
		}
		for _, d := range n.Deps {
			w.Deps = append(w.Deps, dep{Head: d.Head.ID, Deprel: d.Deprel})
		}
		out.Words = append(out.Words, w)
	}

	for _, s := range t.Spans() {
		out.Spans = append(out.Spans, span{
			First: s.First().ID,
			Last:  s.Last().ID,
			Form:  fieldPtr(s.Form),
		})
	}
	return out
}

func fieldPtr(f treebank.Field) *string {
	if !f.IsSet() {
		return nil
	}
	v := f.Or("")
	return &v
}
