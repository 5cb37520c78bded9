package io

import (
	"bytes"
	"strings"
	"testing"

	"github.com/tmarceau/croquis/pkg/errors"
	"github.com/tmarceau/croquis/pkg/treebank"
)

func sampleTrees(t *testing.T) []*treebank.Tree {
	t.Helper()

	root := treebank.NewRoot()
	chat := &treebank.Node{ID: 2, Form: treebank.FieldOf("chat"),
		Lemma: treebank.FieldOf("chat"), UPOS: treebank.FieldOf("NOUN"),
		Feats: treebank.Feats{{Name: "g", Value: "m"}, {Name: "n", Value: "s"}},
		Head:  root, Deprel: treebank.FieldOf("root")}
	le := &treebank.Node{ID: 1, Form: treebank.FieldOf("le"),
		Head: chat, Deprel: treebank.FieldOf("det"),
		Deps: []treebank.Dep{{Head: chat, Deprel: "det:enh"}}}
	mtn := &treebank.MultiTokenNode{Span: []*treebank.Node{le, chat}, Form: treebank.FieldOf("lechat")}

	tree, err := treebank.New([]*treebank.Node{root, le, chat}, []*treebank.MultiTokenNode{mtn})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	tree.Meta = treebank.Meta{SentID: "fr-1", Text: "le chat"}
	return []*treebank.Tree{tree}
}

func TestJSONRoundTrip(t *testing.T) {
	trees := sampleTrees(t)

	var buf bytes.Buffer
	if err := WriteJSON(trees, &buf); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("ReadJSON() = %d trees, want 1", len(got))
	}

	want := trees[0]
	tree := got[0]
	if tree.Meta != want.Meta {
		t.Errorf("Meta = %+v, want %+v", tree.Meta, want.Meta)
	}
	if tree.ConllU() != want.ConllU() {
		t.Errorf("round trip drifted:\n got %q\nwant %q", tree.ConllU(), want.ConllU())
	}
	if len(tree.Spans()) != 1 || tree.Spans()[0].Form.Or("") != "lechat" {
		t.Errorf("spans = %+v, want one lechat span", tree.Spans())
	}
}

func TestWriteJSONOmitsAbsentFields(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(sampleTrees(t), &buf); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	out := buf.String()
	if strings.Contains(out, `"xpos"`) {
		t.Errorf("absent field serialized:\n%s", out)
	}
	if !strings.Contains(out, `"sent_id": "fr-1"`) {
		t.Errorf("metadata missing:\n%s", out)
	}
}

func TestReadJSONValidation(t *testing.T) {
	cases := []struct {
		name  string
		input string
		code  errors.Code
	}{
		{
			"malformed json",
			`{"trees": [`,
			errors.ErrCodeInvalidInput,
		},
		{
			"dangling head",
			`{"trees": [{"words": [{"id": 1, "form": "a", "head": 9}]}]}`,
			errors.ErrCodeStructure,
		},
		{
			"dangling dep",
			`{"trees": [{"words": [{"id": 1, "form": "a", "head": 0, "deps": [{"head": 9, "deprel": "x"}]}]}]}`,
			errors.ErrCodeStructure,
		},
		{
			"duplicate identifier",
			`{"trees": [{"words": [{"id": 1, "form": "a"}, {"id": 1, "form": "b"}]}]}`,
			errors.ErrCodeStructure,
		},
		{
			"span over missing word",
			`{"trees": [{"words": [{"id": 1, "form": "a", "head": 0}], "spans": [{"first": 1, "last": 2}]}]}`,
			errors.ErrCodeStructure,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tc.input))
			if !errors.Is(err, tc.code) {
				t.Errorf("err = %v, want %s", err, tc.code)
			}
		})
	}
}
