package formats

import (
	"slices"

	"github.com/tmarceau/croquis/pkg/errors"
	"github.com/tmarceau/croquis/pkg/treebank"
)

// Name identifies a treebank dialect.
type Name string

// Recognized dialects.
const (
	Conllu        Name = "conllu"
	Conllx        Name = "conllx"
	Talismane     Name = "talismane"
	Conll2009Gold Name = "conll2009_gold"
	Conll2009Sys  Name = "conll2009_sys"
)

// Format couples a dialect name with its parse and (optional) marshal
// functions. The set of formats is closed: adding a dialect means adding an
// entry to the registry below, there is no runtime registration.
type Format struct {
	name    Name
	parse   func(Block) (*treebank.Tree, error)
	marshal func(*treebank.Tree) string // nil for parse-only dialects
}

// Name returns the dialect name.
func (f Format) Name() Name { return f.name }

// CanMarshal reports whether the dialect has a serializer.
func (f Format) CanMarshal() bool { return f.marshal != nil }

// ParseBlock parses the lines of a single, already-isolated tree.
func (f Format) ParseBlock(b Block) (*treebank.Tree, error) {
	return f.parse(b)
}

// Parse splits the raw lines of a whole file into per-tree blocks and parses
// each. The first failing tree aborts the parse; drivers wanting to skip bad
// trees should iterate Blocks and ParseBlock themselves.
func (f Format) Parse(lines []string) ([]*treebank.Tree, error) {
	blocks := Blocks(lines)
	trees := make([]*treebank.Tree, 0, len(blocks))
	for _, b := range blocks {
		t, err := f.parse(b)
		if err != nil {
			return nil, err
		}
		trees = append(trees, t)
	}
	return trees, nil
}

// Marshal serializes a tree in this dialect. Returns an UNSUPPORTED error
// for parse-only dialects.
func (f Format) Marshal(t *treebank.Tree) (string, error) {
	if f.marshal == nil {
		return "", errors.New(errors.ErrCodeUnsupported, "dialect %s has no serializer", f.name)
	}
	return f.marshal(t), nil
}

// registry is the closed dialect table. mate_gold and mate_sys are aliases
// for the CoNLL-2009 variants kept for compatibility with older tooling.
var registry = map[Name]Format{
	Conllu:        {name: Conllu, parse: parseConlluBlock, marshal: marshalConllu},
	Conllx:        {name: Conllx, parse: parseConllxBlock},
	Talismane:     {name: Talismane, parse: parseTalismaneBlock},
	Conll2009Gold: {name: Conll2009Gold, parse: parseConll2009GoldBlock, marshal: marshalConll2009Gold},
	Conll2009Sys:  {name: Conll2009Sys, parse: parseConll2009SysBlock, marshal: marshalConll2009Sys},
}

var aliases = map[Name]Name{
	"mate_gold": Conll2009Gold,
	"mate_sys":  Conll2009Sys,
}

// Lookup resolves a dialect name (or alias) to its Format.
func Lookup(name string) (Format, error) {
	n := Name(name)
	if target, ok := aliases[n]; ok {
		n = target
	}
	f, ok := registry[n]
	if !ok {
		return Format{}, errors.New(errors.ErrCodeUnknownFormat, "unknown dialect %q (known: %v)", name, Names())
	}
	return f, nil
}

// Names returns the recognized dialect names, sorted, aliases excluded.
func Names() []Name {
	names := make([]Name, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

func marshalConllu(t *treebank.Tree) string { return t.ConllU() }
