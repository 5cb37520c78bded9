package formats

import (
	"strings"

	"github.com/tmarceau/croquis/pkg/treebank"
)

// parseTalismaneBlock parses Talismane output, which is CoNLL-X with one
// stylistic quirk: trailing "|" separators glued to the FEATS column. Undo
// the quirk, then delegate.
func parseTalismaneBlock(b Block) (*treebank.Tree, error) {
	fixed := Block{
		Lines: make([]string, len(b.Lines)),
		Nums:  b.Nums,
		Meta:  b.Meta,
	}
	for i, line := range b.Lines {
		fixed.Lines[i] = strings.ReplaceAll(line, "|\t", "\t")
	}
	return parseConllxBlock(fixed)
}
