package formats

import (
	"regexp"
	"strings"

	"github.com/tmarceau/croquis/pkg/treebank"
)

// Block is the content of one tree: its non-comment lines, their 1-based
// line numbers in the source input, and the metadata extracted from the
// comment lines preceding it.
type Block struct {
	Lines []string
	Nums  []int
	Meta  treebank.Meta
}

// num returns the source line number for Lines[i], falling back to a
// block-relative number for hand-built blocks.
func (b Block) num(i int) int {
	if i < len(b.Nums) {
		return b.Nums[i]
	}
	return i + 1
}

// metaCommentRe matches "# key = value" comment lines.
var metaCommentRe = regexp.MustCompile(`^#\s*(\S+)\s*=\s*(.*)$`)

// Blocks splits the raw lines of a file into per-tree blocks. Trees are
// separated by blank lines; comment lines (starting with "#") are stripped,
// with "# sent_id = …" and "# text = …" captured into the following tree's
// metadata. Blank runs never produce empty blocks.
func Blocks(lines []string) []Block {
	var out []Block
	var cur Block
	var meta treebank.Meta

	flush := func() {
		if len(cur.Lines) > 0 {
			cur.Meta = meta
			out = append(out, cur)
		}
		cur = Block{}
		meta = treebank.Meta{}
	}

	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "#"):
			if m := metaCommentRe.FindStringSubmatch(line); m != nil {
				switch m[1] {
				case "sent_id":
					meta.SentID = m[2]
				case "text":
					meta.Text = m[2]
				}
			}
		case strings.TrimSpace(line) == "":
			flush()
		default:
			cur.Lines = append(cur.Lines, line)
			cur.Nums = append(cur.Nums, i+1)
		}
	}
	flush()
	return out
}
