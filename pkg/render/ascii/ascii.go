// Package ascii draws dependency trees as box-drawing text art.
//
// Only the arcs are drawn, not the relation labels: labels would make the
// output prohibitively wide for real sentences. The layout is greedy and
// deterministic: arcs are packed line by line, shortest span first, so the
// same tree always renders to the same bytes.
package ascii

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/tmarceau/croquis/pkg/treebank"
)

const (
	vertical   = "│"
	cornerDown = "┌"
	cornerStop = "┐"
	teeRight   = "├"
	teeLeft    = "┤"
	horizontal = "─"
	arrowHead  = "↓"
)

// arc is one dependency edge between word positions (not identifiers, which
// may be non-dense in extracted subtrees).
type arc struct {
	dep  int
	head int
}

func (a arc) first() int { return min(a.dep, a.head) }
func (a arc) last() int  { return max(a.dep, a.head) }
func (a arc) span() int  { return a.last() - a.first() }

// backward reports that the arrow points left: the dependent precedes its
// head in the sentence.
func (a arc) backward() bool { return a.dep < a.head }

// Render returns the text-art rendering of the tree, without a trailing
// newline. The synthetic root is not drawn; words attached to it keep a
// dangling vertical running off the top of the picture.
//
// Words are separated by two spaces so single-letter tokens still have room
// for both an arrow head and a vertical. Widths count runes, not bytes.
func Render(t *treebank.Tree) string {
	words := t.Words()
	n := len(words)

	widths := make([]int, n)
	index := make(map[*treebank.Node]int, n)
	for i, w := range words {
		widths[i] = utf8.RuneCountInString(w.Form.Or(""))
		index[w] = i
	}

	arcs := make([]arc, 0, n)
	for i, w := range words {
		if h, ok := index[w.Head]; ok {
			arcs = append(arcs, arc{dep: i, head: h})
		}
	}
	// Shortest spans first so they pack into the lowest lines; ties resolve
	// left to right.
	slices.SortStableFunc(arcs, func(a, b arc) int {
		if a.span() != b.span() {
			return a.span() - b.span()
		}
		return a.first() - b.first()
	})

	// inOpen counts unfinished incoming arrows per word: every word starts
	// with one, and root-attached words never close theirs. outOpen counts
	// unfinished outgoing arrows.
	inOpen := make([]int, n)
	outOpen := make([]int, n)
	for i := range inOpen {
		inOpen[i] = 1
	}
	for _, a := range arcs {
		outOpen[a.head]++
	}

	lines := []string{formsLine(words)}
	lines = append(lines, arrowLine(words, widths, outOpen))

	var line strings.Builder
	current := 0

	// fillUntil advances to the given word, drawing fill under blank cells
	// and verticals under open arrows.
	fillUntil := func(until int, fill string) {
		for i := current; i < until; i++ {
			line.WriteString(pick(inOpen[i] > 0, vertical, fill))
			line.WriteString(pick(outOpen[i] > 0, vertical, fill))
			line.WriteString(strings.Repeat(fill, widths[i]))
		}
	}

	for len(arcs) > 0 {
		// Greedily take the next arc that fits to the right of the cursor.
		next := -1
		for i, a := range arcs {
			if a.first() >= current {
				next = i
				break
			}
		}
		if next < 0 {
			fillUntil(n, " ")
			lines = append(lines, line.String())
			line.Reset()
			current = 0
			continue
		}

		a := arcs[next]
		arcs = slices.Delete(arcs, next, next+1)
		first, last := a.first(), a.last()

		fillUntil(first, " ")
		switch {
		case a.backward():
			line.WriteString(cornerDown)
		case inOpen[first] > 0:
			line.WriteString(vertical)
		default:
			line.WriteString(" ")
		}
		switch {
		case !a.backward() && outOpen[first] == 1:
			line.WriteString(cornerDown)
		case !a.backward():
			line.WriteString(teeRight)
		case outOpen[first] > 0:
			line.WriteString(vertical)
		default:
			line.WriteString(horizontal)
		}
		line.WriteString(strings.Repeat(horizontal, widths[first]))
		current = first + 1

		fillUntil(last, horizontal)
		switch {
		case !a.backward():
			line.WriteString(cornerStop)
		case inOpen[last] > 0:
			line.WriteString(vertical)
		default:
			line.WriteString(horizontal)
		}
		switch {
		case a.backward() && outOpen[last] == 1:
			line.WriteString(cornerStop)
		case a.backward():
			line.WriteString(teeLeft)
		case outOpen[last] > 0:
			line.WriteString(vertical)
		default:
			line.WriteString(" ")
		}
		line.WriteString(strings.Repeat(" ", widths[last]))
		current = last + 1

		inOpen[a.dep]--
		outOpen[a.head]--
	}

	if line.Len() > 0 {
		fillUntil(n, " ")
		lines = append(lines, line.String())
		line.Reset()
		current = 0
	}
	// Dangling verticals for root-attached words get one final line.
	if slices.ContainsFunc(inOpen, func(c int) bool { return c > 0 }) {
		fillUntil(n, " ")
		lines = append(lines, line.String())
	}

	slices.Reverse(lines)
	return strings.Join(lines, "\n")
}

func formsLine(words []*treebank.Node) string {
	forms := make([]string, len(words))
	for i, w := range words {
		forms[i] = w.Form.Or("")
	}
	return strings.Join(forms, "  ")
}

// arrowLine is the line just above the words: an arrow head over every
// word's first rune, and a vertical over the second cell of words that head
// anything (their outgoing arrows all pass there).
func arrowLine(words []*treebank.Node, widths []int, outOpen []int) string {
	var b strings.Builder
	for i := range words {
		b.WriteString(arrowHead)
		b.WriteString(pick(outOpen[i] > 0, vertical, " "))
		b.WriteString(strings.Repeat(" ", widths[i]))
	}
	return b.String()
}

func pick(cond bool, yes, no string) string {
	if cond {
		return yes
	}
	return no
}
