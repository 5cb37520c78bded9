package formats

import (
	"regexp"
	"strings"

	"github.com/tmarceau/croquis/pkg/errors"
)

// depsColRe matches a well-formed CoNLL-U DEPS column: "_" or |-separated
// head:relation pairs. A 10-column file whose DEPS column does not match is
// taken for legacy CoNLL-X.
var depsColRe = regexp.MustCompile(`^(_|[^:|]+:[^:|]+(\|[^:|]+:[^:|]+)*)$`)

// Guess inspects raw file lines and names the most plausible dialect.
//
// The column count of the first non-blank line picks the family: 10 columns
// is CoNLL-U or CoNLL-X (the DEPS column decides, then a dangling "|" before
// the HEAD column on any later line betrays Talismane); 14 or more columns
// is CoNLL-2009, predicted variant when any later line carries a PLEMMA.
// Anything else defaults to CoNLL-U. An input with no content at all cannot
// be guessed.
func Guess(lines []string) (Name, error) {
	first := -1
	for i, l := range lines {
		if strings.TrimSpace(l) != "" {
			first = i
			break
		}
	}
	if first < 0 {
		return "", errors.New(errors.ErrCodeFormatGuess, "cannot guess the dialect of an empty input")
	}

	cols := strings.Split(lines[first], "\t")
	rest := lines[first+1:]

	switch {
	case len(cols) == 10:
		if !depsColRe.MatchString(cols[8]) {
			if anyLine(rest, func(c []string) bool {
				return len(c) > 5 && strings.HasSuffix(c[5], "|")
			}) {
				return Talismane, nil
			}
			return Conllx, nil
		}
	case len(cols) >= 14:
		if anyLine(rest, func(c []string) bool {
			return len(c) > 3 && c[3] != "_"
		}) {
			return Conll2009Sys, nil
		}
		return Conll2009Gold, nil
	}

	return Conllu, nil
}

// anyLine reports whether pred holds for the columns of any non-blank line.
func anyLine(lines []string, pred func([]string) bool) bool {
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		if pred(strings.Split(l, "\t")) {
			return true
		}
	}
	return false
}
