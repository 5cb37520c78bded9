package formats

import (
	"strconv"
	"strings"

	"github.com/tmarceau/croquis/pkg/treebank"
)

// parseFeats parses the CoNLL map format: "_" or |-separated key=value
// pairs. An all-whitespace or empty value is tolerated as empty, since
// producers sometimes emit spaces instead of the "_" marker. A malformed
// pair reports ok=false; the caller decides the field name for the error.
// Duplicate keys keep the last value, preserving first-insertion order.
func parseFeats(raw string) (treebank.Feats, bool) {
	if raw == treebank.Absent {
		return nil, true
	}
	if strings.TrimSpace(raw) == "" {
		return nil, true
	}

	var feats treebank.Feats
	for _, pair := range strings.Split(raw, "|") {
		kv := strings.Split(pair, "=")
		if len(kv) != 2 {
			return nil, false
		}
		feats = setFeat(feats, kv[0], kv[1])
	}
	return feats, true
}

func setFeat(feats treebank.Feats, name, value string) treebank.Feats {
	for i := range feats {
		if feats[i].Name == name {
			feats[i].Value = value
			return feats
		}
	}
	return append(feats, treebank.Feat{Name: name, Value: value})
}

// rawDep is a secondary edge whose head is still a placeholder identifier.
type rawDep struct {
	head   int
	deprel string
}

// parseDeps parses the DEPS column: "_" or |-separated head:relation pairs.
// The same whitespace tolerance as parseFeats applies. Head identifiers stay
// placeholders until the resolution pass.
func parseDeps(raw string) ([]rawDep, bool) {
	if raw == treebank.Absent {
		return nil, true
	}
	if strings.TrimSpace(raw) == "" {
		return nil, true
	}

	var deps []rawDep
	for _, pair := range strings.Split(raw, "|") {
		head, rel, found := strings.Cut(pair, ":")
		if !found {
			return nil, false
		}
		id, err := strconv.Atoi(head)
		if err != nil || id < 0 {
			return nil, false
		}
		deps = append(deps, rawDep{head: id, deprel: rel})
	}
	return deps, true
}

// parseID parses a CoNLL token identifier. Negative values are invalid;
// zero is invalid when nonZero is set (the root identifier is reserved for
// the parser-synthesized root).
func parseID(raw string, nonZero bool) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if id < 0 || (nonZero && id == 0) {
		return 0, strconv.ErrRange
	}
	return id, nil
}

// whitespaceRe is used by the CoNLL-X family, which forbids whitespace
// inside the LEMMA column and replaces it with underscores.
var whitespaceRe = strings.NewReplacer(" ", "_", "\t", "_", "\n", "_", "\v", "_", "\f", "_", "\r", "_")

func lemmaNoSpace(raw string) string { return whitespaceRe.Replace(raw) }

// miscPair is one key=value candidate for the MISC column of the
// CoNLL-2009 parsers. Pairs with empty or "_" values are omitted entirely.
type miscPair struct {
	key string
	val string
}

// foldMisc joins the kept pairs into a MISC field, absent when nothing
// survives the filter.
func foldMisc(pairs []miscPair) treebank.Field {
	var parts []string
	for _, p := range pairs {
		if p.val == "" || p.val == treebank.Absent {
			continue
		}
		parts = append(parts, p.key+"="+p.val)
	}
	if len(parts) == 0 {
		return treebank.Field{}
	}
	return treebank.FieldOf(strings.Join(parts, "|"))
}
