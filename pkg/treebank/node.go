package treebank

import "strings"

// Absent is the marker used by every CoNLL dialect for a missing scalar field.
const Absent = "_"

// Field is an optional scalar column value. The zero value is absent.
// Absent is distinct from the empty string: an absent field serializes as
// "_" while an empty string is a (degenerate) present value.
type Field struct {
	value string
	set   bool
}

// FieldOf returns a present Field holding s.
func FieldOf(s string) Field {
	return Field{value: s, set: true}
}

// ParseField interprets a raw column value, mapping the "_" marker to absent.
func ParseField(raw string) Field {
	if raw == Absent {
		return Field{}
	}
	return FieldOf(raw)
}

// Get returns the value and whether it is present.
func (f Field) Get() (string, bool) { return f.value, f.set }

// IsSet reports whether the field holds a value.
func (f Field) IsSet() bool { return f.set }

// Or returns the value if present, otherwise def.
func (f Field) Or(def string) string {
	if f.set {
		return f.value
	}
	return def
}

// String returns the value, or the "_" marker when absent.
func (f Field) String() string { return f.Or(Absent) }

// Feat is a single morphological feature.
type Feat struct {
	Name  string
	Value string
}

// Feats is an ordered feature mapping. Keys are unique; insertion order is
// preserved on write.
type Feats []Feat

// Get returns the value for name and whether it is present.
func (fs Feats) Get(name string) (string, bool) {
	for _, f := range fs {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// String returns the CoNLL representation: "_" when empty, otherwise
// |-separated key=value pairs in insertion order.
func (fs Feats) String() string {
	if len(fs) == 0 {
		return Absent
	}
	parts := make([]string, len(fs))
	for i, f := range fs {
		parts[i] = f.Name + "=" + f.Value
	}
	return strings.Join(parts, "|")
}

// Dep is a secondary (enhanced-graph) edge to a head node.
type Dep struct {
	Head   *Node
	Deprel string
}

// Node is a token in the dependency graph. Head is nil only for the
// synthetic root; for every other node it references a node of the same tree
// once the construction pipeline has resolved references.
type Node struct {
	ID     int
	Form   Field
	Lemma  Field
	UPOS   Field
	XPOS   Field
	Feats  Feats
	Head   *Node
	Deprel Field
	Deps   []Dep
	Misc   Field
}

// IsRoot reports whether the node is the synthetic root (identifier 0).
func (n *Node) IsRoot() bool { return n.ID == 0 }

// NewRoot returns a fresh synthetic root node (identifier 0, form "ROOT",
// every other field absent).
func NewRoot() *Node {
	return &Node{ID: 0, Form: FieldOf("ROOT")}
}

// MultiTokenNode represents a compound orthographic span (e.g. a contraction
// covering two syntactic words) in the canonical dialect. It is purely
// presentational: never part of the word sequence and never a head.
type MultiTokenNode struct {
	Span []*Node
	Form Field
}

// First returns the first covered word.
func (m *MultiTokenNode) First() *Node { return m.Span[0] }

// Last returns the last covered word.
func (m *MultiTokenNode) Last() *Node { return m.Span[len(m.Span)-1] }
