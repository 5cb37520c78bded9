// Package treebank defines the canonical in-memory representation of
// dependency trees: nodes, multiword-token spans, and the Tree container
// every dialect parser produces and every renderer consumes.
//
// # Model
//
// A Tree is conceptually an ordered list of nodes. Index 0 is always a
// synthetic root (identifier 0, form "ROOT"); every other node carries a
// resolved reference to its head within the same tree. Identifiers of true
// nodes are dense and strictly increasing, which lets parsers resolve
// references with a plain index lookup.
//
// # Lifecycle
//
// Trees are built in two phases by the formats package: phase 1 constructs
// nodes whose head/deps fields hold placeholder identifiers, phase 2 walks
// the node list once and swaps placeholders for actual references. After
// construction a Tree is treated as immutable; queries such as
// [Tree.Descendants] return fresh slices.
//
// # Optional fields
//
// CoNLL dialects conflate "absent" (the "_" marker), genuinely empty
// strings, and whitespace-only values. The [Field] type keeps absence
// explicit so the distinction survives round-trips.
package treebank
