package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/tmarceau/croquis/pkg/treebank"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes the lemma and part of speech in node labels.
	// When false, only the surface form is shown.
	Detailed bool
}

// ToDOT converts a dependency tree to Graphviz DOT format. The resulting
// DOT string can be rendered with [RenderSVG] or [RenderPNG].
//
// The synthetic root is rendered with a dashed outline and grey fill to
// distinguish it from the words of the sentence. Edges point from head to
// dependent and carry the relation as label.
func ToDOT(t *treebank.Tree, opts Options) string {
	var buf bytes.Buffer
	writeHeader(&buf)
	emitTree(&buf, t, "", opts)
	buf.WriteString("}\n")
	return buf.String()
}

// ToDOTAll renders several trees into one DOT document, one cluster per
// tree, labeled with the tree's sentence identifier when it has one.
func ToDOTAll(trees []*treebank.Tree, opts Options) string {
	if len(trees) == 1 {
		return ToDOT(trees[0], opts)
	}

	var buf bytes.Buffer
	writeHeader(&buf)
	for i, t := range trees {
		fmt.Fprintf(&buf, "  subgraph cluster_%d {\n", i)
		if id := t.Meta.SentID; id != "" {
			fmt.Fprintf(&buf, "    label=%q;\n", id)
		}
		emitTree(&buf, t, fmt.Sprintf("%d.", i), opts)
		buf.WriteString("  }\n")
	}
	buf.WriteString("}\n")
	return buf.String()
}

func writeHeader(buf *bytes.Buffer) {
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")
}

func emitTree(buf *bytes.Buffer, t *treebank.Tree, prefix string, opts Options) {
	for _, n := range t.Nodes() {
		label := fmtLabel(n, opts.Detailed)
		attrs := fmtAttrs(n, label)
		fmt.Fprintf(buf, "  %q [%s];\n", nodeID(prefix, n), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, n := range t.Words() {
		if n.Head == nil {
			continue
		}
		fmt.Fprintf(buf, "  %q -> %q [label=%q];\n",
			nodeID(prefix, n.Head), nodeID(prefix, n), n.Deprel.Or(""))
	}
	for _, n := range t.Words() {
		for _, d := range n.Deps {
			fmt.Fprintf(buf, "  %q -> %q [label=%q, style=dashed];\n",
				nodeID(prefix, d.Head), nodeID(prefix, n), d.Deprel)
		}
	}
}

func nodeID(prefix string, n *treebank.Node) string { return prefix + strconv.Itoa(n.ID) }

func fmtLabel(n *treebank.Node, detailed bool) string {
	form := n.Form.Or("")
	if !detailed || n.IsRoot() {
		return form
	}

	parts := []string{form}
	if n.Lemma.IsSet() {
		parts = append(parts, "lemma: "+n.Lemma.Or(""))
	}
	if n.UPOS.IsSet() {
		parts = append(parts, "upos: "+n.UPOS.Or(""))
	}
	return strings.Join(parts, "\n")
}

func fmtAttrs(n *treebank.Node, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if n.IsRoot() {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.SVG, normalizeViewBox)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG, nil)
}

func render(ctx context.Context, dot string, format graphviz.Format, post func([]byte) []byte) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	out := buf.Bytes()
	if post != nil {
		out = post(out)
	}
	return out, nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the SVG header so the diagram scales to its
// container instead of keeping Graphviz's point-based size.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
