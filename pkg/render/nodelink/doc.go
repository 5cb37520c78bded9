// Package nodelink renders dependency trees as traditional node-link
// diagrams.
//
// # Overview
//
// This package produces directed graph visualizations using Graphviz, where
// tokens appear as boxes connected by labeled relation arrows. It's an
// alternative to the text-art rendering for cases where a graphical diagram
// is preferred.
//
// # Usage
//
// Convert a tree to DOT format, then render to SVG or PNG:
//
//	dot := nodelink.ToDOT(tree, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # DOT Format
//
// The [ToDOT] function produces Graphviz DOT source that can be:
//
//   - Rendered directly via [RenderSVG] or [RenderPNG]
//   - Saved and processed with external Graphviz tools
//   - Customized before rendering
//
// Primary dependency edges are solid; enhanced (secondary) edges are dashed.
// The synthetic root box is dashed and grey.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process rendering.
package nodelink
