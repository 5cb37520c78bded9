// Package io provides JSON import and export for dependency treebanks.
//
// # Overview
//
// This package enables serialization of parsed treebanks to and from a
// simple JSON format. The format is designed for:
//
//   - Integration with external tools that produce or consume tree data
//   - Caching of parsed treebanks for faster re-rendering
//   - Round-trip preservation: import, render, export, and re-import identically
//
// # JSON Format
//
// The document has one top-level "trees" array; each tree carries a "words"
// array and an optional "spans" array:
//
//	{
//	  "trees": [
//	    {
//	      "sent_id": "fr-1",
//	      "words": [
//	        {"id": 1, "form": "le", "head": 2, "deprel": "det"},
//	        {"id": 2, "form": "chat", "head": 0, "deprel": "root"}
//	      ]
//	    }
//	  ]
//	}
//
// Absent fields are omitted entirely, preserving the distinction between a
// field that was never annotated and one annotated with an empty value.
// Head references use word identifiers; 0 is the synthetic root.
//
// # Import and Export
//
// Use [ImportJSON]/[ExportJSON] for file paths, or [ReadJSON]/[WriteJSON]
// for arbitrary readers and writers. Import validates references the same
// way the treebank parsers do: a dangling head or span is an
// INVALID_STRUCTURE error.
package io
