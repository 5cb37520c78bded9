// Package formats parses and serializes the CoNLL family of treebank
// dialects.
//
// Every parser produces the same canonical tree model regardless of the
// input dialect, so downstream renderers never deal with dialect quirks.
// Legacy dialects that carry less information than the canonical model
// (CoNLL-X, Talismane) are parse-only; richer ones fold their extra columns
// into MISC so conversion is lossless where it can be.
//
// Guess sniffs the dialect of raw input when the caller does not name one.
package formats
