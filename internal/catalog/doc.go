package catalog

// Package catalog extracts episodes from a saved archive snapshot: one text
// file holding many concatenated HTML documents, one per series page.
// Extraction is best effort; fragments missing required markup are skipped
// rather than failing the run.
