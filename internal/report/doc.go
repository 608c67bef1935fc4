package report

// Package report turns download outcomes into run statistics and renders the
// console summary blocks for the download and retry passes.
