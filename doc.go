// Package modesplit is a nested-logit mode-choice model: it turns network
// skims, zonal land use and per-purpose parameter tables into trip matrices
// by mode.
//
// What is modesplit?
//
//	For every trip purpose and every (auto ownership, period) segment the
//	model evaluates each mode's utility over an N×N zone system, solves the
//	nested logit for mode probabilities and scales the segment's base trips.
//
// Under the hood, everything is organized under these subpackages:
//
//	matrix/   dense N×N float matrices, masked log/exp/divide kernels
//	zone/     zone-system size, fitting wider inputs down to N×N
//	mode/     mode catalog, classes, purposes and segments
//	skim/     skim bank keyed by source, period and field
//	zonal/    land-use columns and the zonal variables derived from them
//	param/    parameter tables: ASCs, coefficients, nests and θ
//	resolve/  (variable, class) rules producing variable matrices
//	nlogit/   nested-logit probabilities for one segment
//	split/    probabilities × base trips
//	result/   per-purpose result container with computed/uncomputed state
//	engine/   purpose and segment orchestration over a worker pool
//	report/   mode shares, category shares, VMT and PMT
//	ingest/   CSV readers and writers for every input and output
//	store/    SQLite persistence of run summaries
//	config/   YAML configuration with .env and environment overrides
//
// The modesplit command (cmd/modesplit) wires them together:
//
//	modesplit validate ./project
//	modesplit run ./project
//
// All packages return sentinel errors wrapped with the failing operation, so
// callers test them with errors.Is.
package modesplit
