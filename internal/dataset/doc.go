// Package dataset models the in-memory input table of the analytics
// core and its typed, validated materialization.
//
// The core never touches files or wire formats: an external
// collaborator hands over a fully materialized Table (header plus raw
// string cells, the same shape a CSV reader produces) and a Schema
// declaring column roles. Build validates the schema, parses every
// declared column, and produces an immutable Frame:
//
//	table := dataset.NewTable(header, rows)
//	frame, err := dataset.Build(table, schema)
//
// Parsing is strict. A cell in a declared-numeric column that is not
// numeric and not a recognized null token raises a ComputationError
// carrying the column name and row number; nothing is coerced
// silently. All bad cells found in a pass are joined into one error.
//
// The Frame exposes the derived structures the core computes over:
// the global month axis (sorted union of all observed months), the
// grouping index (ordered partition of row indices by key tuple), and
// dense per-facility reported series over the axis.
package dataset
