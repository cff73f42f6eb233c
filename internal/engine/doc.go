// Package engine orchestrates a full analytics run: schema
// validation, frame materialization, group-aware outlier detection
// and correction over every declared numeric column, three-policy
// reporting classification, and monthly rate aggregation.
//
// A run is batch and idempotent: the input table is fully
// materialized before any computation starts, fatal errors abort
// before partial output exists, and identical input plus
// configuration always produces the identical result. Columns and
// policies are independent units of work, so the engine fans out over
// them with an errgroup, each goroutine writing to its own result
// slot, merged after the wait — no shared mutable state, no locks.
package engine
