// Package diagnostic provides structured errors, warnings and notes produced
// while validating model declarations.
//
// Key capabilities:
//   - Per-model and per-field attribution
//   - Stable codes for each kind of problem
//   - Aggregation into a single error that still matches sentinel causes
//     with errors.Is
package diagnostic
