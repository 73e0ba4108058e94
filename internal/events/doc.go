// Package events defines the lifecycle events that replicate daily-task
// mutations to the archive side: a closed sum over Created, Updated,
// Deleted, and DayReset, plus the fixed JSON wire codec and the per-task
// partition key.
package events
