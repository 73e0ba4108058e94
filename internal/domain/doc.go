// Package domain contains the core entities of the daily-task system:
// daily tasks, their per-date archive entries, directory users, and the
// calendar Date type they all share. Domain types validate themselves and
// carry no persistence or transport concerns.
package domain
