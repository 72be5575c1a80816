// Package repository defines error types that are reused across
// multiple repositories.  These sentinel values allow higher layers
// such as handlers to distinguish between different failure
// scenarios: a missing lesson maps to HTTP 404 while any other
// database error surfaces as a 500.  Validation failures never reach
// this package; they are rejected before a persistence call is made.
package repository

import "errors"

// ErrLessonNotFound is returned when a mutation references a lesson
// id that does not exist for the calling owner.  Lessons are only
// ever addressed together with their owner, so a foreign owner's
// lesson is indistinguishable from a missing one.
var ErrLessonNotFound = errors.New("lesson not found")
