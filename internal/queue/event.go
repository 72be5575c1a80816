// Package queue defines message payloads exchanged over the message broker.
package queue

// LessonChangedEvent is published after every successful lesson
// mutation.  It carries enough context for downstream consumers to
// log or notify without querying the primary database.  Action is
// one of "created", "updated" or "deleted"; for deletions the time
// fields describe the lesson as it was last stored.
type LessonChangedEvent struct {
	Action     string  `json:"action"`
	LessonID   uint64  `json:"lesson_id"`
	OwnerID    uint64  `json:"owner_id"`
	Title      string  `json:"title"`
	Day        int     `json:"day"`
	StartHour  float64 `json:"start_hour"`
	Duration   float64 `json:"duration"`
	OccurredAt string  `json:"occurred_at"`
}
