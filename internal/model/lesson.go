package model

import "time"

// Lesson represents a single timed entry on a user's weekly schedule
// as stored in the `lessons` table.  A lesson is placed on a
// seven-day grid with half-hour granularity; overlapping lessons are
// allowed by the data model and are resolved at projection time.
//
// Fields:
//  ID          – primary key identifier, assigned by the database on
//                insert and immutable afterwards.
//  OwnerID     – user who owns the lesson.  Every read and mutation
//                is scoped to this owner.
//  Title       – display title, required and non-empty.
//  Day         – weekday index 0–6, Monday first.
//  StartHour   – start of the lesson as a fractional hour (e.g. 9.5
//                for 09:30).  Half-hour steps within [8.0, 20.5].
//  Duration    – length in hours, half-hour steps from 0.5 to 3.0.
//  Teacher     – optional teacher name, shown on the first slot only.
//  Room        – optional room label, shown on the first slot only.
//  Description – optional free-form notes.
//  Color       – presentation tag; recognized values are blue, green,
//                yellow, red and purple.  Anything else renders blue.
//  CreatedAt   – creation timestamp (UTC).
//  UpdatedAt   – last mutation timestamp (UTC).
type Lesson struct {
	ID          uint64    `json:"id"`                    // lessons.id
	OwnerID     uint64    `json:"owner_id"`              // lessons.owner_id
	Title       string    `json:"title"`                 // lessons.title
	Day         int       `json:"day"`                   // lessons.day
	StartHour   float64   `json:"start_hour"`            // lessons.start_hour
	Duration    float64   `json:"duration"`              // lessons.duration
	Teacher     string    `json:"teacher,omitempty"`     // lessons.teacher (nullable)
	Room        string    `json:"room,omitempty"`        // lessons.room (nullable)
	Description string    `json:"description,omitempty"` // lessons.description (nullable)
	Color       string    `json:"color,omitempty"`       // lessons.color (nullable)
	CreatedAt   time.Time `json:"created_at"`            // lessons.created_at
	UpdatedAt   time.Time `json:"updated_at"`            // lessons.updated_at
}
