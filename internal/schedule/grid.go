// Package schedule contains the pure projection logic that maps a
// user's flat lesson list onto the weekly day×slot grid.  Nothing in
// this package touches the database or the network; handlers feed it
// the owner's lessons and it answers occupancy, label and
// click-routing questions.
package schedule

import "github.com/iliyamo/class-schedule/internal/model"

// Grid dimensions.  The week is Monday-first with 7 day columns and
// 26 half-hour rows spanning 08:00 through 20:30 inclusive.
const (
	DaysPerWeek = 7
	FirstHour   = 8.0
	LastHour    = 20.5
	SlotStep    = 0.5
	SlotsPerDay = 26
)

// Hours returns the 26 slot hours of a day column: 8.0, 8.5, …, 20.5.
// Half-hour values are exact in floating point so the slice can be
// compared with == against lesson fields.
func Hours() []float64 {
	hs := make([]float64, SlotsPerDay)
	for i := range hs {
		hs[i] = FirstHour + float64(i)*SlotStep
	}
	return hs
}

// Occupies reports whether the lesson covers the given (day, hour)
// cell.  The window is inclusive on BOTH ends: a lesson of duration
// 1.0 starting at 9.0 covers the 9.0, 9.5 and 10.0 slots.  That is a
// quirk carried over from the shipped web client; callers depend on
// the extra trailing slot being occupied, so it must not be
// "corrected" to a half-open interval.
func Occupies(l *model.Lesson, day int, hour float64) bool {
	return l.Day == day && hour >= l.StartHour && hour <= l.StartHour+l.Duration
}

// LessonAt returns the lesson occupying the cell, or nil when the
// cell is free.  With overlapping lessons the first match in list
// order wins; the repository lists lessons ordered by creation so the
// tie-break is stable across reloads.
func LessonAt(lessons []model.Lesson, day int, hour float64) *model.Lesson {
	for i := range lessons {
		if Occupies(&lessons[i], day, hour) {
			return &lessons[i]
		}
	}
	return nil
}

// ShowsDetails reports whether supplementary metadata (teacher, room)
// should be rendered in the given cell.  Labels appear only on the
// lesson's first occupied slot so they are not repeated down the
// lesson's full span.
func ShowsDetails(l *model.Lesson, hour float64) bool {
	return l != nil && hour == l.StartHour
}

// Cell is one half-hour slot of the rendered grid.  Lesson is nil for
// a free cell.  ShowDetails mirrors the label rule and Color carries
// the resolved presentation class so clients never see an
// unrecognized tag.
type Cell struct {
	Hour        float64       `json:"hour"`
	Lesson      *model.Lesson `json:"lesson,omitempty"`
	ShowDetails bool          `json:"show_details,omitempty"`
	Color       string        `json:"color,omitempty"`
}

// DayColumn is one weekday of the rendered grid.
type DayColumn struct {
	Day   int    `json:"day"`
	Cells []Cell `json:"cells"`
}

// Week is the full 7×26 rendered grid.
type Week struct {
	Days []DayColumn `json:"days"`
}

// BuildWeek projects the lesson list onto the full weekly grid.  Each
// of the 182 cells resolves its occupant independently through
// LessonAt, so overlap handling and the inclusive window behave
// exactly as the per-cell queries do.
func BuildWeek(lessons []model.Lesson) Week {
	hours := Hours()
	w := Week{Days: make([]DayColumn, DaysPerWeek)}
	for d := 0; d < DaysPerWeek; d++ {
		col := DayColumn{Day: d, Cells: make([]Cell, SlotsPerDay)}
		for i, h := range hours {
			cell := Cell{Hour: h}
			if l := LessonAt(lessons, d, h); l != nil {
				cell.Lesson = l
				cell.ShowDetails = ShowsDetails(l, h)
				cell.Color = Class(l.Color)
			}
			col.Cells[i] = cell
		}
		w.Days[d] = col
	}
	return w
}

// IntentKind distinguishes the two outcomes of a cell click.
type IntentKind string

const (
	IntentCreate IntentKind = "create"
	IntentEdit   IntentKind = "edit"
)

// Intent is the routing result for a clicked cell.  An edit intent
// carries the occupying lesson; a create intent carries the clicked
// coordinate as defaults for the new-lesson form.
type Intent struct {
	Kind   IntentKind    `json:"intent"`
	Day    int           `json:"day"`
	Hour   float64       `json:"hour"`
	Lesson *model.Lesson `json:"lesson,omitempty"`
}

// ResolveClick routes a click on (day, hour): an occupied cell yields
// an edit intent with the existing record, a free cell a create
// intent pre-populated with the coordinate.
func ResolveClick(lessons []model.Lesson, day int, hour float64) Intent {
	if l := LessonAt(lessons, day, hour); l != nil {
		return Intent{Kind: IntentEdit, Day: day, Hour: hour, Lesson: l}
	}
	return Intent{Kind: IntentCreate, Day: day, Hour: hour}
}
