package schedule

import (
	"fmt"
	"math"
	"strings"
)

// ValidationError describes a rejected lesson field.  It is detected
// before any persistence call, so a failed validation never touches
// the stored collection.  Handlers translate it into an HTTP 400.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// halfStep reports whether v is a multiple of 0.5.  Doubling is exact
// for half-hour values, so the truncation comparison is safe.
func halfStep(v float64) bool {
	return v*2 == math.Trunc(v*2)
}

// ValidateTitle requires a non-empty title after trimming.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	return nil
}

// ValidateDay requires a weekday index between 0 (Monday) and 6.
func ValidateDay(day int) error {
	if day < 0 || day >= DaysPerWeek {
		return &ValidationError{Field: "day", Reason: "must be between 0 and 6"}
	}
	return nil
}

// ValidateStartHour requires a half-hour value inside the grid,
// 8.0 through 20.5.  Note there is no check that startHour+duration
// stays on the grid; the shipped client never enforced an upper clamp
// and lessons running past 20.5 simply render their on-grid slots.
func ValidateStartHour(h float64) error {
	if !halfStep(h) {
		return &ValidationError{Field: "start_hour", Reason: "must be a multiple of 0.5"}
	}
	if h < FirstHour || h > LastHour {
		return &ValidationError{Field: "start_hour", Reason: "must be between 8.0 and 20.5"}
	}
	return nil
}

// ValidateDuration requires a half-hour length between 0.5 and 3.0.
func ValidateDuration(d float64) error {
	if !halfStep(d) {
		return &ValidationError{Field: "duration", Reason: "must be a multiple of 0.5"}
	}
	if d < 0.5 || d > 3.0 {
		return &ValidationError{Field: "duration", Reason: "must be between 0.5 and 3.0"}
	}
	return nil
}

// ValidateNew checks the four required lesson fields in a fixed
// order and returns the first violation.
func ValidateNew(title string, day int, startHour, duration float64) error {
	if err := ValidateTitle(title); err != nil {
		return err
	}
	if err := ValidateDay(day); err != nil {
		return err
	}
	if err := ValidateStartHour(startHour); err != nil {
		return err
	}
	return ValidateDuration(duration)
}
