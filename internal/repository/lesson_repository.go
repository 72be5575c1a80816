package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/class-schedule/internal/model"
)

// LessonRepo provides CRUD operations for the `lessons` table.  Every
// operation is scoped to an owner id: listing only returns the
// owner's rows and mutations address rows by (id, owner_id), so one
// user can never touch another user's schedule.  All timestamp
// fields are stored in UTC.
//
// The repo holds no cache; each call is a direct round-trip and the
// caller re-lists after a successful mutation.
type LessonRepo struct {
	DB *sql.DB
}

// NewLessonRepo returns a new LessonRepo bound to the given database.
func NewLessonRepo(db *sql.DB) *LessonRepo { return &LessonRepo{DB: db} }

// LessonPatch enumerates the fields an update may change.  Nil
// pointers leave the stored value untouched.  The id, owner and
// created_at columns are deliberately absent: they are immutable
// after creation and no patch can reach them.
type LessonPatch struct {
	Title       *string
	Day         *int
	StartHour   *float64
	Duration    *float64
	Teacher     *string
	Room        *string
	Description *string
	Color       *string
}

const lessonColumns = "id, owner_id, title, day, start_hour, duration, teacher, room, description, color, created_at, updated_at"

// scanLesson reads one row into a model.Lesson.  Optional text
// columns are nullable; missing timestamps normalize to the current
// time, matching how reads behaved against the original document
// store where old records could lack the stamp fields.
func scanLesson(scan func(...any) error) (model.Lesson, error) {
	var (
		l                           model.Lesson
		teacher, room, descr, color sql.NullString
		createdAt, updatedAt        sql.NullTime
	)
	err := scan(
		&l.ID, &l.OwnerID, &l.Title, &l.Day, &l.StartHour, &l.Duration,
		&teacher, &room, &descr, &color, &createdAt, &updatedAt,
	)
	if err != nil {
		return model.Lesson{}, err
	}
	l.Teacher = teacher.String
	l.Room = room.String
	l.Description = descr.String
	l.Color = color.String
	now := time.Now().UTC()
	if createdAt.Valid {
		l.CreatedAt = createdAt.Time.UTC()
	} else {
		l.CreatedAt = now
	}
	if updatedAt.Valid {
		l.UpdatedAt = updatedAt.Time.UTC()
	} else {
		l.UpdatedAt = now
	}
	return l, nil
}

// ListByOwner returns every lesson belonging to the owner, ordered by
// creation time then id.  The deterministic order matters: the grid
// projector resolves overlapping lessons by first match, so listing
// must be stable across reloads.  An owner with no lessons gets an
// empty slice.
func (r *LessonRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Lesson, error) {
	const q = `SELECT ` + lessonColumns + ` FROM lessons WHERE owner_id = ? ORDER BY created_at, id`
	rows, err := r.DB.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lessons := make([]model.Lesson, 0)
	for rows.Next() {
		l, err := scanLesson(rows.Scan)
		if err != nil {
			return nil, err
		}
		lessons = append(lessons, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lessons, nil
}

// GetByIDAndOwner returns a single lesson addressed by id and owner.
// ErrLessonNotFound is returned when no such row exists for the
// owner.
func (r *LessonRepo) GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (model.Lesson, error) {
	const q = `SELECT ` + lessonColumns + ` FROM lessons WHERE id = ? AND owner_id = ? LIMIT 1`
	l, err := scanLesson(r.DB.QueryRowContext(ctx, q, id, ownerID).Scan)
	if err == sql.ErrNoRows {
		return model.Lesson{}, ErrLessonNotFound
	}
	return l, err
}

// Create inserts a new lesson, stamps CreatedAt and UpdatedAt with
// the same instant and populates the generated id on the given
// record.  The owner must already be set by the caller from the
// authenticated identity, never from client input.
func (r *LessonRepo) Create(ctx context.Context, l *model.Lesson) error {
	now := time.Now().UTC().Truncate(time.Second)
	l.CreatedAt = now
	l.UpdatedAt = now
	const q = `INSERT INTO lessons
		(owner_id, title, day, start_hour, duration, teacher, room, description, color, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.DB.ExecContext(ctx, q,
		l.OwnerID, l.Title, l.Day, l.StartHour, l.Duration,
		nullIfEmpty(l.Teacher), nullIfEmpty(l.Room), nullIfEmpty(l.Description), nullIfEmpty(l.Color),
		l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	l.ID = uint64(id)
	return nil
}

// Update merges the patch into the addressed lesson and re-stamps
// updated_at.  It verifies existence first so a vanished id reports
// ErrLessonNotFound instead of silently updating zero rows.  An
// all-nil patch still bumps the updated_at stamp.
func (r *LessonRepo) Update(ctx context.Context, id, ownerID uint64, p LessonPatch) error {
	var exists uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT id FROM lessons WHERE id = ? AND owner_id = ? LIMIT 1", id, ownerID).Scan(&exists)
	if err == sql.ErrNoRows {
		return ErrLessonNotFound
	}
	if err != nil {
		return err
	}

	sets := make([]string, 0, 9)
	args := make([]any, 0, 11)
	if p.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *p.Title)
	}
	if p.Day != nil {
		sets = append(sets, "day = ?")
		args = append(args, *p.Day)
	}
	if p.StartHour != nil {
		sets = append(sets, "start_hour = ?")
		args = append(args, *p.StartHour)
	}
	if p.Duration != nil {
		sets = append(sets, "duration = ?")
		args = append(args, *p.Duration)
	}
	if p.Teacher != nil {
		sets = append(sets, "teacher = ?")
		args = append(args, nullIfEmpty(*p.Teacher))
	}
	if p.Room != nil {
		sets = append(sets, "room = ?")
		args = append(args, nullIfEmpty(*p.Room))
	}
	if p.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, nullIfEmpty(*p.Description))
	}
	if p.Color != nil {
		sets = append(sets, "color = ?")
		args = append(args, nullIfEmpty(*p.Color))
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC().Truncate(time.Second))

	args = append(args, id, ownerID)
	q := "UPDATE lessons SET " + strings.Join(sets, ", ") + " WHERE id = ? AND owner_id = ?"
	_, err = r.DB.ExecContext(ctx, q, args...)
	return err
}

// Delete removes the addressed lesson.  Deleting an id that does not
// exist is a no-op success: the end state (no such lesson) is what
// the caller asked for, and the original client never distinguished
// the two outcomes.
func (r *LessonRepo) Delete(ctx context.Context, id, ownerID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"DELETE FROM lessons WHERE id = ? AND owner_id = ?", id, ownerID)
	return err
}

// nullIfEmpty maps "" to SQL NULL so optional text columns stay null
// instead of collecting empty strings.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
