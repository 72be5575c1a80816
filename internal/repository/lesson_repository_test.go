package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/class-schedule/internal/model"
)

func setupLessonRepo(t *testing.T) (*LessonRepo, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewLessonRepo(db), mock, db
}

func lessonRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "owner_id", "title", "day", "start_hour", "duration",
		"teacher", "room", "description", "color", "created_at", "updated_at",
	})
}

func TestLessonRepoListByOwner(t *testing.T) {
	repo, mock, db := setupLessonRepo(t)
	defer db.Close()

	created := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	rows := lessonRows().
		AddRow(1, 42, "Algebra", 0, 9.0, 1.0, "Dr X", "101", nil, "green", created, created).
		AddRow(2, 42, "Physics", 0, 14.0, 1.5, nil, nil, nil, nil, created.Add(time.Hour), created.Add(time.Hour))

	mock.ExpectQuery(`SELECT (.+) FROM lessons WHERE owner_id = \? ORDER BY created_at, id`).
		WithArgs(uint64(42)).
		WillReturnRows(rows)

	lessons, err := repo.ListByOwner(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, lessons, 2)

	assert.Equal(t, "Algebra", lessons[0].Title)
	assert.Equal(t, "Dr X", lessons[0].Teacher)
	assert.Equal(t, created, lessons[0].CreatedAt)

	// Nullable text columns come back as empty strings.
	assert.Empty(t, lessons[1].Teacher)
	assert.Empty(t, lessons[1].Color)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLessonRepoListNormalizesMissingTimestamps(t *testing.T) {
	repo, mock, db := setupLessonRepo(t)
	defer db.Close()

	rows := lessonRows().
		AddRow(1, 42, "Old record", 1, 8.0, 0.5, nil, nil, nil, nil, nil, nil)

	mock.ExpectQuery(`SELECT (.+) FROM lessons WHERE owner_id = \?`).
		WithArgs(uint64(42)).
		WillReturnRows(rows)

	before := time.Now().UTC()
	lessons, err := repo.ListByOwner(context.Background(), 42)
	after := time.Now().UTC()
	require.NoError(t, err)
	require.Len(t, lessons, 1)

	// Rows without stamps read back as "now", mirroring the original
	// client's read-time normalization.
	assert.False(t, lessons[0].CreatedAt.Before(before))
	assert.False(t, lessons[0].CreatedAt.After(after))
	assert.False(t, lessons[0].UpdatedAt.Before(before))
	assert.False(t, lessons[0].UpdatedAt.After(after))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLessonRepoCreateStampsAndAssignsID(t *testing.T) {
	repo, mock, db := setupLessonRepo(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO lessons`).
		WithArgs(
			uint64(42), "Algebra", 0, 9.0, 1.0,
			"Dr X", nil, nil, "green",
			sqlmock.AnyArg(), sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(7, 1))

	l := &model.Lesson{OwnerID: 42, Title: "Algebra", Day: 0, StartHour: 9.0, Duration: 1.0, Teacher: "Dr X", Color: "green"}
	require.NoError(t, repo.Create(context.Background(), l))

	assert.Equal(t, uint64(7), l.ID)
	assert.False(t, l.CreatedAt.IsZero())
	assert.Equal(t, l.CreatedAt, l.UpdatedAt, "create stamps both timestamps with the same instant")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLessonRepoUpdateBuildsPatchColumns(t *testing.T) {
	repo, mock, db := setupLessonRepo(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT id FROM lessons WHERE id = \? AND owner_id = \?`).
		WithArgs(uint64(7), uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	// Only the patched columns plus updated_at may appear in SET.
	mock.ExpectExec(`UPDATE lessons SET title = \?, room = \?, updated_at = \? WHERE id = \? AND owner_id = \?`).
		WithArgs("Geometry", "204", sqlmock.AnyArg(), uint64(7), uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	title := "Geometry"
	room := "204"
	err := repo.Update(context.Background(), 7, 42, LessonPatch{Title: &title, Room: &room})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLessonRepoUpdateMissingLesson(t *testing.T) {
	repo, mock, db := setupLessonRepo(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT id FROM lessons WHERE id = \? AND owner_id = \?`).
		WithArgs(uint64(99), uint64(42)).
		WillReturnError(sql.ErrNoRows)

	title := "Geometry"
	err := repo.Update(context.Background(), 99, 42, LessonPatch{Title: &title})
	assert.ErrorIs(t, err, ErrLessonNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLessonRepoDeleteMissingIsNoOp(t *testing.T) {
	repo, mock, db := setupLessonRepo(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM lessons WHERE id = \? AND owner_id = \?`).
		WithArgs(uint64(99), uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.Delete(context.Background(), 99, 42))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLessonRepoGetByIDAndOwnerScopes(t *testing.T) {
	repo, mock, db := setupLessonRepo(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT (.+) FROM lessons WHERE id = \? AND owner_id = \? LIMIT 1`).
		WithArgs(uint64(7), uint64(43)).
		WillReturnError(sql.ErrNoRows)

	// A foreign owner's lesson is indistinguishable from a missing one.
	_, err := repo.GetByIDAndOwner(context.Background(), 7, 43)
	assert.ErrorIs(t, err, ErrLessonNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
