package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ProjectUnravel/StudentManagementAPI/internal/models"
)

var attendanceRowColumns = []string{"id", "student_id", "course_id", "clock_in", "clock_out", "created_at"}

func TestAttendanceGetActiveByStudent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	clockIn := time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery("clock_out IS NULL").
		WithArgs("s1").
		WillReturnRows(sqlmock.NewRows(attendanceRowColumns).
			AddRow("a1", "s1", "c1", clockIn, nil, clockIn))

	repo := NewAttendanceRepository(db, zerolog.Nop())
	active, err := repo.GetActiveByStudent(context.Background(), "s1")

	require.NoError(t, err)
	require.NotNil(t, active)
	assert.True(t, active.IsActive())
	assert.Equal(t, "c1", active.CourseID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceCreateSecondActiveRecord(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO attendances").
		WillReturnError(&pq.Error{Code: "23505", Constraint: ConstraintSingleActiveAttendance})

	now := time.Now().UTC()
	repo := NewAttendanceRepository(db, zerolog.Nop())
	err = repo.Create(context.Background(), &models.Attendance{
		ID:        "a2",
		StudentID: "s1",
		CourseID:  "c2",
		ClockIn:   &now,
		CreatedAt: now,
	})

	assert.True(t, IsConstraint(err, ConstraintSingleActiveAttendance))
}

func TestAttendanceCountByCourseBetween(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	from := time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)
	mock.ExpectQuery("SELECT COUNT").
		WithArgs("c1", from, to).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	repo := NewAttendanceRepository(db, zerolog.Nop())
	n, err := repo.CountByCourseBetween(context.Background(), "c1", from, to)

	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestAttendanceClockOutOnlyClosesOpenRecord(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	clockOut := time.Date(2024, 5, 6, 11, 0, 0, 0, time.UTC)
	mock.ExpectExec(`UPDATE attendances\s+SET clock_out = \$1\s+WHERE id = \$2 AND clock_in IS NOT NULL AND clock_out IS NULL`).
		WithArgs(clockOut, "a1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE attendances").
		WithArgs(clockOut, "a1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewAttendanceRepository(db, zerolog.Nop())
	require.NoError(t, repo.ClockOut(context.Background(), "a1", clockOut))

	err = repo.ClockOut(context.Background(), "a1", clockOut)
	assert.ErrorIs(t, err, ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
