package service

import (
	"errors"
	"fmt"
)

// Error categories. The HTTP layer maps each one to a status code.
var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnauthorized is reserved; nothing in the service layer raises it yet.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUnavailable marks features switched off in this deployment.
	ErrUnavailable = errors.New("unavailable")
)

// Error is a failure whose Message is safe to show to API clients.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func newErrorf(kind error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

var (
	ErrStudentNotFound      = newError(ErrNotFound, "Student not found")
	ErrCourseNotFound       = newError(ErrNotFound, "Course not found")
	ErrRegistrationNotFound = newError(ErrNotFound, "Course registration not found")
	ErrAttendanceNotFound   = newError(ErrNotFound, "Attendance record not found")
	ErrNoActiveAttendance   = newError(ErrNotFound, "No active attendance record found for student")
	ErrTeamNotFound         = newError(ErrNotFound, "Team not found")
	ErrTaskNotFound         = newError(ErrNotFound, "Task not found")
	ErrTaskScoreNotFound    = newError(ErrNotFound, "Task score not found")

	ErrEmailTaken          = newError(ErrConflict, "Student with this email already exists")
	ErrCourseCodeTaken     = newError(ErrConflict, "Course with this code already exists")
	ErrAlreadyRegistered   = newError(ErrConflict, "Student is already registered for this course")
	ErrAlreadyClockedIn    = newError(ErrConflict, "Student is already clocked in")
	ErrTaskScoreExists     = newError(ErrConflict, "A score already exists for this student and task. Use PUT to update the existing score.")
	ErrConcurrentUpdate    = newError(ErrConflict, "Concurrency error occurred")
	ErrUnknownTaskCourse   = newError(ErrInvalidArgument, "The specified course does not exist")
	ErrUnknownScoreTask    = newError(ErrInvalidArgument, "The specified task does not exist")
	ErrUnknownScoreStudent = newError(ErrInvalidArgument, "The specified student does not exist")
	ErrStudentNotEnrolled  = newError(ErrInvalidArgument, "The student is not enrolled in the course tied to this task")
	ErrInvalidTeam         = newError(ErrInvalidArgument, "Invalid teamId")
	ErrInvalidStudent      = newError(ErrInvalidArgument, "Invalid student Id")
	ErrAlreadyInTeam       = newError(ErrInvalidArgument, "Student has previously been assigned to a team")
	ErrStudentTeamNotFound = newError(ErrInvalidArgument, "Student team not found")
	ErrClockOutBeforeIn    = newError(ErrInvalidArgument, "Clock out cannot be earlier than clock in")
	ErrExportDisabled      = newError(ErrUnavailable, "Attendance export storage is not configured")
)

func errTeamNameInUse(name string) *Error {
	return newErrorf(ErrConflict, "%s is already in use", name)
}

func errMaxBelowScore(score float64) *Error {
	return newErrorf(ErrInvalidArgument, "The maximum obtainable score cannot be lower than an existing score of %g", score)
}

func errScoreAboveMax(max float64) *Error {
	return newErrorf(ErrInvalidArgument, "The score cannot exceed the maximum obtainable score of %g", max)
}
