package models

import "time"

const (
	EventAttendanceClockedIn  = "attendance.clocked_in"
	EventAttendanceClockedOut = "attendance.clocked_out"
	EventTaskScoreRecorded    = "task_score.recorded"
)

type AttendanceClockedInEvent struct {
	AttendanceID string    `json:"attendanceId"`
	StudentID    string    `json:"studentId"`
	CourseID     string    `json:"courseId"`
	TaskID       string    `json:"taskId"`
	TaskCreated  bool      `json:"taskCreated"`
	ScoreID      string    `json:"scoreId,omitempty"`
	ClockIn      time.Time `json:"clockIn"`
}

type AttendanceClockedOutEvent struct {
	AttendanceID string    `json:"attendanceId"`
	StudentID    string    `json:"studentId"`
	CourseID     string    `json:"courseId"`
	ClockOut     time.Time `json:"clockOut"`
}

type TaskScoreRecordedEvent struct {
	TaskScoreID string  `json:"taskScoreId"`
	TaskID      string  `json:"taskId"`
	StudentID   string  `json:"studentId"`
	Score       float64 `json:"score"`
	Timestamp   int64   `json:"timestamp"`
}
