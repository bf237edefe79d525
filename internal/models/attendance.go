package models

import (
	"time"
)

type Attendance struct {
	ID        string     `json:"id" db:"id"`
	StudentID string     `json:"studentId" db:"student_id"`
	CourseID  string     `json:"courseId" db:"course_id"`
	ClockIn   *time.Time `json:"clockIn" db:"clock_in"`
	ClockOut  *time.Time `json:"clockOut" db:"clock_out"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
}

// IsActive reports whether the student is clocked in and has not clocked out.
func (a Attendance) IsActive() bool {
	return a.ClockIn != nil && a.ClockOut == nil
}

type AttendanceWithDetails struct {
	Attendance
	Student *Student `json:"student,omitempty"`
	Course  *Course  `json:"course,omitempty"`
}
