package models

import (
	"time"
)

type Course struct {
	ID          string    `json:"id" db:"id"`
	CourseCode  string    `json:"courseCode" db:"course_code"`
	CourseTitle string    `json:"courseTitle" db:"course_title"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

type CourseWithStats struct {
	Course
	CourseRegistrationCount int `json:"courseRegistrationCount" db:"course_registration_count"`
}

type CourseRegistration struct {
	ID        string    `json:"id" db:"id"`
	StudentID string    `json:"studentId" db:"student_id"`
	CourseID  string    `json:"courseId" db:"course_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type CourseRegistrationWithDetails struct {
	CourseRegistration
	Student *Student `json:"student,omitempty"`
	Course  *Course  `json:"course,omitempty"`
}
