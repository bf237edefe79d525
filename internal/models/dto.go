package models

import "time"

// Data Transfer Objects

type CreateStudentRequest struct {
	FirstName   string `json:"firstName" validate:"required,max=100"`
	LastName    string `json:"lastName" validate:"required,max=100"`
	Email       string `json:"email" validate:"required,email,max=255"`
	PhoneNumber string `json:"phoneNumber" validate:"max=50"`
	Gender      string `json:"gender" validate:"max=20"`
}

type UpdateStudentRequest struct {
	FirstName   string `json:"firstName" validate:"required,max=100"`
	LastName    string `json:"lastName" validate:"required,max=100"`
	Email       string `json:"email" validate:"required,email,max=255"`
	PhoneNumber string `json:"phoneNumber" validate:"max=50"`
	Gender      string `json:"gender" validate:"max=20"`
}

type CreateCourseRequest struct {
	CourseCode  string `json:"courseCode" validate:"required,max=50"`
	CourseTitle string `json:"courseTitle" validate:"required,max=255"`
}

type UpdateCourseRequest struct {
	CourseCode  string `json:"courseCode" validate:"required,max=50"`
	CourseTitle string `json:"courseTitle" validate:"required,max=255"`
}

type CreateCourseRegistrationRequest struct {
	StudentID string `json:"studentId" validate:"required,uuid"`
	CourseID  string `json:"courseId" validate:"required,uuid"`
}

type ClockInRequest struct {
	StudentID string `json:"studentId" validate:"required,uuid"`
	CourseID  string `json:"courseId" validate:"required,uuid"`
}

type ClockOutRequest struct {
	StudentID string `json:"studentId" validate:"required,uuid"`
	CourseID  string `json:"courseId" validate:"required,uuid"`
}

type CreateAttendanceRequest struct {
	StudentID string     `json:"studentId" validate:"required,uuid"`
	CourseID  string     `json:"courseId" validate:"required,uuid"`
	ClockIn   *time.Time `json:"clockIn"`
	ClockOut  *time.Time `json:"clockOut"`
}

type UpdateAttendanceRequest struct {
	ClockIn  *time.Time `json:"clockIn"`
	ClockOut *time.Time `json:"clockOut"`
}

type CreateTeamRequest struct {
	Name        string `json:"name" validate:"required,max=150"`
	Description string `json:"description" validate:"required"`
}

type AssignTeamRequest struct {
	TeamID    string `json:"teamId" validate:"required,uuid"`
	StudentID string `json:"studentId" validate:"required,uuid"`
}

type CreateTaskRequest struct {
	Title              string  `json:"title" validate:"required,max=255"`
	Description        *string `json:"description"`
	CourseID           string  `json:"courseId" validate:"required,uuid"`
	MaxObtainableScore float64 `json:"maxObtainableScore" validate:"gt=0"`
}

type UpdateTaskRequest struct {
	Title              string  `json:"title" validate:"required,max=255"`
	Description        *string `json:"description"`
	MaxObtainableScore float64 `json:"maxObtainableScore" validate:"gt=0"`
}

type CreateTaskScoreRequest struct {
	TaskID    string  `json:"taskId" validate:"required,uuid"`
	StudentID string  `json:"studentId" validate:"required,uuid"`
	Score     float64 `json:"score" validate:"gte=0"`
}

type UpdateTaskScoreRequest struct {
	Score float64 `json:"score" validate:"gte=0"`
}

type TaskScoreFilter struct {
	TaskID    string
	StudentID string
}

type AttendanceExport struct {
	ObjectKey string `json:"objectKey"`
	URL       string `json:"url"`
	Rows      int    `json:"rows"`
}

type UpdateTeamRequest struct {
	Name        string `json:"name" validate:"required,max=150"`
	Description string `json:"description" validate:"required"`
}
