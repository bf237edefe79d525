package models

import (
	"time"
)

type Task struct {
	ID                 string    `json:"id" db:"id"`
	Title              string    `json:"title" db:"title"`
	Description        *string   `json:"description" db:"description"`
	CourseID           string    `json:"courseId" db:"course_id"`
	MaxObtainableScore float64   `json:"maxObtainableScore" db:"max_obtainable_score"`
	CreatedAt          time.Time `json:"createdAt" db:"created_at"`
}

type TaskWithDetails struct {
	Task
	Course          *Course `json:"course,omitempty"`
	TaskScoresCount int     `json:"taskScoresCount" db:"task_scores_count"`
}

type TaskScore struct {
	ID        string    `json:"id" db:"id"`
	TaskID    string    `json:"taskId" db:"task_id"`
	StudentID string    `json:"studentId" db:"student_id"`
	Score     float64   `json:"score" db:"score"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type TaskScoreWithDetails struct {
	TaskScore
	Task    *Task    `json:"task,omitempty"`
	Student *Student `json:"student,omitempty"`
}
