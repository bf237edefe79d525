package models

import (
	"time"
)

type Team struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	IsActive    bool      `json:"isActive" db:"is_active"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

type TeamMember struct {
	ID        string    `json:"id" db:"id"`
	StudentID string    `json:"studentId" db:"student_id"`
	TeamID    string    `json:"teamId" db:"team_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// TeamMembers lists a team's students; each member's CreatedAt is the
// time the student joined the team, not the student record's creation time.
type TeamMembers struct {
	Team    *Team     `json:"team"`
	Members []Student `json:"members"`
}
