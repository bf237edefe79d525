package models

import (
	"time"
)

type Student struct {
	ID          string    `json:"id" db:"id"`
	FirstName   string    `json:"firstName" db:"first_name"`
	LastName    string    `json:"lastName" db:"last_name"`
	Email       string    `json:"email" db:"email"`
	PhoneNumber string    `json:"phoneNumber" db:"phone_number"`
	Gender      string    `json:"gender" db:"gender"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

func (s Student) FullName() string {
	return s.FirstName + " " + s.LastName
}
