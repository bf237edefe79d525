package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCategories(t *testing.T) {
	assert.ErrorIs(t, ErrStudentNotFound, ErrNotFound)
	assert.ErrorIs(t, ErrAlreadyClockedIn, ErrConflict)
	assert.ErrorIs(t, errScoreAboveMax(5), ErrInvalidArgument)
	assert.NotErrorIs(t, ErrAlreadyClockedIn, ErrNotFound)
}

func TestErrorMessageSurvivesWrapping(t *testing.T) {
	wrapped := fmt.Errorf("clock in: %w", ErrAlreadyClockedIn)

	var svcErr *Error
	assert.True(t, errors.As(wrapped, &svcErr))
	assert.Equal(t, "Student is already clocked in", svcErr.Message)
	assert.Equal(t, "Quiz Crew is already in use", errTeamNameInUse("Quiz Crew").Message)
	assert.Equal(t, "The score cannot exceed the maximum obtainable score of 7.5", errScoreAboveMax(7.5).Message)
}
