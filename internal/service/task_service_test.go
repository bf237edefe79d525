package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ProjectUnravel/StudentManagementAPI/internal/models"
)

func TestTaskLifecycle(t *testing.T) {
	store := newMemStore()
	store.addCourse("c1", "CS101", "Intro")
	svc := NewTaskService(fakeTasks{store}, fakeScores{store}, fakeCourses{store}, zerolog.Nop())
	ctx := context.Background()

	_, err := svc.CreateTask(ctx, &models.CreateTaskRequest{Title: "Quiz", CourseID: "ghost", MaxObtainableScore: 10})
	assert.ErrorIs(t, err, ErrUnknownTaskCourse)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	task, err := svc.CreateTask(ctx, &models.CreateTaskRequest{Title: " Quiz ", CourseID: "c1", MaxObtainableScore: 10})
	require.NoError(t, err)
	assert.Equal(t, "Quiz", task.Title)
	assert.Equal(t, "CS101", task.Course.CourseCode)

	desc := "week one"
	updated, err := svc.UpdateTask(ctx, task.ID, &models.UpdateTaskRequest{Title: "Quiz 1", Description: &desc, MaxObtainableScore: 20})
	require.NoError(t, err)
	assert.Equal(t, 20.0, updated.MaxObtainableScore)
	assert.Equal(t, "c1", updated.CourseID)

	require.NoError(t, svc.DeleteTask(ctx, task.ID))
	_, err = svc.GetTask(ctx, task.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestUpdateTaskKeepsMaxAboveRecordedScores(t *testing.T) {
	store := newMemStore()
	store.addCourse("c1", "CS101", "Intro")
	store.tasks["t1"] = models.Task{ID: "t1", Title: "Quiz", CourseID: "c1", MaxObtainableScore: 10}
	store.scores["ts1"] = models.TaskScore{ID: "ts1", TaskID: "t1", StudentID: "s1", Score: 9}
	store.scores["ts2"] = models.TaskScore{ID: "ts2", TaskID: "t1", StudentID: "s2", Score: 4}
	svc := NewTaskService(fakeTasks{store}, fakeScores{store}, fakeCourses{store}, zerolog.Nop())
	ctx := context.Background()

	_, err := svc.UpdateTask(ctx, "t1", &models.UpdateTaskRequest{Title: "Quiz", MaxObtainableScore: 2})
	require.ErrorIs(t, err, ErrInvalidArgument)
	assert.Equal(t, "The maximum obtainable score cannot be lower than an existing score of 9", err.Error())
	assert.Equal(t, 10.0, store.tasks["t1"].MaxObtainableScore)

	updated, err := svc.UpdateTask(ctx, "t1", &models.UpdateTaskRequest{Title: "Quiz", MaxObtainableScore: 9})
	require.NoError(t, err)
	assert.Equal(t, 9.0, updated.MaxObtainableScore)
	assert.Equal(t, 9.0, store.tasks["t1"].MaxObtainableScore)
}

func newScoreFixture() (*memStore, *recordingPublisher, TaskScoreService) {
	store := newMemStore()
	store.addCourse("c1", "CS101", "Intro")
	store.addStudent("s1", "Ada", "Lovelace", "ada@example.com")
	store.addStudent("s2", "Alan", "Turing", "alan@example.com")
	store.register("s1", "c1")
	store.tasks["t1"] = models.Task{ID: "t1", Title: "Quiz", CourseID: "c1", MaxObtainableScore: 10}

	pub := &recordingPublisher{}
	svc := NewTaskScoreService(fakeScores{store}, fakeTasks{store}, fakeStudents{store}, fakeRegistrations{store}, pub, zerolog.Nop())
	return store, pub, svc
}

func TestRecordScoreValidation(t *testing.T) {
	_, _, svc := newScoreFixture()
	ctx := context.Background()

	tests := []struct {
		name string
		req  models.CreateTaskScoreRequest
		want error
	}{
		{"unknown task", models.CreateTaskScoreRequest{TaskID: "ghost", StudentID: "s1", Score: 1}, ErrUnknownScoreTask},
		{"unknown student", models.CreateTaskScoreRequest{TaskID: "t1", StudentID: "ghost", Score: 1}, ErrUnknownScoreStudent},
		{"not enrolled", models.CreateTaskScoreRequest{TaskID: "t1", StudentID: "s2", Score: 1}, ErrStudentNotEnrolled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.RecordScore(ctx, &tt.req)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}

	_, err := svc.RecordScore(ctx, &models.CreateTaskScoreRequest{TaskID: "t1", StudentID: "s1", Score: 10.5})
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.EqualError(t, err, "The score cannot exceed the maximum obtainable score of 10")
}

func TestRecordScore(t *testing.T) {
	store, pub, svc := newScoreFixture()
	ctx := context.Background()

	score, err := svc.RecordScore(ctx, &models.CreateTaskScoreRequest{TaskID: "t1", StudentID: "s1", Score: 10})
	require.NoError(t, err)
	assert.Equal(t, "Quiz", score.Task.Title)
	require.Len(t, pub.scores, 1)
	assert.Equal(t, score.ID, pub.scores[0].TaskScoreID)

	_, err = svc.RecordScore(ctx, &models.CreateTaskScoreRequest{TaskID: "t1", StudentID: "s1", Score: 3})
	assert.ErrorIs(t, err, ErrTaskScoreExists)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Len(t, store.scores, 1)

	_, err = svc.UpdateScore(ctx, score.ID, &models.UpdateTaskScoreRequest{Score: 11})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	updated, err := svc.UpdateScore(ctx, score.ID, &models.UpdateTaskScoreRequest{Score: 7})
	require.NoError(t, err)
	assert.Equal(t, 7.0, updated.Score)
	assert.Equal(t, 7.0, store.scores[score.ID].Score)

	page, err := svc.ListScores(ctx, models.TaskScoreFilter{StudentID: "s2"}, models.PaginationRequest{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	require.NoError(t, svc.DeleteScore(ctx, score.ID))
	assert.ErrorIs(t, svc.DeleteScore(ctx, score.ID), ErrTaskScoreNotFound)
}
