package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/ProjectUnravel/StudentManagementAPI/internal/models"
	"github.com/ProjectUnravel/StudentManagementAPI/internal/repository"
)

// memStore backs every fake repository so services see one consistent
// data set, the way they would with a shared database.
type memStore struct {
	mu sync.Mutex

	students      map[string]models.Student
	courses       map[string]models.Course
	registrations map[string]models.CourseRegistration
	attendances   map[string]models.Attendance
	teams         map[string]models.Team
	members       map[string]models.TeamMember
	tasks         map[string]models.Task
	scores        map[string]models.TaskScore

	locks          []string
	failScoreWrite error
}

func newMemStore() *memStore {
	return &memStore{
		students:      map[string]models.Student{},
		courses:       map[string]models.Course{},
		registrations: map[string]models.CourseRegistration{},
		attendances:   map[string]models.Attendance{},
		teams:         map[string]models.Team{},
		members:       map[string]models.TeamMember{},
		tasks:         map[string]models.Task{},
		scores:        map[string]models.TaskScore{},
	}
}

func (m *memStore) addStudent(id, first, last, email string) models.Student {
	s := models.Student{ID: id, FirstName: first, LastName: last, Email: email, CreatedAt: time.Now().UTC()}
	m.students[id] = s
	return s
}

func (m *memStore) addCourse(id, code, title string) models.Course {
	c := models.Course{ID: id, CourseCode: code, CourseTitle: title, CreatedAt: time.Now().UTC()}
	m.courses[id] = c
	return c
}

func (m *memStore) register(studentID, courseID string) {
	id := studentID + "/" + courseID
	m.registrations[id] = models.CourseRegistration{ID: id, StudentID: studentID, CourseID: courseID, CreatedAt: time.Now().UTC()}
}

func page[T any](items []T) ([]T, int, error) {
	if items == nil {
		items = make([]T, 0)
	}
	return items, len(items), nil
}

func duplicate(constraint string) error {
	return &repository.ConstraintError{Kind: repository.ErrDuplicate, Constraint: constraint}
}

// students

type fakeStudents struct{ *memStore }

func (f fakeStudents) Create(ctx context.Context, s *models.Student) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, other := range f.students {
		if strings.EqualFold(other.Email, s.Email) {
			return duplicate(repository.ConstraintStudentEmail)
		}
	}
	f.students[s.ID] = *s
	return nil
}

func (f fakeStudents) GetByID(ctx context.Context, id string) (*models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.students[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (f fakeStudents) GetByEmail(ctx context.Context, email string) (*models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.students {
		if strings.EqualFold(s.Email, email) {
			s := s
			return &s, nil
		}
	}
	return nil, nil
}

func (f fakeStudents) List(ctx context.Context, p models.PaginationRequest) ([]models.Student, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Student
	for _, s := range f.students {
		out = append(out, s)
	}
	return page(out)
}

func (f fakeStudents) Update(ctx context.Context, s *models.Student) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.students[s.ID]; !ok {
		return repository.ErrNoRows
	}
	f.students[s.ID] = *s
	return nil
}

func (f fakeStudents) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.students[id]; !ok {
		return repository.ErrNoRows
	}
	delete(f.students, id)
	return nil
}

func (f fakeStudents) Exists(ctx context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.students[id]
	return ok, nil
}

// courses

type fakeCourses struct{ *memStore }

func (f fakeCourses) Create(ctx context.Context, c *models.Course) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, other := range f.courses {
		if other.CourseCode == c.CourseCode {
			return duplicate(repository.ConstraintCourseCode)
		}
	}
	f.courses[c.ID] = *c
	return nil
}

func (f fakeCourses) GetByID(ctx context.Context, id string) (*models.CourseWithStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.courses[id]
	if !ok {
		return nil, nil
	}
	count := 0
	for _, r := range f.registrations {
		if r.CourseID == id {
			count++
		}
	}
	return &models.CourseWithStats{Course: c, CourseRegistrationCount: count}, nil
}

func (f fakeCourses) GetByCode(ctx context.Context, code string) (*models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.courses {
		if c.CourseCode == code {
			c := c
			return &c, nil
		}
	}
	return nil, nil
}

func (f fakeCourses) List(ctx context.Context, p models.PaginationRequest) ([]models.CourseWithStats, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.CourseWithStats
	for _, c := range f.courses {
		out = append(out, models.CourseWithStats{Course: c})
	}
	return page(out)
}

func (f fakeCourses) ListStudents(ctx context.Context, courseID string) ([]models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Student, 0)
	for _, r := range f.registrations {
		if r.CourseID == courseID {
			out = append(out, f.students[r.StudentID])
		}
	}
	return out, nil
}

func (f fakeCourses) Update(ctx context.Context, c *models.Course) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.courses[c.ID]; !ok {
		return repository.ErrNoRows
	}
	f.courses[c.ID] = *c
	return nil
}

func (f fakeCourses) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.courses[id]; !ok {
		return repository.ErrNoRows
	}
	delete(f.courses, id)
	return nil
}

func (f fakeCourses) Exists(ctx context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.courses[id]
	return ok, nil
}

// registrations

type fakeRegistrations struct{ *memStore }

func (f fakeRegistrations) Create(ctx context.Context, r *models.CourseRegistration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, other := range f.registrations {
		if other.StudentID == r.StudentID && other.CourseID == r.CourseID {
			return duplicate(repository.ConstraintRegistrationUnique)
		}
	}
	f.registrations[r.ID] = *r
	return nil
}

func (f fakeRegistrations) GetByID(ctx context.Context, id string) (*models.CourseRegistrationWithDetails, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.registrations[id]
	if !ok {
		return nil, nil
	}
	student := f.students[r.StudentID]
	course := f.courses[r.CourseID]
	return &models.CourseRegistrationWithDetails{CourseRegistration: r, Student: &student, Course: &course}, nil
}

func (f fakeRegistrations) Exists(ctx context.Context, studentID, courseID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.registrations {
		if r.StudentID == studentID && r.CourseID == courseID {
			return true, nil
		}
	}
	return false, nil
}

func (f fakeRegistrations) List(ctx context.Context, filter repository.RegistrationFilter, p models.PaginationRequest) ([]models.CourseRegistrationWithDetails, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.CourseRegistrationWithDetails
	for _, r := range f.registrations {
		if filter.StudentID != "" && r.StudentID != filter.StudentID {
			continue
		}
		if filter.CourseID != "" && r.CourseID != filter.CourseID {
			continue
		}
		out = append(out, models.CourseRegistrationWithDetails{CourseRegistration: r})
	}
	return page(out)
}

func (f fakeRegistrations) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.registrations[id]; !ok {
		return repository.ErrNoRows
	}
	delete(f.registrations, id)
	return nil
}

// attendance

type fakeAttendance struct{ *memStore }

func (f fakeAttendance) Create(ctx context.Context, a *models.Attendance) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a.IsActive() {
		for _, other := range f.attendances {
			if other.StudentID == a.StudentID && other.IsActive() {
				return duplicate(repository.ConstraintSingleActiveAttendance)
			}
		}
	}
	f.attendances[a.ID] = *a
	return nil
}

func (f fakeAttendance) GetByID(ctx context.Context, id string) (*models.AttendanceWithDetails, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.attendances[id]
	if !ok {
		return nil, nil
	}
	student := f.students[a.StudentID]
	course := f.courses[a.CourseID]
	return &models.AttendanceWithDetails{Attendance: a, Student: &student, Course: &course}, nil
}

func (f fakeAttendance) GetActiveByStudent(ctx context.Context, studentID string) (*models.Attendance, error) {
	return f.active(func(a models.Attendance) bool { return a.StudentID == studentID })
}

func (f fakeAttendance) GetActiveByStudentAndCourse(ctx context.Context, studentID, courseID string) (*models.Attendance, error) {
	return f.active(func(a models.Attendance) bool { return a.StudentID == studentID && a.CourseID == courseID })
}

func (f fakeAttendance) active(match func(models.Attendance) bool) (*models.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.attendances {
		if a.IsActive() && match(a) {
			a := a
			return &a, nil
		}
	}
	return nil, nil
}

func (f fakeAttendance) CountByCourseBetween(ctx context.Context, courseID string, from, to time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, a := range f.attendances {
		if a.CourseID == courseID && !a.CreatedAt.Before(from) && a.CreatedAt.Before(to) {
			n++
		}
	}
	return n, nil
}

func (f fakeAttendance) List(ctx context.Context, filter repository.AttendanceFilter, p models.PaginationRequest) ([]models.AttendanceWithDetails, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.AttendanceWithDetails
	for _, a := range f.attendances {
		if filter.StudentID != "" && a.StudentID != filter.StudentID {
			continue
		}
		if filter.CourseID != "" && a.CourseID != filter.CourseID {
			continue
		}
		out = append(out, models.AttendanceWithDetails{Attendance: a})
	}
	return page(out)
}

func (f fakeAttendance) ListByCourse(ctx context.Context, courseID string) ([]models.AttendanceWithDetails, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.AttendanceWithDetails, 0)
	for _, a := range f.attendances {
		if a.CourseID == courseID {
			student := f.students[a.StudentID]
			out = append(out, models.AttendanceWithDetails{Attendance: a, Student: &student})
		}
	}
	return out, nil
}

func (f fakeAttendance) Update(ctx context.Context, a *models.Attendance) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.attendances[a.ID]; !ok {
		return repository.ErrNoRows
	}
	f.attendances[a.ID] = *a
	return nil
}

func (f fakeAttendance) ClockOut(ctx context.Context, id string, clockOut time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.attendances[id]
	if !ok || !a.IsActive() {
		return repository.ErrNoRows
	}
	a.ClockOut = &clockOut
	f.attendances[id] = a
	return nil
}

func (f fakeAttendance) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.attendances[id]; !ok {
		return repository.ErrNoRows
	}
	delete(f.attendances, id)
	return nil
}

// teams

type fakeTeams struct{ *memStore }

func (f fakeTeams) Create(ctx context.Context, t *models.Team) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.teams[t.ID] = *t
	return nil
}

func (f fakeTeams) GetActiveByID(ctx context.Context, id string) (*models.Team, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.teams[id]
	if !ok || !t.IsActive {
		return nil, nil
	}
	return &t, nil
}

func (f fakeTeams) NameInUse(ctx context.Context, name, excludeID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.teams {
		if t.IsActive && t.ID != excludeID && strings.EqualFold(t.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (f fakeTeams) List(ctx context.Context, p models.PaginationRequest) ([]models.Team, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Team
	for _, t := range f.teams {
		if t.IsActive {
			out = append(out, t)
		}
	}
	return page(out)
}

func (f fakeTeams) Update(ctx context.Context, t *models.Team) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.teams[t.ID]
	if !ok || !cur.IsActive {
		return repository.ErrNoRows
	}
	f.teams[t.ID] = *t
	return nil
}

func (f fakeTeams) Deactivate(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.teams[id]
	if !ok || !t.IsActive {
		return repository.ErrNoRows
	}
	t.IsActive = false
	f.teams[id] = t
	return nil
}

// team members

type fakeMembers struct{ *memStore }

func (f fakeMembers) Create(ctx context.Context, m *models.TeamMember) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, other := range f.members {
		if other.StudentID == m.StudentID {
			return duplicate(repository.ConstraintTeamMemberStudent)
		}
	}
	f.members[m.ID] = *m
	return nil
}

func (f fakeMembers) GetByStudent(ctx context.Context, studentID string) (*models.TeamMember, error) {
	return f.find(func(m models.TeamMember) bool { return m.StudentID == studentID })
}

func (f fakeMembers) GetByStudentAndTeam(ctx context.Context, studentID, teamID string) (*models.TeamMember, error) {
	return f.find(func(m models.TeamMember) bool { return m.StudentID == studentID && m.TeamID == teamID })
}

func (f fakeMembers) find(match func(models.TeamMember) bool) (*models.TeamMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.members {
		if match(m) {
			m := m
			return &m, nil
		}
	}
	return nil, nil
}

func (f fakeMembers) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.members[id]; !ok {
		return repository.ErrNoRows
	}
	delete(f.members, id)
	return nil
}

func (f fakeMembers) ListByTeam(ctx context.Context, teamID string, p models.PaginationRequest) ([]models.Student, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Student
	for _, m := range f.members {
		if m.TeamID == teamID {
			s := f.students[m.StudentID]
			s.CreatedAt = m.CreatedAt
			out = append(out, s)
		}
	}
	return page(out)
}

// tasks

type fakeTasks struct{ *memStore }

func (f fakeTasks) Create(ctx context.Context, t *models.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.courses[t.CourseID]; !ok {
		return &repository.ConstraintError{Kind: repository.ErrForeignKey, Constraint: "tasks_course_id_fkey"}
	}
	f.tasks[t.ID] = *t
	return nil
}

func (f fakeTasks) GetByID(ctx context.Context, id string) (*models.TaskWithDetails, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[id]
	if !ok {
		return nil, nil
	}
	course := f.courses[t.CourseID]
	count := 0
	for _, s := range f.scores {
		if s.TaskID == id {
			count++
		}
	}
	return &models.TaskWithDetails{Task: t, Course: &course, TaskScoresCount: count}, nil
}

func (f fakeTasks) FindByCourseAndTitle(ctx context.Context, courseID, title string, from, to time.Time) (*models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tasks {
		if t.CourseID == courseID && t.Title == title && !t.CreatedAt.Before(from) && t.CreatedAt.Before(to) {
			t := t
			return &t, nil
		}
	}
	return nil, nil
}

func (f fakeTasks) List(ctx context.Context, p models.PaginationRequest) ([]models.TaskWithDetails, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.TaskWithDetails
	for _, t := range f.tasks {
		out = append(out, models.TaskWithDetails{Task: t})
	}
	return page(out)
}

func (f fakeTasks) Update(ctx context.Context, t *models.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tasks[t.ID]; !ok {
		return repository.ErrNoRows
	}
	f.tasks[t.ID] = *t
	return nil
}

func (f fakeTasks) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tasks[id]; !ok {
		return repository.ErrNoRows
	}
	delete(f.tasks, id)
	return nil
}

func (f fakeTasks) Exists(ctx context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.tasks[id]
	return ok, nil
}

// task scores

type fakeScores struct{ *memStore }

func (f fakeScores) Create(ctx context.Context, s *models.TaskScore) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failScoreWrite != nil {
		return f.failScoreWrite
	}
	for _, other := range f.scores {
		if other.TaskID == s.TaskID && other.StudentID == s.StudentID {
			return duplicate(repository.ConstraintTaskScoreUnique)
		}
	}
	f.scores[s.ID] = *s
	return nil
}

func (f fakeScores) GetByID(ctx context.Context, id string) (*models.TaskScoreWithDetails, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.scores[id]
	if !ok {
		return nil, nil
	}
	task := f.tasks[s.TaskID]
	student := f.students[s.StudentID]
	return &models.TaskScoreWithDetails{TaskScore: s, Task: &task, Student: &student}, nil
}

func (f fakeScores) GetByTaskAndStudent(ctx context.Context, taskID, studentID string) (*models.TaskScore, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.scores {
		if s.TaskID == taskID && s.StudentID == studentID {
			s := s
			return &s, nil
		}
	}
	return nil, nil
}

func (f fakeScores) List(ctx context.Context, filter models.TaskScoreFilter, p models.PaginationRequest) ([]models.TaskScoreWithDetails, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.TaskScoreWithDetails
	for _, s := range f.scores {
		if filter.TaskID != "" && s.TaskID != filter.TaskID {
			continue
		}
		if filter.StudentID != "" && s.StudentID != filter.StudentID {
			continue
		}
		out = append(out, models.TaskScoreWithDetails{TaskScore: s})
	}
	return page(out)
}

func (f fakeScores) MaxScoreByTask(ctx context.Context, taskID string) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var max float64
	for _, s := range f.scores {
		if s.TaskID == taskID && s.Score > max {
			max = s.Score
		}
	}
	return max, nil
}

func (f fakeScores) Update(ctx context.Context, s *models.TaskScore) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.scores[s.ID]; !ok {
		return repository.ErrNoRows
	}
	f.scores[s.ID] = *s
	return nil
}

func (f fakeScores) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.scores[id]; !ok {
		return repository.ErrNoRows
	}
	delete(f.scores, id)
	return nil
}

// transactions

type fakeLocker struct{ *memStore }

func (f fakeLocker) Lock(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.locks = append(f.locks, key)
	return nil
}

// fakeTransactor restores the attendance, task and score tables when fn
// fails, mimicking a rollback.
type fakeTransactor struct {
	*memStore
	txMu sync.Mutex
}

func (f *fakeTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context, repos repository.TxRepositories) error) error {
	f.txMu.Lock()
	defer f.txMu.Unlock()

	f.mu.Lock()
	attendances := copyMap(f.attendances)
	tasks := copyMap(f.tasks)
	scores := copyMap(f.scores)
	f.mu.Unlock()

	err := fn(ctx, repository.TxRepositories{
		Attendance: fakeAttendance{f.memStore},
		Tasks:      fakeTasks{f.memStore},
		TaskScores: fakeScores{f.memStore},
		Locks:      fakeLocker{f.memStore},
	})
	if err != nil {
		f.mu.Lock()
		f.attendances = attendances
		f.tasks = tasks
		f.scores = scores
		f.mu.Unlock()
	}

	return err
}

func copyMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// events

type recordingPublisher struct {
	mu         sync.Mutex
	clockIns   []*models.AttendanceClockedInEvent
	clockOuts  []*models.AttendanceClockedOutEvent
	scores     []*models.TaskScoreRecordedEvent
	publishErr error
}

func (p *recordingPublisher) PublishAttendanceClockedIn(ctx context.Context, event *models.AttendanceClockedInEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clockIns = append(p.clockIns, event)
	return p.publishErr
}

func (p *recordingPublisher) PublishAttendanceClockedOut(ctx context.Context, event *models.AttendanceClockedOutEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clockOuts = append(p.clockOuts, event)
	return p.publishErr
}

func (p *recordingPublisher) PublishTaskScoreRecorded(ctx context.Context, event *models.TaskScoreRecordedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.scores = append(p.scores, event)
	return p.publishErr
}

func (p *recordingPublisher) Close() error {
	return nil
}

type countingRecorder struct {
	clockIns, clockOuts, tasksCreated int
}

func (r *countingRecorder) ClockIn()               { r.clockIns++ }
func (r *countingRecorder) ClockOut()              { r.clockOuts++ }
func (r *countingRecorder) AttendanceTaskCreated() { r.tasksCreated++ }
