package httpd

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/ProjectUnravel/StudentManagementAPI/internal/models"
	"github.com/ProjectUnravel/StudentManagementAPI/internal/repository"
	"github.com/ProjectUnravel/StudentManagementAPI/internal/service"
)

// Services groups the business services the handlers expose.
type Services struct {
	Students      service.StudentService
	Courses       service.CourseService
	Registrations service.CourseRegistrationService
	Attendance    service.AttendanceService
	Exports       service.ExportService
	Teams         service.TeamService
	TeamMembers   service.TeamMemberService
	Tasks         service.TaskService
	TaskScores    service.TaskScoreService
}

type Handler struct {
	services Services
	health   repository.Pinger
	validate *validator.Validate
	logger   zerolog.Logger
}

func NewHandler(services Services, health repository.Pinger, logger zerolog.Logger) *Handler {
	return &Handler{
		services: services,
		health:   health,
		validate: newValidator(),
		logger:   logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/health", h.HealthCheck)
	router.Get("/health/ready", h.ReadinessCheck)

	router.Route("/api/v1", func(api chi.Router) {
		api.Route("/students", func(r chi.Router) {
			r.Get("/", h.ListStudents)
			r.Post("/", h.CreateStudent)
			r.Get("/{id}", h.GetStudent)
			r.Put("/{id}", h.UpdateStudent)
			r.Delete("/{id}", h.DeleteStudent)
		})

		api.Route("/courses", func(r chi.Router) {
			r.Get("/", h.ListCourses)
			r.Post("/", h.CreateCourse)
			r.Get("/students/{courseId}", h.ListCourseStudents)
			r.Get("/{id}", h.GetCourse)
			r.Put("/{id}", h.UpdateCourse)
			r.Delete("/{id}", h.DeleteCourse)
			r.Post("/{id}/attendance/export", h.ExportCourseAttendance)
		})

		api.Route("/courseregistrations", func(r chi.Router) {
			r.Get("/", h.ListRegistrations)
			r.Post("/", h.CreateRegistration)
			r.Get("/student/{studentId}", h.ListStudentRegistrations)
			r.Get("/course/{courseId}", h.ListCourseRegistrations)
			r.Get("/{id}", h.GetRegistration)
			r.Delete("/{id}", h.DeleteRegistration)
		})

		api.Route("/attendance", func(r chi.Router) {
			r.Get("/", h.ListAttendance)
			r.Post("/", h.CreateAttendance)
			r.Post("/clockin", h.ClockIn)
			r.Post("/clockout", h.ClockOut)
			r.Get("/student/{studentId}", h.ListStudentAttendance)
			r.Get("/{id}", h.GetAttendance)
			r.Put("/{id}", h.UpdateAttendance)
			r.Delete("/{id}", h.DeleteAttendance)
		})

		api.Route("/tasks", func(r chi.Router) {
			r.Get("/", h.ListTasks)
			r.Post("/", h.CreateTask)
			r.Get("/{id}", h.GetTask)
			r.Put("/{id}", h.UpdateTask)
			r.Delete("/{id}", h.DeleteTask)
		})

		api.Route("/taskscores", func(r chi.Router) {
			r.Get("/", h.ListTaskScores)
			r.Post("/", h.CreateTaskScore)
			r.Get("/{id}", h.GetTaskScore)
			r.Put("/{id}", h.UpdateTaskScore)
			r.Delete("/{id}", h.DeleteTaskScore)
		})

		api.Route("/team", func(r chi.Router) {
			r.Get("/", h.ListTeams)
			r.Post("/", h.CreateTeam)
			r.Get("/{id}", h.GetTeam)
			r.Put("/{id}", h.UpdateTeam)
			r.Delete("/{id}", h.DeleteTeam)
		})

		api.Route("/team-members", func(r chi.Router) {
			r.Put("/assign", h.AssignTeam)
			r.Put("/unassign", h.UnassignTeam)
			r.Get("/{teamId}", h.ListTeamMembers)
		})
	})
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("API is running"))
}

func (h *Handler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		if err := h.health.Ping(r.Context()); err != nil {
			h.requestLogger(r).Error().Err(err).Msg("Database not reachable")
			writeErrorMessage(w, http.StatusServiceUnavailable, models.ErrorCodeUnavailable, "Database not reachable")
			return
		}
	}

	writeSuccess(w, http.StatusOK, "Ready", nil)
}
