package app

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/ProjectUnravel/StudentManagementAPI/internal/config"
	"github.com/ProjectUnravel/StudentManagementAPI/internal/delivery/httpd"
	"github.com/ProjectUnravel/StudentManagementAPI/internal/metrics"
	"github.com/ProjectUnravel/StudentManagementAPI/internal/middleware"
	"github.com/ProjectUnravel/StudentManagementAPI/internal/repository"
	"github.com/ProjectUnravel/StudentManagementAPI/internal/service"
	"github.com/ProjectUnravel/StudentManagementAPI/internal/service/integration"
)

type App struct {
	server    *http.Server
	logger    zerolog.Logger
	config    *config.Config
	db        *sql.DB
	publisher integration.EventPublisher
}

func New(cfg *config.Config, log zerolog.Logger, db *sql.DB) (*App, error) {
	publisher := newPublisher(cfg.RabbitMQ, log)

	storage, err := newStorage(cfg.Storage, log)
	if err != nil {
		return nil, err
	}

	var recorder metrics.Recorder = metrics.Nop()
	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
		recorder = m
	}

	// Repositories
	studentRepo := repository.NewStudentRepository(db, log)
	courseRepo := repository.NewCourseRepository(db, log)
	registrationRepo := repository.NewCourseRegistrationRepository(db, log)
	attendanceRepo := repository.NewAttendanceRepository(db, log)
	teamRepo := repository.NewTeamRepository(db, log)
	memberRepo := repository.NewTeamMemberRepository(db, log)
	taskRepo := repository.NewTaskRepository(db, log)
	scoreRepo := repository.NewTaskScoreRepository(db, log)
	transactor := repository.NewTransactor(db, log)

	services := httpd.Services{
		Students:      service.NewStudentService(studentRepo, log),
		Courses:       service.NewCourseService(courseRepo, log),
		Registrations: service.NewCourseRegistrationService(registrationRepo, studentRepo, courseRepo, log),
		Attendance: service.NewAttendanceService(
			attendanceRepo,
			studentRepo,
			courseRepo,
			transactor,
			publisher,
			recorder,
			cfg.Attendance,
			log,
		),
		Exports:     service.NewExportService(attendanceRepo, courseRepo, storage, log),
		Teams:       service.NewTeamService(teamRepo, log),
		TeamMembers: service.NewTeamMemberService(memberRepo, teamRepo, studentRepo, log),
		Tasks:       service.NewTaskService(taskRepo, scoreRepo, courseRepo, log),
		TaskScores:  service.NewTaskScoreService(scoreRepo, taskRepo, studentRepo, registrationRepo, publisher, log),
	}

	handler := httpd.NewHandler(services, repository.NewHealthRepository(db), log)

	router := chi.NewRouter()

	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.NewCORS(cfg.CORS))
	if m != nil {
		router.Use(m.Middleware)
	}
	router.Use(chimw.Timeout(cfg.Server.RequestTimeout))

	if m != nil {
		router.Handle(cfg.Metrics.Path, m.Handler())
	}
	handler.RegisterRoutes(router)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &App{
		server:    server,
		logger:    log,
		config:    cfg,
		db:        db,
		publisher: publisher,
	}, nil
}

// newPublisher falls back to a no-op publisher when the broker is disabled
// or unreachable; events are best effort.
func newPublisher(cfg config.RabbitMQConfig, log zerolog.Logger) integration.EventPublisher {
	if !cfg.Enabled {
		return integration.NewNoopPublisher(log)
	}

	publisher, err := integration.NewRabbitMQClient(cfg.URL, cfg.Exchange, log)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create RabbitMQ client, events will be dropped")
		return integration.NewNoopPublisher(log)
	}

	return publisher
}

func newStorage(cfg config.StorageConfig, log zerolog.Logger) (integration.ObjectStorage, error) {
	if !cfg.Enabled {
		log.Info().Msg("Object storage disabled, attendance exports are unavailable")
		return nil, nil
	}

	return integration.NewMinIOStorage(
		cfg.Endpoint,
		cfg.AccessKey,
		cfg.SecretKey,
		cfg.Bucket,
		cfg.Region,
		cfg.UseSSL,
		cfg.PresignExpiry,
		log,
	)
}

func (a *App) Handler() http.Handler {
	return a.server.Handler
}

func (a *App) Run() error {
	a.logger.Info().Msgf("Starting student records API on %s", a.config.Server.Address)
	return a.server.ListenAndServe()
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info().Msg("Shutting down student records API...")

	err := a.server.Shutdown(ctx)

	if a.publisher != nil {
		if cerr := a.publisher.Close(); cerr != nil {
			a.logger.Error().Err(cerr).Msg("Failed to close RabbitMQ connection")
		}
	}

	if a.db != nil {
		if cerr := a.db.Close(); cerr != nil {
			a.logger.Error().Err(cerr).Msg("Failed to close database connection")
		}
	}

	return err
}
