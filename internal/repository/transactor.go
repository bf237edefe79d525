package repository

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Locker takes locks that are released when the surrounding transaction ends.
type Locker interface {
	Lock(ctx context.Context, key string) error
}

// TxRepositories are bound to a single transaction.
type TxRepositories struct {
	Attendance AttendanceRepository
	Tasks      TaskRepository
	TaskScores TaskScoreRepository
	Locks      Locker
}

type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos TxRepositories) error) error
}

type sqlTransactor struct {
	db     DB
	logger zerolog.Logger
}

func NewTransactor(db DB, logger zerolog.Logger) Transactor {
	return &sqlTransactor{
		db:     db,
		logger: logger,
	}
}

func (t *sqlTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context, repos TxRepositories) error) error {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil {
			t.logger.Error().Err(rbErr).Msg("Failed to rollback transaction")
		}
	}()

	repos := TxRepositories{
		Attendance: NewAttendanceRepository(tx, t.logger),
		Tasks:      NewTaskRepository(tx, t.logger),
		TaskScores: NewTaskScoreRepository(tx, t.logger),
		Locks:      &advisoryLocker{PostgresRepository: NewPostgresRepository(tx, t.logger)},
	}

	if err := fn(ctx, repos); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", translateError(err))
	}
	committed = true

	return nil
}

type advisoryLocker struct {
	*PostgresRepository
}

func (l *advisoryLocker) Lock(ctx context.Context, key string) error {
	return l.exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key)
}
