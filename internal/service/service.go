package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ProjectUnravel/StudentManagementAPI/internal/models"
	"github.com/ProjectUnravel/StudentManagementAPI/internal/repository"
)

func newPage[T any](items []T, total int, page models.PaginationRequest) *models.Page[T] {
	return &models.Page[T]{
		Items:    items,
		MetaData: models.NewMetaData(page.PageIndex, page.PageSize, total),
	}
}

// resolveNoRows explains a write that touched no rows: the record is
// either gone or was changed underneath us.
func resolveNoRows(ctx context.Context, err error, op string, notFound *Error, exists func(ctx context.Context) (bool, error)) error {
	if !errors.Is(err, repository.ErrNoRows) {
		return fmt.Errorf("failed to %s: %w", op, err)
	}

	ok, existsErr := exists(ctx)
	if existsErr != nil {
		return fmt.Errorf("failed to re-check record: %w", existsErr)
	}
	if !ok {
		return notFound
	}

	return ErrConcurrentUpdate
}
