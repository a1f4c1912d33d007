package unitofwork

import (
	"context"

	"quality-review-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ReviewSubmissionRepository() contract.ReviewSubmissionRepository
}
