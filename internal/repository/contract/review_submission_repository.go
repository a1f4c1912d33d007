package contract

import (
	"context"

	"quality-review-be/internal/entity"
	"quality-review-be/internal/repository/specification"
)

type ReviewSubmissionRepository interface {
	Create(ctx context.Context, submission *entity.ReviewSubmission) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ReviewSubmission, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
