package implementation

import (
	"context"

	"quality-review-be/internal/entity"
	"quality-review-be/internal/mapper"
	"quality-review-be/internal/model"
	"quality-review-be/internal/repository/contract"
	"quality-review-be/internal/repository/specification"

	"gorm.io/gorm"
)

type ReviewSubmissionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ReviewSubmissionMapper
}

func NewReviewSubmissionRepository(db *gorm.DB) contract.ReviewSubmissionRepository {
	return &ReviewSubmissionRepositoryImpl{
		db:     db,
		mapper: mapper.NewReviewSubmissionMapper(),
	}
}

func (r *ReviewSubmissionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ReviewSubmissionRepositoryImpl) Create(ctx context.Context, submission *entity.ReviewSubmission) error {
	m := r.mapper.ToModel(submission)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*submission = *r.mapper.ToEntity(m)
	return nil
}

func (r *ReviewSubmissionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ReviewSubmission, error) {
	var rows []*model.ReviewSubmission
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(rows), nil
}

func (r *ReviewSubmissionRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.ReviewSubmission{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
