package implementation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quality-review-be/internal/repository/contract"
	"quality-review-be/pkg/review"

	"github.com/redis/go-redis/v9"
)

// RedisDraftRepository stores drafts under review.DraftKey. A ttl of 0 keeps a
// draft until it is deleted.
type RedisDraftRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisDraftRepository(rdb *redis.Client, ttl time.Duration) contract.DraftRepository {
	return &RedisDraftRepository{rdb: rdb, ttl: ttl}
}

func (r *RedisDraftRepository) Get(ctx context.Context, sessionId int64) (*review.Draft, error) {
	data, err := r.rdb.Get(ctx, review.DraftKey(sessionId)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read draft %d: %w", sessionId, err)
	}
	draft, ok := review.DecodeDraft(data)
	if !ok {
		return nil, nil
	}
	return draft, nil
}

func (r *RedisDraftRepository) Put(ctx context.Context, sessionId int64, draft *review.Draft) error {
	data, err := review.EncodeDraft(draft)
	if err != nil {
		return fmt.Errorf("failed to encode draft %d: %w", sessionId, err)
	}
	if err := r.rdb.Set(ctx, review.DraftKey(sessionId), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write draft %d: %w", sessionId, err)
	}
	return nil
}

func (r *RedisDraftRepository) Delete(ctx context.Context, sessionId int64) error {
	if err := r.rdb.Del(ctx, review.DraftKey(sessionId)).Err(); err != nil {
		return fmt.Errorf("failed to delete draft %d: %w", sessionId, err)
	}
	return nil
}
