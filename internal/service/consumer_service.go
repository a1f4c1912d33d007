package service

import (
	"context"
	"encoding/json"

	"quality-review-be/internal/entity"
	"quality-review-be/internal/pkg/logger"
	"quality-review-be/internal/repository/unitofwork"
	"quality-review-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

const (
	FeedSessionReviewed = "session_reviewed"
	FeedReviewFailed    = "review_failed"
)

// EventForwarder ships review events off-process (NATS JetStream in production).
type EventForwarder interface {
	Publish(ctx context.Context, event events.Event) error
}

// ReviewFeed delivers events to connected reviewers.
type ReviewFeed interface {
	Broadcast(messageType string, data interface{})
	Send(reviewerId, messageType string, data interface{})
}

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	forwarder  EventForwarder
	feed       ReviewFeed
	logger     logger.ILogger
}

// NewConsumerService wires the review event bus. forwarder and feed may be nil.
func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	forwarder EventForwarder,
	feed ReviewFeed,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		uowFactory: uowFactory,
		forwarder:  forwarder,
		feed:       feed,
		logger:     log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

// processMessage always acks: every step is best effort and gochannel would
// redeliver a nacked message in a tight loop.
func (cs *consumerService) processMessage(msg *message.Message) {
	defer msg.Ack()
	ctx := msg.Context()

	var evt events.ReviewEvent
	if err := json.Unmarshal(msg.Payload, &evt); err != nil {
		cs.logger.Error("ConsumerService", "Failed to unmarshal review event", map[string]interface{}{"error": err, "message_id": msg.UUID})
		return
	}

	if err := cs.audit(ctx, evt); err != nil {
		cs.logger.Error("ConsumerService", "Failed to record review submission", map[string]interface{}{
			"session_id": evt.SessionId,
			"error":      err,
		})
	}

	if cs.forwarder != nil {
		if err := cs.forwarder.Publish(ctx, evt); err != nil {
			cs.logger.Warn("ConsumerService", "Failed to forward review event", map[string]interface{}{
				"event_type": evt.EventType(),
				"error":      err,
			})
		}
	}

	if cs.feed != nil {
		if evt.Succeeded() {
			cs.feed.Broadcast(FeedSessionReviewed, evt.Payload())
		} else {
			cs.feed.Send(evt.ReviewerId, FeedReviewFailed, evt.Payload())
		}
	}
}

func (cs *consumerService) audit(ctx context.Context, evt events.ReviewEvent) error {
	if cs.uowFactory == nil {
		return nil
	}

	outcome := entity.SubmissionFailed
	if evt.Succeeded() {
		outcome = entity.SubmissionSucceeded
	}
	submission := &entity.ReviewSubmission{
		Id:            uuid.New(),
		SessionId:     evt.SessionId,
		ReviewerId:    evt.ReviewerId,
		WorkspaceId:   evt.WorkspaceId,
		Score:         evt.Score,
		Grade:         evt.Grade,
		Outcome:       outcome,
		BackendStatus: evt.BackendStatus,
		Message:       evt.Message,
		Payload:       evt.Submission,
		CreatedAt:     evt.OccurredAt,
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	return unitofwork.WithinTransaction(ctx, uow, func(uow unitofwork.UnitOfWork) error {
		return uow.ReviewSubmissionRepository().Create(ctx, submission)
	})
}
