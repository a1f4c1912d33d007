package bootstrap

import (
	"context"
	"log"

	"quality-review-be/internal/config"
	"quality-review-be/internal/controller"
	"quality-review-be/internal/handler"
	"quality-review-be/internal/pkg/logger"
	"quality-review-be/internal/repository/contract"
	"quality-review-be/internal/repository/implementation"
	"quality-review-be/internal/repository/memory"
	"quality-review-be/internal/repository/unitofwork"
	"quality-review-be/internal/service"
	"quality-review-be/internal/websocket"
	pktNats "quality-review-be/pkg/nats"
	"quality-review-be/pkg/qualityapi"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ReviewController     controller.IReviewController
	SubmissionController controller.ISubmissionController
	ReviewFeedHandler    *handler.ReviewFeedHandler

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	WebSocketHub    *websocket.Hub
	Workspaces      *memory.WorkspaceRepository

	Logger logger.ILogger

	closers []func()
}

func NewContainer(ctx context.Context, db *gorm.DB, cfg *config.Config) *Container {
	c := &Container{}

	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	c.Logger = sysLogger

	// 2. Event Bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, func() { pubSub.Close() })

	// 3. Infrastructure
	rdb := connectRedis(cfg.App.RedisURL)
	if rdb != nil {
		c.closers = append(c.closers, func() { rdb.Close() })
	}

	var forwarder service.EventForwarder
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] NATS unavailable, review events stay in-process: %v", err)
	} else {
		forwarder = natsPub
		c.closers = append(c.closers, natsPub.Close)
	}

	// WebSocket Hub
	feedLogger := logger.NewIsolatedLogger(cfg.App.EventLogFilePath)
	wsHub := websocket.NewHub(rdb, feedLogger)
	go wsHub.Run(ctx)
	c.WebSocketHub = wsHub

	// 4. Repositories
	drafts := newDraftRepository(cfg, rdb)
	c.Workspaces = memory.NewWorkspaceRepository(cfg.Review.WorkspaceTTL)

	// 5. Services
	backend := qualityapi.NewClient(qualityapi.Config{
		BaseURL: cfg.Quality.BaseURL,
		Token:   cfg.Quality.Token,
		Timeout: cfg.Quality.Timeout,
	})
	publisherService := service.NewPublisherService(cfg.Keys.ReviewEventsTopic, pubSub)
	c.ConsumerService = service.NewConsumerService(
		pubSub,
		cfg.Keys.ReviewEventsTopic,
		uowFactory,
		forwarder,
		wsHub,
		sysLogger,
	)

	reviewService := service.NewReviewService(backend, drafts, c.Workspaces, publisherService, sysLogger)
	submissionService := service.NewSubmissionService(uowFactory)

	// 6. Controllers
	c.ReviewController = controller.NewReviewController(reviewService, cfg.Keys.JwtSecret)
	c.SubmissionController = controller.NewSubmissionController(submissionService, cfg.Keys.JwtSecret)
	c.ReviewFeedHandler = handler.NewReviewFeedHandler(wsHub, cfg.Keys.JwtSecret, feedLogger)

	return c
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}

func connectRedis(url string) *redis.Client {
	if url == "" {
		return nil
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{Addr: url}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
		rdb.Close()
		return nil
	}
	return rdb
}

func newDraftRepository(cfg *config.Config, rdb *redis.Client) contract.DraftRepository {
	if cfg.Review.DraftBackend == "redis" {
		if rdb != nil {
			log.Printf("[INFO] Draft store: redis")
			return implementation.NewRedisDraftRepository(rdb, cfg.Review.DraftTTL)
		}
		log.Printf("[WARN] Draft store: redis requested but unavailable, drafts will not survive a restart")
	}
	log.Printf("[INFO] Draft store: memory")
	return memory.NewDraftRepository()
}
