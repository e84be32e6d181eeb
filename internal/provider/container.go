package provider

import (
	"github.com/atelier-market/atelier-api/internal/cache"
	"github.com/atelier-market/atelier-api/internal/config"
	"github.com/atelier-market/atelier-api/internal/logger"
	"github.com/atelier-market/atelier-api/internal/models"
	"github.com/atelier-market/atelier-api/internal/queue"
	"github.com/atelier-market/atelier-api/internal/repository"
	"github.com/atelier-market/atelier-api/internal/service"
)

// Container wires repositories and services once at startup.
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	UserRepo         repository.UserRepository
	ProductRepo      repository.ProductRepository
	CartRepo         repository.CartRepository
	OrderRepo        repository.OrderRepository
	EngagementRepo   repository.EngagementRepository
	FollowRepo       repository.FollowRepository
	ViewRepo         repository.ViewRepository
	NotificationRepo repository.NotificationRepository

	// Services
	NotificationService *service.NotificationService
	EngagementService   *service.EngagementService
	FollowService       *service.FollowService
	RecommendService    *service.RecommendService
	ProductService      *service.ProductService
	CartService         *service.CartService
	PaymentService      *service.PaymentService
	OrderService        *service.OrderService
}

// NewContainer builds the container.
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}
	c.initRepositories()
	c.initServices()
	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.EngagementRepo = repository.NewEngagementRepository(db)
	c.FollowRepo = repository.NewFollowRepository(db)
	c.ViewRepo = repository.NewViewRepository(db)
	c.NotificationRepo = repository.NewNotificationRepository(db)
}

func (c *Container) initServices() {
	limiter := cache.NewFixedWindowLimiter(
		cache.Client(),
		c.Config.Engagement.ToggleWindowSeconds,
		c.Config.Engagement.ToggleMax,
	)

	c.NotificationService = service.NewNotificationService(c.NotificationRepo)
	c.EngagementService = service.NewEngagementService(c.EngagementRepo, c.ProductRepo, c.NotificationService, limiter)
	c.FollowService = service.NewFollowService(c.FollowRepo, c.UserRepo, c.NotificationService, limiter)
	c.RecommendService = service.NewRecommendService(c.ProductRepo, c.EngagementRepo, c.ViewRepo, c.OrderRepo, c.Config.Recommend.Limit)
	c.ProductService = service.NewProductService(c.ProductRepo, c.ViewRepo, c.EngagementService, c.RecommendService)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo)
	c.PaymentService = service.NewPaymentService(service.NewHTTPGateway(c.Config.Gateway), c.QueueClient, c.Config.Gateway.Currency)
	c.OrderService = service.NewOrderService(
		c.OrderRepo,
		c.ProductRepo,
		c.CartRepo,
		c.CartService,
		c.PaymentService,
		c.NotificationService,
		c.Config.Gateway.DebugErrors,
	)
}
