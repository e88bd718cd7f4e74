package main

import (
	"context"
	"log"
	"order_queue/internal/auth"
	"order_queue/internal/config"
	"order_queue/internal/database"
	"order_queue/internal/events"
	"order_queue/internal/handlers"
	"order_queue/internal/migrations"
	"order_queue/internal/redis"
	"order_queue/internal/repository"
	"order_queue/internal/services"
	"order_queue/internal/validation"
	"order_queue/pkg/whatsapp"

	awsevents "github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	policy, err := services.ParseStatusPolicy(cfg.StatusPolicy)
	if err != nil {
		log.Fatal("Invalid ORDER_STATUS_POLICY:", err)
	}

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL, cfg.DBLogLevel)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	err = migrations.RunMigrations(context.Background(), db, migrations.Owner{
		Email:    cfg.OwnerEmail,
		Password: cfg.OwnerPassword,
		Name:     cfg.OwnerName,
	})
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize Redis
	redisClient, err := redis.Initialize(cfg.RedisURL)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer redisClient.Close()

	// Event sinks: redis feeds the live streams, the brokers are optional
	publisher := events.Fanout{redisClient}
	if cfg.NATSURL != "" {
		natsPublisher, err := events.NewNATSPublisher(cfg.NATSURL, cfg.NATSSubject)
		if err != nil {
			log.Fatal("Failed to connect to NATS:", err)
		}
		defer natsPublisher.Close()
		publisher = append(publisher, natsPublisher)
	}
	if cfg.AMQPURL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			log.Fatal("Failed to connect to RabbitMQ:", err)
		}
		defer amqpPublisher.Close()
		publisher = append(publisher, amqpPublisher)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	inviteRepo := repository.NewInviteRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	menuRepo := repository.NewMenuItemRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	orderItemRepo := repository.NewOrderItemRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Customer notifications are off unless a WhatsApp gateway is configured
	var notifier services.OrderNotifier
	var notificationService services.NotificationService
	if cfg.WhatsAppEnabled() {
		whatsappClient := whatsapp.NewClient(cfg.WhatsAppAPIURL, cfg.WhatsAppUsername, cfg.WhatsAppPassword, cfg.WhatsAppPath)
		whatsappClient.CountryCode = cfg.WhatsAppCountry
		notificationService = services.NewNotificationService(whatsappClient, notificationRepo)
		notifier = notificationService
	}

	// Initialize services
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.AuthTokenTTL)
	tracking := auth.NewTrackingIssuer(cfg.TrackingJWTSecret, cfg.TrackingTokenTTL)

	userService := services.NewUserService(userRepo, inviteRepo, tokens)
	inviteService := services.NewInviteService(inviteRepo, cfg.InviteTTL)
	sessionService := services.NewSessionService(sessionRepo, redisClient)
	menuService := services.NewMenuService(menuRepo, sessionRepo, redisClient, cfg.MenuCacheTTL)
	cartService := services.NewCartService(menuRepo)
	orderService := services.NewOrderService(orderRepo, orderItemRepo, sessionRepo, cartService, tracking, publisher, notifier, policy)

	// Initialize handlers
	v := validation.New()
	api := &handlers.APIHandler{
		Public:        handlers.NewPublicHandler(sessionService, menuService, cartService, orderService, redisClient, v),
		Auth:          handlers.NewAuthHandler(userService, v),
		Orders:        handlers.NewOrderHandler(orderService, redisClient, v),
		Sessions:      handlers.NewSessionHandler(sessionService, v),
		Menu:          handlers.NewMenuHandler(menuService, v),
		Invites:       handlers.NewInviteHandler(inviteService, v),
		Authenticator: userService,
		Checks: map[string]handlers.Pinger{
			"database": handlers.PingFunc(func(ctx context.Context) error { return database.Ping(ctx, db) }),
			"redis":    redisClient,
		},
	}
	if notificationService != nil {
		api.WhatsApp = handlers.NewWhatsAppHandler(notificationService, orderService)
	}
	router := handlers.NewRouter(api)

	if cfg.LambdaFunction != "" {
		startLambda(router)
		return
	}

	// Start server
	log.Printf("Server starting on port %s (status policy: %s)", cfg.ServerPort, policy)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func startLambda(router *gin.Engine) {
	log.Println("Running as Lambda function")
	adapter := ginadapter.New(router)
	lambda.Start(func(ctx context.Context, req awsevents.APIGatewayProxyRequest) (awsevents.APIGatewayProxyResponse, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}
