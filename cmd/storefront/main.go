// Storefront 主程序
// 功能：商城核心服务，包括商品浏览、购物车、结算下单、订单状态流转与站内通知
// 架构：基于 DDD + Gin + GORM + Redis 会话 + Kafka 事件
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	adminapp "github.com/wyfcoding/honeyshop/internal/admin/application"
	adminmysql "github.com/wyfcoding/honeyshop/internal/admin/infrastructure/persistence/mysql"
	adminhttp "github.com/wyfcoding/honeyshop/internal/admin/interfaces/http"
	authapp "github.com/wyfcoding/honeyshop/internal/auth/application"
	authdomain "github.com/wyfcoding/honeyshop/internal/auth/domain"
	authmysql "github.com/wyfcoding/honeyshop/internal/auth/infrastructure/persistence/mysql"
	authhttp "github.com/wyfcoding/honeyshop/internal/auth/interfaces/http"
	cartapp "github.com/wyfcoding/honeyshop/internal/cart/application"
	cartdomain "github.com/wyfcoding/honeyshop/internal/cart/domain"
	cartmessaging "github.com/wyfcoding/honeyshop/internal/cart/infrastructure/messaging"
	cartmysql "github.com/wyfcoding/honeyshop/internal/cart/infrastructure/persistence/mysql"
	carthttp "github.com/wyfcoding/honeyshop/internal/cart/interfaces/http"
	catalogapp "github.com/wyfcoding/honeyshop/internal/catalog/application"
	catalogdomain "github.com/wyfcoding/honeyshop/internal/catalog/domain"
	catalogmysql "github.com/wyfcoding/honeyshop/internal/catalog/infrastructure/persistence/mysql"
	cataloghttp "github.com/wyfcoding/honeyshop/internal/catalog/interfaces/http"
	notificationapp "github.com/wyfcoding/honeyshop/internal/notification/application"
	notificationdomain "github.com/wyfcoding/honeyshop/internal/notification/domain"
	notificationmysql "github.com/wyfcoding/honeyshop/internal/notification/infrastructure/persistence/mysql"
	notificationhttp "github.com/wyfcoding/honeyshop/internal/notification/interfaces/http"
	orderapp "github.com/wyfcoding/honeyshop/internal/order/application"
	orderdomain "github.com/wyfcoding/honeyshop/internal/order/domain"
	ordermessaging "github.com/wyfcoding/honeyshop/internal/order/infrastructure/messaging"
	ordermysql "github.com/wyfcoding/honeyshop/internal/order/infrastructure/persistence/mysql"
	orderhttp "github.com/wyfcoding/honeyshop/internal/order/interfaces/http"
	"github.com/wyfcoding/honeyshop/internal/session"
	"github.com/wyfcoding/honeyshop/pkg/cache"
	"github.com/wyfcoding/honeyshop/pkg/config"
	"github.com/wyfcoding/honeyshop/pkg/db"
	"github.com/wyfcoding/honeyshop/pkg/logger"
	"github.com/wyfcoding/honeyshop/pkg/metrics"
	"github.com/wyfcoding/honeyshop/pkg/middleware"
	"github.com/wyfcoding/honeyshop/pkg/mq"
)

func main() {
	// 1. 加载配置
	configPath := os.Getenv("APP_CONFIG")
	if configPath == "" {
		configPath = "configs/config.toml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	if err := logger.Init(cfg.Logger); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	logger.Info(ctx, "Starting Storefront",
		"service", cfg.ServiceName,
		"version", cfg.Version,
		"environment", cfg.Environment,
	)

	// 3. 初始化指标
	metricsInstance := metrics.New(cfg.ServiceName)
	if cfg.Metrics.Enabled {
		if err := metricsInstance.Register(); err != nil {
			logger.Fatal(ctx, "Failed to register metrics", "error", err)
		}
		if err := metrics.StartHTTPServer(cfg.Metrics.Port, cfg.Metrics.Path); err != nil {
			logger.Fatal(ctx, "Failed to start metrics HTTP server", "error", err)
		}
	}

	// 4. 初始化数据库
	dbCfg := db.Config{
		Driver:             cfg.Database.Driver,
		DSN:                cfg.Database.DSN,
		MaxOpenConns:       cfg.Database.MaxOpenConns,
		MaxIdleConns:       cfg.Database.MaxIdleConns,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		LogEnabled:         cfg.Database.LogEnabled,
		SlowQueryThreshold: cfg.Database.SlowQueryThreshold,
		Metrics:            metricsInstance,
	}
	database, err := db.Init(dbCfg)
	if err != nil {
		logger.Fatal(ctx, "Failed to initialize database", "error", err)
	}
	defer database.Close()

	if err := database.AutoMigrate(
		&catalogdomain.Category{},
		&catalogdomain.Product{},
		&authdomain.User{},
		&cartdomain.UserCartItem{},
		&orderdomain.Customer{},
		&orderdomain.Order{},
		&orderdomain.OrderDetail{},
		&notificationdomain.Notification{},
	); err != nil {
		logger.Fatal(ctx, "Failed to migrate database schema", "error", err)
	}

	// 5. 初始化 Redis（会话存储）
	redisCfg := cache.Config{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		MaxPoolSize:  cfg.Redis.MaxPoolSize,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	}
	redisCache, err := cache.New(redisCfg)
	if err != nil {
		logger.Fatal(ctx, "Failed to initialize Redis", "error", err)
	}
	defer redisCache.Close()

	sessionStore := session.NewRedisStore(redisCache, time.Duration(cfg.Session.IdleTimeout)*time.Minute)

	// 6. 初始化 Kafka（可选）
	var cartPublisher cartdomain.EventPublisher
	var orderPublisher orderdomain.EventPublisher
	if cfg.Kafka.Enabled {
		producer, err := mq.NewProducer(mq.KafkaConfig{
			Brokers:      cfg.Kafka.Brokers,
			MaxRetries:   cfg.Kafka.MaxRetries,
			RetryBackoff: cfg.Kafka.RetryBackoff,
		})
		if err != nil {
			logger.Fatal(ctx, "Failed to create Kafka producer", "error", err)
		}
		defer producer.Close()
		cartPublisher = cartmessaging.NewKafkaPublisher(producer, cfg.Kafka.CartTopic)
		orderPublisher = ordermessaging.NewKafkaPublisher(producer, cfg.Kafka.OrderTopic)
	}

	// 7. 初始化仓储
	productRepo := catalogmysql.NewProductRepository(database.DB)
	categoryRepo := catalogmysql.NewCategoryRepository(database.DB)
	userCartRepo := cartmysql.NewUserCartRepository(database.DB)
	orderRepo := ordermysql.NewOrderRepository(database.DB)
	notificationRepo := notificationmysql.NewNotificationRepository(database.DB)
	userRepo := authmysql.NewUserRepository(database.DB)
	reportingRepo := adminmysql.NewReportingRepository(database.DB)

	// 8. 初始化应用服务
	policy := cartdomain.PolicyClamp
	if cfg.Checkout.QuantityPolicy == "reject" {
		policy = cartdomain.PolicyReject
	}

	catalogService := catalogapp.NewCatalogService(productRepo, categoryRepo)
	cartService := cartapp.NewCartService(policy, cartPublisher, metricsInstance)
	checkoutService := orderapp.NewCheckoutService(orderRepo, cartService, policy, orderPublisher, metricsInstance)
	statusService := orderapp.NewStatusService(orderRepo, orderPublisher, metricsInstance, cfg.Order.StrictTransitions)
	orderQueryService := orderapp.NewQueryService(orderRepo)
	notificationService := notificationapp.NewNotificationService(notificationRepo, metricsInstance)
	authService := authapp.NewAuthService(userRepo, userCartRepo, productRepo, cartService)
	dashboardService := adminapp.NewDashboardService(reportingRepo)

	// 9. 创建 HTTP 服务器
	router := gin.New()
	router.Use(middleware.GinLoggingMiddleware())
	router.Use(middleware.GinMetricsMiddleware(metricsInstance))
	router.Use(middleware.GinRecoveryMiddleware())
	router.Use(middleware.GinCORSMiddleware())
	router.Use(session.Middleware(sessionStore, cfg.Session.CookieName, cfg.Session.Secure))

	api := router.Group("/api/v1")
	cataloghttp.NewCatalogHandler(catalogService).RegisterRoutes(api)
	carthttp.NewCartHandler(cartService, catalogService).RegisterRoutes(api)
	orderhttp.NewOrderHandler(checkoutService, statusService, orderQueryService).RegisterRoutes(api)
	notificationhttp.NewNotificationHandler(notificationService).RegisterRoutes(api)
	authhttp.NewAuthHandler(authService).RegisterRoutes(api)
	adminhttp.NewDashboardHandler(dashboardService).RegisterRoutes(api)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"service":   cfg.ServiceName,
			"timestamp": time.Now().Unix(),
		})
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}

	// 10. 启动 HTTP 服务器
	go func() {
		logger.Info(ctx, "Starting HTTP server", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal(ctx, "HTTP server error", "error", err)
		}
	}()

	// 11. 优雅关停
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info(ctx, "Shutting down Storefront")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "HTTP server shutdown error", "error", err)
	}

	logger.Info(ctx, "Storefront stopped")
}
