package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ca-overview/internal/bot"
	"ca-overview/internal/handlers"
	"ca-overview/internal/overview"
	"ca-overview/internal/services"
	"ca-overview/shared/config"
	"ca-overview/shared/env"
	"ca-overview/shared/logger"
	"ca-overview/shared/notifications"
)

func startHeartbeat(appLogger *logger.Logger) {
	go func() {
		ticker := time.NewTicker(8 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			appLogger.Info("Heartbeat: Program running...")
		}
	}()
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			log.Panicf("FATAL PANIC RECOVERY: %v", r)
		}
	}()

	if err := env.LoadEnv(); err != nil {
		log.Fatalf("FATAL: Failed to load environment variables: %v", err)
	}
	log.Println("INFO: Environment variables loaded via shared/env.")

	log.Println("INFO: Loading application configuration.")
	cfg, errCfg := config.LoadConfig("config.yaml")
	if errCfg != nil {
		log.Fatalf("FATAL: Failed to load config.yaml: %v", errCfg)
	}
	config.SetGlobalConfig(cfg)

	log.Println("INFO: Initializing application logger.")
	enableTelegramLogging := env.TelegramBotToken != "" && env.TelegramGroupID != 0
	loggerCfg := logger.Config{
		Level:          cfg.Logging.Level,
		Environment:    cfg.App.Environment,
		EnableTelegram: enableTelegramLogging,
	}
	appLogger, err := logger.NewLogger(loggerCfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize logger: %v", err)
	}
	appLogger.Info("Application logger initialized successfully.")

	log.Println("INFO: Initializing Telegram notifications...")
	if err := notifications.InitTelegramBot(); err != nil {
		appLogger.Fatal("Failed to initialize Telegram Bot", zap.Error(err))
	}
	appLogger.Info("Telegram notifications initialized.")

	profile := overview.Profile{
		ChainSlug:        cfg.Overview.ChainSlug,
		ExplorerBase:     cfg.Overview.ExplorerBase,
		IncludeLiquidity: cfg.Overview.IncludeLiquidity,
		IncludeAudit:     cfg.Overview.IncludeAudit,
	}

	appLogger.Info("Initializing upstream API clients...")
	launchpad := services.NewLaunchpadClient(env.LaunchpadBaseURL, env.HolderCap, appLogger)
	dextools := services.NewDextoolsClient(env.DextoolsBaseURL, env.DextoolsAPIKey, env.DextoolsAPIPlan, env.DextoolsChain, appLogger)
	aggregator := services.NewAggregator(launchpad, dextools, profile, appLogger)
	appLogger.Info("Upstream API clients initialized.",
		"launchpad", env.LaunchpadBaseURL,
		"dextools", env.DextoolsBaseURL,
		"chain", env.DextoolsChain,
	)

	appLogger.Info("Initializing Telegram Bot command listener...")
	if err := bot.InitializeBot(appLogger, aggregator, profile); err != nil {
		appLogger.Fatal("Failed to initialize Telegram Bot listener", zap.Error(err))
	}
	appLogger.Info("Telegram Bot command listener initialized.")

	appLogger.Info("Setting up web server...")
	gin.SetMode(gin.ReleaseMode)
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))
	appLogger.Info("CORS middleware configured.")

	handlers.RegisterRoutes(router, appLogger)
	handlers.RegisterAPIRoutes(router, appLogger, aggregator)
	appLogger.Info("Web server and API routes registered.")

	go func() {
		serverAddr := ":" + env.Port
		appLogger.Info("Starting web server", zap.String("address", serverAddr))
		if err := router.Run(serverAddr); err != nil {
			appLogger.Fatal("Could not start web server.", zap.Error(err))
		}
	}()

	appLogger.Info("Starting heartbeat monitor.")
	startHeartbeat(appLogger)

	appLogger.Info("Starting Telegram Bot message listener...")
	go bot.StartListening(context.Background())

	appLogger.Info("Application startup complete. Waiting for events...")
	select {}
}
