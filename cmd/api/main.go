package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"livix-api/internal/config"
	"livix-api/internal/db"
	apihttp "livix-api/internal/http"
	"livix-api/internal/repository"
	"livix-api/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()
	pingCtx, cancelPing := context.WithTimeout(ctx, 5*time.Second)
	if err := db.Ping(pingCtx, pool); err != nil {
		logger.Fatal("db ping", zap.Error(err))
	}
	cancelPing()

	userRepo := repository.NewPgUserRepository(pool)
	roommateRepo := repository.NewPgRoommateRepository(pool)
	likeRepo := repository.NewPgLikeRepository(pool)
	listingRepo := repository.NewPgListingRepository(pool)
	viewRepo := repository.NewPgListingViewRepository(pool)
	applicationRepo := repository.NewPgApplicationRepository(pool)
	reviewRepo := repository.NewPgReviewRepository(pool)

	likeWindow := time.Duration(cfg.LikeRateWindowMinutes) * time.Minute
	var (
		likeLimiter = service.NewLikeRateLimiter(likeWindow, cfg.LikeRateMax)
		snapshots   = service.NewMemoryChatSnapshotStore()
		redisClient *redis.Client
	)
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using in-memory limiter and snapshots", zap.Error(err))
		} else {
			likeLimiter = service.NewRedisLikeRateLimiter(redisClient, likeWindow, cfg.LikeRateMax)
			snapshots = service.NewRedisChatSnapshotStore(redisClient, time.Duration(cfg.ChatSnapshotTTLHours)*time.Hour)
		}
		cancel()
	}

	chats := service.NewChatStore(logger, snapshots)
	if err := chats.Restore(); err != nil {
		logger.Warn("chat restore failed", zap.Error(err))
	}
	defer chats.Close()

	jwtSvc := service.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer, 0)
	if cfg.JWTSecret == "" {
		logger.Warn("jwt secret not configured")
	}

	userSvc := service.NewUserService(logger, userRepo)
	roommateSvc := service.NewRoommateService(logger, roommateRepo, likeRepo, cfg.CandidatePoolLimit)
	matchSvc := service.NewMatchService(logger, likeRepo, roommateRepo, chats, likeLimiter)
	listingSvc := service.NewListingService(logger, listingRepo, viewRepo)
	applicationSvc := service.NewApplicationService(logger, applicationRepo, listingRepo, chats)
	reviewSvc := service.NewReviewService(logger, reviewRepo, listingRepo)
	analyticsSvc := service.NewAnalyticsService(logger, listingRepo, viewRepo, applicationRepo)

	router := apihttp.NewRouter(logger, jwtSvc, userSvc, apihttp.Handlers{
		Users:        apihttp.NewUserHandler(logger, userSvc),
		Roommates:    apihttp.NewRoommateHandler(logger, roommateSvc, matchSvc),
		Messages:     apihttp.NewMessageHandler(logger, chats, userSvc),
		Listings:     apihttp.NewListingHandler(logger, listingSvc),
		Applications: apihttp.NewApplicationHandler(logger, applicationSvc),
		Reviews:      apihttp.NewReviewHandler(logger, reviewSvc),
		Analytics:    apihttp.NewAnalyticsHandler(logger, analyticsSvc),
	}, cfg.MetricsEnabled)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("port", cfg.HTTPPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	// Cerrar el chat primero termina los streams SSE abiertos.
	chats.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server shutdown", zap.Error(err))
	}
}

func newLogger(level string) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	zapCfg.Level = lvl
	return zapCfg.Build()
}
