package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"delivery-manager/internal/core/auth"
	"delivery-manager/internal/core/cache"
	"delivery-manager/internal/core/config"
	"delivery-manager/internal/core/database"
	"delivery-manager/internal/core/logger"
	"delivery-manager/internal/core/server"
	"delivery-manager/internal/domain"
	"delivery-manager/internal/repo"
	"delivery-manager/internal/service"
	"delivery-manager/internal/storage"
	"delivery-manager/internal/transport/http/router"
	"delivery-manager/pkg/utils"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.NewWithRotate(cfg.Log.Level, cfg.Log.JSON, logger.FileRotate{
		Enable:     cfg.Log.Rotate.Enable,
		Filename:   cfg.Log.Rotate.Filename,
		MaxSizeMB:  cfg.Log.Rotate.MaxSizeMB,
		MaxBackups: cfg.Log.Rotate.MaxBackups,
		MaxAgeDays: cfg.Log.Rotate.MaxAgeDays,
		Compress:   cfg.Log.Rotate.Compress,
	})
	defer cleanup()

	// 数据库（失败直接 Fatal）
	db := mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		err := db.AutoMigrate(
			&domain.User{},
			&domain.Order{},
			&domain.OrderDetail{},
			&domain.OrderImage{},
			&domain.OrderSignature{},
			&domain.OrderPayment{},
		)
		if err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	userRepo := repo.NewUserRepo(db)
	orderRepo := repo.NewOrderRepo(db)

	// 默认管理员（幂等）
	if err := seedAdmin(userRepo, cfg); err != nil {
		log.Fatal("seed admin failed", zap.Error(err))
	}

	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.TokenTTLHrs) * time.Hour,
	}

	var orderCache *cache.Cache
	if cfg.Redis.Enabled {
		orderCache = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		log.Info("redis cache enabled", zap.String("addr", cfg.Redis.Addr))
	}

	blobs, err := storage.NewLocalStore(cfg.Upload.Dir, cfg.Upload.BaseURL, cfg.Upload.MaxSizeMB)
	if err != nil {
		log.Fatal("init upload dir failed", zap.Error(err))
	}

	r := router.NewAPIEngine(log, jwter, router.Deps{
		Auth:           service.NewAuthService(userRepo, jwter),
		Users:          service.NewUserService(userRepo),
		Orders:         service.NewOrderService(orderRepo, userRepo, blobs, orderCache),
		UploadDir:      cfg.Upload.Dir,
		MaxUploadBytes: blobs.MaxBytes(),
	})

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("api start FAILED", zap.Error(err))
		}
	}()
	log.Info("api started SUCCESS")

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("api stopped gracefully")
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}

// seedAdmin creates the bootstrap admin account when the username is absent.
func seedAdmin(users domain.UserRepository, cfg *config.Config) error {
	ctx := context.Background()
	existing, err := users.FindByUsername(ctx, cfg.Seed.AdminUsername)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	return users.Create(ctx, &domain.User{
		ID:           utils.NewID(),
		Username:     cfg.Seed.AdminUsername,
		PasswordHash: utils.HashPassword(cfg.Seed.AdminPassword),
		FullName:     cfg.Seed.AdminFullName,
		Role:         domain.RoleAdmin,
		IsActive:     true,
	})
}
