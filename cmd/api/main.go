package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"fitdesk/internal/core/auth"
	"fitdesk/internal/core/cache"
	"fitdesk/internal/core/config"
	"fitdesk/internal/core/database"
	"fitdesk/internal/core/logger"
	"fitdesk/internal/core/server"
	"fitdesk/internal/repo"
	"fitdesk/internal/service"
	"fitdesk/internal/transport/http/handler"
	"fitdesk/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.MustLoad(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.New(cfg.Log)
	defer cleanup()
	defer logger.RedirectStdLog(log, zapcore.WarnLevel)()

	if cfg.InsecureSecret() {
		log.Warn("jwt.secret is the built-in default; set APP_JWT_SECRET")
	}
	if cfg.App.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewGorm(database.OptsFrom(cfg.DB, log))
	if err != nil {
		log.Fatal("db open", zap.Error(err))
	}
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := repo.Migrate(db); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	store := repo.NewStore(db)
	opts := service.AuthOptions{VerifyAccount: cfg.Auth.VerifyAccount}
	var accounts service.AccountCache
	if cfg.Redis.Enabled() {
		c := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer c.Close()
		pctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := c.Ping(pctx)
		cancel()
		if err != nil {
			log.Fatal("redis ping", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		ac := cache.NewAccountCache(c, time.Duration(cfg.Auth.AccountCacheSec)*time.Second)
		accounts = ac
		opts.Cache = ac
		opts.Denylist = cache.NewDenylist(c)
		log.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
	} else {
		log.Info("redis disabled; logout does not revoke tokens")
	}

	jwter := auth.NewJWTer(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL())
	authSvc := service.NewAuthService(store, jwter, log, opts)
	userSvc := service.NewUserService(store, log, accounts)
	assignSvc := service.NewAssignmentService(store)

	if b := cfg.Bootstrap; b.AdminEmail != "" && b.AdminPassword != "" {
		created, err := userSvc.EnsureAdmin(context.Background(), b.AdminEmail, b.AdminPassword, b.AdminName)
		if err != nil {
			log.Fatal("bootstrap admin", zap.Error(err))
		}
		if created {
			log.Info("bootstrap admin created", zap.String("email", b.AdminEmail))
		}
	}

	r, err := router.NewAPIEngine(log, router.OptionsFrom(cfg), authSvc,
		handler.NewAuthHandler(authSvc, userSvc, handler.CookieOptions{
			Name:   cfg.Auth.CookieName,
			Secure: cfg.App.Production(),
			MaxAge: cfg.JWT.TTL(),
		}, router.LoginLimiter(cfg), log),
		handler.NewUserHandler(userSvc, log),
		handler.NewAssignmentHandler(assignSvc, log),
	)
	if err != nil {
		log.Fatal("build router", zap.Error(err))
	}

	h := cfg.App.HTTP
	addr := server.Addr(h.Host, h.Port)
	srv := server.BuildServer(addr, r,
		time.Duration(h.ReadTimeoutSec)*time.Second,
		time.Duration(h.WriteTimeoutSec)*time.Second,
		time.Duration(h.IdleTimeoutSec)*time.Second,
	)

	host := h.Host
	if host == "" || host == "0.0.0.0" {
		host = "127.0.0.1"
	}
	baseURL := "http://" + host + ":" + fmt.Sprint(h.Port)
	log.Info("api starting",
		zap.String("addr", addr),
		zap.String("health", baseURL+"/health"),
		zap.String("api", baseURL+h.BasePath),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := server.Run(ctx, srv, log, 10*time.Second); err != nil {
		log.Error("api stopped with error", zap.Error(err))
		return
	}
	log.Info("api stopped gracefully")
}
