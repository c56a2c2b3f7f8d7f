package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"fitdesk/internal/core/config"
	"fitdesk/internal/core/server"
	"fitdesk/internal/domain"
	"fitdesk/internal/transport/http/ez"
	"fitdesk/internal/transport/http/handler"
	mdw "fitdesk/internal/transport/http/middleware"
)

type Options struct {
	BasePath       string
	CORSOrigins    []string
	TrustedProxies []string
	RateLimitRPS   float64
	RateLimitBurst int
	MaxConcurrent  int64
	MaxBodyBytes   int64
	RequestTimeout time.Duration
	CookieName     string
}

func OptionsFrom(c *config.Config) Options {
	h := c.App.HTTP
	return Options{
		BasePath:       h.BasePath,
		CORSOrigins:    h.CORSOrigins,
		TrustedProxies: h.TrustedProxies,
		RateLimitRPS:   h.RateLimitRPS,
		RateLimitBurst: h.RateLimitBurst,
		MaxConcurrent:  h.MaxConcurrent,
		MaxBodyBytes:   h.MaxBodyBytes,
		RequestTimeout: time.Duration(h.RequestTimeout) * time.Second,
		CookieName:     c.Auth.CookieName,
	}
}

// LoginLimiter is the per-IP limit for /auth/login.
func LoginLimiter(c *config.Config) gin.HandlerFunc {
	return mdw.RateLimitPerIP(rate.Limit(c.Auth.LoginRateLimit), c.Auth.LoginRateBurst)
}

func NewAPIEngine(l *zap.Logger, o Options, authz mdw.Authorizer, mods ...handler.Module) (*gin.Engine, error) {
	ez.RegisterValidators()

	r, err := server.NewRouter(l, o.CORSOrigins, o.TrustedProxies)
	if err != nil {
		return nil, err
	}
	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(rate.Limit(o.RateLimitRPS), o.RateLimitBurst),
		mdw.ConcurrencyLimit(o.MaxConcurrent),
		mdw.MaxBodyBytes(o.MaxBodyBytes),
		mdw.Timeout(o.RequestTimeout),
		mdw.SimpleRecovery(l),
		mdw.Metrics(),
		mdw.AccessLog(l),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	base := o.BasePath
	if base == "" {
		base = "/"
	}
	api := r.Group(base)
	authed := api.Group("")
	authed.Use(mdw.AuthJWT(authz, "", o.CookieName, l))
	// admin endpoints change state; they take the bearer header only
	admin := api.Group("")
	admin.Use(mdw.AuthJWT(authz, domain.RoleAdmin, "", l))

	MountAll(handler.Routes{Public: api, Authenticated: authed, Admin: admin}, mods...)
	return r, nil
}
