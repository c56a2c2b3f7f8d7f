package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fitdesk/internal/core/auth"
	"fitdesk/internal/service"
	"fitdesk/internal/transport/http/ez"
	mdw "fitdesk/internal/transport/http/middleware"
)

type CookieOptions struct {
	Name   string
	Secure bool
	MaxAge time.Duration
}

type AuthHandler struct {
	auth   *service.AuthService
	users  *service.UserService
	cookie CookieOptions
	limit  gin.HandlerFunc
	log    *zap.Logger
}

// NewAuthHandler serves /auth/*. loginLimit, when non-nil, guards
// /auth/login only.
func NewAuthHandler(as *service.AuthService, us *service.UserService, cookie CookieOptions, loginLimit gin.HandlerFunc, l *zap.Logger) *AuthHandler {
	if cookie.Name == "" {
		cookie.Name = "token"
	}
	if cookie.MaxAge <= 0 {
		cookie.MaxAge = auth.DefaultTTL
	}
	return &AuthHandler{auth: as, users: us, cookie: cookie, limit: loginLimit, log: l}
}

func (h *AuthHandler) Priority() int { return 10 }

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Mount(r Routes) {
	pub := ez.New(r.Public, h.log)
	var use []gin.HandlerFunc
	if h.limit != nil {
		use = append(use, h.limit)
	}

	ez.RegisterAction(pub, ez.Action[loginReq]{
		Method:   http.MethodPost,
		Path:     "/auth/login",
		Binder:   ez.BindJSON,
		Use:      use,
		Internal: "An error occurred during login",
		Handler: func(c *gin.Context, in *loginReq) (gin.H, error) {
			s, err := h.auth.Login(c.Request.Context(), in.Email, in.Password)
			if err != nil {
				return nil, err
			}
			h.setCookie(c, s.Token, int(h.cookie.MaxAge/time.Second))
			return gin.H{"user": toUserDTO(s.Account), "token": s.Token}, nil
		},
	})

	ez.RegisterAction(pub, ez.Action[struct{}]{
		Method: http.MethodPost,
		Path:   "/auth/logout",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			raw, ok := auth.BearerToken(c.GetHeader("Authorization"))
			if !ok {
				raw, _ = c.Cookie(h.cookie.Name)
			}
			h.auth.Logout(c.Request.Context(), strings.TrimSpace(raw))
			h.setCookie(c, "", -1)
			return nil, nil
		},
	})

	me := ez.New(r.Authenticated, h.log)
	ez.RegisterAction(me, ez.Action[struct{}]{
		Method:   http.MethodGet,
		Path:     "/auth/me",
		Binder:   ez.BindNone,
		NotFound: "User not found",
		Internal: "Failed to load user",
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			p, ok := mdw.PrincipalFrom(c)
			if !ok {
				return nil, ez.Unauthorized(ez.MsgUnauthenticated)
			}
			a, err := h.users.Get(c.Request.Context(), p.AccountID)
			if err != nil {
				return nil, err
			}
			return gin.H{"user": toUserDTO(a)}, nil
		},
	})
}

func (h *AuthHandler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(h.cookie.Name, value, maxAge, "/", "", h.cookie.Secure, true)
}
