package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fitdesk/internal/domain"
	resp "fitdesk/internal/transport/http/response"
)

const keyPrincipal = "principal"

type Authorizer interface {
	Authorize(ctx context.Context, header string, required domain.Role) (*domain.Principal, error)
	AuthorizeToken(ctx context.Context, raw string, required domain.Role) (*domain.Principal, error)
}

// AuthJWT admits requests carrying a valid bearer token, or the session
// cookie when cookieName is set and no Authorization header is present.
// An empty role admits every authenticated account.
func AuthJWT(a Authorizer, role domain.Role, cookieName string, l *zap.Logger) gin.HandlerFunc {
	if l == nil {
		l = zap.NewNop()
	}
	return func(c *gin.Context) {
		var (
			p   *domain.Principal
			err error
		)
		header := c.GetHeader("Authorization")
		if cookie, cerr := c.Cookie(cookieName); header == "" && cookieName != "" && cerr == nil && cookie != "" {
			p, err = a.AuthorizeToken(c.Request.Context(), cookie, role)
		} else {
			p, err = a.Authorize(c.Request.Context(), header, role)
		}

		switch {
		case err == nil:
		case errors.Is(err, domain.ErrUnauthenticated):
			resp.Abort(c, http.StatusUnauthorized, "Missing token")
			return
		case errors.Is(err, domain.ErrForbidden):
			resp.Abort(c, http.StatusForbidden, "Not authorized")
			return
		default:
			l.Error("authorize failed", zap.String("rid", RequestIDFrom(c)), zap.Error(err))
			resp.Abort(c, http.StatusInternalServerError, "")
			return
		}
		c.Set(keyPrincipal, p)
		c.Next()
	}
}

// PrincipalFrom returns the account admitted by AuthJWT.
func PrincipalFrom(c *gin.Context) (*domain.Principal, bool) {
	v, ok := c.Get(keyPrincipal)
	if !ok {
		return nil, false
	}
	p, ok := v.(*domain.Principal)
	return p, ok && p != nil
}
