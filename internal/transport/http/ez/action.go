package ez

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"fitdesk/internal/domain"
	mdw "fitdesk/internal/transport/http/middleware"
	resp "fitdesk/internal/transport/http/response"
)

type EZ struct {
	g   *gin.RouterGroup
	log *zap.Logger
}

func New(g *gin.RouterGroup, log *zap.Logger) EZ {
	if log == nil {
		log = zap.NewNop()
	}
	return EZ{g: g, log: log}
}

type Binder string

const (
	BindJSON  Binder = "json"
	BindQuery Binder = "query"
	BindNone  Binder = "none" // handler reads c.Param / c.Query itself
)

// AErr is an error that already knows its HTTP status. Err, when set, is
// logged and never sent to the caller.
type AErr struct {
	Code int
	Msg  string
	Err  error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

func BadRequest(msg string) error   { return &AErr{Code: http.StatusBadRequest, Msg: msg} }
func Unauthorized(msg string) error { return &AErr{Code: http.StatusUnauthorized, Msg: msg} }
func Forbidden(msg string) error    { return &AErr{Code: http.StatusForbidden, Msg: msg} }
func NotFound(msg string) error     { return &AErr{Code: http.StatusNotFound, Msg: msg} }
func Internal(msg string, err error) error {
	return &AErr{Code: http.StatusInternalServerError, Msg: msg, Err: err}
}

const (
	MsgInvalidCredentials = "Invalid email or password"
	MsgUnauthenticated    = "Missing token"
	MsgForbidden          = "Not authorized"
	MsgInternal           = "Internal server error"
	MsgBadBody            = "Invalid request body"
)

// Map turns a service error into an AErr. notFound and internal are the
// endpoint specific texts for 404 and 500.
func Map(err error, notFound, internal string) *AErr {
	var ae *AErr
	if errors.As(err, &ae) {
		return ae
	}
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return &AErr{Code: http.StatusBadRequest, Msg: ve.Msg}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return &AErr{Code: http.StatusUnauthorized, Msg: MsgInvalidCredentials}
	case errors.Is(err, domain.ErrUnauthenticated):
		return &AErr{Code: http.StatusUnauthorized, Msg: MsgUnauthenticated}
	case errors.Is(err, domain.ErrForbidden):
		return &AErr{Code: http.StatusForbidden, Msg: MsgForbidden}
	case errors.Is(err, domain.ErrNotFound):
		if notFound == "" {
			notFound = resp.MessageFor(http.StatusNotFound)
		}
		return &AErr{Code: http.StatusNotFound, Msg: notFound}
	}
	if internal == "" {
		internal = MsgInternal
	}
	return &AErr{Code: http.StatusInternalServerError, Msg: internal, Err: err}
}

// Action describes one endpoint. I is the bound input.
type Action[I any] struct {
	Method string
	Path   string
	Binder Binder
	Status int // success status, 200 when zero
	Use    []gin.HandlerFunc // route middleware, run before binding

	// Messages overrides the 400 text of a failed binding, keyed by
	// validator tag. The "" key covers malformed bodies.
	Messages map[string]string
	NotFound string
	Internal string

	Handler func(c *gin.Context, in *I) (gin.H, error)
}

func RegisterAction[I any](e EZ, a Action[I]) {
	RegisterValidators()

	h := func(c *gin.Context) {
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
			// an empty body binds as the zero value so the handler can report
			// which fields are missing
			if errors.Is(bindErr, io.EOF) {
				bindErr = validateStruct(&in)
			}
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		default:
		}
		if bindErr != nil {
			resp.Fail(c, http.StatusBadRequest, a.bindMessage(bindErr))
			return
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			ae := Map(err, a.NotFound, a.Internal)
			if ae.Code >= http.StatusInternalServerError {
				e.log.Error("request failed",
					zap.String("rid", mdw.RequestIDFrom(c)),
					zap.String("method", c.Request.Method),
					zap.String("path", c.FullPath()),
					zap.Error(err),
				)
			}
			resp.Fail(c, ae.Code, ae.Error())
			return
		}
		status := a.Status
		if status == 0 {
			status = http.StatusOK
		}
		resp.OK(c, status, out)
	}

	method := strings.ToUpper(a.Method)
	switch method {
	case http.MethodGet, http.MethodPut, http.MethodDelete:
	default:
		method = http.MethodPost
	}
	chain := append(append([]gin.HandlerFunc(nil), a.Use...), h)
	e.g.Handle(method, a.Path, chain...)
}

func (a Action[I]) bindMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if m, ok := a.Messages[fe.Tag()]; ok {
			return m
		}
		if m, ok := tagMessages[fe.Tag()]; ok {
			return m
		}
		return "Invalid " + fe.Field()
	}
	if m, ok := a.Messages[""]; ok {
		return m
	}
	return MsgBadBody
}
