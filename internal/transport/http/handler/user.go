package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fitdesk/internal/service"
	"fitdesk/internal/transport/http/ez"
)

type UserHandler struct {
	users *service.UserService
	log   *zap.Logger
}

func NewUserHandler(us *service.UserService, l *zap.Logger) *UserHandler {
	return &UserHandler{users: us, log: l}
}

type createUserReq struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	FullName string  `json:"full_name"`
	Phone    *string `json:"phone"`
	Role     string  `json:"role" binding:"omitempty,role"`
}

type updateUserReq struct {
	ID          string  `json:"id"`
	FullName    string  `json:"full_name"`
	Phone       *string `json:"phone"`
	Role        string  `json:"role" binding:"omitempty,role"`
	Status      string  `json:"status" binding:"omitempty,status"`
	NewPassword string  `json:"newPassword"`
}

type userIDQuery struct {
	ID string `form:"id"`
}

func (h *UserHandler) Mount(r Routes) {
	e := ez.New(r.Admin, h.log)

	ez.RegisterAction(e, ez.Action[struct{}]{
		Method:   http.MethodGet,
		Path:     "/users",
		Binder:   ez.BindNone,
		Internal: "Failed to load users",
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			as, err := h.users.List(c.Request.Context())
			if err != nil {
				return nil, err
			}
			out := make([]userDTO, 0, len(as))
			for i := range as {
				out = append(out, toUserDTO(&as[i]))
			}
			return gin.H{"users": out}, nil
		},
	})

	ez.RegisterAction(e, ez.Action[createUserReq]{
		Method:   http.MethodPost,
		Path:     "/users",
		Binder:   ez.BindJSON,
		Internal: "Failed to create user",
		Handler: func(c *gin.Context, in *createUserReq) (gin.H, error) {
			a, err := h.users.Create(c.Request.Context(), service.CreateUserInput{
				Email:    in.Email,
				Password: in.Password,
				FullName: in.FullName,
				Phone:    in.Phone,
				Role:     in.Role,
			})
			if err != nil {
				return nil, err
			}
			return gin.H{"user": toUserDTO(a)}, nil
		},
	})

	ez.RegisterAction(e, ez.Action[updateUserReq]{
		Method:   http.MethodPut,
		Path:     "/users",
		Binder:   ez.BindJSON,
		NotFound: "User not found",
		Internal: "Failed to update user",
		Handler: func(c *gin.Context, in *updateUserReq) (gin.H, error) {
			a, err := h.users.Update(c.Request.Context(), service.UpdateUserInput{
				ID:          in.ID,
				FullName:    in.FullName,
				Phone:       in.Phone,
				Role:        in.Role,
				Status:      in.Status,
				NewPassword: in.NewPassword,
			})
			if err != nil {
				return nil, err
			}
			return gin.H{"user": toUserDTO(a)}, nil
		},
	})

	ez.RegisterAction(e, ez.Action[userIDQuery]{
		Method:   http.MethodDelete,
		Path:     "/users",
		Binder:   ez.BindQuery,
		NotFound: "User not found",
		Internal: "Failed to delete user",
		Handler: func(c *gin.Context, in *userIDQuery) (gin.H, error) {
			if err := h.users.Delete(c.Request.Context(), in.ID); err != nil {
				return nil, err
			}
			return nil, nil
		},
	})
}
