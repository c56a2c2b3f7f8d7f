package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fitdesk/internal/service"
	"fitdesk/internal/transport/http/ez"
)

type AssignmentHandler struct {
	assignments *service.AssignmentService
	log         *zap.Logger
}

func NewAssignmentHandler(as *service.AssignmentService, l *zap.Logger) *AssignmentHandler {
	return &AssignmentHandler{assignments: as, log: l}
}

type assignReq struct {
	ClientUserID  string `json:"client_user_id"`
	TrainerUserID string `json:"trainer_user_id"`
}

type clearQuery struct {
	ClientUserID string `form:"clientUserId"`
}

func (h *AssignmentHandler) Mount(r Routes) {
	e := ez.New(r.Admin, h.log)

	ez.RegisterAction(e, ez.Action[struct{}]{
		Method:   http.MethodGet,
		Path:     "/client-assignments",
		Binder:   ez.BindNone,
		Internal: "Failed to load client assignments",
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			out, err := h.assignments.List(c.Request.Context())
			if err != nil {
				return nil, err
			}
			return gin.H{"clients": out.Clients, "trainers": out.Trainers}, nil
		},
	})

	ez.RegisterAction(e, ez.Action[assignReq]{
		Method:   http.MethodPost,
		Path:     "/client-assignments",
		Binder:   ez.BindJSON,
		Internal: "Failed to assign trainer",
		Handler: func(c *gin.Context, in *assignReq) (gin.H, error) {
			p, err := h.assignments.Assign(c.Request.Context(), in.ClientUserID, in.TrainerUserID)
			if err != nil {
				return nil, err
			}
			return gin.H{"client": p}, nil
		},
	})

	ez.RegisterAction(e, ez.Action[clearQuery]{
		Method:   http.MethodDelete,
		Path:     "/client-assignments",
		Binder:   ez.BindQuery,
		Internal: "Failed to clear trainer assignment",
		Handler: func(c *gin.Context, in *clearQuery) (gin.H, error) {
			if err := h.assignments.Clear(c.Request.Context(), in.ClientUserID); err != nil {
				return nil, err
			}
			return nil, nil
		},
	})
}
