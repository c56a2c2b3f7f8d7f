package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"fitdesk/internal/domain"
)

// Routes are the groups a module mounts into. Authenticated admits any
// signed-in account, Admin only admins.
type Routes struct {
	Public        *gin.RouterGroup
	Authenticated *gin.RouterGroup
	Admin         *gin.RouterGroup
}

type Module interface {
	Mount(r Routes)
}

type userDTO struct {
	ID        string        `json:"id"`
	Email     string        `json:"email"`
	FullName  string        `json:"full_name"`
	Phone     *string       `json:"phone"`
	Role      domain.Role   `json:"role"`
	Status    domain.Status `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}

func toUserDTO(a *domain.Account) userDTO {
	return userDTO{
		ID:        a.ID,
		Email:     a.Email,
		FullName:  a.FullName,
		Phone:     a.Phone,
		Role:      a.Role,
		Status:    a.Status,
		CreatedAt: a.CreatedAt,
	}
}
