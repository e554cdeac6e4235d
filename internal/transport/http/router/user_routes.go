package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"delivery-manager/internal/domain"
	"delivery-manager/internal/service"
)

func mountUserRoutes(staff, admin EZ, svc *service.UserService) {
	// 列表对 admin+employee 开放（员工建单时要选配送员）
	type listQ struct {
		Role string `form:"role"`
	}
	RegisterAction(staff, Action[listQ, []domain.User]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: BindQuery,
		Handler: func(c *gin.Context, caller domain.Caller, in *listQ) ([]domain.User, error) {
			return svc.List(c.Request.Context(), caller, in.Role)
		},
	})

	RegisterAction(admin, Action[struct{}, *domain.User]{
		Method: http.MethodGet,
		Path:   "/users/:id",
		Binder: BindNone,
		Handler: func(c *gin.Context, _ domain.Caller, _ *struct{}) (*domain.User, error) {
			return svc.Get(c.Request.Context(), c.Param("id"))
		},
	})

	RegisterAction(admin, Action[service.CreateUserInput, *domain.User]{
		Method: http.MethodPost,
		Path:   "/users",
		Binder: BindJSON,
		Handler: func(c *gin.Context, _ domain.Caller, in *service.CreateUserInput) (*domain.User, error) {
			return svc.Create(c.Request.Context(), *in)
		},
	})

	RegisterAction(admin, Action[service.UpdateUserInput, gin.H]{
		Method: http.MethodPut,
		Path:   "/users/:id",
		Binder: BindJSON,
		Handler: func(c *gin.Context, _ domain.Caller, in *service.UpdateUserInput) (gin.H, error) {
			id := c.Param("id")
			if err := svc.Update(c.Request.Context(), id, *in); err != nil {
				return nil, err
			}
			return gin.H{"id": id}, nil
		},
	})

	RegisterAction(admin, Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/users/:id",
		Binder: BindNone,
		Handler: func(c *gin.Context, caller domain.Caller, _ *struct{}) (gin.H, error) {
			id := c.Param("id")
			if err := svc.Delete(c.Request.Context(), caller.ID, id); err != nil {
				return nil, err
			}
			return gin.H{"id": id}, nil
		},
	})
}
