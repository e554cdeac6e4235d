package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"delivery-manager/internal/domain"
	"delivery-manager/internal/service"
)

func mountAuthRoutes(public, authed EZ, svc *service.AuthService) {
	type loginIn struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	type loginOut struct {
		Token string               `json:"token"`
		User  *service.UserSummary `json:"user"`
	}
	RegisterAction(public, Action[loginIn, loginOut]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: BindJSON,
		Handler: func(c *gin.Context, _ domain.Caller, in *loginIn) (loginOut, error) {
			token, user, err := svc.Login(c.Request.Context(), in.Username, in.Password)
			if err != nil {
				return loginOut{}, err
			}
			return loginOut{Token: token, User: user}, nil
		},
	})

	RegisterAction(authed, Action[struct{}, *service.UserSummary]{
		Method: http.MethodGet,
		Path:   "/auth/me",
		Binder: BindNone,
		Handler: func(c *gin.Context, caller domain.Caller, _ *struct{}) (*service.UserSummary, error) {
			return svc.Me(c.Request.Context(), caller.ID)
		},
	})
}
