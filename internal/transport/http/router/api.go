package router

import (
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"delivery-manager/internal/core/auth"
	"delivery-manager/internal/domain"
	"delivery-manager/internal/service"
	mdw "delivery-manager/internal/transport/http/middleware"
)

type Deps struct {
	Auth   *service.AuthService
	Users  *service.UserService
	Orders *service.OrderService

	UploadDir      string
	MaxUploadBytes int64
}

func NewAPIEngine(l *zap.Logger, jwter *auth.JWTer, d Deps) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(16<<20),
		mdw.Timeout(10*time.Second),
		ginzap.RecoveryWithZap(l, true),
		mdw.Metrics(),
		mdw.AccessLog(l),
		cors.Default(),
	)

	// 健康检查 / 指标 / 静态上传目录
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.Static("/uploads", d.UploadDir)

	// 分组：公共 / 登录 / 按角色
	public := r.Group("")
	authed := r.Group("", mdw.AuthJWT(jwter))
	staff := r.Group("", mdw.AuthJWT(jwter, domain.RoleAdmin, domain.RoleEmployee))
	admin := r.Group("", mdw.AuthJWT(jwter, domain.RoleAdmin))
	courier := r.Group("", mdw.AuthJWT(jwter, domain.RoleCourier))

	mountAuthRoutes(New(public), New(authed), d.Auth)
	mountUserRoutes(New(staff), New(admin), d.Users)
	mountOrderRoutes(New(authed), New(staff), New(courier), d.Orders)
	mountUploadRoutes(authed, d.Orders, d.MaxUploadBytes)

	return r
}
