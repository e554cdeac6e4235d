package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"delivery-manager/internal/domain"
	"delivery-manager/internal/service"
)

func mountOrderRoutes(authed, staff, courier EZ, svc *service.OrderService) {
	RegisterAction(authed, Action[service.ListQuery, []service.OrderView]{
		Method: http.MethodGet,
		Path:   "/orders",
		Binder: BindQuery,
		Handler: func(c *gin.Context, caller domain.Caller, in *service.ListQuery) ([]service.OrderView, error) {
			return svc.List(c.Request.Context(), caller, *in)
		},
	})

	RegisterAction(authed, Action[struct{}, *service.OrderFull]{
		Method: http.MethodGet,
		Path:   "/orders/:id",
		Binder: BindNone,
		Handler: func(c *gin.Context, caller domain.Caller, _ *struct{}) (*service.OrderFull, error) {
			return svc.Get(c.Request.Context(), caller, c.Param("id"))
		},
	})

	RegisterAction(staff, Action[service.CreateOrderInput, *domain.Order]{
		Method: http.MethodPost,
		Path:   "/orders",
		Binder: BindJSON,
		Handler: func(c *gin.Context, caller domain.Caller, in *service.CreateOrderInput) (*domain.Order, error) {
			return svc.Create(c.Request.Context(), caller, *in)
		},
	})

	RegisterAction(authed, Action[service.UpdateOrderInput, gin.H]{
		Method: http.MethodPut,
		Path:   "/orders/:id",
		Binder: BindJSON,
		Handler: func(c *gin.Context, caller domain.Caller, in *service.UpdateOrderInput) (gin.H, error) {
			id := c.Param("id")
			if err := svc.Update(c.Request.Context(), caller, id, *in); err != nil {
				return nil, err
			}
			return gin.H{"id": id}, nil
		},
	})

	type assignIn struct {
		AssignedTo string `json:"assigned_to"`
	}
	RegisterAction(staff, Action[assignIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/orders/:id/assign",
		Binder: BindJSON,
		Handler: func(c *gin.Context, _ domain.Caller, in *assignIn) (gin.H, error) {
			id := c.Param("id")
			if err := svc.Assign(c.Request.Context(), id, in.AssignedTo); err != nil {
				return nil, err
			}
			return gin.H{"id": id}, nil
		},
	})

	type statusIn struct {
		Status string `json:"status"`
	}
	RegisterAction(authed, Action[statusIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/orders/:id/status",
		Binder: BindJSON,
		Handler: func(c *gin.Context, caller domain.Caller, in *statusIn) (gin.H, error) {
			id := c.Param("id")
			if err := svc.SetStatus(c.Request.Context(), caller, id, in.Status); err != nil {
				return nil, err
			}
			return gin.H{"id": id, "status": in.Status}, nil
		},
	})

	RegisterAction(courier, Action[struct{}, gin.H]{
		Method: http.MethodPost,
		Path:   "/orders/:id/receive",
		Binder: BindNone,
		Handler: func(c *gin.Context, caller domain.Caller, _ *struct{}) (gin.H, error) {
			id := c.Param("id")
			if err := svc.Receive(c.Request.Context(), caller, id); err != nil {
				return nil, err
			}
			return gin.H{"id": id}, nil
		},
	})

	type paymentIn struct {
		Amount float64 `json:"amount"`
	}
	RegisterAction(authed, Action[paymentIn, *domain.OrderPayment]{
		Method: http.MethodPost,
		Path:   "/orders/:id/payment",
		Binder: BindJSON,
		Handler: func(c *gin.Context, caller domain.Caller, in *paymentIn) (*domain.OrderPayment, error) {
			return svc.AddPayment(c.Request.Context(), caller, c.Param("id"), in.Amount)
		},
	})
}
