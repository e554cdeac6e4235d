package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"delivery-manager/internal/core/apperr"
	"delivery-manager/internal/domain"
	"delivery-manager/internal/service"
	resp "delivery-manager/internal/transport/http/response"
)

func mountUploadRoutes(authed *gin.RouterGroup, svc *service.OrderService, maxBytes int64) {
	// multipart 上传走原生 handler，不套 Action
	authed.POST("/upload/order-image/:orderId", func(c *gin.Context) {
		fh, err := c.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, resp.Error(resp.CodeBadRequest, "no file uploaded"))
			return
		}
		if fh.Size > maxBytes {
			WriteErr(c, apperr.TooLarge("image exceeds the size limit"))
			return
		}
		f, err := fh.Open()
		if err != nil {
			WriteErr(c, apperr.Internal("open upload failed", err))
			return
		}
		defer f.Close()

		img, err := svc.AttachImage(
			c.Request.Context(),
			CallerFrom(c),
			c.Param("orderId"),
			c.PostForm("image_type"),
			fh.Filename,
			fh.Header.Get("Content-Type"),
			f,
			fh.Size,
		)
		if err != nil {
			WriteErr(c, err)
			return
		}
		c.JSON(http.StatusOK, resp.OK(img))
	})

	ez := New(authed)
	type signatureIn struct {
		SignatureData string `json:"signature_data"`
	}
	RegisterAction(ez, Action[signatureIn, *domain.OrderSignature]{
		Method: http.MethodPost,
		Path:   "/upload/signature/:orderId",
		Binder: BindJSON,
		Handler: func(c *gin.Context, caller domain.Caller, in *signatureIn) (*domain.OrderSignature, error) {
			return svc.AttachSignature(c.Request.Context(), caller, c.Param("orderId"), in.SignatureData)
		},
	})
}
