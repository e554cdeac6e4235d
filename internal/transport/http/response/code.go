package response

import "net/http"

// 业务错误码直接基于 HTTP 语义
const (
	CodeOK               = 0
	CodeBadRequest       = 400
	CodeUnauthorized     = 401
	CodeForbidden        = 403
	CodeNotFound         = 404
	CodeConflict         = 409
	CodePayloadTooLarge  = 413
	CodeUnsupportedMedia = 415
	CodeServerError      = 500
)

var CodeMsgMap = map[int]string{
	CodeOK:               "OK",
	CodeBadRequest:       "Bad Request",
	CodeUnauthorized:     "Unauthorized",
	CodeForbidden:        "Forbidden",
	CodeNotFound:         "Not Found",
	CodeConflict:         "Conflict",
	CodePayloadTooLarge:  "Payload Too Large",
	CodeUnsupportedMedia: "Unsupported Media Type",
	CodeServerError:      "Internal Server Error",
}

// HTTPStatus maps a business code onto the wire status. Duplicate-username
// conflicts surface as a plain 400, matching the clients' expectations.
func HTTPStatus(code int) int {
	switch code {
	case CodeOK:
		return http.StatusOK
	case CodeConflict:
		return http.StatusBadRequest
	case CodeBadRequest, CodeUnauthorized, CodeForbidden, CodeNotFound,
		CodePayloadTooLarge, CodeUnsupportedMedia:
		return code
	default:
		return http.StatusInternalServerError
	}
}
