package apperr

// 统一业务错误：code 跟随 HTTP 语义，transport 层负责映射到状态码
const (
	CodeBadRequest       = 400
	CodeUnauthorized     = 401
	CodeForbidden        = 403
	CodeNotFound         = 404
	CodeConflict         = 409
	CodePayloadTooLarge  = 413
	CodeUnsupportedMedia = 415
	CodeInternal         = 500
)

type Error struct {
	Code int
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "application error"
}

func (e *Error) Unwrap() error { return e.Err }

func BadRequest(msg string) error   { return &Error{Code: CodeBadRequest, Msg: msg} }
func Unauthorized(msg string) error { return &Error{Code: CodeUnauthorized, Msg: msg} }
func Forbidden(msg string) error    { return &Error{Code: CodeForbidden, Msg: msg} }
func NotFound(msg string) error     { return &Error{Code: CodeNotFound, Msg: msg} }
func Conflict(msg string) error     { return &Error{Code: CodeConflict, Msg: msg} }
func TooLarge(msg string) error     { return &Error{Code: CodePayloadTooLarge, Msg: msg} }
func Unsupported(msg string) error  { return &Error{Code: CodeUnsupportedMedia, Msg: msg} }
func Internal(msg string, err error) error {
	return &Error{Code: CodeInternal, Msg: msg, Err: err}
}
