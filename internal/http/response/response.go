package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequestIDKey is the gin context key the request id middleware sets.
const RequestIDKey = "request_id"

const successMsg = "success"

// Response is the envelope of every API reply. Pagination is only present
// on listings.
type Response struct {
	StatusCode int         `json:"status_code"`
	Msg        string      `json:"msg"`
	Data       interface{} `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination describes one page of a listing.
type Pagination struct {
	Page      int   `json:"page"`
	PageSize  int   `json:"page_size"`
	Total     int64 `json:"total"`
	TotalPage int64 `json:"total_page"`
}

func write(c *gin.Context, body Response) {
	c.JSON(http.StatusOK, body)
}

// Success replies with data and status code 0.
func Success(c *gin.Context, data interface{}) {
	write(c, Response{StatusCode: CodeOK, Msg: successMsg, Data: data})
}

// SuccessWithMsg replies with data and a translated message.
func SuccessWithMsg(c *gin.Context, msg string, data interface{}) {
	write(c, Response{StatusCode: CodeOK, Msg: msg, Data: data})
}

// SuccessWithPage replies with one page of a listing.
func SuccessWithPage(c *gin.Context, data interface{}, pagination Pagination) {
	write(c, Response{StatusCode: CodeOK, Msg: successMsg, Data: data, Pagination: &pagination})
}

// Error replies with a business error; the request id is attached when known.
func Error(c *gin.Context, statusCode int, msg string) {
	ErrorWithData(c, statusCode, msg, nil)
}

// ErrorWithData is Error with extra details, such as the invalid field.
func ErrorWithData(c *gin.Context, statusCode int, msg string, data interface{}) {
	write(c, Response{StatusCode: statusCode, Msg: msg, Data: withRequestID(c, data)})
}

func NotFound(c *gin.Context, msg string) {
	Error(c, CodeNotFound, msg)
}

func Unauthorized(c *gin.Context, msg string) {
	Error(c, CodeUnauthorized, msg)
}

func Forbidden(c *gin.Context, msg string) {
	Error(c, CodeForbidden, msg)
}

func BadRequest(c *gin.Context, msg string) {
	Error(c, CodeBadRequest, msg)
}

// withRequestID folds the request id into error details so a customer can
// quote it. Map details gain a request_id key unless they have one; other
// values are nested under data.
func withRequestID(c *gin.Context, data interface{}) interface{} {
	if c == nil {
		return data
	}
	requestID := c.GetString(RequestIDKey)
	if requestID == "" {
		return data
	}
	var details map[string]interface{}
	switch v := data.(type) {
	case nil:
		return gin.H{RequestIDKey: requestID}
	case gin.H:
		details = v
	case map[string]interface{}:
		details = v
	default:
		return gin.H{RequestIDKey: requestID, "data": data}
	}
	if _, ok := details[RequestIDKey]; !ok {
		details[RequestIDKey] = requestID
	}
	return details
}
