package utils

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// JSONResponse defines the uniform structure for API responses.
type JSONResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Respond writes a JSON response with the given status code.
func Respond(ctx *gin.Context, status int, code int, message string, data interface{}) {
	ctx.JSON(status, JSONResponse{
		Code:    code,
		Message: message,
		Data:    data,
	})
}

// Success returns a standard success response.
func Success(ctx *gin.Context, data interface{}) {
	Respond(ctx, http.StatusOK, 0, "success", data)
}

// Error returns a standard error response and stops the handler chain.
func Error(ctx *gin.Context, status int, code int, message string) {
	Respond(ctx, status, code, message, nil)
	ctx.Abort()
}

// ServeCached writes the cached envelope stored under key, if any.
func ServeCached(ctx *gin.Context, key string) bool {
	b, ok := CacheGet(ctx.Request.Context(), key)
	if !ok {
		return false
	}
	ctx.Data(http.StatusOK, "application/json; charset=utf-8", b)
	return true
}

// SuccessCached answers like Success and stores the same envelope under key for ttl.
func SuccessCached(ctx *gin.Context, key string, data interface{}, ttl time.Duration) {
	CacheSet(ctx.Request.Context(), key, JSONResponse{Code: 0, Message: "success", Data: data}, ttl)
	Success(ctx, data)
}
