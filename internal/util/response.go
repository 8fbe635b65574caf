package util

import (
	"net/http"

	"github.com/KauaAraujodS/organiza-app/internal/apperror"

	"github.com/gin-gonic/gin"
)

// Response is the data payload of the standard JSON envelope.
type Response map[string]interface{}

// Business codes carried alongside the HTTP status.
const (
	CodeOK           = 0
	CodeInvalidParam = 40001
	CodeAuth         = 40101
	CodeNotFound     = 40401
	CodePolicy       = 40901
	CodeServerErr    = 50001
)

// Success 统一成功返回
func Success(c *gin.Context, data Response) {
	c.JSON(http.StatusOK, gin.H{
		"code": CodeOK,
		"data": data,
	})
}

// Error 统一错误返回
func Error(c *gin.Context, httpStatus int, code int, msg string) {
	c.JSON(httpStatus, gin.H{
		"code":    code,
		"message": msg,
	})
}

// ErrorFrom maps a business error (apperror) to the envelope; anything
// else becomes a generic 500.
func ErrorFrom(c *gin.Context, err error) {
	if e, ok := apperror.As(err); ok {
		code := CodeInvalidParam
		switch e.Kind {
		case apperror.KindNotFound:
			code = CodeNotFound
		case apperror.KindPolicy:
			code = CodePolicy
		case apperror.KindConsistency:
			code = CodeServerErr
		}
		Error(c, e.Status(), code, e.Message)
		return
	}
	Error(c, http.StatusInternalServerError, CodeServerErr, "Erro interno. Tente novamente.")
}
