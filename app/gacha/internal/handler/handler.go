package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/cardwish/app/gacha/internal/model"
	"github.com/lk2023060901/cardwish/pkg/web"
)

// 业务错误码
const (
	codeValidation    = 1001
	codeConfiguration = 1002
	codeTransient     = 1003
)

// writeError 按错误三分类映射 HTTP 状态
//   - ValidationError → 400，消息面向调用方，指明输入问题
//   - ConfigurationError → 500，对外只给通用消息，不泄漏目录细节
//   - TransientError → 503，是否携带已产出的数据由调用点决定
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrValidation):
		web.Error(c, http.StatusBadRequest, codeValidation, err.Error())
	case errors.Is(err, model.ErrConfiguration):
		web.Error(c, http.StatusInternalServerError, codeConfiguration, "service unavailable")
	case errors.Is(err, model.ErrTransient):
		web.Error(c, http.StatusServiceUnavailable, codeTransient, "temporary storage failure, please retry")
	default:
		web.Error(c, http.StatusInternalServerError, codeConfiguration, "internal error")
	}
}
