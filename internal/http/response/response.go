package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/accentdojo/accentdojo-backend/internal/observability"
	"github.com/accentdojo/accentdojo-backend/internal/platform/apierr"
	"github.com/accentdojo/accentdojo-backend/internal/platform/ctxutil"
	"github.com/accentdojo/accentdojo-backend/internal/platform/logger"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondAPIError maps err through apierr. Server-side failures are logged and
// their text is not sent to the client.
func RespondAPIError(c *gin.Context, log *logger.Logger, err error) {
	status := apierr.StatusOf(err)
	code := apierr.CodeInternal
	if ae := apierr.As(err); ae != nil && ae.Code != "" {
		code = ae.Code
	} else if status == http.StatusNotFound {
		code = apierr.CodeNotFound
	}

	if status >= http.StatusInternalServerError {
		fields := []interface{}{"path", c.FullPath(), "code", code, "error", err}
		if td := ctxutil.GetTraceData(c.Request.Context()); td != nil {
			fields = append(fields, "request_id", td.RequestID)
		}
		if code == apierr.CodeDataIntegrity {
			observability.Current().IncDataIntegrity()
		}
		if log != nil {
			log.Error("Request failed", fields...)
		}
		c.AbortWithStatusJSON(status, ErrorEnvelope{Error: APIError{Message: http.StatusText(status), Code: code}})
		return
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{Error: APIError{Message: err.Error(), Code: code}})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
