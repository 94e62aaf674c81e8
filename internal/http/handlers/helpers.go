package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/accentdojo/accentdojo-backend/internal/observability"
	"github.com/accentdojo/accentdojo-backend/internal/platform/apierr"
	"github.com/accentdojo/accentdojo-backend/internal/platform/ctxutil"
	"github.com/accentdojo/accentdojo-backend/internal/platform/logger"
)

const maxFormBytes = 1 << 20

func requestUserID(c *gin.Context) (int64, error) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == 0 {
		return 0, apierr.Unauthorized("no session")
	}
	return rd.UserID, nil
}

// postForm accepts both urlencoded and multipart bodies.
func postForm(c *gin.Context) (url.Values, error) {
	err := c.Request.ParseMultipartForm(maxFormBytes)
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, apierr.FormParse("malformed form: %v", err)
	}
	return c.Request.PostForm, nil
}

// retryTransient runs fn again once when it fails with a transient error
// and ctx still has time left.
func retryTransient(ctx context.Context, log *logger.Logger, route string, fn func() error) error {
	err := fn()
	if err == nil || !apierr.IsTransient(err) || ctx.Err() != nil {
		return err
	}
	observability.Current().IncTransientRetry(route)
	log.Warn("Retrying after transient error", "route", route, "error", err)
	return fn()
}
