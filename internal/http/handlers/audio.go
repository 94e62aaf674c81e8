package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/accentdojo/accentdojo-backend/internal/http/response"
	"github.com/accentdojo/accentdojo-backend/internal/platform/apierr"
	"github.com/accentdojo/accentdojo-backend/internal/platform/logger"
	"github.com/accentdojo/accentdojo-backend/internal/services"
)

type AudioHandler struct {
	log    *logger.Logger
	audio  services.AudioService
	maxAge time.Duration
}

func NewAudioHandler(log *logger.Logger, audio services.AudioService, maxAge time.Duration) *AudioHandler {
	return &AudioHandler{log: log.With("handler", "AudioHandler"), audio: audio, maxAge: maxAge}
}

// Serve streams /api/audio/<id>.mp3.
func (h *AudioHandler) Serve(c *gin.Context) {
	raw := strings.TrimSuffix(c.Param("file"), ".mp3")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		response.RespondAPIError(c, h.log, apierr.NotFound("audio %q", c.Param("file")))
		return
	}
	obj, err := h.audio.Open(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	defer obj.Body.Close()

	headers := map[string]string{
		"Cache-Control": fmt.Sprintf("private, max-age=%d", int(h.maxAge.Seconds())),
	}
	c.DataFromReader(http.StatusOK, obj.Size, obj.ContentType, obj.Body, headers)
}
