package handlers

import (
	"encoding/json"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/accentdojo/accentdojo-backend/internal/http/response"
	"github.com/accentdojo/accentdojo-backend/internal/modules/quiz"
	"github.com/accentdojo/accentdojo-backend/internal/modules/testmode"
	"github.com/accentdojo/accentdojo-backend/internal/platform/logger"
)

type TestModeHandler struct {
	log *logger.Logger
	uc  testmode.Usecases
}

func NewTestModeHandler(log *logger.Logger, uc testmode.Usecases) *TestModeHandler {
	return &TestModeHandler{log: log.With("handler", "TestModeHandler"), uc: uc}
}

// testItem adds "test_item": true to a quiz payload.
type testItem struct {
	quiz.Quiz
}

func (t testItem) MarshalJSON() ([]byte, error) {
	raw, err := json.Marshal(t.Quiz)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	fields["test_item"] = json.RawMessage("true")
	return json.Marshal(fields)
}

func (h *TestModeHandler) Next(c *gin.Context) {
	userID, err := requestUserID(c)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	q, err := h.uc.Next(c.Request.Context(), userID, c.Param("event"))
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	if q == nil {
		response.RespondOK(c, nil)
		return
	}
	response.RespondOK(c, testItem{q})
}

// Answer takes the regular answer form plus an optional JSON "payload" field.
func (h *TestModeHandler) Answer(c *gin.Context) {
	userID, err := requestUserID(c)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	form, err := postForm(c)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	ans, err := quiz.ParseAnswer(form)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	var payload json.RawMessage
	if raw := strings.TrimSpace(form.Get("payload")); raw != "" {
		payload = json.RawMessage(raw)
	}
	if err := h.uc.Answer(c.Request.Context(), userID, c.Param("event"), ans, payload); err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
