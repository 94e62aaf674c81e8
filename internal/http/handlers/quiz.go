package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/accentdojo/accentdojo-backend/internal/http/response"
	"github.com/accentdojo/accentdojo-backend/internal/modules/quiz"
	"github.com/accentdojo/accentdojo-backend/internal/observability"
	"github.com/accentdojo/accentdojo-backend/internal/platform/logger"
)

type QuizHandler struct {
	log    *logger.Logger
	engine *quiz.Engine
}

func NewQuizHandler(log *logger.Logger, engine *quiz.Engine) *QuizHandler {
	return &QuizHandler{log: log.With("handler", "QuizHandler"), engine: engine}
}

// NewQuiz returns the learner's next prompt, or null when nothing is available.
func (h *QuizHandler) NewQuiz(c *gin.Context) {
	userID, err := requestUserID(c)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	q, err := h.selectNext(c, userID)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	h.respondQuiz(c, q)
}

// NextQuiz reconciles the submitted answer and returns the next prompt.
// Reconcile and selection retry independently so a retried selection never
// resubmits an answer that already committed.
func (h *QuizHandler) NextQuiz(c *gin.Context) {
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

	ctx := c.Request.Context()
	err = retryTransient(ctx, h.log, "next_quiz.reconcile", func() error {
		return h.engine.Reconcile(ctx, userID, ans)
	})
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	observability.Current().IncQuizAnswered(ans.Kind())

	q, err := h.selectNext(c, userID)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	h.respondQuiz(c, q)
}

func (h *QuizHandler) Metrics(c *gin.Context) {
	userID, err := requestUserID(c)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	var report *quiz.MetricsReport
	err = retryTransient(c.Request.Context(), h.log, "me_metrics", func() error {
		var rerr error
		report, rerr = h.engine.Metrics(c.Request.Context(), userID)
		return rerr
	})
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, report)
}

func (h *QuizHandler) selectNext(c *gin.Context, userID int64) (quiz.Quiz, error) {
	var q quiz.Quiz
	err := retryTransient(c.Request.Context(), h.log, "new_quiz", func() error {
		var qerr error
		q, qerr = h.engine.NewQuiz(c.Request.Context(), userID)
		return qerr
	})
	return q, err
}

func (h *QuizHandler) respondQuiz(c *gin.Context, q quiz.Quiz) {
	if q == nil {
		response.RespondOK(c, nil)
		return
	}
	observability.Current().IncQuizOffered(q.Kind())
	response.RespondOK(c, q)
}
