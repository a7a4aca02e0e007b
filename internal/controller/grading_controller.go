package controller

import (
	"errors"
	"strconv"

	"examind_backend/internal/model"
	"examind_backend/internal/service"
	"examind_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GradingController struct {
	GradingService *service.GradingService
}

func NewGradingController(gradingService *service.GradingService) *GradingController {
	return &GradingController{GradingService: gradingService}
}

// Submit godoc
// @Summary Submit quiz answers for grading
// @Description Stores the answers and grades everything gradable immediately
// @Tags submissions
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.SubmitQuizRequest true "answers"
// @Success 201 {object} util.Response{data=model.Submission}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/submissions [post]
func (c *GradingController) Submit(ctx *gin.Context) {
	var req service.SubmitQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	submission, err := c.GradingService.SubmitQuiz(ctx.Request.Context(), claims.UserID, &req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuizNotFound), errors.Is(err, util.ErrQuizNotPublished):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrGradingInProgress):
			util.Conflict(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, submission)
}

// Get godoc
// @Summary Get a graded submission
// @Tags submissions
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "submission public id"
// @Success 200 {object} util.Response{data=model.Submission}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/submissions/{id} [get]
func (c *GradingController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	isStaff := claims.Role == model.Teacher || claims.Role == model.Admin

	submission, err := c.GradingService.GetSubmission(ctx.Param("id"), claims.UserID, isStaff)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrSubmissionNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, submission)
}

// Regrade godoc
// @Summary Re-run automatic grading on a submission
// @Description Manually assigned scores are preserved
// @Tags submissions
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "submission public id"
// @Success 200 {object} util.Response{data=model.Submission}
// @Failure 404 {object} util.Response
// @Router /api/submissions/{id}/regrade [post]
func (c *GradingController) Regrade(ctx *gin.Context) {
	submission, err := c.GradingService.RegradeByPublicID(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrSubmissionNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrGradingInProgress):
			util.Conflict(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, submission)
}

// ManualQueue godoc
// @Summary List submissions waiting for manual grading
// @Tags grading
// @Produce  json
// @Security BearerAuth
// @Param   page  query int false "page"  default(1)
// @Param   limit query int false "limit" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/grading/manual [get]
func (c *GradingController) ManualQueue(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	submissions, total, err := c.GradingService.ListManualQueue(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: submissions, Total: total, Page: page, Limit: limit})
}

// GradeAnswer godoc
// @Summary Assign a manual score to an answer
// @Tags grading
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   answerId path int true "submission answer id"
// @Param   body body service.ManualGradeRequest true "score and comment"
// @Success 200 {object} util.Response{data=model.Submission}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/grading/answers/{answerId} [post]
func (c *GradingController) GradeAnswer(ctx *gin.Context) {
	var req service.ManualGradeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	answerID := util.MustParseUint(ctx.Param("answerId"))

	submission, err := c.GradingService.GradeAnswerManually(ctx.Request.Context(), claims.UserID, answerID, &req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrAnswerNotFound), errors.Is(err, util.ErrQuestionNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrNotManualGradable), errors.Is(err, util.ErrScoreOutOfRange):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, submission)
}

// Stats godoc
// @Summary Aggregate grading stats for a quiz
// @Tags grading
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "quiz id"
// @Success 200 {object} util.Response{data=repository.QuizStats}
// @Router /api/quizzes/{id}/stats [get]
func (c *GradingController) Stats(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	stats, err := c.GradingService.QuizStats(ctx.Request.Context(), id)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}
