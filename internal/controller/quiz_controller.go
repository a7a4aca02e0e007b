package controller

import (
	"errors"
	"strconv"

	"examind_backend/internal/model"
	"examind_backend/internal/service"
	"examind_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

// Create godoc
// @Summary Create a quiz
// @Tags quizzes
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.CreateQuizRequest true "quiz"
// @Success 201 {object} util.Response{data=model.Quiz}
// @Failure 400 {object} util.Response
// @Router /api/quizzes [post]
func (c *QuizController) Create(ctx *gin.Context) {
	var req service.CreateQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	quiz, err := c.QuizService.Create(claims.UserID, &req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, quiz)
}

// Get godoc
// @Summary Get a quiz with its questions
// @Description Students get the published quiz without answer keys; staff see everything
// @Tags quizzes
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "quiz id"
// @Success 200 {object} util.Response{data=model.Quiz}
// @Failure 404 {object} util.Response
// @Router /api/quizzes/{id} [get]
func (c *QuizController) Get(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	claims := util.GetUserFromContext(ctx)
	forStudent := claims.Role == model.Student

	quiz, err := c.QuizService.Get(id, forStudent)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuizNotFound), errors.Is(err, util.ErrQuizNotPublished):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, quiz)
}

// List godoc
// @Summary List quizzes
// @Tags quizzes
// @Produce  json
// @Security BearerAuth
// @Param   page  query int false "page"  default(1)
// @Param   limit query int false "limit" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/quizzes [get]
func (c *QuizController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	claims := util.GetUserFromContext(ctx)
	publishedOnly := claims.Role == model.Student

	quizzes, total, err := c.QuizService.List(page, limit, publishedOnly)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: quizzes, Total: total, Page: page, Limit: limit})
}

// Update godoc
// @Summary Update a quiz
// @Tags quizzes
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id   path int true "quiz id"
// @Param   body body service.UpdateQuizRequest true "fields to update"
// @Success 200 {object} util.Response{data=model.Quiz}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/quizzes/{id} [put]
func (c *QuizController) Update(ctx *gin.Context) {
	var req service.UpdateQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	id := util.MustParseUint(ctx.Param("id"))
	claims := util.GetUserFromContext(ctx)

	quiz, err := c.QuizService.Update(id, claims.UserID, claims.Role == model.Admin, &req)
	if err != nil {
		respondQuizError(ctx, err)
		return
	}
	util.Success(ctx, quiz)
}

// Delete godoc
// @Summary Delete a quiz
// @Tags quizzes
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "quiz id"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/quizzes/{id} [delete]
func (c *QuizController) Delete(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	claims := util.GetUserFromContext(ctx)

	if err := c.QuizService.Delete(id, claims.UserID, claims.Role == model.Admin); err != nil {
		respondQuizError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

func respondQuizError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrQuizNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	default:
		util.LogInternalError(ctx, err)
	}
}
