package controller

import (
	"errors"

	"examind_backend/internal/model"
	"examind_backend/internal/service"
	"examind_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuestionController struct {
	QuestionService *service.QuestionService
}

func NewQuestionController(questionService *service.QuestionService) *QuestionController {
	return &QuestionController{QuestionService: questionService}
}

// Create godoc
// @Summary Add a question to a quiz
// @Tags questions
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.CreateQuestionRequest true "question"
// @Success 201 {object} util.Response{data=model.Question}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /api/questions [post]
func (c *QuestionController) Create(ctx *gin.Context) {
	var req service.CreateQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	question, err := c.QuestionService.Create(claims.UserID, claims.Role == model.Admin, &req)
	if err != nil {
		respondQuestionError(ctx, err)
		return
	}
	util.Created(ctx, question)
}

// Get godoc
// @Summary Get a question including its answer key
// @Tags questions
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "question id"
// @Success 200 {object} util.Response{data=model.Question}
// @Failure 404 {object} util.Response
// @Router /api/questions/{id} [get]
func (c *QuestionController) Get(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	question, err := c.QuestionService.Get(id)
	if err != nil {
		respondQuestionError(ctx, err)
		return
	}
	util.Success(ctx, question)
}

// Update godoc
// @Summary Update a question
// @Tags questions
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id   path int true "question id"
// @Param   body body service.UpdateQuestionRequest true "fields to update"
// @Success 200 {object} util.Response{data=model.Question}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/questions/{id} [put]
func (c *QuestionController) Update(ctx *gin.Context) {
	var req service.UpdateQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	id := util.MustParseUint(ctx.Param("id"))
	claims := util.GetUserFromContext(ctx)

	question, err := c.QuestionService.Update(id, claims.UserID, claims.Role == model.Admin, &req)
	if err != nil {
		respondQuestionError(ctx, err)
		return
	}
	util.Success(ctx, question)
}

// Delete godoc
// @Summary Delete a question
// @Tags questions
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "question id"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/questions/{id} [delete]
func (c *QuestionController) Delete(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	claims := util.GetUserFromContext(ctx)

	if err := c.QuestionService.Delete(id, claims.UserID, claims.Role == model.Admin); err != nil {
		respondQuestionError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

func respondQuestionError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrQuestionNotFound), errors.Is(err, util.ErrQuizNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	default:
		util.BadRequest(ctx, err.Error())
	}
}
