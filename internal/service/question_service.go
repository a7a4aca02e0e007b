package service

import (
	"encoding/json"
	"errors"
	"fmt"

	"examind_backend/internal/grading"
	"examind_backend/internal/model"
	"examind_backend/internal/repository"
	"examind_backend/internal/util"

	"gorm.io/gorm"
)

type QuestionService struct {
	QuestionRepo *repository.QuestionRepository
	QuizRepo     *repository.QuizRepository
}

func NewQuestionService(questionRepo *repository.QuestionRepository, quizRepo *repository.QuizRepository) *QuestionService {
	return &QuestionService{
		QuestionRepo: questionRepo,
		QuizRepo:     quizRepo,
	}
}

type CreateQuestionRequest struct {
	QuizID        uint            `json:"quizId" binding:"required"`
	QuestionType  string          `json:"questionType" binding:"required"`
	Content       string          `json:"content" binding:"required"`
	QuestionData  json.RawMessage `json:"questionData"`
	CorrectAnswer json.RawMessage `json:"correctAnswer"`
	Points        float64         `json:"points"`
	Order         int             `json:"order"`
	Explanation   string          `json:"explanation"`
}

func (s *QuestionService) Create(userID uint, isAdmin bool, req *CreateQuestionRequest) (*model.Question, error) {
	if !grading.QuestionType(req.QuestionType).Valid() {
		return nil, fmt.Errorf("unsupported question type %q", req.QuestionType)
	}

	quiz, err := s.QuizRepo.FindByID(req.QuizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	if quiz.CreatorID != userID && !isAdmin {
		return nil, util.ErrPermissionDenied
	}

	question := &model.Question{
		QuizID:        req.QuizID,
		QuestionType:  req.QuestionType,
		Content:       req.Content,
		QuestionData:  req.QuestionData,
		CorrectAnswer: req.CorrectAnswer,
		Points:        req.Points,
		Order:         req.Order,
		Explanation:   req.Explanation,
	}
	if err := s.QuestionRepo.Create(question); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *QuestionService) Get(id uint) (*model.Question, error) {
	question, err := s.QuestionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}
	return question, nil
}

type UpdateQuestionRequest struct {
	Content       *string         `json:"content"`
	QuestionData  json.RawMessage `json:"questionData"`
	CorrectAnswer json.RawMessage `json:"correctAnswer"`
	Points        *float64        `json:"points"`
	Order         *int            `json:"order"`
	Explanation   *string         `json:"explanation"`
}

func (s *QuestionService) Update(id, userID uint, isAdmin bool, req *UpdateQuestionRequest) (*model.Question, error) {
	question, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := s.checkOwnership(question.QuizID, userID, isAdmin); err != nil {
		return nil, err
	}

	if req.Content != nil {
		question.Content = *req.Content
	}
	if req.QuestionData != nil {
		question.QuestionData = req.QuestionData
	}
	if req.CorrectAnswer != nil {
		question.CorrectAnswer = req.CorrectAnswer
	}
	if req.Points != nil {
		question.Points = *req.Points
	}
	if req.Order != nil {
		question.Order = *req.Order
	}
	if req.Explanation != nil {
		question.Explanation = *req.Explanation
	}

	if err := s.QuestionRepo.Update(question); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *QuestionService) Delete(id, userID uint, isAdmin bool) error {
	question, err := s.Get(id)
	if err != nil {
		return err
	}
	if err := s.checkOwnership(question.QuizID, userID, isAdmin); err != nil {
		return err
	}
	return s.QuestionRepo.Delete(id)
}

func (s *QuestionService) checkOwnership(quizID, userID uint, isAdmin bool) error {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrQuizNotFound
		}
		return err
	}
	if quiz.CreatorID != userID && !isAdmin {
		return util.ErrPermissionDenied
	}
	return nil
}
