package service

import (
	"errors"

	"examind_backend/internal/grading"
	"examind_backend/internal/model"
	"examind_backend/internal/repository"
	"examind_backend/internal/util"

	"gorm.io/gorm"
)

type QuizService struct {
	QuizRepo     *repository.QuizRepository
	QuestionRepo *repository.QuestionRepository
}

func NewQuizService(quizRepo *repository.QuizRepository, questionRepo *repository.QuestionRepository) *QuizService {
	return &QuizService{
		QuizRepo:     quizRepo,
		QuestionRepo: questionRepo,
	}
}

type CreateQuizRequest struct {
	Title        string  `json:"title" binding:"required"`
	Description  string  `json:"description"`
	TimeLimit    int     `json:"timeLimit"`
	PassingScore float64 `json:"passingScore"`
}

func (s *QuizService) Create(creatorID uint, req *CreateQuizRequest) (*model.Quiz, error) {
	quiz := &model.Quiz{
		CreatorID:    creatorID,
		Title:        req.Title,
		Description:  req.Description,
		TimeLimit:    req.TimeLimit,
		PassingScore: req.PassingScore,
	}
	if quiz.PassingScore <= 0 {
		quiz.PassingScore = 60
	}
	if err := s.QuizRepo.Create(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

// Get returns the quiz with questions. When forStudent is set, answer keys
// and explanations are stripped so the payload is safe to show test takers.
func (s *QuizService) Get(id uint, forStudent bool) (*model.Quiz, error) {
	quiz, err := s.QuizRepo.FindByIDWithQuestions(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}

	if forStudent {
		if !quiz.IsPublished {
			return nil, util.ErrQuizNotPublished
		}
		for i := range quiz.Questions {
			quiz.Questions[i].CorrectAnswer = nil
			quiz.Questions[i].Explanation = ""
			quiz.Questions[i].QuestionData = grading.RedactQuestionData(quiz.Questions[i].QuestionData)
		}
	}
	return quiz, nil
}

func (s *QuizService) List(page, limit int, publishedOnly bool) ([]model.Quiz, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.QuizRepo.List(page, limit, publishedOnly)
}

type UpdateQuizRequest struct {
	Title        *string  `json:"title"`
	Description  *string  `json:"description"`
	TimeLimit    *int     `json:"timeLimit"`
	PassingScore *float64 `json:"passingScore"`
	IsPublished  *bool    `json:"isPublished"`
}

func (s *QuizService) Update(id, userID uint, isAdmin bool, req *UpdateQuizRequest) (*model.Quiz, error) {
	quiz, err := s.QuizRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	if quiz.CreatorID != userID && !isAdmin {
		return nil, util.ErrPermissionDenied
	}

	if req.Title != nil {
		quiz.Title = *req.Title
	}
	if req.Description != nil {
		quiz.Description = *req.Description
	}
	if req.TimeLimit != nil {
		quiz.TimeLimit = *req.TimeLimit
	}
	if req.PassingScore != nil {
		quiz.PassingScore = *req.PassingScore
	}
	if req.IsPublished != nil {
		quiz.IsPublished = *req.IsPublished
	}

	if err := s.QuizRepo.Update(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) Delete(id, userID uint, isAdmin bool) error {
	quiz, err := s.QuizRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrQuizNotFound
		}
		return err
	}
	if quiz.CreatorID != userID && !isAdmin {
		return util.ErrPermissionDenied
	}
	return s.QuizRepo.Delete(id)
}
