package repository

import (
	"examind_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) Create(question *model.Question) error {
	return r.DB.Create(question).Error
}

func (r *QuestionRepository) FindByID(id uint) (*model.Question, error) {
	var question model.Question
	err := r.DB.First(&question, id).Error
	return &question, err
}

func (r *QuestionRepository) FindByQuizID(quizID uint) ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.Where("quiz_id = ?", quizID).
		Order("`order` ASC, id ASC").
		Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) Update(question *model.Question) error {
	return r.DB.Save(question).Error
}

func (r *QuestionRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Question{}, id).Error
}
