package repository

import (
	"time"

	"examind_backend/internal/model"

	"gorm.io/gorm"
)

type SubmissionRepository struct {
	DB *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{DB: db}
}

func (r *SubmissionRepository) Create(submission *model.Submission) error {
	return r.DB.Create(submission).Error
}

func (r *SubmissionRepository) FindByID(id uint) (*model.Submission, error) {
	var submission model.Submission
	err := r.DB.First(&submission, id).Error
	return &submission, err
}

func (r *SubmissionRepository) FindByIDWithAnswers(id uint) (*model.Submission, error) {
	var submission model.Submission
	err := r.DB.Preload("Answers").First(&submission, id).Error
	return &submission, err
}

func (r *SubmissionRepository) FindByPublicID(publicID string) (*model.Submission, error) {
	var submission model.Submission
	err := r.DB.Preload("Answers").Where("public_id = ?", publicID).First(&submission).Error
	return &submission, err
}

func (r *SubmissionRepository) FindByUserAndQuiz(userID, quizID uint) ([]model.Submission, error) {
	var submissions []model.Submission
	err := r.DB.Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Order("created_at DESC").
		Find(&submissions).Error
	return submissions, err
}

func (r *SubmissionRepository) ListByQuiz(quizID uint, page, limit int) ([]model.Submission, int64, error) {
	var submissions []model.Submission
	var total int64

	query := r.DB.Model(&model.Submission{}).Where("quiz_id = ?", quizID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("User").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&submissions).Error
	return submissions, total, err
}

// ListNeedingManual returns submissions with at least one answer awaiting a
// human grader, oldest first.
func (r *SubmissionRepository) ListNeedingManual(page, limit int) ([]model.Submission, int64, error) {
	var submissions []model.Submission
	var total int64

	query := r.DB.Model(&model.Submission{}).Where("needs_manual = ?", true)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Answers", "needs_manual = ?", true).
		Preload("User").
		Order("created_at ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&submissions).Error
	return submissions, total, err
}

// ListPending returns submissions still waiting for grading, oldest first.
func (r *SubmissionRepository) ListPending(limit int) ([]model.Submission, error) {
	var submissions []model.Submission
	err := r.DB.Where("status = ?", model.SubmissionPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&submissions).Error
	return submissions, err
}

func (r *SubmissionRepository) UpdateAnswer(answer *model.SubmissionAnswer) error {
	return r.DB.Save(answer).Error
}

func (r *SubmissionRepository) FindAnswerByID(id uint) (*model.SubmissionAnswer, error) {
	var answer model.SubmissionAnswer
	err := r.DB.First(&answer, id).Error
	return &answer, err
}

// SaveGradingOutcome persists the per-answer results and the submission
// aggregate in one transaction so a crash cannot leave them inconsistent.
func (r *SubmissionRepository) SaveGradingOutcome(submission *model.Submission, answers []model.SubmissionAnswer) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		for i := range answers {
			if err := tx.Save(&answers[i]).Error; err != nil {
				return err
			}
		}
		now := time.Now()
		submission.GradedAt = &now
		return tx.Save(submission).Error
	})
}

// QuizStats aggregates graded submissions for a quiz.
type QuizStats struct {
	Submissions int64   `json:"submissions"`
	Passed      int64   `json:"passed"`
	AveragePct  float64 `json:"averagePercentage"`
	NeedsManual int64   `json:"needsManual"`
}

func (r *SubmissionRepository) StatsByQuiz(quizID uint) (*QuizStats, error) {
	var stats QuizStats

	base := r.DB.Model(&model.Submission{}).
		Where("quiz_id = ? AND status = ?", quizID, model.SubmissionGraded)

	if err := base.Session(&gorm.Session{}).Count(&stats.Submissions).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).Where("passed = ?", true).Count(&stats.Passed).Error; err != nil {
		return nil, err
	}
	if stats.Submissions > 0 {
		var avg *float64
		if err := base.Session(&gorm.Session{}).Select("AVG(percentage)").Scan(&avg).Error; err != nil {
			return nil, err
		}
		if avg != nil {
			stats.AveragePct = *avg
		}
	}
	if err := r.DB.Model(&model.Submission{}).
		Where("quiz_id = ? AND needs_manual = ?", quizID, true).
		Count(&stats.NeedsManual).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}
