package model

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

const (
	SubmissionPending = "pending"
	SubmissionGraded  = "graded"
	SubmissionManual  = "needs_manual"
)

// swagger:model Submission
type Submission struct {
	BaseModel
	PublicID    string             `gorm:"size:36;uniqueIndex" json:"publicId"`
	QuizID      uint               `gorm:"index;type:bigint unsigned" json:"quizId"`
	UserID      uint               `gorm:"index;type:bigint unsigned" json:"userId"`
	Status      string             `gorm:"size:20;default:pending" json:"status"`
	TotalEarned float64            `json:"totalEarned"`
	MaxPossible float64            `json:"maxPossible"`
	Percentage  float64            `json:"percentage"`
	Passed      bool               `json:"passed"`
	NeedsManual bool               `json:"needsManual"`
	GradedAt    *time.Time         `json:"gradedAt,omitempty"`
	Answers     []SubmissionAnswer `gorm:"foreignKey:SubmissionID" json:"answers,omitempty"`
	User        *User              `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (s *Submission) BeforeCreate(tx *gorm.DB) error {
	if s.PublicID == "" {
		s.PublicID = GenerateUUID()
	}
	return nil
}

func (Submission) TableName() string {
	return "submissions"
}

// SubmissionAnswer is one per-question attempt inside a submission. RawAnswer
// keeps the payload exactly as submitted so re-grading stays idempotent.
// swagger:model SubmissionAnswer
type SubmissionAnswer struct {
	BaseModel
	SubmissionID  uint            `gorm:"index;type:bigint unsigned" json:"submissionId"`
	QuestionID    uint            `gorm:"index;type:bigint unsigned" json:"questionId"`
	RawAnswer     json.RawMessage `gorm:"type:json" json:"rawAnswer"`
	IsCorrect     bool            `json:"isCorrect"`
	PointsEarned  float64         `json:"pointsEarned"`
	MaxPoints     float64         `json:"maxPoints"`
	Feedback      string          `gorm:"type:text" json:"feedback"`
	NeedsManual   bool            `json:"needsManual"`
	ManualScore   *float64        `json:"manualScore,omitempty"`
	ManualComment string          `gorm:"type:text" json:"manualComment,omitempty"`
	GraderID      *uint           `json:"graderId,omitempty"`
}

func (SubmissionAnswer) TableName() string {
	return "submission_answers"
}
