package model

import "encoding/json"

// Question stores its type-specific payload and correct answer as raw JSON.
// Depending on which save path authored the question, the correct answer may
// live inside QuestionData or in the legacy CorrectAnswer column; the grading
// engine consults both.
// swagger:model Question
type Question struct {
	BaseModel
	QuizID        uint            `gorm:"index;type:bigint unsigned" json:"quizId"`
	QuestionType  string          `gorm:"size:50;not null" json:"questionType"` // single_choice, multiple_choice, true_false, numerical, fill_blank, short_answer, matching, ordering, dropdown, coding
	Content       string          `gorm:"type:text;not null" json:"content"` // stem
	QuestionData  json.RawMessage `gorm:"type:json" json:"questionData"`
	CorrectAnswer json.RawMessage `gorm:"type:json" json:"correctAnswer"`
	Points        float64         `gorm:"default:0" json:"points"`
	Order         int             `gorm:"default:0" json:"order"`
	Explanation   string          `gorm:"type:text" json:"explanation"`
}

func (Question) TableName() string {
	return "questions"
}
